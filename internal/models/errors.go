package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Stage names the pipeline step that failed (upload, analyze, generate,
	// refine) so clients can tell the user which step to retry.
	Stage string
	Err   error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithStage returns a copy of the error annotated with the pipeline stage.
func (e *AppError) WithStage(stage string) *AppError {
	clone := *e
	clone.Stage = stage
	return &clone
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewExtractionError wraps a failure to pull usable text out of a PDF or URL.
func NewExtractionError(message string, err error) *AppError {
	return &AppError{
		Code:    "EXTRACTION_ERROR",
		Message: message,
		Err:     err,
	}
}

// NewStateError signals a pipeline step attempted out of order, e.g.
// generating a post for a document that has no analysis yet.
func NewStateError(message string) *AppError {
	return &AppError{
		Code:    "STATE_ERROR",
		Message: message,
	}
}

// NewProviderError wraps a failed call to the configured LLM provider.
func NewProviderError(message string, err error) *AppError {
	return &AppError{
		Code:    "PROVIDER_ERROR",
		Message: message,
		Err:     err,
	}
}

// NewParseError signals that the provider returned structurally invalid
// output where structured data was requested.
func NewParseError(message string, err error) *AppError {
	return &AppError{
		Code:    "PARSE_ERROR",
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps an application error to the HTTP status it should be
// served with. Ownership failures deliberately surface as 404 so resource
// existence is never leaked across accounts.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "EXTRACTION_ERROR":
		return fiber.StatusUnprocessableEntity
	case "STATE_ERROR":
		return fiber.StatusConflict
	case "PROVIDER_ERROR", "PARSE_ERROR":
		return fiber.StatusBadGateway
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "NOT_FOUND":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Stage: appErr.Stage,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
