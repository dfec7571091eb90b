package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"draftline/internal/config"
	"draftline/internal/models"
	"draftline/internal/observability"
)

// Request is one completion call. Temperature and MaxTokens vary per pipeline
// stage; Stage labels the call for metrics.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	Stage       string
}

// Provider sends a (system, user) prompt pair to an LLM backend and returns
// the generated text.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Settings are per-stage sampling parameters. Analysis wants consistency,
// generation wants variety.
type Settings struct {
	Temperature float64
	MaxTokens   int
}

var (
	SummarizeSettings = Settings{Temperature: 0.3, MaxTokens: 400}
	AnalyzeSettings   = Settings{Temperature: 0.5, MaxTokens: 2000}
	GenerateSettings  = Settings{Temperature: 0.85, MaxTokens: 1200}
	RefineSettings    = Settings{Temperature: 0.7, MaxTokens: 1500}
)

const requestTimeout = 120 * time.Second

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chatClient speaks the OpenAI chat-completions wire format. Both supported
// vendors expose the same protocol, so one client serves both.
type chatClient struct {
	name    string
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewOpenAI returns a provider backed by the OpenAI API.
func NewOpenAI(apiKey string) Provider {
	return &chatClient{
		name:    config.ProviderOpenAI,
		baseURL: "https://api.openai.com/v1",
		model:   "gpt-4o",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// NewDeepSeek returns a provider backed by the DeepSeek API.
func NewDeepSeek(apiKey string) Provider {
	return &chatClient{
		name:    config.ProviderDeepSeek,
		baseURL: "https://api.deepseek.com",
		model:   "deepseek-chat",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// New selects a provider by name. An empty API key falls back to the mock
// provider so the app stays usable without credentials.
func New(provider, apiKey string) (Provider, error) {
	if provider == config.ProviderMock || apiKey == "" {
		return NewMock(), nil
	}
	switch provider {
	case config.ProviderOpenAI:
		return NewOpenAI(apiKey), nil
	case config.ProviderDeepSeek:
		return NewDeepSeek(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func (c *chatClient) Name() string  { return c.name }
func (c *chatClient) Model() string { return c.model }

func (c *chatClient) Complete(ctx context.Context, req Request) (string, error) {
	done := observability.TrackProviderRequest(c.name, req.Stage)
	defer done()

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		observability.ProviderErrors.WithLabelValues(c.name, req.Stage).Inc()
		return "", models.NewProviderError(fmt.Sprintf("%s request failed", c.name), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ProviderErrors.WithLabelValues(c.name, req.Stage).Inc()
		return "", models.NewProviderError(fmt.Sprintf("%s response unreadable", c.name), err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.ProviderErrors.WithLabelValues(c.name, req.Stage).Inc()
		return "", models.NewProviderError(
			fmt.Sprintf("%s API error (HTTP %d): %s", c.name, resp.StatusCode, summarizeBody(respBody)), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		observability.ProviderErrors.WithLabelValues(c.name, req.Stage).Inc()
		return "", models.NewProviderError(fmt.Sprintf("%s returned malformed response", c.name), err)
	}
	if len(parsed.Choices) == 0 {
		observability.ProviderErrors.WithLabelValues(c.name, req.Stage).Inc()
		msg := "no choices in response"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", models.NewProviderError(fmt.Sprintf("%s: %s", c.name, msg), nil)
	}

	return parsed.Choices[0].Message.Content, nil
}

func summarizeBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		cut := 300
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// CompleteJSON runs a completion and validates that the reply is well-formed
// JSON after stripping any markdown code fences. Malformed output fails with
// a parse error instead of reaching the caller.
func CompleteJSON(ctx context.Context, p Provider, req Request) (string, error) {
	raw, err := p.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	cleaned := StripCodeFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return "", models.NewParseError(
			fmt.Sprintf("%s returned invalid JSON where structured output was required", p.Name()), nil)
	}
	return cleaned, nil
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag. Models habitually wrap JSON replies in one.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json")
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
