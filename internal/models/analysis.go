package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentAnalysis is the structured briefing the provider produced for one
// document. Exactly one analysis exists per document; re-running analysis
// replaces it rather than appending.
type ContentAnalysis struct {
	ID                    string         `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID            string         `gorm:"type:uuid;uniqueIndex;not null" json:"document_id"`
	CoreFinding           string         `gorm:"type:text" json:"core_finding"`
	Sections              datatypes.JSON `json:"document_sections"`
	KeyDataPoints         datatypes.JSON `json:"key_data_points"`
	ExecutiveImplications datatypes.JSON `json:"executive_implications"`
	Methodology           datatypes.JSON `json:"methodology"`
	QuotableFacts         datatypes.JSON `json:"quotable_facts"`
	CustomInstructions    string         `gorm:"type:text" json:"custom_instructions,omitempty"`
	// Raw preserves the provider's verbatim JSON output; generation and
	// refinement feed this back into prompts unmodified.
	Raw       string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *ContentAnalysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
