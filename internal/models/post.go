package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GeneratedPost is an LLM-produced draft post tied to one document and one
// profile. Refine and regenerate replace Content in place; the post's
// identity and its place in history persist.
type GeneratedPost struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID  string    `gorm:"type:uuid;index;not null" json:"profile_id"`
	DocumentID string    `gorm:"type:uuid;index;not null" json:"document_id"`
	Document   *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	// AnalysisSnapshot is the analysis JSON the post was generated from.
	// Regeneration reuses it even after the document is re-analyzed.
	AnalysisSnapshot  string          `gorm:"type:text" json:"-"`
	SelectedImageID   *string         `gorm:"type:uuid" json:"selected_image_id,omitempty"`
	SelectedImage     *ExtractedImage `gorm:"foreignKey:SelectedImageID" json:"selected_image,omitempty"`
	GeneratedImageURL string          `json:"generated_image_url,omitempty"`
	Options           datatypes.JSON  `json:"options"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (p *GeneratedPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
