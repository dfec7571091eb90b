package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document source types.
const (
	SourcePDF = "pdf"
	SourceURL = "url"
)

// Document pipeline states. A document starts as uploaded and becomes
// analyzed once a content analysis has been attached; re-analysis keeps the
// state and overwrites the analysis.
const (
	DocumentUploaded = "uploaded"
	DocumentAnalyzed = "analyzed"
)

// Document is the extracted content of an uploaded PDF or submitted URL.
// It is immutable after creation except for the attached analysis and the
// state transition that records it.
type Document struct {
	ID               string           `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID        string           `gorm:"type:uuid;index;not null" json:"profile_id"`
	SourceType       string           `gorm:"not null;default:pdf" json:"source_type"`
	OriginalFilename string           `json:"original_filename,omitempty"`
	SourceURL        string           `json:"source_url,omitempty"`
	Domain           string           `json:"domain,omitempty"`
	FeaturedImageURL string           `json:"featured_image_url,omitempty"`
	Title            string           `json:"title"`
	Authors          string           `json:"authors"`
	Abstract         string           `gorm:"type:text" json:"abstract"`
	ExtractedText    string           `gorm:"type:text" json:"-"`
	Status           string           `gorm:"not null;default:uploaded" json:"status"`
	Images           []ExtractedImage `gorm:"foreignKey:DocumentID" json:"images,omitempty"`
	Analysis         *ContentAnalysis `gorm:"foreignKey:DocumentID" json:"analysis,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// ExtractedImage is a figure or embedded image found in a PDF document.
// Ref points at the stored region (page crop) rather than raw pixels.
type ExtractedImage struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID     string    `gorm:"type:uuid;index;not null" json:"document_id"`
	PageNumber     int       `gorm:"not null" json:"page_number"`
	Ref            string    `gorm:"not null" json:"ref"`
	Caption        string    `gorm:"type:text" json:"caption"`
	IsFigure       bool      `json:"is_figure"`
	RelevanceScore float64   `gorm:"default:0" json:"relevance_score"`
	Width          float64   `json:"width"`
	Height         float64   `json:"height"`
	CreatedAt      time.Time `json:"created_at"`
}

func (i *ExtractedImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
