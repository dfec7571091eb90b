package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tone preferences supported by the post generator.
const (
	ToneProfessional  = "professional"
	ToneCasual        = "casual"
	ToneThoughtLeader = "thought_leader"
	ToneEducational   = "educational"
	ToneStorytelling  = "storytelling"
)

// Post length preferences.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// ValidTone reports whether s is a recognized tone preference.
func ValidTone(s string) bool {
	switch s {
	case ToneProfessional, ToneCasual, ToneThoughtLeader, ToneEducational, ToneStorytelling:
		return true
	}
	return false
}

// ValidLength reports whether s is a recognized post length preference.
func ValidLength(s string) bool {
	switch s {
	case LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

// Profile holds a user's writing-style preferences and sample posts used to
// bias generation. Exactly one profile exists per user; it is created at
// registration and never implicitly deleted.
type Profile struct {
	ID                 string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	Name               string       `gorm:"not null" json:"name"`
	Headline           string       `json:"headline"`
	Industry           string       `json:"industry"`
	Tone               string       `gorm:"default:professional" json:"tone"`
	PostLength         string       `gorm:"default:medium" json:"post_length"`
	IncludeEmojis      bool         `gorm:"default:true" json:"include_emojis"`
	IncludeHashtags    bool         `gorm:"default:true" json:"include_hashtags"`
	CustomInstructions string       `gorm:"type:text" json:"custom_instructions"`
	SamplePosts        []SamplePost `gorm:"foreignKey:ProfileID" json:"sample_posts,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when one is not provided.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SamplePost is a previously published post supplied by the user so the
// generator can match their writing style.
type SamplePost struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID       string    `gorm:"type:uuid;index;not null" json:"profile_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	EngagementNotes string    `gorm:"type:text" json:"engagement_notes"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p *SamplePost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
