package repository

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"draftline/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.SamplePost{},
		&models.Document{},
		&models.ExtractedImage{},
		&models.ContentAnalysis{},
		&models.GeneratedPost{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProfile(t *testing.T, db *gorm.DB, userID uint) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		UserID:   userID,
		Name:     gofakeit.Name(),
		Headline: gofakeit.JobTitle(),
		Industry: "insurance",
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func createTestDocument(t *testing.T, db *gorm.DB, profileID string) *models.Document {
	t.Helper()

	doc := &models.Document{
		ProfileID:        profileID,
		SourceType:       models.SourcePDF,
		OriginalFilename: "paper.pdf",
		Title:            gofakeit.Sentence(5),
		ExtractedText:    gofakeit.Paragraph(3, 4, 10, " "),
		Status:           models.DocumentUploaded,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}
