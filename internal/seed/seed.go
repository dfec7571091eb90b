// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"draftline/internal/models"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumDocs     int
	ShouldClean bool
}

// DemoPassword is the password every seeded account gets.
const DemoPassword = "DemoDraftline1!"

var paperTopics = []string{
	"Efficient Training of Sparse Transformer Models",
	"Retrieval-Augmented Generation for Scientific Literature",
	"A Survey of Graph Neural Networks in Drug Discovery",
	"Quantifying Uncertainty in Large Language Models",
	"Self-Supervised Learning for Tabular Data",
	"Energy-Aware Scheduling in Edge Computing",
	"Federated Learning Under Heterogeneous Clients",
	"Benchmarking Long-Context Summarization",
}

var industries = []string{
	"Machine Learning", "Biotech", "Fintech", "Developer Tools",
	"Healthcare", "Climate Tech", "Education", "Cybersecurity",
}

// Run seeds the database with demo users, profiles, documents and generated
// posts. When opts.ShouldClean is set, existing rows are removed first.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.NumUsers <= 0 {
		opts.NumUsers = 5
	}
	if opts.NumDocs <= 0 {
		opts.NumDocs = 3
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean before seed: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < opts.NumUsers; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("demo%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		profile := buildProfile(user, r)
		if err := db.Create(profile).Error; err != nil {
			return fmt.Errorf("create profile: %w", err)
		}

		for j := 0; j < opts.NumDocs; j++ {
			doc := buildDocument(profile, r)
			if err := db.Create(doc).Error; err != nil {
				return fmt.Errorf("create document: %w", err)
			}

			// roughly half the documents get the full analyze + generate
			// treatment so history pages have content
			if r.Intn(2) == 0 {
				continue
			}
			analysis := buildAnalysis(doc)
			if err := db.Create(analysis).Error; err != nil {
				return fmt.Errorf("create analysis: %w", err)
			}
			if err := db.Model(doc).Update("status", models.DocumentAnalyzed).Error; err != nil {
				return fmt.Errorf("mark analyzed: %w", err)
			}
			post := buildGeneratedPost(profile, doc, analysis)
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("create generated post: %w", err)
			}
		}
	}

	log.Printf("seeded %d users with up to %d documents each", opts.NumUsers, opts.NumDocs)
	return nil
}

// Clean removes all seeded domain rows. Order matters for foreign keys.
func Clean(db *gorm.DB) error {
	tables := []interface{}{
		&models.GeneratedPost{},
		&models.ContentAnalysis{},
		&models.ExtractedImage{},
		&models.Document{},
		&models.SamplePost{},
		&models.Profile{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func buildProfile(user *models.User, r *rand.Rand) *models.Profile {
	tones := []string{
		models.ToneProfessional, models.ToneCasual, models.ToneThoughtLeader,
		models.ToneEducational, models.ToneStorytelling,
	}
	lengths := []string{models.LengthShort, models.LengthMedium, models.LengthLong}

	profile := &models.Profile{
		UserID:          user.ID,
		Name:            gofakeit.Name(),
		Headline:        gofakeit.JobTitle(),
		Industry:        industries[r.Intn(len(industries))],
		Tone:            tones[r.Intn(len(tones))],
		PostLength:      lengths[r.Intn(len(lengths))],
		IncludeEmojis:   r.Intn(2) == 0,
		IncludeHashtags: true,
	}
	for i := 0; i < r.Intn(3); i++ {
		profile.SamplePosts = append(profile.SamplePosts, models.SamplePost{
			Content:         gofakeit.Paragraph(1, 3, 8, " "),
			EngagementNotes: fmt.Sprintf("%d likes, %d comments", r.Intn(500), r.Intn(50)),
		})
	}
	return profile
}

func buildDocument(profile *models.Profile, r *rand.Rand) *models.Document {
	title := paperTopics[r.Intn(len(paperTopics))]
	doc := &models.Document{
		ProfileID:     profile.ID,
		Title:         title,
		Authors:       fmt.Sprintf("%s, %s", gofakeit.Name(), gofakeit.Name()),
		Abstract:      gofakeit.Paragraph(1, 4, 10, " "),
		ExtractedText: gofakeit.Paragraph(4, 6, 12, "\n"),
		Status:        models.DocumentUploaded,
		CreatedAt:     time.Now().Add(-time.Duration(r.Intn(60*24)) * time.Hour),
	}
	if r.Intn(2) == 0 {
		doc.SourceType = models.SourcePDF
		doc.OriginalFilename = fmt.Sprintf("%s.pdf", gofakeit.UUID()[:8])
	} else {
		doc.SourceType = models.SourceURL
		doc.SourceURL = gofakeit.URL()
		doc.Domain = gofakeit.DomainName()
		doc.FeaturedImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()[:8])
	}
	return doc
}

func buildAnalysis(doc *models.Document) *models.ContentAnalysis {
	raw := map[string]interface{}{
		"core_finding":           gofakeit.Sentence(12),
		"key_data_points":        []string{gofakeit.Sentence(8), gofakeit.Sentence(8)},
		"executive_implications": []string{gofakeit.Sentence(10)},
		"quotable_facts":         []string{gofakeit.Quote()},
	}
	rawJSON, _ := json.Marshal(raw)

	points, _ := json.Marshal(raw["key_data_points"])
	implications, _ := json.Marshal(raw["executive_implications"])
	quotes, _ := json.Marshal(raw["quotable_facts"])

	return &models.ContentAnalysis{
		DocumentID:            doc.ID,
		CoreFinding:           raw["core_finding"].(string),
		KeyDataPoints:         datatypes.JSON(points),
		ExecutiveImplications: datatypes.JSON(implications),
		QuotableFacts:         datatypes.JSON(quotes),
		Raw:                   string(rawJSON),
	}
}

func buildGeneratedPost(profile *models.Profile, doc *models.Document, analysis *models.ContentAnalysis) *models.GeneratedPost {
	options, _ := json.Marshal(map[string]interface{}{
		"tone":             profile.Tone,
		"length":           profile.PostLength,
		"include_emojis":   profile.IncludeEmojis,
		"include_hashtags": profile.IncludeHashtags,
	})
	content := fmt.Sprintf("%s\n\n%s\n\n#research #%s",
		gofakeit.Sentence(10), gofakeit.Paragraph(1, 3, 10, " "),
		gofakeit.BuzzWord())
	return &models.GeneratedPost{
		ProfileID:        profile.ID,
		DocumentID:       doc.ID,
		Content:          content,
		AnalysisSnapshot: analysis.Raw,
		Options:          datatypes.JSON(options),
	}
}
