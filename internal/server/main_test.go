package server

import (
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"draftline/internal/config"
	"draftline/internal/llm"
	"draftline/internal/middleware"
	"draftline/internal/service"
)

// testServer bundles a Server wired to mocks for handler tests.
type testServer struct {
	*Server
	users    *MockUserRepository
	profiles *MockProfileRepository
	docs     *MockDocumentRepository
	posts    *MockPostRepository
	scraper  *MockScraper
}

func newTestServer() *testServer {
	users := new(MockUserRepository)
	profiles := new(MockProfileRepository)
	docs := new(MockDocumentRepository)
	posts := new(MockPostRepository)
	sc := new(MockScraper)

	provider, _ := llm.New(config.ProviderMock, "")

	s := &Server{
		config: &config.Config{
			JWTSecret:      "test_secret",
			MaxUploadBytes: service.MaxUploadBytes,
		},
		userRepo:    users,
		profileRepo: profiles,
	}
	s.profileService = service.NewProfileService(profiles)
	s.documentService = service.NewDocumentService(docs, profiles, sc, service.MaxUploadBytes)
	s.generationService = service.NewGenerationService(docs, posts, profiles, provider)

	return &testServer{
		Server:   s,
		users:    users,
		profiles: profiles,
		docs:     docs,
		posts:    posts,
		scraper:  sc,
	}
}

// authedApp returns a Fiber app whose handlers see userID as the caller,
// bypassing JWT parsing.
func authedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	app.Use(middleware.ContextMiddleware())
	return app
}

// mintToken signs a token with arbitrary issuer/audience for negative tests.
func mintToken(t *testing.T, secret, issuer, audience string) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(1, 10),
		"iss": issuer,
		"aud": audience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
