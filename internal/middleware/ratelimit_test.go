package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftline/internal/cache"
)

func setupRateLimitApp(t *testing.T, max int) *fiber.App {
	t.Helper()

	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-User"); uid != "" {
			c.Locals("userID", uid)
		}
		return c.Next()
	})
	app.Post("/generate", RateLimit("generate", max, time.Minute, FailOpen), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func limitedRequest(t *testing.T, app *fiber.App, userID string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode
}

func TestRateLimitKeysByUser(t *testing.T) {
	app := setupRateLimitApp(t, 3)

	// first user exhausts their budget
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, limitedRequest(t, app, "1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(t, app, "1"))

	// a second user behind the same IP still has a full budget
	assert.Equal(t, http.StatusOK, limitedRequest(t, app, "2"))
}

func TestRateLimitFallsBackToIPWhenAnonymous(t *testing.T) {
	app := setupRateLimitApp(t, 2)

	assert.Equal(t, http.StatusOK, limitedRequest(t, app, ""))
	assert.Equal(t, http.StatusOK, limitedRequest(t, app, ""))
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(t, app, ""))
}

func TestRateLimitFailOpenWithoutRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cache.SetClient(nil)

	app := fiber.New()
	app.Post("/generate", RateLimit("generate", 1, time.Minute, FailOpen), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestRateLimitFailClosedWithoutRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cache.SetClient(nil)

	app := fiber.New()
	app.Post("/login", RateLimit("login", 1, time.Minute, FailClosed), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
