package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dataroom/internal/auth"
	"dataroom/internal/model"
	"dataroom/internal/repository/mocks"
)

func TestRequestIDGenerated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		assert.NotEmpty(t, c.Locals(RequestIDLocalKey))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDHeader))
}

func TestLoggerPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(), Logger(zerolog.Nop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}

func TestClientIP(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = ClientIP(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.3")
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.3", got)
}

func newTestPipeline(t *testing.T, users *mocks.MockUserRepository) *auth.Pipeline {
	t.Helper()
	verifier := auth.NewVerifier(auth.VerifierOpts{PrimarySecret: "test-secret"})
	return auth.NewPipeline(
		verifier,
		nil,
		auth.NewIdentityCache(5*time.Minute),
		auth.NewRateLimiter(auth.RateLimiterOpts{}),
		users,
		zerolog.Nop(),
	)
}

func TestAuthMiddlewareStoresUser(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("FindBySubject", mock.Anything, "subject-1").Return(&model.User{
		ID: "user-1", Subject: "subject-1", Email: "alice@example.com",
	}, nil)

	app := fiber.New()
	app.Use(Auth(newTestPipeline(t, users)))
	app.Get("/", func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		require.NotNil(t, user)
		assert.Equal(t, "user-1", user.ID)
		return c.SendStatus(fiber.StatusOK)
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "subject-1",
		"email": "alice@example.com",
		"iat":   time.Now().Add(-time.Minute).Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	app := fiber.New()
	app.Use(Auth(newTestPipeline(t, new(mocks.MockUserRepository))))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	// The default fiber error handler turns the sentinel into a 500; the
	// app wires ErrorHandler() to map it to 401. Here we only assert the
	// request did not reach the handler.
	assert.NotEqual(t, fiber.StatusOK, resp.StatusCode)
}
