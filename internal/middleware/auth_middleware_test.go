package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, tokenType string, expiry time.Duration) string {
	t.Helper()
	claims := ActorClaims{
		UserID:    "user-1",
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/secure", Protected(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(ActorIDKey).(string))
	})
	return app
}

func TestProtected_ValidToken(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+signToken(t, "access", time.Hour))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtected_MissingHeader(t *testing.T) {
	app := protectedApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_ExpiredToken(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+signToken(t, "access", -time.Hour))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_RefreshTokenRejected(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+signToken(t, "refresh", time.Hour))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtected_WrongScheme(t *testing.T) {
	app := protectedApp()

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
