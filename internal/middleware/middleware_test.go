package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(token string) *fiber.App {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/api/ping", AuthMiddleware(token), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func status(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if header != "" {
		req.Header.Set(TokenHeader, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp("s3cret")
	assert.Equal(t, http.StatusUnauthorized, status(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, status(t, app, "wrong"))
	assert.Equal(t, http.StatusOK, status(t, app, "s3cret"))
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	app := newApp("")
	assert.Equal(t, http.StatusOK, status(t, app, ""))
}
