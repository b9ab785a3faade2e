package utils

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub/backend/apperr"
	"coursehub/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateJWTToken(42, cfg)
	require.NoError(t, err)

	id, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseToken(token, &config.Config{JWTSecret: "other"})
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()
	claims := jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = ParseToken(token, cfg)
	assert.Equal(t, fiber.StatusUnauthorized, StatusFor(err))
}

func TestExtractUserIDAcceptsBearerPrefix(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateJWTToken(9, cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		id, err := ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return RespondError(c, err)
		}
		return Success(c, fiber.StatusOK, id)
	})

	for _, header := range []string{token, "Bearer " + token, "bearer " + token} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusUnauthorized, StatusFor(apperr.Unauthorized("x")))
	assert.Equal(t, fiber.StatusForbidden, StatusFor(apperr.Forbidden("x")))
	assert.Equal(t, fiber.StatusNotFound, StatusFor(apperr.NotFound("course")))
	assert.Equal(t, fiber.StatusUnprocessableEntity, StatusFor(apperr.New(apperr.ErrNotCompleted, "", nil)))
	assert.Equal(t, fiber.StatusConflict, StatusFor(apperr.New(apperr.ErrConflict, "", nil)))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(apperr.Invalid("x")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(apperr.Store("op", errors.New("boom"))))
	assert.Equal(t, fiber.StatusTeapot, StatusFor(fiber.NewError(fiber.StatusTeapot)))
}

func TestRespondErrorHidesStoreFailures(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondError(c, apperr.Store("progress.upsert", errors.New("pq: password authentication failed")))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "password")
}

func TestRespondErrorNotFoundEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondError(c, apperr.NotFound("course"))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"error":"Not Found","message":"course not found"}`, string(body))
}
