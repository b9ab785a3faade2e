package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub/backend/config"
	"coursehub/backend/database/dbtest"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
	"coursehub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}

func token(t *testing.T, userID uint) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(userID, testCfg)
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func echoUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user_id": UserID(c)})
}

func TestAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", AuthMiddleware(testCfg), echoUser)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer nope").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, token(t, 7)).StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	var seen uint
	app := fiber.New()
	app.Get("/", OptionalAuth(testCfg), func(c *fiber.Ctx) error {
		seen = UserID(c)
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, get(t, app, "").StatusCode)
	assert.Zero(t, seen)

	assert.Equal(t, http.StatusOK, get(t, app, token(t, 9)).StatusCode)
	assert.Equal(t, uint(9), seen)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer broken").StatusCode)
}

func TestAdminMiddleware(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db, logger.Nop())
	ctx := context.Background()
	admin := &models.User{Username: "root", Email: "root@example.io", PasswordHash: "x", Role: models.RoleAdmin}
	member := &models.User{Username: "jane", Email: "jane@example.io", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.Create(ctx, member))

	app := fiber.New()
	app.Get("/", AuthMiddleware(testCfg), AdminMiddleware(users), echoUser)

	assert.Equal(t, http.StatusOK, get(t, app, token(t, admin.ID)).StatusCode)
	assert.Equal(t, http.StatusForbidden, get(t, app, token(t, member.ID)).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, token(t, 404)).StatusCode)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	app := fiber.New()
	app.Get("/", Timeout(time.Second), func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})
	get(t, app, "")
	assert.True(t, hasDeadline)

	hasDeadline = false
	app = fiber.New()
	app.Get("/", Timeout(0), func(c *fiber.Ctx) error {
		_, hasDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})
	get(t, app, "")
	assert.False(t, hasDeadline)
}

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var id string
	app := fiber.New()
	app.Use(LoggingMiddleware(logger.Nop()))
	app.Get("/", func(c *fiber.Ctx) error {
		id = RequestID(c)
		return c.SendStatus(http.StatusOK)
	})

	resp := get(t, app, "")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, resp.Header.Get(fiber.HeaderXRequestID))
}
