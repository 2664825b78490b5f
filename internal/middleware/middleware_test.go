package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store/memstore"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

const secret = "middleware-secret"

type body struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func newApp(production bool) *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop(), production)})
}

func do(t *testing.T, app *fiber.App, method, path, token string) (int, body) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var b body
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &b), string(raw))
	}
	return resp.StatusCode, b
}

func seedUser(t *testing.T, users *memstore.Users, role models.Role, status models.AccountStatus) *models.User {
	t.Helper()
	u := &models.User{Name: "U", Email: string(role) + string(status) + "@example.com", Role: role, Status: status, EmailVerified: true}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func protectedApp(users *memstore.Users) *fiber.App {
	tokens := utils.NewJWTManager(secret, 60)
	app := newApp(false)
	app.Get("/me", Protect(tokens, users), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserID).(string))
	})
	app.Get("/admin", Protect(tokens, users), RequireRoles(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/maybe", OptionalAuth(tokens, users), func(c *fiber.Ctx) error {
		if u := CurrentUser(c); u != nil {
			return c.SendString(u.Email)
		}
		return c.SendString("anonymous")
	})
	return app
}

func TestProtect(t *testing.T) {
	users := memstore.NewUsers()
	app := protectedApp(users)
	u := seedUser(t, users, models.RoleUser, models.StatusActive)

	valid, err := utils.SignJWT(secret, u.ID.String(), "user", 60)
	require.NoError(t, err)
	expired, err := utils.SignJWT(secret, u.ID.String(), "user", -1)
	require.NoError(t, err)
	foreign, err := utils.SignJWT("other-secret", u.ID.String(), "user", 60)
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		status int
		msg    string
	}{
		{"missing", "", 401, ErrNotLoggedIn.Message},
		{"expired", expired, 401, ErrTokenExpired.Message},
		{"bad signature", foreign, 401, ErrTokenInvalid.Message},
		{"garbage", "not.a.jwt", 401, ErrTokenInvalid.Message},
		{"valid", valid, 200, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			raw, _ := io.ReadAll(resp.Body)
			if tc.msg != "" {
				assert.Contains(t, string(raw), tc.msg)
			} else {
				assert.Equal(t, u.ID.String(), string(raw))
			}
		})
	}
}

func TestProtect_UserDeletedAfterIssue(t *testing.T) {
	users := memstore.NewUsers()
	app := protectedApp(users)
	u := seedUser(t, users, models.RoleUser, models.StatusActive)
	token, err := utils.SignJWT(secret, u.ID.String(), "user", 60)
	require.NoError(t, err)
	require.NoError(t, users.Delete(context.Background(), u.ID))

	status, b := do(t, app, "GET", "/me", token)
	assert.Equal(t, 401, status)
	assert.Equal(t, ErrUserGone.Message, b.Message)
}

func TestProtect_OptionsPassesThrough(t *testing.T) {
	app := newApp(false)
	app.Options("/me", Protect(utils.NewJWTManager(secret, 60), memstore.NewUsers()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	status, _ := do(t, app, "OPTIONS", "/me", "")
	assert.Equal(t, 204, status)
}

func TestRequireRoles_UsesStoredRole(t *testing.T) {
	users := memstore.NewUsers()
	app := protectedApp(users)
	u := seedUser(t, users, models.RoleUser, models.StatusActive)
	admin := seedUser(t, users, models.RoleAdmin, models.StatusActive)

	// claims say admin, the record says user
	forged, err := utils.SignJWT(secret, u.ID.String(), "admin", 60)
	require.NoError(t, err)
	status, b := do(t, app, "GET", "/admin", forged)
	assert.Equal(t, 403, status)
	assert.Equal(t, ErrForbidden.Message, b.Message)

	token, err := utils.SignJWT(secret, admin.ID.String(), "admin", 60)
	require.NoError(t, err)
	status, _ = do(t, app, "GET", "/admin", token)
	assert.Equal(t, 204, status)
}

func TestOptionalAuth(t *testing.T) {
	users := memstore.NewUsers()
	app := protectedApp(users)
	u := seedUser(t, users, models.RoleUser, models.StatusActive)
	token, err := utils.SignJWT(secret, u.ID.String(), "user", 60)
	require.NoError(t, err)

	for token, want := range map[string]string{"": "anonymous", "junk": "anonymous", token: u.Email} {
		req := httptest.NewRequest("GET", "/maybe", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, want, string(raw))
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("Bearer"))
	assert.Equal(t, "", BearerToken(""))
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		production bool
		status     int
		msg        string
	}{
		{"app error", apperr.Conflict("taken"), false, 409, "taken"},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), false, 405, "nope"},
		{"raw error in development", errors.New("db exploded"), false, 500, "db exploded"},
		{"raw error in production", errors.New("db exploded"), true, 500, "Something went wrong!"},
		{"internal in production", apperr.Internal(errors.New("db exploded")), true, 500, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(tc.production)
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })
			status, b := do(t, app, "GET", "/", "")
			assert.Equal(t, tc.status, status)
			assert.False(t, b.Success)
			assert.Equal(t, tc.msg, b.Message)
		})
	}
}

func TestErrorHandler_FieldErrors(t *testing.T) {
	app := newApp(false)
	app.Get("/", func(c *fiber.Ctx) error {
		errs := apperr.FieldErrors{}
		errs.Add("email", "bad")
		return apperr.ValidationFields(errs)
	})
	status, b := do(t, app, "GET", "/", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, []string{"bad"}, b.Errors["email"])
}

func TestNotFound(t *testing.T) {
	app := newApp(false)
	app.Use(NotFound)
	status, b := do(t, app, "GET", "/api/v1/nothing?x=1", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "Route /api/v1/nothing?x=1 not found", b.Message)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	app := newApp(false)
	app.Post("/login", RateLimit(nil, RateLimitConfig{Limit: 1}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		status, _ := do(t, app, "POST", "/login", "")
		assert.Equal(t, 204, status)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	app := newApp(false)
	app.Post("/login", RateLimit(rdb, RateLimitConfig{Limit: 1, Window: time.Minute, BlockDuration: time.Minute, KeyPrefix: "auth"}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		status, _ := do(t, app, "POST", "/login", "")
		assert.Equal(t, 204, status)
	}
}

func TestRequestLogger_RendersErrors(t *testing.T) {
	app := newApp(false)
	app.Use(RequestLogger(zap.NewNop(), nil))
	app.Get("/boom", func(c *fiber.Ctx) error { return apperr.NotFound("gone") })

	status, b := do(t, app, "GET", "/boom", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "gone", b.Message)
}
