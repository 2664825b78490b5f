package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

const (
	LocalUserID = "userId"
	LocalUser   = "user"
)

var (
	ErrNotLoggedIn  = apperr.Unauthorized("You are not logged in. Please log in to get access.")
	ErrTokenExpired = apperr.Unauthorized("Your token has expired. Please log in again.")
	ErrTokenInvalid = apperr.Unauthorized("Invalid token. Please log in again.")
	ErrUserGone     = apperr.Unauthorized("The user belonging to this token no longer exists.")
	ErrForbidden    = apperr.Forbidden("You do not have permission to perform this action")
)

type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Protect requires a valid bearer token whose user still exists. Account
// status is checked at login only, so a token issued before a suspension
// keeps working until it expires.
func Protect(tokens TokenParser, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		raw := BearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return ErrNotLoggedIn
		}
		u, err := authenticate(c.UserContext(), tokens, users, raw)
		if err != nil {
			return err
		}
		attach(c, u)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenParser, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := BearerToken(c.Get(fiber.HeaderAuthorization)); raw != "" {
			if u, err := authenticate(c.UserContext(), tokens, users, raw); err == nil {
				attach(c, u)
			}
		}
		return c.Next()
	}
}

// RequireRoles must run after Protect. The role comes from the stored user,
// not from the token claims.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[models.Role(strings.ToLower(string(r)))] = true
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		u := CurrentUser(c)
		if u == nil {
			return ErrNotLoggedIn
		}
		if !allowedSet[u.Role] {
			return ErrForbidden
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect or OptionalAuth.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalUser).(*models.User)
	return u
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// Authenticate resolves a raw token to its stored user.
func Authenticate(ctx context.Context, tokens TokenParser, users UserLookup, raw string) (*models.User, error) {
	return authenticate(ctx, tokens, users, raw)
}

func authenticate(ctx context.Context, tokens TokenParser, users UserLookup, raw string) (*models.User, error) {
	claims, err := tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserGone
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func attach(c *fiber.Ctx, u *models.User) {
	c.Locals(LocalUserID, u.ID.String())
	c.Locals(LocalUser, u)
}
