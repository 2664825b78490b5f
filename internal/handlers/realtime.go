package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/middleware"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/realtime"
)

// RealtimeHandler serves the admin booking feed. Browsers cannot set headers
// on a websocket handshake, so the token travels in the query string.
type RealtimeHandler struct {
	Hub    *realtime.Hub
	Tokens middleware.TokenParser
	Users  middleware.UserLookup
	Logger *zap.Logger
}

// Upgrade authenticates the handshake and admits admins only.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return middleware.ErrNotLoggedIn
	}
	u, err := middleware.Authenticate(c.UserContext(), h.Tokens, h.Users, token)
	if err != nil {
		return err
	}
	if u.Role != models.RoleAdmin {
		return middleware.ErrForbidden
	}
	c.Locals(middleware.LocalUser, u)
	return c.Next()
}

func (h *RealtimeHandler) Feed() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		u, ok := c.Locals(middleware.LocalUser).(*models.User)
		if !ok {
			_ = c.Close()
			return
		}
		client := realtime.NewClient(u.ID, realtime.NewWebSocketConn(c))
		h.Logger.Info("Admin feed connected", zap.String("userID", u.ID.String()), zap.String("clientID", client.ID))
		h.Hub.Serve(client)
		h.Logger.Info("Admin feed disconnected", zap.String("clientID", client.ID))
	})
}
