// Package server assembles the Fiber application: middleware, routes and the
// error handler.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/config"
	"github.com/ESRAILHAQUE/maids-backend/internal/handlers"
	"github.com/ESRAILHAQUE/maids-backend/internal/metrics"
	"github.com/ESRAILHAQUE/maids-backend/internal/middleware"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/realtime"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/account"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/booking"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/clients"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/staff"
)

type Deps struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Redis   *redis.Client
	Hub     *realtime.Hub

	Tokens middleware.TokenParser
	Users  middleware.UserLookup

	Accounts *account.Service
	Bookings *booking.Service
	Staff    *staff.Service
	Clients  *clients.Service
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "maids-backend",
		ErrorHandler: middleware.ErrorHandler(d.Logger, d.Config.IsProduction()),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Logger, d.Metrics))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     normalizeOrigins(d.Config.CORSOrigins),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length, Retry-After",
		AllowCredentials: true,
	}))

	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics.Handler())
	}

	rt := &handlers.RealtimeHandler{Hub: d.Hub, Tokens: d.Tokens, Users: d.Users, Logger: d.Logger}
	app.Get("/ws/admin", rt.Upgrade, rt.Feed())

	r := &routes{
		auth:     &handlers.AuthHandler{Accounts: d.Accounts},
		users:    &handlers.UserHandler{Accounts: d.Accounts},
		bookings: &handlers.BookingHandler{Bookings: d.Bookings},
		staff:    &handlers.StaffHandler{Staff: d.Staff},
		clients:  &handlers.ClientHandler{Clients: d.Clients},

		protect:  middleware.Protect(d.Tokens, d.Users),
		optional: middleware.OptionalAuth(d.Tokens, d.Users),
		admin:    middleware.RequireRoles(models.RoleAdmin),
		limit:    authLimiter(d),
	}

	api := app.Group("/api")
	r.mount(api)
	r.mount(api.Group("/" + strings.Trim(d.Config.APIVersion, "/")))

	app.Use(middleware.NotFound)
	return app
}

func authLimiter(d Deps) fiber.Handler {
	cfg := middleware.RateLimitConfig{
		Limit:         d.Config.AuthRateLimit,
		Window:        d.Config.AuthRateWindow(),
		BlockDuration: d.Config.AuthRateBlock(),
		KeyPrefix:     "ratelimit:auth",
		Logger:        d.Logger,
	}
	if d.Metrics != nil {
		cfg.Rejected = d.Metrics.RateLimited
	}
	return middleware.RateLimit(d.Redis, cfg)
}

type routes struct {
	auth     *handlers.AuthHandler
	users    *handlers.UserHandler
	bookings *handlers.BookingHandler
	staff    *handlers.StaffHandler
	clients  *handlers.ClientHandler

	protect  fiber.Handler
	optional fiber.Handler
	admin    fiber.Handler
	limit    fiber.Handler
}

// mount registers every route on g. Middleware is attached per route; a
// group-level Use would also run for the public routes sharing the prefix.
func (r *routes) mount(g fiber.Router) {
	g.Get("/health", handlers.Health)

	// auth
	g.Post("/auth/register", r.limit, r.auth.Register)
	g.Post("/auth/login", r.limit, r.auth.Login)
	g.Get("/auth/verify-email", r.auth.VerifyEmail)
	g.Post("/auth/resend-verification", r.limit, r.auth.ResendVerification)
	g.Post("/auth/forgot-password", r.limit, r.auth.ForgotPassword)
	g.Post("/auth/reset-password", r.limit, r.auth.ResetPassword)
	g.Get("/auth/me", r.protect, r.auth.Me)
	g.Post("/auth/logout", r.protect, r.auth.Logout)

	// users
	g.Get("/users/me", r.protect, r.users.Me)
	g.Patch("/users/me", r.protect, r.users.UpdateMe)
	g.Get("/users", r.protect, r.admin, r.users.List)
	g.Get("/users/pending", r.protect, r.admin, r.users.ListPending)
	g.Get("/users/:id", r.protect, r.admin, r.users.Get)
	for _, a := range []models.LifecycleAction{
		models.ActionApprove, models.ActionSuspend, models.ActionUnsuspend,
		models.ActionBan, models.ActionActivate, models.ActionDeactivate,
	} {
		g.Patch("/users/:id/"+string(a), r.protect, r.admin, r.users.Lifecycle(a))
	}
	g.Delete("/users/:id", r.protect, r.admin, r.users.Delete)

	// bookings
	g.Post("/bookings", r.optional, r.bookings.Create)
	g.Get("/bookings", r.protect, r.admin, r.bookings.List)
	g.Get("/bookings/:id", r.protect, r.admin, r.bookings.Get)
	g.Patch("/bookings/:id/status", r.protect, r.admin, r.bookings.UpdateStatus)
	g.Patch("/bookings/:id/payment", r.protect, r.admin, r.bookings.UpdatePayment)
	g.Patch("/bookings/:id/staff", r.protect, r.admin, r.bookings.AssignStaff)
	g.Patch("/bookings/:id", r.protect, r.admin, r.bookings.Update)
	g.Delete("/bookings/:id", r.protect, r.admin, r.bookings.Delete)

	g.Get("/clients/summary", r.protect, r.admin, r.clients.Summaries)

	// staff
	g.Get("/staff", r.protect, r.admin, r.staff.List)
	g.Post("/staff", r.protect, r.admin, r.staff.Create)
	g.Patch("/staff/:id", r.protect, r.admin, r.staff.Update)
	g.Patch("/staff/:id/active", r.protect, r.admin, r.staff.SetActive)
	g.Delete("/staff/:id", r.protect, r.admin, r.staff.Delete)
}

func normalizeOrigins(s string) string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
