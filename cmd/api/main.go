package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/config"
	"github.com/ESRAILHAQUE/maids-backend/internal/db"
	"github.com/ESRAILHAQUE/maids-backend/internal/logger"
	"github.com/ESRAILHAQUE/maids-backend/internal/metrics"
	"github.com/ESRAILHAQUE/maids-backend/internal/realtime"
	"github.com/ESRAILHAQUE/maids-backend/internal/server"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/account"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/booking"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/clients"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/notify"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/staff"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogEncoding)
	defer log.Sync()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, rate limiting fails open and events stay local", zap.Error(err))
		} else {
			log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
		}
		defer rdb.Close()
	}

	m := metrics.New("maids")

	hub := realtime.NewHub(log)
	hub.OnClientCount(func(n int) { m.RealtimeClients.Set(float64(n)) })
	go hub.Run(ctx)
	broker := realtime.NewBroker(hub, rdb, realtime.BookingChannel, log)
	go broker.Run(ctx)

	users := store.NewUserStore(gdb)
	bookings := store.NewBookingStore(gdb)
	tokens := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresMin)
	mailer := notify.NewMailer(newSender(cfg, log), cfg.FrontendBaseURL, log, m.EmailsSent)

	app := server.New(server.Deps{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Redis:   rdb,
		Hub:     hub,
		Tokens:  tokens,
		Users:   users,
		Accounts: account.NewService(users, utils.NewHasher(cfg.BcryptCost), tokens, mailer, log, account.Options{
			VerificationTTL: cfg.VerificationTTL(),
			ResetTTL:        cfg.ResetTTL(),
		}),
		Bookings: booking.NewService(bookings, broker, m.BookingsCreated, log),
		Staff:    staff.NewService(store.NewStaffStore(gdb), log),
		Clients:  clients.NewService(bookings),
	})

	go func() {
		log.Info("Server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}

func newSender(cfg config.Config, log *zap.Logger) notify.Sender {
	switch {
	case cfg.MailerSendAPIKey != "":
		log.Info("Email via MailerSend")
		return notify.NewMailerSendSender(cfg.MailerSendAPIKey, cfg.EmailFrom, cfg.EmailFromName, log)
	case cfg.EmailHost != "":
		log.Info("Email via SMTP", zap.String("host", cfg.EmailHost))
		return notify.NewSMTPSender(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPassword, cfg.EmailFrom, cfg.EmailFromName, log)
	default:
		log.Warn("No email transport configured, emails are logged only")
		return notify.NewLogSender(log)
	}
}
