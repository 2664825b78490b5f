// Command seed creates the default admin and demo accounts. Existing emails
// are left untouched, so it is safe to run repeatedly.
package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/config"
	"github.com/ESRAILHAQUE/maids-backend/internal/db"
	"github.com/ESRAILHAQUE/maids-backend/internal/logger"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     models.Role
}

var seedUsers = []seedUser{
	{"John Doe", "john.doe@example.com", "aaaaaa", models.RoleAdmin},
	{"Admin", "admin@maids.com", "admin123", models.RoleAdmin},
	{"John Smith", "john@example.com", "password123", models.RoleUser},
	{"Jane Smith", "jane@example.com", "password123", models.RoleUser},
	{"Bob Johnson", "bob@example.com", "password123", models.RoleUser},
}

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

	users := store.NewUserStore(gdb)
	hasher := utils.NewHasher(cfg.BcryptCost)
	ctx := context.Background()

	for _, s := range seedUsers {
		if _, err := users.GetByEmail(ctx, s.email); err == nil {
			log.Info("User exists, skipping", zap.String("email", s.email))
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Fatal("Failed to look up user", zap.String("email", s.email), zap.Error(err))
		}

		hash, err := hasher.Hash(s.password)
		if err != nil {
			log.Fatal("Failed to hash password", zap.Error(err))
		}
		u := &models.User{
			Name:          s.name,
			Email:         s.email,
			Password:      hash,
			Role:          s.role,
			Status:        models.StatusActive,
			EmailVerified: true,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("Failed to create user", zap.String("email", s.email), zap.Error(err))
		}
		log.Info("User created", zap.String("email", s.email), zap.String("role", string(s.role)))
	}
}
