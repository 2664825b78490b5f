package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) GetByVerificationHash(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email_verification_token = ? AND email_verification_expires > ?", hash, now).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) GetByResetHash(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", hash, now).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// List returns users newest first.
func (s *UserStore) List(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.PendingOnly {
		q = q.Where("email_verified = ? AND status <> ?", false, models.StatusDeleted)
	}
	var out []models.User
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Update loads the user under a row lock, applies fn and saves the result in
// the same transaction. An error from fn aborts the update and is returned
// unchanged.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, fn func(*models.User) error) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&u); err != nil {
			return err
		}
		u.Email = strings.ToLower(strings.TrimSpace(u.Email))
		return tx.Save(&u).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
