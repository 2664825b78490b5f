package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func withUserRef(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	})
}

func (s *BookingStore) Create(ctx context.Context, b *models.Booking) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (s *BookingStore) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := withUserRef(s.db.WithContext(ctx)).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// List returns the bookings matching f, newest first.
func (s *BookingStore) List(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	q := withUserRef(s.db.WithContext(ctx).Model(&models.Booking{}))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Payment != "" {
		q = q.Where("payment_status = ?", f.Payment)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		p := containsPattern(term)
		q = q.Where(
			"client_name ILIKE ? OR client_phone ILIKE ? OR client_email ILIKE ? OR service ILIKE ? OR area ILIKE ? OR payment_invoice_id ILIKE ?",
			p, p, p, p, p, p,
		)
	}
	var out []models.Booking
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// All returns every booking oldest first, the order the client summary
// folds them in.
func (s *BookingStore) All(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := s.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *BookingStore) Update(ctx context.Context, id uuid.UUID, fn func(*models.Booking) error) (*models.Booking, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&b); err != nil {
			return err
		}
		b.ID = id
		return tx.Omit(clause.Associations).Save(&b).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, id)
}

func (s *BookingStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
