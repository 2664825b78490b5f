package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

type StaffStore struct {
	db *gorm.DB
}

func NewStaffStore(db *gorm.DB) *StaffStore {
	return &StaffStore{db: db}
}

func (s *StaffStore) Create(ctx context.Context, m *models.Staff) error {
	return translate(s.db.WithContext(ctx).Create(m).Error)
}

// List orders active staff first, then by name.
func (s *StaffStore) List(ctx context.Context) ([]models.Staff, error) {
	var out []models.Staff
	if err := s.db.WithContext(ctx).Order("active DESC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *StaffStore) Get(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var m models.Staff
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *StaffStore) Update(ctx context.Context, id uuid.UUID, fn func(*models.Staff) error) (*models.Staff, error) {
	var m models.Staff
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&m); err != nil {
			return err
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Delete removes the staff member and returns the deleted record.
func (s *StaffStore) Delete(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var m models.Staff
	err := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	if m.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &m, nil
}
