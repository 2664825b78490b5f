// Package staff manages the cleaning crew roster.
package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
)

var (
	ErrNotFound   = apperr.NotFound("Staff member not found")
	ErrPhoneTaken = apperr.Conflict("A staff member with this phone already exists")
)

type Store interface {
	Create(ctx context.Context, m *models.Staff) error
	List(ctx context.Context) ([]models.Staff, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*models.Staff) error) (*models.Staff, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Staff, error)
}

type CreateInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (in *CreateInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" || in.Role == "" {
		return apperr.Validation("Name, phone, and role are required")
	}
	if !models.StaffRole(in.Role).Valid() {
		errs := apperr.FieldErrors{}
		errs.Add("role", "Role must be Cleaner, Supervisor or Driver")
		return apperr.ValidationFields(errs)
	}
	return nil
}

type UpdateInput struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

func (in *UpdateInput) Validate() error {
	errs := apperr.FieldErrors{}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs.Add("name", "Name cannot be empty")
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) == "" {
		errs.Add("phone", "Phone cannot be empty")
	}
	if in.Role != nil && !models.StaffRole(*in.Role).Valid() {
		errs.Add("role", "Role must be Cleaner, Supervisor or Driver")
	}
	return apperr.ValidationFields(errs)
}

type Service struct {
	staff  Store
	logger *zap.Logger
}

func NewService(staff Store, logger *zap.Logger) *Service {
	return &Service{staff: staff, logger: logger.Named("StaffService")}
}

// List orders active staff first, then by name.
func (s *Service) List(ctx context.Context) ([]models.Staff, error) {
	out, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Staff, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m := &models.Staff{
		Name:   in.Name,
		Phone:  in.Phone,
		Role:   models.StaffRole(in.Role),
		Active: true,
	}
	if err := s.staff.Create(ctx, m); err != nil {
		return nil, storeErr(err)
	}
	s.logger.Info("Staff member created", zap.String("staffID", m.ID.String()))
	return m, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Staff, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m, err := s.staff.Update(ctx, id, func(m *models.Staff) error {
		if in.Name != nil {
			m.Name = strings.TrimSpace(*in.Name)
		}
		if in.Phone != nil {
			m.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Role != nil {
			m.Role = models.StaffRole(*in.Role)
		}
		if in.Active != nil {
			m.Active = *in.Active
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return m, nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Staff, error) {
	m, err := s.staff.Update(ctx, id, func(m *models.Staff) error {
		m.Active = active
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return m, nil
}

// Delete returns the removed record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	m, err := s.staff.Delete(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	s.logger.Info("Staff member deleted", zap.String("staffID", id.String()))
	return m, nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrPhoneTaken
	}
	return apperr.Internal(err)
}
