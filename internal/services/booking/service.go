// Package booking manages service bookings: public creation and the admin
// status, payment and staff workflow.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
)

var (
	ErrNotFound      = apperr.NotFound("Booking not found")
	ErrInvalidStatus = apperr.Validation("Invalid status")
)

type Store interface {
	Create(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, f store.BookingFilter) ([]models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*models.Booking) error) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EventType string

const (
	EventCreated EventType = "booking.created"
	EventUpdated EventType = "booking.updated"
	EventDeleted EventType = "booking.deleted"
)

type Event struct {
	Type      EventType       `json:"type"`
	BookingID uuid.UUID       `json:"bookingId"`
	Booking   *models.Booking `json:"booking,omitempty"`
	At        time.Time       `json:"at"`
}

// Publisher fans booking events out to live admin dashboards.
type Publisher interface {
	Publish(ctx context.Context, payload interface{}) error
}

type Service struct {
	bookings  Store
	publisher Publisher
	created   prometheus.Counter
	logger    *zap.Logger
}

// NewService wires the booking service. publisher and created may be nil.
func NewService(bookings Store, publisher Publisher, created prometheus.Counter, logger *zap.Logger) *Service {
	return &Service{
		bookings:  bookings,
		publisher: publisher,
		created:   created,
		logger:    logger.Named("BookingService"),
	}
}

// Create stores a pending, unpaid booking. userID links it to the caller
// when the request was authenticated.
func (s *Service) Create(ctx context.Context, in CreateInput, userID *uuid.UUID) (*models.Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b := in.booking()
	b.UserID = userID

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, apperr.Internal(err)
	}
	if s.created != nil {
		s.created.Inc()
	}
	s.logger.Info("Booking created", zap.String("bookingID", b.ID.String()), zap.String("service", b.Service))
	s.publish(ctx, EventCreated, b.ID, b)
	return b, nil
}

type ListQuery struct {
	Status  string
	Payment string
	Search  string
}

// List returns bookings newest first. "all" or an empty value disables a
// filter.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Booking, error) {
	f := store.BookingFilter{Search: strings.TrimSpace(q.Search)}
	if q.Status != "" && q.Status != "all" {
		f.Status = models.BookingStatus(q.Status)
	}
	if q.Payment != "" && q.Payment != "all" {
		f.Payment = models.PaymentStatus(q.Payment)
	}
	out, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Booking, error) {
	if !models.BookingStatus(status).Valid() {
		return nil, ErrInvalidStatus
	}
	return s.update(ctx, id, func(b *models.Booking) {
		b.Status = models.BookingStatus(status)
	})
}

// UpdatePayment sets the payment status; method and invoice id are only
// overwritten when given.
func (s *Service) UpdatePayment(ctx context.Context, id uuid.UUID, in PaymentInput) (*models.Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(b *models.Booking) {
		b.Payment.Status = models.PaymentStatus(in.Status)
		if in.Method != "" {
			b.Payment.Method = models.PaymentMethod(in.Method)
		}
		if in.InvoiceID != "" {
			b.Payment.InvoiceID = in.InvoiceID
		}
	})
}

// AssignStaff replaces the assigned staff list. Ids are not checked against
// the roster.
func (s *Service) AssignStaff(ctx context.Context, id uuid.UUID, in AssignStaffInput) (*models.Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ids := append([]string{}, in.StaffIDs...)
	return s.update(ctx, id, func(b *models.Booking) {
		b.AssignedStaffIDs = ids
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, in.apply)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.logger.Info("Booking deleted", zap.String("bookingID", id.String()))
	s.publish(ctx, EventDeleted, id, nil)
	return nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, fn func(*models.Booking)) (*models.Booking, error) {
	b, err := s.bookings.Update(ctx, id, func(b *models.Booking) error {
		fn(b)
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	s.publish(ctx, EventUpdated, id, b)
	return b, nil
}

func (s *Service) publish(ctx context.Context, typ EventType, id uuid.UUID, b *models.Booking) {
	if s.publisher == nil {
		return
	}
	ev := Event{Type: typ, BookingID: id, Booking: b, At: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish booking event", zap.String("type", string(typ)), zap.Error(err))
	}
}

func storeErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return apperr.Internal(err)
}
