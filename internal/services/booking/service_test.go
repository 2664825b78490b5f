package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store/memstore"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, payload interface{}) error {
	return m.Called(ctx, payload).Error(0)
}

func strp(s string) *string   { return &s }
func f64p(v float64) *float64 { return &v }
func intp(v int) *int         { return &v }

func validInput() CreateInput {
	return CreateInput{
		Service:   strp("Regular Cleaning"),
		Hours:     f64p(3),
		Cleaners:  intp(2),
		Materials: strp("with"),
		Date:      strp("2025-03-01"),
		Time:      strp("09:00"),
		Area:      strp("West Bay"),
		Address:   &models.Address{Zone: "66", Building: "12", Street: "820"},
		Client:    &ClientInput{Name: "Sara", Phone: "+97455550001", Email: "Sara@Example.com"},
		TotalQAR:  f64p(150),
	}
}

func newService(t *testing.T) (*Service, *mockPublisher, prometheus.Counter) {
	t.Helper()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookings_created_total"})
	return NewService(memstore.NewBookings(memstore.NewUsers()), pub, created, zap.NewNop()), pub, created
}

func TestCreate_Defaults(t *testing.T) {
	svc, pub, created := newService(t)
	owner := uuid.New()

	b, err := svc.Create(context.Background(), validInput(), &owner)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, models.PaymentUnpaid, b.Payment.Status)
	assert.Empty(t, b.AssignedStaffIDs)
	assert.NotNil(t, b.AssignedStaffIDs)
	assert.Equal(t, "sara@example.com", b.Client.Email)
	assert.Equal(t, &owner, b.UserID)

	pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(ev Event) bool {
		return ev.Type == EventCreated && ev.BookingID == b.ID
	}))

	var m dto.Metric
	require.NoError(t, created.Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

func TestCreate_MissingRequiredField(t *testing.T) {
	svc, _, _ := newService(t)
	drops := map[string]func(*CreateInput){
		"service":   func(in *CreateInput) { in.Service = nil },
		"hours":     func(in *CreateInput) { in.Hours = nil },
		"cleaners":  func(in *CreateInput) { in.Cleaners = nil },
		"materials": func(in *CreateInput) { in.Materials = nil },
		"date":      func(in *CreateInput) { in.Date = strp("  ") },
		"time":      func(in *CreateInput) { in.Time = nil },
		"area":      func(in *CreateInput) { in.Area = nil },
		"client":    func(in *CreateInput) { in.Client = nil },
		"totalQAR":  func(in *CreateInput) { in.TotalQAR = nil },
	}
	for field, drop := range drops {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			drop(&in)
			_, err := svc.Create(context.Background(), in, nil)
			require.Error(t, err)
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindValidation, ae.Kind)
			assert.Contains(t, ae.Fields, field)
		})
	}
}

func TestCreate_ClientNameAndPhoneRequired(t *testing.T) {
	svc, _, _ := newService(t)
	in := validInput()
	in.Client = &ClientInput{Name: "Sara"}
	_, err := svc.Create(context.Background(), in, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreate_FieldRules(t *testing.T) {
	svc, _, _ := newService(t)
	cases := map[string]func(*CreateInput){
		"hours":        func(in *CreateInput) { in.Hours = f64p(0.5) },
		"cleaners":     func(in *CreateInput) { in.Cleaners = intp(0) },
		"materials":    func(in *CreateInput) { in.Materials = strp("some") },
		"date":         func(in *CreateInput) { in.Date = strp("01/03/2025") },
		"totalQAR":     func(in *CreateInput) { in.TotalQAR = f64p(-1) },
		"client.email": func(in *CreateInput) { in.Client.Email = "nope" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), in, nil)
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Contains(t, ae.Fields, field)
		})
	}
}

func TestCreate_ZeroTotalIsAllowed(t *testing.T) {
	svc, _, _ := newService(t)
	in := validInput()
	in.TotalQAR = f64p(0)
	b, err := svc.Create(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Zero(t, b.TotalQAR)
	assert.Nil(t, b.UserID)
}

func TestList_AllMeansNoFilter(t *testing.T) {
	svc, _, _ := newService(t)
	first, err := svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), second.ID, "completed")
	require.NoError(t, err)

	all, err := svc.List(context.Background(), ListQuery{Status: "all", Payment: "all"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	pending, err := svc.List(context.Background(), ListQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}

func TestUpdateStatusAndPayment(t *testing.T) {
	svc, _, _ := newService(t)
	b, err := svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), b.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus(context.Background(), uuid.New(), "confirmed")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdatePayment(context.Background(), b.ID, PaymentInput{Status: "owed"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	got, err := svc.UpdatePayment(context.Background(), b.ID, PaymentInput{Status: "paid", Method: "card", InvoiceID: "INV-7"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.Payment.Status)
	assert.Equal(t, models.PaymentCard, got.Payment.Method)

	got, err = svc.UpdatePayment(context.Background(), b.ID, PaymentInput{Status: "refunded"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, got.Payment.Status)
	assert.Equal(t, models.PaymentCard, got.Payment.Method)
	assert.Equal(t, "INV-7", got.Payment.InvoiceID)
}

func TestAssignStaff(t *testing.T) {
	svc, _, _ := newService(t)
	b, err := svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	_, err = svc.AssignStaff(context.Background(), b.ID, AssignStaffInput{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	got, err := svc.AssignStaff(context.Background(), b.ID, AssignStaffInput{StaffIDs: []string{"s2", "s1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, []string(got.AssignedStaffIDs))

	got, err = svc.AssignStaff(context.Background(), b.ID, AssignStaffInput{StaffIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, got.AssignedStaffIDs)
}

func TestUpdate_Partial(t *testing.T) {
	svc, _, _ := newService(t)
	b, err := svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), b.ID, UpdateInput{Hours: f64p(4), Notes: strp("bring ladder")})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Hours)
	assert.Equal(t, "bring ladder", got.Notes)
	assert.Equal(t, "Regular Cleaning", got.Service)
	assert.Equal(t, b.CreatedAt, got.CreatedAt)

	_, err = svc.Update(context.Background(), b.ID, UpdateInput{Status: strp("lost")})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	_, err = svc.Update(context.Background(), b.ID, UpdateInput{Client: &ClientInput{Name: "No Phone"}})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDelete(t *testing.T) {
	svc, pub, _ := newService(t)
	b, err := svc.Create(context.Background(), validInput(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), b.ID), ErrNotFound)
	_, err = svc.Get(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(ev Event) bool {
		return ev.Type == EventDeleted && ev.BookingID == b.ID && ev.Booking == nil
	}))
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	svc := NewService(memstore.NewBookings(nil), pub, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validInput(), nil)
	assert.NoError(t, err)
}
