// Package memstore holds in-memory test doubles with the same contracts as
// the GORM stores in package store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
)

type Users struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]models.User
	order []uuid.UUID
}

func NewUsers() *Users {
	return &Users{byID: map[uuid.UUID]models.User{}}
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.byID[u.ID] = *u
	s.order = append(s.order, u.ID)
	return nil
}

func (s *Users) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *Users) GetByVerificationHash(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.VerificationSecretMatches(hash, now) })
}

func (s *Users) GetByResetHash(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ResetSecretMatches(hash, now) })
}

func (s *Users) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		u := s.byID[id]
		if match(&u) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Users) List(_ context.Context, f store.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		u := s.byID[s.order[i]]
		if f.PendingOnly && !u.PendingVerification() {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Users) Update(_ context.Context, id uuid.UUID, fn func(*models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	u.ID = id
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for otherID, other := range s.byID {
		if otherID != id && other.Email == u.Email {
			return nil, store.ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now()
	s.byID[id] = u
	return &u, nil
}

func (s *Users) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.byID, id)
	s.order = removeID(s.order, id)
	return nil
}

func (s *Users) ref(id *uuid.UUID) *models.UserRef {
	if id == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[*id]
	if !ok {
		return nil
	}
	return &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

type Bookings struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]models.Booking
	order []uuid.UUID
	users *Users
}

// NewBookings resolves booking user references against users, which may be
// nil.
func NewBookings(users *Users) *Bookings {
	return &Bookings{byID: map[uuid.UUID]models.Booking{}, users: users}
}

func (s *Bookings) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.AssignedStaffIDs == nil {
		b.AssignedStaffIDs = []string{}
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	b.User = nil
	s.byID[b.ID] = cloneBooking(*b)
	s.order = append(s.order, b.ID)
	return nil
}

func (s *Bookings) Get(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	b, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.withRef(b), nil
}

func (s *Bookings) List(_ context.Context, f store.BookingFilter) ([]models.Booking, error) {
	s.mu.RLock()
	var matched []models.Booking
	for i := len(s.order) - 1; i >= 0; i-- {
		b := s.byID[s.order[i]]
		if matchesBooking(&b, f) {
			matched = append(matched, b)
		}
	}
	s.mu.RUnlock()

	out := make([]models.Booking, 0, len(matched))
	for _, b := range matched {
		out = append(out, *s.withRef(b))
	}
	return out, nil
}

func (s *Bookings) All(_ context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneBooking(s.byID[id]))
	}
	return out, nil
}

func (s *Bookings) Update(_ context.Context, id uuid.UUID, fn func(*models.Booking) error) (*models.Booking, error) {
	s.mu.Lock()
	b, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	b = cloneBooking(b)
	if err := fn(&b); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	b.ID = id
	b.User = nil
	b.UpdatedAt = time.Now()
	s.byID[id] = cloneBooking(b)
	s.mu.Unlock()
	return s.withRef(b), nil
}

func (s *Bookings) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.byID, id)
	s.order = removeID(s.order, id)
	return nil
}

func (s *Bookings) withRef(b models.Booking) *models.Booking {
	b = cloneBooking(b)
	if s.users != nil {
		b.User = s.users.ref(b.UserID)
	}
	return &b
}

func matchesBooking(b *models.Booking, f store.BookingFilter) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Payment != "" && b.Payment.Status != f.Payment {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{b.Client.Name, b.Client.Phone, b.Client.Email, b.Service, b.Area, b.Payment.InvoiceID} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func cloneBooking(b models.Booking) models.Booking {
	b.AssignedStaffIDs = append([]string{}, b.AssignedStaffIDs...)
	return b
}

type Staff struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]models.Staff
}

func NewStaff() *Staff {
	return &Staff{byID: map[uuid.UUID]models.Staff{}}
}

func (s *Staff) Create(_ context.Context, m *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phoneTaken(uuid.Nil, m.Phone) {
		return store.ErrDuplicate
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	s.byID[m.ID] = *m
	return nil
}

func (s *Staff) List(_ context.Context) ([]models.Staff, error) {
	s.mu.RLock()
	out := make([]models.Staff, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Staff) Get(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (s *Staff) Update(_ context.Context, id uuid.UUID, fn func(*models.Staff) error) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := fn(&m); err != nil {
		return nil, err
	}
	m.ID = id
	if s.phoneTaken(id, m.Phone) {
		return nil, store.ErrDuplicate
	}
	m.UpdatedAt = time.Now()
	s.byID[id] = m
	return &m, nil
}

func (s *Staff) Delete(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(s.byID, id)
	return &m, nil
}

func (s *Staff) phoneTaken(self uuid.UUID, phone string) bool {
	for id, m := range s.byID {
		if id != self && m.Phone == phone {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
