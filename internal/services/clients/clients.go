// Package clients derives per-client rollups from the booking history.
package clients

import (
	"context"
	"sort"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

type Summary struct {
	Key           string                       `json:"key"`
	Name          string                       `json:"name"`
	Phone         string                       `json:"phone"`
	Email         string                       `json:"email,omitempty"`
	Area          string                       `json:"area"`
	TotalBookings int                          `json:"totalBookings"`
	LifetimeValue float64                      `json:"lifetimeValue"`
	LastBookingAt string                       `json:"lastBookingAt,omitempty"`
	LastService   string                       `json:"lastService,omitempty"`
	Statuses      map[models.BookingStatus]int `json:"statuses"`
}

// Summarize groups bookings by client phone and name in one pass. Bookings
// without a client phone are skipped. The result is ordered by lifetime value,
// highest first, with ties kept in the order the groups were first seen.
func Summarize(bookings []models.Booking) []Summary {
	index := map[string]int{}
	var out []Summary

	for i := range bookings {
		b := &bookings[i]
		if b.Client.Phone == "" {
			continue
		}
		key := b.Client.Phone + "::" + b.Client.Name

		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, Summary{
				Key:      key,
				Name:     b.Client.Name,
				Phone:    b.Client.Phone,
				Email:    b.Client.Email,
				Area:     b.Area,
				Statuses: map[models.BookingStatus]int{},
			})
		}
		s := &out[pos]

		s.TotalBookings++
		s.LifetimeValue += b.TotalQAR
		s.Statuses[b.Status]++
		// dates are YYYY-MM-DD so string order is date order
		if s.LastBookingAt == "" || b.Date > s.LastBookingAt {
			s.LastBookingAt = b.Date
			s.LastService = b.Service
			s.Area = b.Area
		}
		if s.Email == "" && b.Client.Email != "" {
			s.Email = b.Client.Email
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LifetimeValue > out[j].LifetimeValue
	})
	if out == nil {
		out = []Summary{}
	}
	return out
}

type BookingSource interface {
	All(ctx context.Context) ([]models.Booking, error)
}

type Service struct {
	bookings BookingSource
}

func NewService(bookings BookingSource) *Service {
	return &Service{bookings: bookings}
}

// Summaries rescans every booking on each call.
func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	all, err := s.bookings.All(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return Summarize(all), nil
}
