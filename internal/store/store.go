// Package store persists users, bookings and staff in Postgres through GORM.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserFilter struct {
	// PendingOnly keeps accounts that are unverified and not deleted.
	PendingOnly bool
}

type BookingFilter struct {
	Status  models.BookingStatus
	Payment models.PaymentStatus
	Search  string
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
