// internal/models/booking.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

type Materials string

const (
	MaterialsWith    Materials = "with"
	MaterialsWithout Materials = "without"
)

func (m Materials) Valid() bool {
	return m == MaterialsWith || m == MaterialsWithout
}

type Address struct {
	Zone     string `json:"zone,omitempty"`
	Building string `json:"building,omitempty"`
	Street   string `json:"street,omitempty"`
}

// ClientInfo is captured at booking time and is independent of any User.
type ClientInfo struct {
	Name  string `gorm:"not null" json:"name"`
	Phone string `gorm:"not null;index" json:"phone"`
	Email string `json:"email,omitempty"`
}

type Payment struct {
	Status    PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
	Method    PaymentMethod `gorm:"type:varchar(20)" json:"method,omitempty"`
	InvoiceID string        `json:"invoiceId,omitempty"`
}

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Service   string    `gorm:"not null" json:"service"`
	Hours     float64   `gorm:"not null" json:"hours"`
	Cleaners  int       `gorm:"not null" json:"cleaners"`
	Materials Materials `gorm:"type:varchar(10);not null" json:"materials"`
	Date      string    `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	Time      string    `gorm:"type:varchar(10);not null" json:"time"`
	Area      string    `gorm:"not null" json:"area"`

	Address Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Client  ClientInfo `gorm:"embedded;embeddedPrefix:client_" json:"client"`
	Notes   string     `json:"notes,omitempty"`

	TotalQAR float64       `gorm:"not null" json:"totalQAR"`
	Status   BookingStatus `gorm:"type:varchar(20);not null;index:idx_bookings_status_created" json:"status"`
	Payment  Payment       `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	AssignedStaffIDs datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"assignedStaffIds"`

	// weak reference, no FK constraint
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *UserRef   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_bookings_status_created,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.AssignedStaffIDs == nil {
		b.AssignedStaffIDs = datatypes.JSONSlice[string]{}
	}
	return nil
}
