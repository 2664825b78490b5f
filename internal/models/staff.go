package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRole string

const (
	StaffCleaner    StaffRole = "Cleaner"
	StaffSupervisor StaffRole = "Supervisor"
	StaffDriver     StaffRole = "Driver"
)

func (r StaffRole) Valid() bool {
	switch r {
	case StaffCleaner, StaffSupervisor, StaffDriver:
		return true
	}
	return false
}

type Staff struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name   string    `gorm:"not null" json:"name"`
	Phone  string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone"`
	Role   StaffRole `gorm:"type:varchar(20);not null" json:"role"`
	Active bool      `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
