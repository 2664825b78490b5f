package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone string    `gorm:"type:varchar(30)" json:"phone,omitempty"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`

	Status        AccountStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	EmailVerified bool          `gorm:"not null" json:"emailVerified"`

	EmailVerificationToken   *string    `gorm:"type:varchar(64);index" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	PasswordResetToken       *string    `gorm:"type:varchar(64);index" json:"-"`
	PasswordResetExpires     *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// PendingVerification is an account that can still be approved or verified.
func (u *User) PendingVerification() bool {
	return !u.EmailVerified && u.Status != StatusDeleted
}

func (u *User) SetVerificationSecret(hash string, expires time.Time) {
	u.EmailVerificationToken = &hash
	u.EmailVerificationExpires = &expires
}

func (u *User) ClearVerificationSecret() {
	u.EmailVerificationToken = nil
	u.EmailVerificationExpires = nil
}

func (u *User) SetResetSecret(hash string, expires time.Time) {
	u.PasswordResetToken = &hash
	u.PasswordResetExpires = &expires
}

func (u *User) ClearResetSecret() {
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
}

// VerificationSecretMatches reports whether hash is the live verification
// secret at now.
func (u *User) VerificationSecretMatches(hash string, now time.Time) bool {
	return secretMatches(u.EmailVerificationToken, u.EmailVerificationExpires, hash, now)
}

func (u *User) ResetSecretMatches(hash string, now time.Time) bool {
	return secretMatches(u.PasswordResetToken, u.PasswordResetExpires, hash, now)
}

func secretMatches(stored *string, expires *time.Time, hash string, now time.Time) bool {
	return stored != nil && expires != nil && *stored == hash && expires.After(now)
}

type userJSON struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	Role          Role          `json:"role"`
	Status        AccountStatus `json:"status"`
	EmailVerified bool          `json:"emailVerified"`
	IsVerified    bool          `json:"isVerified"`
	IsActive      bool          `json:"isActive"`
	IsSuspended   bool          `json:"isSuspended"`
	IsDeleted     bool          `json:"isDeleted"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// MarshalJSON adds the legacy lifecycle flags, derived from Status, that
// existing admin clients read.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		IsVerified:    u.EmailVerified,
		IsActive:      u.Status == StatusActive,
		IsSuspended:   u.Status == StatusSuspended || u.Status == StatusDeleted,
		IsDeleted:     u.Status == StatusDeleted,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	})
}

// UserRef is the slice of a user embedded in booking responses.
type UserRef struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (UserRef) TableName() string { return "users" }
