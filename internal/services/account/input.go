package account

import (
	"regexp"
	"strings"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// validName rejects names that would break an email header line.
func validName(s string) bool {
	return !strings.ContainsAny(s, "\r\n")
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return apperr.Validation("Please provide name, email, and password")
	}
	errs := apperr.FieldErrors{}
	if !validName(in.Name) {
		errs.Add("name", "Name must not contain line breaks")
	}
	if !emailPattern.MatchString(in.Email) {
		errs.Add("email", "Please provide a valid email address")
	}
	if len(in.Password) < minPasswordLen {
		errs.Add("password", "Password must be at least 6 characters")
	}
	return apperr.ValidationFields(errs)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return apperr.Validation("Please provide email and password")
	}
	return nil
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (in *ResetPasswordInput) Validate() error {
	in.Token = strings.TrimSpace(in.Token)
	if in.Token == "" || in.Password == "" {
		return apperr.Validation("Token and password are required")
	}
	if len(in.Password) < minPasswordLen {
		errs := apperr.FieldErrors{}
		errs.Add("password", "Password must be at least 6 characters")
		return apperr.ValidationFields(errs)
	}
	return nil
}

// ProfileInput changes only the fields that are present.
type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (in *ProfileInput) Validate() error {
	errs := apperr.FieldErrors{}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
		if v == "" {
			errs.Add("name", "Name cannot be empty")
		} else if !validName(v) {
			errs.Add("name", "Name must not contain line breaks")
		}
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		in.Email = &v
		if !emailPattern.MatchString(v) {
			errs.Add("email", "Please provide a valid email address")
		}
	}
	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		in.Phone = &v
	}
	return apperr.ValidationFields(errs)
}
