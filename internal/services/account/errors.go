package account

import "github.com/ESRAILHAQUE/maids-backend/internal/apperr"

var (
	ErrInvalidCredentials  = apperr.Unauthorized("Invalid email or password")
	ErrAccountDeleted      = apperr.Forbidden("This account has been deleted")
	ErrAccountSuspended    = apperr.Forbidden("This account has been suspended. Please contact support.")
	ErrAccountInactive     = apperr.Forbidden("This account is inactive. Please contact support.")
	ErrEmailNotVerified    = apperr.Forbidden("Please verify your email address before logging in")
	ErrInvalidVerification = apperr.Validation("Invalid or expired verification token")
	ErrInvalidReset        = apperr.Validation("Invalid or expired reset token")
	ErrEmailTaken          = apperr.Conflict("User with this email already exists")
	ErrAdminRegistration   = apperr.Forbidden("Admin accounts cannot be created through registration")
	ErrAlreadyVerified     = apperr.Validation("Email is already verified")
	ErrUserNotFound        = apperr.NotFound("User not found")
	ErrAdminTarget         = apperr.Forbidden("Admin accounts cannot be suspended, banned or deactivated")
)

// ForgotPasswordMessage is returned whether or not the email exists.
const ForgotPasswordMessage = "If the email exists, a password reset link has been sent"
