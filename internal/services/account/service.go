// Package account owns registration, login, one-time token flows and the
// admin lifecycle actions on user accounts.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
	"github.com/ESRAILHAQUE/maids-backend/internal/services/notify"
	"github.com/ESRAILHAQUE/maids-backend/internal/store"
	"github.com/ESRAILHAQUE/maids-backend/internal/utils"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationHash(ctx context.Context, hash string, now time.Time) (*models.User, error)
	GetByResetHash(ctx context.Context, hash string, now time.Time) (*models.User, error)
	List(ctx context.Context, f store.UserFilter) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*models.User) error) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenIssuer interface {
	Sign(userID, role string) (string, error)
}

type Options struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	Now             func() time.Time
}

type Service struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	notifier notify.Notifier
	logger   *zap.Logger

	verificationTTL time.Duration
	resetTTL        time.Duration
	now             func() time.Time
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, notifier notify.Notifier, logger *zap.Logger, opts Options) *Service {
	if opts.VerificationTTL <= 0 {
		opts.VerificationTTL = 24 * time.Hour
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		users:           users,
		hasher:          hasher,
		tokens:          tokens,
		notifier:        notifier,
		logger:          logger.Named("AccountService"),
		verificationTTL: opts.VerificationTTL,
		resetTTL:        opts.ResetTTL,
		now:             opts.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if models.Role(in.Role) == models.RoleAdmin {
		return nil, ErrAdminRegistration
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	secret, err := utils.IssueOneTimeSecret(s.verificationTTL, s.now())
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	u.SetVerificationSecret(secret.Hash, secret.ExpiresAt)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, s.storeErr(err, ErrUserNotFound)
	}

	if err := s.notifier.Notify(ctx, notify.KindVerification, recipient(u), map[string]string{notify.DataToken: secret.Plain}); err != nil {
		s.logger.Warn("Verification email not sent after registration", zap.String("userID", u.ID.String()), zap.Error(err))
	}
	s.logger.Info("User registered", zap.String("userID", u.ID.String()))
	return u, nil
}

// Login checks credentials, then account state in precedence order, then
// issues a token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", apperr.Internal(err)
	}
	if !s.hasher.Compare(u.Password, in.Password) {
		return nil, "", ErrInvalidCredentials
	}

	switch models.CheckLogin(u) {
	case models.LoginBlockedDeleted:
		return nil, "", ErrAccountDeleted
	case models.LoginBlockedSuspended:
		return nil, "", ErrAccountSuspended
	case models.LoginBlockedInactive:
		return nil, "", ErrAccountInactive
	case models.LoginBlockedUnverified:
		return nil, "", ErrEmailNotVerified
	}

	token, err := s.tokens.Sign(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return u, token, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.Validation("Verification token is required")
	}
	hash := utils.HashToken(token)
	now := s.now()

	u, err := s.users.GetByVerificationHash(ctx, hash, now)
	if err != nil {
		return nil, s.storeErr(err, ErrInvalidVerification)
	}
	updated, err := s.users.Update(ctx, u.ID, func(u *models.User) error {
		// re-checked under the row lock so a replay loses the race
		if !u.VerificationSecretMatches(hash, now) {
			return ErrInvalidVerification
		}
		u.EmailVerified = true
		u.ClearVerificationSecret()
		return nil
	})
	if err != nil {
		return nil, s.storeErr(err, ErrInvalidVerification)
	}
	return updated, nil
}

func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return s.storeErr(err, ErrUserNotFound)
	}

	secret, err := utils.IssueOneTimeSecret(s.verificationTTL, s.now())
	if err != nil {
		return apperr.Internal(err)
	}
	u, err = s.users.Update(ctx, u.ID, func(u *models.User) error {
		if u.EmailVerified {
			return ErrAlreadyVerified
		}
		u.SetVerificationSecret(secret.Hash, secret.ExpiresAt)
		return nil
	})
	if err != nil {
		return s.storeErr(err, ErrUserNotFound)
	}

	if err := s.notifier.Notify(ctx, notify.KindVerification, recipient(u), map[string]string{notify.DataToken: secret.Plain}); err != nil {
		return apperr.External("Failed to send verification email", err)
	}
	return nil
}

// ForgotPassword returns nil for unknown emails so callers cannot tell
// accounts apart.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return apperr.Internal(err)
	}

	secret, err := utils.IssueOneTimeSecret(s.resetTTL, s.now())
	if err != nil {
		return apperr.Internal(err)
	}
	u, err = s.users.Update(ctx, u.ID, func(u *models.User) error {
		u.SetResetSecret(secret.Hash, secret.ExpiresAt)
		return nil
	})
	if err != nil {
		return s.storeErr(err, nil)
	}

	sendErr := s.notifier.Notify(ctx, notify.KindPasswordReset, recipient(u), map[string]string{notify.DataToken: secret.Plain})
	if sendErr == nil {
		return nil
	}

	_, err = s.users.Update(ctx, u.ID, func(u *models.User) error {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == secret.Hash {
			u.ClearResetSecret()
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to clear reset token after send failure", zap.String("userID", u.ID.String()), zap.Error(err))
	}
	return apperr.External("Failed to send password reset email", sendErr)
}

func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) (*models.User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}
	hash := utils.HashToken(in.Token)
	now := s.now()

	u, err := s.users.GetByResetHash(ctx, hash, now)
	if err != nil {
		return nil, "", s.storeErr(err, ErrInvalidReset)
	}
	pw, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	u, err = s.users.Update(ctx, u.ID, func(u *models.User) error {
		if !u.ResetSecretMatches(hash, now) {
			return ErrInvalidReset
		}
		u.Password = pw
		u.ClearResetSecret()
		return nil
	})
	if err != nil {
		return nil, "", s.storeErr(err, ErrInvalidReset)
	}

	token, err := s.tokens.Sign(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx, store.UserFilter{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// ListPending returns unverified accounts that can still be approved.
func (s *Service) ListPending(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx, store.UserFilter{PendingOnly: true})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// UpdateProfile edits contact fields only. Role, status and verification are
// out of its reach.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Email != nil {
		other, err := s.users.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil && other.ID != id:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return nil, apperr.Internal(err)
		}
	}

	u, err := s.users.Update(ctx, id, func(u *models.User) error {
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		return nil
	})
	if err != nil {
		return nil, s.storeErr(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return s.storeErr(err, ErrUserNotFound)
	}
	s.logger.Info("User deleted", zap.String("userID", id.String()))
	return nil
}

// Apply runs a lifecycle action on the account. Notification failures are
// logged and never undo the state change.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, action models.LifecycleAction, reason string) (*models.User, error) {
	u, err := s.users.Update(ctx, id, func(u *models.User) error {
		from := u.Status
		if err := models.Transition(u, action); err != nil {
			return lifecycleErr(err, action, from)
		}
		if action == models.ActionApprove {
			u.ClearVerificationSecret()
		}
		return nil
	})
	if err != nil {
		return nil, s.storeErr(err, ErrUserNotFound)
	}

	s.logger.Info("Account lifecycle action applied",
		zap.String("userID", u.ID.String()),
		zap.String("action", string(action)),
		zap.String("status", string(u.Status)))

	if kind, ok := notificationFor(action); ok {
		data := map[string]string{}
		if reason != "" {
			data[notify.DataReason] = reason
		}
		if err := s.notifier.Notify(ctx, kind, recipient(u), data); err != nil {
			s.logger.Warn("Lifecycle notification not sent", zap.String("userID", u.ID.String()), zap.String("action", string(action)), zap.Error(err))
		}
	}
	return u, nil
}

func notificationFor(action models.LifecycleAction) (notify.Kind, bool) {
	switch action {
	case models.ActionApprove:
		return notify.KindAccountApproved, true
	case models.ActionSuspend:
		return notify.KindAccountSuspended, true
	case models.ActionBan:
		return notify.KindAccountBanned, true
	}
	return "", false
}

func lifecycleErr(err error, action models.LifecycleAction, from models.AccountStatus) error {
	switch {
	case errors.Is(err, models.ErrAdminProtected):
		return ErrAdminTarget
	case errors.Is(err, models.ErrTransitionNotAllowed):
		return apperr.Forbidden(fmt.Sprintf("Cannot %s an account that is %s", action, from))
	case errors.Is(err, models.ErrUnknownAction):
		return apperr.Validation(fmt.Sprintf("Unknown account action %q", action))
	}
	return err
}

// storeErr maps store errors onto the API taxonomy. notFound replaces
// store.ErrNotFound when set.
func (s *Service) storeErr(err error, notFound *apperr.Error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrEmailTaken
	}
	return apperr.Internal(err)
}

func recipient(u *models.User) notify.Recipient {
	return notify.Recipient{Email: u.Email, Name: u.Name}
}
