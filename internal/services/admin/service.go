package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/keepsakehq/keepsake/internal/dependencies/clock"
	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/services/session"
	"github.com/keepsakehq/keepsake/internal/storage"
)

// Validation minimums
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// Errors
var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, deliberately indistinguishable to prevent enumeration
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountPending     = errors.New("account is pending approval")
	ErrAccountRejected    = errors.New("account was rejected")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrLastAdmin          = errors.New("must keep at least one approved admin")
)

// LoginResult is a successful login: the minted token plus the account
type LoginResult struct {
	Token string
	Admin *model.AdminAccount
}

// Service is the admin authority: registration with an approval workflow,
// credentialed login, and account management.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	sessions *session.Service
	logger   *slog.Logger
}

// New creates an admin service
func New(store storage.Storage, clk clock.Clock, sessions *session.Service, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		clock:    clk,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates a new account. The first account ever is auto-approved;
// all later ones start pending.
func (s *Service) Register(ctx context.Context, username, password string) (*model.AdminAccount, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.storage.GetAdminByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAdminNotFound) {
		return nil, err
	}

	total, err := s.storage.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}

	status := model.AdminStatusPending
	if total == 0 {
		status = model.AdminStatusApproved
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.AdminAccount{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Status:       status,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.SaveAdmin(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("admin registered",
		slog.String("admin_id", account.ID),
		slog.String("status", string(account.Status)),
	)
	return account, nil
}

// Login verifies credentials and mints an admin session. Unknown usernames
// and wrong passwords return the same error; approval status is only
// revealed after the password checks out.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.storage.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	switch account.Status {
	case model.AdminStatusPending:
		return nil, ErrAccountPending
	case model.AdminStatusRejected:
		return nil, ErrAccountRejected
	}

	token, err := s.sessions.MintAdmin(account.ID, account.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", slog.String("admin_id", account.ID))
	return &LoginResult{Token: token, Admin: account}, nil
}

// SetApproval transitions an account to approved or rejected. Only callable
// through an authenticated admin boundary.
func (s *Service) SetApproval(ctx context.Context, id string, approve bool) (*model.AdminAccount, error) {
	account, err := s.storage.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if approve {
		account.Status = model.AdminStatusApproved
	} else {
		account.Status = model.AdminStatusRejected
	}

	if err := s.storage.SaveAdmin(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("admin approval changed",
		slog.String("admin_id", id),
		slog.String("status", string(account.Status)),
	)
	return account, nil
}

// ChangePassword replaces an account's password hash
func (s *Service) ChangePassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	account, err := s.storage.GetAdmin(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account.PasswordHash = string(hash)
	return s.storage.SaveAdmin(ctx, account)
}

// Delete removes an account. Deleting the last approved admin is rejected;
// the check runs atomically against the live approved count inside the
// storage transaction, never against a count read earlier.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.storage.DeleteAdmin(ctx, id, func(target *model.AdminAccount, approvedCount int) error {
		if target.Status == model.AdminStatusApproved && approvedCount <= 1 {
			return ErrLastAdmin
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("admin deleted", slog.String("admin_id", id))
	return nil
}

// List returns every account, newest first
func (s *Service) List(ctx context.Context) ([]*model.AdminAccount, error) {
	return s.storage.ListAdmins(ctx)
}
