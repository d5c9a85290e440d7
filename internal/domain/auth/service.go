package auth

import (
	"context"
	"errors"
	"fmt"

	"kitaguard/internal/domain/audit"
)

// ErrInvalidCredentials hides whether the email or the password was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// StoreAPI is the credential storage the login service needs.
type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (AuthUser, error)
	RecordFailedLogin(ctx context.Context, email, ip string) error
	UpdateLastLogin(ctx context.Context, userID string) error
}

type Service struct {
	store  StoreAPI
	audits *audit.Service
}

func NewService(store StoreAPI, audits *audit.Service) *Service {
	return &Service{store: store, audits: audits}
}

// Authenticate checks the credentials for email. Failed attempts are
// persisted and audited before the uniform ErrInvalidCredentials is
// returned; successful logins update last_login and land in the audit
// trail as processing activity.
func (s *Service) Authenticate(ctx context.Context, email, password, ip string) (AuthUser, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		s.recordFailure(ctx, email, ip, "unknown email")
		return AuthUser{}, ErrInvalidCredentials
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email, ip, "wrong password")
		return AuthUser{}, ErrInvalidCredentials
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; last_login is informational.
		s.audits.RecordBestEffort(ctx, user.ID, audit.ActionUserLogin, "User", user.ID, fmt.Sprintf("login (last_login update failed: %v)", err), user.InstitutionID)
		return user, nil
	}

	s.audits.RecordBestEffort(ctx, user.ID, audit.ActionUserLogin, "User", user.ID, "login", user.InstitutionID)
	return user, nil
}

func (s *Service) recordFailure(ctx context.Context, email, ip, reason string) {
	if err := s.store.RecordFailedLogin(ctx, email, ip); err != nil {
		s.audits.RecordBestEffort(ctx, audit.ActorSystem, audit.ActionFailedLogin, "FailedLogin", "", fmt.Sprintf("%s (row insert failed: %v)", reason, err), nil)
		return
	}
	s.audits.RecordBestEffort(ctx, audit.ActorSystem, audit.ActionFailedLogin, "FailedLogin", "", reason, nil)
}
