// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login and password reset on top
// of the credential store, the password hasher and the token issuer.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

// dummyPassword is hashed once and verified against when the email is unknown,
// so a failed login costs the same whether or not the identity exists.
const dummyPassword = "fintrack-timing-guard"

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string                 `json:"token"`
	User  models.IdentitySummary `json:"user"`
}

// AuthService provides authentication-related operations:
// - Register: create identities
// - Login: verify credentials and mint tokens
// - ResetPassword: overwrite the stored hash (if enabled)
type AuthService struct {
	db                 *sql.DB
	repomanager        repomanager.RepositoryManager
	hasher             auth.Hasher
	issuer             *auth.TokenIssuer
	allowPasswordReset bool
	logger             logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.Hasher,
	issuer *auth.TokenIssuer, allowPasswordReset bool, logger logging.Logger) *AuthService {
	return &AuthService{
		db:                 db,
		repomanager:        m,
		hasher:             hasher,
		issuer:             issuer,
		allowPasswordReset: allowPasswordReset,
		logger:             logger,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireCredentials(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}
	return nil
}

// Register creates a new identity and returns a token for it. A duplicate
// email yields common.ErrorConflict and leaves the existing identity untouched.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(email) > models.MaxTextLength {
		return nil, fmt.Errorf("%w: email must be at most %d characters long", common.ErrorValidation, models.MaxTextLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	identity, err := repo.Create(ctx, &models.Identity{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("%w: creating user: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "identity registered", "user_id", identity.ID)

	return s.result(identity)
}

// Login verifies credentials. Unknown email and wrong password produce the
// same common.ErrorAuth.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if err := requireCredentials(email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	identity, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.getDummyHash())
			return nil, common.ErrorAuth
		}
		return nil, fmt.Errorf("%w: searching user: %w", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, identity.PasswordHash) {
		return nil, common.ErrorAuth
	}

	return s.result(identity)
}

// ResetPassword replaces the stored hash for email. It does not require the
// old password; deployments can switch it off with AllowPasswordReset.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if !s.allowPasswordReset {
		return fmt.Errorf("%w: password reset is disabled", common.ErrFeatureDisabled)
	}

	email = NormalizeEmail(email)
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePasswordHash(ctx, email, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return fmt.Errorf("%w: updating password: %w", common.ErrorInternal, err)
	}

	s.logger.Warn(ctx, "password reset without prior authentication", "email", email)

	return nil
}

// --- helpers below ---

func (s *AuthService) result(identity *models.Identity) (*AuthResult, error) {
	token, err := s.issuer.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: issuing token: %w", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, User: identity.Summary()}, nil
}

func (s *AuthService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(dummyPassword)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
