// Package account implements sign-up, sign-in, sign-out and profile lookup.
// Sign-in hands out signed tokens; sign-out revokes them by id.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"blogapi/internal/auth"
	"blogapi/internal/errs"
	"blogapi/internal/models"
	"blogapi/internal/store"
)

const (
	msgUnauthorized       = "Unauthorized"
	msgCredentialsMissing = "Email and password are required"
	msgBadCredentials     = "Invalid email or password"
	msgEmailTaken         = "Email already registered"
	msgUserNotFound       = "User not found"
)

// Users persists accounts. Lookups return nil, nil for a missing user.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
}

// Revoker records revoked token ids until the token expires.
type Revoker interface {
	Revoke(ctx context.Context, id string, until time.Time) error
}

// Grant is the result of a successful sign-up or sign-in.
type Grant struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Service runs account operations.
type Service struct {
	users   Users
	tokens  *auth.Tokens
	revoker Revoker
}

// NewService creates an account service. revoker may be nil, in which case
// logout cannot invalidate a token before it expires.
func NewService(users Users, tokens *auth.Tokens, revoker Revoker) *Service {
	return &Service{users: users, tokens: tokens, revoker: revoker}
}

// Signup validates and stores a new account and signs it in.
func (s *Service) Signup(ctx context.Context, in models.Signup) (*Grant, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errs.Internal(err)
	}

	u, err := s.users.Create(ctx, &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, errs.Conflict(msgEmailTaken)
	}
	if err != nil {
		return nil, errs.Internal(fmt.Errorf("signup: %w", err))
	}

	log.Info().Str("user_id", u.ID.String()).Msg("account created")
	return s.grant(u)
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords get the same answer.
func (s *Service) Login(ctx context.Context, email, password string) (*Grant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errs.Validation(msgCredentialsMissing)
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.Internal(fmt.Errorf("login: %w", err))
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errs.Unauthorized(msgBadCredentials)
	}

	return s.grant(u)
}

// Profile returns the subject's own account.
func (s *Service) Profile(ctx context.Context, subject auth.Subject) (*models.User, error) {
	if subject.IsAnonymous() {
		return nil, errs.Unauthorized(msgUnauthorized)
	}

	u, err := s.users.FindByID(ctx, subject.ID())
	if err != nil {
		return nil, errs.Internal(fmt.Errorf("profile: %w", err))
	}
	if u == nil {
		return nil, errs.NotFound(msgUserNotFound)
	}
	return u, nil
}

// Logout revokes token if it is still valid. Invalid or missing tokens are
// ignored; logout always succeeds from the caller's point of view.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" || s.revoker == nil {
		return
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("token revocation failed")
	}
}

func (s *Service) grant(u *models.User) (*Grant, error) {
	token, claims, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &Grant{User: u, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}
