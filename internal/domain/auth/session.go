package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/user"
)

var (
	ErrTokenRequired   = errors.New("auth: token is required")
	ErrUserRequired    = errors.New("auth: user is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
)

type Token string

// Session is one issued bearer token. Staff and agent sessions carry
// the company they act for, so company scoping survives even when the
// user record changes between requests. Expiry slides: a session in
// active use keeps renewing itself, an abandoned one lapses after TTL.
type Session struct {
	Token     Token
	UserID    user.ID
	Role      user.Role
	CompanyID car.CompanyID
	TTL       time.Duration
	CreatedAt time.Time
	ExpiresAt time.Time
}

type CreateSessionParams struct {
	Token     Token
	UserID    user.ID
	Role      user.Role
	CompanyID car.CompanyID
	TTL       time.Duration
	Now       time.Time
}

func NewSession(params CreateSessionParams) (*Session, error) {
	token := strings.TrimSpace(string(params.Token))
	if token == "" {
		return nil, ErrTokenRequired
	}
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrUserRequired
	}
	if params.TTL <= 0 {
		return nil, ErrTTLInvalid
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Session{
		Token:     Token(token),
		UserID:    params.UserID,
		Role:      params.Role,
		CompanyID: params.CompanyID,
		TTL:       params.TTL,
		CreatedAt: now,
		ExpiresAt: now.Add(params.TTL),
	}, nil
}

func (s *Session) Expired(at time.Time) bool {
	if at.IsZero() {
		at = time.Now()
	}
	return !s.ExpiresAt.After(at.UTC())
}

// Touch renews the session when less than half its TTL remains. It
// reports whether the expiry moved, so callers know to persist the
// change. Renewing on every request would make each read a write.
func (s *Session) Touch(at time.Time) bool {
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()
	if s.Expired(at) || s.TTL <= 0 {
		return false
	}
	if s.ExpiresAt.Sub(at) >= s.TTL/2 {
		return false
	}
	s.ExpiresAt = at.Add(s.TTL)
	return true
}

type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token Token) (*Session, error)
	Delete(ctx context.Context, token Token) error
	DeleteByUser(ctx context.Context, userID user.ID) error
}
