package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "fleetrent/internal/domain/auth"
	domainuser "fleetrent/internal/domain/user"
	"fleetrent/internal/infra/storage/memory"
)

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type seqTokens struct{ n int }

func (g *seqTokens) NewToken() (string, error) {
	g.n++
	return fmt.Sprintf("token-%d", g.n), nil
}

func newService() *Service {
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  plainHasher{},
		Tokens:     &seqTokens{},
		SessionTTL: time.Hour,
	}
}

func register(t *testing.T, s *Service, email string) *AuthResult {
	t.Helper()
	res, err := s.Register(context.Background(), RegisterParams{
		Email:    email,
		Name:     "Test User",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to customer and opens a session", func(t *testing.T) {
		s := newService()
		res := register(t, s, "user@fleetrent.test")
		assert.Equal(t, domainuser.RoleCustomer, res.User.Role)
		assert.NotEmpty(t, res.Token)

		resolved, err := s.ResolveToken(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, resolved.User.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		s := newService()
		register(t, s, "user@fleetrent.test")
		_, err := s.Register(ctx, RegisterParams{
			Email:    "USER@fleetrent.test",
			Name:     "Someone Else",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
	})

	t.Run("short password rejected", func(t *testing.T) {
		s := newService()
		_, err := s.Register(ctx, RegisterParams{
			Email:    "user@fleetrent.test",
			Name:     "Test User",
			Password: "short",
		})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fresh token", func(t *testing.T) {
		s := newService()
		registered := register(t, s, "user@fleetrent.test")

		res, err := s.Login(ctx, LoginParams{Email: "user@fleetrent.test", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.NotEqual(t, registered.Token, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		s := newService()
		register(t, s, "user@fleetrent.test")
		_, err := s.Login(ctx, LoginParams{Email: "user@fleetrent.test", Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reads as bad credentials", func(t *testing.T) {
		s := newService()
		_, err := s.Login(ctx, LoginParams{Email: "ghost@fleetrent.test", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogoutAndResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("logout kills the session", func(t *testing.T) {
		s := newService()
		res := register(t, s, "user@fleetrent.test")

		require.NoError(t, s.Logout(ctx, res.Token))
		_, err := s.ResolveToken(ctx, res.Token)
		assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	})

	t.Run("empty token", func(t *testing.T) {
		s := newService()
		_, err := s.ResolveToken(ctx, "  ")
		assert.ErrorIs(t, err, domainauth.ErrTokenRequired)
	})

	t.Run("removed account invalidates sessions", func(t *testing.T) {
		s := newService()
		res := register(t, s, "user@fleetrent.test")

		u, err := s.Users.ByID(ctx, res.User.ID)
		require.NoError(t, err)
		u.Deleted = true
		require.NoError(t, s.Users.Save(ctx, u))

		_, err = s.ResolveToken(ctx, res.Token)
		assert.ErrorIs(t, err, ErrAccountRemoved)
		_, err = s.ResolveToken(ctx, res.Token)
		assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	})
}
