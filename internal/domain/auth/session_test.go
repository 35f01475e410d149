package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/domain/car"
)

func TestNewSession(t *testing.T) {
	issued := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)

	t.Run("carries the company scope", func(t *testing.T) {
		s, err := NewSession(CreateSessionParams{
			Token:     "tok-1",
			UserID:    "user-1",
			Role:      "staff",
			CompanyID: car.CompanyID("comp-1"),
			TTL:       time.Hour,
			Now:       issued,
		})
		require.NoError(t, err)
		assert.Equal(t, car.CompanyID("comp-1"), s.CompanyID)
		assert.Equal(t, issued.Add(time.Hour), s.ExpiresAt)
	})

	t.Run("rejects blank token", func(t *testing.T) {
		_, err := NewSession(CreateSessionParams{UserID: "user-1", TTL: time.Hour})
		assert.ErrorIs(t, err, ErrTokenRequired)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := NewSession(CreateSessionParams{Token: "tok-1", UserID: "user-1"})
		assert.ErrorIs(t, err, ErrTTLInvalid)
	})
}

func TestSessionTouch(t *testing.T) {
	issued := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)
	newSession := func(t *testing.T) *Session {
		t.Helper()
		s, err := NewSession(CreateSessionParams{
			Token:  "tok-1",
			UserID: "user-1",
			TTL:    time.Hour,
			Now:    issued,
		})
		require.NoError(t, err)
		return s
	}

	t.Run("renews once half the ttl has elapsed", func(t *testing.T) {
		s := newSession(t)
		at := issued.Add(45 * time.Minute)
		assert.True(t, s.Touch(at))
		assert.Equal(t, at.Add(time.Hour), s.ExpiresAt)
	})

	t.Run("leaves a fresh session alone", func(t *testing.T) {
		s := newSession(t)
		assert.False(t, s.Touch(issued.Add(10*time.Minute)))
		assert.Equal(t, issued.Add(time.Hour), s.ExpiresAt)
	})

	t.Run("does not revive an expired session", func(t *testing.T) {
		s := newSession(t)
		at := issued.Add(2 * time.Hour)
		assert.False(t, s.Touch(at))
		assert.True(t, s.Expired(at))
	})
}
