package ginserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	bookingapp "fleetrent/internal/app/handlers/booking"
	"fleetrent/internal/app/services/auth"
	domainauth "fleetrent/internal/domain/auth"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domainhandover "fleetrent/internal/domain/handover"
)

func TestHTTPStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"booking not found", domainbooking.ErrNotFound, http.StatusNotFound},
		{"car not found", domaincar.ErrNotFound, http.StatusNotFound},
		{"already cancelled", domainbooking.ErrAlreadyCancelled, http.StatusConflict},
		{"leg not allowed", domainhandover.ErrLegNotAllowed, http.StatusConflict},
		{"car unavailable wrapped", fmt.Errorf("%w: conflicting booking", bookingapp.ErrCarUnavailable), http.StatusConflict},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"dead session", domainauth.ErrSessionNotFound, http.StatusUnauthorized},
		{"validation fallthrough", domainbooking.ErrCustomerRequired, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httpStatusFor(tt.err))
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"plain", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"surrounding space", "Bearer   abc123  ", "abc123"},
		{"empty header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBearerToken(tt.header))
		})
	}
}
