package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/services/auth"
	domainauth "fleetrent/internal/domain/auth"
	domainuser "fleetrent/internal/domain/user"
)

const principalContextKey = "fleetrent.principal"

type principal struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CompanyID string
	Token     string
}

func (p principal) hasRole(roles ...string) bool {
	for _, role := range roles {
		if strings.EqualFold(p.Role, role) {
			return true
		}
	}
	return false
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle attaches the principal when a valid bearer token is present.
// Route handlers decide whether a principal is required.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	user := resolved.User
	setPrincipal(c, principal{
		ID:        string(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CompanyID: string(user.CompanyID),
		Token:     token,
	})
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireRole aborts with 401/403 unless the caller holds one of the
// roles. An empty role list only requires authentication.
func requireRole(c *gin.Context, roles ...string) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": statusFailed, "message": "auth required"})
		return principal{}, false
	}
	if len(roles) > 0 && !p.hasRole(roles...) {
		c.JSON(http.StatusForbidden, gin.H{"status": statusFailed, "message": "insufficient permissions"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

var (
	roleAdmin    = string(domainuser.RoleAdmin)
	roleStaff    = string(domainuser.RoleStaff)
	roleAgent    = string(domainuser.RoleAgent)
	roleCustomer = string(domainuser.RoleCustomer)
)
