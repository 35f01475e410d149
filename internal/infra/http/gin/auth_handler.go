package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/dto"
	authsvc "fleetrent/internal/app/services/auth"
	domaincar "fleetrent/internal/domain/car"
	domainuser "fleetrent/internal/domain/user"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type AuthHandler struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

type registerRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id"`
	DeviceToken string `json:"device_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  dto.UserSummary `json:"user"`
	Token string          `json:"token"`
}

func (h AuthHandler) Register(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusFailed, "message": "auth service unavailable"})
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "invalid request"})
		return
	}
	role := domainuser.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = domainuser.RoleCustomer
	}
	// Privileged roles are provisioned by an admin, not self-service.
	if role != domainuser.RoleCustomer {
		if _, ok := requireRole(c, roleAdmin); !ok {
			return
		}
	}
	result, err := h.Service.Register(c.Request.Context(), authsvc.RegisterParams{
		Email:       req.Email,
		Phone:       req.Phone,
		Name:        req.Name,
		Password:    req.Password,
		Role:        role,
		CompanyID:   domaincar.CompanyID(req.CompanyID),
		DeviceToken: req.DeviceToken,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, authResponse{User: dto.MapUserSummary(result.User), Token: result.Token})
}

func (h AuthHandler) Login(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusFailed, "message": "auth service unavailable"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "invalid request"})
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, authResponse{User: dto.MapUserSummary(result.User), Token: result.Token})
}

func (h AuthHandler) Logout(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusFailed, "message": "auth service unavailable"})
		return
	}
	token := bearerTokenFromContext(c)
	if err := h.Service.Logout(c.Request.Context(), token); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("logout failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFailed, "message": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := requireRole(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"id":         p.ID,
		"email":      p.Email,
		"name":       p.Name,
		"role":       p.Role,
		"company_id": p.CompanyID,
	})
}

func bearerTokenFromContext(c *gin.Context) string {
	if p, ok := currentPrincipal(c); ok && p.Token != "" {
		return p.Token
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

var _ AuthHTTP = (*AuthHandler)(nil)
