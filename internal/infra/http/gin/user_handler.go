package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	usersapp "fleetrent/internal/app/handlers/users"
	"fleetrent/internal/app/queries"
)

type UserHTTP interface {
	Verify(c *gin.Context)
	UpdateDeviceToken(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
}

type UserHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h UserHandler) Verify(c *gin.Context) {
	if _, ok := requireRole(c, roleAdmin); !ok {
		return
	}
	cmd := usersapp.VerifyUserCommand{UserID: c.Param("id")}
	result, err := commands.Dispatch[usersapp.VerifyUserCommand, dto.UserSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

type deviceTokenRequest struct {
	DeviceToken string `json:"device_token"`
}

func (h UserHandler) UpdateDeviceToken(c *gin.Context) {
	p, ok := requireRole(c)
	if !ok {
		return
	}
	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := usersapp.UpdateDeviceTokenCommand{UserID: p.ID, DeviceToken: req.DeviceToken}
	result, err := commands.Dispatch[usersapp.UpdateDeviceTokenCommand, dto.UserSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h UserHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, roleAdmin); !ok {
		return
	}
	cmd := usersapp.DeleteUserCommand{UserID: c.Param("id")}
	result, err := commands.Dispatch[usersapp.DeleteUserCommand, *usersapp.DeleteUserResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "user removed", result)
}

func (h UserHandler) List(c *gin.Context) {
	p, ok := requireRole(c, roleStaff, roleAdmin)
	if !ok {
		return
	}
	q := usersapp.ListUsersQuery{
		Role:      c.Query("role"),
		CompanyID: c.Query("company_id"),
		Offset:    queryInt(c, "offset"),
		Limit:     queryInt(c, "limit"),
	}
	if p.hasRole(roleStaff) {
		q.CompanyID = p.CompanyID
	}
	result, err := queries.Ask[usersapp.ListUsersQuery, dto.UserCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h UserHandler) Get(c *gin.Context) {
	p, ok := requireRole(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !p.hasRole(roleStaff, roleAdmin) && id != p.ID {
		c.JSON(http.StatusForbidden, gin.H{"status": statusFailed, "message": "insufficient permissions"})
		return
	}
	q := usersapp.GetUserQuery{UserID: id}
	result, err := queries.Ask[usersapp.GetUserQuery, dto.UserSummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ UserHTTP = UserHandler{}
