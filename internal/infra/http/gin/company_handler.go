package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	companiesapp "fleetrent/internal/app/handlers/companies"
	"fleetrent/internal/app/queries"
)

type CompanyHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	ChangeStatus(c *gin.Context)
	SetCancellationPolicy(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
}

type CompanyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createCompanyRequest struct {
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Phone   string             `json:"phone"`
	Address dto.CompanyAddress `json:"address"`
}

func (h CompanyHandler) Create(c *gin.Context) {
	if _, ok := requireRole(c, roleAdmin); !ok {
		return
	}
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := companiesapp.CreateCompanyCommand{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	result, err := commands.Dispatch[companiesapp.CreateCompanyCommand, dto.CompanySummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, result)
}

type updateCompanyRequest struct {
	Name    *string             `json:"name"`
	Email   *string             `json:"email"`
	Phone   *string             `json:"phone"`
	Address *dto.CompanyAddress `json:"address"`
}

func (h CompanyHandler) Update(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := companiesapp.UpdateCompanyCommand{
		CompanyID: c.Param("id"),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	result, err := commands.Dispatch[companiesapp.UpdateCompanyCommand, dto.CompanySummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

type changeStatusRequest struct {
	Active bool `json:"active"`
}

func (h CompanyHandler) ChangeStatus(c *gin.Context) {
	if _, ok := requireRole(c, roleAdmin); !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := companiesapp.ChangeCompanyStatusCommand{CompanyID: c.Param("id"), Active: req.Active}
	result, err := commands.Dispatch[companiesapp.ChangeCompanyStatusCommand, dto.CompanySummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

type setPolicyRequest struct {
	Tiers []dto.CancellationTier `json:"tiers"`
}

func (h CompanyHandler) SetCancellationPolicy(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	var req setPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := companiesapp.SetCancellationPolicyCommand{CompanyID: c.Param("id"), Tiers: req.Tiers}
	result, err := commands.Dispatch[companiesapp.SetCancellationPolicyCommand, dto.CompanyDetails](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h CompanyHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, roleAdmin); !ok {
		return
	}
	cmd := companiesapp.DeleteCompanyCommand{CompanyID: c.Param("id")}
	result, err := commands.Dispatch[companiesapp.DeleteCompanyCommand, *companiesapp.DeleteCompanyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "company removed", result)
}

func (h CompanyHandler) List(c *gin.Context) {
	q := companiesapp.ListCompaniesQuery{
		OnlyActive: c.Query("active") == "true",
		Offset:     queryInt(c, "offset"),
		Limit:      queryInt(c, "limit"),
	}
	result, err := queries.Ask[companiesapp.ListCompaniesQuery, dto.CompanyCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h CompanyHandler) Get(c *gin.Context) {
	q := companiesapp.GetCompanyQuery{CompanyID: c.Param("id")}
	result, err := queries.Ask[companiesapp.GetCompanyQuery, dto.CompanyDetails](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ CompanyHTTP = CompanyHandler{}
