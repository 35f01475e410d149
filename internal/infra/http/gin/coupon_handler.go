package ginserver

import (
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	couponsapp "fleetrent/internal/app/handlers/coupons"
	"fleetrent/internal/app/queries"
)

type CouponHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
	Apply(c *gin.Context)
}

type CouponHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createCouponRequest struct {
	Code         string `json:"code"`
	CompanyID    string `json:"company_id"`
	DiscountRate int    `json:"discount_rate"`
	Description  string `json:"description"`
	Banner       string `json:"banner"`
}

func (h CouponHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, roleStaff, roleAdmin)
	if !ok {
		return
	}
	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	if p.hasRole(roleStaff) {
		req.CompanyID = p.CompanyID
	}
	cmd := couponsapp.CreateCouponCommand{
		Code:         req.Code,
		CompanyID:    req.CompanyID,
		DiscountRate: req.DiscountRate,
		Description:  req.Description,
		Banner:       req.Banner,
	}
	result, err := commands.Dispatch[couponsapp.CreateCouponCommand, dto.CouponSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, result)
}

type updateCouponRequest struct {
	DiscountRate *int    `json:"discount_rate"`
	Description  *string `json:"description"`
	Banner       *string `json:"banner"`
	Display      *bool   `json:"display"`
}

func (h CouponHandler) Update(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	var req updateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := couponsapp.UpdateCouponCommand{
		CouponID:     c.Param("id"),
		DiscountRate: req.DiscountRate,
		Description:  req.Description,
		Banner:       req.Banner,
		Display:      req.Display,
	}
	result, err := commands.Dispatch[couponsapp.UpdateCouponCommand, dto.CouponSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h CouponHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	cmd := couponsapp.DeleteCouponCommand{CouponID: c.Param("id")}
	result, err := commands.Dispatch[couponsapp.DeleteCouponCommand, *couponsapp.DeleteCouponResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "coupon removed", result)
}

func (h CouponHandler) List(c *gin.Context) {
	q := couponsapp.ListCouponsQuery{CompanyID: c.Query("company_id")}
	result, err := queries.Ask[couponsapp.ListCouponsQuery, dto.CouponCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

// Apply previews a discount: GET /coupons/apply?code=SAVE20&amount=12000.
func (h CouponHandler) Apply(c *gin.Context) {
	if _, ok := requireRole(c); !ok {
		return
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(c.Query("amount")), 10, 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "amount must be a non-negative integer"})
		return
	}
	q := couponsapp.ApplyCouponQuery{Code: c.Query("code"), Amount: amount}
	result, err := queries.Ask[couponsapp.ApplyCouponQuery, couponsapp.ApplyCouponResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ CouponHTTP = CouponHandler{}
