package ginserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	bookingapp "fleetrent/internal/app/handlers/booking"
	"fleetrent/internal/app/queries"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	Extend(c *gin.Context)
	ResendInvoice(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
}

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	CarID      string    `json:"car_id"`
	PickupDate time.Time `json:"pickup_date"`
	Days       int       `json:"days"`
	CouponCode string    `json:"coupon_code"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, roleCustomer, roleAdmin)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       uuid.NewString(),
		CarID:           req.CarID,
		CustomerID:      user.ID,
		PickupDate:      req.PickupDate,
		Days:            req.Days,
		CouponCode:      req.CouponCode,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	if _, ok := requireRole(c, roleCustomer, roleStaff, roleAdmin); !ok {
		return
	}
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.CancelBookingCommand{
		BookingNumber:   c.Param("number"),
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.AssignmentSync == bookingapp.SyncFailed {
		respondFailedWith(c, "booking cancelled, assignment sync pending", result)
		return
	}
	respondData(c, http.StatusOK, result)
}

type extendBookingRequest struct {
	ExtraDays int `json:"extra_days"`
}

func (h BookingHandler) Extend(c *gin.Context) {
	if _, ok := requireRole(c, roleCustomer, roleStaff, roleAdmin); !ok {
		return
	}
	var req extendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := bookingapp.ExtendBookingCommand{
		BookingNumber: c.Param("number"),
		ExtraDays:     req.ExtraDays,
	}
	result, err := commands.Dispatch[bookingapp.ExtendBookingCommand, *bookingapp.ExtendBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h BookingHandler) ResendInvoice(c *gin.Context) {
	if _, ok := requireRole(c, roleCustomer, roleStaff, roleAdmin); !ok {
		return
	}
	cmd := bookingapp.ResendInvoiceCommand{BookingNumber: c.Param("number")}
	result, err := commands.Dispatch[bookingapp.ResendInvoiceCommand, *bookingapp.ResendInvoiceResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "invoice queued", result)
}

func (h BookingHandler) List(c *gin.Context) {
	p, ok := requireRole(c)
	if !ok {
		return
	}
	q := bookingapp.ListBookingsQuery{
		CompanyID: c.Query("company_id"),
		CarID:     c.Query("car_id"),
		Offset:    queryInt(c, "offset"),
		Limit:     queryInt(c, "limit"),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		q.Statuses = strings.Split(raw, ",")
	}
	// Customers only ever see their own ledger.
	if p.hasRole(roleCustomer) {
		q.CustomerID = p.ID
	} else {
		q.CustomerID = c.Query("customer_id")
		if p.hasRole(roleStaff) && q.CompanyID == "" {
			q.CompanyID = p.CompanyID
		}
	}
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if _, ok := requireRole(c); !ok {
		return
	}
	q := bookingapp.GetBookingQuery{BookingNumber: c.Param("number")}
	result, err := queries.Ask[bookingapp.GetBookingQuery, dto.BookingDetails](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func queryInt(c *gin.Context, name string) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

var _ BookingHTTP = BookingHandler{}
