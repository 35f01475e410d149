package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	agentapp "fleetrent/internal/app/handlers/agent"
	bookingapp "fleetrent/internal/app/handlers/booking"
	"fleetrent/internal/app/services/auth"
	domainagent "fleetrent/internal/domain/agent"
	domainauth "fleetrent/internal/domain/auth"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
	domaincoupon "fleetrent/internal/domain/coupon"
	domainhandover "fleetrent/internal/domain/handover"
	domainreport "fleetrent/internal/domain/report"
	domainreview "fleetrent/internal/domain/review"
	domainuser "fleetrent/internal/domain/user"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// responses follow the {status, message, data} envelope throughout the
// API; errors carry the envelope too, with data omitted.
func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": statusSuccess, "data": data})
}

func respondMessage(c *gin.Context, code int, message string, data any) {
	body := gin.H{"status": statusSuccess, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondError(c *gin.Context, err error) {
	c.JSON(httpStatusFor(err), gin.H{"status": statusFailed, "message": err.Error()})
}

func respondFailedWith(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{"status": statusFailed, "message": message, "data": data})
}

var notFoundErrors = []error{
	domainbooking.ErrNotFound,
	domaincar.ErrNotFound,
	domaincompany.ErrNotFound,
	domaincoupon.ErrNotFound,
	domainuser.ErrNotFound,
	domainhandover.ErrNotFound,
	domainagent.ErrAssignmentNotFound,
	domainreview.ErrNotFound,
	domainreport.ErrNotFound,
}

var conflictErrors = []error{
	domainbooking.ErrAlreadyCancelled,
	domainbooking.ErrAlreadyFinished,
	domainbooking.ErrInvalidState,
	domainhandover.ErrLegNotAllowed,
	domainuser.ErrEmailAlreadyUsed,
	bookingapp.ErrCarUnavailable,
	domaincoupon.ErrNotRedeemable,
	agentapp.ErrNotAnAgent,
	agentapp.ErrWrongCompany,
	domainreview.ErrAlreadyReviewed,
	domainreport.ErrAlreadyPending,
	domainreport.ErrAlreadyResolved,
}

func httpStatusFor(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domainauth.ErrSessionNotFound),
		errors.Is(err, domainauth.ErrTokenRequired):
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}
