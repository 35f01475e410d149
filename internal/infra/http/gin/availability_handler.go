package ginserver

import (
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/dto"
	availabilityapp "fleetrent/internal/app/handlers/availability"
	"fleetrent/internal/app/queries"
)

type AvailabilityHTTP interface {
	Check(c *gin.Context)
}

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Check answers GET /cars/:id/availability?from=2026-09-01&days=3. The
// endpoint is public; browsing does not need an account.
func (h AvailabilityHandler) Check(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": "from must be an RFC 3339 date"})
		return
	}
	q := availabilityapp.CheckAvailabilityQuery{
		CarID: c.Param("id"),
		From:  from,
		Days:  queryInt(c, "days"),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityDecision](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
