package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	carsapp "fleetrent/internal/app/handlers/cars"
	"fleetrent/internal/app/queries"
)

type CarHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetCalendar(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
}

type CarHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createCarRequest struct {
	CompanyID        string `json:"company_id"`
	Brand            string `json:"brand"`
	Model            string `json:"model"`
	Class            string `json:"class"`
	Transmission     string `json:"transmission"`
	LicencePlate     string `json:"licence_plate"`
	Color            string `json:"color"`
	Seats            int    `json:"seats"`
	MileageLimitKM   int    `json:"mileage_limit_km"`
	RentPerDayAmount int64  `json:"rent_per_day"`
	Currency         string `json:"currency"`
}

func (h CarHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, roleStaff, roleAdmin)
	if !ok {
		return
	}
	var req createCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	if p.hasRole(roleStaff) {
		req.CompanyID = p.CompanyID
	}
	cmd := carsapp.CreateCarCommand{
		CompanyID:        req.CompanyID,
		Brand:            req.Brand,
		Model:            req.Model,
		Class:            req.Class,
		Transmission:     req.Transmission,
		LicencePlate:     req.LicencePlate,
		Color:            req.Color,
		Seats:            req.Seats,
		MileageLimitKM:   req.MileageLimitKM,
		RentPerDayAmount: req.RentPerDayAmount,
		Currency:         req.Currency,
	}
	result, err := commands.Dispatch[carsapp.CreateCarCommand, dto.CarSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, result)
}

type updateCarRequest struct {
	Class            *string `json:"class"`
	Transmission     *string `json:"transmission"`
	LicencePlate     *string `json:"licence_plate"`
	Color            *string `json:"color"`
	Seats            *int    `json:"seats"`
	MileageLimitKM   *int    `json:"mileage_limit_km"`
	RentPerDayAmount *int64  `json:"rent_per_day"`
	Currency         string  `json:"currency"`
}

func (h CarHandler) Update(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	var req updateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := carsapp.UpdateCarCommand{
		CarID:            c.Param("id"),
		Class:            req.Class,
		Transmission:     req.Transmission,
		LicencePlate:     req.LicencePlate,
		Color:            req.Color,
		Seats:            req.Seats,
		MileageLimitKM:   req.MileageLimitKM,
		RentPerDayAmount: req.RentPerDayAmount,
		Currency:         req.Currency,
	}
	result, err := commands.Dispatch[carsapp.UpdateCarCommand, dto.CarSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h CarHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	cmd := carsapp.DeleteCarCommand{CarID: c.Param("id")}
	result, err := commands.Dispatch[carsapp.DeleteCarCommand, *carsapp.DeleteCarResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "car removed", result)
}

type setCalendarRequest struct {
	Month int         `json:"month"`
	Days  []time.Time `json:"days"`
}

func (h CarHandler) SetCalendar(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	var req setCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := carsapp.SetCarCalendarCommand{
		CarID: c.Param("id"),
		Month: time.Month(req.Month),
		Days:  req.Days,
	}
	result, err := commands.Dispatch[carsapp.SetCarCalendarCommand, dto.CarDetails](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h CarHandler) List(c *gin.Context) {
	q := carsapp.ListCarsQuery{
		CompanyID: c.Query("company_id"),
		Offset:    queryInt(c, "offset"),
		Limit:     queryInt(c, "limit"),
	}
	result, err := queries.Ask[carsapp.ListCarsQuery, dto.CarCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h CarHandler) Get(c *gin.Context) {
	q := carsapp.GetCarQuery{CarID: c.Param("id")}
	result, err := queries.Ask[carsapp.GetCarQuery, dto.CarDetails](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ CarHTTP = CarHandler{}
