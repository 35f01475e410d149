package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/infra/config"
	"fleetrent/internal/infra/obs"
)

type Handlers struct {
	Auth         AuthHTTP
	Availability AvailabilityHTTP
	Booking      BookingHTTP
	Handover     HandoverHTTP
	Agent        AgentHTTP
	Car          CarHTTP
	Company      CompanyHTTP
	Coupon       CouponHTTP
	Review       ReviewHTTP
	Report       ReportHTTP
	User         UserHTTP

	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Car != nil {
		api.GET("/cars", h.Car.List)
		api.POST("/cars", h.Car.Create)
		api.GET("/cars/:id", h.Car.Get)
		api.PUT("/cars/:id", h.Car.Update)
		api.DELETE("/cars/:id", h.Car.Delete)
		api.PUT("/cars/:id/calendar", h.Car.SetCalendar)
	}
	if h.Availability != nil {
		api.GET("/cars/:id/availability", h.Availability.Check)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings", h.Booking.List)
		api.GET("/bookings/:number", h.Booking.Get)
		api.POST("/bookings/:number/cancel", h.Booking.Cancel)
		api.POST("/bookings/:number/extend", h.Booking.Extend)
		api.POST("/bookings/:number/invoice", h.Booking.ResendInvoice)
	}
	if h.Handover != nil {
		api.GET("/bookings/:number/handovers", h.Handover.List)
		api.POST("/bookings/:number/handovers/:leg", h.Handover.CompleteLeg)
	}
	if h.Agent != nil {
		api.POST("/bookings/:number/agent", h.Agent.Assign)
		api.GET("/assignments", h.Agent.ListAssignments)
	}
	if h.Company != nil {
		api.GET("/companies", h.Company.List)
		api.POST("/companies", h.Company.Create)
		api.GET("/companies/:id", h.Company.Get)
		api.PUT("/companies/:id", h.Company.Update)
		api.DELETE("/companies/:id", h.Company.Delete)
		api.PATCH("/companies/:id/status", h.Company.ChangeStatus)
		api.PUT("/companies/:id/cancellation-policy", h.Company.SetCancellationPolicy)
	}
	if h.Coupon != nil {
		api.GET("/coupons", h.Coupon.List)
		api.POST("/coupons", h.Coupon.Create)
		api.GET("/coupons/apply", h.Coupon.Apply)
		api.PUT("/coupons/:id", h.Coupon.Update)
		api.DELETE("/coupons/:id", h.Coupon.Delete)
	}
	if h.Review != nil {
		api.GET("/cars/:id/reviews", h.Review.List)
		api.POST("/cars/:id/reviews", h.Review.Submit)
		api.PUT("/reviews/:id", h.Review.Update)
	}
	if h.Report != nil {
		api.GET("/reports", h.Report.List)
		api.POST("/cars/:id/reports", h.Report.File)
		api.PATCH("/reports/:id/resolve", h.Report.Resolve)
	}
	if h.User != nil {
		api.GET("/users", h.User.List)
		api.GET("/users/:id", h.User.Get)
		api.POST("/users/:id/verify", h.User.Verify)
		api.DELETE("/users/:id", h.User.Delete)
		api.PUT("/me/device-token", h.User.UpdateDeviceToken)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
