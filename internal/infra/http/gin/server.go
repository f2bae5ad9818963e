package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"gearshare/internal/infra/config"
	"gearshare/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	UpdateStatus(c *gin.Context)
	ListMine(c *gin.Context)
	ListIncoming(c *gin.Context)
}

type ReviewHTTP interface {
	Submit(c *gin.Context)
	ListForListing(c *gin.Context)
}

type NotificationHTTP interface {
	List(c *gin.Context)
	MarkRead(c *gin.Context)
	Stream(c *gin.Context)
}

type ListingHTTP interface {
	Get(c *gin.Context)
}

type Handlers struct {
	Booking      BookingHTTP
	Review       ReviewHTTP
	Notification NotificationHTTP
	Listing      ListingHTTP
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
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/status", h.Booking.UpdateStatus)
		api.GET("/me/bookings", h.Booking.ListMine)
		api.GET("/host/bookings", h.Booking.ListIncoming)
	}
	if h.Review != nil {
		api.POST("/bookings/:id/reviews", h.Review.Submit)
		api.GET("/listings/:id/reviews", h.Review.ListForListing)
	}
	if h.Listing != nil {
		api.GET("/listings/:id", h.Listing.Get)
	}
	if h.Notification != nil {
		api.GET("/me/notifications", h.Notification.List)
		api.POST("/me/notifications/:id/read", h.Notification.MarkRead)
		api.GET("/me/notifications/stream", h.Notification.Stream)
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
