// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/jperalta/cinema-ticketing/internal/config"
	"github.com/jperalta/cinema-ticketing/internal/handler"
	"github.com/jperalta/cinema-ticketing/internal/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	User        *handler.UserHandler
	Catalog     *handler.CatalogHandler
	Booking     *handler.BookingHandler
	Maintenance *handler.MaintenanceHandler
	Report      *handler.ReportHandler
}

// New builds the echo instance with all routes and middleware attached.
// The Redis client may be nil, in which case rate limiting and response
// caching are disabled and every endpoint still works.
func New(h Handlers, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.RequestID())

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	v1.POST("/users", h.User.Register)
	v1.GET("/users/:email", h.User.Get)

	v1.POST("/showings", h.Catalog.AddShowing)

	v1.GET("/shows/:id/seats", h.Booking.AvailableSeats)
	v1.GET("/shows/:id/capacity", h.Booking.Capacity)

	// Booking creation is the contended path; shield it with the token
	// bucket when Redis is available.
	createBooking := h.Booking.Create
	if rdb != nil {
		rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		v1.POST("/bookings", createBooking, rl)
	} else {
		v1.POST("/bookings", createBooking)
	}
	v1.DELETE("/bookings/:id", h.Booking.Cancel)
	v1.POST("/bookings/:id/seats", h.Booking.ChangeSeats)
	v1.POST("/bookings/:id/payment", h.Booking.Pay)
	v1.DELETE("/bookings/:id/payment", h.Booking.Refund)

	v1.POST("/maintenance/cancel-pending", h.Maintenance.CancelPending)
	v1.POST("/maintenance/purge-cancelled", h.Maintenance.PurgeCancelled)
	v1.DELETE("/cinemas/:id/shows", h.Maintenance.RemoveShows)

	reports := v1.Group("/reports")
	if rdb != nil {
		reports.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}
	reports.GET("/shows/:id/theaters", h.Report.TheatersForShow)
	reports.GET("/shows", h.Report.ShowsStartingAt)
	reports.GET("/movies", h.Report.MovieTitles)
	reports.GET("/pending-users", h.Report.PendingUsers)
	reports.GET("/schedule", h.Report.Schedule)
	reports.GET("/users/:email/bookings", h.Report.BookingHistory)

	return e
}
