package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jperalta/cinema-ticketing/internal/booking"
)

// MaintenanceHandler exposes the bulk sweeps operators run between
// business periods: mass-cancelling stale Pending bookings, purging
// Cancelled rows and tearing down a cinema's schedule for a day.
type MaintenanceHandler struct {
	sweeper *booking.Sweeper
}

// NewMaintenanceHandler wires the sweeper.
func NewMaintenanceHandler(s *booking.Sweeper) *MaintenanceHandler {
	return &MaintenanceHandler{sweeper: s}
}

// CancelPending cancels every Pending booking and frees its seats.
func (h *MaintenanceHandler) CancelPending(c echo.Context) error {
	n, err := h.sweeper.CancelAllPending(c.Request().Context())
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}

// PurgeCancelled deletes every Cancelled booking and its payment rows.
func (h *MaintenanceHandler) PurgeCancelled(c echo.Context) error {
	n, err := h.sweeper.PurgeCancelled(c.Request().Context())
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"purged": n})
}

// RemoveShows deletes all shows of a cinema on the date given by the
// required "date" query parameter (YYYY-MM-DD).
func (h *MaintenanceHandler) RemoveShows(c echo.Context) error {
	cinemaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || cinemaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	n, err := h.sweeper.RemoveShowsOn(c.Request().Context(), cinemaID, date)
	if err != nil {
		return bookingErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": n})
}
