package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jperalta/cinema-ticketing/internal/repository"
)

// ReportHandler serves the read-only reporting projections.  These
// endpoints are good candidates for the response cache since they only
// read committed data.
type ReportHandler struct {
	reports *repository.ReportRepo
}

// NewReportHandler wires the report repository.
func NewReportHandler(reports *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// TheatersForShow lists the theaters a show is scheduled in.
func (h *ReportHandler) TheatersForShow(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	theaters, err := h.reports.TheatersPlayingShow(c.Request().Context(), showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load theaters"})
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "theaters": theaters})
}

// ShowsStartingAt lists shows on ?date starting at ?start_time.
func (h *ReportHandler) ShowsStartingAt(c echo.Context) error {
	date := c.QueryParam("date")
	startTime := c.QueryParam("start_time")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04:05", startTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM:SS"})
	}
	shows, err := h.reports.ShowsStartingAt(c.Request().Context(), date, startTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// MovieTitles lists titles containing ?contains released on or after
// ?released_after.
func (h *ReportHandler) MovieTitles(c echo.Context) error {
	contains := strings.TrimSpace(c.QueryParam("contains"))
	releasedAfter := c.QueryParam("released_after")
	if contains == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contains is required"})
	}
	if _, err := time.Parse("2006-01-02", releasedAfter); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "released_after must be YYYY-MM-DD"})
	}
	titles, err := h.reports.MovieTitlesMatching(c.Request().Context(), contains, releasedAfter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load titles"})
	}
	return c.JSON(http.StatusOK, echo.Map{"titles": titles})
}

// PendingUsers lists users who currently hold at least one Pending booking.
func (h *ReportHandler) PendingUsers(c echo.Context) error {
	users, err := h.reports.UsersWithPendingBookings(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Schedule lists showtimes of ?movie_id at ?cinema_id between ?from and ?to.
func (h *ReportHandler) Schedule(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.QueryParam("movie_id"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
	}
	cinemaID, err := strconv.ParseUint(c.QueryParam("cinema_id"), 10, 64)
	if err != nil || cinemaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema_id"})
	}
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}
	entries, err := h.reports.ScheduleFor(c.Request().Context(), movieID, cinemaID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule": entries})
}

// BookingHistory lists all bookings of a user with show and seat details.
func (h *ReportHandler) BookingHistory(c echo.Context) error {
	email := strings.TrimSpace(strings.ToLower(c.Param("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	entries, err := h.reports.BookingHistory(c.Request().Context(), email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking history"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": entries})
}
