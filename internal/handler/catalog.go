package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jperalta/cinema-ticketing/internal/model"
	"github.com/jperalta/cinema-ticketing/internal/repository"
)

// CatalogHandler serves catalog mutations, currently only the scheduling
// of a new showing.
type CatalogHandler struct {
	catalog *repository.CatalogRepo
}

// NewCatalogHandler wires the catalog repository.
func NewCatalogHandler(catalog *repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type addShowingRequest struct {
	Movie struct {
		Title        string `json:"title"`
		ReleaseDate  string `json:"release_date"` // "2006-01-02"
		Country      string `json:"country"`
		Description  string `json:"description"`
		DurationSecs uint32 `json:"duration_secs"`
		Lang         string `json:"lang"`
		Genre        string `json:"genre"`
	} `json:"movie"`
	Show struct {
		ShowDate  string `json:"show_date"`  // "2006-01-02"
		StartTime string `json:"start_time"` // "15:04:05"
		EndTime   string `json:"end_time"`   // "15:04:05"
	} `json:"show"`
	TheaterID  uint64            `json:"theater_id"`
	TierPrices map[string]uint32 `json:"tier_prices"` // cents per seat tier
}

// AddShowing creates a movie, a show, its theater link and the per-show
// seat inventory in one transaction.
func (h *CatalogHandler) AddShowing(c echo.Context) error {
	var req addShowingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Movie.Title == "" || req.TheaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie.title and theater_id are required"})
	}
	if req.Show.ShowDate == "" || req.Show.StartTime == "" || req.Show.EndTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_date, start_time and end_time are required"})
	}
	if len(req.TierPrices) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tier_prices is required"})
	}
	releaseDate, err := time.Parse("2006-01-02", req.Movie.ReleaseDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
	}

	showing := &repository.Showing{
		Movie: model.Movie{
			Title:        req.Movie.Title,
			ReleaseDate:  releaseDate,
			Country:      req.Movie.Country,
			Description:  req.Movie.Description,
			DurationSecs: req.Movie.DurationSecs,
			Lang:         req.Movie.Lang,
			Genre:        req.Movie.Genre,
		},
		Show: model.Show{
			ShowDate:  req.Show.ShowDate,
			StartTime: req.Show.StartTime,
			EndTime:   req.Show.EndTime,
		},
		TheaterID:  req.TheaterID,
		TierPrices: req.TierPrices,
	}
	if err := h.catalog.AddShowing(c.Request().Context(), showing); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		case errors.Is(err, repository.ErrUnknownTier):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "theater contains a seat tier without a price"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create showing"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"movie_id": showing.Movie.ID,
		"show_id":  showing.Show.ID,
	})
}
