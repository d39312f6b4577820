package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const topGymsLimit = 5

// StatsHandler serves aggregate combat statistics for an account
type StatsHandler struct {
	combatRepository repositories.CombatRepository
	ratingRepository repositories.RatingRepository
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(combatRepo repositories.CombatRepository, ratingRepo repositories.RatingRepository) *StatsHandler {
	return &StatsHandler{combatRepository: combatRepo, ratingRepository: ratingRepo}
}

// RegisterStatsRoutes registers statistics routes
func (h *StatsHandler) RegisterStatsRoutes(g *echo.Group) {
	g.GET("/users/:id/stats", h.GetStats)
}

// GetStats aggregates an account's most frequent opponent, top gyms,
// per-month combat counts and rating averages
func (h *StatsHandler) GetStats(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	ctx := c.Request().Context()
	accountID := accountIDString(uint(targetID))
	now := time.Now()

	opponent, err := h.combatRepository.GetMostFrequentOpponent(ctx, accountID, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	gyms, err := h.combatRepository.GetTopGyms(ctx, accountID, now, topGymsLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if gyms == nil {
		gyms = []models.GymCount{}
	}

	months, err := h.combatRepository.GetCombatsPerMonth(ctx, accountID, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if months == nil {
		months = []models.MonthCount{}
	}

	averages, err := h.ratingRepository.GetAverages(ctx, accountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.CombatStats{
		MostFrequentOpponent: opponent,
		TopGyms:              gyms,
		CombatsPerMonth:      months,
		Ratings:              *averages,
	})
}
