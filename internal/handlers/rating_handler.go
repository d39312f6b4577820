package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/notify"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RatingHandler handles post-combat peer rating HTTP requests
type RatingHandler struct {
	ratingRepository repositories.RatingRepository
	combatRepository repositories.CombatRepository
	notifier         *notify.Notifier
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(ratingRepo repositories.RatingRepository, combatRepo repositories.CombatRepository, notifier *notify.Notifier) *RatingHandler {
	return &RatingHandler{
		ratingRepository: ratingRepo,
		combatRepository: combatRepo,
		notifier:         notifier,
	}
}

// RegisterRatingRoutes registers rating-related routes
func (h *RatingHandler) RegisterRatingRoutes(g *echo.Group) {
	g.POST("/combats/:id/ratings", h.CreateRating)
	g.GET("/users/:id/ratings", h.GetRatings)
}

// CreateRating rates the other participant of a completed combat. One rating
// per participant per combat.
func (h *RatingHandler) CreateRating(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.CreateRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	combat, err := h.combatRepository.GetCombatByID(ctx, c.Param("id"))
	if err != nil {
		if err == repositories.ErrCombatNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Combat not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fromID := accountIDString(claims.AccountID)
	if !combat.IsParticipant(fromID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this combat")
	}
	if !combat.CountsAsCompleted(time.Now()) {
		return echo.NewHTTPError(http.StatusConflict, "Combat has not taken place yet")
	}

	if _, err := h.ratingRepository.GetByCombatAndFrom(ctx, combat.ID, fromID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Combat already rated")
	}

	rating := &models.Rating{
		CombatID:      combat.ID,
		FromID:        fromID,
		ToID:          combat.OtherParticipant(fromID),
		Punctuality:   req.Punctuality,
		Attitude:      req.Attitude,
		Technique:     req.Technique,
		Intensity:     req.Intensity,
		Sportsmanship: req.Sportsmanship,
		Comment:       req.Comment,
	}

	if err := h.ratingRepository.CreateRating(ctx, rating); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.RatingReceived(context.Background(), rating, claims.AccountID, claims.Name)

	return c.JSON(http.StatusCreated, rating)
}

// GetRatings lists the ratings an account has received
func (h *RatingHandler) GetRatings(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, limit, err := parseListingPage(c)
	if err != nil {
		return err
	}

	ratings, err := h.ratingRepository.GetRatingsForAccount(c.Request().Context(), accountIDString(uint(targetID)), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ratings)
}
