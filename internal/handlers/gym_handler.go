package handlers

import (
	"net/http"
	"strconv"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GymHandler handles HTTP requests related to gym accounts
type GymHandler struct {
	gymRepository repositories.GymRepository
}

// NewGymHandler creates a new GymHandler
func NewGymHandler(gymRepo repositories.GymRepository) *GymHandler {
	return &GymHandler{gymRepository: gymRepo}
}

// RegisterGymRoutes registers gym-related routes
func (h *GymHandler) RegisterGymRoutes(g *echo.Group) {
	g.GET("/gyms", h.ListGyms)
	g.GET("/gyms/search", h.SearchGyms)
	g.GET("/gyms/:id", h.GetGym)
	g.GET("/gyms/profile", h.GetOwnProfile)
	g.PUT("/gyms/profile", h.UpdateOwnProfile)
	g.PUT("/gyms/profile/visibility", h.SetVisibility)
	g.DELETE("/gyms/profile", h.DeleteGym)
}

// ListGyms lists visible gyms with allow-list pagination
func (h *GymHandler) ListGyms(c echo.Context) error {
	skip, limit, err := parseListingPage(c)
	if err != nil {
		return err
	}

	gyms, err := h.gymRepository.ListGyms(int(skip), int(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, gyms)
}

// SearchGyms searches visible gyms by name or city
func (h *GymHandler) SearchGyms(c echo.Context) error {
	skip, limit, err := parseListingPage(c)
	if err != nil {
		return err
	}

	gyms, err := h.gymRepository.SearchGyms(c.QueryParam("q"), int(skip), int(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, gyms)
}

// GetGym retrieves a gym profile by ID
func (h *GymHandler) GetGym(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid gym ID")
	}

	gym, err := h.gymRepository.GetGymByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Gym not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !gym.Visible {
		claims := getClaimsFromContext(c)
		if claims == nil || claims.AccountType != models.AccountTypeGym || claims.AccountID != gym.ID {
			return echo.NewHTTPError(http.StatusNotFound, "Gym not found")
		}
	}

	return c.JSON(http.StatusOK, gym)
}

// GetOwnProfile retrieves the authenticated gym's profile
func (h *GymHandler) GetOwnProfile(c echo.Context) error {
	gym, err := h.currentGym(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gym)
}

// UpdateOwnProfile updates the authenticated gym's profile
func (h *GymHandler) UpdateOwnProfile(c echo.Context) error {
	gym, err := h.currentGym(c)
	if err != nil {
		return err
	}

	var req models.UpdateGymRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Name != "" {
		gym.Name = req.Name
	}
	if req.Address != "" {
		gym.Address = req.Address
	}
	if req.City != "" {
		gym.City = req.City
	}
	if req.Phone != "" {
		gym.Phone = req.Phone
	}

	if err := h.gymRepository.UpdateGym(gym); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, gym)
}

// SetVisibility hides or unhides the authenticated gym's profile
func (h *GymHandler) SetVisibility(c echo.Context) error {
	gym, err := h.currentGym(c)
	if err != nil {
		return err
	}

	var req models.SetVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.gymRepository.SetVisibility(gym.ID, *req.Visible); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"visible": *req.Visible})
}

// DeleteGym deletes the authenticated gym's account
func (h *GymHandler) DeleteGym(c echo.Context) error {
	gym, err := h.currentGym(c)
	if err != nil {
		return err
	}

	if err := h.gymRepository.DeleteGym(gym.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *GymHandler) currentGym(c echo.Context) (*models.Gym, error) {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}
	if claims.AccountType != models.AccountTypeGym {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not a gym account")
	}

	gym, err := h.gymRepository.GetGymByID(claims.AccountID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Gym profile not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return gym, nil
}
