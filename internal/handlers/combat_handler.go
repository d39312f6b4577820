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
	"gorm.io/gorm"
)

// CombatHandler handles combat lifecycle HTTP requests
type CombatHandler struct {
	combatRepository repositories.CombatRepository
	userRepository   repositories.UserRepository
	gymRepository    repositories.GymRepository
	notifier         *notify.Notifier
}

// NewCombatHandler creates a new CombatHandler
func NewCombatHandler(combatRepo repositories.CombatRepository, userRepo repositories.UserRepository, gymRepo repositories.GymRepository, notifier *notify.Notifier) *CombatHandler {
	return &CombatHandler{
		combatRepository: combatRepo,
		userRepository:   userRepo,
		gymRepository:    gymRepo,
		notifier:         notifier,
	}
}

// RegisterCombatRoutes registers combat-related routes
func (h *CombatHandler) RegisterCombatRoutes(g *echo.Group) {
	g.POST("/combats", h.CreateCombat)
	g.GET("/combats", h.GetMyCombats)
	g.GET("/combats/invitations", h.GetInvitations)
	g.GET("/combats/:id", h.GetCombat)
	g.PUT("/combats/:id/respond", h.RespondCombat)
	g.PUT("/combats/:id/result", h.SetResult)
	g.PUT("/combats/:id/image", h.SetImage)
	g.GET("/users/:id/history", h.GetHistory)
}

// CreateCombat creates a pending combat invitation
func (h *CombatHandler) CreateCombat(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.CreateCombatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	creatorID := accountIDString(claims.AccountID)
	if req.OpponentID == creatorID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot challenge yourself")
	}

	// Validate opponent and gym references
	opponentID, err := strconv.ParseUint(req.OpponentID, 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid opponent ID")
	}
	if _, err := h.userRepository.GetUserByID(uint(opponentID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Opponent not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	gymID, err := strconv.ParseUint(req.GymID, 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid gym ID")
	}
	if _, err := h.gymRepository.GetGymByID(uint(gymID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Gym not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
	}

	combat := &models.Combat{
		CreatorID:  creatorID,
		OpponentID: req.OpponentID,
		GymID:      req.GymID,
		Date:       date,
		Time:       req.Time,
		Level:      req.Level,
	}

	if err := h.combatRepository.CreateCombat(c.Request().Context(), combat); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Invitation side effects fire after the write commits
	h.notifier.CombatInvitation(context.Background(), combat, claims.AccountID, claims.Name)

	return c.JSON(http.StatusCreated, combat)
}

// GetMyCombats lists the authenticated account's combats
func (h *CombatHandler) GetMyCombats(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	skip, limit, err := parseListingPage(c)
	if err != nil {
		return err
	}

	combats, err := h.combatRepository.GetCombatsByParticipant(c.Request().Context(), accountIDString(claims.AccountID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, combats)
}

// GetInvitations lists pending combats awaiting the authenticated account's response
func (h *CombatHandler) GetInvitations(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	skip, limit, err := parseListingPage(c)
	if err != nil {
		return err
	}

	combats, err := h.combatRepository.GetInvitations(c.Request().Context(), accountIDString(claims.AccountID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, combats)
}

// GetCombat retrieves a combat. Only participants may see it.
func (h *CombatHandler) GetCombat(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	combat, err := h.combatRepository.GetCombatByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrCombatNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Combat not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !combat.IsParticipant(accountIDString(claims.AccountID)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this combat")
	}

	return c.JSON(http.StatusOK, combat)
}

// RespondCombat lets the invited opponent accept or reject a pending combat.
// Accepting persists the status change; rejecting deletes the record outright.
func (h *CombatHandler) RespondCombat(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.RespondCombatRequest
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

	accountID := accountIDString(claims.AccountID)
	if accountID != combat.OpponentID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the invited opponent can respond")
	}
	if combat.Status != models.CombatStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Combat is no longer pending")
	}

	var status string
	switch req.Action {
	case "accept":
		status = models.CombatStatusAccepted
		if err := h.combatRepository.UpdateStatus(ctx, c.Param("id"), status); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		combat.Status = status
	case "reject":
		status = models.CombatStatusRejected
		if err := h.combatRepository.DeleteCombat(ctx, c.Param("id")); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	h.notifier.CombatResponse(context.Background(), combat, claims.AccountID, claims.Name, status)

	return c.JSON(http.StatusOK, echo.Map{"combat_id": combat.ID.Hex(), "status": status})
}

// SetResult records the winner of an accepted combat. Allowed exactly once;
// the winner must be one of the two participants.
func (h *CombatHandler) SetResult(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.SetResultRequest
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

	if !combat.IsParticipant(accountIDString(claims.AccountID)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this combat")
	}
	if combat.Status == models.CombatStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Combat has not been accepted")
	}
	if combat.Winner != "" {
		return echo.NewHTTPError(http.StatusConflict, "Combat result already set")
	}
	if !combat.ValidWinner(req.WinnerID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Winner must be one of the participants")
	}

	if err := h.combatRepository.SetResult(ctx, c.Param("id"), req.WinnerID); err != nil {
		if err == repositories.ErrResultAlreadySet {
			return echo.NewHTTPError(http.StatusConflict, "Combat result already set")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	combat.Winner = req.WinnerID
	combat.Status = models.CombatStatusCompleted
	return c.JSON(http.StatusOK, combat)
}

// SetImage attaches an uploaded image to a combat
func (h *CombatHandler) SetImage(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not authenticated")
	}

	var req models.SetCombatImageRequest
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

	if !combat.IsParticipant(accountIDString(claims.AccountID)) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this combat")
	}

	if err := h.combatRepository.SetImage(ctx, c.Param("id"), req.ImageKey); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	combat.ImageKey = req.ImageKey
	return c.JSON(http.StatusOK, combat)
}

// GetHistory lists a participant's completed combats: status completed, plus
// accepted combats whose date already passed
func (h *CombatHandler) GetHistory(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, limit, err := parseListingPage(c)
	if err != nil {
		return err
	}

	combats, err := h.combatRepository.GetCompletedHistory(c.Request().Context(), accountIDString(uint(targetID)), time.Now(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, combats)
}
