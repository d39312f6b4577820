package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthHandler handles authentication-related HTTP requests for both user and
// gym accounts
type AuthHandler struct {
	userRepository    repositories.UserRepository
	gymRepository     repositories.GymRepository
	refreshRepository repositories.RefreshTokenRepository
	firebaseAuth      *auth.Client
	jwtSecret         string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, gymRepo repositories.GymRepository, refreshRepo repositories.RefreshTokenRepository, firebaseAuthClient *auth.Client) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository:    userRepo,
		gymRepository:     gymRepo,
		refreshRepository: refreshRepo,
		firebaseAuth:      firebaseAuthClient,
		jwtSecret:         jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/users/signup", h.SignupUser)
	g.POST("/users/signin", h.SignInUser)
	g.POST("/gyms/signup", h.SignupGym)
	g.POST("/gyms/signin", h.SignInGym)
	g.POST("/firebase-login", h.FirebaseLogin)
	g.POST("/refresh", h.Refresh)
	g.POST("/signout", h.SignOut)
}

type tokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// SignupUser handles local user registration with email and password
func (h *AuthHandler) SignupUser(c echo.Context) error {
	var req models.SignupUserRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Weight:   req.Weight,
		Level:    req.Level,
		City:     req.City,
		Visible:  true,
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pair, err := h.issueTokenPair(user.ID, models.AccountTypeUser, user.Email, user.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, pair)
}

// SignInUser handles local user authentication with email and password
func (h *AuthHandler) SignInUser(c echo.Context) error {
	var req models.SignInRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	pair, err := h.issueTokenPair(user.ID, models.AccountTypeUser, user.Email, user.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, pair)
}

// SignupGym handles gym account registration
func (h *AuthHandler) SignupGym(c echo.Context) error {
	var req models.SignupGymRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.gymRepository.GetGymByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Gym with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	gym := &models.Gym{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Address:  req.Address,
		City:     req.City,
		Phone:    req.Phone,
		Visible:  true,
	}

	if err := h.gymRepository.CreateGym(gym); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pair, err := h.issueTokenPair(gym.ID, models.AccountTypeGym, gym.Email, gym.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, pair)
}

// SignInGym handles gym account authentication
func (h *AuthHandler) SignInGym(c echo.Context) error {
	var req models.SignInRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	gym, err := h.gymRepository.GetGymByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(gym.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	pair, err := h.issueTokenPair(gym.ID, models.AccountTypeGym, gym.Email, gym.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, pair)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin handles Firebase ID token verification and issues local tokens
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	// Verify Firebase ID token
	token, err := h.firebaseAuth.VerifyIDToken(context.Background(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name := ""
	if displayName, ok := token.Claims["name"].(string); ok {
		name = displayName
	}

	// Try to find user by Firebase UID, fall back to email, create otherwise
	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			user, err = h.userRepository.GetUserByEmail(email)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					newUser := &models.User{
						Name:        name,
						Email:       email,
						FirebaseUID: firebaseUID,
						Visible:     true,
					}
					if err := h.userRepository.CreateUser(newUser); err != nil {
						return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
					}
					user = newUser
				} else {
					return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
				}
			} else {
				// User found by email, link their Firebase UID
				user.FirebaseUID = firebaseUID
				if err := h.userRepository.UpdateUser(user); err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user with Firebase UID")
				}
			}
		} else {
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}
	}

	pair, err := h.issueTokenPair(user.ID, models.AccountTypeUser, user.Email, user.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token and issues a new token pair
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req models.RefreshRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := &models.RefreshClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	stored, err := h.refreshRepository.GetByJTI(claims.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unknown refresh token")
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token expired or revoked")
	}

	var email, name string
	switch claims.AccountType {
	case models.AccountTypeGym:
		gym, err := h.gymRepository.GetGymByID(claims.AccountID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account no longer exists")
		}
		email, name = gym.Email, gym.Name
	default:
		user, err := h.userRepository.GetUserByID(claims.AccountID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account no longer exists")
		}
		email, name = user.Email, user.Name
	}

	// Rotate: the presented token is dead either way
	if err := h.refreshRepository.Revoke(claims.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to rotate refresh token")
	}

	pair, err := h.issueTokenPair(claims.AccountID, claims.AccountType, email, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, pair)
}

// SignOut revokes the presented refresh token
func (h *AuthHandler) SignOut(c echo.Context) error {
	var req models.RefreshRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	claims := &models.RefreshClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	if err := h.refreshRepository.Revoke(claims.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke refresh token")
	}

	return c.NoContent(http.StatusNoContent)
}

// issueTokenPair generates a short-lived access token and a persisted,
// rotatable refresh token for an account
func (h *AuthHandler) issueTokenPair(accountID uint, accountType, email, name string) (*tokenPairResponse, error) {
	now := time.Now()

	accessClaims := &models.JwtCustomClaims{
		AccountID:   accountID,
		AccountType: accountType,
		Email:       email,
		Name:        name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refreshClaims := &models.RefreshClaims{
		AccountID:   accountID,
		AccountType: accountType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return nil, err
	}

	if err := h.refreshRepository.Create(&models.RefreshToken{
		JTI:         jti,
		AccountID:   accountID,
		AccountType: accountType,
		ExpiresAt:   now.Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &tokenPairResponse{Token: access, RefreshToken: refresh}, nil
}
