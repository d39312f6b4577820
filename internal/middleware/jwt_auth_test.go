package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boxerly/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := &models.JwtCustomClaims{
		AccountID:   42,
		AccountType: models.AccountTypeUser,
		Name:        "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runMiddleware(t *testing.T, authHeader string) (*models.JwtCustomClaims, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *models.JwtCustomClaims
	next := func(c echo.Context) error {
		got, _ = c.Get("account").(*models.JwtCustomClaims)
		return c.NoContent(http.StatusOK)
	}

	err := JWTAuthMiddleware()(next)(c)
	return got, err
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, testSecret, time.Now().Add(15*time.Minute))
	claims, err := runMiddleware(t, "Bearer "+token)
	require.NoError(t, err)

	require.NotNil(t, claims)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, models.AccountTypeUser, claims.AccountType)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	_, err := runMiddleware(t, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	for _, header := range []string{"Bearer", "Token abc", "abc"} {
		_, err := runMiddleware(t, header)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, "another-secret", time.Now().Add(15*time.Minute))
	_, err := runMiddleware(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, testSecret, time.Now().Add(-time.Minute))
	_, err := runMiddleware(t, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
