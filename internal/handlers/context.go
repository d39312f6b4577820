package handlers

import (
	"strconv"

	"github.com/boxerly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getClaimsFromContext returns the account claims stored by the JWT middleware,
// or nil when the request is unauthenticated.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("account").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

func getAccountIDFromContext(c echo.Context) uint {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return 0
	}
	return claims.AccountID
}

// accountIDString renders a relational account id the way Mongo documents
// reference it.
func accountIDString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
