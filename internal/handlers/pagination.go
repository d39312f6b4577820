package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Page sizes are restricted to an allow-list. Out-of-list values are rejected
// with 400, never clamped.
var (
	listingPageSizes = map[int64]bool{10: true, 25: true, 50: true}
	chatPageSizes    = map[int64]bool{15: true, 30: true, 50: true, 100: true}
)

const (
	defaultListingPageSize int64 = 10
	defaultChatPageSize    int64 = 15
)

// parseListingPage reads page/size query params for entity listings.
func parseListingPage(c echo.Context) (skip, limit int64, err error) {
	return parsePage(c, listingPageSizes, defaultListingPageSize)
}

// parseChatPage reads page/size query params for chat message listings.
func parseChatPage(c echo.Context) (skip, limit int64, err error) {
	return parsePage(c, chatPageSizes, defaultChatPageSize)
}

func parsePage(c echo.Context, allowed map[int64]bool, defaultSize int64) (int64, int64, error) {
	page := int64(1)
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page number")
		}
		page = parsed
	}

	size := defaultSize
	if raw := c.QueryParam("size"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page size")
		}
		size = parsed
	}
	if !allowed[size] {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Page size not allowed")
	}

	return (page - 1) * size, size, nil
}
