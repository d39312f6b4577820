package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagingContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestParseListingPageDefaults(t *testing.T) {
	skip, limit, err := parseListingPage(pagingContext(""))
	require.NoError(t, err)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(10), limit)
}

func TestParseListingPageAllowedSizes(t *testing.T) {
	for _, size := range []string{"10", "25", "50"} {
		_, _, err := parseListingPage(pagingContext("size=" + size))
		assert.NoError(t, err, "size %s should be allowed", size)
	}
}

func TestParseListingPageRejectsOutOfListSize(t *testing.T) {
	// Sizes outside the allow-list are rejected, never clamped
	for _, size := range []string{"11", "20", "100", "0", "-5"} {
		_, _, err := parseListingPage(pagingContext("size=" + size))
		require.Error(t, err, "size %s should be rejected", size)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestParseListingPageSkip(t *testing.T) {
	skip, limit, err := parseListingPage(pagingContext("page=3&size=25"))
	require.NoError(t, err)
	assert.Equal(t, int64(50), skip)
	assert.Equal(t, int64(25), limit)
}

func TestParseListingPageInvalidPage(t *testing.T) {
	for _, page := range []string{"0", "-1", "abc"} {
		_, _, err := parseListingPage(pagingContext("page=" + page))
		require.Error(t, err, "page %s should be rejected", page)
	}
}

func TestParseChatPageSizes(t *testing.T) {
	skip, limit, err := parseChatPage(pagingContext(""))
	require.NoError(t, err)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(15), limit)

	for _, size := range []string{"15", "30", "50", "100"} {
		_, _, err := parseChatPage(pagingContext("size=" + size))
		assert.NoError(t, err, "size %s should be allowed", size)
	}

	// The listing default is not on the chat allow-list
	_, _, err = parseChatPage(pagingContext("size=10"))
	require.Error(t, err)
}
