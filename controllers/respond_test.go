package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(t *testing.T, query string) (int, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return pagination(c)
}

func TestPagination(t *testing.T) {
	cases := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"page below one", "page=0&limit=10", 1, 10},
		{"negative page", "page=-2", 1, 20},
		{"limit below one", "limit=0", 1, 20},
		{"limit at cap", "limit=100", 1, 100},
		{"limit above cap clamps", "limit=500", 1, 100},
		{"non-numeric", "page=abc&limit=xyz", 1, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := paginationFor(t, tc.query)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.limit, limit)
		})
	}
}
