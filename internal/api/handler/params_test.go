package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newQueryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/videos?"+rawQuery, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&limit=25", 3, 25},
		{"zero page", "page=0&limit=5", 1, 5},
		{"negative page", "page=-2", 1, 10},
		{"limit too large", "limit=500", 1, 10},
		{"limit zero", "limit=0", 1, 10},
		{"garbage values", "page=abc&limit=xyz", 1, 10},
		{"max limit", "limit=100", 1, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newQueryContext(t, tc.query)
			page, pageSize := parsePagination(c)
			if page != tc.page {
				t.Fatalf("expected page %d got %d", tc.page, page)
			}
			if pageSize != tc.pageSize {
				t.Fatalf("expected limit %d got %d", tc.pageSize, pageSize)
			}
		})
	}
}

func TestParseVideoID(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "videoId", Value: "42"}}

	id, err := parseVideoID(c)
	if err != nil {
		t.Fatalf("parse video id: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42 got %d", id)
	}

	for _, bad := range []string{"abc", "", "-1", "0", "1.5"} {
		c.Params = gin.Params{{Key: "videoId", Value: bad}}
		if _, err := parseVideoID(c); err == nil {
			t.Fatalf("expected error for video id %q", bad)
		}
	}
}

func TestParseChannelID(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "channelId", Value: "7"}}

	id, err := parseChannelID(c)
	if err != nil {
		t.Fatalf("parse channel id: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected 7 got %d", id)
	}

	c.Params = gin.Params{{Key: "channelId", Value: "not-a-number"}}
	if _, err := parseChannelID(c); err == nil {
		t.Fatal("expected error for malformed channel id")
	}
}
