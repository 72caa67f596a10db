package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParsePositiveInt(t *testing.T) {
	cases := []struct {
		raw      string
		fallback int
		want     int
	}{
		{"3", 1, 3},
		{" 7 ", 1, 7},
		{"0", 1, 1},
		{"-2", 1, 1},
		{"abc", 5, 5},
		{"", 2, 2},
	}

	for _, tc := range cases {
		if got := parsePositiveInt(tc.raw, tc.fallback); got != tc.want {
			t.Fatalf("parsePositiveInt(%q, %d) = %d, want %d", tc.raw, tc.fallback, got, tc.want)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := clientIP(c); got != "203.0.113.9" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}

	c.Request.Header.Del("X-Forwarded-For")
	c.Request.RemoteAddr = "198.51.100.7:4567"
	if got := clientIP(c); got != "198.51.100.7" {
		t.Fatalf("expected remote address fallback, got %q", got)
	}
}

func TestIsAjax(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	if isAjax(c) {
		t.Fatalf("plain request must not count as ajax")
	}

	c.Request.Header.Set("X-Requested-With", "XMLHttpRequest")
	if !isAjax(c) {
		t.Fatalf("expected ajax detection via header")
	}
}
