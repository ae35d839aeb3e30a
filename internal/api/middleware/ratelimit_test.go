package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimit_BurstThenThrottle(t *testing.T) {
	e := echo.New()
	mw := RateLimit(0.0001, 2) // two requests, then a long wait

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	if code := do(); code != http.StatusOK {
		t.Fatalf("second request: got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("third request must be throttled, got %d", code)
	}
}

func TestRateLimit_PerIPBuckets(t *testing.T) {
	e := echo.New()
	mw := RateLimit(0.0001, 1)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if code := do("10.0.0.1:1"); code != http.StatusOK {
		t.Fatalf("first ip, first request: got %d", code)
	}
	if code := do("10.0.0.1:1"); code != http.StatusTooManyRequests {
		t.Fatalf("first ip, second request must be throttled, got %d", code)
	}
	// A different client keeps its own budget.
	if code := do("10.0.0.2:1"); code != http.StatusOK {
		t.Fatalf("second ip must have its own bucket, got %d", code)
	}
}
