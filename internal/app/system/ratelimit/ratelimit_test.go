package ratelimit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/system/requestid"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func newTestLimiter(limit int, d time.Duration) (*Limiter, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(limit, d)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_WindowAndReset(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request in window should be denied")
	}
	if !l.Allow("b") {
		t.Error("other keys have their own window")
	}
	if got := l.RetryAfter("a"); got != time.Minute {
		t.Errorf("RetryAfter: got %v, want 1m", got)
	}

	*now = now.Add(time.Minute + time.Second)
	if !l.Allow("a") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestSweep(t *testing.T) {
	l, now := newTestLimiter(1, time.Second)
	l.Allow("a")
	*now = now.Add(2 * time.Second)
	l.Sweep()
	if len(l.windows) != 0 {
		t.Errorf("expected expired windows to be swept, have %d", len(l.windows))
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"remote with port", "", "", "1.1.1.1:80", "1.1.1.1"},
		{"remote without port", "", "", "1.1.1.1", "1.1.1.1"},
		{"forwarded headers ignored", "10.0.0.1, 10.0.0.2", "10.0.0.3", "1.1.1.1:80", "1.1.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrites(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	h := requestid.Middleware(Writes(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(method string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/groups", nil))
		return rec
	}

	if rec := do("POST"); rec.Code != http.StatusNoContent {
		t.Fatalf("first write: got %d", rec.Code)
	}
	rec := do("DELETE")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second write: got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	var body uierrors.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q: %v", rec.Body.String(), err)
	}
	if body.Error != "RATE_LIMITED" || body.RequestID == "" {
		t.Errorf("unexpected error body: %+v", body)
	}
	if rec := do("GET"); rec.Code != http.StatusNoContent {
		t.Errorf("reads are not throttled: got %d", rec.Code)
	}
}

func TestWrites_NilLimiter(t *testing.T) {
	h := Writes(nil, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: got %d", i, rec.Code)
		}
	}
}

func TestWrites_SpoofedForwardedHeadersStillLimited(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	h := Writes(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	admitted := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("POST", "/groups", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusNoContent {
			admitted++
		}
	}
	if admitted != 1 {
		t.Errorf("admitted %d of 10 writes from one peer, want 1", admitted)
	}
}

func TestWrites_TrustedProxyUsesForwardedAddress(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	h := middleware.RealIP(Writes(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	for i, want := range []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests} {
		req := httptest.NewRequest("POST", "/groups", nil)
		req.RemoteAddr = "10.0.0.1:4000" // the proxy
		client := "203.0.113.1"
		if i == 1 {
			client = "203.0.113.2"
		}
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d: got %d, want %d", i, rec.Code, want)
		}
	}
}
