package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestResolveRateTier(t *testing.T) {
	t.Run("Gateway endpoints are strict", func(t *testing.T) {
		for _, path := range []string{"/orders/1/submit", "/orders/42/query"} {
			req := httptest.NewRequest("POST", path, nil)
			limit, burst, tier := resolveRateTier(req)
			assert.Equal(t, rate.Limit(2), limit, path)
			assert.Equal(t, 5, burst, path)
			assert.Equal(t, "strict", tier, path)
		}
	})

	t.Run("Everything else is general", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		limit, burst, tier := resolveRateTier(req)
		assert.Equal(t, rate.Limit(10), limit)
		assert.Equal(t, 20, burst)
		assert.Equal(t, "general", tier)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(next)

	t.Run("Allows within burst", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set("X-Device-ID", "till-allow")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Rejects once strict burst is exhausted", func(t *testing.T) {
		var last int
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/orders/1/submit", nil)
			req.Header.Set("X-Device-ID", "till-burst")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			last = w.Code
		}
		assert.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("Separate devices get separate buckets", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/orders/1/submit", nil)
		req.Header.Set("X-Device-ID", "till-fresh")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
