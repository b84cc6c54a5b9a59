package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func requestFrom(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/brands", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newVisitorStore(1, 2, visitorTTL, clock.now)
	h := rateLimit(store, newTestLogger())(http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, requestFrom(h, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, requestFrom(h, "10.0.0.1:1001").Code)

	rec := requestFrom(h, "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, requestFrom(h, "10.0.0.2:1000").Code)

	// One token refills per second.
	clock.advance(time.Second)
	assert.Equal(t, http.StatusOK, requestFrom(h, "10.0.0.1:1003").Code)
}

func TestRateLimit_SweepsIdleVisitors(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newVisitorStore(5, 5, time.Minute, clock.now)

	store.allow("10.0.0.1")
	store.allow("10.0.0.2")
	assert.Equal(t, 2, store.size())

	clock.advance(2 * time.Minute)
	store.allow("10.0.0.3")
	assert.Equal(t, 1, store.size())
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(0, 0, newTestLogger())(http.HandlerFunc(okHandler))
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, requestFrom(h, "10.0.0.1:1").Code)
	}
}
