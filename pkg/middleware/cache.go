package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CacheControl lets shared caches keep GET and HEAD responses for maxAge,
// truncated to whole seconds. Cached variants are keyed on Accept-Encoding.
// A maxAge under one second sends no-store instead.
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	secs := int(maxAge / time.Second)
	value := "no-store"
	if secs > 0 {
		value = "public, max-age=" + strconv.Itoa(secs)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				h := w.Header()
				h.Set("Cache-Control", value)
				if secs > 0 {
					h.Add("Vary", "Accept-Encoding")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
