package test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// NewHttpServerWithHandlers creates a new httptest.Server that answers requests with the provided handlers, one
// handler per request, in order. The server is closed when the test ends, and the test fails if not all handlers
// were used.
func NewHttpServerWithHandlers(t *testing.T, handlers []http.HandlerFunc) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	idx := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		if len(handlers) < idx+1 {
			t.Errorf("unexpected request, add missing handler func: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		handlers[idx](w, r)
		idx += 1
	}))

	t.Cleanup(func() {
		srv.Close()
		mu.Lock()
		defer mu.Unlock()
		if diff := len(handlers) - idx; diff != 0 {
			t.Errorf("too many configured handlers, remove %d handler(s)", diff)
		}
	})

	return srv
}

// JSON returns a handler that responds with the given status and body
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
