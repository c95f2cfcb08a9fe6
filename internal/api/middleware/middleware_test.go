package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	path   string
	status int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, observation{method: method, path: path, status: status})
}

type recordingLogger struct {
	info, warn, errs []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {
	l.info = append(l.info, fmt.Sprintf(format, v...))
}
func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.warn = append(l.warn, fmt.Sprintf(format, v...))
}
func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.errs = append(l.errs, fmt.Sprintf(format, v...))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	observer := &fakeObserver{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(observer))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/42", nil))

	require.Len(t, observer.seen, 1)
	assert.Equal(t, observation{method: http.MethodGet, path: "/bookings/{bookingId}", status: http.StatusNotFound}, observer.seen[0])
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLogging_LevelByStatus(t *testing.T) {
	logger := &recordingLogger{}
	status := http.StatusOK
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))

	for _, s := range []int{http.StatusOK, http.StatusConflict, http.StatusInternalServerError} {
		status = s
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil))
	}

	require.Len(t, logger.info, 1)
	require.Len(t, logger.warn, 1)
	require.Len(t, logger.errs, 1)
	assert.Contains(t, logger.warn[0], "POST /api/v1/bookings - 409")
}
