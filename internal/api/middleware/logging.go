package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Logging пишет в лог метод, путь, статус и длительность каждого запроса
func Logging(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			requestID := GetRequestID(r.Context())
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("%s %s - %d in %v (request_id=%s)", r.Method, r.URL.Path, rec.status, duration, requestID)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("%s %s - %d in %v (request_id=%s)", r.Method, r.URL.Path, rec.status, duration, requestID)
			default:
				logger.Info("%s %s - %d in %v (request_id=%s)", r.Method, r.URL.Path, rec.status, duration, requestID)
			}
		})
	}
}
