package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/configuration"
	"github.com/taskwall/taskwall/pkg/constants"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

type responseCaptureWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *responseCaptureWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *responseCaptureWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func getRealIP(r *http.Request, conf *configuration.Configuration) string {
	if ip := r.Header.Get(conf.RealIPHeader); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func getRequestID(r *http.Request, conf *configuration.Configuration) string {
	if id := r.Header.Get(conf.RequestIDHeader); id != "" {
		return id
	}
	return uuid.New().String()
}

// WithLogger attaches a request-scoped logger to the context, logs request
// completion, and recovers panics into a stable JSON 500.
func WithLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := getRequestID(r, conf)

			fieldsLogger := logger.WithFields(logrus.Fields{
				"request-id": requestID,
				"path":       r.URL.Path,
				"method":     r.Method,
				"host":       r.Host,
				"ip":         getRealIP(r, conf),
			})

			ctx := context.WithValue(r.Context(), constants.LoggerKey, fieldsLogger)
			ctx = context.WithValue(ctx, constants.RequestStart, start)
			w.Header().Set("X-Request-Id", requestID)

			wrapped := &responseCaptureWriter{ResponseWriter: w}

			defer func() {
				if recovered := recover(); recovered != nil {
					fieldsLogger.WithFields(logrus.Fields{
						"panic": recovered,
						"stack": string(debug.Stack()),
					}).Error("panic recovered in request handler")

					if !wrapped.statusWritten {
						_ = httpapi.WriteError(wrapped, http.StatusInternalServerError,
							"INTERNAL_SERVER_ERROR", "internal server error",
							map[string]string{"request_id": requestID})
					}
				}
			}()

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			fieldsLogger.WithFields(logrus.Fields{
				"duration":     time.Since(start),
				"status-code":  wrapped.Status(),
				"status-class": wrapped.Status() / 100,
			}).Info("request completed")
		})
	}
}
