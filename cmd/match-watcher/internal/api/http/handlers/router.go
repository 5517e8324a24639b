package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RequestObserver interface {
	ObserveHTTPRequest(method, route string, code int, duration time.Duration)
}

type RouterDeps struct {
	Page    *PageHandler
	Goal    *GoalHandler
	Metrics http.Handler
	Observe RequestObserver
}

func NewRouter(log *zap.Logger, deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", deps.Page.Index).Methods(http.MethodGet)
	r.HandleFunc("/api/state", deps.Page.State).Methods(http.MethodGet)
	r.HandleFunc("/api/simulate-goal", deps.Goal.SimulateGoal).Methods(http.MethodPost)
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.Use(loggingMiddleware(log, deps.Observe))

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(log *zap.Logger, observer RequestObserver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			duration := time.Since(start)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", duration),
			)
			if observer != nil {
				observer.ObserveHTTPRequest(r.Method, route, rec.status, duration)
			}
		})
	}
}
