// Package web serves a read-only localhost view of the question bank:
// printable topic worksheets with rendered math, plus the CSV and backup
// downloads the admin panel offers.
package web

import (
	"net/http"
	"time"

	"github.com/abhisek/addmath/internal/bank"
	"github.com/abhisek/addmath/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	bank *bank.Bank
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewHandler(b *bank.Bank, log logrus.FieldLogger) *Handler {
	return &Handler{bank: b, log: log, now: time.Now}
}

// NewRouter wires the routes.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Get("/style.css", h.Stylesheet)
	r.Route("/topics", func(r chi.Router) {
		r.Get("/{topicID}", h.Worksheet)
	})
	r.Get("/questions/{id}", h.Question)
	r.Route("/export", func(r chi.Router) {
		r.Get("/template.csv", h.ExportTemplate)
		r.Get("/questions.csv", h.ExportCSV)
		r.Get("/backup.json", h.ExportBackup)
	})
	return r
}

// requestLogger puts a request-scoped logger in the context and logs
// each completed request.
func requestLogger(base logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := base.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logging.NewContext(r.Context(), log)))
			log.WithFields(logrus.Fields{
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}
