package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for report use-cases.
// Keeping only the application dependency here preserves clean adapter
// boundaries.
type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers report-service routes and the middleware stack.
// Centralizing routes here ensures consistent auth and error behavior
// across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}) })
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})
	r.Get("/swagger/", handler.swaggerUI)
	r.Get("/swagger/openapi.yaml", handler.swaggerSpec)

	r.Post("/auth/token", handler.issueToken)

	r.Route("/reports", func(r chi.Router) {
		// Download is gated by its own time-limited token, not by a role.
		r.Get("/{id}/attachments/{attachmentId}/download", handler.downloadAttachment)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.listReports)
			r.Post("/", handler.createReport)
			r.Get("/{id}", handler.getReport)
			r.Put("/{id}", handler.updateReport)
			r.Delete("/{id}", handler.deleteReport)
			r.Post("/{id}/attachment", handler.uploadAttachment)
		})
	})

	return r
}
