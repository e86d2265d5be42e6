package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/application"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

func (h *Handler) createReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials", nil)
		return
	}
	if actor.Role != domain.RoleEditor {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", "editor role required", nil)
		return
	}

	var req application.CreateReportInput
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_report", err)
		return
	}

	report, err := h.service.CreateReport(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_report", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/reports/%s", report.ID))
	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	query := r.URL.Query()

	page, ok := parseOptionalInt(query.Get("page"))
	if !ok || (page != nil && *page < 0) {
		writeValidationError(r.Context(), w, "get_report", errors.New("page must be a non-negative integer"))
		return
	}
	size, ok := parseOptionalInt(query.Get("size"))
	if !ok || (size != nil && *size <= 0) {
		writeValidationError(r.Context(), w, "get_report", errors.New("size must be a positive integer"))
		return
	}

	view, err := h.service.GetReportView(r.Context(), id, application.ViewQuery{
		View:           query.Get("view"),
		Include:        splitCSV(query.Get("include")),
		Page:           page,
		Size:           size,
		SortBy:         query.Get("sortBy"),
		FilterPriority: query.Get("filterPriority"),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "get_report", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials", nil)
		return
	}
	if actor.Role != domain.RoleEditor {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", "editor role required", nil)
		return
	}
	id := chi.URLParam(r, "id")

	var expectedVersion *int64
	if match := strings.TrimSpace(r.Header.Get("If-Match")); match != "" {
		v, err := strconv.ParseInt(strings.Trim(match, `"`), 10, 64)
		if err != nil {
			writeValidationError(r.Context(), w, "update_report", errors.New("If-Match must be a version number"))
			return
		}
		expectedVersion = &v
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeValidationError(r.Context(), w, "update_report", err)
		return
	}
	var cmd application.UpdateReportCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		writeValidationError(r.Context(), w, "update_report", err)
		return
	}
	if err := json.Unmarshal(body, &cmd.Raw); err != nil {
		writeValidationError(r.Context(), w, "update_report", err)
		return
	}

	report, err := h.service.UpdateReport(r.Context(), actor, id, expectedVersion, strings.TrimSpace(r.Header.Get("Idempotency-Key")), cmd)
	if err != nil {
		writeMappedError(r.Context(), w, "update_report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListReports(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_reports", err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) deleteReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials", nil)
		return
	}
	if err := h.service.DeleteReport(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeMappedError(r.Context(), w, "delete_report", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
