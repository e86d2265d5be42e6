package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials", nil)
		return
	}
	if actor.Role != domain.RoleEditor {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", "editor role required", nil)
		return
	}
	reportID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(32 * 1024 * 1024); err != nil {
		writeValidationError(r.Context(), w, "upload_attachment", errors.New("invalid multipart payload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidationError(r.Context(), w, "upload_attachment", errors.New("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeMappedError(r.Context(), w, "upload_attachment", fmt.Errorf("%w: %v", domain.ErrStorageFailure, err))
		return
	}

	result, err := h.service.AddAttachment(r.Context(), actor, reportID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeMappedError(r.Context(), w, "upload_attachment", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	attachmentID := chi.URLParam(r, "attachmentId")
	token := r.URL.Query().Get("token")

	data, attachment, err := h.service.DownloadAttachment(r.Context(), reportID, attachmentID, token)
	if err != nil {
		writeMappedError(r.Context(), w, "download_attachment", err)
		return
	}

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.OriginalName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
