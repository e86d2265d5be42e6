package http

import (
	"net/http"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/application"
)

// issueToken mints a test identity token. The download endpoints stay
// token-gated on their own dedicated credential, so this route carries no
// role restriction.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	var req application.TokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "issue_token", err)
		return
	}

	res, err := h.service.IssueToken(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "issue_token", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
