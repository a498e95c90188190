package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/crucial707/quote-api/internal/models"
)

// AuditLister is satisfied by *repo.AuditRepo.
type AuditLister interface {
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Repo AuditLister
}

// ListAudit returns recent audit log entries. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		internalError(w, r, "list audit log", err)
		return
	}

	writeJSON(w, http.StatusOK, ResultResponse{Message: MsgSuccess, Response: entries})
}
