package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/quote-api/internal/middleware"
	"github.com/crucial707/quote-api/internal/models"
	"github.com/crucial707/quote-api/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// QuoteStore is the quote persistence used by QuoteHandler; *repo.QuoteRepo satisfies it.
type QuoteStore interface {
	List(ctx context.Context) ([]models.Quote, error)
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	Create(ctx context.Context, title, description string) (*models.Quote, error)
	Update(ctx context.Context, id string, patch models.QuotePatch) (*models.Quote, error)
	Delete(ctx context.Context, id string) (*models.Quote, error)
}

// AuditLogger records who changed what; *repo.AuditRepo satisfies it.
type AuditLogger interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, details string) error
}

type QuoteHandler struct {
	Quotes QuoteStore
	// Audit is optional.
	Audit AuditLogger
}

//
// ==========================
// Read
// ==========================
//

func (h *QuoteHandler) Read(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Quotes.List(r.Context())
	if err != nil {
		internalError(w, r, "read quotes", err)
		return
	}
	writeJSON(w, http.StatusOK, ResultResponse{Message: MsgSuccess, Response: quotes})
}

func (h *QuoteHandler) ReadOne(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repo.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, DataResponse{Message: MsgError, Data: MsgQuoteNotFound})
		return
	}
	if err != nil {
		internalError(w, r, "read quote", err)
		return
	}
	writeJSON(w, http.StatusOK, ResultResponse{Message: MsgSuccess, Response: q})
}

//
// ==========================
// Create
// ==========================
//

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Missing fields are rejected by the store and surface as 500.
	q, err := h.Quotes.Create(r.Context(), input.Title, input.Description)
	if err != nil {
		internalError(w, r, "create quote", err)
		return
	}

	h.audit(r, "create", q.ID, q.Title)
	writeJSON(w, http.StatusCreated, ResultResponse{Message: MsgSuccess, Response: q})
}

//
// ==========================
// Update (partial)
// ==========================
//

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	q, err := h.Quotes.Update(r.Context(), chi.URLParam(r, "id"), models.QuotePatch{
		Title:       input.Title,
		Description: input.Description,
	})
	if errors.Is(err, repo.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, DataResponse{Message: MsgFailed, Data: MsgQuoteUpdateFailure})
		return
	}
	if err != nil {
		internalError(w, r, "update quote", err)
		return
	}

	h.audit(r, "update", q.ID, q.Title)
	writeJSON(w, http.StatusOK, ResultResponse{Message: MsgSuccess, Response: q})
}

//
// ==========================
// Delete
// ==========================
//

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotes.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repo.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, DataResponse{Message: MsgError, Data: MsgQuoteNotFound})
		return
	}
	if err != nil {
		internalError(w, r, "delete quote", err)
		return
	}

	h.audit(r, "delete", q.ID, q.Title)
	writeJSON(w, http.StatusOK, ResultResponse{Message: MsgSuccess, Response: q})
}

// audit is best effort; a failed write is logged and the response is unchanged.
func (h *QuoteHandler) audit(r *http.Request, action, quoteID, details string) {
	if h.Audit == nil {
		return
	}
	userID := middleware.GetUserID(r.Context())
	if err := h.Audit.Log(r.Context(), userID, action, "quote", quoteID, details); err != nil {
		slog.Warn("audit log write failed",
			"request_id", chimw.GetReqID(r.Context()),
			"action", action,
			"quote_id", quoteID,
			"error", err)
	}
}
