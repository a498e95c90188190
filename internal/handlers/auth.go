package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crucial707/quote-api/internal/auth"
	"github.com/crucial707/quote-api/internal/metrics"
	"github.com/crucial707/quote-api/internal/models"
	"github.com/crucial707/quote-api/internal/repo"
)

// UserStore is the credential store used by AuthHandler; *repo.UserRepo satisfies it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
}

// TokenIssuer is satisfied by *auth.Issuer.
type TokenIssuer interface {
	Issue(username, userID string) (string, error)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  UserStore
	Tokens TokenIssuer
}

type tokenData struct {
	Token string `json:"token"`
}

// ==========================
// Hello
// ==========================
func (h *AuthHandler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Hello")
}

// ==========================
// Register (email is the unique key; a taken email is answered with 200)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	existing, err := h.Users.FindByEmail(r.Context(), input.Email)
	if err != nil {
		metrics.RecordAuth("register", "error")
		internalError(w, r, "register: find user", err)
		return
	}
	if existing != nil {
		metrics.RecordAuth("register", "email_exists")
		writeJSON(w, http.StatusOK, MessageResponse{Message: MsgEmailExists})
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		metrics.RecordAuth("register", "error")
		internalError(w, r, "register: hash password", err)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, input.Email, hash)
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repo.ErrConstraint) {
			metrics.RecordAuth("register", "email_exists")
			writeJSON(w, http.StatusOK, MessageResponse{Message: MsgEmailExists})
			return
		}
		metrics.RecordAuth("register", "error")
		internalError(w, r, "register: create user", err)
		return
	}

	h.respondWithToken(w, r, "register", user)
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
		Email    string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), input.Email)
	if err != nil {
		metrics.RecordAuth("login", "error")
		internalError(w, r, "login: find user", err)
		return
	}
	if user == nil {
		metrics.RecordAuth("login", "unknown_user")
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: MsgUserNotFound})
		return
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		metrics.RecordAuth("login", "wrong_password")
		writeJSON(w, http.StatusOK, MessageResponse{Message: MsgIncorrectPassword})
		return
	}

	h.respondWithToken(w, r, "login", user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, event string, user *models.User) {
	token, err := h.Tokens.Issue(user.Username, user.ID)
	if err != nil {
		metrics.RecordAuth(event, "error")
		internalError(w, r, event+": issue token", err)
		return
	}
	metrics.RecordAuth(event, "success")
	writeJSON(w, http.StatusCreated, DataResponse{
		Message: MsgSuccess,
		Data:    tokenData{Token: token},
	})
}
