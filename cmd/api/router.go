package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/quote-api/internal/auth"
	"github.com/crucial707/quote-api/internal/config"
	"github.com/crucial707/quote-api/internal/handlers"
	"github.com/crucial707/quote-api/internal/middleware"
	"github.com/crucial707/quote-api/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires stores, token issuer/verifier and middleware around the route table.
func newRouter(db *sql.DB, cfg config.Config) (http.Handler, error) {
	issuer, err := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpireHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("token verifier: %w", err)
	}

	authH := &handlers.AuthHandler{Users: repo.NewUserRepo(db), Tokens: issuer}
	auditRepo := repo.NewAuditRepo(db)
	quoteH := &handlers.QuoteHandler{Quotes: repo.NewQuoteRepo(db), Audit: auditRepo}
	auditH := &handlers.AuditHandler{Repo: auditRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	// ==========================
	// Operational
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// ==========================
	// API
	// ==========================
	requireToken := middleware.JWTMiddleware(verifier)
	for _, rt := range handlers.Routes(authH, quoteH, auditH) {
		if rt.Protected {
			r.With(requireToken).Method(rt.Method, rt.Pattern, rt.Handler)
			continue
		}
		r.Method(rt.Method, rt.Pattern, rt.Handler)
	}

	return r, nil
}
