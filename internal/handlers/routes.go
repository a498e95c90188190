package handlers

import "net/http"

// Route binds a method and path to a handler. Protected routes sit behind the
// bearer token middleware; Success is the status of the happy path.
type Route struct {
	Method    string
	Pattern   string
	Protected bool
	Success   int
	Handler   http.HandlerFunc
}

// Routes returns the full public API surface.
func Routes(authH *AuthHandler, quoteH *QuoteHandler, auditH *AuditHandler) []Route {
	return []Route{
		{http.MethodGet, "/", false, http.StatusOK, authH.Hello},
		{http.MethodPost, "/register", false, http.StatusCreated, authH.Register},
		{http.MethodPost, "/login", false, http.StatusCreated, authH.Login},
		{http.MethodGet, "/api-docs", false, http.StatusOK, APIDocs},

		{http.MethodGet, "/crud/read", true, http.StatusOK, quoteH.Read},
		{http.MethodGet, "/crud/read/{id}", true, http.StatusOK, quoteH.ReadOne},
		{http.MethodPost, "/crud/create", true, http.StatusCreated, quoteH.Create},
		{http.MethodPut, "/crud/update/{id}", true, http.StatusOK, quoteH.Update},
		{http.MethodDelete, "/crud/delete/{id}", true, http.StatusOK, quoteH.Delete},
		{http.MethodGet, "/crud/audit", true, http.StatusOK, auditH.ListAudit},
	}
}
