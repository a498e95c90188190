package main

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/quote-api/internal/auth"
	"github.com/crucial707/quote-api/internal/config"
)

const (
	testSecret  = "test-secret-for-integration"
	testQuoteID = "3f1d2c6e-2b7a-4c39-8c55-0f9a6b1e7d42"
)

var quoteCols = []string{"id", "title", "description", "created_at", "updated_at"}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:          testSecret,
		JWTExpireHours:     24,
		CORSAllowedOrigins: []string{"*"},
		MaxBodyBytes:       1 << 20,
	}
}

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r, err := newRouter(db, testConfig())
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, mock
}

func bearerFor(t *testing.T, username, userID string) string {
	t.Helper()
	issuer, err := auth.NewIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := issuer.Issue(username, userID)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func do(t *testing.T, srv *httptest.Server, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestAPI_RegisterThenCreateAndRead registers a user, uses the returned token to
// create a quote and reads it back through the full router.
func TestAPI_RegisterThenCreateAndRead(t *testing.T) {
	srv, mock := newTestServer(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at FROM users`).
		WithArgs("anonymus@mail.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Mithilesh", "anonymus@mail.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery(`INSERT INTO quotes`).
		WithArgs(sqlmock.AnyArg(), "Friends enemy is your enemy", "Anonymus").
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(testQuoteID, "Friends enemy is your enemy", "Anonymus", now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(sqlmock.AnyArg(), "create", "quote", testQuoteID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT .* FROM quotes WHERE id = \$1`).
		WithArgs(testQuoteID).
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(testQuoteID, "Friends enemy is your enemy", "Anonymus", now, now))

	// 1) Register
	resp := do(t, srv, http.MethodPost, "/register", "", map[string]string{
		"username": "Mithilesh", "email": "anonymus@mail.com", "password": "1234",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", resp.StatusCode)
	}
	var reg struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil || reg.Data.Token == "" {
		t.Fatalf("register response: %v", err)
	}

	// 2) Create with the token exactly as returned
	resp = do(t, srv, http.MethodPost, "/crud/create", reg.Data.Token, map[string]string{
		"title": "Friends enemy is your enemy", "description": "Anonymus",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", resp.StatusCode)
	}

	// 3) Read it back
	resp = do(t, srv, http.MethodGet, "/crud/read/"+testQuoteID, reg.Data.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("read status: got %d, want 200", resp.StatusCode)
	}
	var out struct {
		Message  string `json:"message"`
		Response struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if out.Message != "Success" || out.Response.ID != testQuoteID || out.Response.Title != "Friends enemy is your enemy" {
		t.Errorf("unexpected quote: %+v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// capturedArg matches any value and remembers it.
type capturedArg struct {
	value string
}

func (c *capturedArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	c.value = s
	return ok
}

func decodeToken(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if out.Message != "Success" || !strings.HasPrefix(out.Data.Token, auth.BearerPrefix) {
		t.Fatalf("unexpected token response: %+v", out)
	}
	return out.Data.Token
}

// TestAPI_RegisterThenLogin logs in with the credentials just registered; the
// stored hash is fed back through the user lookup.
func TestAPI_RegisterThenLogin(t *testing.T) {
	srv, mock := newTestServer(t)
	userCols := []string{"id", "username", "email", "password_hash", "created_at"}
	password := strings.Repeat("a long passphrase ", 5)
	userID := &capturedArg{}
	hash := &capturedArg{}

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at FROM users`).
		WithArgs("anonymus@mail.com").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(userID, "Mithilesh", "anonymus@mail.com", hash).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	resp := do(t, srv, http.MethodPost, "/register", "", map[string]string{
		"username": "Mithilesh", "email": "anonymus@mail.com", "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", resp.StatusCode)
	}
	registered := decodeToken(t, resp)
	if hash.value == "" || hash.value == password {
		t.Fatalf("expected a stored digest, got %q", hash.value)
	}

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at FROM users`).
		WithArgs("anonymus@mail.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(userID.value, "Mithilesh", "anonymus@mail.com", hash.value, time.Now()))

	resp = do(t, srv, http.MethodPost, "/login", "", map[string]string{
		"email": "anonymus@mail.com", "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("login status: got %d, want 201", resp.StatusCode)
	}
	loggedIn := decodeToken(t, resp)
	if loggedIn == registered {
		t.Errorf("login returned the registration token again")
	}

	v, err := auth.NewVerifier(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	id, err := v.Verify(strings.TrimPrefix(loggedIn, auth.BearerPrefix))
	if err != nil {
		t.Fatalf("login token does not verify: %v", err)
	}
	if id.UserID != userID.value || id.Username != "Mithilesh" {
		t.Errorf("unexpected identity: %+v", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_AnyUserMayDeleteAnyQuote: quotes have no owner, so a second user can
// delete what the first created.
func TestAPI_AnyUserMayDeleteAnyQuote(t *testing.T) {
	srv, mock := newTestServer(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO quotes`).
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(testQuoteID, "t", "d", now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("user-a", "create", "quote", testQuoteID, "t").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`DELETE FROM quotes WHERE id = \$1`).
		WithArgs(testQuoteID).
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(testQuoteID, "t", "d", now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("user-b", "delete", "quote", testQuoteID, "t").
		WillReturnResult(sqlmock.NewResult(2, 1))

	resp := do(t, srv, http.MethodPost, "/crud/create", bearerFor(t, "alice", "user-a"), map[string]string{"title": "t", "description": "d"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", resp.StatusCode)
	}
	resp = do(t, srv, http.MethodDelete, "/crud/delete/"+testQuoteID, bearerFor(t, "bob", "user-b"), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status: got %d, want 200", resp.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_ProtectedRoutesRejectWithoutToken: the store is never reached.
func TestAPI_ProtectedRoutesRejectWithoutToken(t *testing.T) {
	srv, mock := newTestServer(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/crud/read"},
		{http.MethodGet, "/crud/read/" + testQuoteID},
		{http.MethodPost, "/crud/create"},
		{http.MethodPut, "/crud/update/" + testQuoteID},
		{http.MethodDelete, "/crud/delete/" + testQuoteID},
		{http.MethodGet, "/crud/audit"},
	}
	for _, c := range cases {
		for _, bearer := range []string{"", "Bearer not-a-token", "Token " + strings.TrimPrefix(bearerFor(t, "a", "b"), "Bearer ")} {
			var body any
			if c.method == http.MethodPost || c.method == http.MethodPut {
				body = map[string]string{"title": "t", "description": "d"}
			}
			resp := do(t, srv, c.method, c.path, bearer, body)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("%s %s with %q: got %d, want 401", c.method, c.path, bearer, resp.StatusCode)
			}
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no store call expected: %v", err)
	}
}

func TestAPI_UnknownQuoteIs404(t *testing.T) {
	srv, mock := newTestServer(t)
	const unknown = "6c0e6a57-3f43-4a8d-9a37-2b8e5f0c9d11"

	mock.ExpectQuery(`SELECT .* FROM quotes WHERE id = \$1`).
		WithArgs(unknown).
		WillReturnRows(sqlmock.NewRows(quoteCols))
	mock.ExpectQuery(`UPDATE quotes`).
		WithArgs("x", nil, unknown).
		WillReturnRows(sqlmock.NewRows(quoteCols))
	mock.ExpectQuery(`DELETE FROM quotes`).
		WithArgs(unknown).
		WillReturnRows(sqlmock.NewRows(quoteCols))

	bearer := bearerFor(t, "alice", "user-a")
	if resp := do(t, srv, http.MethodGet, "/crud/read/"+unknown, bearer, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("read: got %d, want 404", resp.StatusCode)
	}
	if resp := do(t, srv, http.MethodPut, "/crud/update/"+unknown, bearer, map[string]string{"title": "x"}); resp.StatusCode != http.StatusNotFound {
		t.Errorf("update: got %d, want 404", resp.StatusCode)
	}
	if resp := do(t, srv, http.MethodDelete, "/crud/delete/"+unknown, bearer, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete: got %d, want 404", resp.StatusCode)
	}
	// Malformed ids never reach the store.
	if resp := do(t, srv, http.MethodGet, "/crud/read/12345", bearer, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("malformed read: got %d, want 404", resp.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_Hello(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status: got %d, want 200", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(b)) != `"Hello"` {
		t.Errorf("GET / body: got %s", b)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	if resp := do(t, srv, http.MethodGet, "/health", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Ready checks that /ready pings the DB and returns 200 when DB is reachable.
func TestAPI_Ready(t *testing.T) {
	srv, _ := newTestServer(t)

	if resp := do(t, srv, http.MethodGet, "/ready", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
}

func TestAPI_ReadyDatabaseDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	r, err := newRouter(db, testConfig())
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /ready status: got %d, want 503", rr.Code)
	}
}

func TestAPI_MetricsAndDocs(t *testing.T) {
	srv, _ := newTestServer(t)

	do(t, srv, http.MethodGet, "/", "", nil)
	resp := do(t, srv, http.MethodGet, "/metrics", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /metrics status: got %d, want 200", resp.StatusCode)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "http_requests_total") {
		t.Errorf("metrics output is missing http_requests_total")
	}

	resp = do(t, srv, http.MethodGet, "/api-docs", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /api-docs status: got %d, want 200", resp.StatusCode)
	}
}

func TestNewRouter_RequiresSecret(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cfg := testConfig()
	cfg.JWTSecret = ""
	if _, err := newRouter(db, cfg); !errors.Is(err, auth.ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}
}
