package quotes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/crucial707/quote-api/cmd/cli/config"
	"github.com/crucial707/quote-api/cmd/cli/root"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "3f1d2c6e-2b7a-4c39-8c55-0f9a6b1e7d42"

// loggedIn points the CLI at handler and saves a token.
func loggedIn(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("QUOTES_API_URL", srv.URL)
	t.Setenv("QUOTES_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	require.NoError(t, config.SaveToken("Bearer test-token"))
	root.Output = "table"
	t.Cleanup(func() { root.Output = "table" })
}

func run(t *testing.T, cmd interface {
	SetOut(io.Writer)
	SetErr(io.Writer)
	SetArgs([]string)
	Execute() error
}, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList_TableOutput(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crud/read", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Success",
			"response": []map[string]string{
				{"id": testID, "title": "Friends enemy is your enemy", "description": "Anonymus"},
			},
		})
	})

	out, err := run(t, listCmd())
	require.NoError(t, err)
	assert.Contains(t, out, testID)
	assert.Contains(t, out, "Friends enemy is your enemy")
}

func TestGet_JSONOutput(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crud/read/"+testID, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":  "Success",
			"response": map[string]string{"id": testID, "title": "t", "description": "d"},
		})
	})
	root.Output = "json"

	out, err := run(t, getCmd(), testID)
	require.NoError(t, err)

	var q quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, testID, q.ID)
	assert.Equal(t, "t", q.Title)
}

func TestGet_NotFound(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Error", "data": "Quote not found"})
	})

	_, err := run(t, getCmd(), testID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quote not found")
}

func TestUpdate_SendsOnlyChangedFields(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"description": "new"}, body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":  "Success",
			"response": map[string]string{"id": testID, "title": "old", "description": "new"},
		})
	})

	out, err := run(t, updateCmd(), testID, "--description", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "new")
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := run(t, updateCmd(), testID)
	assert.Error(t, err)
}

func TestCreateAndDelete(t *testing.T) {
	loggedIn(t, func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		if r.Method == http.MethodPost {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":  "Success",
			"response": map[string]string{"id": testID, "title": "t", "description": "d"},
		})
	})

	out, err := run(t, createCmd(), "--title", "t", "--description", "d")
	require.NoError(t, err)
	assert.Contains(t, out, testID)

	out, err = run(t, deleteCmd(), testID)
	require.NoError(t, err)
	assert.Contains(t, out, testID)
}

func TestList_NotLoggedIn(t *testing.T) {
	t.Setenv("QUOTES_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))

	_, err := run(t, listCmd())
	assert.ErrorIs(t, err, config.ErrNotLoggedIn)
}
