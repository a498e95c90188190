package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crucial707/quote-api/cmd/cli/config"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// Envelope covers every JSON body the API returns.
type Envelope struct {
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Response json.RawMessage `json:"response"`
	Error    string          `json:"error"`
}

// Call sends payload (if non-nil) as JSON to config.APIURL()+path. When authed is
// true the saved token is sent. The decoded envelope and status are returned for
// any 2xx answer.
func Call(method, path string, payload any, authed bool) (*Envelope, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := config.LoadToken()
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Authorization", token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, &APIError{Status: resp.StatusCode, Body: describe(raw)}
	}

	env := &Envelope{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return env, resp.StatusCode, nil
}

// describe extracts the human part of an error body.
func describe(raw []byte) string {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		var data string
		_ = json.Unmarshal(env.Data, &data)
		switch {
		case env.Error != "":
			return env.Error
		case data != "":
			return data
		case env.Message != "":
			return env.Message
		}
	}
	return string(bytes.TrimSpace(raw))
}
