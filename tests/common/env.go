// Package common provides the shared end-to-end test environment: a fully
// wired App with temporary storage, served over httptest.
package common

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finsight-io/finsight/internal/app"
	"github.com/finsight-io/finsight/internal/server"
)

// Env is one running test instance of the full application.
type Env struct {
	App    *app.App
	Server *httptest.Server
	t      *testing.T
}

// NewEnv boots a full App against temporary storage and serves it over
// httptest. No quotes API key is configured, so price refresh is a no-op.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	t.Setenv("FINSIGHT_DATA_PATH", t.TempDir())
	t.Setenv("FINSIGHT_LOG_LEVEL", "disabled")
	t.Setenv("FINSIGHT_QUOTES_API_KEY", "")
	t.Setenv("FINSIGHT_CONFIG", "")

	a, err := app.NewApp("")
	if err != nil {
		t.Fatalf("failed to initialize app: %v", err)
	}

	srv := server.NewServer(a)
	ts := httptest.NewServer(srv.Handler())

	return &Env{App: a, Server: ts, t: t}
}

// Cleanup shuts down the test server and releases app resources.
func (e *Env) Cleanup() {
	e.Server.Close()
	e.App.Close()
}

// URL returns the full URL for an API path.
func (e *Env) URL(path string) string {
	return e.Server.URL + path
}

// HTTPGet performs a GET request against the test server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.URL(path))
}

// HTTPPost performs a POST request with a JSON body.
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	return e.request(http.MethodPost, path, body)
}

// HTTPPut performs a PUT request with a JSON body.
func (e *Env) HTTPPut(path string, body interface{}) (*http.Response, error) {
	return e.request(http.MethodPut, path, body)
}

// HTTPDelete performs a DELETE request.
func (e *Env) HTTPDelete(path string) (*http.Response, error) {
	return e.request(http.MethodDelete, path, nil)
}

func (e *Env) request(method, path string, body interface{}) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.URL(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}

// DecodeJSON decodes a response body into v and closes the body.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
