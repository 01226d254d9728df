package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TFMV/tableio/api"
	"github.com/TFMV/tableio/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *api.Server {
	return api.NewServer(api.ServerOptions{Port: "5555", Prefork: false})
}

// TestHealthEndpoint checks if the /health endpoint returns "OK"
func TestHealthEndpoint(t *testing.T) {
	s := newServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

type versionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Time    string `json:"time"`
}

func TestVersionEndpoint(t *testing.T) {
	s := newServer()
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var v versionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.Equal(t, "tableio API", v.Service)
	assert.NotEmpty(t, v.Version)
	assert.NotEmpty(t, v.Build)
	assert.NotEmpty(t, v.Time)
}

func writePerson(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "person.csv")
	require.NoError(t, os.WriteFile(path, []byte("firstname,lastname,gender\nEmma,Olivia,F\nAva,Isabella,F\nSophia,Charlotte,F\n"), 0o644))
	return path
}

func fetchBody(path string, extra string) string {
	return fmt.Sprintf(`{
		"input_path": %q,
		"input_format": "text",
		"schema": ["firstname", "lastname", "gender"],
		"dtype": ["str", "str", "str"],
		"delimiter": ",",
		"header": 1%s
	}`, path, extra)
}

func post(t *testing.T, s *api.Server, url, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.GetApp().Test(req)
	require.NoError(t, err)
	return resp
}

func TestFetchEndpoint(t *testing.T) {
	s := newServer()
	resp := post(t, s, "/v1/fetch/nfs", fetchBody(writePerson(t), `, "required_cols": ["lastname", "firstname"]`))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.FetchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"firstname", "lastname"}, out.Columns)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, map[string]interface{}{"firstname": "Emma", "lastname": "Olivia"}, out.Rows[0])
	assert.Equal(t, int64(3), out.Stats.Rows)
	assert.Equal(t, "nfs", out.Stats.Source)
}

func TestFetchEndpointLimit(t *testing.T) {
	s := newServer()
	resp := post(t, s, "/v1/fetch/nfs?limit=1", fetchBody(writePerson(t), ""))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.FetchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Rows, 1)
	assert.Equal(t, int64(3), out.Stats.Rows)

	resp = post(t, s, "/v1/fetch/nfs?limit=-2", fetchBody(writePerson(t), ""))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFetchEndpointErrors(t *testing.T) {
	s := newServer()
	path := writePerson(t)

	cases := map[string]struct {
		url    string
		body   string
		status int
	}{
		"unknown kind":     {"/v1/fetch/hdfs", fetchBody(path, ""), http.StatusBadRequest},
		"missing header":   {"/v1/fetch/nfs", `{"input_path": "/x.csv", "input_format": "text", "schema": ["a"], "dtype": ["str"], "delimiter": ","}`, http.StatusBadRequest},
		"missing column":   {"/v1/fetch/nfs", fetchBody(path, `, "required_cols": ["age"]`), http.StatusUnprocessableEntity},
		"file not found":   {"/v1/fetch/nfs", fetchBody(filepath.Join(t.TempDir(), "nope.csv"), ""), http.StatusNotFound},
		"malformed json":   {"/v1/fetch/nfs", `{"input_path": `, http.StatusBadRequest},
		"unsupported type": {"/v1/fetch/nfs", `{"input_path": "/x.avro", "input_format": "avro"}`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := post(t, s, tc.url, tc.body)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			var out map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, api.StatusFor(core.Errorf(core.ErrConfiguration, "x")))
	assert.Equal(t, http.StatusBadRequest, api.StatusFor(core.Errorf(core.ErrUnsupportedSource, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, api.StatusFor(core.Errorf(core.ErrParse, "x")))
	assert.Equal(t, http.StatusNotFound, api.StatusFor(core.Errorf(core.ErrIO, "open: %w", os.ErrNotExist)))
	assert.Equal(t, http.StatusBadGateway, api.StatusFor(core.Errorf(core.ErrIO, "reset")))
	assert.Equal(t, http.StatusInternalServerError, api.StatusFor(assert.AnError))
}

// TestShutdown verifies that calling Shutdown on an idle server does not return an error
func TestShutdown(t *testing.T) {
	s := newServer()
	assert.NoError(t, s.Shutdown(context.Background()))
}
