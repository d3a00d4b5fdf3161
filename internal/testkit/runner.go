package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// RunFile runs every scenario in path as a subtest. tokens maps the "as"
// field to a bearer token; vars fills {{placeholders}}.
func RunFile(t *testing.T, handler http.Handler, path string, tokens, vars map[string]string) {
	t.Helper()

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s, tokens, vars)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario, tokens, vars map[string]string) {
	t.Helper()

	var body io.Reader
	if len(s.Body) > 0 {
		body = strings.NewReader(expand(string(s.Body), vars))
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), expand(s.RequestURL, vars), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	if s.As != "" {
		tok, ok := tokens[s.As]
		if !ok {
			t.Fatalf("[%s] no token for %q", s.Name, s.As)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())
	if len(s.Expect) > 0 || len(s.ExpectAbsent) > 0 {
		AssertJSONPaths(t, s, rec.Body.Bytes())
	}
}

// Do fires one JSON request at handler. body may be nil, a string, or any
// value encodable as JSON.
func Do(t testing.TB, handler http.Handler, method, url string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("testkit: encode body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, url, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// Envelope decodes the standard response envelope.
func Envelope(t testing.TB, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("testkit: response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}
