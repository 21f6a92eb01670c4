// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is a request received by a Backend.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Decode unmarshals the request body into v.
func (c Call) Decode(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(c.Body, v); err != nil {
		t.Fatalf("decoding %s %s body: %v", c.Method, c.Path, err)
	}
}

// Backend is a fake REST API speaking the {success, data, message} envelope.
type Backend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

func NewBackend(t *testing.T) *Backend {
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func routeKey(method, path string) string {
	return method + " " + path
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	h, ok := b.routes[routeKey(r.Method, r.URL.Path)]
	b.mu.Unlock()

	if !ok {
		WriteError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
		return
	}
	h(w, r)
}

// Handle registers h for an exact method and path, replacing any previous handler.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[routeKey(method, path)] = h
}

// Reply answers method+path with a successful envelope around data.
func (b *Backend) Reply(method, path string, status int, data interface{}) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteData(w, status, data)
	})
}

// Fail answers method+path with a failed envelope.
func (b *Backend) Fail(method, path string, status int, msg string) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, status, msg)
	})
}

// Calls returns the requests received for method+path; an empty method matches any.
func (b *Backend) Calls(method, path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var calls []Call
	for _, c := range b.calls {
		if (method == "" || c.Method == method) && c.Path == path {
			calls = append(calls, c)
		}
	}
	return calls
}

func (b *Backend) Count(method, path string) int {
	return len(b.Calls(method, path))
}

// Total is the number of requests received so far.
func (b *Backend) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, map[string]interface{}{"success": true, "data": data})
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, map[string]interface{}{"success": false, "message": msg})
}

func writeEnvelope(w http.ResponseWriter, status int, env map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// Page wraps content the way paged endpoints return it.
func Page(total int64, size int, content interface{}) map[string]interface{} {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return map[string]interface{}{"content": content, "totalElements": total, "totalPages": pages}
}
