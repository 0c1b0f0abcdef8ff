package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/example/topupadmin/internal/cache"
)

// recordedRequest is what the fake platform saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakePlatform is an httptest server with per-route handlers that records
// every request it receives.
type fakePlatform struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]http.HandlerFunc
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()
	f := &fakePlatform{t: t, routes: make(map[string]http.HandlerFunc)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// handle registers a handler for "METHOD /path".
func (f *fakePlatform) handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = h
}

func (f *fakePlatform) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	r.Body = io.NopCloser(bytes.NewReader(body))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no route " + r.Method + " " + r.URL.Path})
		return
	}
	h(w, r)
}

func (f *fakePlatform) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakePlatform) count(method, path string) int {
	n := 0
	for _, r := range f.recorded() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakePlatform) client() *PlatformClient {
	return NewPlatformClient(f.server.URL, "svc-token", 0)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonHandler(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

// recordingAuditor keeps audit records in memory.
type recordingAuditor struct {
	mu      sync.Mutex
	records []AuditRecord
}

func (a *recordingAuditor) Record(_ context.Context, rec AuditRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

func (a *recordingAuditor) all() []AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditRecord, len(a.records))
	copy(out, a.records)
	return out
}

// fakeNotifier captures notifications on channels.
type fakeNotifier struct {
	delay   time.Duration
	bulk    chan BulkNotification
	retry   chan RetryNotification
	final   chan QueueRow
	failFor map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		bulk:    make(chan BulkNotification, 10),
		retry:   make(chan RetryNotification, 10),
		final:   make(chan QueueRow, 10),
		failFor: map[string]bool{},
	}
}

func (n *fakeNotifier) NotifyBulkOverride(_ context.Context, b BulkNotification) error {
	n.bulk <- b
	return nil
}

func (n *fakeNotifier) NotifyManualRetry(_ context.Context, r RetryNotification) error {
	time.Sleep(n.delay)
	n.retry <- r
	return nil
}

func (n *fakeNotifier) NotifyFinalAttempt(_ context.Context, row QueueRow) error {
	if n.failFor[row.JobID] {
		return io.ErrUnexpectedEOF
	}
	n.final <- row
	return nil
}

func newTestCache() *cache.QueryCache {
	return cache.New()
}
