package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"geoworld/internal/geoerr"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, t.TempDir(), 5*time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestQueryFetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("data"); got != "[out:json]; node(1); out;" {
			t.Errorf("data = %q", got)
		}
		w.Write([]byte(`{"elements": []}`))
	}))

	ql := "[out:json]; node(1); out;"

	first, err := client.Query(context.Background(), ql)
	if err != nil {
		t.Fatalf("first Query: %v", err)
	}
	if string(first) != `{"elements": []}` {
		t.Errorf("first response = %q", first)
	}

	second, err := client.Query(context.Background(), ql)
	if err != nil {
		t.Fatalf("second Query: %v", err)
	}
	if string(second) != string(first) {
		t.Errorf("cached response = %q, want %q", second, first)
	}

	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 with the second query cached", hits.Load())
	}
}

func TestQueryDistinctQueriesNotShared(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))

	if _, err := client.Query(context.Background(), "node(1); out;"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if _, err := client.Query(context.Background(), "node(2); out;"); err != nil {
		t.Fatalf("Query: %v", err)
	}

	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
}

func TestQueryServerError(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))

	_, err := client.Query(context.Background(), "node(1); out;")
	if err == nil {
		t.Fatal("expected an error")
	}
	var appErr *geoerr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error %T is not a *geoerr.Error", err)
	}
	if appErr.Kind != geoerr.KindIO {
		t.Errorf("Kind = %v, want KindIO", appErr.Kind)
	}
	if appErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", appErr.Status)
	}
	if appErr.URL != server.URL {
		t.Errorf("URL = %q, want %q", appErr.URL, server.URL)
	}
}

func TestQueryTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // fail every connection

	client, err := NewClient(server.URL, t.TempDir(), time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Query(context.Background(), "node(1); out;")
	var appErr *geoerr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error %T is not a *geoerr.Error", err)
	}
	if appErr.Kind != geoerr.KindIO || appErr.Status != 0 {
		t.Errorf("got Kind %v Status %d, want KindIO with no status", appErr.Kind, appErr.Status)
	}
}

func TestQueryErrorNotCached(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
			return
		}
		w.Write([]byte(`{"elements": []}`))
	}))

	if _, err := client.Query(context.Background(), "node(1); out;"); err == nil {
		t.Fatal("expected the first query to fail")
	}

	data, err := client.Query(context.Background(), "node(1); out;")
	if err != nil {
		t.Fatalf("retry Query: %v", err)
	}
	if string(data) != `{"elements": []}` {
		t.Errorf("retry response = %q", data)
	}
}

func TestQueryWaitersShareSingleRetryAfterFailure(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"elements": []}`))
	}))

	ql := "node(1); out;"
	path := client.cachePath(ql)

	// A fetch for the same query is in progress and will fail without
	// writing the cache file.
	failing := make(chan struct{})
	client.inFlightMu.Lock()
	client.inFlight[path] = failing
	client.inFlightMu.Unlock()

	var wg sync.WaitGroup
	results := make([][]byte, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = client.Query(context.Background(), ql)
		}()
	}

	// The failing fetch finishes: deregister, then wake the waiters.
	time.Sleep(50 * time.Millisecond)
	client.inFlightMu.Lock()
	delete(client.inFlight, path)
	close(failing)
	client.inFlightMu.Unlock()
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("waiter %d: %v", i, errs[i])
		}
		if string(results[i]) != `{"elements": []}` {
			t.Errorf("waiter %d response = %q", i, results[i])
		}
	}
	// Exactly one waiter takes over the fetch; the other is answered from
	// the cache it writes.
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestTileQL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		ql := r.PostForm.Get("data")
		if !strings.Contains(ql, "[bbox:") {
			t.Errorf("tile query has no bbox:\n%s", ql)
		}
		if !strings.Contains(ql, `way["highway"]`) {
			t.Errorf("tile query does not select highways:\n%s", ql)
		}
		w.Write([]byte(`{}`))
	}))

	if _, err := client.QueryTile(context.Background(), 33, 21, 6); err != nil {
		t.Fatalf("QueryTile: %v", err)
	}
}
