package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/hannes44/exjobb-index-compression/internal/dataset"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())
	return New(u.Hostname(), port), server
}

func TestCreateIndexSendsCodecSetting(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"acknowledged":true}`))
	})

	if err := client.CreateIndex(context.Background(), "bench-pfor", 1, "best_compression"); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}

	if gotPath != "/bench-pfor" {
		t.Errorf("unexpected path: %s", gotPath)
	}

	settings := gotBody["settings"].(map[string]any)
	index := settings["index"].(map[string]any)
	if index["codec"] != "best_compression" {
		t.Errorf("expected codec setting, got %v", index)
	}
	if index["number_of_shards"] != float64(1) {
		t.Errorf("expected 1 shard, got %v", index["number_of_shards"])
	}
}

func TestBulkBuildsNDJSON(t *testing.T) {
	var gotContentType string
	var lines []string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		lines = strings.Split(strings.TrimSpace(string(raw)), "\n")
		w.Write([]byte(`{"errors":false}`))
	})

	docs := []dataset.Document{
		{ID: "seg-00000.warc.wet#0", Content: "hello world"},
		{ID: "seg-00000.warc.wet#1", Content: "second doc"},
	}
	if err := client.Bulk(context.Background(), "bench", docs); err != nil {
		t.Fatalf("Bulk: %v", err)
	}

	if gotContentType != "application/x-ndjson" {
		t.Errorf("unexpected content type: %s", gotContentType)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 NDJSON lines (2 actions + 2 docs), got %d", len(lines))
	}

	var action map[string]map[string]string
	if err := json.Unmarshal([]byte(lines[0]), &action); err != nil {
		t.Fatalf("bad action line: %v", err)
	}
	if action["index"]["_id"] != "seg-00000.warc.wet#0" {
		t.Errorf("unexpected action line: %s", lines[0])
	}
}

func TestBulkReportsPerDocumentErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":true}`))
	})

	err := client.Bulk(context.Background(), "bench", []dataset.Document{{ID: "a", Content: "x"}})
	if err == nil {
		t.Fatal("expected error when bulk response flags errors")
	}
}

func TestSearchReturnsServerTiming(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"took":42,"hits":{"total":{"value":7}}}`))
	})

	res, err := client.Search(context.Background(), "bench", "hello")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TookMillis != 42 {
		t.Errorf("expected took=42, got %d", res.TookMillis)
	}
	if res.TotalHits != 7 {
		t.Errorf("expected 7 hits, got %d", res.TotalHits)
	}
}

func TestStatsParsesStoreSize(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_all":{"primaries":{"store":{"size_in_bytes":123456},"docs":{"count":99}}}}`))
	})

	stats, err := client.Stats(context.Background(), "bench")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.SizeInBytes != 123456 {
		t.Errorf("expected 123456 bytes, got %d", stats.SizeInBytes)
	}
	if stats.DocCount != 99 {
		t.Errorf("expected 99 docs, got %d", stats.DocCount)
	}
}

func TestDeleteAllIndices(t *testing.T) {
	var deleted []string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/_cat/indices"):
			w.Write([]byte(`[{"index":"bench-a"},{"index":"bench-b"}]`))
		case r.Method == http.MethodDelete:
			deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/"))
			w.Write([]byte(`{"acknowledged":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	if err := client.DeleteAllIndices(context.Background()); err != nil {
		t.Fatalf("DeleteAllIndices: %v", err)
	}
	if len(deleted) != 2 || deleted[0] != "bench-a" || deleted[1] != "bench-b" {
		t.Errorf("unexpected deletions: %v", deleted)
	}
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"resource_already_exists_exception"}`))
	})

	err := client.CreateIndex(context.Background(), "bench", 1, "")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "resource_already_exists_exception") {
		t.Errorf("expected response body in error, got: %v", err)
	}
}
