package results

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStore(t)

	run := NewRun("lucene")
	run.Rows = []Row{
		{Engine: "lucene", BenchType: "INDEXING", Dataset: "COMMONCRAWL", Codec: "PFOR", Metric: "index_time_ms", Value: 15320},
		{Engine: "lucene", BenchType: "SEARCH", Dataset: "COMMONCRAWL", Codec: "PFOR", Metric: "took_ms", Value: 12.5},
	}

	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("expected run, got nil")
	}
	if got.Label != "lucene" {
		t.Errorf("unexpected label: %s", got.Label)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	if got.Rows[1].Value != 12.5 {
		t.Errorf("unexpected row value: %v", got.Rows[1].Value)
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetRun("does-not-exist")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing run, got %+v", got)
	}
}

func TestSaveRunIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	run := NewRun("opensearch")
	run.Rows = []Row{
		{Engine: "opensearch", BenchType: "INDEXING", Dataset: "COMMONCRAWL", Codec: "DEFAULT", Metric: "doc_count", Value: 100},
	}

	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("second SaveRun: %v", err)
	}

	got, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Rows) != 1 {
		t.Errorf("expected rows to be replaced, not duplicated: got %d", len(got.Rows))
	}
}

func TestListRunsChronological(t *testing.T) {
	store := newTestStore(t)

	first := NewRun("first")
	second := NewRun("second")

	if err := store.SaveRun(first); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(second); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// ksuid order is creation order
	if runs[0].Label != "first" || runs[1].Label != "second" {
		t.Errorf("expected chronological order, got %s then %s", runs[0].Label, runs[1].Label)
	}
}
