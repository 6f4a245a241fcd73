package results

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseRunCSV(t *testing.T) {
	input := "PFOR,index_time_ms,15320\nNEWPFOR,index_time_ms,14890.5\nDEFAULT,index_time_ms,16001\n"

	rows, err := ParseRunCSV(strings.NewReader(input), "lucene", "INDEXING", "COMMONCRAWL")
	if err != nil {
		t.Fatalf("ParseRunCSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Codec != "PFOR" || first.Metric != "index_time_ms" || first.Value != 15320 {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Engine != "lucene" || first.BenchType != "INDEXING" || first.Dataset != "COMMONCRAWL" {
		t.Errorf("invocation context not applied: %+v", first)
	}
	if rows[1].Value != 14890.5 {
		t.Errorf("expected fractional value to survive, got %v", rows[1].Value)
	}
}

func TestParseRunCSVRejectsBadValue(t *testing.T) {
	input := "PFOR,index_time_ms,not-a-number\n"

	if _, err := ParseRunCSV(strings.NewReader(input), "lucene", "INDEXING", "COMMONCRAWL"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParseRunCSVEmpty(t *testing.T) {
	rows, err := ParseRunCSV(strings.NewReader(""), "lucene", "SEARCH", "COMMONCRAWL")
	if err != nil {
		t.Fatalf("ParseRunCSV: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestWriteMergedCSVRoundTrip(t *testing.T) {
	rows := []Row{
		{Engine: "lucene", BenchType: "INDEXING", Dataset: "COMMONCRAWL", Codec: "PFOR", Metric: "index_time_ms", Value: 15320},
		{Engine: "opensearch", BenchType: "SEARCH", Dataset: "COMMONCRAWL", Codec: "DEFAULT", Metric: "took_ms", Value: 42},
	}

	var buf bytes.Buffer
	if err := WriteMergedCSV(&buf, rows); err != nil {
		t.Fatalf("WriteMergedCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "engine,benchmark,dataset,codec,metric,value" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "lucene,INDEXING,COMMONCRAWL,PFOR,index_time_ms,15320" {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if lines[2] != "opensearch,SEARCH,COMMONCRAWL,DEFAULT,took_ms,42" {
		t.Errorf("unexpected row: %s", lines[2])
	}
}
