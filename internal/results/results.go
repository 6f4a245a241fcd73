// Package results holds benchmark measurements: the CSV codec used to
// exchange them with the external Lucene benchmark, and the sqlite store
// that keeps runs around for comparison.
package results

import "time"

// Row is one measurement from one benchmark cell.
type Row struct {
	Engine    string  `json:"engine"`
	BenchType string  `json:"bench_type"`
	Dataset   string  `json:"dataset"`
	Codec     string  `json:"codec"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
}

// Run groups every row produced by one invocation of the harness.
type Run struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Rows      []Row     `json:"rows,omitempty"`
}
