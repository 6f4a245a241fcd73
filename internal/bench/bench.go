// Package bench drives the benchmark matrix: for every benchmark type,
// dataset and codec it invokes the chosen engine, collects measurement
// rows and persists them as one run. Strictly sequential and fail-fast:
// the first engine error aborts the matrix, because partial result sets
// silently skew codec comparisons.
package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hannes44/exjobb-index-compression/internal/dataset"
	"github.com/hannes44/exjobb-index-compression/internal/infra/config"
	"github.com/hannes44/exjobb-index-compression/internal/infra/logger"
	"github.com/hannes44/exjobb-index-compression/internal/luke"
	"github.com/hannes44/exjobb-index-compression/internal/opensearch"
	"github.com/hannes44/exjobb-index-compression/internal/results"
)

type Orchestrator struct {
	cfg    *config.Config
	store  *results.Store
	logger *logger.Logger
}

func NewOrchestrator(cfg *config.Config, store *results.Store, log *logger.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, store: store, logger: log}
}

// guardDataset verifies the fetched dataset directory exists and holds
// at least one file. A benchmark against a missing or half-fetched
// dataset must not start.
func (o *Orchestrator) guardDataset() ([]string, error) {
	dir := o.cfg.Crawl.DestinationDir
	files, err := dataset.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset directory %s not usable: %w (run 'indexbench fetch' first)", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("dataset directory %s is empty - run 'indexbench fetch' first", dir)
	}
	return files, nil
}

// RunLucene executes the full matrix against the Lucene/Luke jar and
// returns the persisted run.
func (o *Orchestrator) RunLucene(ctx context.Context, runner *luke.Runner) (*results.Run, error) {
	if _, err := o.guardDataset(); err != nil {
		return nil, err
	}

	if err := runner.Assemble(ctx); err != nil {
		return nil, err
	}

	run := results.NewRun("lucene")

	for _, ds := range o.cfg.Bench.Datasets {
		runner.RemoveStaleCSVs(o.cfg.Bench.Types, ds)

		for _, benchType := range o.cfg.Bench.Types {
			for _, codec := range o.cfg.Bench.Codecs {
				if err := runner.Run(ctx, benchType, ds, codec); err != nil {
					return nil, err
				}
			}
		}

		// The jar appends one CSV per benchmark type and dataset,
		// accumulating every codec; parse them after the cells ran.
		for _, benchType := range o.cfg.Bench.Types {
			rows, err := o.parseLukeCSV(runner.CSVPath(benchType, ds), benchType, ds)
			if err != nil {
				return nil, err
			}
			run.Rows = append(run.Rows, rows...)
		}
	}

	if err := o.finishRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

func (o *Orchestrator) parseLukeCSV(path, benchType, ds string) ([]results.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("benchmark jar produced no CSV at %s: %w", path, err)
	}
	defer f.Close()

	return results.ParseRunCSV(f, "lucene", benchType, ds)
}

// RunOpenSearch executes the matrix against a running OpenSearch
// cluster: per codec it creates a fresh index, ingests the fetched
// dataset, records indexing time and index size, then measures search
// latency for the configured queries.
func (o *Orchestrator) RunOpenSearch(ctx context.Context, client *opensearch.Client) (*results.Run, error) {
	files, err := o.guardDataset()
	if err != nil {
		return nil, err
	}

	run := results.NewRun("opensearch")

	for _, ds := range o.cfg.Bench.Datasets {
		for _, codec := range o.cfg.Bench.Codecs {
			rows, err := o.benchOpenSearchCodec(ctx, client, ds, codec, files)
			if err != nil {
				return nil, err
			}
			run.Rows = append(run.Rows, rows...)
		}
	}

	if err := o.finishRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

func (o *Orchestrator) benchOpenSearchCodec(ctx context.Context, client *opensearch.Client, ds, codec string, files []string) ([]results.Row, error) {
	index := "bench-" + strings.ToLower(codec)

	// A leftover index from an aborted run would skew size and timing.
	if err := client.DeleteIndex(ctx, index); err != nil {
		o.logger.Debug("pre-run delete of %s: %v", index, err)
	}

	if err := client.CreateIndex(ctx, index, 1, opensearchCodec(codec)); err != nil {
		return nil, fmt.Errorf("failed to create index %s: %w", index, err)
	}

	o.logger.Info("indexing dataset %s into %s", ds, index)

	start := time.Now()
	for _, file := range files {
		docs, err := dataset.ReadDocuments(file)
		if err != nil {
			return nil, err
		}
		if err := client.Bulk(ctx, index, docs); err != nil {
			return nil, fmt.Errorf("bulk ingest into %s failed: %w", index, err)
		}
	}
	if err := client.Refresh(ctx, index); err != nil {
		return nil, err
	}
	indexMillis := time.Since(start).Milliseconds()

	stats, err := client.Stats(ctx, index)
	if err != nil {
		return nil, err
	}

	rows := []results.Row{
		{Engine: "opensearch", BenchType: "INDEXING", Dataset: ds, Codec: codec, Metric: "index_time_ms", Value: float64(indexMillis)},
		{Engine: "opensearch", BenchType: "INDEXING", Dataset: ds, Codec: codec, Metric: "index_size_bytes", Value: float64(stats.SizeInBytes)},
		{Engine: "opensearch", BenchType: "INDEXING", Dataset: ds, Codec: codec, Metric: "doc_count", Value: float64(stats.DocCount)},
	}

	for _, query := range o.cfg.Bench.Queries {
		res, err := client.Search(ctx, index, query)
		if err != nil {
			return nil, fmt.Errorf("search %q against %s failed: %w", query, index, err)
		}
		rows = append(rows, results.Row{
			Engine: "opensearch", BenchType: "SEARCH", Dataset: ds, Codec: codec,
			Metric: "took_ms:" + query, Value: float64(res.TookMillis),
		})
	}

	return rows, nil
}

// finishRun persists the run and emits the merged CSV next to the
// per-run data.
func (o *Orchestrator) finishRun(run *results.Run) error {
	if err := o.store.SaveRun(run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	if err := os.MkdirAll(o.cfg.Bench.OutDir, 0755); err != nil {
		return err
	}

	mergedPath := filepath.Join(o.cfg.Bench.OutDir, fmt.Sprintf("merged-%s.csv", run.ID))
	f, err := os.Create(mergedPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := results.WriteMergedCSV(f, run.Rows); err != nil {
		return fmt.Errorf("failed to write merged CSV: %w", err)
	}

	o.logger.Info("run %s: %d rows, merged CSV at %s", run.ID, len(run.Rows), mergedPath)
	return nil
}

// opensearchCodec maps the benchmark codec label to the index.codec
// setting OpenSearch understands. DEFAULT means cluster default.
func opensearchCodec(codec string) string {
	switch strings.ToUpper(codec) {
	case "DEFAULT":
		return ""
	default:
		return strings.ToLower(codec)
	}
}
