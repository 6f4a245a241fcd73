// Package luke drives the prebuilt Lucene/Luke standalone benchmark jar.
// The jar is an opaque collaborator: we assemble it, invoke it with a
// (benchmark type, dataset, codec) triple, and pick up the CSV files it
// drops under the benchmark data directory.
package luke

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hannes44/exjobb-index-compression/internal/infra/logger"
)

type Runner struct {
	JavaPath    string
	GradlewPath string
	JarPath     string

	// DataDir is where the jar writes IndexingData/<dataset>.csv and
	// SearchData/<dataset>.csv.
	DataDir string

	logger *logger.Logger
}

// NewRunner locates the java binary and wires a Runner.
func NewRunner(gradlewPath, jarPath, dataDir string, log *logger.Logger) (*Runner, error) {
	javaPath, err := exec.LookPath("java")
	if err != nil {
		return nil, fmt.Errorf("java binary not found in PATH: %w", err)
	}
	return &Runner{
		JavaPath:    javaPath,
		GradlewPath: gradlewPath,
		JarPath:     jarPath,
		DataDir:     dataDir,
		logger:      log,
	}, nil
}

// Assemble builds the lucene core and the luke standalone jar.
func (r *Runner) Assemble(ctx context.Context) error {
	for _, task := range []string{":lucene:core:assemble", ":lucene:luke:assemble"} {
		cmd := exec.CommandContext(ctx, r.GradlewPath, task)
		cmd.Dir = filepath.Dir(r.GradlewPath)

		r.logger.Info("assembling %s", task)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("gradle %s failed: %w\nOutput: %s", task, err, string(output))
		}
	}
	return nil
}

// Run invokes the benchmark jar for one (type, dataset, codec) cell. The
// jar appends its measurements to the per-dataset CSV under DataDir.
func (r *Runner) Run(ctx context.Context, benchType, dataset, codec string) error {
	// jdk.incubator.vector is required by the SIMD-accelerated codecs.
	cmd := exec.CommandContext(ctx, r.JavaPath,
		"--add-modules", "jdk.incubator.vector",
		"-jar", r.JarPath,
		benchType, dataset, codec)

	r.logger.Info("running luke benchmark: %s %s %s", benchType, dataset, codec)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("luke benchmark %s/%s/%s failed: %w\nOutput: %s",
			benchType, dataset, codec, err, string(output))
	}
	return nil
}

// CSVPath returns where the jar writes its measurements for one
// benchmark type and dataset.
func (r *Runner) CSVPath(benchType, dataset string) string {
	sub := "IndexingData"
	if benchType == "SEARCH" {
		sub = "SearchData"
	}
	return filepath.Join(r.DataDir, sub, dataset+".csv")
}

// RemoveStaleCSVs deletes the per-dataset CSVs from a previous run so a
// fresh run never merges old measurements.
func (r *Runner) RemoveStaleCSVs(benchTypes []string, dataset string) {
	for _, bt := range benchTypes {
		path := r.CSVPath(bt, dataset)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			r.logger.Warn("failed to remove stale CSV %s: %v", path, err)
		}
	}
}
