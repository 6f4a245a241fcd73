package crawl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hannes44/exjobb-index-compression/internal/infra/logger"
)

// ClearDir creates dir if absent and deletes every entry in it (files,
// symlinks and subdirectories), so a run starts from a clean slate.
// Deletion failures are logged and do not stop the sweep: downstream
// stale files are annoying, a half-cleared directory plus an aborted run
// is worse.
func ClearDir(dir string, log *logger.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create destination dir: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read destination dir: %w", err)
	}

	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(target); err != nil {
			log.Warn("failed to delete %s: %v", target, err)
		}
	}

	log.Info("cleared destination dir %s", dir)
	return nil
}
