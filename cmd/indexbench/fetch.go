package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hannes44/exjobb-index-compression/internal/crawl"
	"github.com/hannes44/exjobb-index-compression/internal/platform"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and decompress Common Crawl WET segments",
	Long: `fetch clears the destination directory, then downloads, verifies and
decompresses every segment in [start_index, end_index). Segments are
processed strictly in order; the first segment that exhausts its retry
budget halts the run with a non-zero exit code, because indexing must
never proceed against a dataset with silently-missing segments.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("template", "", "URL template containing the {idx} placeholder (overrides config)")
	fetchCmd.Flags().Int("start", -1, "first segment index, inclusive (overrides config)")
	fetchCmd.Flags().Int("end", -1, "last segment index, exclusive (overrides config)")
	fetchCmd.Flags().String("dest", "", "destination directory (overrides config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}

	if err := platform.ValidateDependencies(); err != nil {
		return err
	}

	cc := cfg.Crawl
	if v, _ := cmd.Flags().GetString("template"); v != "" {
		cc.URLTemplate = v
	}
	if v, _ := cmd.Flags().GetInt("start"); v >= 0 {
		cc.StartIndex = v
	}
	if v, _ := cmd.Flags().GetInt("end"); v >= 0 {
		cc.EndIndex = v
	}
	if v, _ := cmd.Flags().GetString("dest"); v != "" {
		cc.DestinationDir = v
	}

	if cc.URLTemplate == "" {
		return fmt.Errorf("no URL template configured: set crawl.url_template or pass --template")
	}

	// Cancel in-flight curl transfers on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := crawl.ClearDir(cc.DestinationDir, log); err != nil {
		return err
	}

	transfer, err := crawl.NewCurlTransfer()
	if err != nil {
		return err
	}

	fetcher := crawl.NewFetcher(
		transfer,
		crawl.GzipDecompressor{},
		cc.MaxRetries,
		time.Duration(cc.BackoffBaseSeconds)*time.Second,
		log,
	)

	log.Info("fetching segments [%d, %d) into %s", cc.StartIndex, cc.EndIndex, cc.DestinationDir)

	if err := fetcher.Run(ctx, cc.URLTemplate, cc.StartIndex, cc.EndIndex, cc.DestinationDir); err != nil {
		log.Error("fetch failed: %v", err)
		return err
	}

	log.Info("fetch complete")
	return nil
}
