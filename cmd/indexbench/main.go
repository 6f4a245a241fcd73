package main

import (
	"fmt"
	"os"

	"github.com/hannes44/exjobb-index-compression/internal/app"
	"github.com/hannes44/exjobb-index-compression/internal/infra/config"
	"github.com/hannes44/exjobb-index-compression/internal/infra/logger"
	"github.com/hannes44/exjobb-index-compression/internal/results"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "indexbench",
	Short: "Benchmark integer and term compression codecs across OpenSearch and Lucene",
	Long: `indexbench fetches Common Crawl WET datasets, drives an OpenSearch
cluster and the Lucene/Luke benchmark jar over them, and collects
indexing size, indexing speed and search latency per codec.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv builds the shared environment: config and logger. The results
// store is opened separately by the commands that need it.
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return nil, nil, fmt.Errorf("logger error: %w", err)
	}

	return cfg, log, nil
}

// loadApp additionally opens the results store.
func loadApp() (*app.Context, error) {
	cfg, log, err := loadEnv()
	if err != nil {
		return nil, err
	}

	store, err := results.NewStore(cfg.Results.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("store error: %w", err)
	}

	return app.NewContext(cfg, log, store), nil
}
