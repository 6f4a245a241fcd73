package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hannes44/exjobb-index-compression/internal/bench"
	"github.com/hannes44/exjobb-index-compression/internal/luke"
	"github.com/hannes44/exjobb-index-compression/internal/opensearch"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the benchmark matrix against an engine",
	Long: `bench runs every configured (benchmark type, dataset, codec) cell
against the chosen engine, persists the measurements as one run and
emits a merged CSV. Fails fast on the first engine error.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().String("engine", "opensearch", "engine to benchmark: opensearch or lucene")
	benchCmd.Flags().Bool("wipe", false, "delete all indices on the cluster before an opensearch run")
}

func runBench(cmd *cobra.Command, args []string) error {
	appCtx, err := loadApp()
	if err != nil {
		return err
	}
	defer appCtx.Store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := bench.NewOrchestrator(appCtx.Config, appCtx.Store, appCtx.Logger)

	engine, _ := cmd.Flags().GetString("engine")
	switch engine {
	case "opensearch":
		client := opensearch.New(appCtx.Config.OpenSearch.Host, appCtx.Config.OpenSearch.Port)

		if wipe, _ := cmd.Flags().GetBool("wipe"); wipe {
			appCtx.Logger.Warn("wiping all indices on %s:%d", appCtx.Config.OpenSearch.Host, appCtx.Config.OpenSearch.Port)
			if err := client.DeleteAllIndices(ctx); err != nil {
				return err
			}
		}

		run, err := orch.RunOpenSearch(ctx, client)
		if err != nil {
			return err
		}
		appCtx.Logger.Info("opensearch run %s finished", run.ID)

	case "lucene":
		runner, err := luke.NewRunner(
			appCtx.Config.Lucene.GradlewPath,
			appCtx.Config.Lucene.JarPath,
			appCtx.Config.Lucene.DataDir,
			appCtx.Logger,
		)
		if err != nil {
			return err
		}

		run, err := orch.RunLucene(ctx, runner)
		if err != nil {
			return err
		}
		appCtx.Logger.Info("lucene run %s finished", run.ID)

	default:
		return fmt.Errorf("unknown engine %q: expected opensearch or lucene", engine)
	}

	return nil
}
