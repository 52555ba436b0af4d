package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/model"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch PROGRAM...",
	Short: "Execute several programs concurrently",
	Args:  cobra.MinimumNArgs(1),
	Run:   batchCommand,
}

func init() {
	addConfigFlags(batchCmd.Flags())
	addFormatFlag(batchCmd.Flags())
	batchCmd.Flags().Int("jobs", 4, "Programs executed at once")
	batchCmd.Flags().Duration("latency", 0, "Emulated backend latency on the local path")
	batchCmd.Flags().Bool("progress", false, "Report fallback progress on stderr")
}

// runBatch executes every program independently. Results keep the order of
// paths; a program that cannot be read gets a failing result.
func runBatch(ctx context.Context, e *model.Executor, paths []string, cfg lab.Config, jobs int) []model.NamedResult {
	results := make([]model.NamedResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, jobs))
	for i, path := range paths {
		g.Go(func() error {
			results[i].Name = filepath.Base(path)
			program, err := readProgram(path)
			if err != nil {
				results[i].Result = lab.Failed(nil, err)
				return nil
			}
			results[i].Result = e.Execute(gctx, program, cfg)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func batchCommand(cmd *cobra.Command, args []string) {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		log.Fatal().Err(err).Msg("Bad flags")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load config")
	}
	jobs, _ := cmd.Flags().GetInt("jobs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := runBatch(ctx, newExecutor(cmd), args, *cfg, jobs)

	if format == "text" {
		model.WriteBatchTable(os.Stdout, results)
	} else if err := encode(os.Stdout, format, results); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write results")
	}
	for _, r := range results {
		if !r.Result.Success {
			stop()
			os.Exit(1)
		}
	}
}
