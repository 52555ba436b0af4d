package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/labrun/model"
)

var runCmd = &cobra.Command{
	Use:   "run PROGRAM",
	Short: "Execute a program through the backend fallback chain",
	Long: "Execute a program on the native runtime or remote service when enabled,\n" +
		"falling back to sanitized local simulation. PROGRAM may be - for stdin.",
	Args: cobra.ExactArgs(1),
	Run:  runCommand,
}

func init() {
	addConfigFlags(runCmd.Flags())
	addFormatFlag(runCmd.Flags())
	runCmd.Flags().Duration("latency", 0, "Emulated backend latency on the local path")
	runCmd.Flags().Bool("progress", false, "Report fallback progress on stderr")
}

func newExecutor(cmd *cobra.Command) *model.Executor {
	e := model.NewExecutor()
	e.Latency, _ = cmd.Flags().GetDuration("latency")
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		e.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}
	return e
}

func runCommand(cmd *cobra.Command, args []string) {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		log.Fatal().Err(err).Msg("Bad flags")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load config")
	}
	program, err := readProgram(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't read program")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if t := cfg.Timeout(); t > 0 {
		var cancel context.CancelFunc
		// Leave the backend its own timeout before giving up on it here.
		ctx, cancel = context.WithTimeout(ctx, 2*t+time.Second)
		defer cancel()
	}

	res := newExecutor(cmd).Execute(ctx, program, *cfg)
	if err := writeResult(os.Stdout, format, res); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write result")
	}
	if !res.Success {
		stop()
		os.Exit(1)
	}
}
