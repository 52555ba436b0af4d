package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/labrun/demo"
	"github.com/timewinder-dev/labrun/interp"
)

var demoCmd = &cobra.Command{
	Use:   "demo PROGRAM",
	Short: "Interpret a lab program, falling back to its fixed demonstration",
	Args:  cobra.ExactArgs(1),
	Run:   demoCommand,
}

func init() {
	addConfigFlags(demoCmd.Flags())
	addFormatFlag(demoCmd.Flags())
	demoCmd.Flags().String("dump-store", "", "Write the final variable store snapshot to this file")
	demoCmd.Flags().Bool("show-store", false, "Print the final variable store on stderr")
	demoCmd.Flags().String("kind", "", "Run a demonstration directly (basic, twotone, trigonometric, reconstruction)")
}

func parseKind(s string) (demo.DemoKind, error) {
	for _, k := range []demo.DemoKind{demo.Basic, demo.TwoTone, demo.Trigonometric, demo.Reconstruction} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return demo.None, fmt.Errorf("unknown demonstration %q", s)
}

func demoCommand(cmd *cobra.Command, args []string) {
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

	if name, _ := cmd.Flags().GetString("kind"); name != "" {
		kind, err := parseKind(name)
		if err != nil {
			log.Fatal().Err(err).Msg("Bad flags")
		}
		if err := writeResult(os.Stdout, format, demo.Demonstrate(kind, program, *cfg)); err != nil {
			log.Fatal().Err(err).Msg("Couldn't write result")
		}
		return
	}

	dumpPath, _ := cmd.Flags().GetString("dump-store")
	showStore, _ := cmd.Flags().GetBool("show-store")
	in := interp.New()
	in.OnFinish = func(status interp.Status, store *interp.Store) {
		if showStore {
			fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Variables (%s):", status))
			fmt.Fprint(os.Stderr, store.PrettyPrint())
		}
		if dumpPath != "" {
			if err := dumpStore(dumpPath, store); err != nil {
				log.Error().Err(err).Str("path", dumpPath).Msg("Couldn't dump store")
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Debug().Str("demo", demo.Classify(program).String()).Msg("Demo: classified program")
	res := (&demo.Runner{Interpreter: in}).Run(ctx, program, *cfg)
	if err := writeResult(os.Stdout, format, res); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write result")
	}
	if !res.Success {
		stop()
		os.Exit(1)
	}
}

func dumpStore(path string, store *interp.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := store.Serialize(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
