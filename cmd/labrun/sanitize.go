package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/labrun/sanitize"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize PROGRAM",
	Short: "Print a program with dangerous calls neutralized",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		program, err := readProgram(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't read program")
		}
		fmt.Print(sanitize.Sanitize(program))

		report := sanitize.Inspect(program)
		if report.Clean() {
			fmt.Fprintln(os.Stderr, color.Green.Sprint("✓ nothing to neutralize"))
			return
		}
		names := make([]string, 0, len(report.Blocked))
		for name := range report.Blocked {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(os.Stderr, color.Yellow.Sprintf("blocked %s (%d)", name, report.Blocked[name]))
		}
		if report.ShellEscapes > 0 {
			fmt.Fprintln(os.Stderr, color.Yellow.Sprintf("blocked shell escapes (%d)", report.ShellEscapes))
		}
	},
}
