package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/timewinder-dev/labrun/lab"
)

// addConfigFlags registers the flags that override lab.Config. Only flags
// the user sets take part in config layering.
func addConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "TOML config file")
	fs.Int("timeout-ms", 0, "Backend timeout in milliseconds (0 for the backend default)")
	fs.Int("memory-limit-mb", 0, "Backend memory limit in MiB (0 for no limit)")
	fs.Bool("plot-output", true, "Produce plot datasets")
	fs.Bool("native", false, "Try the native runtime first")
	fs.Bool("docker", false, "Try the remote Docker service")
	fs.String("api-key", "", "API key for the remote service")
	fs.String("remote-endpoint", "", "Base URL of the remote service")
	fs.Bool("strict", false, "Fail on evaluation errors instead of substituting 0")
	fs.Uint64("seed", 0, "Seed for random signal generation")
	fs.Bool("deterministic", false, "Derive the random seed from the program text")
}

func loadConfig(cmd *cobra.Command) (*lab.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := lab.LoadConfig(path, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// readProgram reads a program file, or stdin for "-".
func readProgram(path string) (string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
