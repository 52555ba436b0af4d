package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/timewinder-dev/labrun/lab"
	"github.com/timewinder-dev/labrun/model"
	"gopkg.in/yaml.v3"
)

var formats = []string{"text", "json", "yaml"}

func addFormatFlag(fs *pflag.FlagSet) {
	fs.String("format", "text", "Output format (text, json, yaml)")
}

func checkFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q, want one of %v", format, formats)
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}

// writeResult prints one result. Text output is the console transcript
// followed by a dataset summary.
func writeResult(w io.Writer, format string, res lab.Result) error {
	if format != "text" {
		return encode(w, format, res)
	}
	fmt.Fprint(w, model.FormatResult(res))
	if len(res.Dataset) > 0 {
		fmt.Fprintln(w)
		model.WriteDatasetTable(w, res.Dataset)
	}
	return nil
}
