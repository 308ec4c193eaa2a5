package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"astbridge/internal/foreign"
	"astbridge/internal/version"
)

// versionReport is what `astbridge version` prints. Build metadata fields
// stay empty unless requested.
type versionReport struct {
	Tool             string `json:"tool"`
	Version          string `json:"version"`
	DumpSchema       string `json:"dump_schema"`
	SchemaConstraint string `json:"schema_constraint"`
	GitCommit        string `json:"git_commit,omitempty"`
	GitMessage       string `json:"git_message,omitempty"`
	BuildDate        string `json:"build_date,omitempty"`
}

type buildFields struct {
	hash, message, date bool
}

var (
	versionFormat string
	versionFields buildFields
	versionFull   bool
)

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionFields.hash, "hash", false, "include git commit hash")
	f.BoolVar(&versionFields.message, "message", false, "include git commit message")
	f.BoolVar(&versionFields.date, "date", false, "include build timestamp")
	f.BoolVar(&versionFull, "full", false, "show all recorded build metadata")
	f.StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show astbridge version and supported dump schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := versionFields
		if versionFull {
			fields = buildFields{hash: true, message: true, date: true}
		}
		report := newVersionReport(fields)
		switch strings.ToLower(versionFormat) {
		case "pretty":
			writeVersionPretty(cmd.OutOrStdout(), report)
			return nil
		case "json":
			return writeVersionJSON(cmd.OutOrStdout(), report)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}

func newVersionReport(fields buildFields) versionReport {
	r := versionReport{
		Tool:             "astbridge",
		Version:          orDefault(version.Version, "dev"),
		DumpSchema:       foreign.SchemaVersion,
		SchemaConstraint: foreign.SchemaConstraint,
	}
	if fields.hash {
		r.GitCommit = orDefault(version.GitCommit, "unknown")
	}
	if fields.message {
		r.GitMessage = orDefault(version.GitMessage, "unknown")
	}
	if fields.date {
		r.BuildDate = orDefault(version.BuildDate, "unknown")
	}
	return r
}

// orDefault returns the trimmed value or fallback when it is blank.
func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func writeVersionPretty(out io.Writer, r versionReport) {
	v := r.Version
	if v == version.Version {
		v = version.Colored()
	}
	fmt.Fprintf(out, "%s %s\n", r.Tool, v)
	fmt.Fprintf(out, "dump schema: %s (reads %s)\n", r.DumpSchema, r.SchemaConstraint)
	for _, row := range []struct{ label, value string }{
		{"commit: ", r.GitCommit},
		{"message:", r.GitMessage},
		{"built:  ", r.BuildDate},
	} {
		if row.value != "" {
			fmt.Fprintf(out, "%s %s\n", row.label, row.value)
		}
	}
}

func writeVersionJSON(out io.Writer, r versionReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
