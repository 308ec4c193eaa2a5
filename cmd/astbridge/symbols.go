package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"astbridge/internal/xref"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols DB",
	Short: "List symbols and instantiations recorded in a cross-reference index",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().String("run", "", "run id (default: latest run)")
	symbolsCmd.Flags().String("unit", "", "only the unit whose path ends with this suffix")
	symbolsCmd.Flags().String("name", "", "only symbols with this name")
	symbolsCmd.Flags().Bool("instantiations", false, "list template instantiations instead of symbols")
	symbolsCmd.Flags().String("format", "text", "output format (text|json|yaml)")
}

type symbolOut struct {
	ID        uint32 `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Qualified string `json:"qualified" yaml:"qualified"`
	Kind      string `json:"kind" yaml:"kind"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Flags     string `json:"flags,omitempty" yaml:"flags,omitempty"`
	Line      uint32 `json:"line,omitempty" yaml:"line,omitempty"`
	Col       uint32 `json:"col,omitempty" yaml:"col,omitempty"`
}

type instantiationOut struct {
	Mangled  string `json:"mangled" yaml:"mangled"`
	Display  string `json:"display" yaml:"display"`
	Template string `json:"template" yaml:"template"`
	Args     int    `json:"args" yaml:"args"`
}

type unitOut struct {
	Path           string             `json:"path" yaml:"path"`
	Module         string             `json:"module" yaml:"module"`
	Degraded       bool               `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Symbols        []symbolOut        `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Instantiations []instantiationOut `json:"instantiations,omitempty" yaml:"instantiations,omitempty"`
}

type symbolsReport struct {
	Run   string    `json:"run" yaml:"run"`
	Units []unitOut `json:"units" yaml:"units"`
}

func runSymbols(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	runID, _ := flags.GetString("run")
	unitSuffix, _ := flags.GetString("unit")
	name, _ := flags.GetString("name")
	insts, _ := flags.GetBool("instantiations")
	format, _ := flags.GetString("format")
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (must be text, json or yaml)", format)
	}
	if insts && name != "" {
		return fmt.Errorf("--name filters symbols and cannot be combined with --instantiations")
	}

	// Open creates missing databases; a typo should not leave an empty index behind.
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	store, err := xref.Open(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if runID == "" {
		runID, err = store.LatestRun(ctx)
		if err != nil {
			return err
		}
		if runID == "" {
			return fmt.Errorf("%s: index holds no runs", args[0])
		}
	}

	units, err := store.Units(ctx, runID)
	if err != nil {
		return err
	}
	var found map[string][]xref.SymbolRow
	if name != "" {
		found, err = store.FindSymbols(ctx, runID, name)
		if err != nil {
			return err
		}
	}

	report := symbolsReport{Run: runID, Units: []unitOut{}}
	for _, u := range units {
		if unitSuffix != "" && !strings.HasSuffix(u.Path, unitSuffix) {
			continue
		}
		out := unitOut{Path: u.Path, Module: u.Module, Degraded: u.Degraded}
		switch {
		case insts:
			rows, err := store.Instantiations(ctx, u.ID)
			if err != nil {
				return err
			}
			for _, r := range rows {
				out.Instantiations = append(out.Instantiations, instantiationOut(r))
			}
		case name != "":
			rows := found[u.Path]
			if len(rows) == 0 {
				continue
			}
			for _, r := range rows {
				out.Symbols = append(out.Symbols, symbolOut(r))
			}
		default:
			rows, err := store.Symbols(ctx, u.ID)
			if err != nil {
				return err
			}
			for _, r := range rows {
				out.Symbols = append(out.Symbols, symbolOut(r))
			}
		}
		report.Units = append(report.Units, out)
	}
	if unitSuffix != "" && len(report.Units) == 0 && name == "" {
		return fmt.Errorf("no unit matching %q in run %s", unitSuffix, runID)
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	return renderSymbolsText(w, report, insts)
}

func renderSymbolsText(w io.Writer, report symbolsReport, insts bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s\n", report.Run)
	for _, u := range report.Units {
		suffix := ""
		if u.Degraded {
			suffix = " (degraded)"
		}
		fmt.Fprintf(tw, "\n%s [%s]%s\n", u.Path, u.Module, suffix)
		if insts {
			fmt.Fprintln(tw, "  MANGLED\tDISPLAY\tTEMPLATE\tARGS")
			for _, r := range u.Instantiations {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n", r.Mangled, r.Display, r.Template, r.Args)
			}
			continue
		}
		fmt.Fprintln(tw, "  ID\tKIND\tNAME\tTYPE\tFLAGS\tPOS")
		for _, r := range u.Symbols {
			pos := "-"
			if r.Line > 0 {
				pos = fmt.Sprintf("%d:%d", r.Line, r.Col)
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Kind, r.Qualified, r.Type, r.Flags, pos)
		}
	}
	return tw.Flush()
}
