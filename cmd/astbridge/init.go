package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"astbridge/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new astbridge project",
	Long: `Initialize a new astbridge project by creating a manifest (astbridge.toml)
and an empty dumps directory. If [path|name] is omitted, initializes the
current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit writes astbridge.toml into the target directory, creating the
// directory when needed. An existing manifest is left untouched and
// reported as an error.
func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "astbridge-project"
	}

	if _, err := project.WriteDefault(target, name); err != nil {
		return err
	}

	dumps := filepath.Join(target, "dumps")
	createdDumps := false
	if _, err := os.Stat(dumps); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dumps, 0o755); err != nil {
			return fmt.Errorf("failed to create dumps directory: %w", err)
		}
		createdDumps = true
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized astbridge project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdDumps {
		fmt.Fprintln(out, "  - dumps/")
	} else {
		fmt.Fprintln(out, "  - dumps/ (existing)")
	}
	return nil
}
