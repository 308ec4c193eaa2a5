package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"astbridge/internal/ir"
)

// OutputName maps a dump path to its IR output file name.
func OutputName(dumpPath string, format ir.Format) string {
	base := filepath.Base(dumpPath)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	return base + format.Ext()
}

// WriteOutput encodes the unit's module into dir and returns the file
// written. The write is atomic.
func WriteOutput(dir string, res *UnitResult, format ir.Format) (string, error) {
	if res == nil || res.Result == nil {
		return "", fmt.Errorf("no module to write")
	}
	data, err := ir.Encode(res.Result.Module, format, res.Files)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", res.Path, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, OutputName(res.Path, format))
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return out, nil
}
