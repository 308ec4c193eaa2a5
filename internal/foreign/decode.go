package foreign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"astbridge/internal/source"
)

// Format is a unit dump encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".mpk", ".msgpack":
		return FormatMsgpack
	}
	return FormatUnknown
}

// IsDumpPath reports whether path has a dump extension.
func IsDumpPath(path string) bool {
	return FormatOf(path) != FormatUnknown
}

// DecodeDump parses the wire tables without linking them.
func DecodeDump(format Format, data []byte) (*Dump, error) {
	var d Dump
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode json dump: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode yaml dump: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode msgpack dump: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, format)
	}
	return &d, nil
}

// EncodeDump writes d in the given format.
func EncodeDump(format Format, d *Dump) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatMsgpack:
		return msgpack.Marshal(d)
	}
	return nil, fmt.Errorf("%w: %s", ErrFormat, format)
}

// Decode parses and links a dump; name selects the format by extension.
func Decode(name string, data []byte, fs *source.FileSet) (*Unit, error) {
	format := FormatOf(name)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrFormat, name)
	}
	d, err := DecodeDump(format, data)
	if err != nil {
		return nil, err
	}
	return Link(d, fs)
}

// ReadDump loads and parses the wire tables of a dump file.
func ReadDump(path string) (*Dump, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeDump(format, data)
}

// Load reads, decodes and links the dump at path.
func Load(path string, fs *source.FileSet) (*Unit, error) {
	d, err := ReadDump(path)
	if err != nil {
		return nil, err
	}
	return Link(d, fs)
}
