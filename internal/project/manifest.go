package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded astbridge.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of astbridge.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Inputs  InputsConfig  `toml:"inputs"`
	Lower   LowerConfig   `toml:"lower"`
	Output  OutputConfig  `toml:"output"`
	Cache   CacheConfig   `toml:"cache"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
}

// InputsConfig lists unit dumps: files or directories searched recursively.
type InputsConfig struct {
	Dumps   []string `toml:"dumps"`
	Exclude []string `toml:"exclude"`
}

type LowerConfig struct {
	MaxDepth int  `toml:"max_depth"`
	Jobs     int  `toml:"jobs"`
	Werror   bool `toml:"werror"`
}

type OutputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Xref   string `toml:"xref"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// ManifestError reports an invalid manifest.
type ManifestError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return e.Path + ": " + e.Msg
}

func (e *ManifestError) Unwrap() error { return e.Err }

var knownFormats = map[string]bool{"text": true, "json": true, "yaml": true, "msgpack": true}

// DefaultConfig is used for keys the manifest leaves out.
func DefaultConfig() Config {
	return Config{
		Inputs: InputsConfig{Dumps: []string{"."}},
		Output: OutputConfig{Format: "text"},
		Cache:  CacheConfig{Enabled: true, Dir: filepath.Join(".astbridge", "cache")},
	}
}

// Load finds astbridge.toml from startDir upwards and loads it. ok is false
// when there is no manifest.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, &ManifestError{Path: path, Msg: "failed to parse TOML", Err: err}
	}
	if !meta.IsDefined("project") {
		return Config{}, &ManifestError{Path: path, Msg: "missing [project]"}
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, &ManifestError{Path: path, Msg: "missing [project].name"}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ManifestError{Path: path, Msg: fmt.Sprintf("unknown key %s", undecoded[0])}
	}
	if meta.IsDefined("inputs", "dumps") && len(cfg.Inputs.Dumps) == 0 {
		return Config{}, &ManifestError{Path: path, Msg: "[inputs].dumps is empty"}
	}
	if cfg.Lower.MaxDepth < 0 {
		return Config{}, &ManifestError{Path: path, Msg: "[lower].max_depth must not be negative"}
	}
	if cfg.Lower.Jobs < 0 {
		return Config{}, &ManifestError{Path: path, Msg: "[lower].jobs must not be negative"}
	}
	if !knownFormats[cfg.Output.Format] {
		return Config{}, &ManifestError{Path: path, Msg: fmt.Sprintf("unknown [output].format %q", cfg.Output.Format)}
	}
	for _, pattern := range cfg.Inputs.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return Config{}, &ManifestError{Path: path, Msg: fmt.Sprintf("bad [inputs].exclude pattern %q", pattern), Err: err}
		}
	}
	return cfg, nil
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// DumpRoots returns the absolute input paths.
func (m *Manifest) DumpRoots() []string {
	out := make([]string, 0, len(m.Config.Inputs.Dumps))
	for _, d := range m.Config.Inputs.Dumps {
		out = append(out, m.Resolve(d))
	}
	return out
}

// DefaultManifest returns the astbridge.toml written by "astbridge init".
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# astbridge project manifest
[project]
name = %q

[inputs]
# unit dumps (.json, .yaml, .yml, .mpk); directories are searched recursively
dumps = ["dumps"]
exclude = []

[lower]
max_depth = 2048
jobs = 0
werror = false

[output]
dir = "out"
format = "text"
xref = "astbridge.db"

[cache]
enabled = true
dir = ".astbridge/cache"
`, name)
}

// WriteDefault creates astbridge.toml in dir. An existing manifest is an error.
func WriteDefault(dir, name string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project already initialized: %s exists", path)
	}
	if err := os.WriteFile(path, []byte(DefaultManifest(name)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
