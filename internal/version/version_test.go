package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefaultParses(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
	v, err := Semver()
	if err != nil {
		t.Fatalf("default version %q does not parse: %v", Version, err)
	}
	if v.Prerelease() != "dev" {
		t.Fatalf("prerelease = %q, want dev", v.Prerelease())
	}
}

func TestColoredKeepsText(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	cases := map[string]string{
		"1.2.3":                "1.2.3",
		"1.0.0-beta.1":         "1.0.0-beta.1",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"not a version":        "not a version",
	}
	for in, want := range cases {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColoredUsesEscapes(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = false

	Version = "2.4.6"
	if got := Colored(); got == "2.4.6" {
		t.Fatalf("expected colored output, got %q", got)
	}
}
