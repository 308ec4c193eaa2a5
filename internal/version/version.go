package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Build information for the astbridge CLI, overridable via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Semver parses Version.
func Semver() (*semver.Version, error) {
	return semver.NewVersion(Version)
}

// Colored renders Version with its major, minor and patch components
// colored. Versions that do not parse are returned unchanged.
func Colored() string {
	v, err := Semver()
	if err != nil {
		return Version
	}
	var b strings.Builder
	b.WriteString(majorColor.Sprint(v.Major()))
	b.WriteByte('.')
	b.WriteString(minorColor.Sprint(v.Minor()))
	b.WriteByte('.')
	b.WriteString(patchColor.Sprint(v.Patch()))
	if pre := v.Prerelease(); pre != "" {
		b.WriteString("-" + pre)
	}
	if meta := v.Metadata(); meta != "" {
		b.WriteString("+" + meta)
	}
	return b.String()
}
