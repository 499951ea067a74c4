// Package settings provides build metadata, per-run configuration and
// context helpers shared by the kvtree CLI and its packages.
package settings

import (
	"fmt"
	"strings"
)

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "kvtree"

// DefaultTheme is the theme used when neither config nor flags pick one.
const DefaultTheme = "light"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// OutputFormat selects how a rendered tree is written.
type OutputFormat string

const (
	// OutputAuto writes colored text to a terminal and plain text
	// otherwise.
	OutputAuto OutputFormat = "auto"
	OutputANSI OutputFormat = "ansi"
	OutputText OutputFormat = "text"
	OutputHTML OutputFormat = "html"
	OutputTree OutputFormat = "tree"
)

// OutputFormats lists the accepted formats in help order.
var OutputFormats = []OutputFormat{OutputAuto, OutputANSI, OutputText, OutputHTML, OutputTree}

// ParseOutputFormat validates s case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return OutputAuto, nil
	}
	for _, known := range OutputFormats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(OutputFormats))
	for i, known := range OutputFormats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(names, ", "))
}

// InputSource describes where the document was read from.
type InputSource struct {
	Path      string
	FromStdin bool
}

// Name is the user-facing label of the source.
func (s InputSource) Name() string {
	if s.FromStdin || s.Path == "" || s.Path == "-" {
		return "stdin"
	}
	return s.Path
}

// Run holds configuration settings for a single execution.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Input       InputSource
	Output      OutputFormat
	Interactive bool
	NoColor     bool
	Theme       string
	ConfigFile  string
	Width       int
	Height      int
}

// NewCliParams returns the defaults used by the CLI before flags apply.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Output:      OutputAuto,
		Theme:       DefaultTheme,
	}
}
