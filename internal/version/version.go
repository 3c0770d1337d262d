// Package version holds build metadata of the textconf binary.
// The variables can be overridden at build time via -ldflags "-X".
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

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

// Tagline is printed next to the version.
const Tagline = "placeholders in, records out"

// Info is a trimmed snapshot of the build variables.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

// Get returns the current build info; an empty version reads as "dev".
func Get() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:    v,
		GitCommit:  strings.TrimSpace(GitCommit),
		GitMessage: strings.TrimSpace(GitMessage),
		BuildDate:  strings.TrimSpace(BuildDate),
	}
}

// Details selects the optional fields to print.
type Details struct {
	Hash    bool
	Message bool
	Date    bool
}

// Any reports whether at least one optional field is requested.
func (d Details) Any() bool { return d.Hash || d.Message || d.Date }

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colorize paints the major, minor and patch parts of a semver string.
// Anything that is not "X.Y.Z[-suffix]" is returned unchanged.
func Colorize(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// WritePretty prints the human-readable banner. Colors follow color.NoColor.
func WritePretty(w io.Writer, tool string, info Info, d Details) {
	fmt.Fprintf(w, "%s %s: %s\n", tool, Colorize(info.Version), Tagline)
	if d.Hash {
		fmt.Fprintf(w, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	}
	if d.Message {
		fmt.Fprintf(w, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if d.Date {
		fmt.Fprintf(w, "built:   %s\n", valueOrUnknown(info.BuildDate))
	}
	if !d.Any() {
		fmt.Fprintln(w, "set --hash, --message, --date, or --full for more build trivia")
	}
}

type payload struct {
	Tool    string `json:"tool"`
	Tagline string `json:"tagline"`
	Info
}

// WriteJSON prints the banner as an indented JSON object.
func WriteJSON(w io.Writer, tool string, info Info, d Details) error {
	p := payload{Tool: tool, Tagline: Tagline, Info: Info{Version: info.Version}}
	if d.Hash {
		p.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if d.Message {
		p.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if d.Date {
		p.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
