// Package version provides information about the build version of the tool.
package version

import (
	"fmt"
	"runtime"
)

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'plannedobs/internal/core/version.version=v0.1.0'
	// -X 'plannedobs/internal/core/version.commit=abcd' -X 'plannedobs/internal/core/version.date=2026-10-19'"
	return BuildInfo{
		Name:    "plannedobs",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// UserAgent is the version-bearing agent string sent to the archive
func UserAgent() string {
	bi := Info()
	return fmt.Sprintf("%s/%s (%s)", bi.Name, bi.Version, runtime.Version())
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
