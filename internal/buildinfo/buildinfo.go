// Package buildinfo carries version metadata injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/fintrack/internal/buildinfo.Version=1.2.3 \
//	  -X github.com/dmitrijs2005/fintrack/internal/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/dmitrijs2005/fintrack/internal/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// String formats the build metadata on one line.
func String() string {
	return fmt.Sprintf("version %s, commit %s, built %s", Version, Commit, Date)
}

// PrintBuildData writes the build metadata in the multi-line banner format.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\nBuild date: %s\nBuild commit: %s\n", Version, Date, Commit)
}
