// Package version carries the build metadata stamped in by main.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short is the one-word release name, e.g. "v1.2.0" or "dev".
func Short() string {
	return Version
}

// Info is the full line printed by `tally version`.
func Info() string {
	platform := runtime.GOOS + "/" + runtime.GOARCH
	if Version == "dev" {
		return fmt.Sprintf("tally dev (%s)", platform)
	}
	return fmt.Sprintf("tally %s (commit %s, built %s, %s)", Version, Commit, Date, platform)
}
