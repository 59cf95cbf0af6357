package main

import (
	"os"

	"github.com/ramanasai/tally/cmd"
	"github.com/ramanasai/tally/internal/version"
)

// Build metadata, set with -ldflags "-X main.buildVersion=..."
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func init() {
	version.Version = buildVersion
	version.Commit = buildCommit
	version.Date = buildDate
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
