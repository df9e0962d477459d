// Package main is the entry point for the wpsite CLI.
//
// The binary creates and manages local WordPress sites. All commands live
// in the internal/cli package.
//
// Build-time variables (version, commit, date) are injected via ldflags at
// release time. During development they default to "dev", "none" and
// "unknown".
package main

import (
	"github.com/mmr-tortoise/wpsite/internal/cli"
)

// version, commit, and date are set at build time via ldflags. They are
// shown by --version.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
