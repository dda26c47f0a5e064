// Package main provides the entry point for the obsidian-export CLI tool.
//
// obsidian-export mirrors an Obsidian vault into a tree of plain,
// standards-conforming Markdown files, resolving wiki-links and inlining
// note/image embeds along the way.
package main

import (
	"os"

	"github.com/adamancini/obsidian-export/internal/cli"
)

// Version information set by build flags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
