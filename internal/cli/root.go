// Package cli implements the Cobra-based command-line interface for
// obsidian-export.
//
// The CLI exports notes from an Obsidian vault to a standards-conforming
// Markdown mirror tree: wiki-links become relative Markdown links, embeds
// are inlined or linked, and frontmatter is preserved.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamancini/obsidian-export/internal/config"
)

var (
	// Version information set at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags.
	cfgFile string
	verbose bool
)

// SetVersion sets the version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(fmt.Sprintf("obsidian-export %s (commit: %s, built: %s)\n", version, commit, date))
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "obsidian-export",
	Short: "Export an Obsidian vault to a standards-conforming Markdown tree",
	Long: `obsidian-export mirrors an Obsidian vault into a tree of plain
Markdown files, suitable for publishing or feeding to any CommonMark
renderer.

It preserves semantic meaning of Obsidian-specific features:
  - Wiki-links ([[Note]]) become relative Markdown links
  - Note embeds (![[Note]]) are recursively inlined
  - Image embeds become Markdown images
  - Frontmatter is preserved

Use 'obsidian-export export' to run an export.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (when unset, no config file is read and built-in defaults plus flags are used)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("obsidian-export %s (commit: %s, built: %s)\n", version, commit, date))

	rootCmd.AddCommand(exportCmd)
}

// loadConfigWithOverrides loads the config file (if any) and applies any
// flags the user passed on the export command over top of it.
func loadConfigWithOverrides() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	applyExportFlags(cfg)

	if cfg.Vault == "" {
		return nil, fmt.Errorf("a vault path is required: pass --vault or set it in --config")
	}
	if _, err := os.Stat(cfg.Vault); os.IsNotExist(err) {
		return nil, &os.PathError{Op: "stat", Path: cfg.Vault, Err: os.ErrNotExist}
	}
	if cfg.Destination == "" {
		return nil, fmt.Errorf("a destination path is required: pass --destination or set it in --config")
	}

	return cfg, nil
}
