package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamancini/obsidian-export/internal/config"
	"github.com/adamancini/obsidian-export/internal/progress"
	"github.com/adamancini/obsidian-export/internal/walk"
	"github.com/adamancini/obsidian-export/pkg/obsidian"
	"github.com/adamancini/obsidian-export/pkg/obsidian/postprocessors"
)

var (
	exportVault             string
	exportDestination       string
	exportStartAt           string
	exportFrontmatter       string
	exportNoRecursiveEmbeds bool
	exportIgnoreFilename    string
	exportNoIgnoreHidden    bool
	exportNoGitignore       bool
	exportPreserveMtime     bool
	exportConcurrency       int
	exportCache             string
	exportTUI               bool
	exportLinkedAttachments bool
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an Obsidian vault to Markdown",
	Long: `Export walks an Obsidian vault and writes a mirror tree of plain
Markdown files, resolving wiki-links and inlining embeds.

Examples:
  obsidian-export export --vault ~/notes --destination ./out
  obsidian-export export --vault ~/notes --destination ./out --start-at work/
  obsidian-export export --vault ~/notes --destination ./out --no-recursive-embeds`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportVault, "vault", "", "path to the Obsidian vault")
	exportCmd.Flags().StringVar(&exportDestination, "destination", "", "path to write exported files to")
	exportCmd.Flags().StringVar(&exportStartAt, "start-at", "", "restrict the export to this sub-tree or file of the vault")
	exportCmd.Flags().StringVar(&exportFrontmatter, "frontmatter", "", "frontmatter strategy: auto, always, or never")
	exportCmd.Flags().BoolVar(&exportNoRecursiveEmbeds, "no-recursive-embeds", false, "link to already-embedded notes instead of inlining them again")
	exportCmd.Flags().StringVar(&exportIgnoreFilename, "ignore-filename", "", "name of the per-directory ignore file (default .export-ignore)")
	exportCmd.Flags().BoolVar(&exportNoIgnoreHidden, "no-ignore-hidden", false, "do not skip dotfiles and dot-directories")
	exportCmd.Flags().BoolVar(&exportNoGitignore, "no-gitignore", false, "do not honor the vault's own .gitignore files")
	exportCmd.Flags().BoolVar(&exportPreserveMtime, "preserve-mtime", false, "copy each source file's modification time onto the exported file")
	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 0, "number of notes to process in parallel")
	exportCmd.Flags().StringVar(&exportCache, "cache", "", "path to an incremental export cache database")
	exportCmd.Flags().BoolVar(&exportTUI, "tui", false, "show a live progress bar")
	exportCmd.Flags().BoolVar(&exportLinkedAttachments, "linked-attachments-only", false, "only export non-Markdown files actually linked or embedded from a note")
}

// applyExportFlags overlays any flags the user actually passed onto cfg.
func applyExportFlags(cfg *config.Config) {
	if exportVault != "" {
		cfg.Vault = exportVault
	}
	if exportDestination != "" {
		cfg.Destination = exportDestination
	}
	if exportStartAt != "" {
		cfg.StartAt = exportStartAt
	}
	if exportFrontmatter != "" {
		cfg.Frontmatter = exportFrontmatter
	}
	if exportNoRecursiveEmbeds {
		cfg.NoRecursiveEmbeds = true
	}
	if exportIgnoreFilename != "" {
		cfg.Walk.IgnoreFilename = exportIgnoreFilename
	}
	if exportNoIgnoreHidden {
		cfg.Walk.NoIgnoreHidden = true
	}
	if exportNoGitignore {
		cfg.Walk.NoGitignore = true
	}
	if exportPreserveMtime {
		cfg.PreserveMtime = true
	}
	if exportConcurrency > 0 {
		cfg.Concurrency = exportConcurrency
	}
	if exportCache != "" {
		cfg.Cache = exportCache
	}
	if exportTUI {
		cfg.TUI = true
	}
	if exportLinkedAttachments {
		cfg.LinkedAttachmentsOnly = true
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigWithOverrides()
	if err != nil {
		return err
	}

	strategy, err := obsidian.ParseFrontmatterStrategy(cfg.Frontmatter)
	if err != nil {
		return err
	}

	walkOpts := walk.DefaultOptions()
	if cfg.Walk.IgnoreFilename != "" {
		walkOpts.IgnoreFilename = cfg.Walk.IgnoreFilename
	}
	walkOpts.IgnoreHidden = !cfg.Walk.NoIgnoreHidden
	walkOpts.HonorGitignore = !cfg.Walk.NoGitignore

	var chain []obsidian.Postprocessor
	chain = append(chain, postprocessors.RemoveObsidianComments)
	if len(cfg.Tags.Skip) > 0 || len(cfg.Tags.Only) > 0 {
		chain = append(chain, postprocessors.FilterByTags(cfg.Tags.Skip, cfg.Tags.Only))
	}

	opts := obsidian.ExportOptions{
		Root:                  cfg.Vault,
		Destination:           cfg.Destination,
		StartAt:               cfg.StartAt,
		Frontmatter:           strategy,
		Recursive:             !cfg.NoRecursiveEmbeds,
		WalkOptions:           walkOpts,
		LinkedAttachmentsOnly: cfg.LinkedAttachmentsOnly,
		PreserveMtime:         cfg.PreserveMtime,
		Concurrency:           cfg.Concurrency,
		CachePath:             cfg.Cache,
		Postprocessors:        chain,
		EmbedPostprocessors:   chain,
	}

	var display *progress.Display
	if cfg.TUI {
		display = progress.NewDisplay(0)
		opts.Progress = display.Update
		go display.Run()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	exporter := obsidian.NewExporter(opts)
	failures, err := exporter.Run(ctx)

	if display != nil {
		display.Close()
	}

	if err != nil {
		return err
	}

	if len(failures) == 0 {
		fmt.Println("Export complete: no errors.")
		return nil
	}

	fmt.Printf("Export completed with %d error(s):\n", len(failures))
	for _, f := range failures {
		fmt.Printf("  ! %v\n", f)
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: %v\n", f)
		}
	}
	return fmt.Errorf("%d file(s) failed to export", len(failures))
}
