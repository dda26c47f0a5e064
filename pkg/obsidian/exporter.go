package obsidian

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adamancini/obsidian-export/internal/cache"
	"github.com/adamancini/obsidian-export/internal/parallel"
	"github.com/adamancini/obsidian-export/internal/walk"
)

// ExportOptions configures a single Exporter run. It is the Go-native
// equivalent of the original tool's ExportContext/Exporter builder fields,
// collected into one struct rather than a chain of setter methods, since
// nearly every field is required up front by the walker and the cache.
type ExportOptions struct {
	// Root is the vault root directory.
	Root string
	// Destination is where exported files are written. For single-file
	// export (StartAt names a regular file) Destination is the output file
	// path, or, if it is an existing directory, the directory the file is
	// written into under its own base name; otherwise it is a directory
	// mirroring the vault tree beneath StartAt.
	Destination string
	// StartAt restricts the export to a sub-tree (or a single file) of
	// the vault, while references are still resolved against the full
	// vault index. Defaults to Root.
	StartAt string

	Frontmatter FrontmatterStrategy
	Recursive   bool

	WalkOptions walk.Options

	// LinkedAttachmentsOnly restricts attachment (non-Markdown) export to
	// files actually referenced or embedded from an exported note.
	LinkedAttachmentsOnly bool

	// PreserveMtime copies each source file's modification time onto the
	// exported file instead of leaving it at the time of writing.
	PreserveMtime bool

	Concurrency int

	// CachePath, if non-empty, enables the incremental export cache at
	// this path.
	CachePath string

	// Postprocessors and EmbedPostprocessors are run for top-level notes
	// and embedded notes respectively; see ReferenceResolver.
	Postprocessors      []Postprocessor
	EmbedPostprocessors []Postprocessor

	// Progress, if set, is called after each note completes (whether it
	// succeeded, failed, or was skipped).
	Progress func(completed, total int)
}

// Exporter runs a full vault export: discovering files, building the vault
// index, processing every markdown note in parallel, and then copying
// non-Markdown files (all of them, or with LinkedAttachmentsOnly only the
// linked ones) one after another.
type Exporter struct {
	opts ExportOptions
}

// NewExporter constructs an Exporter for opts, filling in defaults.
func NewExporter(opts ExportOptions) *Exporter {
	if opts.StartAt == "" {
		opts.StartAt = opts.Root
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.WalkOptions.IgnoreFilename == "" {
		opts.WalkOptions = walk.DefaultOptions()
	}
	return &Exporter{opts: opts}
}

// Run performs the export and returns every per-file error encountered,
// each wrapped in a *FileExportError. An empty slice means every file
// exported (or was skipped by a postprocessor) cleanly.
func (e *Exporter) Run(ctx context.Context) ([]error, error) {
	info, err := os.Stat(e.opts.StartAt)
	if err != nil {
		return nil, &PathDoesNotExistError{Path: e.opts.StartAt}
	}

	if destInfo, destErr := os.Stat(e.opts.Destination); destErr != nil {
		// destination itself need not exist only in the single-file-to-file
		// case (StartAt is a regular file and Destination is not an
		// existing directory); its parent must exist regardless.
		singleFileToFile := !info.IsDir()
		if !singleFileToFile {
			return nil, &PathDoesNotExistError{Path: e.opts.Destination}
		}
		if _, parentErr := os.Stat(filepath.Dir(e.opts.Destination)); parentErr != nil {
			return nil, &PathDoesNotExistError{Path: filepath.Dir(e.opts.Destination)}
		}
	} else if !destInfo.IsDir() && info.IsDir() {
		return nil, &PathDoesNotExistError{Path: e.opts.Destination}
	}

	indexFiles, err := walk.VaultContents(e.opts.Root, e.opts.WalkOptions)
	if err != nil {
		return nil, &WalkDirError{Path: e.opts.Root, Err: err}
	}
	var vaultPaths []string
	for _, f := range indexFiles {
		vaultPaths = append(vaultPaths, f.Path)
	}
	index := NewVaultIndex(vaultPaths)

	var c *cache.Cache
	if e.opts.CachePath != "" {
		c, err = cache.Open(e.opts.CachePath)
		if err != nil {
			return nil, err
		}
		defer c.Close()
	}

	linkedAttachments := map[string]bool(nil)
	if e.opts.LinkedAttachmentsOnly {
		linkedAttachments = map[string]bool{}
	}

	resolver := &ReferenceResolver{
		Index:               index,
		VaultRoot:           e.opts.Root,
		ReadFile:            DefaultReadFile,
		Recursive:           e.opts.Recursive,
		Postprocessors:      e.opts.Postprocessors,
		EmbedPostprocessors: e.opts.EmbedPostprocessors,
		LinkedAttachments:   linkedAttachments,
	}

	if !info.IsDir() {
		dest := e.opts.Destination
		if destInfo, statErr := os.Stat(dest); statErr == nil && destInfo.IsDir() {
			dest = filepath.Join(dest, filepath.Base(e.opts.StartAt))
		}
		var err error
		if strings.ToLower(filepath.Ext(e.opts.StartAt)) == ".md" {
			err = e.exportOne(ctx, resolver, c, e.opts.StartAt, dest)
		} else {
			err = e.copyFile(e.opts.StartAt, dest)
		}
		if err != nil {
			return []error{&FileExportError{Path: e.opts.StartAt, Err: err}}, nil
		}
		return nil, nil
	}

	var toExport []walk.File
	for _, f := range indexFiles {
		if !underRoot(e.opts.StartAt, f.AbsPath) {
			continue
		}
		if strings.ToLower(filepath.Ext(f.Path)) != ".md" {
			continue
		}
		toExport = append(toExport, f)
	}

	pool := parallel.NewPool(e.opts.Concurrency)
	tasks, _ := parallel.ProcessWithProgress(ctx, pool, toExport, func(ctx context.Context, f walk.File) error {
		rel, relErr := filepath.Rel(e.opts.StartAt, f.AbsPath)
		if relErr != nil {
			return relErr
		}
		dest := filepath.Join(e.opts.Destination, rel)
		return e.exportOne(ctx, resolver, c, f.AbsPath, dest)
	}, e.opts.Progress)

	var failures []error
	for _, t := range tasks {
		if t.Err != nil {
			failures = append(failures, &FileExportError{Path: t.Input.AbsPath, Err: t.Err})
		}
	}

	if e.opts.LinkedAttachmentsOnly {
		if err := e.copyLinkedAttachments(indexFiles, linkedAttachments); err != nil {
			failures = append(failures, err)
		}
	} else if err := e.copyNonMarkdownFiles(indexFiles); err != nil {
		failures = append(failures, err)
	}

	return failures, nil
}

// exportOne runs the note pipeline for a single source file and writes the
// result to dest, honoring the export cache if enabled.
func (e *Exporter) exportOne(ctx context.Context, r *ReferenceResolver, c *cache.Cache, src, dest string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return &ReadError{Path: src, Err: err}
	}

	hash := ""
	if c != nil {
		hash = cache.HashContent(raw)
		fresh, err := c.Fresh(ctx, src, hash, dest)
		if err != nil {
			return err
		}
		if fresh {
			return nil
		}
	}

	noteCtx := NewContext(src, dest)
	rendered, err := ProcessNote(r, noteCtx, raw, e.opts.Frontmatter)
	if err == ErrNoteSkipped {
		return nil
	}
	if err != nil {
		return err
	}

	// A postprocessor may have rewritten ctx.Destination (spec §4.8); a
	// relative replacement is resolved against the destination root the
	// same way the original mirror-tree path was, an absolute one is used
	// as-is.
	finalDest := noteCtx.Destination
	if finalDest != dest && !filepath.IsAbs(finalDest) {
		finalDest = filepath.Join(e.opts.Destination, finalDest)
	}

	if err := os.MkdirAll(filepath.Dir(finalDest), 0o755); err != nil {
		return &WriteError{Path: finalDest, Err: err}
	}
	if err := os.WriteFile(finalDest, []byte(rendered), 0o644); err != nil {
		return &WriteError{Path: finalDest, Err: err}
	}
	if e.opts.PreserveMtime {
		if info, statErr := os.Stat(src); statErr == nil {
			_ = os.Chtimes(finalDest, time.Now(), info.ModTime())
		}
	}

	if c != nil {
		if err := c.Record(ctx, src, hash, finalDest); err != nil {
			return err
		}
	}

	return nil
}

// copyLinkedAttachments copies every non-Markdown vault file that ended up
// referenced or embedded during the run (and none that didn't) to the
// destination tree, mirroring its vault-relative path.
func (e *Exporter) copyLinkedAttachments(indexFiles []walk.File, linked map[string]bool) error {
	for _, f := range indexFiles {
		if !linked[f.Path] {
			continue
		}
		dest := filepath.Join(e.opts.Destination, f.Path)
		if err := e.copyFile(f.AbsPath, dest); err != nil {
			return err
		}
	}
	return nil
}

// copyNonMarkdownFiles byte-copies every non-Markdown file under StartAt to
// its mirrored destination path, the default (unconditional) behavior when
// LinkedAttachmentsOnly is not set.
func (e *Exporter) copyNonMarkdownFiles(indexFiles []walk.File) error {
	for _, f := range indexFiles {
		if !underRoot(e.opts.StartAt, f.AbsPath) {
			continue
		}
		if strings.ToLower(filepath.Ext(f.Path)) == ".md" {
			continue
		}
		rel, err := filepath.Rel(e.opts.StartAt, f.AbsPath)
		if err != nil {
			return err
		}
		dest := filepath.Join(e.opts.Destination, rel)
		if err := e.copyFile(f.AbsPath, dest); err != nil {
			return err
		}
	}
	return nil
}

// copyFile byte-copies src to dest, creating parent directories as needed
// and preserving src's modification time when PreserveMtime is set.
func (e *Exporter) copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return &ReadError{Path: src, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &WriteError{Path: dest, Err: err}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return &WriteError{Path: dest, Err: err}
	}
	if e.opts.PreserveMtime {
		if info, statErr := os.Stat(src); statErr == nil {
			_ = os.Chtimes(dest, time.Now(), info.ModTime())
		}
	}
	return nil
}

func underRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}
