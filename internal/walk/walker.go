// Package walk discovers the files that make up an Obsidian vault,
// honoring .gitignore-style ignore rules the way a real git-aware tool
// would, rather than the simpler filepath.Match glob matching a plain
// directory scanner gets by with.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Options controls how a vault is walked.
type Options struct {
	// IgnoreFilename is the name of a per-directory ignore file, honored
	// the same way .gitignore is. Defaults to ".export-ignore".
	IgnoreFilename string

	// IgnoreHidden skips dotfiles and dot-directories. Defaults to true.
	IgnoreHidden bool

	// HonorGitignore additionally applies the vault's own .gitignore
	// files. Defaults to true.
	HonorGitignore bool

	// FilterFn, if set, is an additional predicate a vault-relative path
	// must satisfy to be included.
	FilterFn func(relPath string) bool
}

// DefaultOptions returns the walker's defaults, matching the original
// tool's WalkOptions::default().
func DefaultOptions() Options {
	return Options{
		IgnoreFilename: ".export-ignore",
		IgnoreHidden:   true,
		HonorGitignore: true,
	}
}

// File describes one discovered vault file.
type File struct {
	// Path is vault-root-relative, using '/' separators.
	Path string
	// AbsPath is the absolute filesystem path.
	AbsPath string
	// Info is the file's metadata.
	Info fs.FileInfo
}

// dirIgnores is the set of compiled ignore matchers active for a
// directory: its own plus everything inherited from ancestors, checked
// from nearest to farthest.
type dirIgnores struct {
	parent    *dirIgnores
	dir       string
	ownRules  *gitignore.GitIgnore
}

func (d *dirIgnores) matches(absPath string) bool {
	for n := d; n != nil; n = n.parent {
		if n.ownRules == nil {
			continue
		}
		rel, err := filepath.Rel(n.dir, absPath)
		if err != nil {
			continue
		}
		if n.ownRules.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// VaultContents walks root and returns every non-ignored, non-hidden
// (unless IgnoreHidden is false) regular file beneath it, in lexical
// order per directory.
func VaultContents(root string, opts Options) ([]File, error) {
	rootIgnores := &dirIgnores{dir: root, ownRules: loadIgnoreRules(root, opts)}
	byDir := map[string]*dirIgnores{root: rootIgnores}

	var files []File
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if opts.IgnoreHidden && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		parentDir := filepath.Dir(path)
		parentIgnores := byDir[parentDir]
		if parentIgnores == nil {
			parentIgnores = rootIgnores
		}

		if parentIgnores.matches(path) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			byDir[path] = &dirIgnores{parent: parentIgnores, dir: path, ownRules: loadIgnoreRules(path, opts)}
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if opts.FilterFn != nil && !opts.FilterFn(relPath) {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}
		files = append(files, File{Path: relPath, AbsPath: path, Info: info})
		return nil
	})

	return files, err
}

// loadIgnoreRules compiles the ignore rules local to dir: its
// .gitignore (when HonorGitignore) and the configured custom ignore
// filename, as one combined matcher.
func loadIgnoreRules(dir string, opts Options) *gitignore.GitIgnore {
	var lines []string
	if opts.HonorGitignore {
		if data, err := os.ReadFile(filepath.Join(dir, ".gitignore")); err == nil {
			lines = append(lines, strings.Split(string(data), "\n")...)
		}
	}
	if opts.IgnoreFilename != "" {
		if data, err := os.ReadFile(filepath.Join(dir, opts.IgnoreFilename)); err == nil {
			lines = append(lines, strings.Split(string(data), "\n")...)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return gitignore.CompileIgnoreLines(lines...)
}
