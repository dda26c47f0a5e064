package obsidian

import "fmt"

// PathDoesNotExistError reports that a configured root or start-at path is missing.
type PathDoesNotExistError struct {
	Path string
}

func (e *PathDoesNotExistError) Error() string {
	return fmt.Sprintf("path does not exist: %s", e.Path)
}

// ReadError wraps an underlying I/O failure reading a source file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps an underlying I/O failure writing an exported file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WalkDirError wraps a failure enumerating the vault's directory tree.
type WalkDirError struct {
	Path string
	Err  error
}

func (e *WalkDirError) Error() string {
	return fmt.Sprintf("failed to walk %s: %v", e.Path, e.Err)
}

func (e *WalkDirError) Unwrap() error { return e.Err }

// CharacterEncodingError reports a source file that is not valid UTF-8.
type CharacterEncodingError struct {
	Path string
}

func (e *CharacterEncodingError) Error() string {
	return fmt.Sprintf("file is not valid UTF-8: %s", e.Path)
}

// RecursionLimitExceededError reports an embed chain deeper than RecursionLimit.
// FileTree carries the full chain of files that led to the overflow, in the
// order they were entered, so a caller can print the nesting chain.
type RecursionLimitExceededError struct {
	FileTree []string
}

func (e *RecursionLimitExceededError) Error() string {
	return fmt.Sprintf("recursion limit exceeded, chain: %v", e.FileTree)
}

// FrontMatterDecodeError wraps a failure parsing a note's YAML frontmatter block.
type FrontMatterDecodeError struct {
	Path string
	Err  error
}

func (e *FrontMatterDecodeError) Error() string {
	return fmt.Sprintf("failed to decode frontmatter in %s: %v", e.Path, e.Err)
}

func (e *FrontMatterDecodeError) Unwrap() error { return e.Err }

// FrontMatterEncodeError wraps a failure serializing frontmatter back to YAML.
type FrontMatterEncodeError struct {
	Path string
	Err  error
}

func (e *FrontMatterEncodeError) Error() string {
	return fmt.Sprintf("failed to encode frontmatter for %s: %v", e.Path, e.Err)
}

func (e *FrontMatterEncodeError) Unwrap() error { return e.Err }

// FileExportError wraps any error encountered while exporting a specific file,
// attributing it to the file that failed. Every error that crosses a note
// boundary during a tree export is wrapped in one of these.
type FileExportError struct {
	Path string
	Err  error
}

func (e *FileExportError) Error() string {
	return fmt.Sprintf("failed to export %s: %v", e.Path, e.Err)
}

func (e *FileExportError) Unwrap() error { return e.Err }
