package obsidian

import "os"

// ErrNoteSkipped is returned by ProcessNote when a postprocessor (most
// commonly FilterByTags) requested the note not be exported at all.
var ErrNoteSkipped = &skippedError{}

type skippedError struct{}

func (*skippedError) Error() string { return "note skipped by postprocessor" }

// ProcessNote runs the full pipeline for a single top-level (root) note:
// split frontmatter, parse the body to events, scan for Obsidian
// references, expand them (resolving links, inlining embeds), run the
// main postprocessor chain, and render back to Markdown text. ctx.Destination
// must already be set by the caller; ctx.Frontmatter is populated from the
// note's own frontmatter block before postprocessors run, and may be
// further mutated by them.
func ProcessNote(r *ReferenceResolver, ctx *Context, raw []byte, strategy FrontmatterStrategy) (string, error) {
	yamlSrc, body, hasFrontmatter := SplitFrontmatter(string(raw))

	fm := NewFrontmatter()
	if hasFrontmatter {
		var err error
		fm, err = DecodeFrontmatter(yamlSrc)
		if err != nil {
			return "", &FrontMatterDecodeError{Path: ctx.CurrentFile(), Err: err}
		}
	}
	ctx.Frontmatter = fm

	events := ParseToEvents([]byte(body))
	events = ScanReferences(events)

	events, err := r.ExpandReferences(ctx, events)
	if err != nil {
		return "", err
	}

	events, result := RunChain(r.Postprocessors, ctx, events)
	if result == StopAndSkipNote {
		return "", ErrNoteSkipped
	}

	rendered := RenderEventsToMarkdown(events)

	writeFrontmatter := false
	switch strategy {
	case FrontmatterAlways:
		writeFrontmatter = true
	case FrontmatterNever:
		writeFrontmatter = false
	default: // FrontmatterAuto
		writeFrontmatter = ctx.Frontmatter.Len() > 0
	}

	if !writeFrontmatter {
		return rendered, nil
	}

	fmBlock, err := EncodeFrontmatter(ctx.Frontmatter)
	if err != nil {
		return "", &FrontMatterEncodeError{Path: ctx.CurrentFile(), Err: err}
	}
	return fmBlock + rendered, nil
}

// DefaultReadFile reads a note's raw bytes from disk, the ReferenceResolver's
// default ReadFile implementation.
func DefaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
