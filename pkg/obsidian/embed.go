package obsidian

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".svg": true, ".webp": true,
}

// ReferenceResolver carries everything the Embed Engine and reference
// rewriting stage need: the vault index to resolve link targets against,
// a way to read a note's raw bytes, and the exporter settings that affect
// how embeds are expanded.
type ReferenceResolver struct {
	Index          *VaultIndex
	VaultRoot      string
	ReadFile       func(path string) ([]byte, error)
	Recursive      bool
	Postprocessors []Postprocessor
	EmbedPostprocessors []Postprocessor

	// LinkedAttachments, when non-nil, is populated with every non-Markdown
	// vault-relative path actually referenced or embedded somewhere, to
	// support the linked-attachments-only export mode.
	LinkedAttachments map[string]bool
}

// ExpandReferences walks events, replacing every EventObsidianReference
// sentinel with the real output events for a resolved link or an inlined
// embed. An unresolved link becomes its display text in emphasis and an
// unresolved embed contributes no events; both write a stderr warning.
func (r *ReferenceResolver) ExpandReferences(ctx *Context, events []Event) ([]Event, error) {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Kind != EventObsidianReference {
			out = append(out, ev)
			continue
		}
		expanded, err := r.expandOne(ctx, ev)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func (r *ReferenceResolver) expandOne(ctx *Context, ev Event) ([]Event, error) {
	ref := ev.Reference

	if ref.File == nil {
		// In-document section link: [[#Heading]] (or a label-only
		// reference with neither file nor section, e.g. [[|foo]]).
		return r.inDocumentLink(ctx, ref), nil
	}

	resolved, ok := r.Index.Resolve(*ref.File)
	if !ok {
		if ev.IsEmbed {
			fmt.Fprintf(os.Stderr, "  Warning: unable to find embedded note %q referenced from %q\n", *ref.File, ctx.CurrentFile())
			return nil, nil
		}
		fmt.Fprintf(os.Stderr, "  Warning: unable to resolve reference to %q from %q\n", *ref.File, ctx.CurrentFile())
		return []Event{
			{Kind: EventStart, Tag: Tag{Kind: TagEmphasis}},
			{Kind: EventText, Text: ref.Display()},
			{Kind: EventEnd, Tag: Tag{Kind: TagEmphasis}},
		}, nil
	}
	absResolved := filepath.Join(r.VaultRoot, resolved)

	if r.LinkedAttachments != nil && strings.ToLower(filepath.Ext(resolved)) != ".md" {
		r.LinkedAttachments[resolved] = true
	}

	if !ev.IsEmbed {
		return r.plainLink(ctx, ref, resolved, absResolved), nil
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".md":
		return r.embedNote(ctx, ref, resolved, absResolved)
	default:
		if imageExtensions[strings.ToLower(filepath.Ext(resolved))] {
			return r.embedImage(ctx, ref, absResolved), nil
		}
		return r.plainLink(ctx, ref, resolved, absResolved), nil
	}
}

// inDocumentLink builds the link for a reference with no file part: a
// section link within the current document, or (if section is also
// absent, e.g. a label-only [[|foo]] reference) a bare link to the
// current file. Per §4.5 steps 1/3, the target is ctx.CurrentFile() but
// relativity is still computed against ctx.RootFile().parent, so the
// link keeps pointing at the right file once an embed has been inlined
// into an ancestor document.
func (r *ReferenceResolver) inDocumentLink(ctx *Context, ref ObsidianNoteReference) []Event {
	dest := MakeLink(ctx, ctx.CurrentFile(), ref.Section)
	return []Event{
		{Kind: EventStart, Tag: Tag{Kind: TagLink, Destination: dest}},
		{Kind: EventText, Text: ref.Display()},
		{Kind: EventEnd, Tag: Tag{Kind: TagLink, Destination: dest}},
	}
}

func (r *ReferenceResolver) plainLink(ctx *Context, ref ObsidianNoteReference, _ string, absResolved string) []Event {
	dest := MakeLink(ctx, absResolved, ref.Section)
	return []Event{
		{Kind: EventStart, Tag: Tag{Kind: TagLink, Destination: dest}},
		{Kind: EventText, Text: ref.Display()},
		{Kind: EventEnd, Tag: Tag{Kind: TagLink, Destination: dest}},
	}
}

func (r *ReferenceResolver) embedImage(ctx *Context, ref ObsidianNoteReference, absResolved string) []Event {
	dest := MakeLink(ctx, absResolved, nil)
	alt := ref.Display()
	return []Event{
		{Kind: EventStart, Tag: Tag{Kind: TagImage, Destination: dest}},
		{Kind: EventText, Text: alt},
		{Kind: EventEnd, Tag: Tag{Kind: TagImage, Destination: dest}},
	}
}

// embedNote inlines a Markdown note's (possibly section-reduced) content
// in place of the embed, recursing through the full note pipeline.
// Depth is bounded by RecursionLimit; there is no cycle detection beyond
// that bound, by design (see DESIGN.md).
func (r *ReferenceResolver) embedNote(ctx *Context, ref ObsidianNoteReference, resolved, absResolved string) ([]Event, error) {
	if !r.Recursive && ctx.InFileTree(absResolved) {
		dest := MakeLink(ctx, absResolved, ref.Section)
		arrow := "→ "
		return []Event{
			{Kind: EventText, Text: arrow},
			{Kind: EventStart, Tag: Tag{Kind: TagLink, Destination: dest}},
			{Kind: EventText, Text: ref.Display()},
			{Kind: EventEnd, Tag: Tag{Kind: TagLink, Destination: dest}},
		}, nil
	}

	if len(ctx.FileTree())+1 > RecursionLimit {
		return nil, &RecursionLimitExceededError{FileTree: append(append([]string{}, ctx.FileTree()...), absResolved)}
	}

	raw, err := r.ReadFile(absResolved)
	if err != nil {
		return nil, &ReadError{Path: absResolved, Err: err}
	}

	childCtx := ChildContext(ctx, absResolved)
	_, body, _ := SplitFrontmatter(string(raw))
	events := ParseToEvents([]byte(body))
	events = ScanReferences(events)

	events, err = r.ExpandReferences(childCtx, events)
	if err != nil {
		return nil, err
	}

	if ref.Section != nil {
		events = ReduceToSection(events, *ref.Section)
	}

	events, result := RunChain(r.EmbedPostprocessors, childCtx, events)
	if result == StopAndSkipNote {
		return nil, nil
	}

	// A note whose body is a single paragraph is inlined as that
	// paragraph's content, so it joins the paragraph holding the embed
	// instead of nesting a second paragraph inside it.
	paragraphs := 0
	for _, e := range events {
		if e.Kind == EventStart && e.Tag.Kind == TagParagraph {
			paragraphs++
		}
	}
	if n := len(events); paragraphs == 1 && n >= 2 &&
		events[0].Kind == EventStart && events[0].Tag.Kind == TagParagraph &&
		events[n-1].Kind == EventEnd && events[n-1].Tag.Kind == TagParagraph {
		events = events[1 : n-1]
	}

	return events, nil
}
