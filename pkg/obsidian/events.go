package obsidian

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// EventKind identifies the variant of a flattened CommonMark Event. This
// taxonomy is deliberately independent of goldmark's own AST node types:
// the Reference Scanner is written against this flat, owned-string
// representation, not against any particular parser's native tree, so
// that its state machine matches the one described for a pulldown-cmark
// style token stream.
type EventKind int

const (
	EventStart EventKind = iota
	EventEnd
	EventText
	EventCode
	EventHTML
	EventFootnoteReference
	EventSoftBreak
	EventHardBreak
	EventRule
	EventTaskListMarker

	// EventObsidianReference is not part of the CommonMark taxonomy: it is
	// the sentinel the Reference Scanner substitutes for a recognized
	// [[...]] or ![[...]] span, carrying the parsed reference through to
	// the stage that resolves it against the vault index and expands it
	// into real output events (a link, an inlined embed, or a literal
	// fallback).
	EventObsidianReference
)

// TagKind identifies the block/inline construct a Start/End event pair
// brackets.
type TagKind int

const (
	TagParagraph TagKind = iota
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagItem
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
	TagFootnoteDefinition
)

// Tag carries the per-construct payload of a Start/End event.
type Tag struct {
	Kind TagKind

	// Heading
	Level int

	// CodeBlock
	Language string

	// List
	Ordered bool

	// Link / Image
	Destination string
	Title       string

	// FootnoteDefinition
	Label string
}

// Event is one flattened, owned-string token of a note's body. A full note
// body is a []Event; the Reference Scanner, Section Reducer and Link
// Builder all operate purely in terms of this slice, never touching
// goldmark's AST directly.
type Event struct {
	Kind    EventKind
	Tag     Tag    // valid for EventStart / EventEnd
	Text    string // valid for EventText, EventCode, EventHTML, EventFootnoteReference
	Checked bool   // valid for EventTaskListMarker

	// Reference and IsEmbed are valid for EventObsidianReference.
	Reference ObsidianNoteReference
	IsEmbed   bool
}

// markdownParser is the shared goldmark parser configuration: CommonMark
// plus tables, strikethrough, task lists and footnotes, with the
// typographic "smart punctuation" substitutions left disabled so that
// quotes, dashes and ellipses reach the Reference Scanner unmodified.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ParseToEvents parses source into the flat Event stream the rest of the
// pipeline operates on.
func ParseToEvents(source []byte) []Event {
	reader := text.NewReader(source)
	doc := markdownParser.Parser().Parse(reader)

	var events []Event
	footnoteRefs := collectFootnoteRefs(doc)

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		start, tag, isConstruct := flattenStart(n, source)
		if isConstruct {
			events = append(events, start)
			if tag.Kind == TagCodeBlock {
				// A code block's content lives in its lines, not in child
				// nodes; emit it as one Text event.
				var sb strings.Builder
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					sb.Write(seg.Value(source))
				}
				events = append(events, Event{Kind: EventText, Text: sb.String()})
			}
		} else {
			events = append(events, flattenLeaf(n, source, footnoteRefs)...)
		}

		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}

		if isConstruct {
			events = append(events, Event{Kind: EventEnd, Tag: tag})
		}
	}

	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c)
	}
	return events
}

// collectFootnoteRefs walks doc for footnote definitions, building the
// index-to-label mapping a *extast.FootnoteLink reference needs: the
// definition node carries its original "[^label]" text, but the inline
// reference node only carries the parser-assigned numeric index.
func collectFootnoteRefs(doc ast.Node) map[int]string {
	refs := map[int]string{}
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if fn, ok := n.(*extast.Footnote); ok {
			refs[fn.Index] = string(fn.Ref)
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(doc)
	return refs
}

// flattenStart returns the Start event for a block/inline construct node,
// or reports isConstruct=false for node kinds handled as leaves instead
// (text-like nodes that contribute Text/Code/HTML/etc. events directly).
func flattenStart(n ast.Node, source []byte) (Event, Tag, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		tag := Tag{Kind: TagHeading, Level: node.Level}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.Paragraph:
		tag := Tag{Kind: TagParagraph}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.Blockquote:
		tag := Tag{Kind: TagBlockQuote}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.FencedCodeBlock:
		lang := ""
		if l := node.Language(source); l != nil {
			lang = string(l)
		}
		tag := Tag{Kind: TagCodeBlock, Language: lang}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.CodeBlock:
		tag := Tag{Kind: TagCodeBlock}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.List:
		tag := Tag{Kind: TagList, Ordered: node.IsOrdered()}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.ListItem:
		tag := Tag{Kind: TagItem}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.Emphasis:
		kind := TagEmphasis
		if node.Level == 2 {
			kind = TagStrong
		}
		tag := Tag{Kind: kind}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *extast.Strikethrough:
		tag := Tag{Kind: TagStrikethrough}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.Link:
		tag := Tag{Kind: TagLink, Destination: string(node.Destination), Title: string(node.Title)}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *ast.Image:
		tag := Tag{Kind: TagImage, Destination: string(node.Destination), Title: string(node.Title)}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *extast.Table:
		tag := Tag{Kind: TagTable}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *extast.TableHeader:
		tag := Tag{Kind: TagTableHead}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *extast.TableRow:
		tag := Tag{Kind: TagTableRow}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *extast.TableCell:
		tag := Tag{Kind: TagTableCell}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	case *extast.Footnote:
		tag := Tag{Kind: TagFootnoteDefinition, Label: string(node.Ref)}
		return Event{Kind: EventStart, Tag: tag}, tag, true
	}
	return Event{}, Tag{}, false
}

// flattenLeaf returns the zero or more events a leaf (non-bracketing) node
// contributes: Text runs (split at soft/hard breaks), inline code, raw
// HTML, footnote references, thematic breaks, and task list markers.
func flattenLeaf(n ast.Node, source []byte, footnoteRefs map[int]string) []Event {
	switch node := n.(type) {
	case *extast.FootnoteLink:
		label := footnoteRefs[node.Index]
		if label == "" {
			label = strconv.Itoa(node.Index)
		}
		return []Event{{Kind: EventFootnoteReference, Text: label}}
	case *extast.FootnoteBackLink:
		// The "return to reference" arrow goldmark renders in HTML has no
		// meaningful Markdown-source form; drop it silently.
		return nil
	case *ast.Text:
		events := []Event{{Kind: EventText, Text: string(node.Segment.Value(source))}}
		if node.HardLineBreak() {
			events = append(events, Event{Kind: EventHardBreak})
		} else if node.SoftLineBreak() {
			events = append(events, Event{Kind: EventSoftBreak})
		}
		return events
	case *ast.String:
		return []Event{{Kind: EventText, Text: string(node.Value)}}
	case *ast.CodeSpan:
		var sb strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return []Event{{Kind: EventCode, Text: sb.String()}}
	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			sb.Write(seg.Value(source))
		}
		return []Event{{Kind: EventHTML, Text: sb.String()}}
	case *ast.HTMLBlock:
		var sb strings.Builder
		for i := 0; i < node.Lines().Len(); i++ {
			seg := node.Lines().At(i)
			sb.Write(seg.Value(source))
		}
		return []Event{{Kind: EventHTML, Text: sb.String()}}
	case *ast.ThematicBreak:
		return []Event{{Kind: EventRule}}
	case *extast.TaskCheckBox:
		return []Event{{Kind: EventTaskListMarker, Checked: node.IsChecked}}
	}
	return nil
}

// RenderEventsToMarkdown serializes a flat Event stream back to standard
// CommonMark text. It is the inverse of ParseToEvents/the scanner's
// rewritten output, and is what gets written to the destination file.
func RenderEventsToMarkdown(events []Event) string {
	var b strings.Builder
	listOrdered := []bool{}
	inTableHeader := false
	tableHeaderCells := 0

	for _, ev := range events {
		switch ev.Kind {
		case EventStart:
			switch ev.Tag.Kind {
			case TagHeading:
				b.WriteString(strings.Repeat("#", ev.Tag.Level) + " ")
			case TagEmphasis:
				b.WriteString("*")
			case TagStrong:
				b.WriteString("**")
			case TagStrikethrough:
				b.WriteString("~~")
			case TagCodeBlock:
				b.WriteString("```" + ev.Tag.Language + "\n")
			case TagBlockQuote:
				b.WriteString("> ")
			case TagList:
				listOrdered = append(listOrdered, ev.Tag.Ordered)
			case TagItem:
				b.WriteString("- ")
			case TagLink:
				b.WriteString("[")
			case TagImage:
				b.WriteString("![")
			case TagTableHead:
				// goldmark's TableHeader node *is* the header row: its
				// direct children are TableCells, with no intervening
				// TableRow the way body rows have one.
				inTableHeader = true
				tableHeaderCells = 0
				b.WriteString("|")
			case TagTableRow:
				b.WriteString("|")
			case TagTableCell:
				if inTableHeader {
					tableHeaderCells++
				}
				b.WriteString(" ")
			case TagFootnoteDefinition:
				b.WriteString("[^" + ev.Tag.Label + "]: ")
			}
		case EventEnd:
			switch ev.Tag.Kind {
			case TagHeading, TagParagraph, TagBlockQuote, TagItem:
				b.WriteString("\n")
			case TagEmphasis:
				b.WriteString("*")
			case TagStrong:
				b.WriteString("**")
			case TagStrikethrough:
				b.WriteString("~~")
			case TagCodeBlock:
				b.WriteString("```\n")
			case TagList:
				if len(listOrdered) > 0 {
					listOrdered = listOrdered[:len(listOrdered)-1]
				}
			case TagLink:
				b.WriteString("](" + ev.Tag.Destination + ")")
			case TagImage:
				b.WriteString("](" + ev.Tag.Destination + ")")
			case TagTableHead:
				inTableHeader = false
				b.WriteString("\n|" + strings.Repeat(" --- |", tableHeaderCells) + "\n")
			case TagTableRow:
				b.WriteString("\n")
			case TagTableCell:
				b.WriteString(" |")
			case TagTable:
				b.WriteString("\n")
			case TagFootnoteDefinition:
				b.WriteString("\n\n")
			}
		case EventText:
			b.WriteString(ev.Text)
		case EventCode:
			b.WriteString("`" + ev.Text + "`")
		case EventHTML:
			b.WriteString(ev.Text)
		case EventFootnoteReference:
			b.WriteString("[^" + ev.Text + "]")
		case EventSoftBreak:
			b.WriteString("\n")
		case EventHardBreak:
			b.WriteString("  \n")
		case EventRule:
			b.WriteString("---\n")
		case EventTaskListMarker:
			if ev.Checked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		}
	}
	return b.String()
}
