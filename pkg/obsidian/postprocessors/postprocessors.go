// Package postprocessors ships the officially-maintained postprocessors
// any consumer of pkg/obsidian can opt into, mirroring the small set the
// original exporter bundled: strict line breaks, tag-based filtering, and
// stripping Obsidian's %%comment%% spans.
package postprocessors

import (
	"strings"

	"github.com/adamancini/obsidian-export/pkg/obsidian"
)

// SoftBreaksToHardBreaks turns every soft line break into a hard line
// break, mimicking Obsidian's "Strict line breaks" editor setting.
func SoftBreaksToHardBreaks(_ *obsidian.Context, events []obsidian.Event) ([]obsidian.Event, obsidian.PostprocessorResult) {
	out := make([]obsidian.Event, len(events))
	for i, ev := range events {
		if ev.Kind == obsidian.EventSoftBreak {
			ev.Kind = obsidian.EventHardBreak
		}
		out[i] = ev
	}
	return out, obsidian.Continue
}

// FilterByTags returns a postprocessor that skips exporting a note based
// on its frontmatter "tags" field. A note is skipped if it carries any tag
// in skip, or if only is non-empty and it carries no tag in only.
// Exclusion wins over inclusion, matching the original tool's semantics:
// skip always takes precedence, so a note tagged both "draft" (in skip)
// and "public" (in only) is still skipped.
func FilterByTags(skip, only []string) obsidian.Postprocessor {
	skipSet := toSet(skip)
	onlySet := toSet(only)

	return func(ctx *obsidian.Context, events []obsidian.Event) ([]obsidian.Event, obsidian.PostprocessorResult) {
		tags := ctx.Frontmatter.Tags()

		if hasAny(tags, skipSet) {
			return events, obsidian.StopAndSkipNote
		}
		if len(onlySet) > 0 && !hasAny(tags, onlySet) {
			return events, obsidian.StopAndSkipNote
		}
		return events, obsidian.Continue
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.TrimPrefix(item, "#")] = struct{}{}
	}
	return set
}

func hasAny(tags []string, set map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := set[strings.TrimPrefix(t, "#")]; ok {
			return true
		}
	}
	return false
}

// RemoveObsidianComments strips %%comment%% spans from text events,
// leaving fenced/inline code untouched (Obsidian itself never interprets
// %% inside code, so neither does this).
func RemoveObsidianComments(_ *obsidian.Context, events []obsidian.Event) ([]obsidian.Event, obsidian.PostprocessorResult) {
	out := make([]obsidian.Event, 0, len(events))
	inCode := 0

	for _, ev := range events {
		switch ev.Kind {
		case obsidian.EventStart:
			if ev.Tag.Kind == obsidian.TagCodeBlock {
				inCode++
			}
			out = append(out, ev)
		case obsidian.EventEnd:
			if ev.Tag.Kind == obsidian.TagCodeBlock {
				inCode--
			}
			out = append(out, ev)
		case obsidian.EventText:
			if inCode > 0 {
				out = append(out, ev)
				continue
			}
			stripped := stripComments(ev.Text)
			if stripped != "" {
				ev.Text = stripped
				out = append(out, ev)
			}
		default:
			out = append(out, ev)
		}
	}
	return out, obsidian.Continue
}

// stripComments removes every %%...%% span from s. An unterminated %% is
// left as-is, since it is ambiguous whether the author meant to start a
// comment or just typed a literal "%%".
func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "%%")
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.Index(s[start+2:], "%%")
		if end < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		s = s[start+2+end+2:]
	}
	return b.String()
}
