package obsidian

import (
	"regexp"
	"strings"
)

// refTextPattern splits the text inside [[...]] into its optional file,
// section and label parts: file#section|label, any part of which may be
// absent. The pattern matches any single-line text, including a label-only
// body or an empty one; the scanner does not emit a reference whose parts
// are all absent.
var refTextPattern = regexp.MustCompile(`^([^#|]*)?(?:#([^|]*))?(?:\|(.*))?$`)

// ObsidianNoteReference is a parsed [[...]] or ![[...]] reference body.
// File is the linked note's name (without extension) or nil for an
// in-document section link (e.g. [[#Heading]]). Section is the heading
// name (without the leading #), if any. Label is the custom display text
// after a |, if any.
type ObsidianNoteReference struct {
	File    *string
	Section *string
	Label   *string
}

// ParseRefText parses the raw text found between [[ and ]] (or ![[ and ]])
// into its structured parts. Empty strings are treated as absent.
func ParseRefText(text string) ObsidianNoteReference {
	match := refTextPattern.FindStringSubmatch(text)
	ref := ObsidianNoteReference{}
	if match == nil {
		file := text
		ref.File = &file
		return ref
	}

	if file := strings.TrimSpace(match[1]); file != "" {
		ref.File = &file
	}
	if section := strings.TrimSpace(match[2]); section != "" {
		ref.Section = &section
	}
	if match[3] != "" {
		label := match[3]
		ref.Label = &label
	}
	return ref
}

// Display renders the reference the way it should appear as link text when
// no frontmatter title override applies, matching the combinations the
// grammar allows.
func (r ObsidianNoteReference) Display() string {
	switch {
	case r.Label != nil:
		return *r.Label
	case r.File != nil && r.Section != nil:
		return *r.File + " > " + *r.Section
	case r.File != nil:
		return *r.File
	case r.Section != nil:
		return *r.Section
	default:
		// Unreachable for scanner output: the scanner only emits a
		// reference when at least one of File, Section or Label is set.
		return ""
	}
}
