package obsidian

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// needsPercentEncoding reports whether r is in the fixed set of characters
// this exporter percent-encodes in a generated relative link, matching the original tool's
// narrower-than-RFC-3986 charset: ASCII control characters, space, the
// parentheses that delimit a Markdown link destination, '%' itself, and
// '?' (which would otherwise be read as a query string by some renderers).
// Obsidian vault paths commonly contain characters like '#' and '&' that
// must survive unescaped for link targets to keep matching the exporter's
// historical output.
func needsPercentEncoding(r rune) bool {
	if r < 0x20 || r == 0x7f {
		return true
	}
	switch r {
	case ' ', '(', ')', '%', '?':
		return true
	default:
		return false
	}
}

func percentEncodePath(s string) string {
	var b strings.Builder
	for _, r := range s {
		if needsPercentEncoding(r) {
			for _, c := range []byte(string(r)) {
				b.WriteByte('%')
				b.WriteString(strings.ToUpper(byteHex(c)))
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func byteHex(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}

// Slugify turns a heading's text into the URL fragment used to link to it,
// using the same slug rules a Hugo-flavored Markdown toolchain expects.
func Slugify(heading string) string {
	return slug.Make(heading)
}

// MakeLink builds the relative Markdown link destination from the root
// file currently being written to targetPath, with an optional heading
// fragment. Per spec, relativity is always computed against
// ctx.RootFile()'s directory, never ctx.CurrentFile()'s — this is what
// keeps links correct after an embed has been inlined into a parent note:
// the embedded note's own relative-link math would otherwise be wrong
// once its content is no longer written to its own location.
func MakeLink(ctx *Context, targetPath string, section *string) string {
	rootDir := filepath.Dir(ctx.RootFile())
	rel, err := filepath.Rel(rootDir, targetPath)
	if err != nil {
		rel = targetPath
	}
	rel = filepath.ToSlash(rel)

	dest := percentEncodePath(rel)
	if section != nil && *section != "" {
		dest += "#" + Slugify(*section)
	}
	return dest
}
