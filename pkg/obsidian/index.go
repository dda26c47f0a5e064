package obsidian

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VaultIndex resolves an Obsidian note reference's file part against the
// set of paths actually present in a vault. It performs Unicode NFC
// normalization and case-insensitive, .md-extension-elastic suffix
// matching, picking the first match in a deterministically ordered list
// of candidate paths (lexical order) when more than one path could match
// the same reference text.
type VaultIndex struct {
	// paths are vault-root-relative paths, in lexically sorted (therefore
	// deterministic) order.
	paths []string
}

// NewVaultIndex builds an index over paths. paths are vault-root-relative
// and may use either slash separator; they are normalized internally.
func NewVaultIndex(paths []string) *VaultIndex {
	normalized := make([]string, len(paths))
	for i, p := range paths {
		normalized[i] = filepath.ToSlash(p)
	}
	sort.Strings(normalized)
	return &VaultIndex{paths: normalized}
}

// Resolve looks up reference (the File part of an ObsidianNoteReference,
// e.g. "My Note" or "folder/My Note") against the indexed paths and
// returns the matching vault-relative path, if any.
//
// For each indexed path, in deterministic (lexical) order, the candidate
// is accepted if, after NFC normalization:
//  1. the candidate ends with the query, or
//  2. the candidate ends with the query plus a ".md" suffix, or
//  3. either of the above holds once both sides are lower-cased.
//
// The first candidate satisfying any of these wins — this is what lets a
// bare note name like [[My Note]] resolve to "deeply/nested/My Note.md"
// without the query ever mentioning the directory.
func (idx *VaultIndex) Resolve(reference string) (string, bool) {
	query := norm.NFC.String(reference)
	lowerQuery := strings.ToLower(query)

	for _, p := range idx.paths {
		cand := norm.NFC.String(p)
		if matchesQuery(cand, query) {
			return p, true
		}
		if matchesQuery(strings.ToLower(cand), lowerQuery) {
			return p, true
		}
	}

	return "", false
}

// matchesQuery reports whether candidate ends with query, or with query
// followed by ".md" (the extension-elastic rule: Obsidian note references
// omit ".md" but image/PDF references do not).
func matchesQuery(candidate, query string) bool {
	return pathEndsWith(candidate, query) || pathEndsWith(candidate, query+".md")
}

// pathEndsWith reports whether candidate's trailing path components equal
// query's components exactly, component by component — matching Rust's
// Path::ends_with semantics rather than a raw string suffix test, so that
// a query of "NoteA" does not spuriously match a candidate ending in
// "xNoteA.md".
func pathEndsWith(candidate, query string) bool {
	candParts := strings.Split(strings.Trim(candidate, "/"), "/")
	queryParts := strings.Split(strings.Trim(query, "/"), "/")
	if len(queryParts) == 0 || len(queryParts) > len(candParts) {
		return false
	}
	offset := len(candParts) - len(queryParts)
	for i, qp := range queryParts {
		if candParts[offset+i] != qp {
			return false
		}
	}
	return true
}

// Paths returns the indexed paths in their deterministic order. The
// returned slice must not be mutated by the caller.
func (idx *VaultIndex) Paths() []string {
	return idx.paths
}
