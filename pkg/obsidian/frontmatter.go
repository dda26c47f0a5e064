// Package obsidian implements the core note-processing pipeline: parsing
// Obsidian-flavored references out of a CommonMark event stream, resolving
// them against a vault index, rewriting them into plain relative links,
// inlining embeds, and reducing/postprocessing the result.
package obsidian

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FrontmatterDelimiter is the YAML frontmatter delimiter.
	FrontmatterDelimiter = "---"
)

// Frontmatter is an ordered YAML mapping: key insertion order is preserved
// across a decode/re-encode round trip, matching the note's original
// frontmatter key order on disk. A plain map[string]any cannot do this, so
// entries are kept in an explicit slice alongside the lookup map.
type Frontmatter struct {
	keys   []string
	values map[string]any
}

// NewFrontmatter returns an empty ordered frontmatter mapping.
func NewFrontmatter() Frontmatter {
	return Frontmatter{values: map[string]any{}}
}

// ParseFrontmatter extracts YAML frontmatter from markdown content.
// Returns the frontmatter and the remaining body content. Content with no
// frontmatter block returns an empty Frontmatter and the content unchanged.
func ParseFrontmatter(content []byte) (Frontmatter, []byte, error) {
	yamlSrc, body, has := SplitFrontmatter(string(content))
	if !has {
		return NewFrontmatter(), content, nil
	}
	fm, err := DecodeFrontmatter(yamlSrc)
	if err != nil {
		return Frontmatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, []byte(body), nil
}

// altFrontmatterDelimiter is the TOML-style fence some note sources use
// in place of "---"; per spec §4.3 both are recognized, but a block must
// open and close with the same delimiter.
const altFrontmatterDelimiter = "+++"

// SplitFrontmatter splits raw note content into its frontmatter block (if
// any, without the delimiters) and the remaining body. hasFrontmatter is
// false when content does not begin with a "---" (or "+++") delimiter
// line closed by a matching one.
func SplitFrontmatter(content string) (yamlSrc, body string, hasFrontmatter bool) {
	if yamlSrc, body, ok := splitFrontmatterDelimiter(content, FrontmatterDelimiter); ok {
		return yamlSrc, body, true
	}
	if yamlSrc, body, ok := splitFrontmatterDelimiter(content, altFrontmatterDelimiter); ok {
		return yamlSrc, body, true
	}
	return "", content, false
}

func splitFrontmatterDelimiter(content, delim string) (yamlSrc, body string, ok bool) {
	if !strings.HasPrefix(content, delim) {
		return "", content, false
	}
	rest := content[len(delim):]
	rest = strings.TrimPrefix(rest, "\r")
	if !strings.HasPrefix(rest, "\n") {
		return "", content, false
	}
	rest = rest[1:]

	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return "", content, false
	}
	yamlSrc = rest[:idx]
	after := rest[idx+1+len(delim):]
	after = strings.TrimPrefix(after, "\r")
	after = strings.TrimPrefix(after, "\n")
	return yamlSrc, after, true
}

// DecodeFrontmatter parses a frontmatter YAML block (without the "---"
// delimiters) into an ordered Frontmatter.
func DecodeFrontmatter(yamlSrc string) (Frontmatter, error) {
	fm := NewFrontmatter()
	if strings.TrimSpace(yamlSrc) == "" {
		return fm, nil
	}
	if err := yaml.Unmarshal([]byte(yamlSrc), &fm); err != nil {
		return Frontmatter{}, err
	}
	return fm, nil
}

// SerializeFrontmatter converts frontmatter back to a full
// "---\n...\n---\n" block. An empty mapping serializes to nil (callers
// that need the FrontmatterAlways "---\n---\n" form should use
// EncodeFrontmatter instead).
func SerializeFrontmatter(fm Frontmatter) ([]byte, error) {
	if fm.Len() == 0 {
		return nil, nil
	}
	s, err := EncodeFrontmatter(fm)
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	return []byte(s), nil
}

// EncodeFrontmatter renders fm back to a full "---\n...\n---\n" block. An
// empty mapping renders as the minimal "---\n---\n" form, matching the
// original tool's output for notes with empty (but present) frontmatter.
func EncodeFrontmatter(fm Frontmatter) (string, error) {
	if fm.Len() == 0 {
		return "---\n---\n", nil
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(FrontmatterDelimiter + "\n")
	b.Write(data)
	b.WriteString(FrontmatterDelimiter + "\n")
	return b.String(), nil
}

// MarshalYAML implements yaml.Marshaler by building an explicit mapping
// node in key order, instead of letting yaml.v3 marshal an unordered map.
func (fm Frontmatter) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range fm.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(fm.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler by reading a mapping node's
// key/value pairs in their on-disk order.
func (fm *Frontmatter) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("frontmatter: expected a YAML mapping, got kind %d", node.Kind)
	}
	fm.keys = nil
	fm.values = map[string]any{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		fm.Set(key, value)
	}
	return nil
}

// Get retrieves a raw value from frontmatter.
func (fm Frontmatter) Get(key string) (any, bool) {
	v, ok := fm.values[key]
	return v, ok
}

// GetString retrieves a string value from frontmatter.
func (fm Frontmatter) GetString(key string) string {
	if v, ok := fm.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetStringSlice retrieves a string slice from frontmatter, tolerating
// either a YAML sequence or a single scalar value.
func (fm Frontmatter) GetStringSlice(key string) []string {
	v, ok := fm.values[key]
	if !ok {
		return nil
	}

	switch val := v.(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case string:
		return []string{val}
	default:
		return nil
	}
}

// GetBool retrieves a boolean value from frontmatter.
func (fm Frontmatter) GetBool(key string) bool {
	if v, ok := fm.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Set inserts or updates key. New keys are appended to the end of the
// ordering; existing keys keep their original position.
func (fm *Frontmatter) Set(key string, value any) {
	if fm.values == nil {
		fm.values = map[string]any{}
	}
	if _, exists := fm.values[key]; !exists {
		fm.keys = append(fm.keys, key)
	}
	fm.values[key] = value
}

// Delete removes a frontmatter key, if present.
func (fm *Frontmatter) Delete(key string) {
	if _, exists := fm.values[key]; !exists {
		return
	}
	delete(fm.values, key)
	for i, k := range fm.keys {
		if k == key {
			fm.keys = append(fm.keys[:i], fm.keys[i+1:]...)
			break
		}
	}
}

// Has checks if a key exists in frontmatter.
func (fm Frontmatter) Has(key string) bool {
	_, ok := fm.values[key]
	return ok
}

// Keys returns the keys in their preserved insertion order. The returned
// slice must not be mutated by the caller.
func (fm Frontmatter) Keys() []string {
	return fm.keys
}

// Len reports the number of keys present.
func (fm Frontmatter) Len() int {
	return len(fm.keys)
}

// Clone creates a deep, order-preserving copy of frontmatter.
func (fm Frontmatter) Clone() Frontmatter {
	out := NewFrontmatter()
	for _, k := range fm.keys {
		out.Set(k, fm.values[k])
	}
	return out
}

// Tags extracts tags from the frontmatter (array or single scalar).
func (fm Frontmatter) Tags() []string {
	return fm.GetStringSlice("tags")
}

// Aliases extracts aliases from the frontmatter.
func (fm Frontmatter) Aliases() []string {
	return fm.GetStringSlice("aliases")
}

// Title returns the title, falling back to empty string.
func (fm Frontmatter) Title() string {
	return fm.GetString("title")
}

// FrontmatterStrategy controls whether a frontmatter block is written to
// an exported note.
type FrontmatterStrategy int

const (
	// FrontmatterAuto writes a frontmatter block only when the note had
	// one (possibly modified) or a postprocessor added fields to it.
	FrontmatterAuto FrontmatterStrategy = iota
	// FrontmatterAlways always writes a block, even if empty.
	FrontmatterAlways
	// FrontmatterNever never writes a frontmatter block, discarding it.
	FrontmatterNever
)

func (s FrontmatterStrategy) String() string {
	switch s {
	case FrontmatterAlways:
		return "always"
	case FrontmatterNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseFrontmatterStrategy parses the CLI/config string form of a strategy.
func ParseFrontmatterStrategy(s string) (FrontmatterStrategy, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FrontmatterAuto, nil
	case "always":
		return FrontmatterAlways, nil
	case "never":
		return FrontmatterNever, nil
	default:
		return 0, fmt.Errorf("unknown frontmatter strategy %q", s)
	}
}
