package obsidian

import "testing"

func TestParseFrontmatter_Valid(t *testing.T) {
	content := []byte(`---
title: My Note
tags:
  - tag1
  - tag2
date: 2024-01-15
---
# My Note

This is the body content.
`)

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if title := fm.GetString("title"); title != "My Note" {
		t.Errorf("expected title 'My Note', got %q", title)
	}

	tags := fm.GetStringSlice("tags")
	if len(tags) != 2 || tags[0] != "tag1" || tags[1] != "tag2" {
		t.Errorf("unexpected tags: %v", tags)
	}

	expectedBody := "# My Note\n\nThis is the body content.\n"
	if string(body) != expectedBody {
		t.Errorf("expected body %q, got %q", expectedBody, string(body))
	}
}

func TestParseFrontmatter_NoFrontmatter(t *testing.T) {
	content := []byte("# Just a regular markdown file\n\nNo frontmatter here.")

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fm.Len() != 0 {
		t.Errorf("expected empty frontmatter, got %v", fm.Keys())
	}

	if string(body) != string(content) {
		t.Errorf("body should equal original content")
	}
}

func TestParseFrontmatter_PlusDelimiter(t *testing.T) {
	content := []byte(`+++
title: TOML-style Fence
+++
# Body

Text.
`)

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if title := fm.GetString("title"); title != "TOML-style Fence" {
		t.Errorf("expected title 'TOML-style Fence', got %q", title)
	}

	expectedBody := "# Body\n\nText.\n"
	if string(body) != expectedBody {
		t.Errorf("expected body %q, got %q", expectedBody, string(body))
	}
}

func TestParseFrontmatter_MismatchedDelimitersNotRecognized(t *testing.T) {
	content := []byte("+++\ntitle: Mismatched\n---\nbody\n")

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fm.Len() != 0 {
		t.Errorf("expected empty frontmatter for mismatched delimiters, got %v", fm.Keys())
	}
	if string(body) != string(content) {
		t.Error("body should equal original content for mismatched delimiters")
	}
}

func TestParseFrontmatter_UnclosedDelimiter(t *testing.T) {
	content := []byte(`---
title: Unclosed
This has no closing delimiter.
`)

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fm.Len() != 0 {
		t.Errorf("expected empty frontmatter for unclosed delimiter")
	}
	if string(body) != string(content) {
		t.Error("body should equal original content for unclosed delimiter")
	}
}

func TestParseFrontmatter_AtEndOfFile(t *testing.T) {
	content := []byte(`---
title: Test
---
`)

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fm.GetString("title") != "Test" {
		t.Errorf("expected title 'Test', got %q", fm.GetString("title"))
	}

	if len(body) != 0 {
		t.Errorf("expected empty body, got %q", string(body))
	}
}

func TestParseFrontmatter_InvalidYAML(t *testing.T) {
	content := []byte(`---
title: [invalid yaml
  missing bracket
---
body
`)

	_, _, err := ParseFrontmatter(content)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

// TestFrontmatter_PreservesKeyOrder is the behavior this codec exists for:
// re-encoding must reproduce the exact key order the note was written in.
func TestFrontmatter_PreservesKeyOrder(t *testing.T) {
	content := []byte(`---
zebra: 1
apple: 2
middle: 3
---
body
`)

	fm, _, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"zebra", "apple", "middle"}
	got := fm.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(got), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, got[i])
		}
	}

	encoded, err := EncodeFrontmatter(fm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reparsed, err := DecodeFrontmatter(encoded[len("---\n") : len(encoded)-len("---\n")])
	if err != nil {
		t.Fatalf("unexpected error re-decoding: %v", err)
	}
	for i, k := range want {
		if reparsed.Keys()[i] != k {
			t.Errorf("round trip key %d: expected %q, got %q", i, k, reparsed.Keys()[i])
		}
	}
}

func TestSerializeFrontmatter(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Test Note")
	fm.Set("tags", []string{"tag1", "tag2"})

	data, err := SerializeFrontmatter(fm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data) < 7 {
		t.Fatalf("output too short: %q", string(data))
	}

	parsed, _, err := ParseFrontmatter(append(data, []byte("body\n")...))
	if err != nil {
		t.Fatalf("failed to parse serialized frontmatter: %v", err)
	}

	if parsed.GetString("title") != "Test Note" {
		t.Errorf("round-trip failed for title")
	}
}

func TestSerializeFrontmatter_Empty(t *testing.T) {
	fm := NewFrontmatter()

	data, err := SerializeFrontmatter(fm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data != nil {
		t.Errorf("expected nil for empty frontmatter, got %q", string(data))
	}
}

func TestEncodeFrontmatter_EmptyIsMinimalBlock(t *testing.T) {
	data, err := EncodeFrontmatter(NewFrontmatter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != "---\n---\n" {
		t.Errorf("expected minimal empty block, got %q", data)
	}
}

func TestFrontmatter_GetString(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "My Title")
	fm.Set("notastr", 123)
	fm.Set("nilvalue", nil)

	tests := []struct {
		key      string
		expected string
	}{
		{"title", "My Title"},
		{"notastr", ""},
		{"nilvalue", ""},
		{"missing", ""},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if result := fm.GetString(tc.key); result != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestFrontmatter_GetStringSlice(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("tags", []any{"tag1", "tag2", "tag3"})
	fm.Set("single", "just one")
	fm.Set("strslice", []string{"a", "b"})
	fm.Set("mixed", []any{"str", 123, "another"})
	fm.Set("notslice", 42)
	fm.Set("nilvalue", nil)

	tests := []struct {
		name     string
		key      string
		expected []string
	}{
		{"any slice", "tags", []string{"tag1", "tag2", "tag3"}},
		{"single string", "single", []string{"just one"}},
		{"string slice", "strslice", []string{"a", "b"}},
		{"mixed types", "mixed", []string{"str", "another"}},
		{"not slice", "notslice", nil},
		{"nil value", "nilvalue", nil},
		{"missing", "missing", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := fm.GetStringSlice(tc.key)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d items, got %d: %v", len(tc.expected), len(result), result)
				return
			}
			for i, v := range tc.expected {
				if result[i] != v {
					t.Errorf("item %d: expected %q, got %q", i, v, result[i])
				}
			}
		})
	}
}

func TestFrontmatter_GetBool(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("published", true)
	fm.Set("draft", false)
	fm.Set("strval", "true")
	fm.Set("nilvalue", nil)

	tests := []struct {
		key      string
		expected bool
	}{
		{"published", true},
		{"draft", false},
		{"strval", false},
		{"nilvalue", false},
		{"missing", false},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if result := fm.GetBool(tc.key); result != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestFrontmatter_SetAndOrdering(t *testing.T) {
	fm := NewFrontmatter()

	fm.Set("title", "New Title")
	if v, _ := fm.Get("title"); v != "New Title" {
		t.Errorf("Set failed: expected 'New Title', got %v", v)
	}

	fm.Set("title", "Updated Title")
	if v, _ := fm.Get("title"); v != "Updated Title" {
		t.Errorf("Set overwrite failed")
	}
	if len(fm.Keys()) != 1 {
		t.Errorf("overwriting an existing key should not change key count")
	}

	fm.Set("second", "value")
	if fm.Keys()[1] != "second" {
		t.Errorf("new key should be appended at the end")
	}
}

func TestFrontmatter_Delete(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("keep", "value")
	fm.Set("delete", "value")

	fm.Delete("delete")

	if fm.Has("delete") {
		t.Error("Delete failed: key still exists")
	}
	if v, _ := fm.Get("keep"); v != "value" {
		t.Error("Delete removed wrong key")
	}
	if len(fm.Keys()) != 1 {
		t.Error("Delete should remove the key from the ordering too")
	}

	fm.Delete("nonexistent")
}

func TestFrontmatter_Has(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("exists", "value")
	fm.Set("nilvalue", nil)

	if !fm.Has("exists") {
		t.Error("Has should return true for existing key")
	}
	if !fm.Has("nilvalue") {
		t.Error("Has should return true for nil value key")
	}
	if fm.Has("missing") {
		t.Error("Has should return false for missing key")
	}
}

func TestFrontmatter_Clone(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Original")
	fm.Set("tags", []string{"tag1", "tag2"})

	clone := fm.Clone()

	fm.Set("title", "Modified")

	if clone.GetString("title") != "Original" {
		t.Error("Clone should be independent of original")
	}
}

func TestFrontmatter_Tags(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("tags", []any{"work", "important"})

	tags := fm.Tags()
	if len(tags) != 2 || tags[0] != "work" || tags[1] != "important" {
		t.Errorf("unexpected tags: %v", tags)
	}

	if len(NewFrontmatter().Tags()) != 0 {
		t.Error("Tags should return nil for missing key")
	}
}

func TestFrontmatter_Aliases(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("aliases", []any{"alias1", "alias2"})

	aliases := fm.Aliases()
	if len(aliases) != 2 || aliases[0] != "alias1" {
		t.Errorf("unexpected aliases: %v", aliases)
	}
}

func TestFrontmatter_Title(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "My Document")

	if fm.Title() != "My Document" {
		t.Errorf("unexpected title: %s", fm.Title())
	}

	if NewFrontmatter().Title() != "" {
		t.Error("Title should return empty string for missing key")
	}
}

func TestParseFrontmatter_ComplexYAML(t *testing.T) {
	content := []byte(`---
title: Complex Note
author:
  name: John Doe
  email: john@example.com
metadata:
  created: 2024-01-15
  updated: 2024-01-20
  version: 1.2
tags:
  - nested/tag
  - multi-word tag
published: true
count: 42
---
# Content here
`)

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fm.GetString("title") != "Complex Note" {
		t.Error("failed to get title")
	}

	if !fm.GetBool("published") {
		t.Error("failed to get published bool")
	}

	if !fm.Has("author") {
		t.Error("missing author map")
	}

	if string(body) != "# Content here\n" {
		t.Errorf("unexpected body: %q", string(body))
	}
}

func TestParseFrontmatterStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    FrontmatterStrategy
		wantErr bool
	}{
		{"auto", FrontmatterAuto, false},
		{"", FrontmatterAuto, false},
		{"Always", FrontmatterAlways, false},
		{"NEVER", FrontmatterNever, false},
		{"bogus", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFrontmatterStrategy(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if err == nil && got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
