package obsidian

import "testing"

func TestVaultIndex_Resolve(t *testing.T) {
	idx := NewVaultIndex([]string{
		"NoteA.md",
		"folder/NoteB.md",
		"topfolder/folder/NoteC.md",
		"images/cat.png",
		"Café.md",
		"xNoteA.md",
	})

	cases := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{"bare note name at root", "NoteA", "NoteA.md", true},
		{"nested note by basename", "NoteB", "folder/NoteB.md", true},
		{"nested query with parent component", "folder/NoteC", "topfolder/folder/NoteC.md", true},
		{"does not match as raw substring", "NoteA", "NoteA.md", true}, // ensure it doesn't pick xNoteA.md
		{"image reference keeps extension", "images/cat.png", "images/cat.png", true},
		{"case-insensitive fallback", "notea", "NoteA.md", true},
		{"unicode NFC-normalized match", "Café", "Café.md", true},
		{"unresolvable reference", "Ghost", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := idx.Resolve(tc.query)
			if ok != tc.ok {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tc.query, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestPathEndsWith_ComponentBoundary(t *testing.T) {
	// A raw string suffix test would wrongly match "NoteA" against
	// "xNoteA.md"; component-based matching must not.
	if pathEndsWith("dir/xNoteA.md", "NoteA.md") {
		t.Error("pathEndsWith matched across a component boundary")
	}
	if !pathEndsWith("dir/NoteA.md", "NoteA.md") {
		t.Error("pathEndsWith failed to match a full trailing component")
	}
	if !pathEndsWith("a/b/c.md", "b/c.md") {
		t.Error("pathEndsWith failed to match a multi-component suffix")
	}
}
