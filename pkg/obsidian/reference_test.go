package obsidian

import "testing"

func strPtr(s string) *string { return &s }

func TestParseRefText(t *testing.T) {
	cases := []struct {
		name string
		text string
		want ObsidianNoteReference
	}{
		{
			name: "file only",
			text: "My Note",
			want: ObsidianNoteReference{File: strPtr("My Note")},
		},
		{
			name: "file and section",
			text: "My Note#Heading",
			want: ObsidianNoteReference{File: strPtr("My Note"), Section: strPtr("Heading")},
		},
		{
			name: "file, section and label",
			text: "My Note#Heading|Custom Text",
			want: ObsidianNoteReference{File: strPtr("My Note"), Section: strPtr("Heading"), Label: strPtr("Custom Text")},
		},
		{
			name: "section only (in-document link)",
			text: "#Heading",
			want: ObsidianNoteReference{Section: strPtr("Heading")},
		},
		{
			name: "whitespace around file and section is trimmed",
			text: " My Note # Heading ",
			want: ObsidianNoteReference{File: strPtr("My Note"), Section: strPtr("Heading")},
		},
		{
			name: "label is not trimmed",
			text: "Note| Custom Text ",
			want: ObsidianNoteReference{File: strPtr("Note"), Label: strPtr(" Custom Text ")},
		},
		{
			name: "label only, empty file",
			text: "|Custom",
			want: ObsidianNoteReference{Label: strPtr("Custom")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRefText(tc.text)
			if !refEqual(got, tc.want) {
				t.Errorf("ParseRefText(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestObsidianNoteReference_Display(t *testing.T) {
	cases := []struct {
		name string
		ref  ObsidianNoteReference
		want string
	}{
		{"label wins", ObsidianNoteReference{File: strPtr("Note"), Label: strPtr("Custom")}, "Custom"},
		{"file and section", ObsidianNoteReference{File: strPtr("Note"), Section: strPtr("Heading")}, "Note > Heading"},
		{"file only", ObsidianNoteReference{File: strPtr("Note")}, "Note"},
		{"section only", ObsidianNoteReference{Section: strPtr("Heading")}, "Heading"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ref.Display(); got != tc.want {
				t.Errorf("Display() = %q, want %q", got, tc.want)
			}
		})
	}
}

func refEqual(a, b ObsidianNoteReference) bool {
	return strPtrEqual(a.File, b.File) && strPtrEqual(a.Section, b.Section) && strPtrEqual(a.Label, b.Label)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
