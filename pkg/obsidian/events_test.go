package obsidian

import (
	"strings"
	"testing"
)

func TestParseToEvents_HeadingAndParagraph(t *testing.T) {
	events := ParseToEvents([]byte("# Title\n\nBody text.\n"))

	if len(events) == 0 {
		t.Fatal("expected non-empty event stream")
	}
	if events[0].Kind != EventStart || events[0].Tag.Kind != TagHeading || events[0].Tag.Level != 1 {
		t.Fatalf("events[0] = %+v, want level-1 heading start", events[0])
	}

	var sawTitle, sawBody bool
	for _, ev := range events {
		if ev.Kind == EventText && ev.Text == "Title" {
			sawTitle = true
		}
		if ev.Kind == EventText && ev.Text == "Body text." {
			sawBody = true
		}
	}
	if !sawTitle || !sawBody {
		t.Errorf("missing expected text events: sawTitle=%v sawBody=%v in %+v", sawTitle, sawBody, events)
	}
}

func TestParseToEvents_BracketsSurviveAsPlainText(t *testing.T) {
	// The parser must not interpret [[...]] as a link: it has to reach
	// the Reference Scanner as ordinary text for it to recognize.
	events := ParseToEvents([]byte("See [[My Note]] here.\n"))

	var b string
	for _, ev := range events {
		if ev.Kind == EventText {
			b += ev.Text
		}
	}
	if b != "See [[My Note]] here." {
		t.Errorf("reconstructed text = %q, want the literal bracket text preserved", b)
	}
}

func TestRenderEventsToMarkdown_RoundTripsLink(t *testing.T) {
	events := []Event{
		{Kind: EventText, Text: "see "},
		{Kind: EventStart, Tag: Tag{Kind: TagLink, Destination: "Note.md"}},
		{Kind: EventText, Text: "Note"},
		{Kind: EventEnd, Tag: Tag{Kind: TagLink, Destination: "Note.md"}},
	}
	got := RenderEventsToMarkdown(events)
	want := "see [Note](Note.md)"
	if got != want {
		t.Errorf("RenderEventsToMarkdown = %q, want %q", got, want)
	}
}

func TestRenderEventsToMarkdown_Emphasis(t *testing.T) {
	events := []Event{
		{Kind: EventStart, Tag: Tag{Kind: TagEmphasis}},
		{Kind: EventText, Text: "word"},
		{Kind: EventEnd, Tag: Tag{Kind: TagEmphasis}},
	}
	got := RenderEventsToMarkdown(events)
	if got != "*word*" {
		t.Errorf("RenderEventsToMarkdown = %q, want %q", got, "*word*")
	}
}

func TestParseToEvents_TableRoundTrips(t *testing.T) {
	src := "| A | B |\n| --- | --- |\n| 1 | 2 |\n"
	events := ParseToEvents([]byte(src))
	got := RenderEventsToMarkdown(events)
	want := "| A | B |\n| --- | --- |\n| 1 | 2 |\n\n"
	if got != want {
		t.Errorf("table round trip = %q, want %q", got, want)
	}
}

func TestParseToEvents_FootnoteRoundTrips(t *testing.T) {
	src := "See thing[^note].\n\n[^note]: An explanation.\n"
	events := ParseToEvents([]byte(src))

	var sawRef bool
	for _, ev := range events {
		if ev.Kind == EventFootnoteReference && ev.Text == "note" {
			sawRef = true
		}
	}
	if !sawRef {
		t.Fatalf("expected a footnote reference event for %q in %+v", "note", events)
	}

	got := RenderEventsToMarkdown(events)
	if !strings.Contains(got, "[^note]") {
		t.Errorf("rendered output %q does not contain the footnote reference marker", got)
	}
	if !strings.Contains(got, "[^note]: An explanation.") {
		t.Errorf("rendered output %q does not contain the footnote definition", got)
	}
}
