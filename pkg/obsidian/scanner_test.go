package obsidian

import "testing"

func textEvent(s string) Event { return Event{Kind: EventText, Text: s} }

func TestScanReferences_PlainLink(t *testing.T) {
	events := []Event{textEvent("see [[My Note]] for more")}
	out := ScanReferences(events)

	if len(out) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(out), out)
	}
	if out[0].Kind != EventText || out[0].Text != "see " {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].Kind != EventObsidianReference {
		t.Fatalf("out[1] = %+v, want reference sentinel", out[1])
	}
	if out[1].IsEmbed {
		t.Error("plain [[...]] should not be marked as an embed")
	}
	if out[1].Reference.File == nil || *out[1].Reference.File != "My Note" {
		t.Errorf("reference file = %v, want %q", out[1].Reference.File, "My Note")
	}
	if out[2].Text != " for more" {
		t.Errorf("out[2] = %+v", out[2])
	}
}

func TestScanReferences_Embed(t *testing.T) {
	events := []Event{textEvent("![[Image.png]]")}
	out := ScanReferences(events)

	if len(out) != 1 || out[0].Kind != EventObsidianReference {
		t.Fatalf("got %+v", out)
	}
	if !out[0].IsEmbed {
		t.Error("![[...]] should be marked as an embed")
	}
}

func TestScanReferences_SplitAcrossEvents(t *testing.T) {
	// The opening "[[" and closing "]]" land in separate Text events, as
	// would happen if a parser emitted them around an inline boundary.
	events := []Event{
		textEvent("before [["),
		textEvent("Note Name"),
		textEvent("]] after"),
	}
	out := ScanReferences(events)

	var ref *Event
	for i := range out {
		if out[i].Kind == EventObsidianReference {
			ref = &out[i]
		}
	}
	if ref == nil {
		t.Fatalf("no reference recognized in %+v", out)
	}
	if ref.Reference.File == nil || *ref.Reference.File != "Note Name" {
		t.Errorf("reference file = %v, want %q", ref.Reference.File, "Note Name")
	}
}

func TestScanReferences_EmphasisAccumulationQuirk(t *testing.T) {
	// [[Note *A*]] where the parser has already turned *A* into real
	// emphasis Start/Text/End events nested inside the reference attempt;
	// the scanner must fold the markers back into the reference text.
	events := []Event{
		textEvent("[[Note "),
		{Kind: EventStart, Tag: Tag{Kind: TagEmphasis}},
		textEvent("A"),
		{Kind: EventEnd, Tag: Tag{Kind: TagEmphasis}},
		textEvent("]]"),
	}
	out := ScanReferences(events)

	if len(out) != 1 || out[0].Kind != EventObsidianReference {
		t.Fatalf("got %+v", out)
	}
	want := "Note *A*"
	if out[0].Reference.File == nil || *out[0].Reference.File != want {
		t.Errorf("reference file = %v, want %q", out[0].Reference.File, want)
	}
}

func TestScanReferences_LoneBracketIsLiteral(t *testing.T) {
	// A trailing "[" defers to the next event (stateExpectSecondOpenBracket);
	// since that event doesn't start with "[" too, the bracket is replayed
	// literally rather than starting a reference.
	events := []Event{textEvent("a ["), textEvent(" b")}
	out := ScanReferences(events)

	var b []byte
	for _, ev := range out {
		if ev.Kind == EventText {
			b = append(b, ev.Text...)
		}
	}
	if string(b) != "a [ b" {
		t.Errorf("reconstructed text = %q, want %q", string(b), "a [ b")
	}
	for _, ev := range out {
		if ev.Kind == EventObsidianReference {
			t.Error("a lone '[' should never produce a reference sentinel")
		}
	}
}

func TestScanReferences_UnterminatedReferenceFlushedLiterally(t *testing.T) {
	events := []Event{textEvent("text [[Never Closed")}
	out := ScanReferences(events)

	var b []byte
	for _, ev := range out {
		if ev.Kind == EventText {
			b = append(b, ev.Text...)
		}
		if ev.Kind == EventObsidianReference {
			t.Error("an unterminated reference must not produce a sentinel")
		}
	}
	if string(b) != "text [[Never Closed" {
		t.Errorf("reconstructed text = %q, want %q", string(b), "text [[Never Closed")
	}
}

func TestScanReferences_AbortedByNonEmphasisConstruct(t *testing.T) {
	// A block-level construct (e.g. a code span) interrupting a reference
	// attempt aborts it: everything consumed so far is replayed literally.
	events := []Event{
		textEvent("[[Note "),
		{Kind: EventCode, Text: "code"},
		textEvent(" end]]"),
	}
	out := ScanReferences(events)

	for _, ev := range out {
		if ev.Kind == EventObsidianReference {
			t.Error("an interrupted reference attempt must not produce a sentinel")
		}
	}
}
