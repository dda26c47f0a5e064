package obsidian

import "strings"

// scanState is the Reference Scanner's state, matching the six states the
// spec describes for recognizing [[...]] and ![[...]] spans across a flat
// event stream rather than a single string.
type scanState int

const (
	// stateNoState: not inside any candidate reference.
	stateNoState scanState = iota
	// stateExpectSecondOpenBracket: saw one "[" at the very end of a Text
	// event and is waiting for the next event to begin with another "[".
	stateExpectSecondOpenBracket
	// stateExpectRefText: just consumed "[[" (or "![["); accumulating the
	// reference body until "]]" is found.
	stateExpectRefText
	// stateExpectRefTextOrCloseBracket: mid-reference-body, where the body
	// spans more than one Text event (an event boundary fell inside it).
	stateExpectRefTextOrCloseBracket
	// stateExpectFinalCloseBracket: saw one "]" at the very end of a Text
	// event while mid-reference and is waiting for the closing "]".
	stateExpectFinalCloseBracket
	// stateResetting: named for completeness and never entered; a failed
	// attempt is replayed at once by abort, which returns the scanner to
	// stateNoState.
	stateResetting
)

// emphasisMarker returns the literal characters a Start/End event for an
// emphasis-class tag would have produced in the source, used to
// reconstruct reference text that got fragmented by the parser treating
// *bold*, _italic_, ~~strike~~ spans inside [[...]] as real inline
// formatting (the "accumulation quirk").
func emphasisMarker(kind TagKind) (string, bool) {
	switch kind {
	case TagEmphasis:
		return "*", true
	case TagStrong:
		return "**", true
	case TagStrikethrough:
		return "~~", true
	default:
		return "", false
	}
}

// ScanReferences rewrites events, replacing every recognized [[...]] and
// ![[...]] span with a single EventObsidianReference sentinel. Events that
// are not part of a successfully recognized reference are passed through
// unchanged, including bracket text that looked like it might start a
// reference but turned out not to be one (e.g. a single "[" with no
// matching close, or a reference interrupted by a block-level construct
// other than emphasis/strong/strikethrough).
func ScanReferences(events []Event) []Event {
	s := &scanner{}
	for _, ev := range events {
		s.feed(ev)
	}
	s.flushIncomplete()
	return s.out
}

type scanner struct {
	out   []Event
	state scanState

	// pending holds the raw events consumed so far while trying to
	// recognize a reference (the opening bracket text, any emphasis
	// Start/End events folded into the accumulation quirk), replayed
	// literally if the attempt fails.
	pending []Event

	// textAccum is the reconstructed reference body text, including any
	// reinserted emphasis markers.
	textAccum strings.Builder

	isEmbed      bool
	pendingEmbed bool
}

func (s *scanner) feed(ev Event) {
	switch s.state {
	case stateNoState:
		s.feedNoState(ev)
	case stateExpectSecondOpenBracket:
		s.feedExpectSecondOpenBracket(ev)
	case stateExpectFinalCloseBracket:
		s.feedExpectFinalCloseBracket(ev)
	default:
		s.feedInsideReference(ev)
	}
}

func (s *scanner) feedNoState(ev Event) {
	if ev.Kind != EventText {
		s.out = append(s.out, ev)
		return
	}
	s.scanText(ev.Text)
}

// scanText looks for "[[" (optionally preceded by "!") within text,
// emitting ordinary text up to the match and opening a reference attempt
// when found. A trailing lone "[" defers the decision to the next event.
func (s *scanner) scanText(text string) {
	for {
		idx := strings.Index(text, "[[")
		if idx < 0 {
			if strings.HasSuffix(text, "[") {
				literal := text[:len(text)-1]
				embed := strings.HasSuffix(literal, "!")
				if embed {
					literal = literal[:len(literal)-1]
				}
				if literal != "" {
					s.out = append(s.out, Event{Kind: EventText, Text: literal})
				}
				opener := "["
				if embed {
					opener = "!["
				}
				s.pending = []Event{{Kind: EventText, Text: opener}}
				s.pendingEmbed = embed
				s.state = stateExpectSecondOpenBracket
				return
			}
			s.out = append(s.out, Event{Kind: EventText, Text: text})
			return
		}

		before := text[:idx]
		embed := strings.HasSuffix(before, "!")
		if embed {
			before = before[:len(before)-1]
		}
		if before != "" {
			s.out = append(s.out, Event{Kind: EventText, Text: before})
		}

		s.beginReference(embed)
		text = text[idx+2:]
		remaining, closed := s.consumeRefText(text)
		if !closed || remaining == "" {
			return
		}
		text = remaining
	}
}

func (s *scanner) feedExpectSecondOpenBracket(ev Event) {
	if ev.Kind != EventText || !strings.HasPrefix(ev.Text, "[") {
		// Not actually a reference opener: replay the lone "[" literally
		// and reprocess this event fresh.
		s.out = append(s.out, s.pending...)
		s.pending = nil
		s.state = stateNoState
		s.feed(ev)
		return
	}
	s.beginReference(s.pendingEmbed)
	rest := ev.Text[1:]
	remaining, closed := s.consumeRefText(rest)
	if closed && remaining != "" {
		s.scanText(remaining)
	}
}

func (s *scanner) beginReference(embed bool) {
	s.state = stateExpectRefText
	s.isEmbed = embed
	s.textAccum.Reset()
	s.pending = nil
}

// consumeRefText scans text for the reference's closing "]]". It returns
// the text remaining after the match and true when found (leaving the
// scanner in stateNoState already so the caller can keep scanning the
// remainder), or leaves the scanner mid-state and returns ("", false).
func (s *scanner) consumeRefText(text string) (string, bool) {
	idx := strings.Index(text, "]]")
	if idx < 0 {
		if strings.HasSuffix(text, "]") && text != "]" {
			s.textAccum.WriteString(text[:len(text)-1])
			s.pending = append(s.pending, Event{Kind: EventText, Text: "]"})
			s.state = stateExpectFinalCloseBracket
			return "", false
		}
		if text == "]" {
			s.pending = append(s.pending, Event{Kind: EventText, Text: text})
			s.state = stateExpectFinalCloseBracket
			return "", false
		}
		s.textAccum.WriteString(text)
		s.state = stateExpectRefTextOrCloseBracket
		return "", false
	}
	s.textAccum.WriteString(text[:idx])
	s.completeReference()
	return text[idx+2:], true
}

func (s *scanner) feedExpectFinalCloseBracket(ev Event) {
	if ev.Kind == EventText && strings.HasPrefix(ev.Text, "]") {
		s.completeReference()
		rest := ev.Text[1:]
		if rest != "" {
			s.scanText(rest)
		}
		return
	}
	s.abort(ev)
}

func (s *scanner) feedInsideReference(ev Event) {
	switch ev.Kind {
	case EventText:
		remaining, closed := s.consumeRefText(ev.Text)
		if closed && remaining != "" {
			s.scanText(remaining)
		}
	case EventStart:
		if marker, ok := emphasisMarker(ev.Tag.Kind); ok {
			s.textAccum.WriteString(marker)
			return
		}
		s.abort(ev)
	case EventEnd:
		if marker, ok := emphasisMarker(ev.Tag.Kind); ok {
			s.textAccum.WriteString(marker)
			return
		}
		s.abort(ev)
	default:
		s.abort(ev)
	}
}

// completeReference finalizes a successfully matched [[...]]/![[...]]
// span, parsing its accumulated text and emitting the sentinel event. A
// body with no file, section or label (e.g. [[]]) is not a reference and
// is emitted as literal text instead.
func (s *scanner) completeReference() {
	body := s.textAccum.String()
	ref := ParseRefText(body)
	if ref.File == nil && ref.Section == nil && ref.Label == nil {
		prefix := "[["
		if s.isEmbed {
			prefix = "![["
		}
		s.out = append(s.out, Event{Kind: EventText, Text: prefix + body + "]]"})
	} else {
		s.out = append(s.out, Event{
			Kind:      EventObsidianReference,
			Reference: ref,
			IsEmbed:   s.isEmbed,
		})
	}
	s.state = stateNoState
	s.pending = nil
	s.textAccum.Reset()
}

// abort gives up on the in-progress reference attempt: the opening
// bracket(s), any accumulated text, and any folded-in events are emitted
// literally, then the triggering event is processed fresh from NoState.
func (s *scanner) abort(current Event) {
	prefix := "[["
	if s.isEmbed {
		prefix = "![["
	}
	s.out = append(s.out, Event{Kind: EventText, Text: prefix})
	if s.textAccum.Len() > 0 {
		s.out = append(s.out, Event{Kind: EventText, Text: s.textAccum.String()})
	}
	s.out = append(s.out, s.pending...)

	s.state = stateNoState
	s.textAccum.Reset()
	s.pending = nil
	s.feed(current)
}

// flushIncomplete handles end-of-stream while a reference attempt is still
// open: it was never closed, so everything consumed is emitted literally.
func (s *scanner) flushIncomplete() {
	if s.state == stateNoState {
		return
	}
	if s.state == stateExpectSecondOpenBracket {
		s.out = append(s.out, s.pending...)
		s.pending = nil
		s.state = stateNoState
		return
	}
	prefix := "[["
	if s.isEmbed {
		prefix = "![["
	}
	s.out = append(s.out, Event{Kind: EventText, Text: prefix})
	if s.textAccum.Len() > 0 {
		s.out = append(s.out, Event{Kind: EventText, Text: s.textAccum.String()})
	}
	s.out = append(s.out, s.pending...)
	s.state = stateNoState
}
