package obsidian

import "strings"

// ReduceToSection keeps only the subtree of events belonging to the
// heading whose text case-insensitively matches heading: the heading
// itself and everything up to (but not including) the next heading at the
// same or a shallower level. If no heading matches, it returns an empty
// slice — the embedded note contributed nothing for a missing section.
func ReduceToSection(events []Event, heading string) []Event {
	target := strings.ToLower(strings.TrimSpace(heading))

	var out []Event
	inSection := false
	sectionLevel := 0

	i := 0
	for i < len(events) {
		ev := events[i]

		if ev.Kind == EventStart && ev.Tag.Kind == TagHeading {
			level := ev.Tag.Level
			text, endIdx := headingText(events, i)

			if inSection && level <= sectionLevel {
				break
			}

			if !inSection && strings.ToLower(strings.TrimSpace(text)) == target {
				inSection = true
				sectionLevel = level
			}

			if inSection {
				out = append(out, events[i:endIdx+1]...)
			}
			i = endIdx + 1
			continue
		}

		if inSection {
			out = append(out, ev)
		}
		i++
	}

	return out
}

// headingText returns the concatenated text of the heading starting at
// events[start] (a Start/TagHeading event) and the index of its matching
// End event.
func headingText(events []Event, start int) (string, int) {
	var b strings.Builder
	for i := start + 1; i < len(events); i++ {
		ev := events[i]
		if ev.Kind == EventEnd && ev.Tag.Kind == TagHeading {
			return b.String(), i
		}
		if ev.Kind == EventText {
			b.WriteString(ev.Text)
		}
	}
	return b.String(), len(events) - 1
}
