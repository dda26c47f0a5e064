package obsidian

// PostprocessorResult tells the Note Pipeline what to do after a
// postprocessor has run.
type PostprocessorResult int

const (
	// Continue runs the remaining postprocessors in the chain.
	Continue PostprocessorResult = iota
	// StopHere skips any remaining postprocessors but still exports the
	// note with what has been produced so far.
	StopHere
	// StopAndSkipNote aborts the note's export entirely: nothing is
	// written for it.
	StopAndSkipNote
)

// Postprocessor transforms a note's events and/or frontmatter in place (via
// ctx) before the note is rendered and written. It returns a
// PostprocessorResult telling the pipeline whether to continue the chain.
//
// Two independent ordered chains exist on an Exporter: the main
// "postprocessors" chain, which runs once on each root note, and the
// "embed postprocessors" chain, which runs only on an embedded note's
// events after its references are expanded and any section reduction is
// applied, before being spliced into its parent —
// mutations an embed postprocessor makes are local to that embed and never
// leak back into the parent note's own context.
type Postprocessor func(ctx *Context, events []Event) ([]Event, PostprocessorResult)

// RunChain executes postprocessors in order against events, threading ctx
// through each call, stopping early per the first non-Continue result.
func RunChain(postprocessors []Postprocessor, ctx *Context, events []Event) ([]Event, PostprocessorResult) {
	result := Continue
	for _, pp := range postprocessors {
		var r PostprocessorResult
		events, r = pp(ctx, events)
		if r != Continue {
			result = r
			break
		}
	}
	return events, result
}
