// Package cmark wraps the goldmark tokenizer behind a flat, peekable event
// stream. Parsers in the root package operate on events rather than on the
// goldmark AST so that nesting can be inferred from heading levels and list
// boundaries, and so that byte offsets into the source survive for
// diagnostics and body extraction.
package cmark

// EventKind identifies the structural meaning of an Event.
type EventKind int

const (
	KindHeadingStart EventKind = iota
	KindHeadingEnd
	KindParagraphStart
	KindParagraphEnd
	KindListStart
	KindListEnd
	KindItemStart
	KindItemEnd
	KindLinkStart
	KindLinkEnd
	KindCodeBlockStart
	KindCodeBlockEnd
	KindBlockquoteStart
	KindBlockquoteEnd
	KindEmphasisStart
	KindEmphasisEnd
	KindStrongStart
	KindStrongEnd
	KindOtherStart
	KindOtherEnd
	KindText
	KindCodeSpan
	KindSoftBreak
	KindHardBreak
	KindRule
	KindHTML
)

// Event is one structural token emitted by the tokenizer. Start and End are
// byte offsets into the source; container start/end events may be zero-width
// markers while leaf events span their literal text.
type Event struct {
	Kind EventKind

	// Level is the heading level (1-6) for heading events.
	Level int

	// Info is the fenced code block info string.
	Info string

	// Fenced reports whether a code block event came from a fenced block.
	Fenced bool

	// Destination is the raw link target for link events.
	Destination string

	// Name disambiguates generic container events by their AST kind.
	Name string

	// Text is the literal content of text, code span, and raw HTML events.
	Text string

	Start int
	End   int
}

// IsStart reports whether the event opens a container.
func (e Event) IsStart() bool {
	switch e.Kind {
	case KindHeadingStart, KindParagraphStart, KindListStart, KindItemStart,
		KindLinkStart, KindCodeBlockStart, KindBlockquoteStart,
		KindEmphasisStart, KindStrongStart, KindOtherStart:
		return true
	}
	return false
}

// endKind maps a container start kind to its matching end kind.
func endKind(k EventKind) (EventKind, bool) {
	switch k {
	case KindHeadingStart:
		return KindHeadingEnd, true
	case KindParagraphStart:
		return KindParagraphEnd, true
	case KindListStart:
		return KindListEnd, true
	case KindItemStart:
		return KindItemEnd, true
	case KindLinkStart:
		return KindLinkEnd, true
	case KindCodeBlockStart:
		return KindCodeBlockEnd, true
	case KindBlockquoteStart:
		return KindBlockquoteEnd, true
	case KindEmphasisStart:
		return KindEmphasisEnd, true
	case KindStrongStart:
		return KindStrongEnd, true
	case KindOtherStart:
		return KindOtherEnd, true
	}
	return 0, false
}

// Closes reports whether e is the end event matching the given start event.
// Generic containers are matched by AST kind name and headings by level,
// mirroring tag equality in event-stream markdown parsers.
func (e Event) Closes(start Event) bool {
	end, ok := endKind(start.Kind)
	if !ok || e.Kind != end {
		return false
	}
	if start.Kind == KindHeadingStart && e.Level != start.Level {
		return false
	}
	if start.Kind == KindOtherStart && e.Name != start.Name {
		return false
	}
	return true
}

// opens reports whether e starts a container of the same shape as start,
// used for depth tracking while skipping balanced spans.
func (e Event) opens(start Event) bool {
	if e.Kind != start.Kind {
		return false
	}
	if start.Kind == KindHeadingStart && e.Level != start.Level {
		return false
	}
	if start.Kind == KindOtherStart && e.Name != start.Name {
		return false
	}
	return true
}
