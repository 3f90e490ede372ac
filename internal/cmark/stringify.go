package cmark

import "strings"

// Stringify renders an event run back to markdown by slicing the source the
// events were tokenized from, trimming the trailing newlines the tokenizer's
// final block carries. The interior of the run is byte-faithful.
func Stringify(source string, events []Event) string {
	return strings.TrimRight(Slice(source, events), "\n")
}

// Slice returns the raw source text spanned by an event run, without
// normalization. An empty run yields an empty string.
func Slice(source string, events []Event) string {
	if len(events) == 0 {
		return ""
	}

	start, end := events[0].Start, events[0].End
	for _, e := range events[1:] {
		if e.Start < start {
			start = e.Start
		}
		if e.End > end {
			end = e.End
		}
	}
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start >= end {
		return ""
	}

	return source[start:end]
}

// RenderInline renders an inline event run to plain markdown text: code
// spans keep their backticks, emphasis keeps its markers, and soft or hard
// line breaks are replaced by lineBreak.
func RenderInline(events []Event, lineBreak string) string {
	var b strings.Builder
	for _, e := range events {
		switch e.Kind {
		case KindText, KindHTML:
			b.WriteString(e.Text)
		case KindCodeSpan:
			b.WriteString("`")
			b.WriteString(e.Text)
			b.WriteString("`")
		case KindSoftBreak, KindHardBreak:
			b.WriteString(lineBreak)
		case KindEmphasisStart, KindEmphasisEnd:
			b.WriteString("*")
		case KindStrongStart, KindStrongEnd:
			b.WriteString("**")
		}
	}
	return b.String()
}
