package cmark

import (
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line and column derived from byte offsets.
type Position struct {
	Line   int
	Column int
}

// Cursor is a peekable cursor over the event stream of a single markdown
// source. It records the offset of the last consumed event so that parse
// failures can report a line and column.
type Cursor struct {
	source string
	events []Event
	next   int
	offset int
}

// NewCursor tokenizes source and returns a cursor positioned before the
// first event.
func NewCursor(source string) *Cursor {
	return &Cursor{
		source: source,
		events: tokenize(source),
	}
}

// Source returns the text the cursor was built from.
func (c *Cursor) Source() string {
	return c.source
}

// Peek returns the next event without consuming it.
func (c *Cursor) Peek() (Event, bool) {
	if c.next >= len(c.events) {
		return Event{}, false
	}
	return c.events[c.next], true
}

// Next consumes and returns the next event, recording its offset.
func (c *Cursor) Next() (Event, bool) {
	if c.next >= len(c.events) {
		return Event{}, false
	}
	e := c.events[c.next]
	c.next++
	c.offset = e.Start
	return e, true
}

// Position reports the line and column of the last consumed event. Lines
// count newline bytes before the offset; the column counts characters since
// the start of the line.
func (c *Cursor) Position() Position {
	prefix := c.source
	if c.offset < len(prefix) {
		prefix = prefix[:c.offset]
	}
	line := strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n')
	if lineStart < 0 {
		lineStart = 0
	}
	column := utf8.RuneCountInString(prefix[lineStart:])

	return Position{Line: line, Column: column}
}

// CollectUntil drains and returns events while stop is false, leaving the
// matching event unconsumed. Reaching the end of the stream is not an error.
func (c *Cursor) CollectUntil(stop func(Event) bool) []Event {
	var events []Event
	for {
		e, ok := c.Peek()
		if !ok || stop(e) {
			return events
		}
		c.Next()
		events = append(events, e)
	}
}

// CollectThrough drains and returns events until stop matches, additionally
// consuming the matching event without including it in the result.
func (c *Cursor) CollectThrough(stop func(Event) bool) []Event {
	var events []Event
	for {
		e, ok := c.Next()
		if !ok || stop(e) {
			return events
		}
		events = append(events, e)
	}
}

// SkipBalanced consumes events until the end event matching start has been
// consumed, tracking nesting of identical containers. The start event itself
// must already have been consumed.
func (c *Cursor) SkipBalanced(start Event) {
	depth := 1
	for {
		e, ok := c.Next()
		if !ok {
			return
		}
		switch {
		case e.opens(start):
			depth++
		case e.Closes(start):
			depth--
			if depth == 0 {
				return
			}
		}
	}
}
