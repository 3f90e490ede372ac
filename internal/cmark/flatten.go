package cmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdown is the shared tokenizer. Strikethrough and tables match the
// options the journal format accepts; both surface as generic container
// events to the parsers.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Table,
	),
)

// tokenize parses source and flattens the resulting AST into a linear event
// stream with byte offsets.
func tokenize(source string) []Event {
	src := []byte(source)
	root := markdown.Parser().Parse(text.NewReader(src))

	f := &flattener{src: src}
	f.children(root)

	return f.events
}

type flattener struct {
	src    []byte
	events []Event

	// offset is the last byte position established by an event with a known
	// source range; events with no range of their own anchor here.
	offset int
}

func (f *flattener) emit(e Event) {
	if e.End > f.offset {
		f.offset = e.End
	}
	f.events = append(f.events, e)
}

func (f *flattener) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		f.node(c)
	}
}

func (f *flattener) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		start, end := f.blockRange(n)
		f.emit(Event{Kind: KindHeadingStart, Level: n.Level, Start: start, End: start})
		f.children(n)
		f.emit(Event{Kind: KindHeadingEnd, Level: n.Level, Start: end, End: end})

	case *ast.Paragraph:
		start, end := f.blockRange(n)
		f.emit(Event{Kind: KindParagraphStart, Start: start, End: start})
		f.children(n)
		f.emit(Event{Kind: KindParagraphEnd, Start: end, End: end})

	case *ast.TextBlock:
		// Tight list item content carries no paragraph wrapper, matching
		// CommonMark event streams.
		f.children(n)

	case *ast.ThematicBreak:
		f.emit(Event{Kind: KindRule, Start: f.offset, End: f.offset})

	case *ast.List:
		f.emit(Event{Kind: KindListStart, Start: f.offset, End: f.offset})
		f.children(n)
		f.emit(Event{Kind: KindListEnd, Start: f.offset, End: f.offset})

	case *ast.ListItem:
		f.emit(Event{Kind: KindItemStart, Start: f.offset, End: f.offset})
		f.children(n)
		f.emit(Event{Kind: KindItemEnd, Start: f.offset, End: f.offset})

	case *ast.Blockquote:
		f.emit(Event{Kind: KindBlockquoteStart, Start: f.offset, End: f.offset})
		f.children(n)
		f.emit(Event{Kind: KindBlockquoteEnd, Start: f.offset, End: f.offset})

	case *ast.FencedCodeBlock:
		f.fencedCodeBlock(n)

	case *ast.CodeBlock:
		start, end := f.blockRange(n)
		f.emit(Event{Kind: KindCodeBlockStart, Start: start, End: start})
		f.emit(Event{Kind: KindText, Text: string(f.lineBytes(n)), Start: start, End: end})
		f.emit(Event{Kind: KindCodeBlockEnd, Start: end, End: end})

	case *ast.HTMLBlock:
		f.htmlBlock(n)

	case *ast.Text:
		seg := n.Segment
		f.emit(Event{Kind: KindText, Text: string(seg.Value(f.src)), Start: seg.Start, End: seg.Stop})
		if n.HardLineBreak() {
			f.emit(Event{Kind: KindHardBreak, Start: seg.Stop, End: seg.Stop})
		} else if n.SoftLineBreak() {
			f.emit(Event{Kind: KindSoftBreak, Start: seg.Stop, End: seg.Stop})
		}

	case *ast.String:
		f.emit(Event{Kind: KindText, Text: string(n.Value), Start: f.offset, End: f.offset})

	case *ast.CodeSpan:
		f.codeSpan(n)

	case *ast.Emphasis:
		kind, end := KindEmphasisStart, KindEmphasisEnd
		if n.Level >= 2 {
			kind, end = KindStrongStart, KindStrongEnd
		}
		f.emit(Event{Kind: kind, Start: f.offset, End: f.offset})
		f.children(n)
		f.emit(Event{Kind: end, Start: f.offset, End: f.offset})

	case *ast.Link:
		f.emit(Event{Kind: KindLinkStart, Destination: string(n.Destination), Start: f.offset, End: f.offset})
		f.children(n)
		f.emit(Event{Kind: KindLinkEnd, Destination: string(n.Destination), Start: f.offset, End: f.offset})

	case *ast.AutoLink:
		url := string(n.URL(f.src))
		f.emit(Event{Kind: KindLinkStart, Destination: url, Start: f.offset, End: f.offset})
		f.emit(Event{Kind: KindText, Text: string(n.Label(f.src)), Start: f.offset, End: f.offset})
		f.emit(Event{Kind: KindLinkEnd, Destination: url, Start: f.offset, End: f.offset})

	case *ast.RawHTML:
		f.rawHTML(n)

	default:
		// Tables, strikethrough, images, and anything future goldmark
		// versions add surface as generic balanced containers.
		name := n.Kind().String()
		start, end := f.blockRange(n)
		f.emit(Event{Kind: KindOtherStart, Name: name, Start: start, End: start})
		f.children(n)
		if end < f.offset {
			end = f.offset
		}
		f.emit(Event{Kind: KindOtherEnd, Name: name, Start: end, End: end})
	}
}

// blockRange derives the byte range of a block node from its line segments,
// anchoring at the running offset when the node records none.
func (f *flattener) blockRange(n ast.Node) (start, end int) {
	if n.Type() == ast.TypeInline {
		return f.offset, f.offset
	}
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return f.offset, f.offset
	}
	return lines.At(0).Start, lines.At(lines.Len() - 1).Stop
}

// lineBytes concatenates a block node's line segments.
func (f *flattener) lineBytes(n ast.Node) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(f.src))
	}
	return buf.Bytes()
}

// fencedCodeBlock emits start/text/end events spanning the whole construct,
// fences included, so that body extraction keeps untouched blocks intact.
func (f *flattener) fencedCodeBlock(n *ast.FencedCodeBlock) {
	var info string
	anchor := -1
	if n.Info != nil {
		info = string(n.Info.Segment.Value(f.src))
		anchor = n.Info.Segment.Start
	}

	lines := n.Lines()
	contentStart, contentEnd := f.offset, f.offset
	if lines.Len() > 0 {
		contentStart = lines.At(0).Start
		contentEnd = lines.At(lines.Len() - 1).Stop
	}
	if anchor < 0 {
		if lines.Len() > 0 {
			// Step over the newline ending the opening fence line.
			anchor = contentStart - 1
		} else {
			anchor = f.offset
		}
	}

	start := f.lineStart(anchor)
	end := f.closingFenceEnd(contentEnd)

	f.emit(Event{Kind: KindCodeBlockStart, Info: info, Fenced: true, Start: start, End: start})
	f.emit(Event{Kind: KindText, Text: string(f.lineBytes(n)), Start: contentStart, End: contentEnd})
	f.emit(Event{Kind: KindCodeBlockEnd, Fenced: true, Start: end, End: end})
}

// lineStart walks back from pos to the beginning of its line.
func (f *flattener) lineStart(pos int) int {
	if pos > len(f.src) {
		pos = len(f.src)
	}
	if pos < 0 {
		return 0
	}
	if i := bytes.LastIndexByte(f.src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// closingFenceEnd extends pos past a closing fence line when one follows.
// An unterminated block keeps its content end.
func (f *flattener) closingFenceEnd(pos int) int {
	if pos >= len(f.src) {
		return pos
	}
	rest := f.src[pos:]
	lineEnd := bytes.IndexByte(rest, '\n')
	var line []byte
	if lineEnd < 0 {
		line = rest
		lineEnd = len(rest) - 1
	} else {
		line = rest[:lineEnd]
	}
	trimmed := strings.TrimLeft(string(line), " \t")
	if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
		return pos + lineEnd + 1
	}
	return pos
}

func (f *flattener) htmlBlock(n *ast.HTMLBlock) {
	start, end := f.blockRange(n)
	value := f.lineBytes(n)
	if n.HasClosure() {
		value = append(value, n.ClosureLine.Value(f.src)...)
		end = n.ClosureLine.Stop
	}
	f.emit(Event{Kind: KindHTML, Text: string(value), Start: start, End: end})
}

func (f *flattener) rawHTML(n *ast.RawHTML) {
	start, end := f.offset, f.offset
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		if i == 0 {
			start = seg.Start
		}
		end = seg.Stop
		buf.Write(seg.Value(f.src))
	}
	f.emit(Event{Kind: KindHTML, Text: buf.String(), Start: start, End: end})
}

// codeSpan flattens an inline code span to a single event. Line endings
// inside a span read as spaces, as CommonMark renders them.
func (f *flattener) codeSpan(n *ast.CodeSpan) {
	start, end := f.offset, f.offset
	var buf bytes.Buffer
	first := true
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		if first {
			start = t.Segment.Start
			first = false
		}
		end = t.Segment.Stop
		buf.Write(t.Segment.Value(f.src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			buf.WriteByte('\n')
		}
	}
	content := strings.ReplaceAll(buf.String(), "\n", " ")
	f.emit(Event{Kind: KindCodeSpan, Text: content, Start: start, End: end})
}
