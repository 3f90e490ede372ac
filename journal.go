package dungeonmark

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mr-Byte/dungeon-mark/internal/cmark"
)

// Journal is the in-memory representation of the whole compendium, built by
// walking the table of contents and loading one entry per link.
type Journal struct {
	// Title is the optional journal title taken from the table of contents.
	Title string `json:"title,omitempty"`

	// Items are the journal slots in table of contents order.
	Items []JournalItem `json:"items"`
}

// JournalItem is one slot in the journal, mirroring the shape of a TOCItem
// after entry loading: exactly one of Entry or ChapterTitle is set, or
// Separator is true.
type JournalItem struct {
	Entry        *JournalEntry `json:"entry,omitempty"`
	ChapterTitle *ChapterTitle `json:"chapterTitle,omitempty"`
	Separator    bool          `json:"separator,omitempty"`
}

// ChapterTitle is a titled division of the journal.
type ChapterTitle struct {
	Title string `json:"title"`
}

// AsEntry returns the item's entry when the item is one.
func (i *JournalItem) AsEntry() (*JournalEntry, bool) {
	if i.Entry != nil {
		return i.Entry, true
	}
	return nil, false
}

// AsChapterTitle returns the item's chapter title when the item is one.
func (i *JournalItem) AsChapterTitle() (*ChapterTitle, bool) {
	if i.ChapterTitle != nil {
		return i.ChapterTitle, true
	}
	return nil, false
}

// IsSeparator reports whether the item is a separator.
func (i *JournalItem) IsSeparator() bool {
	return i.Separator
}

// JournalEntry is the in-memory representation of a single markdown file.
// Immediately after loading, Body holds the raw file text and Sections is
// empty; after the parse stage, Body holds the preamble preceding the first
// heading (empty when there is none) and Sections holds the heading tree.
type JournalEntry struct {
	// Title of the entry, taken from the table of contents link text unless
	// a title directive replaced it.
	Title string `json:"title"`

	// Body is the raw file text before parsing, the preamble after.
	Body string `json:"body,omitempty"`

	// Sections are the top-level sections of the entry.
	Sections []Section `json:"sections,omitempty"`

	// Path is the entry file location relative to the source directory.
	Path string `json:"path,omitempty"`

	// Level is the nesting depth of the entry in the table of contents,
	// starting at 1 for top-level links.
	Level int `json:"level"`
}

// LoadEntry reads an entry file located at path relative to sourceDir. The
// raw text is stored unparsed; Parse builds the section tree later, after
// preprocessing.
func LoadEntry(title, sourceDir, path string, level int) (*JournalEntry, error) {
	filePath := filepath.Join(sourceDir, path)
	data, err := os.ReadFile(filePath) // #nosec G304 -- path comes from the user's table of contents
	if err != nil {
		return nil, fmt.Errorf("failed to read journal entry %s: %w", filePath, err)
	}

	return &JournalEntry{
		Title: title,
		Body:  string(data),
		Path:  path,
		Level: level,
	}, nil
}

// Parse splits the raw body into a preamble and a section tree. Calling it
// on an already parsed entry re-parses the preamble alone.
func (e *JournalEntry) Parse() error {
	body, sections, err := parseSections(e.Body)
	if err != nil {
		return fmt.Errorf("unable to parse journal entry %s: %w", e.Path, err)
	}

	e.Body = body
	e.Sections = append(e.Sections, sections...)

	return nil
}

// ForEachSection visits every section of the entry depth-first, children
// before their parent.
func (e *JournalEntry) ForEachSection(fn func(*Section)) {
	_ = forEachSection(e.Sections, func(s *Section) error {
		fn(s)
		return nil
	})
}

// TryForEachSection visits every section of the entry depth-first, children
// before their parent, halting at the first error.
func (e *JournalEntry) TryForEachSection(fn func(*Section) error) error {
	return forEachSection(e.Sections, fn)
}

// parseSections parses one document's markdown into the preamble preceding
// the first heading and the heading-nested section tree that follows.
func parseSections(source string) (string, []Section, error) {
	p := &entryParser{cur: cmark.NewCursor(source)}

	body := p.parseBody()
	sections := p.parseTopLevel()

	return body, sections, nil
}

type entryParser struct {
	cur *cmark.Cursor
}

// parseBody renders every event up to the first heading start.
func (p *entryParser) parseBody() string {
	events := p.cur.CollectUntil(func(e cmark.Event) bool {
		return e.Kind == cmark.KindHeadingStart
	})

	return cmark.Stringify(p.cur.Source(), events)
}

// parseTopLevel repeatedly parses sections at the outer scope. Stray
// non-heading events are tolerated and skipped.
func (p *entryParser) parseTopLevel() []Section {
	var sections []Section

	for {
		e, ok := p.cur.Next()
		if !ok {
			return sections
		}
		if e.Kind == cmark.KindHeadingStart {
			sections = append(sections, p.parseSection(e.Level))
		}
	}
}

// parseSection parses the section owned by an already consumed heading
// start of the given level, recursing into strictly deeper headings.
func (p *entryParser) parseSection(level int) Section {
	title := p.cur.CollectThrough(func(e cmark.Event) bool {
		return e.Kind == cmark.KindHeadingEnd
	})

	body := p.cur.CollectUntil(func(e cmark.Event) bool {
		return e.Kind == cmark.KindHeadingStart
	})

	var children []Section
	for {
		e, ok := p.cur.Peek()
		if !ok || e.Kind != cmark.KindHeadingStart || e.Level <= level {
			break
		}
		p.cur.Next()
		children = append(children, p.parseSection(e.Level))
	}

	return Section{
		Title:    cmark.RenderInline(title, ""),
		Level:    SectionLevel(level),
		Body:     cmark.Stringify(p.cur.Source(), body),
		Sections: children,
	}
}
