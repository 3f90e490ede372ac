package dungeonmark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mr-Byte/dungeon-mark/internal/cmark"
)

// TOCFileName is the markdown file describing the table of contents,
// located at the root of the journal source directory.
const TOCFileName = "JOURNAL.md"

// TableOfContents is the parsed JOURNAL.md index file.
type TableOfContents struct {
	// Title is the optional title of the table of contents. Empty means the
	// source carried no top-level heading before its first item.
	Title string `json:"title,omitempty"`

	// Items are the entries of the table of contents in document order.
	Items []TOCItem `json:"items"`
}

// TOCItem is one line of the table of contents: exactly one of Link or
// SectionTitle is set, or Separator is true.
type TOCItem struct {
	Link         *Link         `json:"link,omitempty"`
	SectionTitle *SectionTitle `json:"sectionTitle,omitempty"`
	Separator    bool          `json:"separator,omitempty"`
}

// Link is a table of contents entry pointing at a journal entry file.
type Link struct {
	// Name is the rendered link text.
	Name string `json:"name"`

	// Location is the link target relative to the journal source directory.
	// Empty means the link has no target and loads no entry.
	Location string `json:"location,omitempty"`

	// NestedItems are items from a sub-list immediately following the link.
	NestedItems []TOCItem `json:"nestedItems,omitempty"`
}

// SectionTitle is a titled division of the table of contents, introduced by
// a top-level H1 heading between item lists.
type SectionTitle struct {
	Title string `json:"title"`
}

// AsLink returns the item's link when the item is one.
func (i *TOCItem) AsLink() (*Link, bool) {
	if i.Link != nil {
		return i.Link, true
	}
	return nil, false
}

// AsSectionTitle returns the item's section title when the item is one.
func (i *TOCItem) AsSectionTitle() (*SectionTitle, bool) {
	if i.SectionTitle != nil {
		return i.SectionTitle, true
	}
	return nil, false
}

// IsSeparator reports whether the item is a separator.
func (i *TOCItem) IsSeparator() bool {
	return i.Separator
}

// LoadTOC reads and parses JOURNAL.md from the given source directory.
func LoadTOC(sourceDir string) (*TableOfContents, error) {
	path := filepath.Join(sourceDir, TOCFileName)
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	toc, err := ParseTOC(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return toc, nil
}

// ParseTOC parses table of contents source text into its title and items.
func ParseTOC(source string) (*TableOfContents, error) {
	p := &tocParser{cur: cmark.NewCursor(source)}

	title := p.parseTitle()
	items, err := p.parseItems()
	if err != nil {
		return nil, err
	}

	return &TableOfContents{Title: title, Items: items}, nil
}

type tocParser struct {
	cur *cmark.Cursor
}

// parseTitle consumes a leading H1 heading as the TOC title, skipping raw
// HTML comments before it. Anything else leaves the title absent and the
// stream untouched.
func (p *tocParser) parseTitle() string {
	for {
		e, ok := p.cur.Peek()
		if !ok {
			return ""
		}
		switch {
		case e.Kind == cmark.KindHeadingStart && e.Level == 1:
			p.cur.Next()
			events := p.cur.CollectThrough(func(e cmark.Event) bool {
				return e.Kind == cmark.KindHeadingEnd && e.Level == 1
			})
			return cmark.RenderInline(events, "")
		case e.Kind == cmark.KindHTML:
			p.cur.Next()
		default:
			return ""
		}
	}
}

// parseItems alternates between section titles introduced by top-level H1
// headings and runs of list items until the stream is exhausted.
func (p *tocParser) parseItems() ([]TOCItem, error) {
	var items []TOCItem

	for {
		e, ok := p.cur.Peek()
		if !ok {
			break
		}
		if e.Kind == cmark.KindHeadingStart && e.Level == 1 {
			p.cur.Next()
			events := p.cur.CollectThrough(func(e cmark.Event) bool {
				return e.Kind == cmark.KindHeadingEnd && e.Level == 1
			})
			items = append(items, TOCItem{SectionTitle: &SectionTitle{Title: cmark.RenderInline(events, "")}})
		}

		run, err := p.parseItemRun()
		if err != nil {
			return nil, err
		}
		items = append(items, run...)
	}

	return items, nil
}

// parseItemRun parses consecutive TOC items until a new top-level H1
// heading, the end of the enclosing list, or the end of the stream.
func (p *tocParser) parseItemRun() ([]TOCItem, error) {
	var items []TOCItem

	for {
		e, ok := p.cur.Peek()
		if !ok {
			return items, nil
		}

		switch {
		case e.Kind == cmark.KindHeadingStart && e.Level == 1:
			// A new section is being started; the outer loop owns it.
			return items, nil

		case e.Kind == cmark.KindItemStart:
			p.cur.Next()
			item, err := p.parseItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)

		case e.Kind == cmark.KindListStart:
			p.cur.Next()
			if len(items) == 0 {
				continue
			}
			if link, ok := items[len(items)-1].AsLink(); ok {
				nested, err := p.parseItemRun()
				if err != nil {
					return nil, err
				}
				link.NestedItems = nested
			}

		case e.Kind == cmark.KindListEnd:
			p.cur.Next()
			return items, nil

		case e.Kind == cmark.KindRule:
			p.cur.Next()
			items = append(items, TOCItem{Separator: true})

		case e.IsStart():
			p.cur.Next()
			p.cur.SkipBalanced(e)

		default:
			p.cur.Next()
		}
	}
}

// parseItem parses the payload of a single list item, which must be a link
// after an optional paragraph wrapper.
func (p *tocParser) parseItem() (TOCItem, error) {
	for {
		e, ok := p.cur.Next()
		switch {
		case ok && e.Kind == cmark.KindParagraphStart:
			continue
		case ok && e.Kind == cmark.KindLinkStart:
			return TOCItem{Link: p.parseLink(e.Destination)}, nil
		default:
			return TOCItem{}, p.parseError(ErrTOCItemContent)
		}
	}
}

// parseLink renders the link text with line breaks collapsed to spaces and
// unescapes encoded spaces in the target.
func (p *tocParser) parseLink(href string) *Link {
	events := p.cur.CollectThrough(func(e cmark.Event) bool {
		return e.Kind == cmark.KindLinkEnd
	})

	return &Link{
		Name:     cmark.RenderInline(events, " "),
		Location: strings.ReplaceAll(href, "%20", " "),
	}
}

func (p *tocParser) parseError(err error) error {
	pos := p.cur.Position()
	return &ParseError{Line: pos.Line, Column: pos.Column, Err: err}
}
