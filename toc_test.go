package dungeonmark

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// parseTOC is a test helper that fails the test on a parse error.
func parseTOC(t *testing.T, source string) *TableOfContents {
	t.Helper()

	toc, err := ParseTOC(source)
	if err != nil {
		t.Fatalf("ParseTOC() error: %v", err)
	}
	return toc
}

func link(name, location string, nested ...TOCItem) TOCItem {
	return TOCItem{Link: &Link{Name: name, Location: location, NestedItems: nested}}
}

func sectionTitle(title string) TOCItem {
	return TOCItem{SectionTitle: &SectionTitle{Title: title}}
}

func separator() TOCItem {
	return TOCItem{Separator: true}
}

func TestParseTOC_Title(t *testing.T) {
	t.Parallel()

	toc := parseTOC(t, "# Journal Title")

	if toc.Title != "Journal Title" {
		t.Errorf("Title = %q, want %q", toc.Title, "Journal Title")
	}
}

func TestParseTOC_SkipsCommentsBeforeTitle(t *testing.T) {
	t.Parallel()

	toc := parseTOC(t, "<!-- # Journal Title -->\n# Actual Title\n")

	if toc.Title != "Actual Title" {
		t.Errorf("Title = %q, want %q", toc.Title, "Actual Title")
	}
}

func TestParseTOC_NoTitle(t *testing.T) {
	t.Parallel()

	toc := parseTOC(t, "* [Entry 1](entry1.md)\n")

	if toc.Title != "" {
		t.Errorf("Title = %q, want empty", toc.Title)
	}
	if len(toc.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(toc.Items))
	}
}

func TestParseTOC_Items(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []TOCItem
	}{
		{
			name:   "top level links",
			source: "\n* [Entry 1](entry1.md)\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "links separated by comments",
			source: "\n* [Entry 1](entry1.md)\n<!-- comment -->\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "links separated by a rule",
			source: "\n* [Entry 1](entry1.md)\n---\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
				separator(),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "links separated by a heading",
			source: "\n* [Entry 1](entry1.md)\n# Next Section\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
				sectionTitle("Next Section"),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "second level heading is not a section title",
			source: "\n* [Entry 1](entry1.md)\n## Next Section\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "heading followed by a paragraph",
			source: "\n* [Entry 1](entry1.md)\n# Next Section\nThis is a paragraph.\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
				sectionTitle("Next Section"),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "nested links",
			source: "\n* [Entry 1](entry1.md)\n  1. [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md",
					link("Entry 2", "entry2.md")),
			},
		},
		{
			name:   "nested links before a second level heading",
			source: "\n* [Entry 1](entry1.md)\n  * [Subentry 1](sub_entry1.md)\n## Next Section\n* [Entry 2](entry2.md)\n",
			want: []TOCItem{
				link("Entry 1", "entry1.md",
					link("Subentry 1", "sub_entry1.md")),
				link("Entry 2", "entry2.md"),
			},
		},
		{
			name:   "link name with a line break collapses to a space",
			source: "* [Entry\n1](entry1.md)",
			want: []TOCItem{
				link("Entry 1", "entry1.md"),
			},
		},
		{
			name:   "encoded spaces in the target are unescaped",
			source: "* [Entry 1](my%20entry.md)",
			want: []TOCItem{
				link("Entry 1", "my entry.md"),
			},
		},
		{
			name:   "link without a target has no location",
			source: "* [Draft Entry]()",
			want: []TOCItem{
				link("Draft Entry", ""),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			toc := parseTOC(t, tt.source)
			if diff := cmp.Diff(tt.want, toc.Items); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTOC_ItemMustContainLink(t *testing.T) {
	t.Parallel()

	_, err := ParseTOC("* not a link\n")
	if err == nil {
		t.Fatal("ParseTOC() succeeded, want error")
	}
	if !errors.Is(err, ErrTOCItemContent) {
		t.Errorf("error = %v, want ErrTOCItemContent", err)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error %v does not carry a position", err)
	}
	if parseErr.Line != 1 {
		t.Errorf("Line = %d, want 1", parseErr.Line)
	}
}

func TestParseTOC_ErrorPositionOnLaterLine(t *testing.T) {
	t.Parallel()

	_, err := ParseTOC("* [Entry 1](entry1.md)\n\nParagraph.\n\n* plain text item\n")
	if err == nil {
		t.Fatal("ParseTOC() succeeded, want error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error %v does not carry a position", err)
	}
	if parseErr.Line != 5 {
		t.Errorf("Line = %d, want 5", parseErr.Line)
	}
}

func TestTOCItem_Accessors(t *testing.T) {
	t.Parallel()

	items := []TOCItem{
		link("Entry", "entry.md"),
		sectionTitle("Chapter"),
		separator(),
	}

	if l, ok := items[0].AsLink(); !ok || l.Name != "Entry" {
		t.Errorf("AsLink() = %v, %v", l, ok)
	}
	if _, ok := items[0].AsSectionTitle(); ok {
		t.Error("link reported as section title")
	}
	if st, ok := items[1].AsSectionTitle(); !ok || st.Title != "Chapter" {
		t.Errorf("AsSectionTitle() = %v, %v", st, ok)
	}
	if !items[2].IsSeparator() {
		t.Error("separator not reported")
	}
	if items[0].IsSeparator() {
		t.Error("link reported as separator")
	}
}
