package dungeonmark

// SectionLevel is the heading level of a section, H1 through H6.
type SectionLevel int

const (
	H1 SectionLevel = iota + 1
	H2
	H3
	H4
	H5
	H6
)

// SectionMetadata is one value lifted out of a metadata-tagged fenced code
// block in a section body.
type SectionMetadata struct {
	// Lang is the first field of the block's info string.
	Lang string `json:"lang"`

	// Data is the raw content of the block.
	Data string `json:"data"`
}

// Section represents all text following a heading in a journal entry. Any
// heading of a strictly greater level that follows nests inside the section;
// a heading of the same or a lesser level starts a sibling in the parent
// scope instead.
type Section struct {
	// Title is the rendered heading text.
	Title string `json:"title"`

	// Level is the heading level of the section.
	Level SectionLevel `json:"level"`

	// Body is the text owned by the section, excluding the text of any
	// nested section.
	Body string `json:"body"`

	// Metadata holds values extracted from metadata-tagged code blocks,
	// keyed by the third field of the block's info string.
	Metadata map[string]SectionMetadata `json:"metadata,omitempty"`

	// Sections are the nested child sections in document order.
	Sections []Section `json:"sections,omitempty"`
}

// forEachSection visits sections depth-first, children before their parent,
// stopping at the first error.
func forEachSection(sections []Section, fn func(*Section) error) error {
	for i := range sections {
		if err := forEachSection(sections[i].Sections, fn); err != nil {
			return err
		}
		if err := fn(&sections[i]); err != nil {
			return err
		}
	}
	return nil
}
