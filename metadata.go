package dungeonmark

import (
	"fmt"
	"strings"

	"github.com/Mr-Byte/dungeon-mark/internal/cmark"
)

// MetadataTransformer lifts metadata-tagged fenced code blocks out of
// section bodies into the section metadata map. A block is tagged when its
// info string, split on commas and trimmed, has exactly three fields with
// the middle field `metadata`:
//
//	```toml,metadata,stats
//	...
//	```
//
// Every other code block is left unchanged in the body.
type MetadataTransformer struct{}

// NewMetadataTransformer returns the metadata transformer.
func NewMetadataTransformer() *MetadataTransformer {
	return &MetadataTransformer{}
}

func (t *MetadataTransformer) Name() string {
	return "metadata"
}

func (t *MetadataTransformer) Run(ctx *TransformerContext, journal *Journal) (*Journal, error) {
	for _, item := range journal.Items {
		entry, ok := item.AsEntry()
		if !ok {
			continue
		}
		if err := entry.TryForEachSection(extractMetadata); err != nil {
			return nil, fmt.Errorf("extracting metadata from journal entry %s: %w", entry.Path, err)
		}
	}

	return journal, nil
}

// extractMetadata re-tokenizes the section body, records tagged blocks in
// the metadata map, and substitutes a blank double line break for each
// removed block to preserve paragraph spacing.
func extractMetadata(s *Section) error {
	cur := cmark.NewCursor(s.Body)

	var parts []string
	metadata := make(map[string]SectionMetadata)

	for {
		e, ok := cur.Peek()
		if !ok {
			cur.Next()
			break
		}

		if isMetadataBlock(e) {
			lang, key := parseMetadataInfo(e.Info)
			cur.Next()
			data := cur.CollectThrough(func(e cmark.Event) bool {
				return e.Kind == cmark.KindCodeBlockEnd && e.Fenced
			})

			metadata[key] = SectionMetadata{Lang: lang, Data: cmark.Slice(s.Body, data)}
			parts = append(parts, "\n\n")
			continue
		}

		run := cur.CollectUntil(isMetadataBlock)
		parts = append(parts, cmark.Stringify(s.Body, run))
	}

	s.Body = strings.Join(parts, "")
	if len(metadata) > 0 {
		if s.Metadata == nil {
			s.Metadata = make(map[string]SectionMetadata, len(metadata))
		}
		for key, value := range metadata {
			s.Metadata[key] = value
		}
	}

	return nil
}

func isMetadataBlock(e cmark.Event) bool {
	if e.Kind != cmark.KindCodeBlockStart || !e.Fenced {
		return false
	}
	_, _, ok := splitMetadataInfo(e.Info)
	return ok
}

func parseMetadataInfo(info string) (lang, key string) {
	lang, key, ok := splitMetadataInfo(info)
	if !ok {
		panic("dungeonmark: isMetadataBlock invariant was violated")
	}
	return lang, key
}

// splitMetadataInfo splits an info string on commas into trimmed fields and
// matches the [lang, "metadata", key] shape.
func splitMetadataInfo(info string) (lang, key string, ok bool) {
	parts := strings.Split(info, ",")
	if len(parts) != 3 {
		return "", "", false
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	if parts[1] != "metadata" {
		return "", "", false
	}
	return parts[0], parts[2], true
}
