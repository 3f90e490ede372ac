package dungeonmark

import (
	"fmt"
	"path/filepath"
)

// JournalBuilder sequences the build pipeline: load the table of contents
// and entries, preprocess raw bodies, parse entries into section trees,
// transform the parsed journal, and hand the result to each renderer in
// order. Every stage is fail-fast; the first error aborts the build.
type JournalBuilder struct {
	root          string
	config        *Config
	toc           *TableOfContents
	preprocessors []Preprocessor
	transformers  []Transformer
	renderers     []Renderer
}

// LoadBuilder loads the configuration and table of contents from the
// project root.
func LoadBuilder(root string) (*JournalBuilder, error) {
	config, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	return LoadBuilderWithConfig(root, config)
}

// LoadBuilderWithConfig loads the table of contents from the project root
// using an already loaded configuration.
func LoadBuilderWithConfig(root string, config *Config) (*JournalBuilder, error) {
	sourceDir := filepath.Join(root, config.Journal.Source)
	toc, err := LoadTOC(sourceDir)
	if err != nil {
		return nil, err
	}

	return &JournalBuilder{
		root:   root,
		config: config,
		toc:    toc,
	}, nil
}

// TableOfContents returns the parsed table of contents the builder loaded.
func (b *JournalBuilder) TableOfContents() *TableOfContents {
	return b.toc
}

// WithPreprocessor registers a preprocessor to run before the parse stage.
func (b *JournalBuilder) WithPreprocessor(p Preprocessor) *JournalBuilder {
	b.preprocessors = append(b.preprocessors, p)
	return b
}

// WithTransformer registers a transformer to run after the parse stage.
func (b *JournalBuilder) WithTransformer(t Transformer) *JournalBuilder {
	b.transformers = append(b.transformers, t)
	return b
}

// WithRenderer registers a renderer to run once the journal is built.
func (b *JournalBuilder) WithRenderer(r Renderer) *JournalBuilder {
	b.renderers = append(b.renderers, r)
	return b
}

// Build runs the full pipeline and invokes each registered renderer.
func (b *JournalBuilder) Build() error {
	journal, err := b.BuildJournal()
	if err != nil {
		return err
	}

	return b.render(journal)
}

// BuildJournal runs the pipeline up to, but not including, rendering and
// returns the finished journal.
func (b *JournalBuilder) BuildJournal() (*Journal, error) {
	journal, err := b.loadJournal()
	if err != nil {
		return nil, err
	}
	journal, err = b.preprocess(journal)
	if err != nil {
		return nil, err
	}
	journal, err = parseItems(journal)
	if err != nil {
		return nil, err
	}

	return b.transform(journal)
}

// loadJournal walks the table of contents and loads one entry per link
// with a location. Nested links flatten to items following their parent.
func (b *JournalBuilder) loadJournal() (*Journal, error) {
	items, err := b.loadItems(b.toc.Items, 1)
	if err != nil {
		return nil, err
	}

	return &Journal{Title: b.toc.Title, Items: items}, nil
}

func (b *JournalBuilder) loadItems(tocItems []TOCItem, depth int) ([]JournalItem, error) {
	sourceDir := filepath.Join(b.root, b.config.Journal.Source)
	var items []JournalItem

	for i := range tocItems {
		item := &tocItems[i]
		switch {
		case item.Link != nil:
			if item.Link.Location == "" {
				continue
			}
			entry, err := LoadEntry(item.Link.Name, sourceDir, item.Link.Location, depth)
			if err != nil {
				return nil, err
			}
			items = append(items, JournalItem{Entry: entry})

			nested, err := b.loadItems(item.Link.NestedItems, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, nested...)

		case item.SectionTitle != nil:
			items = append(items, JournalItem{ChapterTitle: &ChapterTitle{Title: item.SectionTitle.Title}})

		case item.Separator:
			items = append(items, JournalItem{Separator: true})
		}
	}

	return items, nil
}

func (b *JournalBuilder) preprocess(journal *Journal) (*Journal, error) {
	ctx := &PreprocessorContext{Root: b.root, Config: b.config}

	for _, p := range b.preprocessors {
		var err error
		journal, err = p.Run(ctx, journal)
		if err != nil {
			return nil, fmt.Errorf("preprocessor %s: %w", p.Name(), err)
		}
	}

	return journal, nil
}

// parseItems builds the section tree of every loaded entry.
func parseItems(journal *Journal) (*Journal, error) {
	for _, item := range journal.Items {
		entry, ok := item.AsEntry()
		if !ok {
			continue
		}
		if err := entry.Parse(); err != nil {
			return nil, err
		}
	}

	return journal, nil
}

func (b *JournalBuilder) transform(journal *Journal) (*Journal, error) {
	ctx := &TransformerContext{Root: b.root, Config: b.config}

	for _, t := range b.transformers {
		var err error
		journal, err = t.Run(ctx, journal)
		if err != nil {
			return nil, fmt.Errorf("transformer %s: %w", t.Name(), err)
		}
	}

	return journal, nil
}

// render invokes every renderer sequentially, aborting on the first
// failure.
func (b *JournalBuilder) render(journal *Journal) error {
	for _, r := range b.renderers {
		ctx := &RenderContext{
			Root:        b.root,
			Destination: filepath.Join(b.root, b.config.Build.BuildDir, r.Name()),
			Config:      b.config,
			Journal:     journal,
		}
		if err := r.Render(ctx); err != nil {
			return err
		}
	}

	return nil
}
