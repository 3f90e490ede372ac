package dungeonmark

// RenderContext is the payload handed to a renderer: a snapshot of the
// whole build, serialized as a single JSON document.
type RenderContext struct {
	// Root is the absolute path of the project root.
	Root string `json:"root"`

	// Destination is the directory the renderer must populate. It is not
	// guaranteed to exist nor to be empty.
	Destination string `json:"destination"`

	// Config is the loaded journal configuration, opaque keys included.
	Config *Config `json:"config"`

	// Journal is the fully parsed and transformed journal.
	Journal *Journal `json:"journal"`
}

// A Renderer consumes a journal snapshot and produces output in some target
// format.
type Renderer interface {
	Name() string
	Render(ctx *RenderContext) error
}
