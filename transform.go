package dungeonmark

// TransformerContext carries the project environment into transformers.
type TransformerContext struct {
	// Root is the absolute path of the project root.
	Root string

	// Config is the loaded journal configuration.
	Config *Config
}

// A Transformer reshapes a fully parsed journal after the parse stage and
// before rendering.
type Transformer interface {
	Name() string
	Run(ctx *TransformerContext, journal *Journal) (*Journal, error)
}
