package dungeonmark

// PreprocessorContext carries the project environment into preprocessors.
type PreprocessorContext struct {
	// Root is the absolute path of the project root, where the config
	// file lives.
	Root string

	// Config is the loaded journal configuration.
	Config *Config
}

// A Preprocessor transforms a journal whose entries are still unparsed (all
// content in the raw body, no sections) before the parse stage runs.
type Preprocessor interface {
	Name() string
	Run(ctx *PreprocessorContext, journal *Journal) (*Journal, error)
}
