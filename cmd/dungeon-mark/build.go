package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	dungeonmark "github.com/Mr-Byte/dungeon-mark"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("usage: dungeon-mark build [root]")
	ErrUnknownCommand = errors.New("unknown command")
)

// cliFlags holds flags shared across commands.
type cliFlags struct {
	config  string
	destDir string
	verbose bool
	version bool
}

// parseFlags separates flags from positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("dungeon-mark", flag.ContinueOnError)
	fs.StringVarP(&flags.config, "config", "c", "", "path to an alternate config file")
	fs.StringVarP(&flags.destDir, "dest-dir", "d", "", "output directory root, overriding the configured build dir")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "log build progress to stderr")
	fs.BoolVar(&flags.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return flags, fs.Args(), nil
}

// run dispatches the subcommand.
func run(flags *cliFlags, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "build":
		return runBuild(flags, args[1:])
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
}

// runBuild loads the project at the optional root argument (default the
// current directory) and runs the full pipeline.
func runBuild(flags *cliFlags, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	config, err := loadConfig(flags, root)
	if err != nil {
		return err
	}
	if flags.destDir != "" {
		config.Build.BuildDir = flags.destDir
	}

	builder, err := dungeonmark.LoadBuilderWithConfig(root, config)
	if err != nil {
		return err
	}

	builder.
		WithPreprocessor(dungeonmark.NewDirectivePreprocessor()).
		WithTransformer(dungeonmark.NewMetadataTransformer())

	for _, rc := range config.Build.Renderers {
		command := rc.Command
		if command == "" {
			command = rc.Name
		}
		if flags.verbose {
			fmt.Fprintf(os.Stderr, "Registered renderer %q (%s)\n", rc.Name, command)
		}
		builder.WithRenderer(dungeonmark.NewCommandRenderer(rc.Name, command))
	}

	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Building journal at %s\n", root)
	}

	if err := builder.Build(); err != nil {
		return err
	}

	if flags.verbose {
		fmt.Fprintln(os.Stderr, "Build finished")
	}

	return nil
}

func loadConfig(flags *cliFlags, root string) (*dungeonmark.Config, error) {
	if flags.config != "" {
		return dungeonmark.LoadConfigFile(flags.config)
	}
	return dungeonmark.LoadConfig(root)
}
