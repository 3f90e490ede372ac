// Package dungeonmark compiles a directory of markdown files into a typed
// journal model and hands it to external renderers.
//
// # Quick Start
//
// Load a builder from a project root containing a journal.toml and a source
// directory with a JOURNAL.md table of contents, then run the pipeline:
//
//	builder, err := dungeonmark.LoadBuilder(root)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	builder.
//	    WithPreprocessor(dungeonmark.NewDirectivePreprocessor()).
//	    WithTransformer(dungeonmark.NewMetadataTransformer()).
//	    WithRenderer(dungeonmark.NewCommandRenderer("html", "journal-to-html"))
//	if err := builder.Build(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Build Pipeline
//
// A build runs these stages in order, threading a single Journal value
// through them:
//
//  1. Load: parse JOURNAL.md and read one entry file per link.
//  2. Preprocess: rewrite raw entry bodies ({{#title}}, {{#include}}).
//  3. Parse: build each entry's heading-nested section tree.
//  4. Transform: reshape the parsed journal (metadata extraction).
//  5. Render: pipe a JSON snapshot to each configured renderer process.
//
// Every stage is fail-fast: the first error aborts the build and no
// renderer output is guaranteed.
//
// # Configuration
//
// journal.toml holds a [journal] table (title, authors, description,
// source), a [build] table (build-dir, renderers), and any number of
// additional tables preserved verbatim and queryable with Config.Get for
// consumption by preprocessors, transformers, and renderers.
//
// # Renderer Protocol
//
// A renderer is an external program named by a shell-style command string.
// It receives one JSON document on standard input — {root, destination,
// config, journal} — followed by EOF, and must populate the destination
// directory. A non-zero exit status fails the build. Renderers run
// sequentially; a hung renderer blocks the build indefinitely.
package dungeonmark
