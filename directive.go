package dungeonmark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directive delimiters. The scan works over raw text, before tokenization.
const (
	directiveOpen  = "{{#"
	directiveClose = "}}"
)

// DirectivePreprocessor rewrites `{{#...}}` spans in raw entry bodies
// before the section tree is built:
//
//   - `{{#title <text>}}` replaces the entry title with the trimmed text.
//   - `{{#include <path>}}` substitutes the contents of the file at path,
//     resolved relative to the entry's own directory.
//
// Unknown keywords are reinserted verbatim, so unrelated double-brace usage
// passes through untouched.
type DirectivePreprocessor struct{}

// NewDirectivePreprocessor returns the directive preprocessor.
func NewDirectivePreprocessor() *DirectivePreprocessor {
	return &DirectivePreprocessor{}
}

func (p *DirectivePreprocessor) Name() string {
	return "directive"
}

func (p *DirectivePreprocessor) Run(ctx *PreprocessorContext, journal *Journal) (*Journal, error) {
	sourceDir := filepath.Join(ctx.Root, ctx.Config.Journal.Source)

	for _, item := range journal.Items {
		entry, ok := item.AsEntry()
		if !ok {
			continue
		}
		entryDir := filepath.Dir(filepath.Join(sourceDir, entry.Path))
		if err := expandDirectives(entry, entryDir); err != nil {
			return nil, fmt.Errorf("preprocessing journal entry %s: %w", entry.Path, err)
		}
	}

	return journal, nil
}

// expandDirectives rewrites every directive span in the entry's raw body.
// An unmatched open marker, or a close marker left over before the next
// open, fails the scan; content is never silently dropped.
func expandDirectives(entry *JournalEntry, entryDir string) error {
	var out strings.Builder
	rest := entry.Body

	for {
		open := strings.Index(rest, directiveOpen)
		if open < 0 {
			out.WriteString(rest)
			break
		}
		close := strings.Index(rest, directiveClose)
		if close < 0 {
			return ErrNoClosingMarker
		}
		if close < open {
			return ErrClosingBeforeOpening
		}

		out.WriteString(rest[:open])

		directive := rest[open+len(directiveOpen) : close]
		replacement, err := applyDirective(entry, entryDir, directive, rest[open:close+len(directiveClose)])
		if err != nil {
			return err
		}
		out.WriteString(replacement)

		rest = rest[close+len(directiveClose):]
	}

	entry.Body = out.String()

	return nil
}

// applyDirective dispatches one directive body on its leading keyword and
// returns the text to substitute for the span. Included content is not
// rescanned for nested directives.
func applyDirective(entry *JournalEntry, entryDir, directive, span string) (string, error) {
	keyword, arg, _ := strings.Cut(strings.TrimSpace(directive), " ")

	switch keyword {
	case "title":
		entry.Title = strings.TrimSpace(arg)
		return "", nil

	case "include":
		path := filepath.Join(entryDir, strings.TrimSpace(arg))
		data, err := os.ReadFile(path) // #nosec G304 -- include paths are authored alongside the entry
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, path)
		}
		return string(data), nil

	default:
		return span, nil
	}
}
