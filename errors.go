package dungeonmark

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// Table of contents parsing errors.
	ErrTOCItemContent = errors.New("items in the table of contents must only contain links")

	// Directive preprocessing errors.
	ErrNoClosingMarker      = errors.New("no matching closing marker found for directive")
	ErrClosingBeforeOpening = errors.New("closing marker found before opening marker")
	ErrIncludeNotFound      = errors.New("include file not found")

	// Configuration errors.
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigKey      = errors.New("failed to decode config key")

	// Renderer errors.
	ErrEmptyRendererCommand = errors.New("renderer command string was empty")
	ErrRendererFailed       = errors.New("renderer failed")
)

// ParseError is a structural parse failure carrying the 1-based line and
// column of the offending event.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line: %d, column: %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
