// Package confutil wraps TOML and YAML parsing to isolate the external
// codec dependencies. This allows swapping either underlying library
// without modifying callers.
package confutil

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// MaxInputSize limits config input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("confutil: nil or empty data")
	ErrNilDestination = errors.New("confutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("confutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func UnmarshalTOML(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("confutil: %w", err)
	}
	return nil
}

func UnmarshalYAML(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("confutil: %w", err)
	}
	return nil
}
