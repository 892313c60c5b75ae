// Package yamlutil keeps goccy/go-yaml behind two calls so the config
// package never imports the parser directly.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize bounds a config document. Service configs are a few
// hundred bytes; anything near this limit is a mistake.
var MaxDocumentSize = 256 << 10

var (
	ErrEmptyDocument    = errors.New("yamlutil: empty document")
	ErrNilTarget        = errors.New("yamlutil: nil target")
	ErrDocumentTooLarge = errors.New("yamlutil: document exceeds maximum size")
)

// DecodeStrict parses data into v and fails on keys v does not declare,
// so a misspelled `apikey` is reported instead of silently ignored.
func DecodeStrict(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmptyDocument
	case len(data) > MaxDocumentSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrDocumentTooLarge, len(data), MaxDocumentSize)
	case v == nil:
		return ErrNilTarget
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Encode renders v as YAML.
func Encode(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
