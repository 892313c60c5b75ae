package assets

import "errors"

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName covers empty names and names carrying path
	// separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")
)
