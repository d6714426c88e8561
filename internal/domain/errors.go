package domain

import "errors"

// Error taxonomy for the generation pipeline. Every failure surfaced by the
// catalog, compositor, output store, or function-call adapter wraps exactly
// one of these sentinels so callers can classify it with errors.Is.
var (
	// ErrTemplateNotFound is returned when a template id does not resolve.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTextBlock is returned for malformed text blocks: blank
	// content, non-positive font size, negative stroke width, unrecognized
	// colors, or a block count outside the configured bounds.
	ErrInvalidTextBlock = errors.New("invalid text block")

	// ErrRender is returned when encoding the composed image fails.
	// Fatal to the request, not to the process.
	ErrRender = errors.New("render failed")

	// ErrStoreWrite is returned when the output store cannot persist a
	// rendered buffer. Surfaced as-is, never retried by the core.
	ErrStoreWrite = errors.New("store write failed")

	// ErrCatalogLoad is returned when the startup template scan fails.
	// The process must not serve with a partially loaded catalog.
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrSchemaValidation is returned by the function-call adapter when a
	// tool payload does not match the expected argument shape.
	ErrSchemaValidation = errors.New("schema validation failed")
)

// IsBadInput reports whether err is the caller's fault (no retry will help)
// as opposed to a system fault that may warrant a caller-level retry.
func IsBadInput(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrInvalidTextBlock) ||
		errors.Is(err, ErrSchemaValidation)
}
