package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrNotFound indicates a manifest, main file or resource could not be located.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates malformed input: a manifest that is not JSON, a source map
	// that cannot be decoded, or JavaScript that cannot be analyzed.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates a configuration or flag validation failure.
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates a network connectivity issue while fetching from a CDN.
	ErrConnectivity = errors.New("connectivity error")

	// ErrPermission indicates insufficient permissions on the local filesystem.
	ErrPermission = errors.New("permission denied")
)
