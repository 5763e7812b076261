// Package reverse translates SQL back into NSQL syntax trees, so existing
// SQL workloads can be captured, re-rendered and re-planned through the
// NSQL pipeline.
package reverse

import "errors"

var (
	// ErrNotSupported marks SQL features with no NSQL counterpart.
	ErrNotSupported = errors.New("reverse: feature not supported in NSQL")
	// ErrParseError wraps dialect parser failures.
	ErrParseError = errors.New("reverse: failed to parse query")
	// ErrEmptyQuery is returned for empty input.
	ErrEmptyQuery = errors.New("reverse: empty query")
)
