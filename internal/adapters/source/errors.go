package source

import "errors"

// Sentinel kinds for source failures. Every failure mode is handled the same
// way by the chain, but callers and tests can still distinguish them.
var (
	ErrUnavailable = errors.New("upstream unavailable")
	ErrMalformed   = errors.New("malformed upstream response")
	ErrEmpty       = errors.New("empty calendar")
)
