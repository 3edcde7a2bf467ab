package cache

import "errors"

var (
	// ErrInvalidMaxEntries is returned when the entry bound is not positive.
	ErrInvalidMaxEntries = errors.New("max entries must be positive")

	// ErrInvalidTTL is returned when the TTL is not positive.
	ErrInvalidTTL = errors.New("ttl must be positive")

	// ErrCorruptPayload is returned when stored bytes do not decode to a payload.
	ErrCorruptPayload = errors.New("corrupt cached payload")
)
