package fanout

import "errors"

var (
	// ErrNilAdapter is returned when an adapter passed to New is nil.
	ErrNilAdapter = errors.New("adapter cannot be nil")

	// ErrDuplicateSource is returned when two adapters report the same source.
	ErrDuplicateSource = errors.New("duplicate adapter source")
)
