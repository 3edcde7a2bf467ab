// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"fmt"
)

// Request validation errors
var (
	// ErrInvalidRequest indicates a SearchRequest failed validation.
	ErrInvalidRequest = errors.New("invalid search request")

	// ErrEmptyQuery indicates the raw query is blank.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrQueryTooLong indicates the raw query exceeds MaxQueryLength.
	ErrQueryTooLong = errors.New("query too long")

	// ErrInvalidNumResults indicates NumResults is outside [1, MaxNumResults].
	ErrInvalidNumResults = errors.New("number of results out of range")

	// ErrUnknownSource indicates a source identifier is not supported.
	ErrUnknownSource = errors.New("unknown source")

	// ErrUnknownModel indicates a model identifier is not supported.
	ErrUnknownModel = errors.New("unknown model")
)

func unknownSourceError(id string) error {
	return fmt.Errorf("%w: %q (valid: google, bing, x)", ErrUnknownSource, id)
}

func unknownModelError(slot, id string) error {
	return fmt.Errorf("%w: %s model %q", ErrUnknownModel, slot, id)
}

// ErrorKind classifies provider adapter failures.
type ErrorKind int

const (
	// KindNotConfigured means the provider has no credentials; no call was made.
	KindNotConfigured ErrorKind = iota + 1
	// KindNetworkFailure covers transport errors, timeouts and non-success statuses.
	KindNetworkFailure
	// KindParseFailure means the provider responded with a malformed payload.
	KindParseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotConfigured:
		return "not configured"
	case KindNetworkFailure:
		return "network failure"
	case KindParseFailure:
		return "parse failure"
	default:
		return "unknown"
	}
}

// ProviderError is returned by provider adapters.
type ProviderError struct {
	Source Source
	Kind   ErrorKind
	Err    error
}

// NewProviderError wraps cause as a ProviderError of the given kind.
func NewProviderError(source Source, kind ErrorKind, cause error) *ProviderError {
	return &ProviderError{Source: source, Kind: kind, Err: cause}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ProviderError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == kind
}
