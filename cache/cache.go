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

package cache

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/polysearch/core"
)

// Defaults for both store implementations.
const (
	DefaultTTL        = 600 * time.Second
	DefaultMaxEntries = 100
)

// Key identifies one query configuration.
type Key struct {
	composite string
}

// NewKey derives the cache key for req. Requests that differ in any field
// other than source order produce different keys.
func NewKey(req *core.SearchRequest) Key {
	fields := []string{
		req.RawQuery,
		req.Language,
		strings.Join(req.SortedSourceIDs(), ","),
		strconv.Itoa(req.NumResults),
		string(req.Models.Summary),
		string(req.Models.Ranker),
		string(req.Models.FAQ),
	}
	for i, f := range fields {
		fields[i] = strconv.Quote(f)
	}
	return Key{composite: strings.Join(fields, "|")}
}

// String returns the composite form of the key.
func (k Key) String() string {
	return k.composite
}

// Digest returns a fixed-width hex BLAKE2b-256 digest of the key.
func (k Key) Digest() string {
	sum := blake2b.Sum256([]byte(k.composite))
	return hex.EncodeToString(sum[:])
}

// Store holds payloads by key.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the payload for key if present and not expired.
	Get(key Key) (*core.Payload, bool)

	// Put stores payload under key, evicting as needed to respect the bound.
	Put(key Key, payload *core.Payload)

	// Len returns the number of entries currently held, possibly including
	// expired entries not yet purged.
	Len() int

	// Close releases resources held by the store.
	Close() error
}
