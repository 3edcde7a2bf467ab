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

// Package badger implements cache.Store on an in-memory BadgerDB.
//
// Each entry is stored under a digest of its cache key with a Badger TTL.
// A second index, ordered by an insertion sequence, lets the store evict the
// oldest entry first once the entry bound is reached. Payloads are encoded
// with cache.MarshalPayload.
package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/polysearch/cache"
	"github.com/poiesic/polysearch/core"
)

// ErrNilBackend is returned when NewStore is given a nil backend.
var ErrNilBackend = errors.New("backend cannot be nil")

// Store is a cache.Store backed by Badger.
type Store struct {
	backend     *Backend
	ownsBackend bool
	seq         *badger.Sequence
	maxEntries  int
	ttl         time.Duration
	now         func() time.Time
	mu          sync.Mutex // serializes writers so the entry bound holds
	logger      *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used for expiry checks. Defaults to time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger sets a custom logger for the store.
// If not provided, slog.Default() will be used.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store on backend. The caller keeps ownership of backend.
//
// Returns cache.Store interface (not *Store) to enforce abstraction.
func NewStore(backend *Backend, maxEntries int, ttl time.Duration, opts ...StoreOption) (cache.Store, error) {
	return newStore(backend, maxEntries, ttl, opts...)
}

// OpenMemoryStore opens a private in-memory backend and a store that closes
// it on Close.
func OpenMemoryStore(maxEntries int, ttl time.Duration, opts ...StoreOption) (cache.Store, error) {
	backend, err := OpenBackend()
	if err != nil {
		return nil, err
	}
	s, err := newStore(backend, maxEntries, ttl, opts...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	s.ownsBackend = true
	return s, nil
}

func newStore(backend *Backend, maxEntries int, ttl time.Duration, opts ...StoreOption) (*Store, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if maxEntries <= 0 {
		return nil, cache.ErrInvalidMaxEntries
	}
	if ttl <= 0 {
		return nil, cache.ErrInvalidTTL
	}

	seq, err := backend.GetSequence(orderSeqName)
	if err != nil {
		return nil, err
	}

	s := &Store{
		backend:    backend,
		seq:        seq,
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "badger-cache")
	return s, nil
}

// entry is the decoded form of a stored value.
type entry struct {
	seq     uint64
	expires int64 // unix nanoseconds
	payload []byte
}

func encodeEntry(e entry) []byte {
	size := varint.Uint64.Size(e.seq) + varint.Int64.Size(e.expires)
	buf := make([]byte, size+len(e.payload))
	n := varint.Uint64.Marshal(e.seq, buf)
	n += varint.Int64.Marshal(e.expires, buf[n:])
	copy(buf[n:], e.payload)
	return buf
}

func decodeEntry(data []byte) (entry, error) {
	seq, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return entry{}, fmt.Errorf("%w: %w", cache.ErrCorruptPayload, err)
	}
	expires, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return entry{}, fmt.Errorf("%w: %w", cache.ErrCorruptPayload, err)
	}
	return entry{seq: seq, expires: expires, payload: data[n+m:]}, nil
}

func readEntry(tx *badger.Txn, digest string) (entry, bool, error) {
	item, err := tx.Get(makeValueKey(digest))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return entry{}, false, nil
	}
	if err != nil {
		return entry{}, false, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return entry{}, false, err
	}
	e, err := decodeEntry(data)
	if err != nil {
		return entry{}, false, err
	}
	return e, true, nil
}

// Get returns the payload for key if present and not expired.
func (s *Store) Get(key cache.Key) (*core.Payload, bool) {
	digest := key.Digest()

	var e entry
	var found bool
	err := s.backend.View(func(tx *badger.Txn) error {
		var err error
		e, found, err = readEntry(tx, digest)
		return err
	})
	if err != nil {
		s.logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	if s.now().UnixNano() >= e.expires {
		s.remove(digest, e.seq)
		return nil, false
	}

	payload, err := cache.UnmarshalPayload(e.payload)
	if err != nil {
		s.logger.Warn("dropping undecodable cache entry", "err", err)
		s.remove(digest, e.seq)
		return nil, false
	}
	return payload, true
}

// remove deletes an entry and its order index if it still has the given sequence.
func (s *Store) remove(digest string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Update(func(tx *badger.Txn) error {
		current, found, err := readEntry(tx, digest)
		if err != nil || !found || current.seq != seq {
			return err
		}
		if err := tx.Delete(makeValueKey(digest)); err != nil {
			return err
		}
		return tx.Delete(makeOrderKey(seq))
	})
	if err != nil {
		s.logger.Warn("cache delete failed", "err", err)
	}
}

// orderedEntries lists the order index from oldest to newest.
func orderedEntries(tx *badger.Txn) ([]uint64, []string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeOrderPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var seqs []uint64
	var digests []string
	prefixLen := len(opts.Prefix)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		key := item.Key()
		if len(key) != prefixLen+8 {
			continue
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return nil, nil, err
		}
		seqs = append(seqs, orderSeq(key[prefixLen:]))
		digests = append(digests, string(value))
	}
	return seqs, digests, nil
}

// Put stores payload under key. A new key evicts the oldest entries while
// the store is at capacity; replacing a key does not evict.
func (s *Store) Put(key cache.Key, payload *core.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest := key.Digest()
	seq, err := s.seq.Next()
	if err != nil {
		s.logger.Warn("cache sequence failed", "err", err)
		return
	}
	value := encodeEntry(entry{
		seq:     seq,
		expires: s.now().Add(s.ttl).UnixNano(),
		payload: cache.MarshalPayload(payload),
	})

	evicted := 0
	err = s.backend.Update(func(tx *badger.Txn) error {
		old, replacing, err := readEntry(tx, digest)
		if err != nil {
			return err
		}

		if replacing {
			if err := tx.Delete(makeOrderKey(old.seq)); err != nil {
				return err
			}
		} else {
			seqs, digests, err := orderedEntries(tx)
			if err != nil {
				return err
			}
			for i := 0; len(seqs)-i >= s.maxEntries; i++ {
				if err := s.evict(tx, seqs[i], digests[i]); err != nil {
					return err
				}
				evicted++
			}
		}

		if err := tx.SetEntry(badger.NewEntry(makeValueKey(digest), value).WithTTL(s.ttl)); err != nil {
			return err
		}
		return tx.SetEntry(badger.NewEntry(makeOrderKey(seq), []byte(digest)).WithTTL(s.ttl))
	})
	if err != nil {
		s.logger.Warn("cache write failed", "err", err)
		return
	}
	if evicted > 0 {
		s.logger.Debug("evicted oldest cache entries", "count", evicted)
	}
}

func (s *Store) evict(tx *badger.Txn, seq uint64, digest string) error {
	if err := tx.Delete(makeOrderKey(seq)); err != nil {
		return err
	}
	current, found, err := readEntry(tx, digest)
	if err != nil || !found || current.seq != seq {
		return err
	}
	return tx.Delete(makeValueKey(digest))
}

// Len returns the number of entries Badger has not yet expired.
func (s *Store) Len() int {
	count := 0
	err := s.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeOrderPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("cache count failed", "err", err)
	}
	return count
}

// Close releases the order sequence and, for stores opened with
// OpenMemoryStore, the backend.
func (s *Store) Close() error {
	err := s.seq.Release()
	if s.ownsBackend {
		err = errors.Join(err, s.backend.Close())
	}
	return err
}
