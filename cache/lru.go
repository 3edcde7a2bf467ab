package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/poiesic/polysearch/core"
)

// lruStore keeps payloads in an expirable LRU.
type lruStore struct {
	lru *expirable.LRU[string, *core.Payload]
}

// NewLRU creates a store bounded by maxEntries whose entries expire after ttl.
// At capacity the least recently used entry is evicted.
func NewLRU(maxEntries int, ttl time.Duration) (Store, error) {
	if maxEntries <= 0 {
		return nil, ErrInvalidMaxEntries
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &lruStore{lru: expirable.NewLRU[string, *core.Payload](maxEntries, nil, ttl)}, nil
}

func (s *lruStore) Get(key Key) (*core.Payload, bool) {
	return s.lru.Get(key.String())
}

func (s *lruStore) Put(key Key, payload *core.Payload) {
	s.lru.Add(key.String(), payload)
}

func (s *lruStore) Len() int {
	return s.lru.Len()
}

func (s *lruStore) Close() error {
	s.lru.Purge()
	return nil
}
