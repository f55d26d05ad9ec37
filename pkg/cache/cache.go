// Package cache is a tag-keyed response cache. Values live in a ristretto
// cache with a TTL; a side index maps every tag to the keys stored under it
// so a writer can evict a whole group after a mutation.
package cache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	numCounters = 100_000
	maxCost     = 64 << 20 // bytes of cached bodies
	bufferItems = 64
)

// Entry is one cached response body plus enough metadata to replay it.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

type Store struct {
	values *ristretto.Cache[string, Entry]
	ttl    time.Duration

	mu   sync.Mutex
	tags map[string]map[string]struct{}
}

func New(ttl time.Duration) (*Store, error) {
	values, err := ristretto.NewCache(&ristretto.Config[string, Entry]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		values: values,
		ttl:    ttl,
		tags:   make(map[string]map[string]struct{}),
	}, nil
}

// Get returns the entry cached under key, if any.
func (s *Store) Get(key string) (Entry, bool) {
	return s.values.Get(key)
}

// Set stores the entry under key and registers it with every tag.
func (s *Store) Set(key string, entry Entry, tags ...string) {
	s.mu.Lock()
	for _, tag := range tags {
		keys, ok := s.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	s.mu.Unlock()

	s.values.SetWithTTL(key, entry, int64(len(entry.Body)), s.ttl)
}

// EvictByTag drops every entry stored under the tag. Mutating callers use
// this to keep cached reads consistent after a write.
func (s *Store) EvictByTag(tag string) {
	s.mu.Lock()
	keys := s.tags[tag]
	delete(s.tags, tag)
	s.mu.Unlock()

	for key := range keys {
		s.values.Del(key)
	}
}

// Wait blocks until pending writes are applied. Only needed by tests;
// ristretto applies Sets asynchronously.
func (s *Store) Wait() {
	s.values.Wait()
}

// Close releases the underlying cache.
func (s *Store) Close() {
	s.values.Close()
}
