// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package storage

import "sync"

// Discovery is the first sighting of a request during a crawl
type Discovery struct {
	// Hash is the RequestHash of the discovered request
	Hash uint64
	// Source is the URL of the exchange the request was found in
	Source string
	// Seen counts how often the request was found
	Seen int
}

// CrawlerStore catalogues the requests discovered during a crawl session.
// This is separate from Storage, which only answers whether a request was
// scheduled; CrawlerStore remembers where each one came from.
type CrawlerStore struct {
	discovered map[uint64]*Discovery
	order      []uint64
	mu         sync.RWMutex
}

// NewCrawlerStore creates a new CrawlerStore instance
func NewCrawlerStore() *CrawlerStore {
	return &CrawlerStore{
		discovered: make(map[uint64]*Discovery),
	}
}

// Record notes that the request identified by hash was found in source.
// Returns true the first time a hash is recorded.
func (s *CrawlerStore) Record(hash uint64, source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.discovered[hash]; ok {
		d.Seen++
		return false
	}
	s.discovered[hash] = &Discovery{Hash: hash, Source: source, Seen: 1}
	s.order = append(s.order, hash)
	return true
}

// Get returns a copy of the discovery recorded for hash
func (s *CrawlerStore) Get(hash uint64) (Discovery, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.discovered[hash]
	if !ok {
		return Discovery{}, false
	}
	return *d, true
}

// Count returns the number of distinct requests discovered
func (s *CrawlerStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Discoveries returns every discovery in the order it was first recorded
func (s *CrawlerStore) Discoveries() []Discovery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Discovery, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, *s.discovered[h])
	}
	return out
}

// Clear resets all stored data
func (s *CrawlerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovered = make(map[uint64]*Discovery)
	s.order = nil
}
