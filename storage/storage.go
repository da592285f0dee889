// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// This file includes modifications to code originally developed by Adam Tauber,
// licensed under the Apache License, Version 2.0.
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

// Package storage keeps the request-level state of a crawl: which requests
// were already scheduled, and the session cookies shared by the fetcher.
package storage

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Storage is the interface of the visited-request store used by the crawl
type Storage interface {
	// Init initializes the storage
	Init() error
	// Visited receives and stores a request ID that was scheduled
	Visited(requestID uint64) error
	// IsVisited returns true if the request was visited before IsVisited
	// is called
	IsVisited(requestID uint64) (bool, error)
	// VisitIfNotVisited atomically checks if a request ID has been visited,
	// and if not, marks it as visited. Returns true if it was already visited.
	VisitIfNotVisited(requestID uint64) (bool, error)
	// Cookies retrieves stored cookies for a given host
	Cookies(u *url.URL) string
	// SetCookies stores cookies for a given host
	SetCookies(u *url.URL, cookies string)
	// Close releases the storage
	Close() error
}

// InMemoryStorage is the default storage backend. It keeps everything in
// memory and forgets it when the process exits.
type InMemoryStorage struct {
	visitedURLs map[uint64]bool
	lock        *sync.RWMutex
	jar         *cookiejar.Jar
}

// Init initializes InMemoryStorage
func (s *InMemoryStorage) Init() error {
	if s.visitedURLs == nil {
		s.visitedURLs = make(map[uint64]bool)
	}
	if s.lock == nil {
		s.lock = &sync.RWMutex{}
	}
	if s.jar == nil {
		var err error
		s.jar, err = cookiejar.New(nil)
		return err
	}
	return nil
}

// Visited implements Storage.Visited()
func (s *InMemoryStorage) Visited(requestID uint64) error {
	s.lock.Lock()
	s.visitedURLs[requestID] = true
	s.lock.Unlock()
	return nil
}

// IsVisited implements Storage.IsVisited()
func (s *InMemoryStorage) IsVisited(requestID uint64) (bool, error) {
	s.lock.RLock()
	visited := s.visitedURLs[requestID]
	s.lock.RUnlock()
	return visited, nil
}

// VisitIfNotVisited implements Storage.VisitIfNotVisited()
func (s *InMemoryStorage) VisitIfNotVisited(requestID uint64) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.visitedURLs[requestID] {
		return true, nil
	}
	s.visitedURLs[requestID] = true
	return false, nil
}

// Len returns the number of visited requests
func (s *InMemoryStorage) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.visitedURLs)
}

// Cookies implements Storage.Cookies()
func (s *InMemoryStorage) Cookies(u *url.URL) string {
	return StringifyCookies(s.jar.Cookies(u))
}

// SetCookies implements Storage.SetCookies()
func (s *InMemoryStorage) SetCookies(u *url.URL, cookies string) {
	s.jar.SetCookies(u, UnstringifyCookies(cookies))
}

// Jar returns the cookie jar backing the storage, for use by an http.Client
func (s *InMemoryStorage) Jar() http.CookieJar {
	return s.jar
}

// Close implements Storage.Close()
func (s *InMemoryStorage) Close() error {
	return nil
}

// RequestHash identifies a request by method, URI and body. Two resources
// that would produce the same request share a hash.
func RequestHash(method, uri, body string) uint64 {
	h := xxhash.New()
	h.WriteString(strings.ToUpper(method))
	h.WriteString("\x00")
	h.WriteString(uri)
	h.WriteString("\x00")
	h.WriteString(body)
	return h.Sum64()
}

// StringifyCookies serializes list of http.Cookies to string
func StringifyCookies(cookies []*http.Cookie) string {
	cs := make([]string, len(cookies))
	for i, c := range cookies {
		cs[i] = c.String()
	}
	return strings.Join(cs, "\n")
}

// UnstringifyCookies deserializes a cookie string to http.Cookies
func UnstringifyCookies(s string) []*http.Cookie {
	h := http.Header{}
	for _, c := range strings.Split(s, "\n") {
		h.Add("Set-Cookie", c)
	}
	r := http.Response{Header: h}
	return r.Cookies()
}

// ContainsCookie checks if a cookie name is represented in cookies
func ContainsCookie(cookies []*http.Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name {
			return true
		}
	}
	return false
}
