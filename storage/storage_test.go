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

import (
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorageVisit(t *testing.T) {
	s := &InMemoryStorage{}
	require.NoError(t, s.Init())

	id := RequestHash("GET", "http://example.com/", "")
	visited, err := s.IsVisited(id)
	require.NoError(t, err)
	assert.False(t, visited)

	already, err := s.VisitIfNotVisited(id)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = s.VisitIfNotVisited(id)
	require.NoError(t, err)
	assert.True(t, already)

	require.NoError(t, s.Visited(42))
	visited, _ = s.IsVisited(42)
	assert.True(t, visited)
	assert.Equal(t, 2, s.Len())
	assert.NoError(t, s.Close())
}

func TestInMemoryStorageConcurrentVisit(t *testing.T) {
	s := &InMemoryStorage{}
	require.NoError(t, s.Init())

	var fresh atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if already, _ := s.VisitIfNotVisited(7); !already {
				fresh.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), fresh.Load(), "exactly one caller may claim a request")
}

func TestInMemoryStorageCookies(t *testing.T) {
	s := &InMemoryStorage{}
	require.NoError(t, s.Init())

	u, _ := url.Parse("http://example.com/")
	s.SetCookies(u, "session=abc\ntheme=dark")
	got := s.Cookies(u)
	assert.Contains(t, got, "session=abc")
	assert.Contains(t, got, "theme=dark")

	cookies := s.Jar().Cookies(u)
	assert.True(t, ContainsCookie(cookies, "session"))
	assert.False(t, ContainsCookie(cookies, "missing"))
}

func TestStringifyCookiesRoundTrip(t *testing.T) {
	in := []*http.Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	out := UnstringifyCookies(StringifyCookies(in))
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "2", out[1].Value)
}

func TestRequestHash(t *testing.T) {
	base := RequestHash("GET", "http://example.com/", "")
	assert.Equal(t, base, RequestHash("get", "http://example.com/", ""), "method is case-insensitive")
	assert.NotEqual(t, base, RequestHash("POST", "http://example.com/", ""))
	assert.NotEqual(t, base, RequestHash("GET", "http://example.com/x", ""))
	assert.NotEqual(t,
		RequestHash("POST", "http://example.com/", "a=1"),
		RequestHash("POST", "http://example.com/", "a=2"))
	assert.NotEqual(t,
		RequestHash("GET", "ab", "c"),
		RequestHash("GET", "a", "bc"), "fields must not run together")
}

func TestCrawlerStore(t *testing.T) {
	s := NewCrawlerStore()
	assert.True(t, s.Record(1, "http://example.com/"))
	assert.True(t, s.Record(2, "http://example.com/a"))
	assert.False(t, s.Record(1, "http://example.com/b"))

	d, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "http://example.com/", d.Source, "the first source wins")
	assert.Equal(t, 2, d.Seen)

	_, ok = s.Get(3)
	assert.False(t, ok)

	all := s.Discoveries()
	require.Len(t, all, 2)
	assert.Equal(t, uint64(1), all[0].Hash)
	assert.Equal(t, uint64(2), all[1].Hash)
	assert.Equal(t, 2, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Empty(t, s.Discoveries())
}
