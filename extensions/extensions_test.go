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

package extensions

import (
	"context"
	"strings"
	"testing"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/crawl"
	"github.com/agentberlin/bluespider/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCrawler(t *testing.T, mock *fetch.MockTransport) *crawl.Crawler {
	t.Helper()
	backend, err := fetch.NewBackend(&fetch.Config{Transport: mock, IgnoreRobotsTxt: true})
	require.NoError(t, err)
	c, err := crawl.New(&crawl.Config{MaxDepth: 2, Parallelism: 2}, backend)
	require.NoError(t, err)
	return c
}

func TestReferer(t *testing.T) {
	mock := fetch.NewMockTransport()
	mock.RegisterHTML("http://example.com/", `<a href="/a">a</a>`)
	mock.RegisterHTML("http://example.com/a", `<a href="/b">b</a>`)
	mock.RegisterHTML("http://example.com/b", `end`)

	c := newCrawler(t, mock)
	Referer(c)

	referers := map[string]string{}
	c.OnExchange = func(ex *bluespider.Exchange, depth int) {
		referers[ex.RequestURL()] = ex.Request.Header.Get("Referer")
	}
	_, err := c.Run(context.Background(), "http://example.com/")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"http://example.com/":  "",
		"http://example.com/a": "http://example.com/",
		"http://example.com/b": "http://example.com/a",
	}, referers)
}

func TestURLLengthFilter(t *testing.T) {
	long := "/" + strings.Repeat("x", 100)
	mock := fetch.NewMockTransport()
	mock.RegisterHTML("http://example.com/", `<a href="/short">s</a><a href="`+long+`">l</a>`)
	mock.RegisterHTML("http://example.com/short", `ok`)

	c := newCrawler(t, mock)
	URLLengthFilter(c, 50)

	_, err := c.Run(context.Background(), "http://example.com/")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"GET http://example.com/", "GET http://example.com/short"}, mock.Requests())
}
