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

package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agentberlin/bluespider/internal/fetch"
	"github.com/agentberlin/bluespider/internal/store"
	"github.com/agentberlin/bluespider/internal/types"
	"github.com/agentberlin/bluespider/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []EventType
}

func (e *recordingEmitter) Emit(eventType EventType, data interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, eventType)
}

func (e *recordingEmitter) snapshot() []EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EventType(nil), e.events...)
}

func newTestApp(t *testing.T, emitter EventEmitter) *App {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	a, err := NewApp(st, emitter, nil)
	require.NoError(t, err)
	return a
}

func hostOf(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Host
}

func intPtr(v int) *int { return &v }

func TestRunCrawl(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	emitter := &recordingEmitter{}
	a := newTestApp(t, emitter)

	info, err := a.RunCrawl(context.Background(), types.CrawlRequest{URL: srv.URL, MaxDepth: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, store.CrawlCompleted, info.State)
	assert.Equal(t, hostOf(t, srv.URL), info.Domain)
	assert.Equal(t, srv.URL+"/", info.Seed)
	assert.Greater(t, info.PagesFetched, 1)
	assert.Greater(t, info.ResourceCount, 0)
	assert.Empty(t, a.GetActiveCrawls())

	events := emitter.snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, EventCrawlStarted, events[0])
	assert.Equal(t, EventCrawlCompleted, events[len(events)-1])
	assert.Contains(t, events, EventCrawlProgress)

	projects, err := a.GetProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, info.ID, projects[0].LatestCrawlID)
	assert.Equal(t, info.ResourceCount, projects[0].ResourceCount)

	crawls, err := a.GetCrawls(info.ProjectID)
	require.NoError(t, err)
	require.Len(t, crawls, 1)
	assert.Equal(t, info.ID, crawls[0].ID)

	about, err := a.GetCrawlResources(info.ID, "/about", "", 0)
	require.NoError(t, err)
	require.NotEmpty(t, about.Resources)
	for _, r := range about.Resources {
		assert.NotEmpty(t, r.Source)
	}

	limited, err := a.GetCrawlResources(info.ID, "", "", 1)
	require.NoError(t, err)
	assert.Len(t, limited.Resources, 1)
	assert.Equal(t, info.ResourceCount, limited.Total)

	posts, err := a.GetCrawlResources(info.ID, "", "post", 0)
	require.NoError(t, err)
	assert.Zero(t, posts.Total)

	// A second crawl of the same site lands in the same project
	second, err := a.RunCrawl(context.Background(), types.CrawlRequest{URL: srv.URL, MaxDepth: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, info.ProjectID, second.ProjectID)
	assert.Equal(t, 1, second.PagesFetched)

	crawls, err = a.GetCrawls(info.ProjectID)
	require.NoError(t, err)
	require.Len(t, crawls, 2)
	assert.Equal(t, second.ID, crawls[0].ID)

	require.NoError(t, a.DeleteCrawlByID(info.ID))
	_, err = a.GetCrawl(info.ID)
	assert.Error(t, err)

	require.NoError(t, a.DeleteProjectByID(info.ProjectID))
	projects, err = a.GetProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestRunCrawlKeepsCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="/members">members</a>`)
	})
	mux.HandleFunc("/members", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if c, err := r.Cookie("session"); err == nil && c.Value == "abc" {
			fmt.Fprint(w, `<a href="/members/area">area</a>`)
		}
	})
	mux.HandleFunc("/members/area", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestApp(t, nil)
	info, err := a.RunCrawl(context.Background(), types.CrawlRequest{URL: srv.URL, Parallelism: 1})
	require.NoError(t, err)

	area, err := a.GetCrawlResources(info.ID, "/members/area", "", 0)
	require.NoError(t, err)
	assert.NotZero(t, area.Total)
	assert.Equal(t, 3, info.PagesFetched)
}

func fetchedPage(t *testing.T, st *store.Store, crawlID uint, url string) store.FetchedPage {
	t.Helper()
	pages, err := st.GetFetchedPages(crawlID)
	require.NoError(t, err)
	for _, p := range pages {
		if p.URL == url {
			return p
		}
	}
	t.Fatalf("no page %s in crawl %d", url, crawlID)
	return store.FetchedPage{}
}

func TestRunCrawlFetchesDisallowedPaths(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	a := newTestApp(t, nil)
	info, err := a.RunCrawl(context.Background(), types.CrawlRequest{URL: srv.URL + "/robots.txt", MaxDepth: intPtr(1)})
	require.NoError(t, err)

	private := fetchedPage(t, a.Store(), info.ID, srv.URL+"/private")
	assert.Equal(t, http.StatusOK, private.Status)
	assert.Empty(t, private.Error)
}

func TestRunCrawlHonoursRobotsWhenAsked(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()
	a, err := NewApp(st, nil, &Config{Fetch: &fetch.Config{}})
	require.NoError(t, err)

	info, err := a.RunCrawl(context.Background(), types.CrawlRequest{URL: srv.URL + "/robots.txt", MaxDepth: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, info.PagesFailed)

	private := fetchedPage(t, st, info.ID, srv.URL+"/private")
	assert.Contains(t, private.Error, "robots.txt")
}

func TestRunCrawlMaxRequests(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	a := newTestApp(t, nil)
	info, err := a.RunCrawl(context.Background(), types.CrawlRequest{
		URL:         srv.URL,
		MaxRequests: 2,
		Parallelism: 1,
		SendReferer: true,
	})
	require.NoError(t, err)
	assert.Equal(t, store.CrawlCompleted, info.State)
	assert.LessOrEqual(t, info.PagesFetched+info.PagesFailed, 2)
}

func TestRunCrawlCancelled(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	a := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info, err := a.RunCrawl(ctx, types.CrawlRequest{URL: srv.URL + "/slow"})
	require.NoError(t, err)
	assert.Equal(t, store.CrawlStopped, info.State)
}

func TestStartAndStopCrawl(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	emitter := &recordingEmitter{}
	a := newTestApp(t, emitter)

	progress, err := a.StartCrawl(types.CrawlRequest{URL: srv.URL + "/slow"})
	require.NoError(t, err)
	assert.Equal(t, hostOf(t, srv.URL), progress.Domain)

	active, ok := a.GetCrawlProgress(progress.ProjectID)
	require.True(t, ok)
	assert.Equal(t, progress.CrawlID, active.CrawlID)

	_, err = a.StartCrawl(types.CrawlRequest{URL: srv.URL})
	assert.ErrorIs(t, err, ErrCrawlInProgress)
	assert.ErrorIs(t, a.DeleteProjectByID(progress.ProjectID), ErrCrawlInProgress)
	assert.ErrorIs(t, a.DeleteCrawlByID(progress.CrawlID), ErrCrawlInProgress)

	require.NoError(t, a.StopCrawl(progress.ProjectID))
	assert.Eventually(t, func() bool {
		return len(a.GetActiveCrawls()) == 0
	}, 5*time.Second, 10*time.Millisecond)

	info, err := a.GetCrawl(progress.CrawlID)
	require.NoError(t, err)
	assert.Equal(t, store.CrawlStopped, info.State)
	assert.Contains(t, emitter.snapshot(), EventCrawlStopped)

	assert.ErrorIs(t, a.StopCrawl(progress.ProjectID), ErrNoActiveCrawl)
}

func TestCrawlRequestValidation(t *testing.T) {
	a := newTestApp(t, nil)

	_, err := a.RunCrawl(context.Background(), types.CrawlRequest{URL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = a.RunCrawl(context.Background(), types.CrawlRequest{URL: "http://example.com", Scope: []string{"[invalid"}})
	assert.Error(t, err)

	projects, err := a.GetProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestAppWithoutStore(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	a, err := NewApp(nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, a.Store())

	_, err = a.GetProjects()
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = a.StartCrawl(types.CrawlRequest{URL: srv.URL})
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = a.GetCrawlResources(1, "", "", 0)
	assert.ErrorIs(t, err, ErrNoStore)

	result, err := a.Discover(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Resources)
}

func TestDiscover(t *testing.T) {
	srv := testutil.NewTestServer()
	defer srv.Close()

	a, err := NewApp(nil, nil, nil)
	require.NoError(t, err)

	page, err := a.Discover(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, 200, page.StatusCode)
	assert.False(t, page.Consumed)
	var uris []string
	for _, r := range page.Resources {
		uris = append(uris, r.URI)
		assert.Equal(t, 1, r.Depth)
	}
	assert.Contains(t, uris, srv.URL+"/about")
	assert.Contains(t, uris, srv.URL+"/style.css")

	redirect, err := a.Discover(context.Background(), srv.URL+"/old", 3)
	require.NoError(t, err)
	assert.Equal(t, 301, redirect.StatusCode)
	assert.True(t, redirect.Consumed)
	require.Len(t, redirect.Resources, 1)
	assert.Equal(t, srv.URL+"/about", redirect.Resources[0].URI)
	assert.Equal(t, 3, redirect.Resources[0].Depth)

	_, err = a.Discover(context.Background(), "ftp://example.com", 0)
	assert.Error(t, err)
	_, err = a.Discover(context.Background(), srv.URL, -1)
	assert.Error(t, err)
}
