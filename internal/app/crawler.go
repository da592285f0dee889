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
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/extensions"
	"github.com/agentberlin/bluespider/internal/crawl"
	"github.com/agentberlin/bluespider/internal/store"
	"github.com/agentberlin/bluespider/internal/types"
	"github.com/agentberlin/bluespider/storage"
)

// activeCrawl tracks an ongoing crawl
type activeCrawl struct {
	projectID uint
	crawlID   uint
	domain    string
	url       string
	startTime time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	crawler   *crawl.Crawler
	recorder  *store.CrawlRecorder

	statusMutex sync.RWMutex // Protects the fields below
	stopped     bool
	fetched     int
	failed      int
	found       int
}

func (ac *activeCrawl) progress() types.CrawlProgress {
	ac.statusMutex.RLock()
	defer ac.statusMutex.RUnlock()
	return types.CrawlProgress{
		ProjectID: ac.projectID,
		CrawlID:   ac.crawlID,
		Domain:    ac.domain,
		URL:       ac.url,
		Fetched:   ac.fetched,
		Failed:    ac.failed,
		Found:     ac.found,
		StartedAt: ac.startTime.Unix(),
	}
}

// StartCrawl starts a crawl in the background and returns once it is registered
func (a *App) StartCrawl(req types.CrawlRequest) (*types.CrawlProgress, error) {
	ac, err := a.prepareCrawl(a.ctx, req)
	if err != nil {
		return nil, err
	}
	progress := ac.progress()
	go func() {
		if _, err := a.runCrawler(ac); err != nil {
			a.logger.Error("crawl failed", "project", ac.projectID, "crawl", ac.crawlID, "err", err)
		}
	}()
	return &progress, nil
}

// RunCrawl runs a crawl to completion. A crawl interrupted through ctx or
// StopCrawl is stored as stopped and is not an error.
func (a *App) RunCrawl(ctx context.Context, req types.CrawlRequest) (*types.CrawlInfo, error) {
	ac, err := a.prepareCrawl(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.runCrawler(ac)
}

// StopCrawl stops an active crawl for a specific project
func (a *App) StopCrawl(projectID uint) error {
	a.crawlsMutex.RLock()
	ac, exists := a.activeCrawls[projectID]
	a.crawlsMutex.RUnlock()

	if !exists {
		return fmt.Errorf("%w for project %d", ErrNoActiveCrawl, projectID)
	}

	ac.statusMutex.Lock()
	ac.stopped = true
	ac.statusMutex.Unlock()

	ac.cancel()
	a.logger.Info("stop signal sent", "project", projectID, "crawl", ac.crawlID)
	return nil
}

// prepareCrawl validates the request, builds the crawler and registers the
// crawl as active for its project
func (a *App) prepareCrawl(parent context.Context, req types.CrawlRequest) (*activeCrawl, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}

	normalizedURL, domain, err := normalizeURL(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	parsedURL, err := url.Parse(normalizedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse normalized URL: %v", err)
	}

	config := crawl.NewDefaultConfig()
	if req.MaxDepth != nil {
		config.MaxDepth = *req.MaxDepth
	}
	if req.Parallelism > 0 {
		config.Parallelism = req.Parallelism
	}
	if req.MaxRequests > 0 {
		config.MaxRequests = req.MaxRequests
	}
	config.Scope = req.Scope
	if len(config.Scope) == 0 {
		config.Scope = buildScope(parsedURL.Hostname(), req.IncludeSubdomains)
	}
	config.Parser = a.parser
	config.Logger = a.logger

	visited := &storage.InMemoryStorage{}
	if err := visited.Init(); err != nil {
		return nil, err
	}
	fetcher, err := a.crawlFetcher(visited)
	if err != nil {
		return nil, err
	}
	crawler, err := crawl.New(config, fetcher)
	if err != nil {
		return nil, err
	}
	crawler.WithStorage(visited)
	if req.SendReferer {
		extensions.Referer(crawler)
	}
	if req.MaxURLLength > 0 {
		extensions.URLLengthFilter(crawler, req.MaxURLLength)
	}

	project, err := a.store.GetOrCreateProject(normalizedURL, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create project: %v", err)
	}

	a.crawlsMutex.Lock()
	defer a.crawlsMutex.Unlock()

	if _, alreadyCrawling := a.activeCrawls[project.ID]; alreadyCrawling {
		return nil, ErrCrawlInProgress
	}

	startTime := time.Now()
	record, err := a.store.CreateCrawl(project.ID, normalizedURL, startTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create crawl: %v", err)
	}

	ctx, cancel := context.WithCancel(parent)
	ac := &activeCrawl{
		projectID: project.ID,
		crawlID:   record.ID,
		domain:    domain,
		url:       normalizedURL,
		startTime: startTime,
		ctx:       ctx,
		cancel:    cancel,
		crawler:   crawler,
		recorder:  a.store.NewCrawlRecorder(record.ID),
	}
	a.activeCrawls[project.ID] = ac

	a.emitter.Emit(EventCrawlStarted, ac.progress())
	a.logger.Info("crawl started", "project", project.ID, "crawl", record.ID, "url", normalizedURL, "scope", config.Scope)
	return ac, nil
}

// runCrawler drives a prepared crawl, records its output and stores the
// final state. The crawl is unregistered when it returns.
func (a *App) runCrawler(ac *activeCrawl) (*types.CrawlInfo, error) {
	defer func() {
		ac.cancel()
		a.crawlsMutex.Lock()
		delete(a.activeCrawls, ac.projectID)
		a.crawlsMutex.Unlock()
	}()

	ac.crawler.OnResource = func(f crawl.Found) {
		ac.recorder.Resource(f.Source, f.Resource, f.Scheduled)
		ac.statusMutex.Lock()
		ac.found++
		ac.statusMutex.Unlock()
	}
	ac.crawler.OnExchange = func(ex *bluespider.Exchange, depth int) {
		ac.recorder.Page(ex, depth)
		ac.statusMutex.Lock()
		ac.fetched++
		ac.statusMutex.Unlock()
		a.emitter.Emit(EventCrawlProgress, ac.progress())
	}
	ac.crawler.OnError = func(res *bluespider.Resource, err error) {
		ac.recorder.Failure(res, err)
		ac.statusMutex.Lock()
		ac.failed++
		ac.statusMutex.Unlock()
		a.emitter.Emit(EventCrawlProgress, ac.progress())
	}

	stats, runErr := ac.crawler.Run(ac.ctx, ac.url)

	ac.statusMutex.RLock()
	stopped := ac.stopped
	ac.statusMutex.RUnlock()

	state := store.CrawlCompleted
	event := EventCrawlCompleted
	switch {
	case runErr == nil:
	case stopped || errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		state, event, runErr = store.CrawlStopped, EventCrawlStopped, nil
	default:
		state, event = store.CrawlFailed, EventCrawlFailed
	}

	summary := store.CrawlSummary{Duration: time.Since(ac.startTime)}
	if stats != nil {
		summary.Fetched = stats.Fetched
		summary.Failed = stats.Failed
	}
	if err := ac.recorder.Finish(state, summary); err != nil {
		a.logger.Error("failed to save crawl results", "crawl", ac.crawlID, "err", err)
		if runErr == nil {
			runErr = err
		}
		if state == store.CrawlCompleted {
			event = EventCrawlFailed
		}
	}

	a.emitter.Emit(event, ac.progress())
	a.logger.Info("crawl finished", "project", ac.projectID, "crawl", ac.crawlID, "state", state,
		"fetched", summary.Fetched, "failed", summary.Failed)

	info, err := a.GetCrawl(ac.crawlID)
	if err != nil {
		return nil, err
	}
	if runErr != nil {
		return info, fmt.Errorf("crawl %d: %w", ac.crawlID, runErr)
	}
	return info, nil
}
