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

// Package crawl drives the resource parsers over a live site: it fetches
// each scheduled resource, feeds the exchange to a bluespider.Controller and
// schedules what the parsers found.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/storage"
	"github.com/gobwas/glob"
)

// ErrInvalidSeed is returned when the seed URL is not an absolute http(s) URL
var ErrInvalidSeed = errors.New("seed must be an absolute http or https URL")

// Fetcher performs the request a resource describes
type Fetcher interface {
	Fetch(ctx context.Context, res *bluespider.Resource) (*bluespider.Exchange, error)
}

// Config controls a crawl
type Config struct {
	// MaxDepth is the deepest resource that is still fetched. Negative
	// means unlimited.
	MaxDepth int
	// Parallelism is the number of concurrent fetches
	Parallelism int
	// QueueSize bounds the worker pool queue
	QueueSize int
	// MaxRequests stops scheduling after this many fetches. 0 means unlimited.
	MaxRequests int
	// Scope lists host globs a resource must match to be fetched. Empty
	// restricts the crawl to the seed host.
	Scope []string
	// Parser configures the resource parsers
	Parser *bluespider.Config
	// Logger receives progress output. Nil discards it.
	Logger *slog.Logger
}

// NewDefaultConfig returns the crawl defaults
func NewDefaultConfig() *Config {
	return &Config{
		MaxDepth:    2,
		Parallelism: 4,
		QueueSize:   1000,
	}
}

// Found is a resource discovered while parsing an exchange
type Found struct {
	Resource *bluespider.Resource
	// Source is the URL of the exchange the resource was found in
	Source string
	// Scheduled is true when the resource was queued for fetching
	Scheduled bool
}

// Stats summarises a finished crawl
type Stats struct {
	Fetched  int
	Failed   int
	Found    int
	Distinct int
	Duration time.Duration
}

// Crawler is a breadth-first crawl over one site
type Crawler struct {
	// OnResource is called for every discovered resource, scheduled or not.
	// Calls happen on the goroutine running Run, one at a time.
	OnResource func(Found)
	// OnExchange is called for every successful fetch, from Run's goroutine
	OnExchange func(ex *bluespider.Exchange, depth int)
	// OnError is called for every failed fetch, from Run's goroutine
	OnError func(res *bluespider.Resource, err error)

	hooks       []ScheduleHook
	config      *Config
	fetcher     Fetcher
	visited     storage.Storage
	discoveries *storage.CrawlerStore
	scope       []glob.Glob
	logger      *slog.Logger
}

// ScheduleHook may replace a discovered resource before it is queued.
// Returning false drops it. Hooks run on Run's goroutine.
type ScheduleHook func(res *bluespider.Resource, source string) (*bluespider.Resource, bool)

type job struct {
	res *bluespider.Resource
}

type result struct {
	job   job
	ex    *bluespider.Exchange
	found []*bluespider.Resource
	err   error
}

// New creates a Crawler. A nil config uses NewDefaultConfig.
func New(config *Config, fetcher Fetcher) (*Crawler, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = config.Parallelism
	}
	c := &Crawler{
		config:      config,
		fetcher:     fetcher,
		discoveries: storage.NewCrawlerStore(),
		logger:      config.Logger,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	for _, pattern := range config.Scope {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid scope %q: %w", pattern, err)
		}
		c.scope = append(c.scope, g)
	}
	return c, nil
}

// WithStorage replaces the in-memory visited-request store
func (c *Crawler) WithStorage(s storage.Storage) *Crawler {
	c.visited = s
	return c
}

// Discoveries returns the distinct requests found so far
func (c *Crawler) Discoveries() *storage.CrawlerStore {
	return c.discoveries
}

// Run crawls from seed until nothing is left to fetch or ctx is cancelled
func (c *Crawler) Run(ctx context.Context, seed string) (*Stats, error) {
	seedURL, err := url.Parse(seed)
	if err != nil || !seedURL.IsAbs() || (seedURL.Scheme != "http" && seedURL.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}
	if len(c.scope) == 0 {
		c.scope = []glob.Glob{glob.MustCompile(strings.ToLower(seedURL.Hostname()))}
	}
	if c.visited == nil {
		c.visited = &storage.InMemoryStorage{}
	}
	if err := c.visited.Init(); err != nil {
		return nil, err
	}

	start := time.Now()
	stats := &Stats{}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool := NewWorkerPool(ctx, c.config.Parallelism, c.config.QueueSize)
	results := make(chan result, c.config.Parallelism)

	canonical, err := bluespider.ResolveURL("", seedURL.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}
	seedRes, err := bluespider.NewResource(canonical)
	if err != nil {
		return nil, err
	}
	var frontier []job
	if c.claim(seedRes) {
		frontier = append(frontier, job{res: seedRes})
	}
	submitted, inflight := 0, 0

	for len(frontier) > 0 || inflight > 0 {
		for len(frontier) > 0 && c.underBudget(submitted) {
			j := frontier[0]
			task := func() {
				select {
				case results <- c.process(ctx, j):
				case <-ctx.Done():
				}
			}
			if !pool.TrySubmit(task) {
				break
			}
			frontier = frontier[1:]
			submitted++
			inflight++
		}
		if !c.underBudget(submitted) {
			frontier = nil
		}
		if inflight == 0 {
			break
		}

		select {
		case r := <-results:
			inflight--
			frontier = append(frontier, c.collect(r, stats)...)
		case <-ctx.Done():
			pool.Close()
			stats.Distinct = c.discoveries.Count()
			stats.Duration = time.Since(start)
			return stats, ctx.Err()
		}
	}

	pool.Close()
	stats.Distinct = c.discoveries.Count()
	stats.Duration = time.Since(start)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	c.logger.Info("crawl finished", "seed", seed, "fetched", stats.Fetched, "failed", stats.Failed, "found", stats.Found)
	return stats, nil
}

func (c *Crawler) underBudget(submitted int) bool {
	return c.config.MaxRequests <= 0 || submitted < c.config.MaxRequests
}

// process runs on a pool worker: fetch, then parse with a fresh controller
func (c *Crawler) process(ctx context.Context, j job) result {
	ex, err := c.fetcher.Fetch(ctx, j.res)
	if err != nil {
		return result{job: j, err: err}
	}
	var found []*bluespider.Resource
	controller := bluespider.NewController(c.config.Parser)
	controller.AddListener(bluespider.ResourceListenerFunc(func(r *bluespider.Resource) {
		found = append(found, r)
	}))
	controller.Process(ex, j.res.Depth())
	return result{job: j, ex: ex, found: found}
}

// collect handles a worker result on Run's goroutine and returns the jobs to queue
func (c *Crawler) collect(r result, stats *Stats) []job {
	if r.err != nil {
		stats.Failed++
		c.logger.Debug("fetch failed", "url", r.job.res.URI(), "err", r.err)
		if c.OnError != nil {
			c.OnError(r.job.res, r.err)
		}
		return nil
	}
	stats.Fetched++
	if c.OnExchange != nil {
		c.OnExchange(r.ex, r.job.res.Depth())
	}

	source := r.ex.RequestURL()
	var next []job
	for _, res := range r.found {
		stats.Found++
		c.discoveries.Record(storage.RequestHash(res.Method(), res.URI(), res.Body()), source)
		scheduled := false
		if c.shouldFetch(res) {
			if queued, ok := c.beforeSchedule(res, source); ok && c.claim(queued) {
				scheduled = true
				next = append(next, job{res: queued})
			}
		}
		if c.OnResource != nil {
			c.OnResource(Found{Resource: res, Source: source, Scheduled: scheduled})
		}
	}
	return next
}

// OnSchedule registers a hook run for every resource about to be queued
func (c *Crawler) OnSchedule(h ScheduleHook) {
	c.hooks = append(c.hooks, h)
}

func (c *Crawler) beforeSchedule(res *bluespider.Resource, source string) (*bluespider.Resource, bool) {
	for _, h := range c.hooks {
		var ok bool
		if res, ok = h(res, source); !ok || res == nil {
			return nil, false
		}
	}
	return res, true
}

// shouldFetch applies the depth, scheme and scope rules
func (c *Crawler) shouldFetch(res *bluespider.Resource) bool {
	if res.ShouldIgnore() || !bluespider.IsFollowableScheme(res.URI()) {
		return false
	}
	if c.config.MaxDepth >= 0 && res.Depth() > c.config.MaxDepth {
		return false
	}
	return c.inScope(res.URI())
}

func (c *Crawler) inScope(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, g := range c.scope {
		if g.Match(host) {
			return true
		}
	}
	return false
}

// claim marks the request as visited and reports whether it was new
func (c *Crawler) claim(res *bluespider.Resource) bool {
	already, err := c.visited.VisitIfNotVisited(storage.RequestHash(res.Method(), res.URI(), res.Body()))
	if err != nil {
		c.logger.Warn("visited store failed", "url", res.URI(), "err", err)
		return false
	}
	return !already
}
