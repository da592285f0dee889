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
	"log/slog"
	"sync"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/fetch"
	"github.com/agentberlin/bluespider/internal/store"
	"github.com/agentberlin/bluespider/storage"
)

var (
	// ErrNoStore is returned by operations that need a database when the
	// app runs without one
	ErrNoStore = errors.New("no database configured")
	// ErrCrawlInProgress is returned when a project already has an active crawl
	ErrCrawlInProgress = errors.New("crawl already in progress for this project")
	// ErrNoActiveCrawl is returned when stopping a project that is not crawling
	ErrNoActiveCrawl = errors.New("no active crawl")
)

// Config holds the settings shared by every operation of an App
type Config struct {
	// Parser configures the resource parsers. Nil uses the defaults.
	Parser *bluespider.Config
	// Fetch configures the HTTP backend. Nil uses the defaults.
	Fetch *fetch.Config
	// Logger receives progress output. Nil discards it.
	Logger *slog.Logger
}

// App represents the core application logic shared by the CLI, the HTTP
// server and the MCP server
type App struct {
	ctx          context.Context
	store        *store.Store
	emitter      EventEmitter
	parser       *bluespider.Config
	fetchConfig  *fetch.Config
	fetcher      *fetch.Backend
	logger       *slog.Logger
	activeCrawls map[uint]*activeCrawl
	crawlsMutex  sync.RWMutex
}

// NewApp creates a new App instance with dependencies injected. st may be
// nil, in which case only Discover is available.
func NewApp(st *store.Store, emitter EventEmitter, config *Config) (*App, error) {
	if emitter == nil {
		emitter = &NoOpEmitter{}
	}
	if config == nil {
		config = &Config{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parser := config.Parser
	if parser == nil {
		parser = bluespider.NewDefaultConfig()
	}

	// Robots rules are only honoured when the caller passes a fetch config
	// asking for them
	fetchConfig := fetch.NewDefaultConfig()
	fetchConfig.IgnoreRobotsTxt = true
	if config.Fetch != nil {
		copied := *config.Fetch
		fetchConfig = &copied
	}
	if fetchConfig.Logger == nil {
		fetchConfig.Logger = logger
	}
	fetcher, err := fetch.NewBackend(fetchConfig)
	if err != nil {
		return nil, err
	}

	return &App{
		ctx:          context.Background(),
		store:        st,
		emitter:      emitter,
		parser:       parser,
		fetchConfig:  fetchConfig,
		fetcher:      fetcher,
		logger:       logger,
		activeCrawls: make(map[uint]*activeCrawl),
	}, nil
}

// Startup sets the context background crawls derive from
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

// Store returns the database the app writes to, or nil
func (a *App) Store() *store.Store {
	return a.store
}

func (a *App) requireStore() error {
	if a.store == nil {
		return ErrNoStore
	}
	return nil
}

// crawlFetcher builds the backend of one crawl. Each crawl gets its own
// cookie session, robots cache and limit rule state.
func (a *App) crawlFetcher(visited *storage.InMemoryStorage) (*fetch.Backend, error) {
	cfg := *a.fetchConfig
	if cfg.Jar == nil {
		cfg.Jar = visited.Jar()
	}
	cfg.LimitRules = make([]*fetch.LimitRule, 0, len(a.fetchConfig.LimitRules))
	for _, r := range a.fetchConfig.LimitRules {
		rule := *r
		cfg.LimitRules = append(cfg.LimitRules, &rule)
	}
	return fetch.NewBackend(&cfg)
}
