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

package bluespider

import (
	"log/slog"
	"slices"
	"sync"
)

// Controller runs an ordered list of parsers over each exchange and relays
// every discovered resource to its own listeners
type Controller struct {
	listenerRegistry

	config  *Config
	logger  *slog.Logger
	mu      sync.RWMutex
	parsers []Parser
	filters []ParseFilter
}

// NewController creates a Controller with the built-in parsers registered in
// dispatch order: redirect, robots.txt, sitemap, header, form, link, text.
// A nil config uses defaults.
func NewController(cfg *Config) *Controller {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	c := NewEmptyController(cfg)
	c.AddParseFilter(&DefaultParseFilter{MaxSize: cfg.MaxParseSize})
	c.AddParser(NewRedirectParser(cfg))
	c.AddParser(NewRobotsTxtParser(cfg))
	c.AddParser(NewSitemapXMLParser(cfg))
	c.AddParser(NewHeaderParser(cfg))
	c.AddParser(NewHTMLFormParser(cfg))
	c.AddParser(NewHTMLLinkParser(cfg))
	c.AddParser(NewTextParser(cfg))
	return c
}

// NewEmptyController creates a Controller without parsers or filters
func NewEmptyController(cfg *Config) *Controller {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Controller{
		config: cfg,
		logger: cfg.logger(),
	}
}

// AddParser appends p to the dispatch order and subscribes to its findings
func (c *Controller) AddParser(p Parser) {
	p.AddListener(ResourceListenerFunc(c.notify))
	c.mu.Lock()
	c.parsers = append(c.parsers, p)
	c.mu.Unlock()
}

// AddParseFilter adds a filter consulted before parsing
func (c *Controller) AddParseFilter(f ParseFilter) {
	c.mu.Lock()
	c.filters = append(c.filters, f)
	c.mu.Unlock()
}

// Parsers returns the registered parsers in dispatch order
func (c *Controller) Parsers() []Parser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.parsers)
}

// Process parses ex found at depth. The document view is built once and
// shared. Each parser whose CanHandle accepts runs in turn; the returned value
// reports whether any of them fully consumed the exchange.
func (c *Controller) Process(ex *Exchange, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)

	c.mu.RLock()
	parsers := slices.Clone(c.parsers)
	filters := slices.Clone(c.filters)
	c.mu.RUnlock()

	for _, f := range filters {
		if res := f.IsFiltered(ex); res.Filtered {
			c.logger.Debug("exchange filtered", "url", ex.RequestURL(), "reason", res.Reason)
			return false
		}
	}

	doc := NewDocument(ex, c.config.DetectCharset)
	path := ex.RequestPath()
	consumed := false
	for _, p := range parsers {
		if !p.CanHandle(ex, path, consumed) {
			continue
		}
		c.logger.Debug("parsing", "parser", p.Name(), "url", ex.RequestURL(), "depth", depth)
		consumed = p.Parse(ex, doc, depth) || consumed
	}
	return consumed
}
