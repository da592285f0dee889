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

package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/agentberlin/bluespider"
)

// Backend performs HTTP requests for resources and wraps the outcome in a
// bluespider.Exchange
type Backend struct {
	config     *Config
	client     *http.Client
	robots     *RobotsPolicy
	limitRules []*LimitRule
	lock       sync.RWMutex
	logger     *slog.Logger
}

// NewBackend creates a Backend from config merged over NewDefaultConfig
func NewBackend(config *Config) (*Backend, error) {
	cfg := mergeConfig(config)
	b := &Backend{
		config: cfg,
		client: &http.Client{
			Transport: cfg.Transport,
			Jar:       cfg.Jar,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: cfg.Logger,
	}
	if !cfg.IgnoreRobotsTxt {
		b.robots = NewRobotsPolicy(b.client, cfg.UserAgent)
	}
	if err := b.Limits(cfg.LimitRules); err != nil {
		return nil, err
	}
	return b, nil
}

// Limit adds a new LimitRule to the backend
func (b *Backend) Limit(rule *LimitRule) error {
	if err := rule.Init(); err != nil {
		return err
	}
	b.lock.Lock()
	b.limitRules = append(b.limitRules, rule)
	b.lock.Unlock()
	return nil
}

// Limits adds new LimitRules to the backend
func (b *Backend) Limits(rules []*LimitRule) error {
	for _, r := range rules {
		if err := b.Limit(r); err != nil {
			return err
		}
	}
	return nil
}

// matchingRule returns the first rule matching domain
func (b *Backend) matchingRule(domain string) *LimitRule {
	b.lock.RLock()
	defer b.lock.RUnlock()
	for _, r := range b.limitRules {
		if r.Match(domain) {
			return r
		}
	}
	return nil
}

// Get fetches rawURL with a plain GET
func (b *Backend) Get(ctx context.Context, rawURL string) (*bluespider.Exchange, error) {
	res, err := bluespider.NewResource(rawURL)
	if err != nil {
		return nil, err
	}
	return b.Fetch(ctx, res)
}

// Fetch performs the request described by res. Redirects are not followed;
// the 3xx response itself becomes the exchange.
func (b *Backend) Fetch(ctx context.Context, res *bluespider.Resource) (*bluespider.Exchange, error) {
	if res.ShouldIgnore() {
		return nil, fmt.Errorf("%w: %s", ErrIgnoredResource, res.URI())
	}

	var body io.Reader
	if res.Body() != "" {
		body = strings.NewReader(res.Body())
	}
	req, err := http.NewRequestWithContext(ctx, res.Method(), res.URI(), body)
	if err != nil {
		return nil, err
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, res.URI())
	}
	for k, v := range b.config.Headers {
		req.Header.Set(k, v)
	}
	for _, h := range res.Headers() {
		req.Header.Add(h.Name, h.Value)
	}
	if b.config.UserAgent != "" {
		req.Header.Set("User-Agent", b.config.UserAgent)
	}

	if b.robots != nil && !strings.EqualFold(req.URL.Path, "/robots.txt") {
		if !b.robots.Allowed(ctx, req.URL) {
			return nil, fmt.Errorf("%w: %s", ErrForbiddenByRobots, res.URI())
		}
	}

	if r := b.matchingRule(req.URL.Hostname()); r != nil {
		release, err := r.acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	trace := &requestTrace{}
	resp, err := b.client.Do(trace.withTrace(req))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := b.readBody(req, resp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", res.URI(), err)
	}
	b.logger.Debug("fetched", "method", req.Method, "url", res.URI(), "status", resp.StatusCode,
		"connect", trace.ConnectDuration, "firstByte", trace.FirstByteDuration)

	return &bluespider.Exchange{
		Request: &bluespider.Request{
			Method: req.Method,
			URL:    req.URL,
			Header: req.Header.Clone(),
			Body:   []byte(res.Body()),
		},
		Response: &bluespider.Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       respBody,
		},
	}, nil
}

func (b *Backend) readBody(req *http.Request, res *http.Response) ([]byte, error) {
	var bodyReader io.Reader = res.Body
	if b.config.MaxBodySize > 0 {
		bodyReader = io.LimitReader(bodyReader, int64(b.config.MaxBodySize))
	}
	contentEncoding := strings.ToLower(res.Header.Get("Content-Encoding"))
	if !res.Uncompressed && (strings.Contains(contentEncoding, "gzip") ||
		(contentEncoding == "" && strings.Contains(strings.ToLower(res.Header.Get("Content-Type")), "gzip")) ||
		strings.HasSuffix(strings.ToLower(req.URL.Path), ".xml.gz")) {
		gz, err := gzip.NewReader(bodyReader)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		bodyReader = gz
		res.Header.Del("Content-Encoding")
	}
	return io.ReadAll(bodyReader)
}
