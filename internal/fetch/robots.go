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

package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsPolicy answers whether a URL may be fetched according to its host's
// robots.txt. Rules are fetched once per host and cached.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string

	mu    sync.RWMutex
	cache map[string]*robotstxt.RobotsData
}

// NewRobotsPolicy creates a policy that downloads robots.txt with client
func NewRobotsPolicy(client *http.Client, userAgent string) *RobotsPolicy {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether target may be fetched. Unreachable or unparsable
// robots.txt files allow everything.
func (p *RobotsPolicy) Allowed(ctx context.Context, target *url.URL) bool {
	if target == nil || !target.IsAbs() {
		return false
	}
	rules := p.rules(ctx, target)
	if rules == nil {
		return true
	}
	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}
	return rules.TestAgent(path, p.userAgent)
}

func (p *RobotsPolicy) rules(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	host := strings.ToLower(target.Scheme + "://" + target.Host)

	p.mu.RLock()
	rules, ok := p.cache[host]
	p.mu.RUnlock()
	if ok {
		return rules
	}

	rules = p.download(ctx, host+"/robots.txt")
	if ctx.Err() != nil {
		return rules
	}
	p.mu.Lock()
	p.cache[host] = rules
	p.mu.Unlock()
	return rules
}

func (p *RobotsPolicy) download(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return nil
	}
	rules, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return rules
}
