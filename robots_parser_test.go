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

import "testing"

const robotsFixture = `# robots for example.com
User-agent: *
Disallow: /x/y/z # comment
Allow: /public
Disallow:

User-agent: Googlebot
Disallow: /private/*
Allow: /search$
disallow: no-leading-slash
Sitemap: http://example.com/sitemap.xml
Crawl-delay: 10
Disallow: /%
`

func parseRobots(t *testing.T, cfg *Config, body string) (*recorder, bool) {
	t.Helper()
	p := NewRobotsTxtParser(cfg)
	rec := record(p)
	ex := newTestExchange(t, "http://example.com/robots.txt", 200, "text/plain", body)
	return rec, p.Parse(ex, NewDocument(ex, false), 0)
}

func TestRobotsTxtParser(t *testing.T) {
	rec, consumed := parseRobots(t, nil, robotsFixture)
	if !consumed {
		t.Error("robots.txt should be fully consumed when enabled")
	}
	expectURIs(t, rec.uris(), []string{
		"http://example.com/x/y/z",
		"http://example.com/public",
		"http://example.com/private/",
		"http://example.com/search",
		"http://example.com/no-leading-slash",
		"http://example.com/%25",
	})
	for _, r := range rec.resources() {
		if r.Depth() != 1 {
			t.Errorf("expected depth 1, got %d", r.Depth())
		}
	}
}

func TestRobotsTxtParserSingleDirective(t *testing.T) {
	rec, _ := parseRobots(t, nil, "Disallow: /x/y/z # comment")
	expectURIs(t, rec.uris(), []string{"http://example.com/x/y/z"})
}

func TestRobotsTxtParserStaysOnHost(t *testing.T) {
	rec, _ := parseRobots(t, nil, "Disallow: //evil.test/x\nAllow: /%\nDisallow: /a/../b\n")
	expectURIs(t, rec.uris(), []string{
		"http://example.com//evil.test/x",
		"http://example.com/%25",
		"http://example.com/b",
	})
}

func TestRobotsTxtParserDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ParseRobotsTxt = false
	rec, consumed := parseRobots(t, cfg, robotsFixture)
	if consumed {
		t.Error("disabled robots parser must leave the exchange unconsumed")
	}
	if len(rec.resources()) != 0 {
		t.Error("disabled robots parser must find nothing")
	}
}

func TestRobotsTxtParserCanHandle(t *testing.T) {
	p := NewRobotsTxtParser(nil)
	ex := newTestExchange(t, "http://example.com/robots.txt", 200, "text/plain", "")
	tests := map[string]bool{
		"/robots.txt":      true,
		"/ROBOTS.TXT":      true,
		"/sub/robots.txt":  true,
		"/robots.txt.bak":  false,
		"/notrobots.txt":   false,
		"":                 false,
	}
	for path, want := range tests {
		if got := p.CanHandle(ex, path, false); got != want {
			t.Errorf("CanHandle(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRobotsDirectivePath(t *testing.T) {
	tests := []struct {
		line string
		path string
		ok   bool
	}{
		{"Disallow: /a", "/a", true},
		{"  allow :/b  ", "/b", true},
		{"Disallow: /c/*", "/c/", true},
		{"Disallow: *", "", false},
		{"Disallow:", "", false},
		{"User-agent: *", "", false},
		{"# Disallow: /commented", "", false},
		{"Noindex: /x", "", false},
	}
	for _, tt := range tests {
		path, ok := robotsDirectivePath(tt.line)
		if path != tt.path || ok != tt.ok {
			t.Errorf("robotsDirectivePath(%q) = %q, %v; want %q, %v", tt.line, path, ok, tt.path, tt.ok)
		}
	}
}
