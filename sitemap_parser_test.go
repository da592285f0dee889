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

const sitemapFixture = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>http://example.com/</loc><priority>1.0</priority></url>
  <url><loc>
    http://example.com/about
  </loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
  <url><loc></loc></url>
  <url><loc>/relative/page</loc></url>
</urlset>`

func parseSitemap(t *testing.T, cfg *Config, status int, contentType, body string) (*recorder, bool) {
	t.Helper()
	p := NewSitemapXMLParser(cfg)
	rec := record(p)
	ex := newTestExchange(t, "http://example.com/sitemap.xml", status, contentType, body)
	return rec, p.Parse(ex, NewDocument(ex, false), 0)
}

func TestSitemapXMLParser(t *testing.T) {
	rec, consumed := parseSitemap(t, nil, 200, "application/xml", sitemapFixture)
	if !consumed {
		t.Error("a valid sitemap should be fully consumed")
	}
	expectURIs(t, rec.uris(), []string{
		"http://example.com/",
		"http://example.com/about",
		"http://example.com/relative/page",
	})
	for _, r := range rec.resources() {
		if r.Depth() != 1 || r.Method() != "GET" {
			t.Errorf("unexpected resource %v", r)
		}
	}
}

func TestSitemapXMLParserIndex(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>http://example.com/sitemap-posts.xml</loc></sitemap>
  <sitemap><loc>http://example.com/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`
	rec, consumed := parseSitemap(t, nil, 200, "text/xml; charset=utf-8", body)
	if !consumed {
		t.Error("a sitemap index should be fully consumed")
	}
	expectURIs(t, rec.uris(), []string{
		"http://example.com/sitemap-posts.xml",
		"http://example.com/sitemap-pages.xml",
	})
}

func TestSitemapXMLParserRejects(t *testing.T) {
	doctype := `<?xml version="1.0"?>
<!DOCTYPE urlset [<!ENTITY a "aaaaaaaaaa">]>
<urlset><url><loc>http://example.com/</loc></url></urlset>`
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
	}{
		{"doctype", 200, "application/xml", doctype},
		{"html content type", 200, "text/html", sitemapFixture},
		{"missing content type", 200, "", sitemapFixture},
		{"not found", 404, "application/xml", sitemapFixture},
		{"server error", 503, "application/xml", sitemapFixture},
		{"empty body", 200, "application/xml", "   "},
		{"malformed", 200, "application/xml", "<urlset><url><loc>http://example.com/</url>"},
		{"not xml", 200, "application/xml", "just some text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, consumed := parseSitemap(t, nil, tt.status, tt.contentType, tt.body)
			if consumed {
				t.Error("rejected sitemap must not be consumed")
			}
			if n := len(rec.resources()); n != 0 {
				t.Errorf("rejected sitemap emitted %d resources", n)
			}
		})
	}
}

func TestSitemapXMLParserDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ParseSitemapXML = false
	rec, consumed := parseSitemap(t, cfg, 200, "application/xml", sitemapFixture)
	if consumed || len(rec.resources()) != 0 {
		t.Error("disabled sitemap parser must do nothing")
	}
}

func TestSitemapXMLParserCanHandle(t *testing.T) {
	p := NewSitemapXMLParser(nil)
	ex := newTestExchange(t, "http://example.com/sitemap.xml", 200, "application/xml", "")
	for path, want := range map[string]bool{
		"/sitemap.xml":      true,
		"/SITEMAP.XML":      true,
		"/news-sitemap.xml": true,
		"/sitemap.xml.gz":   false,
		"":                  false,
	} {
		if got := p.CanHandle(ex, path, true); got != want {
			t.Errorf("CanHandle(%q) = %v, want %v", path, got, want)
		}
	}
}
