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
	"bytes"
	"mime"
	"strings"

	"github.com/antchfx/xmlquery"
)

// SitemapXMLParser extracts <loc> entries from sitemap.xml documents,
// including sitemap indexes
type SitemapXMLParser struct {
	parserBase
}

// NewSitemapXMLParser creates a SitemapXMLParser. A nil config uses defaults.
func NewSitemapXMLParser(cfg *Config) *SitemapXMLParser {
	p := &SitemapXMLParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *SitemapXMLParser) Name() string { return "sitemap-xml" }

// CanHandle accepts requests for a path ending in sitemap.xml, consumed or not
func (p *SitemapXMLParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return strings.HasSuffix(strings.ToLower(path), "sitemap.xml")
}

// Parse emits every non-empty location at depth+1 and reports the exchange
// consumed. Responses that are not a usable sitemap yield nothing and are
// reported as not consumed.
func (p *SitemapXMLParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)
	if !p.config.ParseSitemapXML {
		return false
	}
	if !declaresXML(ex.ResponseHeader("Content-Type")) {
		p.logger.Debug("sitemap skipped, not XML", "url", ex.RequestURL())
		return false
	}
	if ex.StatusCode() >= 400 {
		p.logger.Debug("sitemap skipped, error status", "url", ex.RequestURL(), "status", ex.StatusCode())
		return false
	}
	body := ex.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return false
	}
	root, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		p.logger.Debug("sitemap skipped, malformed XML", "url", ex.RequestURL(), "err", err)
		return false
	}
	if hasDoctype(root) {
		p.logger.Debug("sitemap skipped, DOCTYPE declared", "url", ex.RequestURL())
		return false
	}

	base := ex.RequestURL()
	for _, entry := range xmlquery.Find(root, "/urlset/url") {
		p.emitLoc(base, entry, depth+1)
	}
	for _, entry := range xmlquery.Find(root, "/sitemapindex/sitemap") {
		p.emitLoc(base, entry, depth+1)
	}
	return true
}

func (p *SitemapXMLParser) emitLoc(base string, entry *xmlquery.Node, depth int) {
	loc := entry.SelectElement("loc")
	if loc == nil {
		return
	}
	p.emitFollowable(base, strings.TrimSpace(loc.InnerText()), depth)
}

func declaresXML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(mediaType), "xml")
}

// hasDoctype reports a <!DOCTYPE> declaration anywhere in the tree
func hasDoctype(n *xmlquery.Node) bool {
	if n.Type == xmlquery.NotationNode && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(n.Data)), "DOCTYPE") {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasDoctype(c) {
			return true
		}
	}
	return false
}
