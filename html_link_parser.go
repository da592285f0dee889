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
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// linkAttrs lists, per element, the attributes holding a followable URL
var linkAttrs = map[string][]string{
	"a":          {"href"},
	"area":       {"href"},
	"frame":      {"src"},
	"iframe":     {"src"},
	"link":       {"href"},
	"script":     {"src"},
	"img":        {"src", "longdesc", "lowsrc"},
	"audio":      {"src"},
	"video":      {"src", "poster"},
	"source":     {"src"},
	"embed":      {"src"},
	"object":     {"data", "codebase"},
	"blockquote": {"cite"},
	"q":          {"cite"},
	"del":        {"cite"},
	"ins":        {"cite"},
	"body":       {"background"},
	"table":      {"background"},
}

// HTMLLinkParser discovers link-bearing elements, meta refreshes and URLs
// hidden in comments of HTML documents
type HTMLLinkParser struct {
	parserBase
}

// NewHTMLLinkParser creates an HTMLLinkParser. A nil config uses defaults.
func NewHTMLLinkParser(cfg *Config) *HTMLLinkParser {
	p := &HTMLLinkParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *HTMLLinkParser) Name() string { return "html-link" }

// CanHandle accepts HTML responses not consumed by an earlier parser
func (p *HTMLLinkParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return !consumed && ex.IsHTML()
}

// Parse emits every discovered link at depth+1. It never consumes the
// exchange. Without a parsed document it falls back to scanning the body for
// bare URLs.
func (p *HTMLLinkParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)

	root := doc.Root()
	if root == nil {
		for _, u := range scanBareURLs(string(ex.Body())) {
			p.emitURL("", u, depth+1)
		}
		return false
	}
	w := &linkWalker{
		parser: p,
		base:   baseURL(ex, doc),
		depth:  depth + 1,
	}
	w.walk(root, true)
	return false
}

type linkWalker struct {
	parser *HTMLLinkParser
	base   string
	depth  int
}

func (w *linkWalker) walk(n *html.Node, scanComments bool) {
	switch n.Type {
	case html.ElementNode:
		w.element(n)
	case html.CommentNode:
		if scanComments && w.parser.config.ParseComments {
			w.comment(n.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, scanComments)
	}
}

func (w *linkWalker) element(n *html.Node) {
	switch n.Data {
	case "a", "area":
		w.anchor(n)
		return
	case "meta":
		w.meta(n)
		return
	case "input":
		if strings.EqualFold(htmlquery.SelectAttr(n, "type"), "image") && htmlquery.ExistsAttr(n, "src") {
			w.link(htmlquery.SelectAttr(n, "src"))
		}
		return
	}
	for _, name := range linkAttrs[n.Data] {
		if htmlquery.ExistsAttr(n, name) {
			w.link(htmlquery.SelectAttr(n, name))
		}
	}
	if n.Data == "img" || n.Data == "source" {
		for _, u := range splitSrcset(htmlquery.SelectAttr(n, "srcset")) {
			w.link(u)
		}
	}
}

// anchor handles a and area. A non-followable href is reported as an ignored
// resource only when no ping is present and pseudo-link reporting is on.
func (w *linkWalker) anchor(n *html.Node) {
	pings := strings.Fields(htmlquery.SelectAttr(n, "ping"))
	if htmlquery.ExistsAttr(n, "href") {
		href := strings.TrimSpace(htmlquery.SelectAttr(n, "href"))
		abs, err := ResolveURL(w.base, href)
		switch {
		case err != nil:
			w.parser.logger.Debug("dropping unresolvable reference", "ref", href, "err", err)
		case IsFollowableScheme(abs):
			w.emit(abs)
		case len(pings) == 0 && w.parser.config.ReportPseudoLinks:
			w.emit(abs, WithIgnore(true))
		}
	}
	for _, ping := range pings {
		w.link(ping)
	}
}

func (w *linkWalker) meta(n *html.Node) {
	content := htmlquery.SelectAttr(n, "content")
	switch strings.ToLower(strings.TrimSpace(htmlquery.SelectAttr(n, "http-equiv"))) {
	case "refresh":
		if target, ok := refreshTarget(content); ok {
			w.link(target)
		}
	case "location":
		if strings.TrimSpace(content) != "" {
			w.link(content)
		}
	}
}

// link resolves a present attribute value. An empty one resolves to the
// base URL.
func (w *linkWalker) link(ref string) {
	ref = strings.TrimSpace(ref)
	abs, err := ResolveURL(w.base, ref)
	if err != nil {
		w.parser.logger.Debug("dropping unresolvable reference", "ref", ref, "err", err)
		return
	}
	if !IsFollowableScheme(abs) {
		if w.parser.config.ReportPseudoLinks {
			w.emit(abs, WithIgnore(true))
		}
		return
	}
	w.emit(abs)
}

func (w *linkWalker) emit(abs string, opts ...ResourceOption) {
	w.parser.emit(abs, append([]ResourceOption{WithDepth(w.depth)}, opts...)...)
}

// comment treats the comment body first as markup, then as plain text.
// Both passes report what they find.
func (w *linkWalker) comment(data string) {
	if strings.Contains(data, "<") {
		if root, err := html.Parse(strings.NewReader(data)); err == nil {
			w.walk(root, false)
		}
	}
	for _, u := range scanBareURLs(data) {
		abs, err := ResolveURL(w.base, u)
		if err != nil {
			continue
		}
		w.emit(abs)
	}
}

// splitSrcset returns the URL of every srcset candidate
func splitSrcset(srcset string) []string {
	var urls []string
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

// refreshTarget extracts the URL of a refresh directive such as
// "5; url='/next'" or "0;/next". A bare delay yields nothing.
func refreshTarget(content string) (string, bool) {
	rest := strings.TrimSpace(content)
	if i := strings.IndexAny(rest, ";,"); i >= 0 && isDelay(strings.TrimSpace(rest[:i])) {
		rest = strings.TrimSpace(rest[i+1:])
	} else if isDelay(rest) {
		return "", false
	}
	if len(rest) >= 3 && strings.EqualFold(rest[:3], "url") {
		if after, ok := strings.CutPrefix(strings.TrimSpace(rest[3:]), "="); ok {
			rest = strings.TrimSpace(after)
		}
	}
	rest = unquote(rest)
	return rest, rest != ""
}

func isDelay(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func unquote(s string) string {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return s
	}
	q := s[0]
	s = s[1:]
	if i := strings.IndexByte(s, q); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
