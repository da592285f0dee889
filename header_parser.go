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

import "regexp"

// linkTargetPattern matches the bracketed target opening each entry of a
// Link header. Entries without brackets, or with an unmatched one, do not
// match.
var linkTargetPattern = regexp.MustCompile(`(?:^|,)\s*<([^<>]*)>`)

// HeaderParser discovers URLs in the Content-Location, Link and Refresh
// response headers
type HeaderParser struct {
	parserBase
}

// NewHeaderParser creates a HeaderParser. A nil config uses defaults.
func NewHeaderParser(cfg *Config) *HeaderParser {
	p := &HeaderParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *HeaderParser) Name() string { return "header" }

// CanHandle accepts every exchange, consumed or not
func (p *HeaderParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return true
}

// Parse emits header targets at depth+1 and never consumes the exchange
func (p *HeaderParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)

	base := ex.RequestURL()
	for _, v := range ex.ResponseHeaderValues("Content-Location") {
		p.emitFollowable(base, v, depth+1)
	}
	for _, v := range ex.ResponseHeaderValues("Link") {
		for _, m := range linkTargetPattern.FindAllStringSubmatch(v, -1) {
			p.emitFollowable(base, m[1], depth+1)
		}
	}
	for _, v := range ex.ResponseHeaderValues("Refresh") {
		if target, ok := refreshTarget(v); ok {
			p.emitFollowable(base, target, depth+1)
		}
	}
	return false
}

func (p *parserBase) emitFollowable(base, ref string, depth int) {
	if ref == "" {
		return
	}
	abs, err := ResolveURL(base, ref)
	if err != nil {
		p.logger.Debug("dropping unresolvable reference", "ref", ref, "err", err)
		return
	}
	if !IsFollowableScheme(abs) {
		return
	}
	p.emit(abs, WithDepth(depth))
}
