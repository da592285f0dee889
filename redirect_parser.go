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

import "strings"

// RedirectParser follows the Location header of 3xx responses
type RedirectParser struct {
	parserBase
}

// NewRedirectParser creates a RedirectParser. A nil config uses defaults.
func NewRedirectParser(cfg *Config) *RedirectParser {
	p := &RedirectParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *RedirectParser) Name() string { return "redirect" }

// CanHandle accepts 3xx responses
func (p *RedirectParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return ex.IsRedirect()
}

// Parse emits the redirect target at the same depth, since it stands for the
// same logical resource. A redirect is always fully consumed, even when the
// Location header is missing or unusable.
func (p *RedirectParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)

	location := strings.TrimSpace(ex.ResponseHeader("Location"))
	if location != "" {
		p.emitFollowable(ex.RequestURL(), location, depth)
	}
	return true
}
