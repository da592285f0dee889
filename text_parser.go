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

// bareURLPattern matches absolute http, https and ftp URLs. A URL ends at
// whitespace, brackets of any kind, angle brackets or quotes.
var bareURLPattern = regexp.MustCompile(`(?i)\b(?:https?|ftp)://[^\s"'<>(){}\[\]]+`)

func scanBareURLs(text string) []string {
	return bareURLPattern.FindAllString(text, -1)
}

// TextParser finds bare URLs in non-HTML text responses
type TextParser struct {
	parserBase
}

// NewTextParser creates a TextParser. A nil config uses defaults.
func NewTextParser(cfg *Config) *TextParser {
	p := &TextParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *TextParser) Name() string { return "text" }

// CanHandle accepts unconsumed text/* responses that are not HTML
func (p *TextParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return !consumed && ex.IsText() && !ex.IsHTML()
}

// Parse emits every bare URL at depth+1 and never consumes the exchange
func (p *TextParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)
	text := doc.Text()
	if doc == nil {
		text = string(ex.Body())
	}
	for _, u := range scanBareURLs(text) {
		p.emitURL("", u, depth+1)
	}
	return false
}
