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
	"bufio"
	"strings"
)

// RobotsTxtParser mines every Allow and Disallow path of a robots.txt,
// whatever user-agent group it belongs to
type RobotsTxtParser struct {
	parserBase
}

// NewRobotsTxtParser creates a RobotsTxtParser. A nil config uses defaults.
func NewRobotsTxtParser(cfg *Config) *RobotsTxtParser {
	p := &RobotsTxtParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *RobotsTxtParser) Name() string { return "robots-txt" }

// CanHandle accepts requests for /robots.txt, consumed or not
func (p *RobotsTxtParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return strings.HasSuffix(strings.ToLower(path), "/robots.txt")
}

// Parse emits each directive path at depth+1 and reports the exchange
// consumed. When robots.txt parsing is disabled it finds nothing and leaves
// the exchange to other parsers.
func (p *RobotsTxtParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)
	if !p.config.ParseRobotsTxt {
		return false
	}
	root, err := SiteRoot(ex.RequestURL())
	if err != nil {
		p.logger.Debug("robots.txt without usable request URL", "err", err)
		return true
	}

	text := string(ex.Body())
	if doc != nil {
		text = doc.Text()
	}
	host := strings.TrimSuffix(root, "/")
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		path, ok := robotsDirectivePath(scanner.Text())
		if !ok {
			continue
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		// Appended to the host, never resolved: "//other/x" stays on this host
		p.emitURL("", host+path, depth+1)
	}
	return true
}

// robotsDirectivePath returns the path of an Allow or Disallow line with
// comments and trailing wildcard characters removed
func robotsDirectivePath(line string) (string, bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "allow", "disallow":
	default:
		return "", false
	}
	path := strings.TrimRight(strings.TrimSpace(value), "*$")
	return path, path != ""
}
