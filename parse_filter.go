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

// FilterResult tells the controller whether an exchange may be parsed
type FilterResult struct {
	Filtered bool
	Reason   string
}

// ParseFilter decides, before any parser runs, whether an exchange is worth
// parsing at all
type ParseFilter interface {
	IsFiltered(ex *Exchange) FilterResult
}

// ParseFilterFunc adapts a function to ParseFilter
type ParseFilterFunc func(ex *Exchange) FilterResult

// IsFiltered implements ParseFilter
func (f ParseFilterFunc) IsFiltered(ex *Exchange) FilterResult { return f(ex) }

// binaryPrefixes lists media types that never carry discoverable links
var binaryPrefixes = []string{
	"image/",
	"audio/",
	"video/",
	"font/",
	"application/octet-stream",
	"application/pdf",
	"application/zip",
	"application/x-font",
}

// DefaultParseFilter skips oversized and binary responses. Redirects are
// never filtered since only their headers matter.
type DefaultParseFilter struct {
	// MaxSize is the largest body in bytes to parse, 0 for unlimited
	MaxSize int
}

// IsFiltered implements ParseFilter
func (f *DefaultParseFilter) IsFiltered(ex *Exchange) FilterResult {
	if ex.IsRedirect() {
		return FilterResult{}
	}
	if f.MaxSize > 0 && len(ex.Body()) > f.MaxSize {
		return FilterResult{Filtered: true, Reason: "body exceeds max parse size"}
	}
	if ex.ResponseHeader("Content-Type") == "" {
		return FilterResult{}
	}
	ct := ex.ContentType()
	for _, prefix := range binaryPrefixes {
		if strings.HasPrefix(ct, prefix) && ct != "image/svg+xml" {
			return FilterResult{Filtered: true, Reason: "binary content type " + ct}
		}
	}
	return FilterResult{}
}
