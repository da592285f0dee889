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
	"fmt"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// ResolveURL resolves ref against base following the WHATWG URL rules and
// returns the absolute result without its fragment. A lone "%" is encoded as
// "%25".
func ResolveURL(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	var (
		u   *whatwgUrl.Url
		err error
	)
	if base == "" {
		u, err = urlParser.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrNoBase, ref)
		}
	} else {
		u, err = urlParser.ParseRef(base, ref)
		if err != nil {
			return "", fmt.Errorf("resolving %q against %q: %w", ref, base, err)
		}
	}
	if u.Scheme() == "" {
		return "", fmt.Errorf("%w: %q", ErrNotAbsolute, ref)
	}
	return u.Href(true), nil
}

// IsFollowableScheme reports whether an absolute URL uses a scheme the
// spider can fetch
func IsFollowableScheme(absURL string) bool {
	scheme, _, ok := strings.Cut(absURL, ":")
	if !ok {
		return false
	}
	switch strings.ToLower(scheme) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// AppendQuery merges an encoded query into an action URL. A URL without "?"
// gets "?query"; one already ending in "?" or "&" gets the query appended
// directly; any other gets "&query". An empty query leaves action as is.
func AppendQuery(action, query string) string {
	switch {
	case query == "":
		return action
	case !strings.Contains(action, "?"):
		return action + "?" + query
	case strings.HasSuffix(action, "?"), strings.HasSuffix(action, "&"):
		return action + query
	default:
		return action + "&" + query
	}
}

// SiteRoot returns scheme://host[:port]/ for an absolute URL
func SiteRoot(absURL string) (string, error) {
	u, err := urlParser.Parse(absURL)
	if err != nil {
		return "", err
	}
	return u.Protocol() + "//" + u.Host() + "/", nil
}
