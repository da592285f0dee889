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

func parseHeaders(t *testing.T, p Parser, rawURL string, status int, headers map[string][]string, depth int) (*recorder, bool) {
	t.Helper()
	rec := record(p)
	ex := newTestExchange(t, rawURL, status, "", "")
	for name, values := range headers {
		for _, v := range values {
			ex.Response.Header.Add(name, v)
		}
	}
	return rec, p.Parse(ex, nil, depth)
}

func TestHeaderParserLink(t *testing.T) {
	rec, consumed := parseHeaders(t, NewHeaderParser(nil), "http://example.com/", 200, map[string][]string{
		"Link": {"<http://a/>; rel=x,<http://b/>"},
	}, 0)
	if consumed {
		t.Error("header parser must not consume the exchange")
	}
	expectURIs(t, rec.uris(), []string{"http://a/", "http://b/"})
}

func TestHeaderParserLinkMalformedEntries(t *testing.T) {
	rec, _ := parseHeaders(t, NewHeaderParser(nil), "http://example.com/dir/", 200, map[string][]string{
		"Link": {
			`</style.css>; rel=preload; as=style, http://nobrackets/; rel=x, <http://unmatched/; rel=y, <relative>; rel=next`,
			`<>; rel=empty, <http://c/?a=1,2>; title="x"`,
		},
	}, 0)
	expectURIs(t, rec.uris(), []string{
		"http://example.com/style.css",
		"http://example.com/dir/relative",
		"http://c/?a=1,2",
	})
}

func TestHeaderParserContentLocationAndRefresh(t *testing.T) {
	rec, _ := parseHeaders(t, NewHeaderParser(nil), "http://example.com/a/b", 200, map[string][]string{
		"Content-Location": {"/canonical"},
		"Refresh":          {"5; url=next"},
	}, 2)
	expectURIs(t, rec.uris(), []string{"http://example.com/canonical", "http://example.com/a/next"})
	for _, r := range rec.resources() {
		if r.Depth() != 3 {
			t.Errorf("header targets are found at depth+1, got %d", r.Depth())
		}
	}
}

func TestHeaderParserNoHeaders(t *testing.T) {
	rec, _ := parseHeaders(t, NewHeaderParser(nil), "http://example.com/", 200, map[string][]string{
		"Content-Location": {""},
		"Refresh":          {"10"},
	}, 0)
	expectURIs(t, rec.uris(), nil)
}

func TestRedirectParser(t *testing.T) {
	p := NewRedirectParser(nil)
	for _, status := range []int{301, 302, 303, 307, 308} {
		ex := newTestExchange(t, "http://example.com/", status, "", "")
		if !p.CanHandle(ex, "/", true) {
			t.Errorf("redirect parser should handle %d", status)
		}
	}
	if p.CanHandle(newTestExchange(t, "http://example.com/", 200, "", ""), "/", false) {
		t.Error("redirect parser should not handle 200")
	}

	rec, consumed := parseHeaders(t, p, "http://example.com/old/page", 301, map[string][]string{
		"Location": {"../new#section"},
	}, 3)
	if !consumed {
		t.Error("redirects are always fully consumed")
	}
	found := rec.resources()
	if len(found) != 1 || found[0].URI() != "http://example.com/new" {
		t.Fatalf("unexpected redirect resources %v", found)
	}
	if found[0].Depth() != 3 || found[0].Method() != "GET" {
		t.Errorf("redirect target keeps the exchange depth: %v", found[0])
	}
}

func TestRedirectParserMissingLocation(t *testing.T) {
	rec, consumed := parseHeaders(t, NewRedirectParser(nil), "http://example.com/", 302, nil, 0)
	if !consumed {
		t.Error("a redirect without Location is still consumed")
	}
	if len(rec.resources()) != 0 {
		t.Error("nothing should be emitted without Location")
	}
}
