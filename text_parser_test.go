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

func TestTextParser(t *testing.T) {
	p := NewTextParser(nil)
	rec := record(p)
	ex := newTestExchange(t, "http://example.com/notes.txt", 200, "text/plain",
		"see http://a.com/x and (ftp://b.com/y)\nnot a link: example.com/z\nHTTPS://C.COM/w")
	if p.Parse(ex, NewDocument(ex, false), 2) {
		t.Error("text parser must never report full consumption")
	}
	expectURIs(t, rec.uris(), []string{"http://a.com/x", "ftp://b.com/y", "https://c.com/w"})
	for _, r := range rec.resources() {
		if r.Depth() != 3 {
			t.Errorf("expected depth 3, got %d", r.Depth())
		}
	}
}

func TestTextParserDecodesCharset(t *testing.T) {
	p := NewTextParser(nil)
	rec := record(p)
	body := append([]byte("http://example.com/caf"), 0xE9)
	ex := newTestExchange(t, "http://example.com/", 200, "text/plain; charset=iso-8859-1", string(body))
	p.Parse(ex, NewDocument(ex, false), 0)
	expectURIs(t, rec.uris(), []string{"http://example.com/caf%C3%A9"})
}

func TestTextParserWithoutDocument(t *testing.T) {
	p := NewTextParser(nil)
	rec := record(p)
	ex := newTestExchange(t, "http://example.com/", 200, "text/css", "body { background: url(http://example.com/bg.png) }")
	p.Parse(ex, nil, 0)
	expectURIs(t, rec.uris(), []string{"http://example.com/bg.png"})
}

func TestTextParserCanHandle(t *testing.T) {
	p := NewTextParser(nil)
	tests := []struct {
		contentType string
		consumed    bool
		want        bool
	}{
		{"text/plain", false, true},
		{"text/css; charset=utf-8", false, true},
		{"text/html", false, false},
		{"application/json", false, false},
		{"text/plain", true, false},
	}
	for _, tt := range tests {
		ex := newTestExchange(t, "http://example.com/", 200, tt.contentType, "x")
		if got := p.CanHandle(ex, "/", tt.consumed); got != tt.want {
			t.Errorf("CanHandle(%q, %v) = %v, want %v", tt.contentType, tt.consumed, got, tt.want)
		}
	}
}
