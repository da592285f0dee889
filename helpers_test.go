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
	"net/http"
	"reflect"
	"sync"
	"testing"
)

type recorder struct {
	mu    sync.Mutex
	found []*Resource
}

func (r *recorder) ResourceFound(res *Resource) {
	r.mu.Lock()
	r.found = append(r.found, res)
	r.mu.Unlock()
}

func (r *recorder) resources() []*Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Resource(nil), r.found...)
}

func (r *recorder) uris() []string {
	var uris []string
	for _, res := range r.resources() {
		uris = append(uris, res.URI())
	}
	return uris
}

func record(p interface{ AddListener(ResourceListener) ListenerID }) *recorder {
	r := &recorder{}
	p.AddListener(r)
	return r
}

func newTestExchange(t *testing.T, rawURL string, status int, contentType, body string) *Exchange {
	t.Helper()
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	ex, err := NewExchange(rawURL, status, h, []byte(body))
	if err != nil {
		t.Fatalf("building exchange for %s: %v", rawURL, err)
	}
	return ex
}

func htmlExchange(t *testing.T, rawURL, body string) *Exchange {
	t.Helper()
	return newTestExchange(t, rawURL, 200, "text/html; charset=utf-8", body)
}

// parseHTML runs p over body served from rawURL and returns what it found
func parseHTML(t *testing.T, p Parser, rawURL, body string) []string {
	t.Helper()
	rec := record(p)
	ex := htmlExchange(t, rawURL, body)
	p.Parse(ex, NewDocument(ex, false), 0)
	return rec.uris()
}

func expectURIs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected resources\n got: %q\nwant: %q", got, want)
	}
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}
