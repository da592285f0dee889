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
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Header is a single request header a discovered resource must be replayed with
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Resource is an immutable record describing a request the spider should
// consider making. Build it with NewResource.
type Resource struct {
	uri          string
	depth        int
	method       string
	body         string
	headers      []Header
	shouldIgnore bool
}

// ResourceOption configures a Resource under construction
type ResourceOption func(*Resource)

// WithDepth sets the crawl depth. A negative depth panics.
func WithDepth(depth int) ResourceOption {
	if depth < 0 {
		panic(fmt.Sprintf("bluespider: negative resource depth %d", depth))
	}
	return func(r *Resource) {
		r.depth = depth
	}
}

// WithMethod sets the HTTP method. An empty method keeps GET.
func WithMethod(method string) ResourceOption {
	return func(r *Resource) {
		if method != "" {
			r.method = strings.ToUpper(method)
		}
	}
}

// WithBody sets the request body
func WithBody(body string) ResourceOption {
	return func(r *Resource) {
		r.body = body
	}
}

// WithHeader appends a request header. Headers with a blank name are dropped.
func WithHeader(name, value string) ResourceOption {
	return func(r *Resource) {
		if strings.TrimSpace(name) == "" {
			return
		}
		r.headers = append(r.headers, Header{Name: name, Value: value})
	}
}

// WithIgnore marks the resource as reported-but-not-to-be-fetched
func WithIgnore(ignore bool) ResourceOption {
	return func(r *Resource) {
		r.shouldIgnore = ignore
	}
}

// NewResource builds a Resource for uri. Method defaults to GET, body to empty
// and depth to zero.
func NewResource(uri string, opts ...ResourceOption) (*Resource, error) {
	if uri == "" {
		return nil, ErrEmptyURI
	}
	r := &Resource{
		uri:    uri,
		method: "GET",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustResource is like NewResource but panics on error
func MustResource(uri string, opts ...ResourceOption) *Resource {
	r, err := NewResource(uri, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// URI returns the absolute, fragment-free URI of the resource
func (r *Resource) URI() string { return r.uri }

// Depth returns the crawl depth at which the resource was found
func (r *Resource) Depth() int { return r.depth }

// Method returns the upper-case HTTP method
func (r *Resource) Method() string { return r.method }

// Body returns the request body, empty for GET resources
func (r *Resource) Body() string { return r.body }

// Headers returns a copy of the extra request headers
func (r *Resource) Headers() []Header { return slices.Clone(r.headers) }

// ShouldIgnore reports whether the resource is informational only
func (r *Resource) ShouldIgnore() bool { return r.shouldIgnore }

// Equal reports whether both resources describe the same request
func (r *Resource) Equal(o *Resource) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.uri == o.uri &&
		r.depth == o.depth &&
		r.method == o.method &&
		r.body == o.body &&
		r.shouldIgnore == o.shouldIgnore &&
		slices.Equal(r.headers, o.headers)
}

func (r *Resource) String() string {
	if r.body == "" {
		return fmt.Sprintf("%s %s (depth %d)", r.method, r.uri, r.depth)
	}
	return fmt.Sprintf("%s %s [%s] (depth %d)", r.method, r.uri, r.body, r.depth)
}

type resourceJSON struct {
	URI          string   `json:"uri"`
	Depth        int      `json:"depth"`
	Method       string   `json:"method"`
	Body         string   `json:"body,omitempty"`
	Headers      []Header `json:"headers,omitempty"`
	ShouldIgnore bool     `json:"shouldIgnore,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(resourceJSON{
		URI:          r.uri,
		Depth:        r.depth,
		Method:       r.method,
		Body:         r.body,
		Headers:      r.headers,
		ShouldIgnore: r.shouldIgnore,
	})
}
