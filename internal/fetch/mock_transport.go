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

package fetch

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"slices"
	"sync"
	"time"
)

// MockResponse represents a mock HTTP response
type MockResponse struct {
	// StatusCode is the HTTP status code to return (default: 200)
	StatusCode int
	// Body is the response body content (used if BodyFunc is nil)
	Body string
	// BodyFunc generates the body from the request and takes precedence over Body
	BodyFunc func(*http.Request) string
	// Headers are the HTTP headers to include in the response
	Headers http.Header
	// Delay simulates network latency before returning the response
	Delay time.Duration
	// Error simulates a network error
	Error error
}

type mockPattern struct {
	pattern  *regexp.Regexp
	response *MockResponse
}

// MockTransport implements http.RoundTripper for tests. Responses are
// registered per exact URL or per URL pattern; anything else gets a 404.
type MockTransport struct {
	responses map[string]*MockResponse
	patterns  []mockPattern
	requests  []string
	mutex     sync.RWMutex
}

// NewMockTransport creates a new MockTransport instance
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]*MockResponse),
	}
}

// RegisterResponse registers a mock response for an exact URL match
func (m *MockTransport) RegisterResponse(url string, response *MockResponse) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.responses[url] = withDefaults(response)
}

// RegisterHTML is a convenience method to register an HTML response with status 200
func (m *MockTransport) RegisterHTML(url, html string) {
	m.RegisterText(url, "text/html; charset=utf-8", html)
}

// RegisterText registers a 200 response with the given content type
func (m *MockTransport) RegisterText(url, contentType, body string) {
	headers := make(http.Header)
	headers.Set("Content-Type", contentType)
	m.RegisterResponse(url, &MockResponse{Body: body, Headers: headers})
}

// RegisterRedirect registers a redirect from url to location
func (m *MockTransport) RegisterRedirect(url string, status int, location string) {
	headers := make(http.Header)
	headers.Set("Location", location)
	m.RegisterResponse(url, &MockResponse{StatusCode: status, Headers: headers})
}

// RegisterError registers a mock error for a URL (simulates network failure)
func (m *MockTransport) RegisterError(url string, err error) {
	m.RegisterResponse(url, &MockResponse{Error: err})
}

// RegisterPattern registers a mock response for URLs matching a regex pattern
func (m *MockTransport) RegisterPattern(pattern string, response *MockResponse) error {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.patterns = append(m.patterns, mockPattern{pattern: regex, response: withDefaults(response)})
	return nil
}

// Requests returns "METHOD URL" for every request seen, in arrival order
func (m *MockTransport) Requests() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return slices.Clone(m.requests)
}

// Reset clears all registered responses, patterns and seen requests
func (m *MockTransport) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.responses = make(map[string]*MockResponse)
	m.patterns = nil
	m.requests = nil
}

// RoundTrip implements the http.RoundTripper interface
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	m.mutex.Lock()
	m.requests = append(m.requests, req.Method+" "+url)
	mockResp, found := m.responses[url]
	if !found {
		for _, p := range m.patterns {
			if p.pattern.MatchString(url) {
				mockResp, found = p.response, true
				break
			}
		}
	}
	m.mutex.Unlock()

	if !found {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}

	if mockResp.Delay > 0 {
		select {
		case <-time.After(mockResp.Delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
	if mockResp.Error != nil {
		return nil, mockResp.Error
	}

	bodyContent := mockResp.Body
	if mockResp.BodyFunc != nil {
		bodyContent = mockResp.BodyFunc(req)
	}
	return &http.Response{
		StatusCode:    mockResp.StatusCode,
		Body:          io.NopCloser(bytes.NewBufferString(bodyContent)),
		Header:        mockResp.Headers.Clone(),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(bodyContent)),
	}, nil
}

func withDefaults(response *MockResponse) *MockResponse {
	if response.StatusCode == 0 {
		response.StatusCode = http.StatusOK
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	return response
}
