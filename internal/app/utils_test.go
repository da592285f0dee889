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

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantURL     string
		wantDomain  string
		shouldError bool
	}{
		{
			name:       "HTTPS URL",
			input:      "https://example.com",
			wantURL:    "https://example.com/",
			wantDomain: "example.com",
		},
		{
			name:       "HTTP URL keeps its scheme",
			input:      "http://example.com",
			wantURL:    "http://example.com/",
			wantDomain: "example.com",
		},
		{
			name:       "Domain without protocol",
			input:      "example.com",
			wantURL:    "https://example.com/",
			wantDomain: "example.com",
		},
		{
			name:       "URL with port",
			input:      "http://127.0.0.1:8080",
			wantURL:    "http://127.0.0.1:8080/",
			wantDomain: "127.0.0.1:8080",
		},
		{
			name:       "Default port is not part of the domain",
			input:      "https://example.com:443/",
			wantURL:    "https://example.com:443/",
			wantDomain: "example.com",
		},
		{
			name:       "Path and query are kept",
			input:      "https://example.com/docs/?page=2",
			wantURL:    "https://example.com/docs/?page=2",
			wantDomain: "example.com",
		},
		{
			name:       "Fragment is dropped and host lowercased",
			input:      "  https://WWW.Example.COM/Path#top  ",
			wantURL:    "https://www.example.com/Path",
			wantDomain: "www.example.com",
		},
		{
			name:        "Empty URL",
			input:       "   ",
			shouldError: true,
		},
		{
			name:        "Unsupported scheme",
			input:       "ftp://example.com",
			shouldError: true,
		},
		{
			name:        "Missing host",
			input:       "http://",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, gotDomain, err := normalizeURL(tt.input)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantDomain, gotDomain)
		})
	}
}

func TestBuildScope(t *testing.T) {
	assert.Equal(t, []string{"example.com"}, buildScope("Example.com", false))
	assert.Equal(t, []string{"example.com", "*.example.com"}, buildScope("example.com", true))
}
