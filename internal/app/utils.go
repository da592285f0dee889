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
	"fmt"
	"net/url"
	"strings"
)

// normalizeURL normalizes a URL input and extracts the domain identifier
// Returns: (normalizedURL, domain, error)
func normalizeURL(input string) (string, string, error) {
	// Trim whitespace
	input = strings.TrimSpace(input)

	if input == "" {
		return "", "", fmt.Errorf("empty URL")
	}

	// Add https:// if no protocol is present
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL: %v", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", "", fmt.Errorf("unsupported scheme %q", parsedURL.Scheme)
	}

	// Extract hostname (includes subdomain, excludes port)
	hostname := strings.ToLower(parsedURL.Hostname())
	if hostname == "" || strings.ContainsAny(hostname, " \t") {
		return "", "", fmt.Errorf("no hostname in URL")
	}

	// Include port in domain identifier for non-standard ports
	domain := hostname
	if port := parsedURL.Port(); port != "" && !isDefaultPort(parsedURL.Scheme, port) {
		domain = hostname + ":" + port
	}

	parsedURL.Host = strings.ToLower(parsedURL.Host)
	parsedURL.Fragment = ""
	if parsedURL.Path == "" {
		parsedURL.Path = "/"
	}
	return parsedURL.String(), domain, nil
}

func isDefaultPort(scheme, port string) bool {
	return (scheme == "http" && port == "80") || (scheme == "https" && port == "443")
}

// buildScope returns the host globs a crawl of hostname stays within.
// With includeSubdomains every subdomain matches as well.
// Examples for "example.com":
//   - includeSubdomains=false: ["example.com"]
//   - includeSubdomains=true: ["example.com", "*.example.com"]
func buildScope(hostname string, includeSubdomains bool) []string {
	hostname = strings.ToLower(hostname)
	if !includeSubdomains {
		return []string{hostname}
	}
	return []string{hostname, "*." + hostname}
}
