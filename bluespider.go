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

// Package bluespider implements the resource-discovery front-end of a web
// spider. Given a fetched HTTP exchange it runs an ordered set of parsers
// (redirects, robots.txt, sitemaps, headers, HTML links and forms, plain text)
// and reports every candidate resource found to registered listeners.
package bluespider

import "errors"

var (
	// ErrEmptyURI is returned when a resource is built without a URI
	ErrEmptyURI = errors.New("resource URI is empty")
	// ErrNoBase is returned when a relative reference has nothing to resolve against
	ErrNoBase = errors.New("relative reference without base URL")
	// ErrNotAbsolute is returned when a resolved reference has no scheme or host
	ErrNotAbsolute = errors.New("resolved URL is not absolute")
	// ErrConfigNotFound is returned when a config file does not exist
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidParseSize is returned when the parse size cap is negative
	ErrInvalidParseSize = errors.New("max parse size must not be negative")
)
