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

// Package fetch turns discovered resources into request/response exchanges.
// It never follows redirects: a 3xx response is returned as is so the
// redirect parser can report its target.
package fetch

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentberlin/bluespider/internal/version"
)

var (
	// ErrNoPattern is the error type for LimitRules without patterns
	ErrNoPattern = errors.New("no pattern defined in LimitRule")
	// ErrUnsupportedScheme is returned for resources the fetcher cannot request
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrIgnoredResource is returned when asked to fetch a resource flagged
	// as not to be followed
	ErrIgnoredResource = errors.New("resource is marked as ignored")
	// ErrForbiddenByRobots is the error thrown if a request is blocked by robots.txt
	ErrForbiddenByRobots = errors.New("URL forbidden by robots.txt")
)

// Config is the configuration of a Backend
type Config struct {
	// UserAgent is the User-Agent string used by HTTP requests
	UserAgent string
	// Headers contains custom headers added to every request
	Headers map[string]string
	// MaxBodySize is the limit of the retrieved response body in bytes.
	// 0 means unlimited.
	MaxBodySize int
	// Timeout bounds a single request
	Timeout time.Duration
	// IgnoreRobotsTxt disables the robots.txt politeness check
	IgnoreRobotsTxt bool
	// LimitRules throttle requests per domain
	LimitRules []*LimitRule
	// Transport replaces http.DefaultTransport, mostly for tests
	Transport http.RoundTripper
	// Jar stores session cookies between requests
	Jar http.CookieJar
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// NewDefaultConfig returns the fetcher defaults
func NewDefaultConfig() *Config {
	return &Config{
		UserAgent:   version.UserAgent(),
		MaxBodySize: 10 * 1024 * 1024, // 10MB
		Timeout:     10 * time.Second,
	}
}

// mergeConfig lays user values over the defaults. Non-zero user values win,
// except MaxBodySize which is always taken since 0 means unlimited.
func mergeConfig(config *Config) *Config {
	merged := NewDefaultConfig()
	if config == nil {
		merged.Logger = slog.New(slog.DiscardHandler)
		return merged
	}
	if config.UserAgent != "" {
		merged.UserAgent = config.UserAgent
	}
	if config.Headers != nil {
		merged.Headers = config.Headers
	}
	merged.MaxBodySize = config.MaxBodySize
	if config.Timeout != 0 {
		merged.Timeout = config.Timeout
	}
	merged.IgnoreRobotsTxt = config.IgnoreRobotsTxt
	merged.LimitRules = config.LimitRules
	merged.Transport = config.Transport
	merged.Jar = config.Jar
	merged.Logger = config.Logger
	if merged.Logger == nil {
		merged.Logger = slog.New(slog.DiscardHandler)
	}
	return merged
}
