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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/app"
	"github.com/agentberlin/bluespider/internal/fetch"
	"github.com/agentberlin/bluespider/internal/store"
)

// commonFlags are shared by the commands that fetch
type commonFlags struct {
	configPath string
	userAgent  string
	verbose    bool
	quiet      bool
}

func (c *commonFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML file with parser settings")
	fs.StringVar(&c.userAgent, "user-agent", "", "Custom User-Agent string")
	fs.BoolVar(&c.verbose, "verbose", false, "Log debug output to stderr")
	fs.BoolVar(&c.quiet, "quiet", false, "Only log warnings and errors")
	fs.BoolVar(&c.quiet, "q", false, "Only log warnings and errors (shorthand)")
}

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// newLogger writes text logs to w. verbose enables debug output, quiet
// limits output to warnings.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadParserConfig loads the parser config file, if any, and applies
// BLUESPIDER_* environment overrides
func loadParserConfig(path string, logger *slog.Logger) (*bluespider.Config, error) {
	cfg := bluespider.NewDefaultConfig()
	if path != "" {
		loaded, err := bluespider.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Logger = logger
	return cfg, nil
}

// normalizeURL accepts bare hosts and returns an absolute http(s) URL
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("URL argument is required")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return u.String(), nil
}

func validateFormat(format string) error {
	if format != "json" && format != "csv" {
		return fmt.Errorf("invalid format: %s (must be json or csv)", format)
	}
	return nil
}

// fetchConfig builds the HTTP backend settings for a command
func (c *commonFlags) fetchConfig(logger *slog.Logger) *fetch.Config {
	cfg := fetch.NewDefaultConfig()
	if c.userAgent != "" {
		cfg.UserAgent = c.userAgent
	}
	cfg.Logger = logger
	return cfg
}

// openStore opens the database at path, or the default one
func openStore(path string) (*store.Store, error) {
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return nil, err
		}
	}
	st, err := store.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}
	return st, nil
}

// newApp builds the core app for a command. st may be nil.
func newApp(st *store.Store, emitter app.EventEmitter, parserConfig *bluespider.Config, fetchConfig *fetch.Config, logger *slog.Logger) (*app.App, error) {
	return app.NewApp(st, emitter, &app.Config{
		Parser: parserConfig,
		Fetch:  fetchConfig,
		Logger: logger,
	})
}
