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
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/fetch"
)

func runParse(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)

	var (
		common  commonFlags
		depth   int
		format  string
		timeout time.Duration
	)
	common.bind(fs)
	fs.IntVar(&depth, "depth", 0, "Depth of the fetched page; found resources get depth+1")
	fs.StringVar(&format, "format", "text", "Output format: text, json")
	fs.StringVar(&format, "f", "text", "Output format (shorthand)")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `Usage: bluespider parse <url> [flags]

Fetch a single URL (redirects are not followed) and print every resource the
parsers find in the response.

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("URL argument is required")
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}
	if depth < 0 {
		return fmt.Errorf("depth must not be negative")
	}
	target, err := normalizeURL(fs.Arg(0))
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, common.verbose, common.quiet)
	parserConfig, err := loadParserConfig(common.configPath, logger)
	if err != nil {
		return err
	}
	fetchConfig := common.fetchConfig(logger)
	fetchConfig.Timeout = timeout
	backend, err := fetch.NewBackend(fetchConfig)
	if err != nil {
		return err
	}

	found, err := parseURL(context.Background(), backend, parserConfig, target, depth)
	if err != nil {
		return err
	}
	return writeResources(stdout, format, found)
}

// parseURL fetches target once and collects what the controller finds
func parseURL(ctx context.Context, backend *fetch.Backend, cfg *bluespider.Config, target string, depth int) ([]*bluespider.Resource, error) {
	ex, err := backend.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	var found []*bluespider.Resource
	controller := bluespider.NewController(cfg)
	controller.AddListener(bluespider.ResourceListenerFunc(func(r *bluespider.Resource) {
		found = append(found, r)
	}))
	consumed := controller.Process(ex, depth)
	if cfg.Logger != nil {
		cfg.Logger.Info("parsed", "url", ex.RequestURL(), "status", ex.StatusCode(), "contentType", ex.ContentType(), "consumed", consumed, "resources", len(found))
	}
	return found, nil
}

func writeResources(w io.Writer, format string, found []*bluespider.Resource) error {
	if format == "json" {
		if found == nil {
			found = []*bluespider.Resource{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(found)
	}
	for _, r := range found {
		line := r.String()
		if r.ShouldIgnore() {
			line += " [ignored]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
