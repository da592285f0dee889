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
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/bluespider/internal/app"
	"github.com/agentberlin/bluespider/internal/fetch"
	"github.com/agentberlin/bluespider/internal/store"
	"github.com/agentberlin/bluespider/internal/types"
)

// crawlFlags holds all the flags for the crawl command
type crawlFlags struct {
	commonFlags

	// Core options
	depth             int
	parallelism       int
	maxRequests       int
	scope             stringList
	includeSubdomains bool
	delay             time.Duration
	respectRobots     bool
	referer           bool
	maxURLLength      int

	// Output
	dbPath   string
	output   string
	format   string
	noExport bool
}

func runCrawl(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)

	var flags crawlFlags
	flags.bind(fs)

	fs.IntVar(&flags.depth, "depth", 2, "Maximum depth to fetch (-1 = unlimited)")
	fs.IntVar(&flags.parallelism, "parallelism", 4, "Number of concurrent requests")
	fs.IntVar(&flags.parallelism, "p", 4, "Number of concurrent requests (shorthand)")
	fs.IntVar(&flags.maxRequests, "max-requests", 0, "Maximum requests to make (0 = unlimited)")
	fs.Var(&flags.scope, "scope", "Host glob to stay within, repeatable (default: the seed host)")
	fs.BoolVar(&flags.includeSubdomains, "include-subdomains", false, "Also crawl subdomains of the seed host")
	fs.DurationVar(&flags.delay, "delay", 0, "Delay between requests to the same host")
	fs.BoolVar(&flags.respectRobots, "respect-robots", false, "Skip URLs disallowed by robots.txt")
	fs.BoolVar(&flags.referer, "referer", false, "Send the page a resource was found on as Referer")
	fs.IntVar(&flags.maxURLLength, "max-url-length", 0, "Skip URLs longer than this (0 = no limit)")

	fs.StringVar(&flags.dbPath, "db", "", "Database path (default ~/.bluespider/bluespider.db)")
	fs.StringVar(&flags.output, "output", ".", "Output directory for results")
	fs.StringVar(&flags.output, "o", ".", "Output directory (shorthand)")
	fs.StringVar(&flags.format, "format", "json", "Output format: json, csv")
	fs.StringVar(&flags.format, "f", "json", "Output format (shorthand)")
	fs.BoolVar(&flags.noExport, "no-export", false, "Only store results, do not export files")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `Usage: bluespider crawl <url> [flags]

Crawl a site from the given URL. Every discovered resource is stored in the
database and, unless --no-export is set, exported to the output directory.

Flags:`)
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), `
Examples:
  # Basic crawl
  bluespider crawl https://example.com

  # Deeper crawl, more workers, CSV output
  bluespider crawl https://example.com -depth 4 -p 10 -format csv -o ./results

  # Include subdomains
  bluespider crawl https://example.com -include-subdomains`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("URL argument is required")
	}
	seed, err := normalizeURL(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, flags.verbose, flags.quiet)

	st, err := openStore(flags.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	info, err := crawlSite(ctx, &flags, seed, st, logger)
	if info == nil {
		return err
	}

	if !flags.quiet {
		fmt.Fprintf(stdout, "Crawl %d of %s %s\n", info.ID, info.Domain, info.State)
		fmt.Fprintf(stdout, "  Fetched:   %d\n", info.PagesFetched)
		fmt.Fprintf(stdout, "  Failed:    %d\n", info.PagesFailed)
		fmt.Fprintf(stdout, "  Found:     %d\n", info.ResourceCount)
		fmt.Fprintf(stdout, "  Duration:  %s\n", formatDuration(info.CrawlDuration))
	}
	if err != nil {
		return err
	}
	if flags.noExport {
		return nil
	}

	record, err := st.GetCrawlByID(info.ID)
	if err != nil {
		return err
	}
	exporter := &Exporter{
		store:     st,
		crawl:     record,
		domain:    info.Domain,
		outputDir: flags.output,
		format:    flags.format,
	}
	files, err := exporter.Export()
	if err != nil {
		return fmt.Errorf("failed to export results: %v", err)
	}
	if !flags.quiet {
		for _, f := range files {
			fmt.Fprintf(stdout, "Wrote %s\n", f)
		}
	}
	return nil
}

// progressEmitter logs crawl events. Progress is logged every
// progressInterval pages.
type progressEmitter struct {
	logger *slog.Logger
}

const progressInterval = 50

func (e *progressEmitter) Emit(eventType app.EventType, data interface{}) {
	progress, ok := data.(types.CrawlProgress)
	if !ok {
		return
	}
	switch eventType {
	case app.EventCrawlProgress:
		if done := progress.Fetched + progress.Failed; done%progressInterval == 0 {
			e.logger.Info("crawling", "fetched", progress.Fetched, "failed", progress.Failed, "found", progress.Found)
		} else {
			e.logger.Debug("crawling", "fetched", progress.Fetched, "failed", progress.Failed, "found", progress.Found)
		}
	case app.EventCrawlStopped:
		e.logger.Warn("crawl interrupted", "crawl", progress.CrawlID, "fetched", progress.Fetched)
	case app.EventCrawlFailed:
		e.logger.Error("crawl failed", "crawl", progress.CrawlID)
	}
}

// crawlSite runs one crawl and records it in st. The crawl info is returned
// whenever a crawl record was created, even if the crawl failed.
func crawlSite(ctx context.Context, flags *crawlFlags, seed string, st *store.Store, logger *slog.Logger) (*types.CrawlInfo, error) {
	parserConfig, err := loadParserConfig(flags.configPath, logger)
	if err != nil {
		return nil, err
	}

	fetchConfig := flags.fetchConfig(logger)
	fetchConfig.IgnoreRobotsTxt = !flags.respectRobots
	if flags.delay > 0 {
		fetchConfig.LimitRules = []*fetch.LimitRule{{DomainGlob: "*", Delay: flags.delay, Parallelism: 1}}
	}

	coreApp, err := newApp(st, &progressEmitter{logger: logger}, parserConfig, fetchConfig, logger)
	if err != nil {
		return nil, err
	}

	depth := flags.depth
	return coreApp.RunCrawl(ctx, types.CrawlRequest{
		URL:               seed,
		MaxDepth:          &depth,
		MaxRequests:       flags.maxRequests,
		Parallelism:       flags.parallelism,
		IncludeSubdomains: flags.includeSubdomains,
		Scope:             flags.scope,
		SendReferer:       flags.referer,
		MaxURLLength:      flags.maxURLLength,
	})
}
