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

// BlueSpider CLI
//
// Command-line interface for the bluespider resource parsers. Fetches single
// pages, crawls sites and manages stored crawl results.
//
// Usage:
//
//	bluespider <command> [flags]
//
// Commands:
//
//	parse     Fetch one URL and print the resources found in it
//	crawl     Crawl a site and store what was discovered
//	export    Export a stored crawl
//	list      List projects or crawls
//	mcp       Serve the MCP tools
//	version   Show version information
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/agentberlin/bluespider/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "parse":
		err = runParse(args, os.Stdout)
	case "crawl":
		err = runCrawl(args, os.Stdout)
	case "export":
		err = runExport(args, os.Stdout)
	case "list":
		err = runList(args, os.Stdout)
	case "mcp":
		err = runMCP(args)
	case "version", "-v", "--version":
		fmt.Printf("BlueSpider CLI %s\n", version.CurrentVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`BlueSpider CLI - Resource discovery for web crawlers

Usage:
  bluespider <command> [flags]

Commands:
  parse     Fetch one URL and print the resources found in it
  crawl     Crawl a site and store what was discovered
  export    Export a stored crawl to JSON or CSV
  list      List projects or crawls
  mcp       Serve the MCP tools on stdio (or HTTP with --http)
  version   Show version information
  help      Show this help message

Examples:
  # Show what the parsers find on one page
  bluespider parse https://example.com

  # Crawl two levels deep with 8 workers
  bluespider crawl https://example.com -depth 2 -p 8

  # Crawl a site and its subdomains, exporting CSV
  bluespider crawl https://example.com -scope example.com -scope '*.example.com' -format csv -o ./results

  # Export a stored crawl
  bluespider export -crawl-id 3 -format json -o ./export

  # List all projects
  bluespider list projects

Use "bluespider <command> -help" for more information about a command.`)
}
