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
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agentberlin/bluespider/internal/app"
)

// openApp opens the database for a read-only command
func openApp(dbPath string) (*app.App, func(), error) {
	st, err := openStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	coreApp, err := app.NewApp(st, nil, nil)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return coreApp, func() { st.Close() }, nil
}

func runList(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		printListUsage(stdout)
		return fmt.Errorf("subcommand required: projects or crawls")
	}

	subcommand := args[0]

	switch subcommand {
	case "projects":
		return runListProjects(args[1:], stdout)
	case "crawls":
		return runListCrawls(args[1:], stdout)
	case "help", "-h", "--help":
		printListUsage(stdout)
		return nil
	default:
		printListUsage(stdout)
		return fmt.Errorf("unknown subcommand: %s", subcommand)
	}
}

func printListUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: bluespider list <subcommand> [flags]

Subcommands:
  projects    List all projects
  crawls      List crawls for a project

Examples:
  # List all projects
  bluespider list projects

  # List crawls for a project
  bluespider list crawls -project-id 1`)
}

func runListProjects(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list projects", flag.ContinueOnError)

	var (
		jsonOutput bool
		dbPath     string
	)
	fs.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	fs.StringVar(&dbPath, "db", "", "Database path (default ~/.bluespider/bluespider.db)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	coreApp, closeApp, err := openApp(dbPath)
	if err != nil {
		return err
	}
	defer closeApp()

	projects, err := coreApp.GetProjects()
	if err != nil {
		return fmt.Errorf("failed to get projects: %v", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(projects)
	}

	if len(projects) == 0 {
		fmt.Fprintln(stdout, "No projects found.")
		return nil
	}

	fmt.Fprintf(stdout, "%-6s %-40s %-20s %-10s %-10s\n", "ID", "Domain", "Last Crawl", "Pages", "Resources")
	fmt.Fprintln(stdout, "-------------------------------------------------------------------------------------------")

	for _, p := range projects {
		lastCrawl := "Never"
		if p.LatestCrawlID != 0 {
			lastCrawl = time.Unix(p.CrawlDateTime, 0).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(stdout, "%-6d %-40s %-20s %-10d %-10d\n", p.ID, truncate(p.Domain, 40), lastCrawl, p.PagesFetched, p.ResourceCount)
	}

	return nil
}

func runListCrawls(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list crawls", flag.ContinueOnError)

	var (
		projectID  uint
		jsonOutput bool
		dbPath     string
	)
	fs.UintVar(&projectID, "project-id", 0, "Project ID (required)")
	fs.UintVar(&projectID, "p", 0, "Project ID (shorthand)")
	fs.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	fs.StringVar(&dbPath, "db", "", "Database path (default ~/.bluespider/bluespider.db)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if projectID == 0 {
		fs.Usage()
		return fmt.Errorf("--project-id is required")
	}

	coreApp, closeApp, err := openApp(dbPath)
	if err != nil {
		return err
	}
	defer closeApp()

	crawls, err := coreApp.GetCrawls(projectID)
	if err != nil {
		return fmt.Errorf("failed to get crawls: %v", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(crawls)
	}

	if len(crawls) == 0 {
		fmt.Fprintf(stdout, "No crawls found for project %d.\n", projectID)
		return nil
	}

	fmt.Fprintf(stdout, "%-10s %-20s %-12s %-8s %-8s %-10s %-12s\n", "Crawl ID", "Date", "Duration", "Pages", "Failed", "Resources", "State")
	fmt.Fprintln(stdout, "-------------------------------------------------------------------------------------")

	for _, c := range crawls {
		crawlTime := time.Unix(c.CrawlDateTime, 0).Format("2006-01-02 15:04")
		fmt.Fprintf(stdout, "%-10d %-20s %-12s %-8d %-8d %-10d %-12s\n",
			c.ID, crawlTime, formatDuration(c.CrawlDuration), c.PagesFetched, c.PagesFailed, c.ResourceCount, c.State)
	}

	return nil
}

// truncate truncates a string to the specified length
func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

// formatDuration formats a duration in milliseconds to a human-readable string
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := ms / 1000
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	remainingSeconds := seconds % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, remainingSeconds)
	}
	hours := minutes / 60
	remainingMinutes := minutes % 60
	return fmt.Sprintf("%dh %dm", hours, remainingMinutes)
}
