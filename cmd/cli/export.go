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
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agentberlin/bluespider/internal/store"
	"github.com/kennygrant/sanitize"
)

// Exporter handles exporting crawl data
type Exporter struct {
	store     *store.Store
	crawl     *store.Crawl
	domain    string
	outputDir string
	format    string
}

// exportedResource is one row of the resources export
type exportedResource struct {
	URI       string `json:"uri"`
	Method    string `json:"method"`
	Depth     int    `json:"depth"`
	Body      string `json:"body,omitempty"`
	Headers   string `json:"headers,omitempty"`
	Ignored   bool   `json:"ignored"`
	Scheduled bool   `json:"scheduled"`
	Source    string `json:"source"`
}

// Export writes the resources, pages and summary of the crawl and returns
// the paths written
func (e *Exporter) Export() ([]string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %v", err)
	}

	var files []string
	for _, step := range []func() (string, error){e.exportResources, e.exportPages, e.exportSummary} {
		path, err := step()
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

// fileName builds a file name safe for any file system from the domain
func (e *Exporter) fileName(kind, ext string) string {
	return filepath.Join(e.outputDir, fmt.Sprintf("%s_crawl%d_%s.%s", sanitize.BaseName(e.domain), e.crawl.ID, kind, ext))
}

func (e *Exporter) exportResources() (string, error) {
	rows, err := e.store.GetFoundResources(e.crawl.ID)
	if err != nil {
		return "", err
	}
	out := make([]exportedResource, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportedResource{
			URI:       r.URI,
			Method:    r.Method,
			Depth:     r.Depth,
			Body:      r.Body,
			Headers:   r.Headers,
			Ignored:   r.Ignored,
			Scheduled: r.Scheduled,
			Source:    r.SourceURL,
		})
	}

	if e.format == "json" {
		path := e.fileName("resources", "json")
		return path, writeJSON(path, struct {
			CrawlID        uint               `json:"crawlId"`
			Domain         string             `json:"domain"`
			Seed           string             `json:"seed"`
			CrawlDateTime  string             `json:"crawlDateTime"`
			TotalResources int                `json:"totalResources"`
			Resources      []exportedResource `json:"resources"`
		}{
			CrawlID:        e.crawl.ID,
			Domain:         e.domain,
			Seed:           e.crawl.Seed,
			CrawlDateTime:  time.Unix(e.crawl.CrawlDateTime, 0).UTC().Format(time.RFC3339),
			TotalResources: len(out),
			Resources:      out,
		})
	}

	path := e.fileName("resources", "csv")
	header := []string{"URI", "Method", "Depth", "Body", "Headers", "Ignored", "Scheduled", "Source"}
	return path, writeCSV(path, header, func(w *csv.Writer) error {
		for _, r := range out {
			if err := w.Write([]string{
				r.URI,
				r.Method,
				strconv.Itoa(r.Depth),
				r.Body,
				r.Headers,
				strconv.FormatBool(r.Ignored),
				strconv.FormatBool(r.Scheduled),
				r.Source,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Exporter) exportPages() (string, error) {
	pages, err := e.store.GetFetchedPages(e.crawl.ID)
	if err != nil {
		return "", err
	}

	if e.format == "json" {
		path := e.fileName("pages", "json")
		return path, writeJSON(path, pages)
	}

	path := e.fileName("pages", "csv")
	header := []string{"URL", "Method", "Status Code", "Content Type", "Depth", "Error"}
	return path, writeCSV(path, header, func(w *csv.Writer) error {
		for _, p := range pages {
			if err := w.Write([]string{
				p.URL,
				p.Method,
				strconv.Itoa(p.Status),
				p.ContentType,
				strconv.Itoa(p.Depth),
				p.Error,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Exporter) exportSummary() (string, error) {
	path := e.fileName("summary", "json")
	return path, writeJSON(path, struct {
		CrawlID       uint   `json:"crawlId"`
		Domain        string `json:"domain"`
		Seed          string `json:"seed"`
		State         string `json:"state"`
		CrawlDateTime string `json:"crawlDateTime"`
		DurationMs    int64  `json:"durationMs"`
		PagesFetched  int    `json:"pagesFetched"`
		PagesFailed   int    `json:"pagesFailed"`
		ResourceCount int    `json:"resourceCount"`
	}{
		CrawlID:       e.crawl.ID,
		Domain:        e.domain,
		Seed:          e.crawl.Seed,
		State:         e.crawl.State,
		CrawlDateTime: time.Unix(e.crawl.CrawlDateTime, 0).UTC().Format(time.RFC3339),
		DurationMs:    e.crawl.CrawlDuration,
		PagesFetched:  e.crawl.PagesFetched,
		PagesFailed:   e.crawl.PagesFailed,
		ResourceCount: e.crawl.ResourceCount,
	})
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeCSV(path string, header []string, rows func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	var (
		crawlID uint
		dbPath  string
		output  string
		format  string
	)
	fs.UintVar(&crawlID, "crawl-id", 0, "Crawl ID to export (required)")
	fs.StringVar(&dbPath, "db", "", "Database path (default ~/.bluespider/bluespider.db)")
	fs.StringVar(&output, "output", ".", "Output directory")
	fs.StringVar(&output, "o", ".", "Output directory (shorthand)")
	fs.StringVar(&format, "format", "json", "Output format: json, csv")
	fs.StringVar(&format, "f", "json", "Output format (shorthand)")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `Usage: bluespider export -crawl-id <id> [flags]

Export the resources, pages and summary of a stored crawl.

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if crawlID == 0 {
		fs.Usage()
		return fmt.Errorf("--crawl-id is required")
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	files, err := exportCrawl(st, crawlID, output, format)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(stdout, "Wrote %s\n", f)
	}
	return nil
}

// exportCrawl looks up a stored crawl and exports it
func exportCrawl(st *store.Store, crawlID uint, outputDir, format string) ([]string, error) {
	crawl, err := st.GetCrawlByID(crawlID)
	if err != nil {
		return nil, err
	}
	project, err := st.GetProjectByID(crawl.ProjectID)
	if err != nil {
		return nil, err
	}

	exporter := &Exporter{
		store:     st,
		crawl:     crawl,
		domain:    project.Domain,
		outputDir: outputDir,
		format:    format,
	}
	return exporter.Export()
}
