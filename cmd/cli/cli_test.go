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
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/fetch"
	"github.com/agentberlin/bluespider/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"example.com", "https://example.com", false},
		{"  http://example.com/a  ", "http://example.com/a", false},
		{"https://example.com/?q=1", "https://example.com/?q=1", false},
		{"", "", true},
		{"https://", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestStringList(t *testing.T) {
	var s stringList
	require.NoError(t, s.Set("example.com"))
	require.NoError(t, s.Set("*.example.com"))
	assert.Equal(t, stringList{"example.com", "*.example.com"}, s)
	assert.Equal(t, "example.com,*.example.com", s.String())
}

func TestLoadParserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("process_forms: false\nmax_parse_size: 2048\n"), 0644))

	cfg, err := loadParserConfig(path, nil)
	require.NoError(t, err)
	assert.False(t, cfg.ProcessForms)
	assert.Equal(t, 2048, cfg.MaxParseSize)
	assert.True(t, cfg.ParseRobotsTxt)

	_, err = loadParserConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorIs(t, err, bluespider.ErrConfigNotFound)
}

func TestParseURL(t *testing.T) {
	site := testutil.NewTestServer()
	defer site.Close()

	backend, err := fetch.NewBackend(nil)
	require.NoError(t, err)

	found, err := parseURL(context.Background(), backend, bluespider.NewDefaultConfig(), site.URL+"/about", 1)
	require.NoError(t, err)

	var uris []string
	for _, r := range found {
		uris = append(uris, r.URI())
		assert.Equal(t, 2, r.Depth())
	}
	assert.Equal(t, []string{site.URL + "/", site.URL + "/private"}, uris)
}

func TestWriteResources(t *testing.T) {
	found := []*bluespider.Resource{
		bluespider.MustResource("http://example.com/a", bluespider.WithDepth(1)),
		bluespider.MustResource("javascript:void(0)", bluespider.WithDepth(1), bluespider.WithIgnore(true)),
	}

	var text bytes.Buffer
	require.NoError(t, writeResources(&text, "text", found))
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "GET http://example.com/a (depth 1)", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "[ignored]"))

	var out bytes.Buffer
	require.NoError(t, writeResources(&out, "json", found))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "http://example.com/a", decoded[0]["uri"])
	assert.Equal(t, true, decoded[1]["shouldIgnore"])

	out.Reset()
	require.NoError(t, writeResources(&out, "json", nil))
	assert.Equal(t, "[]\n", out.String())
}

func TestRunParse(t *testing.T) {
	site := testutil.NewTestServer()
	defer site.Close()

	var out bytes.Buffer
	require.NoError(t, runParse([]string{"-q", site.URL + "/old"}, &out))
	assert.Equal(t, "GET "+site.URL+"/about (depth 0)\n", out.String())

	assert.Error(t, runParse([]string{"-q"}, &out))
	assert.Error(t, runParse([]string{"-q", "-format", "xml", site.URL}, &out))
	assert.Error(t, runParse([]string{"-q", "-depth", "-1", site.URL}, &out))
}

func TestCrawlExportAndList(t *testing.T) {
	site := testutil.NewTestServer()
	defer site.Close()

	dir := t.TempDir()
	db := filepath.Join(dir, "crawl.db")
	csvDir := filepath.Join(dir, "csv")

	var out bytes.Buffer
	require.NoError(t, runCrawl([]string{"-q", "-db", db, "-o", csvDir, "-format", "csv", "-depth", "1", site.URL}, &out))

	entries, err := os.ReadDir(csvDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var resourcesCSV string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_resources.csv") {
			resourcesCSV = filepath.Join(csvDir, e.Name())
		}
	}
	require.NotEmpty(t, resourcesCSV, "resources export missing")
	f, err := os.Open(resourcesCSV)
	require.NoError(t, err)
	records, err := csv.NewReader(f).ReadAll()
	f.Close()
	require.NoError(t, err)
	require.Greater(t, len(records), 1)
	assert.Equal(t, []string{"URI", "Method", "Depth", "Body", "Headers", "Ignored", "Scheduled", "Source"}, records[0])

	out.Reset()
	require.NoError(t, runList([]string{"projects", "-db", db}, &out))
	assert.Contains(t, out.String(), "127.0.0.1")

	out.Reset()
	require.NoError(t, runList([]string{"crawls", "-db", db, "-project-id", "1"}, &out))
	assert.Contains(t, out.String(), "completed")

	jsonDir := filepath.Join(dir, "json")
	out.Reset()
	require.NoError(t, runExport([]string{"-db", db, "-crawl-id", "1", "-o", jsonDir}, &out))
	assert.Equal(t, 3, strings.Count(out.String(), "Wrote "))

	matches, err := filepath.Glob(filepath.Join(jsonDir, "*_resources.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var exported struct {
		CrawlID        uint               `json:"crawlId"`
		TotalResources int                `json:"totalResources"`
		Resources      []exportedResource `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, uint(1), exported.CrawlID)
	assert.Equal(t, len(records)-1, exported.TotalResources)

	var sawAbout bool
	for _, r := range exported.Resources {
		if r.URI == site.URL+"/about" && r.Scheduled {
			sawAbout = true
		}
	}
	assert.True(t, sawAbout)
}

func TestCrawlOptions(t *testing.T) {
	site := testutil.NewTestServer()
	defer site.Close()

	dir := t.TempDir()
	db := filepath.Join(dir, "crawl.db")

	var out bytes.Buffer
	require.NoError(t, runCrawl([]string{
		"-db", db, "-no-export", "-depth", "1", "-referer", "-include-subdomains", "-max-url-length", "40", site.URL,
	}, &out))
	assert.Contains(t, out.String(), "completed")
	assert.NotContains(t, out.String(), "Wrote ")

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Empty(t, files)

	out.Reset()
	require.NoError(t, runCrawl([]string{"-q", "-db", db, "-no-export", "-depth", "1", "-respect-robots", site.URL + "/robots.txt"}, &out))

	out.Reset()
	assert.Error(t, runCrawl([]string{"-q", "-db", db, "-scope", "[bad", site.URL}, &out))
}

func TestCommandArgumentErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "test.db")
	var out bytes.Buffer

	assert.Error(t, runCrawl([]string{"-q", "-db", db}, &out))
	assert.Error(t, runCrawl([]string{"-q", "-db", db, "-format", "xml", "example.com"}, &out))
	assert.Error(t, runExport([]string{"-db", db}, &out))
	assert.Error(t, runExport([]string{"-db", db, "-crawl-id", "42"}, &out))
	assert.Error(t, runList(nil, &out))
	assert.Error(t, runList([]string{"things"}, &out))
	assert.Error(t, runList([]string{"crawls", "-db", db}, &out))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ms", formatDuration(500))
	assert.Equal(t, "42s", formatDuration(42000))
	assert.Equal(t, "2m 5s", formatDuration(125000))
	assert.Equal(t, "1h 1m", formatDuration(3660000))
}
