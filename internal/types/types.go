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

package types

import "github.com/agentberlin/bluespider"

// ResourceInfo is the wire form of a discovered resource
type ResourceInfo struct {
	URI       string              `json:"uri"`
	Method    string              `json:"method"`
	Depth     int                 `json:"depth"`
	Body      string              `json:"body,omitempty"`
	Headers   []bluespider.Header `json:"headers,omitempty"`
	Ignored   bool                `json:"ignored,omitempty"`
	Source    string              `json:"source,omitempty"`
	Scheduled bool                `json:"scheduled,omitempty"`
}

// NewResourceInfo converts a resource found in the page at source
func NewResourceInfo(res *bluespider.Resource, source string) ResourceInfo {
	return ResourceInfo{
		URI:     res.URI(),
		Method:  res.Method(),
		Depth:   res.Depth(),
		Body:    res.Body(),
		Headers: res.Headers(),
		Ignored: res.ShouldIgnore(),
		Source:  source,
	}
}

// DiscoverResult is what the parsers found in a single exchange
type DiscoverResult struct {
	URL         string         `json:"url"`
	StatusCode  int            `json:"statusCode"`
	ContentType string         `json:"contentType,omitempty"`
	Consumed    bool           `json:"consumed"`
	Resources   []ResourceInfo `json:"resources"`
}

// CrawlRequest describes a crawl to run
type CrawlRequest struct {
	URL               string   `json:"url"`
	MaxDepth          *int     `json:"maxDepth,omitempty"`
	MaxRequests       int      `json:"maxRequests,omitempty"`
	Parallelism       int      `json:"parallelism,omitempty"`
	IncludeSubdomains bool     `json:"includeSubdomains,omitempty"`
	Scope             []string `json:"scope,omitempty"`
	SendReferer       bool     `json:"sendReferer,omitempty"`
	MaxURLLength      int      `json:"maxUrlLength,omitempty"`
}

// CrawlProgress represents the progress of an active crawl
type CrawlProgress struct {
	ProjectID uint   `json:"projectId"`
	CrawlID   uint   `json:"crawlId"`
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Fetched   int    `json:"fetched"`
	Failed    int    `json:"failed"`
	Found     int    `json:"found"`
	StartedAt int64  `json:"startedAt"`
}

// ProjectInfo represents project information with its latest crawl
type ProjectInfo struct {
	ID            uint   `json:"id"`
	URL           string `json:"url"`
	Domain        string `json:"domain"`
	CrawlDateTime int64  `json:"crawlDateTime"`
	CrawlDuration int64  `json:"crawlDuration"`
	PagesFetched  int    `json:"pagesFetched"`
	ResourceCount int    `json:"resourceCount"`
	LatestCrawlID uint   `json:"latestCrawlId"`
}

// CrawlInfo represents a stored crawl
type CrawlInfo struct {
	ID            uint   `json:"id"`
	ProjectID     uint   `json:"projectId"`
	Domain        string `json:"domain,omitempty"`
	Seed          string `json:"seed"`
	State         string `json:"state"`
	CrawlDateTime int64  `json:"crawlDateTime"`
	CrawlDuration int64  `json:"crawlDuration"`
	PagesFetched  int    `json:"pagesFetched"`
	PagesFailed   int    `json:"pagesFailed"`
	ResourceCount int    `json:"resourceCount"`
}

// CrawlResources is a filtered page of the resources a crawl found
type CrawlResources struct {
	CrawlID   uint           `json:"crawlId"`
	Total     int            `json:"total"`
	Resources []ResourceInfo `json:"resources"`
}
