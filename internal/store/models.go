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

package store

import (
	"encoding/json"

	"github.com/agentberlin/bluespider"
)

// Project groups the crawls of one site
type Project struct {
	ID        uint    `gorm:"primaryKey"`
	URL       string  `gorm:"not null"`             // Seed URL of the latest crawl
	Domain    string  `gorm:"uniqueIndex;not null"` // Host of the seed URL
	Crawls    []Crawl `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt int64   `gorm:"autoCreateTime"`
	UpdatedAt int64   `gorm:"autoUpdateTime"`
}

// Crawl states
const (
	CrawlInProgress = "in_progress"
	CrawlCompleted  = "completed"
	CrawlFailed     = "failed"
	CrawlStopped    = "stopped"
)

// Crawl is one run of the orchestrator from a seed URL
type Crawl struct {
	ID            uint   `gorm:"primaryKey"`
	ProjectID     uint   `gorm:"not null;index"`
	Seed          string `gorm:"not null"`
	CrawlDateTime int64  `gorm:"not null"`
	CrawlDuration int64  `gorm:"not null;default:0"` // milliseconds
	PagesFetched  int    `gorm:"not null;default:0"`
	PagesFailed   int    `gorm:"not null;default:0"`
	ResourceCount int    `gorm:"not null;default:0"`
	State         string `gorm:"not null;default:'in_progress'"`
	CreatedAt     int64  `gorm:"autoCreateTime"`
	UpdatedAt     int64  `gorm:"autoUpdateTime"`
}

// FetchedPage is an exchange the crawl performed
type FetchedPage struct {
	ID          uint   `gorm:"primaryKey"`
	CrawlID     uint   `gorm:"not null;index"`
	URL         string `gorm:"not null"`
	Method      string `gorm:"not null"`
	Status      int    `gorm:"not null"`
	ContentType string `gorm:"type:text"`
	Depth       int    `gorm:"default:0"`
	Error       string `gorm:"type:text"`
	CreatedAt   int64  `gorm:"autoCreateTime"`
}

// FoundResource is a Resource-Found record together with the page it came from
type FoundResource struct {
	ID        uint   `gorm:"primaryKey"`
	CrawlID   uint   `gorm:"not null;index:idx_crawl_source"`
	SourceURL string `gorm:"not null;index:idx_crawl_source"`
	URI       string `gorm:"not null"`
	Method    string `gorm:"not null"`
	Body      string `gorm:"type:text"`
	Headers   string `gorm:"type:text"` // JSON array of {name, value}
	Depth     int    `gorm:"not null"`
	Ignored   bool   `gorm:"not null;default:false"`
	Scheduled bool   `gorm:"not null;default:false"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// NewFoundResource flattens a discovered resource into a row
func NewFoundResource(crawlID uint, source string, res *bluespider.Resource, scheduled bool) FoundResource {
	row := FoundResource{
		CrawlID:   crawlID,
		SourceURL: source,
		URI:       res.URI(),
		Method:    res.Method(),
		Body:      res.Body(),
		Depth:     res.Depth(),
		Ignored:   res.ShouldIgnore(),
		Scheduled: scheduled,
	}
	if headers := res.Headers(); len(headers) > 0 {
		if data, err := json.Marshal(headers); err == nil {
			row.Headers = string(data)
		}
	}
	return row
}

// Resource rebuilds the bluespider.Resource a row was created from
func (f *FoundResource) Resource() (*bluespider.Resource, error) {
	opts := []bluespider.ResourceOption{
		bluespider.WithDepth(f.Depth),
		bluespider.WithMethod(f.Method),
		bluespider.WithBody(f.Body),
		bluespider.WithIgnore(f.Ignored),
	}
	if f.Headers != "" {
		var headers []bluespider.Header
		if err := json.Unmarshal([]byte(f.Headers), &headers); err != nil {
			return nil, err
		}
		for _, h := range headers {
			opts = append(opts, bluespider.WithHeader(h.Name, h.Value))
		}
	}
	return bluespider.NewResource(f.URI, opts...)
}
