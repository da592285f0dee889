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
	"time"

	"github.com/agentberlin/bluespider"
)

const recorderBatchSize = 200

// CrawlSummary carries the counters a finished crawl reports
type CrawlSummary struct {
	Duration time.Duration
	Fetched  int
	Failed   int
}

// CrawlRecorder buffers the output of a running crawl and writes it to the
// store in batches. It is not safe for concurrent use.
type CrawlRecorder struct {
	store   *Store
	crawlID uint
	pending []FoundResource
	found   int
	err     error
}

// NewCrawlRecorder starts recording into the given crawl
func (s *Store) NewCrawlRecorder(crawlID uint) *CrawlRecorder {
	return &CrawlRecorder{store: s, crawlID: crawlID}
}

// CrawlID returns the crawl being recorded
func (r *CrawlRecorder) CrawlID() uint { return r.crawlID }

// Resource buffers a discovered resource
func (r *CrawlRecorder) Resource(source string, res *bluespider.Resource, scheduled bool) {
	r.pending = append(r.pending, NewFoundResource(r.crawlID, source, res, scheduled))
	r.found++
	if len(r.pending) >= recorderBatchSize {
		r.flush()
	}
}

// Page records a completed exchange
func (r *CrawlRecorder) Page(ex *bluespider.Exchange, depth int) {
	r.keep(r.store.SaveFetchedPage(&FetchedPage{
		CrawlID:     r.crawlID,
		URL:         ex.RequestURL(),
		Method:      ex.Request.Method,
		Status:      ex.StatusCode(),
		ContentType: ex.ContentType(),
		Depth:       depth,
	}))
}

// Failure records a fetch that produced no exchange
func (r *CrawlRecorder) Failure(res *bluespider.Resource, cause error) {
	r.keep(r.store.SaveFetchedPage(&FetchedPage{
		CrawlID: r.crawlID,
		URL:     res.URI(),
		Method:  res.Method(),
		Depth:   res.Depth(),
		Error:   cause.Error(),
	}))
}

// Finish flushes buffered rows and stores the final crawl state. It returns
// the first write error seen while recording.
func (r *CrawlRecorder) Finish(state string, summary CrawlSummary) error {
	r.flush()
	if r.err != nil && state == CrawlCompleted {
		state = CrawlFailed
	}
	r.keep(r.store.FinishCrawl(r.crawlID, state, summary.Duration, summary.Fetched, summary.Failed, r.found))
	return r.err
}

func (r *CrawlRecorder) flush() {
	if len(r.pending) == 0 {
		return
	}
	r.keep(r.store.SaveFoundResources(r.pending))
	r.pending = r.pending[:0]
}

func (r *CrawlRecorder) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}
