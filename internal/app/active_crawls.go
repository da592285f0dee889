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

package app

import (
	"sort"

	"github.com/agentberlin/bluespider/internal/types"
)

// GetActiveCrawls returns the progress of every running crawl, oldest first
func (a *App) GetActiveCrawls() []types.CrawlProgress {
	a.crawlsMutex.RLock()
	progress := make([]types.CrawlProgress, 0, len(a.activeCrawls))
	for _, ac := range a.activeCrawls {
		progress = append(progress, ac.progress())
	}
	a.crawlsMutex.RUnlock()

	sort.Slice(progress, func(i, j int) bool {
		return progress[i].CrawlID < progress[j].CrawlID
	})
	return progress
}

// GetCrawlProgress returns the progress of the active crawl of a project
func (a *App) GetCrawlProgress(projectID uint) (*types.CrawlProgress, bool) {
	a.crawlsMutex.RLock()
	ac, ok := a.activeCrawls[projectID]
	a.crawlsMutex.RUnlock()
	if !ok {
		return nil, false
	}
	progress := ac.progress()
	return &progress, true
}

func (a *App) isCrawling(projectID uint) bool {
	a.crawlsMutex.RLock()
	defer a.crawlsMutex.RUnlock()
	_, ok := a.activeCrawls[projectID]
	return ok
}
