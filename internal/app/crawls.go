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
	"fmt"

	"github.com/agentberlin/bluespider/internal/store"
	"github.com/agentberlin/bluespider/internal/types"
)

const (
	defaultResourceLimit = 100
	maxResourceLimit     = 500
)

func toCrawlInfo(c *store.Crawl, domain string) types.CrawlInfo {
	return types.CrawlInfo{
		ID:            c.ID,
		ProjectID:     c.ProjectID,
		Domain:        domain,
		Seed:          c.Seed,
		State:         c.State,
		CrawlDateTime: c.CrawlDateTime,
		CrawlDuration: c.CrawlDuration,
		PagesFetched:  c.PagesFetched,
		PagesFailed:   c.PagesFailed,
		ResourceCount: c.ResourceCount,
	}
}

// GetCrawls returns all crawls for a project, newest first
func (a *App) GetCrawls(projectID uint) ([]types.CrawlInfo, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	project, err := a.store.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	crawls, err := a.store.GetProjectCrawls(projectID)
	if err != nil {
		return nil, err
	}

	crawlInfos := make([]types.CrawlInfo, 0, len(crawls))
	for i := range crawls {
		crawlInfos = append(crawlInfos, toCrawlInfo(&crawls[i], project.Domain))
	}
	return crawlInfos, nil
}

// GetCrawl returns a single crawl
func (a *App) GetCrawl(crawlID uint) (*types.CrawlInfo, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	c, err := a.store.GetCrawlByID(crawlID)
	if err != nil {
		return nil, err
	}
	domain := ""
	if project, err := a.store.GetProjectByID(c.ProjectID); err == nil {
		domain = project.Domain
	}
	info := toCrawlInfo(c, domain)
	return &info, nil
}

// GetCrawlResources returns the resources a crawl found. query filters on
// the resource or source URL and method on the request method. limit is
// clamped to maxResourceLimit; Total counts every match.
func (a *App) GetCrawlResources(crawlID uint, query, method string, limit int) (*types.CrawlResources, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	if _, err := a.store.GetCrawlByID(crawlID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultResourceLimit
	}
	if limit > maxResourceLimit {
		limit = maxResourceLimit
	}

	rows, err := a.store.SearchFoundResources(crawlID, query, method)
	if err != nil {
		return nil, err
	}

	result := &types.CrawlResources{
		CrawlID:   crawlID,
		Total:     len(rows),
		Resources: make([]types.ResourceInfo, 0, min(limit, len(rows))),
	}
	for i := range rows {
		if len(result.Resources) == limit {
			break
		}
		res, err := rows[i].Resource()
		if err != nil {
			return nil, fmt.Errorf("invalid stored resource %d: %w", rows[i].ID, err)
		}
		info := types.NewResourceInfo(res, rows[i].SourceURL)
		info.Scheduled = rows[i].Scheduled
		result.Resources = append(result.Resources, info)
	}
	return result, nil
}

// DeleteCrawlByID deletes a crawl and everything it recorded
func (a *App) DeleteCrawlByID(crawlID uint) error {
	if err := a.requireStore(); err != nil {
		return err
	}
	c, err := a.store.GetCrawlByID(crawlID)
	if err != nil {
		return err
	}
	a.crawlsMutex.RLock()
	ac, active := a.activeCrawls[c.ProjectID]
	a.crawlsMutex.RUnlock()
	if active && ac.crawlID == crawlID {
		return fmt.Errorf("cannot delete crawl %d: %w", crawlID, ErrCrawlInProgress)
	}
	return a.store.DeleteCrawl(crawlID)
}
