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

	"github.com/agentberlin/bluespider/internal/types"
)

// GetProjects returns all projects from the database with their latest crawl info
func (a *App) GetProjects() ([]types.ProjectInfo, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	projects, err := a.store.GetAllProjects()
	if err != nil {
		return nil, err
	}

	projectInfos := make([]types.ProjectInfo, 0, len(projects))
	for _, p := range projects {
		projectInfo := types.ProjectInfo{
			ID:     p.ID,
			URL:    p.URL,
			Domain: p.Domain,
		}

		latestCrawl, err := a.store.GetLatestCrawl(p.ID)
		if err != nil {
			return nil, err
		}
		// Projects without crawls keep zero values
		if latestCrawl != nil {
			projectInfo.CrawlDateTime = latestCrawl.CrawlDateTime
			projectInfo.CrawlDuration = latestCrawl.CrawlDuration
			projectInfo.PagesFetched = latestCrawl.PagesFetched
			projectInfo.ResourceCount = latestCrawl.ResourceCount
			projectInfo.LatestCrawlID = latestCrawl.ID
		}

		projectInfos = append(projectInfos, projectInfo)
	}

	return projectInfos, nil
}

// DeleteProjectByID deletes a project and all its crawls
func (a *App) DeleteProjectByID(projectID uint) error {
	if err := a.requireStore(); err != nil {
		return err
	}
	if a.isCrawling(projectID) {
		return fmt.Errorf("cannot delete project %d: %w", projectID, ErrCrawlInProgress)
	}
	if _, err := a.store.GetProjectByID(projectID); err != nil {
		return err
	}
	return a.store.DeleteProject(projectID)
}
