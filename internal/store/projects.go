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
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GetOrCreateProject gets or creates a project by domain
func (s *Store) GetOrCreateProject(urlStr string, domain string) (*Project, error) {
	var project Project
	result := s.db.Where("domain = ?", domain).First(&project)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		project = Project{URL: urlStr, Domain: domain}
		if err := s.db.Create(&project).Error; err != nil {
			return nil, fmt.Errorf("failed to create project: %w", err)
		}
		return &project, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get project: %w", result.Error)
	}

	if project.URL != urlStr {
		project.URL = urlStr
		if err := s.db.Save(&project).Error; err != nil {
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
	}
	return &project, nil
}

// GetAllProjects returns all projects ordered by most recent activity
func (s *Store) GetAllProjects() ([]Project, error) {
	var projects []Project
	if err := s.db.Order("updated_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// DeleteProject deletes a project with all its crawls
func (s *Store) DeleteProject(projectID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var crawlIDs []uint
		if err := tx.Model(&Crawl{}).Where("project_id = ?", projectID).Pluck("id", &crawlIDs).Error; err != nil {
			return err
		}
		for _, id := range crawlIDs {
			if err := deleteCrawl(tx, id); err != nil {
				return err
			}
		}
		return tx.Delete(&Project{}, projectID).Error
	})
}

// GetProjectByID gets a project by ID
func (s *Store) GetProjectByID(id uint) (*Project, error) {
	var project Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}
