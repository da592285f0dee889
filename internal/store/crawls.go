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
	"time"

	"gorm.io/gorm"
)

// CreateCrawl starts a crawl record for a project
func (s *Store) CreateCrawl(projectID uint, seed string, startedAt time.Time) (*Crawl, error) {
	crawl := Crawl{
		ProjectID:     projectID,
		Seed:          seed,
		CrawlDateTime: startedAt.Unix(),
		State:         CrawlInProgress,
	}
	if err := s.db.Create(&crawl).Error; err != nil {
		return nil, fmt.Errorf("failed to create crawl: %w", err)
	}
	return &crawl, nil
}

// FinishCrawl stores the final statistics and state of a crawl
func (s *Store) FinishCrawl(crawlID uint, state string, duration time.Duration, fetched, failed, resources int) error {
	return s.db.Model(&Crawl{}).Where("id = ?", crawlID).Updates(map[string]interface{}{
		"state":          state,
		"crawl_duration": duration.Milliseconds(),
		"pages_fetched":  fetched,
		"pages_failed":   failed,
		"resource_count": resources,
	}).Error
}

// GetCrawlByID gets a crawl by ID
func (s *Store) GetCrawlByID(id uint) (*Crawl, error) {
	var crawl Crawl
	if err := s.db.First(&crawl, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get crawl: %w", err)
	}
	return &crawl, nil
}

// GetProjectCrawls returns all crawls for a project, newest first
func (s *Store) GetProjectCrawls(projectID uint) ([]Crawl, error) {
	var crawls []Crawl
	result := s.db.Where("project_id = ?", projectID).Order("crawl_date_time DESC, id DESC").Find(&crawls)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get crawls: %w", result.Error)
	}
	return crawls, nil
}

// GetLatestCrawl gets the most recent crawl for a project, or nil
func (s *Store) GetLatestCrawl(projectID uint) (*Crawl, error) {
	var crawl Crawl
	result := s.db.Where("project_id = ?", projectID).Order("crawl_date_time DESC, id DESC").First(&crawl)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest crawl: %w", result.Error)
	}
	return &crawl, nil
}

// DeleteCrawl deletes a crawl with its pages and resources
func (s *Store) DeleteCrawl(crawlID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return deleteCrawl(tx, crawlID)
	})
}

func deleteCrawl(tx *gorm.DB, crawlID uint) error {
	if err := tx.Where("crawl_id = ?", crawlID).Delete(&FoundResource{}).Error; err != nil {
		return err
	}
	if err := tx.Where("crawl_id = ?", crawlID).Delete(&FetchedPage{}).Error; err != nil {
		return err
	}
	return tx.Delete(&Crawl{}, crawlID).Error
}

// SaveFetchedPage records an exchange performed by a crawl
func (s *Store) SaveFetchedPage(page *FetchedPage) error {
	return s.db.Create(page).Error
}

// GetFetchedPages returns the pages of a crawl in fetch order
func (s *Store) GetFetchedPages(crawlID uint) ([]FetchedPage, error) {
	var pages []FetchedPage
	if err := s.db.Where("crawl_id = ?", crawlID).Order("id").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to get pages: %w", err)
	}
	return pages, nil
}
