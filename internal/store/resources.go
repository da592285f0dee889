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
	"fmt"
	"strings"
)

// SaveFoundResources inserts resources in batches
func (s *Store) SaveFoundResources(rows []FoundResource) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.CreateInBatches(rows, 500).Error
}

// GetFoundResources returns the resources of a crawl in discovery order
func (s *Store) GetFoundResources(crawlID uint) ([]FoundResource, error) {
	return s.SearchFoundResources(crawlID, "", "")
}

// SearchFoundResources filters the resources of a crawl. query matches the
// URI or the source URL; method restricts to one HTTP method. Empty
// arguments match everything.
func (s *Store) SearchFoundResources(crawlID uint, query string, method string) ([]FoundResource, error) {
	var rows []FoundResource
	db := s.db.Where("crawl_id = ?", crawlID)
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("(uri LIKE ? OR source_url LIKE ?)", like, like)
	}
	if method != "" {
		db = db.Where("method = ?", strings.ToUpper(method))
	}
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search resources: %w", err)
	}
	return rows, nil
}

// CountFoundResources returns the number of resources stored for a crawl
func (s *Store) CountFoundResources(crawlID uint) (int64, error) {
	var n int64
	err := s.db.Model(&FoundResource{}).Where("crawl_id = ?", crawlID).Count(&n).Error
	return n, err
}
