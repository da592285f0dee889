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
	"context"
	"fmt"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/types"
)

// Discover fetches one URL without following redirects and returns every
// resource the parsers find in the exchange. Found resources are one level
// deeper than depth, except redirect targets which keep it.
func (a *App) Discover(ctx context.Context, rawURL string, depth int) (*types.DiscoverResult, error) {
	target, _, err := normalizeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	if depth < 0 {
		return nil, fmt.Errorf("depth must not be negative, got %d", depth)
	}

	ex, err := a.fetcher.Get(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}

	result := &types.DiscoverResult{
		URL:         ex.RequestURL(),
		StatusCode:  ex.StatusCode(),
		ContentType: ex.ContentType(),
		Resources:   []types.ResourceInfo{},
	}
	controller := bluespider.NewController(a.parser)
	controller.AddListener(bluespider.ResourceListenerFunc(func(res *bluespider.Resource) {
		result.Resources = append(result.Resources, types.NewResourceInfo(res, ""))
	}))
	result.Consumed = controller.Process(ex, depth)

	a.logger.Debug("discovered", "url", result.URL, "status", result.StatusCode, "resources", len(result.Resources))
	return result, nil
}
