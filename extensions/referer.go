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

package extensions

import (
	"net/http"

	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/crawl"
)

// Referer sets a Referer header naming the page each resource was found on.
// Resources that already carry one keep it.
func Referer(c *crawl.Crawler) {
	c.OnSchedule(func(res *bluespider.Resource, source string) (*bluespider.Resource, bool) {
		if source == "" {
			return res, true
		}
		opts := []bluespider.ResourceOption{
			bluespider.WithDepth(res.Depth()),
			bluespider.WithMethod(res.Method()),
			bluespider.WithBody(res.Body()),
			bluespider.WithIgnore(res.ShouldIgnore()),
		}
		for _, h := range res.Headers() {
			if http.CanonicalHeaderKey(h.Name) == "Referer" {
				return res, true
			}
			opts = append(opts, bluespider.WithHeader(h.Name, h.Value))
		}
		opts = append(opts, bluespider.WithHeader("Referer", source))
		withReferer, err := bluespider.NewResource(res.URI(), opts...)
		if err != nil {
			return res, true
		}
		return withReferer, true
	})
}
