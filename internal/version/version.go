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

// Package version holds the release version of bluespider.
package version

// CurrentVersion is overridden at build time with
// -ldflags "-X github.com/agentberlin/bluespider/internal/version.CurrentVersion=v1.2.3"
var CurrentVersion = "dev"

// UserAgent is the User-Agent header sent by the fetcher
func UserAgent() string {
	return "bluespider/" + CurrentVersion
}
