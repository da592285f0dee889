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

package bluespider

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config controls which parsers run and how they behave
type Config struct {
	// ParseComments enables link discovery inside HTML comments
	ParseComments bool `yaml:"parse_comments"`
	// ProcessForms enables the HTML form parser
	ProcessForms bool `yaml:"process_forms"`
	// PostForms allows the form parser to emit POST resources
	PostForms bool `yaml:"post_forms"`
	// ParseRobotsTxt enables mining Allow/Disallow paths from robots.txt
	ParseRobotsTxt bool `yaml:"parse_robots_txt"`
	// ParseSitemapXML enables extracting <loc> entries from sitemap.xml
	ParseSitemapXML bool `yaml:"parse_sitemap_xml"`
	// ReportPseudoLinks reports javascript:, mailto: and similar hrefs as
	// ignored resources instead of dropping them
	ReportPseudoLinks bool `yaml:"report_pseudo_links"`
	// DetectCharset sniffs the charset of bodies that do not declare one
	DetectCharset bool `yaml:"detect_charset"`
	// MaxParseSize is the largest body in bytes the controller will parse.
	// 0 means unlimited.
	MaxParseSize int `yaml:"max_parse_size"`

	// ValueGenerator supplies values for form fields that carry none
	ValueGenerator ValueGenerator `yaml:"-"`
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger `yaml:"-"`
}

var envMap = map[string]func(*Config, string){
	"DETECT_CHARSET": func(c *Config, val string) {
		c.DetectCharset = isYesString(val)
	},
	"MAX_PARSE_SIZE": func(c *Config, val string) {
		size, err := strconv.Atoi(val)
		if err == nil {
			c.MaxParseSize = size
		}
	},
	"PARSE_COMMENTS": func(c *Config, val string) {
		c.ParseComments = isYesString(val)
	},
	"PARSE_ROBOTS_TXT": func(c *Config, val string) {
		c.ParseRobotsTxt = isYesString(val)
	},
	"PARSE_SITEMAP_XML": func(c *Config, val string) {
		c.ParseSitemapXML = isYesString(val)
	},
	"POST_FORMS": func(c *Config, val string) {
		c.PostForms = isYesString(val)
	},
	"PROCESS_FORMS": func(c *Config, val string) {
		c.ProcessForms = isYesString(val)
	},
	"REPORT_PSEUDO_LINKS": func(c *Config, val string) {
		c.ReportPseudoLinks = isYesString(val)
	},
}

const envPrefix = "BLUESPIDER_"

// NewDefaultConfig returns a Config with every parser enabled
func NewDefaultConfig() *Config {
	return &Config{
		ParseComments:     true,
		ProcessForms:      true,
		PostForms:         true,
		ParseRobotsTxt:    true,
		ParseSitemapXML:   true,
		ReportPseudoLinks: false,
		DetectCharset:     false,
		MaxParseSize:      10 * 1024 * 1024, // 10MB
	}
}

// LoadConfigFile reads a YAML config file on top of the defaults
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from BLUESPIDER_* environment variables
func (c *Config) ApplyEnv() {
	c.applyEnv(os.Environ())
}

func (c *Config) applyEnv(environ []string) {
	for _, e := range environ {
		if !strings.HasPrefix(e, envPrefix) {
			continue
		}
		pair := strings.SplitN(e[len(envPrefix):], "=", 2)
		if len(pair) != 2 {
			continue
		}
		if f, ok := envMap[pair[0]]; ok {
			f(c, pair[1])
		} else {
			c.logger().Warn("unknown environment variable", "name", envPrefix+pair[0])
		}
	}
}

// Validate checks the config for invalid values
func (c *Config) Validate() error {
	if c.MaxParseSize < 0 {
		return ErrInvalidParseSize
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Config) valueGenerator() ValueGenerator {
	if c == nil || c.ValueGenerator == nil {
		return NewDefaultValueGenerator()
	}
	return c.ValueGenerator
}

func isYesString(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "true", "y":
		return true
	}
	return false
}
