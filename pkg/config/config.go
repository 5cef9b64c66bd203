// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "config.toml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Change is one search and replace rule.
type Change struct {
	Search  string `json:"search" yaml:"search" toml:"search"`
	Replace string `json:"replace" yaml:"replace" toml:"replace"`
	Regex   *bool  `json:"regex,omitempty" yaml:"regex,omitempty" toml:"regex,omitempty"` // default true
	Word    *bool  `json:"word,omitempty" yaml:"word,omitempty" toml:"word,omitempty"`    // default true
}

// IsRegex reports whether Search is a regular expression.
func (c Change) IsRegex() bool {
	return c.Regex == nil || *c.Regex
}

// IsWord reports whether Search must match whole words only.
func (c Change) IsWord() bool {
	return c.Word == nil || *c.Word
}

// 📄 PatchFile lists the changes applied to one file or glob of files.
type PatchFile struct {
	File    string   `json:"file" yaml:"file" toml:"file"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	Change  []Change `json:"change" yaml:"change" toml:"change"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Patch []PatchFile `json:"patch" yaml:"patch" toml:"patch"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(filepath.Base(path))
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("patches", len(cfg.Patch)).Msg("configuration loaded")

	return cfg, nil
}

// Location returns the path the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Patch) == 0 {
		return errors.Errorf("at least one patch is required")
	}

	for i, p := range cfg.Patch {
		if strings.TrimSpace(p.File) == "" {
			return errors.Errorf("patch %d: file is required", i)
		}
		if len(p.Change) == 0 {
			return errors.Errorf("patch %d (%s): at least one change is required", i, p.File)
		}
		for j, c := range p.Change {
			if c.Search == "" {
				return errors.Errorf("patch %d (%s): change %d: search is required", i, p.File, j)
			}
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	changes := 0
	for _, p := range cfg.Patch {
		changes += len(p.Change)
	}
	return fmt.Sprintf("%d file patterns, %d changes", len(cfg.Patch), changes)
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
