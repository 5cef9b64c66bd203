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
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// IsGlob reports whether File is a glob pattern rather than a single path.
func (p PatchFile) IsGlob() bool {
	return strings.ContainsAny(p.File, "*?[{")
}

// 🎯 Targets resolves File against baseDir into canonical absolute paths.
//
// A plain path must exist. A glob matches regular files only and must match
// at least one; matches hit by an Exclude pattern are dropped.
func (p PatchFile) Targets(baseDir string) ([]string, error) {
	pattern := p.File
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(baseDir, pattern)
	}

	if !p.IsGlob() {
		path, err := canonicalize(pattern)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.Errorf("expanding %s: %w", p.File, err)
	}

	var targets []string
	for _, m := range matches {
		excluded, err := p.excluded(baseDir, m)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}
		path, err := canonicalize(m)
		if err != nil {
			return nil, err
		}
		targets = append(targets, path)
	}

	if len(targets) == 0 {
		return nil, errors.Errorf("no files match %s", p.File)
	}

	sort.Strings(targets)
	return targets, nil
}

func (p PatchFile) excluded(baseDir, path string) (bool, error) {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = path
	}
	for _, ex := range p.Exclude {
		matched, err := doublestar.PathMatch(ex, rel)
		if err != nil {
			return false, errors.Errorf("invalid exclude pattern %q: %w", ex, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	return resolved, nil
}
