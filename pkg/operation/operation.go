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

package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/replacer/pkg/config"
	"github.com/walteh/replacer/pkg/log"
	"github.com/walteh/replacer/pkg/placeholder"
	"github.com/walteh/replacer/pkg/query"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the runner
type Options struct {
	// Config lists the files and changes
	Config *config.Config
	// Values are the placeholder tokens, resolved once for the whole run
	Values placeholder.Values
	// BaseDir resolves relative file entries
	BaseDir string
	// Apply writes the patched files; otherwise the run is a dry run
	Apply bool
	// Jobs bounds how many files are read and patched at once
	Jobs int
	// Logger receives the per-file results and diff previews. When nil, the
	// logger stored with log.NewContext is used.
	Logger *log.Logger
}

// 📊 Summary counts what a run did
type Summary struct {
	Files        int // files patched or attempted
	Changed      int // files with at least one replacement
	Replacements int // changed lines across all files
	Written      int // files written back
	Failed       int // files that could not be read, decoded or written
}

// FileError is a failure scoped to one file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// RunError collects every per-file failure of a run.
type RunError struct {
	Failures []FileError
}

func (e *RunError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%d file(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *RunError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// 🏗️ BuildQueries compiles the changes of every patch, after substituting
// placeholder values into each replacement. The result is indexed like
// cfg.Patch. The first invalid pattern aborts the whole build.
func BuildQueries(ctx context.Context, cfg *config.Config, values placeholder.Values) ([][]query.Query, error) {
	logger := zerolog.Ctx(ctx)

	all := make([][]query.Query, 0, len(cfg.Patch))
	for _, p := range cfg.Patch {
		queries := make([]query.Query, 0, len(p.Change))
		for _, c := range p.Change {
			q, err := query.Compile(c.Search, values.Expand(c.Replace), query.Options{
				Regex: c.IsRegex(),
				Word:  c.IsWord(),
			})
			if err != nil {
				return nil, errors.Errorf("patch %s: %w", p.File, err)
			}
			logger.Debug().Str("file", p.File).Stringer("query", q).Msg("compiled query")
			queries = append(queries, q)
		}
		all = append(all, queries)
	}

	return all, nil
}
