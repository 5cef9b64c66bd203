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
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/replacer/pkg/log"
	"github.com/walteh/replacer/pkg/patch"
	"github.com/walteh/replacer/pkg/query"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner patches every file named by a config
type Runner struct {
	opts   Options
	commit func(*patch.FilePatcher) error
}

// 🏗️ New creates a new runner
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	return &Runner{opts: opts, commit: (*patch.FilePatcher).Run}, nil
}

// target is one file and the queries that apply to it.
type target struct {
	path    string
	queries []query.Query
	patcher *patch.FilePatcher
	err     error
}

// 🏃 Run compiles every query, computes the patch of every file, then reports
// and optionally writes each one in config order.
//
// Invalid patterns abort before any file is read. Failures on individual
// files do not stop the run; they are collected into a *RunError.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	reporter := r.opts.Logger
	if reporter == nil {
		reporter = log.FromContext(ctx)
	}

	queries, err := BuildQueries(ctx, r.opts.Config, r.opts.Values)
	if err != nil {
		return nil, errors.Errorf("building queries: %w", err)
	}
	r.warnUnresolved(reporter)

	targets := r.resolve(ctx, queries)
	if err := r.compute(ctx, targets); err != nil {
		return nil, err
	}

	summary := &Summary{}
	var failures []FileError
	fail := func(path string, err error) {
		summary.Failed++
		failures = append(failures, FileError{Path: path, Err: err})
		reporter.LogFileResult(ctx, log.FileResult{Path: path, Status: log.StatusFailed, Err: err})
	}

	for _, t := range targets {
		summary.Files++
		if t.err != nil {
			fail(t.path, t.err)
			continue
		}

		fp := t.patcher
		n := len(fp.Replacements())
		if n == 0 {
			logger.Debug().Str("file", t.path).Msg("no replacements")
			reporter.LogFileResult(ctx, log.FileResult{Path: t.path, Status: log.StatusUnchanged})
			continue
		}

		summary.Changed++
		summary.Replacements += n

		if err := reporter.Write(fp.WritePatch); err != nil {
			return nil, errors.Errorf("writing preview: %w", err)
		}

		if !r.opts.Apply {
			reporter.LogFileResult(ctx, log.FileResult{Path: t.path, Status: log.StatusPending, Replacements: n})
			continue
		}

		if err := r.commit(fp); err != nil {
			fail(t.path, err)
			continue
		}
		summary.Written++
		reporter.LogFileResult(ctx, log.FileResult{Path: t.path, Status: log.StatusWritten, Replacements: n})
	}

	if len(failures) > 0 {
		return summary, &RunError{Failures: failures}
	}
	return summary, nil
}

// warnUnresolved reports every placeholder a replacement uses that has no
// value for this run, e.g. @gitrev outside a git checkout.
func (r *Runner) warnUnresolved(reporter *log.Logger) {
	seen := map[string]bool{}
	for _, p := range r.opts.Config.Patch {
		for _, c := range p.Change {
			for _, token := range r.opts.Values.Missing(c.Replace) {
				if seen[token] {
					continue
				}
				seen[token] = true
				reporter.Warningf("%s is unavailable and expands to an empty string", token)
			}
		}
	}
}

// resolve expands every patch into files. A file named by more than one
// patch gets one target whose queries are concatenated in config order, so
// no two patchers ever own the same path.
func (r *Runner) resolve(ctx context.Context, queries [][]query.Query) []*target {
	logger := zerolog.Ctx(ctx)

	var targets []*target
	byPath := map[string]*target{}

	for i, p := range r.opts.Config.Patch {
		paths, err := p.Targets(r.opts.BaseDir)
		if err != nil {
			targets = append(targets, &target{path: p.File, err: err})
			continue
		}
		for _, path := range paths {
			if t, ok := byPath[path]; ok {
				logger.Debug().Str("file", path).Msg("merging queries for file named by several patches")
				t.queries = append(t.queries, queries[i]...)
				continue
			}
			t := &target{path: path, queries: append([]query.Query(nil), queries[i]...)}
			byPath[path] = t
			targets = append(targets, t)
		}
	}

	return targets
}

// ⚡ compute builds a FilePatcher for every target, at most Jobs at a time.
// Patchers share no state, so the only coordination is the limit.
func (r *Runner) compute(ctx context.Context, targets []*target) error {
	g := new(errgroup.Group)
	g.SetLimit(r.opts.Jobs)

	for _, t := range targets {
		if t.err != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			break
		}
		t := t
		g.Go(func() error {
			t.patcher, t.err = patch.New(t.path, t.queries)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}
	return nil
}
