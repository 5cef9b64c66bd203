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

package main

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/replacer/pkg/config"
	"github.com/walteh/replacer/pkg/log"
	"github.com/walteh/replacer/pkg/operation"
	"github.com/walteh/replacer/pkg/placeholder"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flags of the root command
type rootOpts struct {
	configFile string
	dir        string
	apply      bool
	jobs       int
	debug      bool
	noColor    bool
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "replacer [config]",
		Short: "Apply search and replace rules from a config file",
		Long: `replacer reads a config file (TOML, YAML, JSON or HCL, default config.toml)
listing files and search/replace rules, and shows the resulting diff.

Replacements may use @date, @gitrev and @gitbranch, which are resolved once
per run. Nothing is written unless --go is given.

Search patterns are whole-word regular expressions unless a change sets
regex = false or word = false. In a regex replacement, $0 is the whole match and $1
is the first group of the pattern as written.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configFile = config.DefaultPath
			if len(args) == 1 {
				opts.configFile = args[0]
			}
			return runPatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	addRootFlags(cmd, opts)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags adds the flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.Flags().BoolVar(&opts.apply, "go", false, "write the changes (default is a dry run)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "C", ".", "directory that file entries and git lookups are relative to")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "files to read in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func runPatch(ctx context.Context, stdout, stderr io.Writer, opts *rootOpts) error {
	if opts.noColor {
		color.NoColor = true
		pterm.DisableColor()
	}

	zlog := setupLogging(stderr, opts.debug)
	ctx = zlog.WithContext(ctx)

	cfg, err := config.Load(ctx, opts.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	values := placeholder.Resolve(ctx, placeholder.Sources{
		Clock: placeholder.RealClock{},
		Git:   placeholder.NewExecGit(opts.dir),
	})

	logger := log.New(stdout, zlog)
	ctx = log.NewContext(ctx, logger)

	if opts.apply {
		logger.Header("patching " + cfg.String())
	} else {
		logger.Header("dry run of " + cfg.String())
	}

	runner, err := operation.New(operation.Options{
		Config:  cfg,
		Values:  values,
		BaseDir: opts.dir,
		Apply:   opts.apply,
		Jobs:    opts.jobs,
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	summary, err := runner.Run(ctx)
	if summary != nil {
		logSummary(log.FromContext(ctx), summary, opts.apply)
	}
	if err != nil {
		return errors.Errorf("patching files: %w", err)
	}

	return nil
}

func logSummary(logger *log.Logger, s *operation.Summary, apply bool) {
	logger.LogNewline()
	switch {
	case s.Failed > 0:
		logger.Errorf("%d of %d files failed", s.Failed, s.Files)
	case s.Changed == 0:
		logger.Success("nothing to change")
	case apply:
		logger.Successf("wrote %d replacements to %d files", s.Replacements, s.Written)
	default:
		logger.Infof("%d replacements in %d files, run with --go to apply", s.Replacements, s.Changed)
	}
}
