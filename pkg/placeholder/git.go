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

package placeholder

import (
	"context"
	"os/exec"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Git looks up the state of the working copy.
type Git interface {
	// Revision returns the commit id of HEAD.
	Revision(ctx context.Context) (string, error)
	// Branch returns the full ref name HEAD points to, e.g. refs/heads/main.
	Branch(ctx context.Context) (string, error)
}

// ExecGit implements Git by running the git binary in Dir.
type ExecGit struct {
	Dir string
}

// NewExecGit creates an ExecGit rooted at dir.
func NewExecGit(dir string) *ExecGit {
	return &ExecGit{Dir: dir}
}

func (g *ExecGit) Revision(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "HEAD")
}

// Branch reports "HEAD" for a detached checkout.
func (g *ExecGit) Branch(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--symbolic-full-name", "HEAD")
}

func (g *ExecGit) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", errors.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
		}
		return "", errors.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(string(out)), nil
}
