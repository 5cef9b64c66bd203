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
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Tokens recognized in replacement templates.
const (
	TokenDate      = "@date"
	TokenGitRev    = "@gitrev"
	TokenGitBranch = "@gitbranch"
)

// DateLayout formats the @date token, always in UTC.
const DateLayout = "2006/01/02 15:04"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock always returns the same instant.
type FakeClock struct {
	At time.Time
}

func (c FakeClock) Now() time.Time {
	return c.At
}

// 📦 Sources are the collaborators Resolve reads from.
type Sources struct {
	Clock Clock
	Git   Git
}

// 🎯 Values are the token values for one run. They are resolved once and
// shared by every file and line.
type Values struct {
	Date      string
	GitRev    string
	GitBranch string
}

// 🔄 Resolve looks up every token. A failed VCS lookup leaves that token
// empty and is logged as a warning.
func Resolve(ctx context.Context, src Sources) Values {
	logger := zerolog.Ctx(ctx)

	clock := src.Clock
	if clock == nil {
		clock = RealClock{}
	}

	v := Values{
		Date: clock.Now().UTC().Format(DateLayout),
	}

	if src.Git == nil {
		logger.Debug().Msg("no git source configured, leaving vcs tokens empty")
		return v
	}

	rev, err := src.Git.Revision(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("token", TokenGitRev).Msg("resolving git revision")
	} else {
		v.GitRev = rev
	}

	branch, err := src.Git.Branch(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("token", TokenGitBranch).Msg("resolving git branch")
	} else {
		v.GitBranch = branch
	}

	logger.Debug().
		Str("date", v.Date).
		Str("gitrev", v.GitRev).
		Str("gitbranch", v.GitBranch).
		Msg("resolved placeholders")

	return v
}

// Map returns the token to value mapping.
func (v Values) Map() map[string]string {
	return map[string]string{
		TokenDate:      v.Date,
		TokenGitRev:    v.GitRev,
		TokenGitBranch: v.GitBranch,
	}
}

// Expand substitutes every token in template.
func (v Values) Expand(template string) string {
	return strings.NewReplacer(
		TokenDate, v.Date,
		TokenGitRev, v.GitRev,
		TokenGitBranch, v.GitBranch,
	).Replace(template)
}

// Missing returns the tokens used in template whose value is empty, in
// token order.
func (v Values) Missing(template string) []string {
	var missing []string
	for _, tv := range []struct{ token, value string }{
		{TokenDate, v.Date},
		{TokenGitRev, v.GitRev},
		{TokenGitBranch, v.GitBranch},
	} {
		if tv.value == "" && strings.Contains(template, tv.token) {
			missing = append(missing, tv.token)
		}
	}
	return missing
}
