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

package query

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPattern is matched by every error Compile returns for a pattern
// that does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// InvalidPatternError carries the offending pattern and the compiler error.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return "invalid regex " + e.Pattern + ": " + e.Err.Error()
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// 🔧 Options controls how Compile interprets a search pattern.
type Options struct {
	// Regex treats the pattern as a regular expression. Otherwise it is literal.
	Regex bool
	// Word restricts matches to whole words.
	Word bool
}

// 🏭 Compile builds a Query from configuration input.
//
// Whole-word matching is checked on the matches themselves rather than by
// wrapping the pattern, so $1 in the replacement is the first group of the
// pattern as written and $0 is the whole match. Tools that wrap whole-word
// patterns as \b(pattern)\b number the pattern's groups from $2 and use $1
// for the whole match; such replacements need renumbering. A literal
// whole-word pattern is quoted and its replacement escaped, so neither side
// is interpreted.
func Compile(pattern, replace string, opts Options) (Query, error) {
	if !opts.Regex && !opts.Word {
		return Substring(pattern, replace), nil
	}

	expr := pattern
	template := replace
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
		template = strings.ReplaceAll(replace, "$", "$$")
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return Query{}, &InvalidPatternError{Pattern: pattern, Err: err}
	}

	if opts.Word {
		return WholeWord(re, template), nil
	}
	return FromRegex(re, template), nil
}

// MustCompile is like Compile but panics on an invalid pattern.
func MustCompile(pattern, replace string, opts Options) Query {
	q, err := Compile(pattern, replace, opts)
	if err != nil {
		panic(err)
	}
	return q
}
