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
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind discriminates how a Query matches.
type Kind int

const (
	// KindSubstring matches a literal string.
	KindSubstring Kind = iota
	// KindRegex matches a compiled regular expression.
	KindRegex
)

func (k Kind) String() string {
	switch k {
	case KindSubstring:
		return "substring"
	case KindRegex:
		return "regex"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// 🔍 Query is an immutable matcher and replacer pair.
//
// A Query never sees a newline: it is applied to one line at a time, so
// nothing can match across a line boundary.
type Query struct {
	kind    Kind
	find    string
	re      *regexp.Regexp
	replace string
	word    bool
}

// 🏭 Substring builds a query replacing every non-overlapping occurrence of
// find with replace. Regex metacharacters in find are not interpreted.
func Substring(find, replace string) Query {
	return Query{
		kind:    KindSubstring,
		find:    find,
		replace: replace,
	}
}

// 🏭 FromRegex builds a query from an already compiled pattern. The template
// may reference capture groups with $1 or ${name}.
func FromRegex(re *regexp.Regexp, template string) Query {
	return Query{
		kind:    KindRegex,
		re:      re,
		replace: template,
	}
}

// 🏭 WholeWord is like FromRegex but only replaces matches that start and
// end on a word boundary. Letters, marks, digits and connector punctuation
// of any script are word characters, so "old" does not match in "éoldé".
func WholeWord(re *regexp.Regexp, template string) Query {
	q := FromRegex(re, template)
	q.word = true
	return q
}

// Kind reports whether q is a substring or a regex query.
func (q Query) Kind() Kind {
	return q.kind
}

// Replacement returns the replacement text or template.
func (q Query) Replacement() string {
	return q.replace
}

// 🔄 Apply returns line with q applied. The result equals line when nothing
// matched.
func (q Query) Apply(line string) string {
	switch q.kind {
	case KindRegex:
		if q.re == nil {
			return line
		}
		if q.word {
			return q.applyWholeWord(line)
		}
		return q.re.ReplaceAllString(line, q.replace)
	default:
		if q.find == "" {
			return line
		}
		return strings.ReplaceAll(line, q.find, q.replace)
	}
}

// String returns a short description of q for logs.
func (q Query) String() string {
	switch q.kind {
	case KindRegex:
		if q.re == nil {
			return "regex(<nil>) -> " + q.replace
		}
		if q.word {
			return fmt.Sprintf("word(%s) -> %s", q.re.String(), q.replace)
		}
		return fmt.Sprintf("regex(%s) -> %s", q.re.String(), q.replace)
	default:
		return fmt.Sprintf("substring(%q) -> %s", q.find, q.replace)
	}
}

// applyWholeWord expands the template for every match bounded by word
// boundaries on both sides and leaves the other matches as they are.
func (q Query) applyWholeWord(line string) string {
	var (
		out  []byte
		last int
		kept bool
	)
	for _, m := range q.re.FindAllStringSubmatchIndex(line, -1) {
		if !atWordBoundary(line, m[0]) || !atWordBoundary(line, m[1]) {
			continue
		}
		kept = true
		out = append(out, line[last:m[0]]...)
		out = q.re.ExpandString(out, q.replace, line, m)
		last = m[1]
	}
	if !kept {
		return line
	}
	out = append(out, line[last:]...)
	return string(out)
}

// atWordBoundary reports whether exactly one side of byte offset i in s is a
// word character. The start and end of s count as non-word.
func atWordBoundary(s string, i int) bool {
	var before, after bool
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.Is(unicode.Pc, r)
}
