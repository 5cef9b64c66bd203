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

package patch

import "github.com/walteh/replacer/pkg/query"

// LinePatcher applies queries to a single line without modifying it.
type LinePatcher struct {
	line string
}

// NewLinePatcher wraps line, which must not contain its trailing newline.
func NewLinePatcher(line string) LinePatcher {
	return LinePatcher{line: line}
}

// Line returns the wrapped line.
func (lp LinePatcher) Line() string {
	return lp.line
}

// Replace returns the wrapped line with q applied. Each call starts from the
// original line, so trial applications do not compound.
func (lp LinePatcher) Replace(q query.Query) string {
	return q.Apply(lp.line)
}
