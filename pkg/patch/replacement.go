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

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Replacement records one changed line. Old and New always differ.
type Replacement struct {
	LineNo int    // 1-based
	Old    string // original line, without newline
	New    string // patched line, without newline
}

// SpanOp classifies a span of a line diff.
type SpanOp int

const (
	SpanEqual SpanOp = iota
	SpanDelete
	SpanInsert
)

// Span is a run of text that is unchanged, removed from Old, or added in New.
type Span struct {
	Op   SpanOp
	Text string
}

var (
	removedPrefix = color.New(color.FgRed)
	addedPrefix   = color.New(color.FgGreen)
	removedSpan   = color.New(color.FgRed, color.Underline)
	addedSpan     = color.New(color.FgGreen, color.Underline)
)

// 🔍 Spans diffs Old against New character by character.
func (r Replacement) Spans() []Span {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(r.Old, r.New, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	spans := make([]Span, 0, len(diffs))
	for _, d := range diffs {
		var op SpanOp
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = SpanDelete
		case diffmatchpatch.DiffInsert:
			op = SpanInsert
		default:
			op = SpanEqual
		}
		spans = append(spans, Span{Op: op, Text: d.Text})
	}
	return spans
}

// OldLine joins the unchanged and removed spans.
func OldLine(spans []Span) string {
	return joinSpans(spans, SpanDelete, nil)
}

// NewLine joins the unchanged and added spans.
func NewLine(spans []Span) string {
	return joinSpans(spans, SpanInsert, nil)
}

func joinSpans(spans []Span, changed SpanOp, style *color.Color) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s.Op {
		case SpanEqual:
			sb.WriteString(s.Text)
		case changed:
			if style != nil {
				sb.WriteString(style.Sprint(s.Text))
			} else {
				sb.WriteString(s.Text)
			}
		}
	}
	return sb.String()
}

// 🖨️ WriteTo renders the replacement as a "--" line and a "++" line, with
// the changed spans highlighted.
func (r Replacement) WriteTo(w io.Writer) (int64, error) {
	spans := r.Spans()

	var sb strings.Builder
	sb.WriteString(removedPrefix.Sprint("--"))
	sb.WriteString(" ")
	sb.WriteString(joinSpans(spans, SpanDelete, removedSpan))
	sb.WriteString("\n")
	sb.WriteString(addedPrefix.Sprint("++"))
	sb.WriteString(" ")
	sb.WriteString(joinSpans(spans, SpanInsert, addedSpan))

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
