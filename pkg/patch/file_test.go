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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/replacer/pkg/query"
	"gitlab.com/tozd/go/errors"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foo.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestComputeReplacements(t *testing.T) {
	fp, err := New(filepath.Join("testdata", "top.txt"), []query.Query{query.Substring("old", "new")})
	require.NoError(t, err)

	replacements := fp.Replacements()
	require.Len(t, replacements, 1)

	// checkouts with CRLF line endings keep the \r on each line
	got := replacements[0]
	assert.Equal(t, 2, got.LineNo)
	assert.Equal(t, "Top: old is nice", strings.ReplaceAll(got.Old, "\r", ""))
	assert.Equal(t, "Top: new is nice", strings.ReplaceAll(got.New, "\r", ""))
}

func TestPatchFile(t *testing.T) {
	path := writeTemp(t, "first line\nI say: old is nice\nlast line\n")

	fp, err := New(path, []query.Query{query.Substring("old", "new")})
	require.NoError(t, err)
	require.Equal(t, []Replacement{{LineNo: 2, Old: "I say: old is nice", New: "I say: new is nice"}}, fp.Replacements())

	// nothing is written before Run
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first line\nI say: old is nice\nlast line\n", string(before))

	require.NoError(t, fp.Run())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first line\nI say: new is nice\nlast line\n", string(after))
}

func TestNewContents(t *testing.T) {
	tests := []struct {
		name      string
		contents  string
		queries   []query.Query
		want      string
		wantLines []int
	}{
		{
			name:     "empty_file",
			contents: "",
			queries:  []query.Query{query.Substring("a", "b")},
			want:     "",
		},
		{
			name:     "single_newline",
			contents: "\n",
			queries:  []query.Query{query.Substring("a", "b")},
			want:     "\n",
		},
		{
			name:      "missing_trailing_newline_is_added",
			contents:  "a\nold",
			queries:   []query.Query{query.Substring("old", "new")},
			want:      "a\nnew\n",
			wantLines: []int{2},
		},
		{
			name:     "no_queries",
			contents: "one\ntwo\n",
			want:     "one\ntwo\n",
		},
		{
			name:      "crlf_is_kept",
			contents:  "old\r\nkeep\r\n",
			queries:   []query.Query{query.Substring("old", "new")},
			want:      "new\r\nkeep\r\n",
			wantLines: []int{1},
		},
		{
			name:     "blank_lines_preserved",
			contents: "\n\nold\n\n",
			queries: []query.Query{
				query.MustCompile("old", "new", query.Options{Regex: true, Word: true}),
			},
			want:      "\n\nnew\n\n",
			wantLines: []int{3},
		},
		{
			name:     "word_query_skips_golden",
			contents: "golden\nold gold\n",
			queries: []query.Query{
				query.MustCompile("old", "new", query.Options{Regex: true, Word: true}),
			},
			want:      "golden\nnew gold\n",
			wantLines: []int{2},
		},
		{
			name:      "substring_query_matches_golden",
			contents:  "golden\n",
			queries:   []query.Query{query.Substring("old", "new")},
			want:      "gnewen\n",
			wantLines: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := NewFromReader("mem.txt", strings.NewReader(tt.contents), tt.queries)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(fp.NewContents()))

			var lines []int
			for _, r := range fp.Replacements() {
				assert.NotEqual(t, r.Old, r.New)
				lines = append(lines, r.LineNo)
			}
			assert.Equal(t, tt.wantLines, lines)
			assert.Equal(t, len(tt.wantLines) > 0, fp.HasChanges())
		})
	}
}

func TestFirstMatchWins(t *testing.T) {
	queries := []query.Query{
		query.Substring("old", "first"),
		query.Substring("old", "second"),
		query.Substring("other", "third"),
	}

	fp, err := NewFromReader("mem.txt", strings.NewReader("old other\nother\n"), queries)
	require.NoError(t, err)

	assert.Equal(t, []Replacement{
		{LineNo: 1, Old: "old other", New: "first other"},
		{LineNo: 2, Old: "other", New: "third"},
	}, fp.Replacements())
	assert.Equal(t, "first other\nthird\n", string(fp.NewContents()))
}

func TestNoOpRunIsIdempotent(t *testing.T) {
	original := "alpha\nbeta\n"
	path := writeTemp(t, original)

	fp, err := New(path, []query.Query{query.Substring("gamma", "delta")})
	require.NoError(t, err)
	assert.Empty(t, fp.Replacements())

	require.NoError(t, fp.Run())
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(got))
}

func TestRunPreservesMode(t *testing.T) {
	path := writeTemp(t, "old\n")
	require.NoError(t, os.Chmod(path, 0o600))

	fp, err := New(path, []query.Query{query.Substring("old", "new")})
	require.NoError(t, err)
	require.NoError(t, fp.Run())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.bin")
	original := []byte("valid\n\xff\xfe old\n")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	fp, err := New(path, []query.Query{query.Substring("old", "new")})
	require.Error(t, err)
	assert.Nil(t, fp)
	assert.True(t, errors.Is(err, ErrDecode), "error should wrap ErrDecode")
	assert.Contains(t, err.Error(), "line 2")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got, "file must not be touched")
}

func TestOpenFailure(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = New(t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestRunWriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	fp, err := New(path, []query.Query{query.Substring("old", "new")})
	require.NoError(t, err)
	require.True(t, fp.HasChanges())

	require.NoError(t, os.RemoveAll(dir))

	err = fp.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "write error should wrap the cause")
	assert.Contains(t, err.Error(), "writing "+path)
}

func TestLongLine(t *testing.T) {
	line := strings.Repeat("x", 200_000) + "old"
	fp, err := NewFromReader("mem.txt", strings.NewReader(line+"\n"), []query.Query{query.Substring("old", "new")})
	require.NoError(t, err)
	require.Len(t, fp.Replacements(), 1)
	assert.True(t, strings.HasSuffix(fp.Replacements()[0].New, "xnew"))
}

func TestWritePatch(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	fp, err := NewFromReader("/tmp/foo.txt", strings.NewReader("first line\nI say: old is nice\nlast line\n"),
		[]query.Query{query.Substring("old", "new")})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, fp.WritePatch(buf))
	assert.Equal(t, "Patching /tmp/foo.txt\n-- I say: old is nice\n++ I say: new is nice\n\n", buf.String())
}
