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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/walteh/replacer/pkg/query"
	"gitlab.com/tozd/go/errors"
)

// ErrDecode is returned when a line of the target file is not valid UTF-8.
var ErrDecode = errors.New("invalid UTF-8 text")

const defaultFileMode os.FileMode = 0o644

// 📄 FilePatcher holds the result of applying queries to one file.
//
// Construction reads the file and computes every replacement; nothing is
// written until Run is called. Every output line, including the last, is
// terminated by a single '\n' whether or not the source ended with one.
type FilePatcher struct {
	path         string
	mode         os.FileMode
	replacements []Replacement
	newContents  []byte
}

// 🏭 New reads path and applies queries to each line in order. The first
// query that changes a line wins and the rest are skipped for that line.
func New(path string, queries []query.Query) (*FilePatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("opening %s: is a directory", path)
	}

	fp, err := NewFromReader(path, f, queries)
	if err != nil {
		return nil, err
	}
	fp.mode = info.Mode().Perm()

	return fp, nil
}

// NewFromReader is like New but reads the contents from r. Run still writes
// to path.
func NewFromReader(path string, r io.Reader, queries []query.Query) (*FilePatcher, error) {
	var (
		out          bytes.Buffer
		replacements []Replacement
	)

	reader := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		chunk, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, errors.Errorf("reading %s: %w", path, readErr)
		}
		if len(chunk) == 0 && readErr != nil {
			break
		}

		chunk = bytes.TrimSuffix(chunk, []byte{'\n'})
		if !utf8.Valid(chunk) {
			return nil, errors.Errorf("reading %s: line %d: %w", path, lineNo, ErrDecode)
		}

		line := string(chunk)
		lp := NewLinePatcher(line)
		patched := line
		for _, q := range queries {
			candidate := lp.Replace(q)
			if candidate != line {
				replacements = append(replacements, Replacement{
					LineNo: lineNo,
					Old:    line,
					New:    candidate,
				})
				patched = candidate
				break
			}
		}

		out.WriteString(patched)
		out.WriteByte('\n')

		if readErr != nil {
			break
		}
	}

	return &FilePatcher{
		path:         path,
		mode:         defaultFileMode,
		replacements: replacements,
		newContents:  out.Bytes(),
	}, nil
}

// Path returns the file the patcher reads from and writes to.
func (fp *FilePatcher) Path() string {
	return fp.path
}

// Replacements returns the changed lines in ascending line order.
func (fp *FilePatcher) Replacements() []Replacement {
	return fp.replacements
}

// HasChanges reports whether any line was replaced.
func (fp *FilePatcher) HasChanges() bool {
	return len(fp.replacements) > 0
}

// NewContents returns the patched file contents.
func (fp *FilePatcher) NewContents() []byte {
	return fp.newContents
}

// 💾 Run overwrites the file with the patched contents. The write is not
// atomic and no backup is kept.
func (fp *FilePatcher) Run() error {
	if err := os.WriteFile(fp.path, fp.newContents, fp.mode); err != nil {
		return errors.Errorf("writing %s: %w", fp.path, err)
	}
	return nil
}

// PrintPatch writes the diff preview to stdout.
func (fp *FilePatcher) PrintPatch() {
	_ = fp.WritePatch(color.Output)
}

// 🖨️ WritePatch writes a header naming the file followed by an old/new line
// pair for every replacement.
func (fp *FilePatcher) WritePatch(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", color.BlueString("Patching"), color.New(color.Bold).Sprint(fp.path))
	for _, r := range fp.replacements {
		if _, err := r.WriteTo(&sb); err != nil {
			return err
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Errorf("writing patch for %s: %w", fp.path, err)
	}
	return nil
}
