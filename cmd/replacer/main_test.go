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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[[patch]]
file = "a.txt"

[[patch.change]]
search = "old"
replace = "new"
`

func TestRunPatch(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name        string
		config      string
		apply       bool
		wantErr     bool
		errContains string
		wantFile    string
		wantOut     []string
	}{
		{
			name:     "dry_run",
			config:   testConfig,
			wantFile: "old line\n",
			wantOut:  []string{"dry run of 1 file patterns, 1 changes", "-- old line", "++ new line", "PENDING", "run with --go to apply"},
		},
		{
			name:     "apply",
			config:   testConfig,
			apply:    true,
			wantFile: "new line\n",
			wantOut:  []string{"patching 1 file patterns, 1 changes", "WRITTEN", "wrote 1 replacements to 1 files"},
		},
		{
			name:     "nothing_to_change",
			config:   "[[patch]]\nfile = \"a.txt\"\n[[patch.change]]\nsearch = \"absent\"\nreplace = \"x\"\n",
			apply:    true,
			wantFile: "old line\n",
			wantOut:  []string{"no change", "nothing to change"},
		},
		{
			name:        "invalid_config",
			config:      "[[patch]]\nbogus = 1\n",
			wantErr:     true,
			errContains: "loading config",
			wantFile:    "old line\n",
		},
		{
			name:        "missing_target",
			config:      "[[patch]]\nfile = \"missing.txt\"\n[[patch.change]]\nsearch = \"old\"\nreplace = \"new\"\n",
			apply:       true,
			wantErr:     true,
			errContains: "patching files",
			wantFile:    "old line\n",
			wantOut:     []string{"FAILED", "1 of 1 files failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("old line\n"), 0644), "writing target")

			configPath := filepath.Join(dir, "config.toml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.config), 0644), "writing config")

			var stdout, stderr bytes.Buffer
			err := runPatch(context.Background(), &stdout, &stderr, &rootOpts{
				configFile: configPath,
				dir:        dir,
				apply:      tt.apply,
				jobs:       2,
				noColor:    true,
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}

			got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, string(got), "target contents")

			for _, want := range tt.wantOut {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestRootCommandArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.toml", "b.toml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "replacer version info")
	assert.Contains(t, out.String(), "Go:")
}

func TestFormatVersion(t *testing.T) {
	info := &VersionInfo{
		Version:   "v1.2.3",
		GoVersion: "go1.23.5",
		Platform:  "linux/amd64",
		Revision:  "abc123",
		Time:      "2025-01-01T00:00:00Z",
		Modified:  true,
	}

	got := FormatVersion(info)
	assert.Contains(t, got, "Version:   v1.2.3")
	assert.Contains(t, got, "Revision:  abc123 (modified)")
	assert.Contains(t, got, "Platform:  linux/amd64")
}
