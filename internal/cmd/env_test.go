// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/packstream/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvArgs(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		output []string
	}{
		{
			name:   "empty",
			env:    "",
			output: []string{},
		},
		{
			name:   "multiple args",
			env:    "-format tar -progress",
			output: []string{"-format", "tar", "-progress"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(cmd.EnvVar, tt.env)
			assert.Equal(t, tt.output, cmd.EnvArgs())
		})
	}
}

func TestLocalConfigArgs(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected []string
	}{
		{
			name:     "empty",
			content:  "",
			expected: []string{},
		},
		{
			name:     "single line",
			content:  "-arg1=3\n-arg2=4 5",
			expected: []string{"-arg1=3", "-arg2=4 5"},
		},
		{
			name:     "multiple lines",
			content:  "-arg1\n3\n-arg2\n4\n",
			expected: []string{"-arg1", "3", "-arg2", "4"},
		},
		{
			name:     "comments",
			content:  "# defaults\n-format=cpio\n  # method\n-method=lz4\n",
			expected: []string{"-format=cpio", "-method=lz4"},
		},
		{
			name:     "with env vars",
			content:  "-arg1=${VAR1}\n-arg2=$VAR2--\n-arg3=${VAR3}/more\n",
			env:      map[string]string{"VAR1": "42", "VAR2": "__"},
			expected: []string{"-arg1=42", "-arg2=__--", "-arg3=/more"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFS := fstest.MapFS{
				"conf": &fstest.MapFile{
					Data: []byte(tt.content),
				},
			}

			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			content, err := cmd.LocalConfigArgs(testFS, "conf")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, content)
		})
	}
}

func TestLocalConfigArgs_Missing(t *testing.T) {
	args, err := cmd.LocalConfigArgs(fstest.MapFS{}, "conf")
	require.NoError(t, err)
	assert.Nil(t, args)
}

func TestMergedArgs(t *testing.T) {
	testFS := fstest.MapFS{
		"conf": &fstest.MapFile{
			Data: []byte("-format=cpio\n-jobs=2\n"),
		},
	}

	t.Setenv(cmd.EnvVar, "-format=tar -progress")

	actual, err := cmd.MergedArgs([]string{"-format=zip", "out.zip", "in"}, testFS, "conf")
	require.NoError(t, err)

	expected := []string{
		"-format=cpio",
		"-jobs=2",
		"-format=tar",
		"-progress",
		"-format=zip",
		"out.zip",
		"in",
	}
	assert.Equal(t, expected, actual)
}
