/*
 * SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

func TestSinkOutputs(t *testing.T) {
	testCases := map[string]struct {
		noLog       bool
		suppress    bool
		wantFile    bool
		wantConsole bool
	}{
		"file and console": {
			wantFile:    true,
			wantConsole: true,
		},
		"no log file": {
			noLog:       true,
			wantConsole: true,
		},
		"suppressed console": {
			suppress: true,
			wantFile: true,
		},
		"nowhere": {
			noLog:    true,
			suppress: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			var console bytes.Buffer

			s := Open(Config{
				Folder:   dir,
				NoLog:    tc.noLog,
				Suppress: tc.suppress,
				Console:  &console,
				Now:      fixedNow,
			})
			s.Echo("Attempting login")
			s.Log("file only")
			require.NoError(t, s.Close(0))

			path := filepath.Join(dir, "Log_2026_03_04_05_06_07.txt")
			data, err := os.ReadFile(path)
			if tc.wantFile {
				require.NoError(t, err)
				assert.Equal(t, path, s.Path())
				assert.Contains(t, string(data), "[INFO] Attempting login")
				assert.Contains(t, string(data), "file only")
				assert.Contains(t, string(data), "Processing Complete. Exit code: 0")
			} else {
				assert.Error(t, err)
				assert.Empty(t, s.Path())
			}

			if tc.wantConsole {
				assert.Contains(t, console.String(), "Attempting login\n")
				assert.NotContains(t, console.String(), "file only")
				assert.Contains(t, console.String(), "Processing Complete. Exit code: 0")
			} else {
				assert.Empty(t, console.String())
			}
		})
	}
}

func TestSinkFolderFallback(t *testing.T) {
	// A regular file where the folder should be makes MkdirAll fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	var console bytes.Buffer
	s := Open(Config{Folder: filepath.Join(blocker, "logs"), Console: &console, Now: fixedNow})
	require.NoError(t, s.Close(1))

	assert.Equal(t, "Log_2026_03_04_05_06_07.txt", s.Path())
	assert.Contains(t, console.String(), "Using the current directory")
	_, err = os.Stat(filepath.Join(dir, "Log_2026_03_04_05_06_07.txt"))
	assert.NoError(t, err)
}

func TestSinkDebugAndException(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	s := Open(Config{Folder: dir, Debug: true, Console: &console, Now: fixedNow})
	s.Debugf("GET %s", "running/brocade-chassis/chassis")
	s.Exception(errors.New("boom"), "Programming error encountered.")
	assert.Equal(t, logrus.DebugLevel, s.Logger().GetLevel())
	require.NoError(t, s.Close(4))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] GET running/brocade-chassis/chassis")
	assert.Contains(t, string(data), "[ERROR] Programming error encountered.")
	assert.Contains(t, string(data), `"error":"boom"`)
	assert.Contains(t, string(data), `"at":"sink_test.go:`)
	assert.Contains(t, console.String(), "boom")
	assert.Contains(t, console.String(), "GET running/brocade-chassis/chassis")
}

func TestFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Logout failed",
		Data:    logrus.Fields{"status": 503},
	}

	out, err := (&Formatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02 03:04:05.000006 UTC [WARNING] Logout failed {\"status\":503}\n", string(out))

	out, err = (&Formatter{Plain: true}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "Logout failed\n", string(out))
}
