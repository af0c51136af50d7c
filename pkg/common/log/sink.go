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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const fileTimeLayout = "2006_01_02_15_04_05"

// Config controls where the sink writes. NoLog and Suppress are independent.
type Config struct {
	Folder   string // -log; empty means the working directory
	NoLog    bool   // -nl
	Suppress bool   // -sup
	Debug    bool   // -d

	Program string
	Version string

	// Console defaults to os.Stdout.
	Console io.Writer
	// Now defaults to time.Now. Used to name the log file.
	Now func() time.Time
}

// Sink is the log destination of a script run. Every message goes to the log
// file; Echo messages are mirrored to the console.
type Sink struct {
	file    *logrus.Logger
	console *logrus.Logger
	fh      *os.File
	path    string
}

// Open creates the sink. A folder that cannot be used falls back to the
// working directory; a file that still cannot be created disables the file.
func Open(cfg Config) *Sink {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Sink{
		file:    logrus.New(),
		console: logrus.New(),
	}

	s.console.SetFormatter(&Formatter{Plain: true})
	s.console.SetLevel(logrus.InfoLevel)
	switch {
	case cfg.Suppress:
		s.console.SetOutput(io.Discard)
	case cfg.Console != nil:
		s.console.SetOutput(cfg.Console)
	default:
		s.console.SetOutput(os.Stdout)
	}

	s.file.SetFormatter(&Formatter{})
	s.file.SetOutput(io.Discard)
	if cfg.Debug {
		s.file.SetLevel(logrus.DebugLevel)
		s.file.AddHook(&echoHook{console: s.console})
	} else {
		s.file.SetLevel(logrus.InfoLevel)
	}

	if !cfg.NoLog {
		name := "Log_" + now().Format(fileTimeLayout) + ".txt"
		fh, path, err := openLogFile(cfg.Folder, name)
		if err != nil && cfg.Folder != "" {
			s.console.Warnf("Could not use log folder %s: %v. Using the current directory.", cfg.Folder, err)
			fh, path, err = openLogFile("", name)
		}
		if err != nil {
			s.console.Warnf("Could not create log file %s: %v. Logging to file disabled.", name, err)
		} else {
			s.fh = fh
			s.path = path
			s.file.SetOutput(fh)
		}
	}

	if cfg.Program != "" {
		s.Log(fmt.Sprintf("%s, %s", cfg.Program, cfg.Version))
	}
	s.file.WithField("pid", os.Getpid()).Info("Log opened")

	return s
}

func openLogFile(folder, name string) (*os.File, string, error) {
	if folder != "" {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, "", err
		}
	}
	path := filepath.Join(folder, name)
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", err
	}
	return fh, path, nil
}

// Path returns the log file path, or "" when no file is written.
func (s *Sink) Path() string {
	return s.path
}

// Entry is the logger the driver writes its request traces to.
func (s *Sink) Entry() *logrus.Entry {
	return logrus.NewEntry(s.file)
}

// Logger exposes the file logger, mainly for test hooks.
func (s *Sink) Logger() *logrus.Logger {
	return s.file
}

// Log writes lines to the log file only.
func (s *Sink) Log(lines ...string) {
	for _, l := range splitLines(lines) {
		s.file.Info(l)
	}
}

// Echo writes lines to the log file and the console.
func (s *Sink) Echo(lines ...string) {
	for _, l := range splitLines(lines) {
		s.file.Info(l)
		s.console.Info(l)
	}
}

// Warn writes lines at warning level and echoes them.
func (s *Sink) Warn(lines ...string) {
	for _, l := range splitLines(lines) {
		s.file.Warn(l)
		s.console.Info(l)
	}
}

// Exception records an error with the location of the caller and echoes the
// lines to the console.
func (s *Sink) Exception(err error, lines ...string) {
	entry := s.file.WithField("at", callerLocation(2))
	if err != nil {
		entry = entry.WithError(err)
	}
	for _, l := range splitLines(lines) {
		entry.Error(l)
		s.console.Info(l)
	}
	if err != nil {
		s.console.Info(err.Error())
	}
}

// Debugf is only written when the sink was opened with Debug.
func (s *Sink) Debugf(format string, args ...interface{}) {
	s.file.Debugf(format, args...)
}

// Close writes the closing line and releases the log file.
func (s *Sink) Close(exitCode int) error {
	s.Echo("", fmt.Sprintf("Processing Complete. Exit code: %d", exitCode))
	if s.fh == nil {
		return nil
	}
	s.file.SetOutput(io.Discard)
	err := s.fh.Close()
	s.fh = nil
	return err
}

// echoHook mirrors debug entries written through Entry to the console.
type echoHook struct {
	console *logrus.Logger
}

func (h *echoHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.DebugLevel}
}

func (h *echoHook) Fire(e *logrus.Entry) error {
	h.console.Info(e.Message)
	return nil
}

func splitLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, strings.Split(strings.ReplaceAll(l, "\r\n", "\n"), "\n")...)
	}
	return out
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
