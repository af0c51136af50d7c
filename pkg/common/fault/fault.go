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

// Package fault defines the closed set of failure categories a script run can
// end in and the process exit code that each category maps to.
package fault

import (
	"errors"
	"fmt"
)

// Failure categories. Every error that leaves a script is one of these.
var (
	ErrUsage      = errors.New("usage error")
	ErrSession    = errors.New("session error")
	ErrAction     = errors.New("action failed")
	ErrUnexpected = errors.New("unexpected error")
)

// ExitCode is the process exit status of a script run.
type ExitCode int

const (
	ExitOK           ExitCode = 0
	ExitActionFailed ExitCode = 1
	ExitUsage        ExitCode = 2
	ExitSession      ExitCode = 3
	ExitUnexpected   ExitCode = 4
)

func (c ExitCode) String() string {
	switch c {
	case ExitOK:
		return "ok"
	case ExitActionFailed:
		return "action failed"
	case ExitUsage:
		return "usage error"
	case ExitSession:
		return "session error"
	case ExitUnexpected:
		return "unexpected error"
	default:
		return fmt.Sprintf("exit code %d", int(c))
	}
}

// severity orders exit codes so that combining outcomes keeps the worst one.
func (c ExitCode) severity() int {
	switch c {
	case ExitOK:
		return 0
	case ExitActionFailed:
		return 1
	case ExitUsage:
		return 2
	case ExitSession:
		return 3
	default:
		return 4
	}
}

// Worst returns the more severe of two exit codes.
func Worst(a, b ExitCode) ExitCode {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// Error is a categorized error. It unwraps to both its Kind and the cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

// Unwrap allows errors.Is to match the category as well as the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Usage returns a usage error with a formatted message.
func Usage(format string, args ...interface{}) error {
	return &Error{Kind: ErrUsage, Msg: fmt.Sprintf(format, args...)}
}

// UsageWrap marks err as a usage error.
func UsageWrap(err error, msg string) error {
	return &Error{Kind: ErrUsage, Msg: msg, Err: err}
}

// Session marks err as a session error.
func Session(err error, msg string) error {
	return &Error{Kind: ErrSession, Msg: msg, Err: err}
}

// Action marks err as a failure of a single dispatched action.
func Action(err error, msg string) error {
	return &Error{Kind: ErrAction, Msg: msg, Err: err}
}

// Unexpected marks err as unexpected.
func Unexpected(err error, msg string) error {
	return &Error{Kind: ErrUnexpected, Msg: msg, Err: err}
}

// ExitCodeFor maps an error to its exit code. Uncategorized errors are
// treated as unexpected.
func ExitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUnexpected):
		return ExitUnexpected
	case errors.Is(err, ErrSession):
		return ExitSession
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrAction):
		return ExitActionFailed
	default:
		return ExitUnexpected
	}
}
