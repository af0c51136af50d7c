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

// Package runner is the skeleton every script shares: resolve parameters,
// open the log, log in, dispatch, log out on every path and turn the outcome
// into an exit code.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/log"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/foscli"
	"github.com/nvidia/fos-rest-examples/pkg/params"
)

// ErrStop is returned by Script.Prepare when there is nothing left to do,
// such as after printing help.
var ErrStop = errors.New("stop")

// releaseTimeout bounds the logout, which runs even after an interrupt.
const releaseTimeout = 30 * time.Second

// Script is one administration script.
type Script struct {
	Def params.Definition
	// Feedback adds the script options to the command line feedback block.
	Feedback func(p *params.Params) []util.Field
	// Prepare checks and loads script input before login. RunContext.Session
	// is nil. Returning ErrStop ends the run with exit code 0.
	Prepare func(ctx context.Context, rc *RunContext) error
	// Dispatch performs the actions. A nil Dispatch only logs in and out.
	Dispatch func(ctx context.Context, rc *RunContext) error
	// UseCLI makes an SSH executor available as RunContext.CLI.
	UseCLI bool
}

// RunContext is what a dispatch step works with.
type RunContext struct {
	Params  *params.Params
	Session fosapi.Session
	Log     *log.Sink
	CLI     foscli.Executor
	// Settle is passed to port moves and CLI waits.
	Settle time.Duration
}

// LoginFunc opens a session.
type LoginFunc func(ctx context.Context, cfg fosapi.Config) (fosapi.Session, error)

// Options are the collaborators of Main. Zero values select the real ones.
type Options struct {
	Args    []string
	Source  params.Source
	Console io.Writer
	Login   LoginFunc
	NewCLI  func(cfg foscli.Config) foscli.Executor
	Now     func() time.Time
	// Settle defaults to fosapi.DefaultSettleWait.
	Settle time.Duration
	// Driver adjusts the session config before login.
	Driver func(cfg *fosapi.Config)
}

// Run is the entry point of a script binary. devMode is the value of the
// main.devMode link time variable.
func Run(s Script, devMode string, constants params.Params) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return int(Main(ctx, s, Options{
		Args:   os.Args[1:],
		Source: params.NewSource(s.Def, cast.ToBool(devMode), constants),
	}))
}

// Main runs a script and returns its exit code.
func Main(ctx context.Context, s Script, opts Options) fault.ExitCode {
	opts = opts.withDefaults(s)

	p, err := opts.Source.Resolve(opts.Args)
	switch {
	case errors.Is(err, params.ErrHelp):
		return fault.ExitOK
	case err != nil:
		fmt.Fprintln(opts.Console, err.Error())
		return fault.ExitCodeFor(err)
	}

	sink := log.Open(log.Config{
		Folder:   p.LogFolder,
		NoLog:    p.NoLog,
		Suppress: p.Suppress,
		Debug:    p.Debug,
		Program:  s.Def.Name,
		Version:  s.Def.Version,
		Console:  opts.Console,
		Now:      opts.Now,
	})

	fields := p.LoginFields()
	if s.Feedback != nil {
		fields = append(fields, s.Feedback(p)...)
	}
	fields = append(fields, p.LogFields()...)
	sink.Echo(util.FeedbackLines(fields)...)
	sink.Echo("")

	code, stop := prepare(ctx, s, p, sink, opts)
	if code == fault.ExitOK && !stop {
		code = session(ctx, s, p, sink, opts)
	}
	if err := sink.Close(int(code)); err != nil {
		fmt.Fprintf(opts.Console, "Could not close the log file: %v\n", err)
	}
	return code
}

func (o Options) withDefaults(s Script) Options {
	if o.Console == nil {
		o.Console = os.Stdout
	}
	if o.Source == nil {
		o.Source = &params.CLISource{Def: s.Def, Out: o.Console}
	}
	if o.Login == nil {
		o.Login = func(ctx context.Context, cfg fosapi.Config) (fosapi.Session, error) {
			c, err := fosapi.Login(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	if o.NewCLI == nil {
		o.NewCLI = func(cfg foscli.Config) foscli.Executor { return foscli.New(cfg) }
	}
	if o.Settle == 0 {
		o.Settle = fosapi.DefaultSettleWait
	}
	return o
}

func prepare(ctx context.Context, s Script, p *params.Params, sink *log.Sink,
	opts Options) (code fault.ExitCode, stop bool) {
	if s.Prepare == nil {
		return fault.ExitOK, false
	}
	defer func() {
		if r := recover(); r != nil {
			sink.Exception(fmt.Errorf("panic: %v", r), "Programming error encountered.")
			code, stop = fault.ExitUnexpected, true
		}
	}()

	err := s.Prepare(ctx, &RunContext{Params: p, Log: sink, Settle: opts.Settle})
	switch {
	case err == nil:
		return fault.ExitOK, false
	case errors.Is(err, ErrStop):
		return fault.ExitOK, true
	}
	code = fault.ExitCodeFor(err)
	if code == fault.ExitUnexpected {
		sink.Exception(err, "Programming error encountered.")
	} else {
		sink.Echo(err.Error())
	}
	return code, true
}

// session logs in, dispatches and always logs out.
func session(ctx context.Context, s Script, p *params.Params, sink *log.Sink, opts Options) fault.ExitCode {
	cfg := fosapi.Config{
		Host:       p.IP,
		Credential: p.Credential(),
		Security:   p.Security,
		Debug:      p.Debug,
		Log:        sink.Entry(),
	}
	if opts.Driver != nil {
		opts.Driver(&cfg)
	}

	sink.Echo("Attempting login")
	sess, err := opts.Login(ctx, cfg)
	if err != nil {
		sink.Exception(err, "Login failed")
		return fault.ExitSession
	}
	sink.Echo("Login succeeded")

	rc := &RunContext{Params: p, Session: sess, Log: sink, Settle: opts.Settle}
	if s.UseCLI {
		rc.CLI = opts.NewCLI(foscli.Config{
			Host:       p.IP,
			Credential: p.Credential(),
			Debug:      p.Debug,
			Log:        sink.Entry(),
		})
	}
	defer release(ctx, rc)

	return dispatch(ctx, s, rc)
}

// release logs out. A failure is logged and does not change the exit code.
func release(ctx context.Context, rc *RunContext) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if rc.CLI != nil {
		if err := rc.CLI.Close(); err != nil {
			rc.Log.Log(fmt.Sprintf("SSH logout failed: %v", err))
		}
	}
	if err := rc.Session.Logout(ctx); err != nil {
		rc.Log.Exception(err, "Logout failed")
		return
	}
	rc.Log.Echo("Logout succeeded")
}

// dispatch runs the script actions. A panic is reported as an unexpected
// error.
func dispatch(ctx context.Context, s Script, rc *RunContext) (code fault.ExitCode) {
	defer func() {
		if r := recover(); r != nil {
			rc.Log.Exception(fmt.Errorf("panic: %v", r), "Programming error encountered.")
			rc.Log.Log(string(debug.Stack()))
			code = fault.ExitUnexpected
		}
	}()

	if s.Dispatch == nil {
		return fault.ExitOK
	}
	err := s.Dispatch(ctx, rc)
	code = fault.ExitCodeFor(err)
	switch code {
	case fault.ExitOK:
	case fault.ExitUnexpected:
		rc.Log.Exception(err, "Programming error encountered.")
	default:
		rc.Log.Warn(err.Error())
	}
	return code
}
