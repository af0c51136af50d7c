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
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidia/fos-rest-examples/internal/fostest"
	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/log"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
)

var testDef = params.Definition{
	Name:        "runner_test",
	Version:     "1.0.0",
	Description: "Exercise the script skeleton.",
}

type fakeSession struct {
	logouts   int
	logoutErr error
}

func (f *fakeSession) Get(context.Context, string, int) (json.RawMessage, error) {
	return json.RawMessage("{}"), nil
}

func (f *fakeSession) Send(context.Context, string, string, int, interface{}) error {
	return nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func constants(host string) params.Params {
	return params.Params{
		IP:       host,
		User:     fostest.User,
		Password: credential.Secret{Value: fostest.Password},
		Security: fosapi.SecurityNone,
		NoLog:    true,
	}
}

func fakeOptions(sess *fakeSession, console *bytes.Buffer) Options {
	return Options{
		Source:  &params.ConstantSource{Def: testDef, Params: constants("10.0.0.15")},
		Console: console,
		Login: func(context.Context, fosapi.Config) (fosapi.Session, error) {
			return sess, nil
		},
	}
}

func TestMainReleasesSession(t *testing.T) {
	testCases := map[string]struct {
		dispatch func(context.Context, *RunContext) error
		want     fault.ExitCode
	}{
		"success": {
			dispatch: func(context.Context, *RunContext) error { return nil },
			want:     fault.ExitOK,
		},
		"action failure": {
			dispatch: func(context.Context, *RunContext) error { return fault.Action(nil, "port 0/1 failed") },
			want:     fault.ExitActionFailed,
		},
		"uncategorized error": {
			dispatch: func(context.Context, *RunContext) error { return errors.New("boom") },
			want:     fault.ExitUnexpected,
		},
		"panic": {
			dispatch: func(context.Context, *RunContext) error { panic("index out of range") },
			want:     fault.ExitUnexpected,
		},
		"no dispatch": {
			want: fault.ExitOK,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			sess := &fakeSession{}
			var console bytes.Buffer
			code := Main(context.Background(), Script{Def: testDef, Dispatch: tc.dispatch}, fakeOptions(sess, &console))

			assert.Equal(t, tc.want, code)
			assert.Equal(t, 1, sess.logouts)
			assert.Contains(t, console.String(), "Login succeeded")
			assert.Contains(t, console.String(), "Logout succeeded")
		})
	}
}

func TestMainLogoutFailureKeepsExitCode(t *testing.T) {
	sess := &fakeSession{logoutErr: errors.New("connection reset")}
	var console bytes.Buffer

	code := Main(context.Background(), Script{Def: testDef}, fakeOptions(sess, &console))

	assert.Equal(t, fault.ExitOK, code)
	assert.Equal(t, 1, sess.logouts)
	assert.Contains(t, console.String(), "Logout failed")
	assert.Contains(t, console.String(), "Processing Complete. Exit code: 0")
}

func TestMainFeedbackMasksIP(t *testing.T) {
	var console bytes.Buffer
	script := Script{
		Def: testDef,
		Feedback: func(*params.Params) []util.Field {
			return []util.Field{{Label: "Ports", Flag: "p", Value: "0/1-4"}}
		},
	}

	Main(context.Background(), script, fakeOptions(&fakeSession{}, &console))

	out := console.String()
	assert.Contains(t, out, "xxx.xxx.xxx.15")
	assert.NotContains(t, out, "10.0.0.15")
	assert.NotContains(t, out, fostest.Password)
	assert.Contains(t, out, "0/1-4")
}

func TestMainAgainstSwitch(t *testing.T) {
	srv := fostest.New(t)
	srv.SetGet(fosapi.URIChassis, map[string]interface{}{"chassis": map[string]interface{}{"vf-enabled": true}})

	var hook *test.Hook
	script := Script{
		Def: testDef,
		Dispatch: func(ctx context.Context, rc *RunContext) error {
			hook = test.NewLocal(rc.Log.Logger())
			_, err := rc.Session.Get(ctx, fosapi.URIChassis, 0)
			return err
		},
	}
	var console bytes.Buffer
	code := Main(context.Background(), script, Options{
		Source:  &params.ConstantSource{Def: testDef, Params: constants(srv.Host())},
		Console: &console,
	})

	assert.Equal(t, fault.ExitOK, code)
	assert.Equal(t, 1, srv.Logins())
	assert.Equal(t, 1, srv.Logouts())
	require.Len(t, srv.Matching(http.MethodGet, fosapi.URIChassis), 1)

	require.NotNil(t, hook)
	messages := make([]string, 0, len(hook.AllEntries()))
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "Logout succeeded")
	assert.Contains(t, messages, "Processing Complete. Exit code: 0")
}

func TestMainLoginFailure(t *testing.T) {
	srv := fostest.New(t)
	srv.FailLogin(http.StatusUnauthorized)

	called := false
	script := Script{
		Def: testDef,
		Dispatch: func(context.Context, *RunContext) error {
			called = true
			return nil
		},
	}
	var console bytes.Buffer
	code := Main(context.Background(), script, Options{
		Source:  &params.ConstantSource{Def: testDef, Params: constants(srv.Host())},
		Console: &console,
	})

	assert.Equal(t, fault.ExitSession, code)
	assert.False(t, called)
	assert.Equal(t, 1, srv.Logins())
	assert.Equal(t, 0, srv.Logouts())
	assert.Empty(t, srv.Requests())
	assert.Contains(t, console.String(), "Login failed")
}

func TestMainNoNetworkCall(t *testing.T) {
	testCases := map[string]struct {
		args []string
		want fault.ExitCode
	}{
		"missing ip": {
			args: []string{"-id", fostest.User, "-pw", fostest.Password, "-nl"},
			want: fault.ExitUsage,
		},
		"bad security": {
			args: []string{"-ip", "10.0.0.1", "-id", fostest.User, "-pw", fostest.Password, "-s", "tls"},
			want: fault.ExitUsage,
		},
		"help": {
			args: []string{"-h"},
			want: fault.ExitOK,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			logins := 0
			var console bytes.Buffer
			code := Main(context.Background(), Script{Def: testDef}, Options{
				Args:    tc.args,
				Source:  &params.CLISource{Def: testDef, Out: &console},
				Console: &console,
				Login: func(context.Context, fosapi.Config) (fosapi.Session, error) {
					logins++
					return &fakeSession{}, nil
				},
			})

			assert.Equal(t, tc.want, code)
			assert.Equal(t, 0, logins)
			assert.NotContains(t, console.String(), "Processing Complete")
		})
	}
}

func TestMainHelpPrintsDescription(t *testing.T) {
	var console bytes.Buffer
	code := Main(context.Background(), Script{Def: testDef}, Options{
		Args:    []string{"-h"},
		Source:  &params.CLISource{Def: testDef, Out: &console},
		Console: &console,
	})

	assert.Equal(t, fault.ExitOK, code)
	assert.Contains(t, console.String(), testDef.Description)
}

func TestMainHelpWithMissingEnvironmentFile(t *testing.T) {
	t.Setenv(params.EnvFile, filepath.Join(t.TempDir(), "missing.env"))

	var console bytes.Buffer
	code := Main(context.Background(), Script{Def: testDef}, Options{
		Args:    []string{"-h"},
		Source:  &params.CLISource{Def: testDef, Out: &console},
		Console: &console,
	})

	assert.Equal(t, fault.ExitOK, code)
	assert.NotContains(t, console.String(), "environment file")
}

func TestMainDeveloperModeIgnoresArgs(t *testing.T) {
	srv := fostest.New(t)
	var console bytes.Buffer

	code := Main(context.Background(), Script{Def: testDef}, Options{
		Args:    []string{"-ip", "192.0.2.1", "-id", "nobody"},
		Source:  params.NewSource(testDef, true, constants(srv.Host())),
		Console: &console,
	})

	assert.Equal(t, fault.ExitOK, code)
	assert.Equal(t, 1, srv.Logins())
	assert.Equal(t, 1, srv.Logouts())
}

func newTestContext(t *testing.T) (*RunContext, *test.Hook) {
	t.Helper()
	sink := log.Open(log.Config{NoLog: true, Suppress: true})
	hook := test.NewLocal(sink.Logger())
	return &RunContext{Log: sink, Session: &fakeSession{}}, hook
}

func TestBatch(t *testing.T) {
	unauthorized := &fosapi.APIError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}

	testCases := map[string]struct {
		failures map[int]error
		wantCode fault.ExitCode
		wantRun  []int
	}{
		"all succeed": {
			wantCode: fault.ExitOK,
			wantRun:  []int{1, 2, 3, 4},
		},
		"one fails, all run": {
			failures: map[int]error{2: errors.New("port move failed")},
			wantCode: fault.ExitActionFailed,
			wantRun:  []int{1, 2, 3, 4},
		},
		"unexpected outranks action": {
			failures: map[int]error{
				1: fault.Action(nil, "no"),
				3: fault.Unexpected(errors.New("nil map"), "bug"),
			},
			wantCode: fault.ExitUnexpected,
			wantRun:  []int{1, 2, 3, 4},
		},
		"expired session stops": {
			failures: map[int]error{2: unauthorized},
			wantCode: fault.ExitSession,
			wantRun:  []int{1, 2},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			rc, hook := newTestContext(t)
			var ran []int
			err := Batch(context.Background(), rc, []int{1, 2, 3, 4}, FIDName,
				func(_ context.Context, fid int) error {
					ran = append(ran, fid)
					return tc.failures[fid]
				})

			assert.Equal(t, tc.wantCode, fault.ExitCodeFor(err))
			assert.Equal(t, tc.wantRun, ran)
			failed := 0
			for _, e := range hook.AllEntries() {
				if e.Level <= logrus.WarnLevel {
					failed++
				}
			}
			assert.Equal(t, len(tc.failures), failed)
		})
	}
}

func TestBatchReportsFailedTargets(t *testing.T) {
	rc, _ := newTestContext(t)
	err := Batch(context.Background(), rc, []int{10, 20, 30}, FIDName,
		func(_ context.Context, fid int) error {
			if fid != 20 {
				return fault.Action(nil, "ports not moved")
			}
			return nil
		})

	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrAction))
	assert.Equal(t, "2 of 3 failed: FID 10, FID 30", err.Error())
}

func TestMainPrepare(t *testing.T) {
	testCases := map[string]struct {
		prepare    func(context.Context, *RunContext) error
		want       fault.ExitCode
		wantLogins int
	}{
		"continue": {
			prepare:    func(context.Context, *RunContext) error { return nil },
			want:       fault.ExitOK,
			wantLogins: 1,
		},
		"stop": {
			prepare: func(_ context.Context, rc *RunContext) error {
				rc.Log.Echo("Action  Description")
				return ErrStop
			},
			want: fault.ExitOK,
		},
		"bad input": {
			prepare: func(context.Context, *RunContext) error { return fault.Usage("file not found: ports.txt") },
			want:    fault.ExitUsage,
		},
		"panic": {
			prepare: func(context.Context, *RunContext) error { panic("nil map") },
			want:    fault.ExitUnexpected,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			logins := 0
			sess := &fakeSession{}
			opts := fakeOptions(sess, &bytes.Buffer{})
			opts.Login = func(context.Context, fosapi.Config) (fosapi.Session, error) {
				logins++
				return sess, nil
			}

			code := Main(context.Background(), Script{Def: testDef, Prepare: tc.prepare}, opts)

			assert.Equal(t, tc.want, code)
			assert.Equal(t, tc.wantLogins, logins)
			assert.Equal(t, tc.wantLogins, sess.logouts)
		})
	}
}
