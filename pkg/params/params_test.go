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
package params

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"

	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
)

var testDef = Definition{
	Name:        "port_config",
	Description: "Configure ports.",
	FIDRequired: true,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "p", Usage: "Ports"},
		&cli.BoolFlag{Name: "best", Usage: "Best effort"},
		&cli.IntFlag{Name: "did", Usage: "Domain ID"},
	},
	Validate: func(p *Params) error {
		if p.String("p") == "" {
			return errors.New("-p is required")
		}
		return nil
	},
}

// clearEnv keeps the developer's environment out of the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvFile, EnvIP, EnvUser, EnvPassword, EnvSecurity, EnvFID, EnvLog} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func TestCLISourceResolve(t *testing.T) {
	clearEnv(t)
	src := &CLISource{Def: testDef, Out: &bytes.Buffer{}}

	p, err := src.Resolve([]string{
		"-ip", "10.144.72.15", "-id", "admin", "-pw", "secret", "-s", "none",
		"-fid", "10", "-p", "0/1-4", "-best", "-did", "12", "-d", "-log", "_logs", "-nl", "-sup",
	})
	require.NoError(t, err)

	assert.Equal(t, "10.144.72.15", p.IP)
	assert.Equal(t, credential.New("admin", "secret"), p.Credential())
	assert.Equal(t, "none", p.Security)
	assert.Equal(t, "10", p.FID)
	assert.True(t, p.Debug)
	assert.Equal(t, "_logs", p.LogFolder)
	assert.True(t, p.NoLog)
	assert.True(t, p.Suppress)
	assert.Equal(t, "0/1-4", p.String("p"))
	assert.True(t, p.Bool("best"))
	did, err := p.Int("did")
	require.NoError(t, err)
	assert.Equal(t, 12, did)
}

func TestCLISourceUsageErrors(t *testing.T) {
	testCases := map[string]struct {
		args    []string
		wantMsg string
	}{
		"missing ip": {
			args:    []string{"-id", "admin", "-pw", "pw", "-fid", "1", "-p", "1"},
			wantMsg: "-ip is required",
		},
		"missing password": {
			args:    []string{"-ip", "10.0.0.1", "-id", "admin", "-fid", "1", "-p", "1"},
			wantMsg: "-pw is required",
		},
		"missing fid": {
			args:    []string{"-ip", "10.0.0.1", "-id", "admin", "-pw", "pw", "-p", "1"},
			wantMsg: "-fid is required",
		},
		"bad security": {
			args:    []string{"-ip", "10.0.0.1", "-id", "admin", "-pw", "pw", "-fid", "1", "-p", "1", "-s", "tls"},
			wantMsg: "-s must be",
		},
		"bad address": {
			args:    []string{"-ip", "not a host!", "-id", "admin", "-pw", "pw", "-fid", "1", "-p", "1"},
			wantMsg: "IP",
		},
		"script rule": {
			args:    []string{"-ip", "10.0.0.1", "-id", "admin", "-pw", "pw", "-fid", "1"},
			wantMsg: "-p is required",
		},
		"unknown flag": {
			args:    []string{"-ip", "10.0.0.1", "-bogus"},
			wantMsg: "bogus",
		},
		"stray argument": {
			args:    []string{"-ip", "10.0.0.1", "-id", "admin", "-pw", "pw", "-fid", "1", "-p", "1", "extra"},
			wantMsg: "unexpected arguments",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			src := &CLISource{Def: testDef, Out: &bytes.Buffer{}}

			p, err := src.Resolve(tc.args)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, fault.ErrUsage)
			assert.Equal(t, fault.ExitUsage, fault.ExitCodeFor(err))
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestCLISourceHelp(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		t.Run(flag, func(t *testing.T) {
			clearEnv(t)
			var out bytes.Buffer
			src := &CLISource{Def: testDef, Out: &out}

			_, err := src.Resolve([]string{flag})
			assert.ErrorIs(t, err, ErrHelp)
			assert.Contains(t, out.String(), "Configure ports.")
			assert.Contains(t, out.String(), "fid")
		})
	}
}

func TestCLISourceEnvironment(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "switch.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FOS_IP=10.1.1.1\nFOS_ID=envuser\nFOS_PW=envpw\n"), 0o600))
	t.Setenv(EnvFile, envFile)
	t.Setenv(EnvFID, "7")

	src := &CLISource{Def: testDef, Out: &bytes.Buffer{}}
	p, err := src.Resolve([]string{"-id", "flaguser", "-p", "1"})
	require.NoError(t, err)

	assert.Equal(t, "10.1.1.1", p.IP)
	assert.Equal(t, "flaguser", p.User)
	assert.Equal(t, "envpw", p.Password.Value)
	assert.Equal(t, "7", p.FID)
	assert.Equal(t, "self", p.Security)
}

func TestCLISourceBadEnvironmentFile(t *testing.T) {
	testCases := map[string]struct {
		contents string
	}{
		"missing file":       {},
		"unterminated quote": {contents: "FOS_IP=\"10.1.1.1\n"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			envFile := filepath.Join(t.TempDir(), "switch.env")
			if tc.contents != "" {
				require.NoError(t, os.WriteFile(envFile, []byte(tc.contents), 0o600))
			}
			t.Setenv(EnvFile, envFile)
			src := &CLISource{Def: testDef, Out: &bytes.Buffer{}}

			_, err := src.Resolve([]string{"-h"})
			assert.ErrorIs(t, err, ErrHelp)

			_, err = src.Resolve([]string{"-ip", "10.0.0.1", "-id", "admin", "-pw", "pw", "-fid", "1", "-p", "1"})
			assert.Equal(t, fault.ExitUsage, fault.ExitCodeFor(err))
			assert.ErrorContains(t, err, "environment file")
		})
	}
}

func TestCLISourcePrompt(t *testing.T) {
	clearEnv(t)
	src := &CLISource{
		Def:    testDef,
		Out:    &bytes.Buffer{},
		Prompt: func() (string, error) { return "typed", nil },
	}

	p, err := src.Resolve([]string{"-ip", "10.0.0.1", "-id", "admin", "-fid", "1", "-p", "1"})
	require.NoError(t, err)
	assert.Equal(t, "typed", p.Password.Value)
}

func TestConstantSourceIgnoresArgs(t *testing.T) {
	src := NewSource(testDef, true, Params{
		IP:       "10.144.72.15",
		User:     "admin",
		Password: credential.Secret{Value: "pw"},
		Security: "CA",
		FID:      "128",
		Options:  map[string]interface{}{"p": "*"},
	})

	p, err := src.Resolve([]string{"-h", "-ip", "1.2.3.4", "-bogus"})
	require.NoError(t, err)
	assert.Equal(t, "10.144.72.15", p.IP)
	assert.Equal(t, "CA", p.Security)
	assert.Equal(t, "*", p.String("p"))

	// The returned options are a copy.
	p.Options["p"] = "changed"
	again, err := src.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "*", again.String("p"))
}

func TestConstantSourceValidates(t *testing.T) {
	src := NewSource(testDef, true, Params{IP: "10.144.72.15", User: "admin"})
	_, err := src.Resolve(nil)
	assert.ErrorIs(t, err, fault.ErrUsage)
}

func TestFIDParsing(t *testing.T) {
	testCases := map[string]struct {
		fid      string
		wantOne  int
		oneErr   bool
		wantList []int
		listErr  bool
	}{
		"single":       {fid: "10", wantOne: 10, wantList: []int{10}},
		"range list":   {fid: "1-3,9", oneErr: true, wantList: []int{1, 2, 3, 9}},
		"out of range": {fid: "129", oneErr: true, listErr: true},
		"huge range":   {fid: "1-2000000000", oneErr: true, listErr: true},
		"not a number": {fid: "abc", oneErr: true, listErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p := &Params{FID: tc.fid}

			one, err := p.SingleFID()
			if tc.oneErr {
				assert.ErrorIs(t, err, fault.ErrUsage)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantOne, one)
			}

			list, err := p.FIDList()
			if tc.listErr {
				assert.ErrorIs(t, err, fault.ErrUsage)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantList, list)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	p := &Params{Options: map[string]interface{}{
		"csv":   "a,b",
		"empty": "",
		"list":  []string{"x", "y"},
	}}
	assert.Equal(t, []string{"a", "b"}, p.Strings("csv"))
	assert.Nil(t, p.Strings("empty"))
	assert.Equal(t, []string{"x", "y"}, p.Strings("list"))
	assert.Nil(t, p.Strings("missing"))
}
