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
package scripts

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidia/fos-rest-examples/internal/fostest"
	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/foscli"
	"github.com/nvidia/fos-rest-examples/pkg/foscli/mock_foscli"
)

func portSwitch() []fostest.LogicalSwitch {
	return []fostest.LogicalSwitch{
		{FID: 128, Default: true, Ports: []string{"0/0", "0/1", "0/2", "0/3", "3/0", "3/1"}},
	}
}

func TestPortConfigActions(t *testing.T) {
	testCases := map[string]struct {
		ports     string
		actions   string
		wantPorts []string
		wantLeaf  string
		wantValue interface{}
	}{
		"disable a range": {
			ports:     "0/1-2,0/9",
			actions:   "disable",
			wantPorts: []string{"0/1", "0/2"},
			wantLeaf:  "is-enabled-state",
			wantValue: false,
		},
		"persistent enable all": {
			ports:     "*",
			actions:   "p_enable",
			wantPorts: []string{"0/0", "0/1", "0/2", "0/3", "3/0", "3/1"},
			wantLeaf:  "persistent-disable",
			wantValue: false,
		},
		"bare port numbers are slot 0": {
			ports:     "2,3",
			actions:   "eport_disable",
			wantPorts: []string{"0/2", "0/3"},
			wantLeaf:  "e-port-disable",
			wantValue: true,
		},
		"whole slot": {
			ports:     "3/*",
			actions:   "nport_enable",
			wantPorts: []string{"3/0", "3/1"},
			wantLeaf:  "n-port-enabled",
			wantValue: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.SetChassis(true, portSwitch()...)

			code := h.run(PortConfig(), "-fid", "128", "-p", tc.ports, "-a", tc.actions)

			require.Equal(t, fault.ExitOK, code, h.console.String())
			patches := h.srv.Matching(http.MethodPatch, fosapi.URIFibreChannelPort)
			require.Len(t, patches, 1)
			assert.Equal(t, 128, patches[0].FID)
			assert.Equal(t, tc.wantPorts, portNamesIn(t, patches[0], "fibrechannel"))
			entry := decodeBody(t, patches[0])["fibrechannel"].([]interface{})[0].(map[string]interface{})
			assert.Equal(t, tc.wantValue, entry[tc.wantLeaf])
		})
	}
}

func TestPortConfigStopsAtFirstFailure(t *testing.T) {
	h := newHarness(t)
	h.srv.SetChassis(true, portSwitch()...)
	h.srv.FailWrites(http.MethodPatch, fosapi.URIFibreChannelPort, fostest.Error(http.StatusBadRequest, "Port is locked"))

	code := h.run(PortConfig(), "-fid", "128", "-p", "0/0", "-a", "disable,default,enable")

	assert.Equal(t, fault.ExitActionFailed, code)
	assert.Len(t, h.srv.Matching(http.MethodPatch, fosapi.URIFibreChannelPort), 1)
	assert.Contains(t, h.console.String(), "action disable")
	assert.Equal(t, 1, h.srv.Logouts())
}

func TestPortConfigName(t *testing.T) {
	h := newHarness(t)
	h.srv.SetChassis(true, portSwitch()...)

	code := h.run(PortConfig(), "-fid", "128", "-p", "0/1:host_a,3/1:array_b,0/7:missing", "-a", "name")

	require.Equal(t, fault.ExitOK, code)
	patches := h.srv.Matching(http.MethodPatch, fosapi.URIFibreChannelPort)
	require.Len(t, patches, 1)
	var body struct {
		FibreChannel []struct {
			Name             string `json:"name"`
			UserFriendlyName string `json:"user-friendly-name"`
		} `json:"fibrechannel"`
	}
	require.NoError(t, patches[0].Decode(&body))
	require.Len(t, body.FibreChannel, 2)
	assert.Equal(t, "0/1", body.FibreChannel[0].Name)
	assert.Equal(t, "host_a", body.FibreChannel[0].UserFriendlyName)
	assert.Equal(t, "array_b", body.FibreChannel[1].UserFriendlyName)
}

func TestPortConfigPortFile(t *testing.T) {
	h := newHarness(t)
	h.srv.SetChassis(true, portSwitch()...)
	path := filepath.Join(t.TempDir(), "ports.txt")
	require.NoError(t, os.WriteFile(path, []byte("# uplinks\n0/0\n\n3/0-1,0/8\n"), 0o644))

	code := h.run(PortConfig(), "-fid", "128", "-p", path, "-a", "clear")

	require.Equal(t, fault.ExitOK, code)
	stats := h.srv.Matching(http.MethodPatch, "running/brocade-interface/fibrechannel-statistics")
	require.Len(t, stats, 1)
	assert.Equal(t, []string{"0/0", "3/0", "3/1"}, portNamesIn(t, stats[0], "fibrechannel-statistics"))
}

func TestPortConfigNoNetwork(t *testing.T) {
	testCases := map[string]struct {
		args     []string
		wantCode fault.ExitCode
		wantOut  string
	}{
		"help": {
			args:     []string{"-fid", "128", "-a", "help"},
			wantCode: fault.ExitOK,
			wantOut:  "eport_disable",
		},
		"unknown action": {
			args:     []string{"-fid", "128", "-p", "*", "-a", "enable,reboot"},
			wantCode: fault.ExitUsage,
			wantOut:  "invalid action: reboot",
		},
		"cli without a command": {
			args:     []string{"-fid", "128", "-p", "*", "-a", "cli"},
			wantCode: fault.ExitUsage,
			wantOut:  "-cli was not specified",
		},
		"missing port file": {
			args:     []string{"-fid", "128", "-p", "nope.txt", "-a", "enable"},
			wantCode: fault.ExitUsage,
			wantOut:  "read port file",
		},
		"missing ports": {
			args:     []string{"-fid", "128", "-a", "enable"},
			wantCode: fault.ExitUsage,
			wantOut:  "-p is required",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)

			code := h.run(PortConfig(), tc.args...)

			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, 0, h.srv.Calls())
			assert.Contains(t, h.console.String(), tc.wantOut)
		})
	}
}

func TestPortConfigNoMatchingPorts(t *testing.T) {
	h := newHarness(t)
	h.srv.SetChassis(true, portSwitch()...)

	code := h.run(PortConfig(), "-fid", "128", "-p", "5/0-3", "-a", "enable")

	assert.Equal(t, fault.ExitActionFailed, code)
	assert.Empty(t, h.srv.Matching(http.MethodPatch, fosapi.URIFibreChannelPort))
	assert.Contains(t, h.console.String(), "no matching ports")
}

func TestPortConfigCLI(t *testing.T) {
	ctrl := gomock.NewController(t)
	cli := mock_foscli.NewMockExecutor(ctrl)
	gomock.InOrder(
		cli.EXPECT().Run(gomock.Any(), 128, "portcfgspeed 1 16").Return("", nil),
		cli.EXPECT().Run(gomock.Any(), 128, "portcfgspeed 3/0 16").Return("", errors.New("port busy")),
		cli.EXPECT().Close().Return(nil),
	)

	h := newHarness(t)
	h.cli = cli
	h.srv.SetChassis(true, portSwitch()...)

	code := h.run(PortConfig(), "-fid", "128", "-p", "0/1,3/0", "-a", "cli", "-cli", "portcfgspeed $p 16")

	assert.Equal(t, fault.ExitActionFailed, code)
	assert.Contains(t, h.console.String(), "portcfgspeed 3/0 16: port busy")
	assert.Equal(t, 1, h.srv.Logouts())
}

func TestPortConfigCLINotConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	cli := mock_foscli.NewMockExecutor(ctrl)
	gomock.InOrder(
		cli.EXPECT().Run(gomock.Any(), 128, "portcfgspeed 1 16").
			Return("", errors.Wrap(foscli.ErrNotConnected, "SSH connect to xxx.xxx.xxx.1")),
		cli.EXPECT().Close().Return(nil),
	)

	h := newHarness(t)
	h.cli = cli
	h.srv.SetChassis(true, portSwitch()...)

	code := h.run(PortConfig(), "-fid", "128", "-p", "0/1,3/0", "-a", "cli", "-cli", "portcfgspeed $p 16")

	assert.Equal(t, fault.ExitActionFailed, code)
	assert.Contains(t, h.console.String(), "CLI commands not run")
	assert.Equal(t, 1, h.srv.Logouts())
}
