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
package fosapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidia/fos-rest-examples/internal/fostest"
	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
)

func testConfig(srv *fostest.Server) Config {
	return Config{
		Host:                   srv.Host(),
		Credential:             credential.New(fostest.User, fostest.Password),
		Security:               SecurityNone,
		Timeout:                5 * time.Second,
		MaxRetries:             2,
		ServiceUnavailableWait: time.Millisecond,
		FabricBusyWait:         time.Millisecond,
	}
}

func login(t *testing.T, srv *fostest.Server) *Client {
	t.Helper()
	c, err := Login(context.Background(), testConfig(srv))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Logout(context.Background()) })
	return c
}

func TestLoginLogout(t *testing.T) {
	srv := fostest.New(t)

	c, err := Login(context.Background(), testConfig(srv))
	require.NoError(t, err)
	assert.Equal(t, fostest.Token, c.token)
	assert.Equal(t, 1, srv.Logins())

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, 1, srv.Logouts())

	// A second logout is a no-op.
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, 1, srv.Logouts())

	_, err = c.Get(context.Background(), URIChassis, 0)
	assert.Error(t, err)
}

func TestLoginFailures(t *testing.T) {
	testCases := map[string]struct {
		cfg   func(Config) Config
		setup func(*fostest.Server)
	}{
		"bad password": {
			cfg: func(c Config) Config {
				c.Credential = credential.New(fostest.User, "wrong")
				return c
			},
		},
		"switch refuses": {
			setup: func(s *fostest.Server) { s.FailLogin(http.StatusForbidden) },
		},
		"missing address": {
			cfg: func(c Config) Config {
				c.Host = ""
				return c
			},
		},
		"missing password": {
			cfg: func(c Config) Config {
				c.Credential = credential.New(fostest.User, "")
				return c
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			srv := fostest.New(t)
			if tc.setup != nil {
				tc.setup(srv)
			}
			cfg := testConfig(srv)
			if tc.cfg != nil {
				cfg = tc.cfg(cfg)
			}
			c, err := Login(context.Background(), cfg)
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestGetNormalization(t *testing.T) {
	testCases := map[string]struct {
		resp    fostest.Response
		want    string
		wantErr bool
	}{
		"unwraps Response": {
			resp: fostest.OK(map[string]interface{}{"chassis": map[string]interface{}{"vf-enabled": true}}),
			want: `{"chassis":{"vf-enabled":true}}`,
		},
		"empty body": {
			resp: fostest.Response{Status: http.StatusNoContent},
			want: `{}`,
		},
		"not found": {
			resp: fostest.Response{Status: http.StatusNotFound},
			want: `{}`,
		},
		"empty FDMI database": {
			resp: fostest.Error(http.StatusBadRequest, "No entries in the FDMI database"),
			want: `{}`,
		},
		"not supported": {
			resp: fostest.Error(http.StatusBadRequest, "Not supported on this platform"),
			want: `{}`,
		},
		"other bad request": {
			resp:    fostest.Error(http.StatusBadRequest, "Invalid URI"),
			wantErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			srv := fostest.New(t)
			srv.Handle(http.MethodGet, URIChassis, func(fostest.Request) fostest.Response { return tc.resp })
			c := login(t, srv)

			got, err := c.Get(context.Background(), URIChassis, 0)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsStatus(err, http.StatusBadRequest))
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestSendPatchNoChange(t *testing.T) {
	testCases := map[string]struct {
		method  string
		msg     string
		wantErr bool
	}{
		"patch no change":         {method: http.MethodPatch, msg: "No Change in Configuration"},
		"patch same":              {method: http.MethodPatch, msg: "Same configuration"},
		"post no change is error": {method: http.MethodPost, msg: "No Change in Configuration", wantErr: true},
		"patch real error":        {method: http.MethodPatch, msg: "Invalid port", wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			srv := fostest.New(t)
			srv.FailWrites(tc.method, URIFibreChannelPort, fostest.Error(http.StatusBadRequest, tc.msg))
			c := login(t, srv)

			err := c.Send(context.Background(), tc.method, URIFibreChannelPort, 1, map[string]interface{}{})
			if tc.wantErr {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, []string{tc.msg}, apiErr.Messages)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRetries(t *testing.T) {
	testCases := map[string]struct {
		failures  int32
		resp      fostest.Response
		wantCalls int
		wantErr   bool
	}{
		"service unavailable then ok": {
			failures:  2,
			resp:      fostest.Response{Status: http.StatusServiceUnavailable},
			wantCalls: 3,
		},
		"fabric busy then ok": {
			failures:  1,
			resp:      fostest.Error(http.StatusBadRequest, "The Fabric is busy, try again"),
			wantCalls: 2,
		},
		"gives up after max retries": {
			failures:  100,
			resp:      fostest.Response{Status: http.StatusServiceUnavailable},
			wantCalls: 3,
			wantErr:   true,
		},
		"other errors are not retried": {
			failures:  100,
			resp:      fostest.Error(http.StatusBadRequest, "Invalid value"),
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			srv := fostest.New(t)
			var calls int32
			srv.Handle(http.MethodPatch, URISwitchConfiguration, func(fostest.Request) fostest.Response {
				if atomic.AddInt32(&calls, 1) <= tc.failures {
					return tc.resp
				}
				return fostest.Response{Status: http.StatusNoContent}
			})
			c := login(t, srv)

			err := SwitchConfiguration(context.Background(), c, 5, map[string]interface{}{"xisl-enabled": true})
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, srv.Matching(http.MethodPatch, URISwitchConfiguration), tc.wantCalls)
		})
	}
}

func TestRequestFIDAndBody(t *testing.T) {
	srv := fostest.New(t)
	c := login(t, srv)

	require.NoError(t, c.Send(context.Background(), http.MethodPatch, "brocade-interface/fibrechannel", 7,
		map[string]interface{}{"fibrechannel": []map[string]interface{}{{"name": "0/1"}}}))

	reqs := srv.Matching(http.MethodPatch, URIFibreChannelPort)
	require.Len(t, reqs, 1)
	assert.Equal(t, 7, reqs[0].FID)
	assert.JSONEq(t, `{"fibrechannel":[{"name":"0/1"}]}`, string(reqs[0].Body))
}

func TestInvalidFIDSendsNothing(t *testing.T) {
	srv := fostest.New(t)
	c := login(t, srv)

	for _, fid := range []int{-1, 129} {
		_, err := c.Get(context.Background(), URIFibreChannelPort, fid)
		var vfErr *VirtualFabricIDError
		require.True(t, errors.As(err, &vfErr))
		assert.Equal(t, fid, vfErr.FID)
	}
	assert.Empty(t, srv.Requests())
}

func TestUnwrapResponse(t *testing.T) {
	got, err := unwrapResponse([]byte(`{"Response":null}`))
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("{}"), got)

	_, err = unwrapResponse([]byte(`not json`))
	assert.ErrorIs(t, err, ErrUnexpectedData)
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "http", Scheme(SecurityNone))
	assert.Equal(t, "https", Scheme(SecuritySelf))
	assert.Equal(t, "https", Scheme(SecurityCA))
}
