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

// Package fosapi is a small client for the Brocade FOS REST API: login and
// logout, GET and write requests, and the port, switch, zoning and MAPS
// operations built on them.
package fosapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
)

// MediaType is used for both Accept and Content-Type.
const MediaType = "application/yang-data+json"

// Security modes, the -s option.
const (
	SecuritySelf = "self" // HTTPS with a self-signed certificate
	SecurityCA   = "CA"   // HTTPS with a verified certificate
	SecurityNone = "none" // HTTP
)

const (
	DefaultTimeout                = 60 * time.Second
	DefaultMaxRetries             = 5
	DefaultServiceUnavailableWait = 4 * time.Second
	DefaultFabricBusyWait         = 10 * time.Second
)

// Session is the authenticated handle every operation takes. Content is
// marshalled to JSON. Get returns the object inside the "Response" wrapper.
type Session interface {
	Get(ctx context.Context, uri string, fid int) (json.RawMessage, error)
	Send(ctx context.Context, method, uri string, fid int, content interface{}) error
	Logout(ctx context.Context) error
}

// Config holds what Login needs to reach a switch.
type Config struct {
	Host       string // IP address or host name, optionally with :port
	Credential credential.Credential
	Security   string

	Timeout                time.Duration
	MaxRetries             int
	ServiceUnavailableWait time.Duration
	FabricBusyWait         time.Duration

	// TLSConfig overrides the TLS settings derived from Security.
	TLSConfig *tls.Config

	Debug bool
	Log   *log.Entry
}

func (cfg Config) withDefaults() Config {
	if cfg.Security == "" {
		cfg.Security = SecuritySelf
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.ServiceUnavailableWait == 0 {
		cfg.ServiceUnavailableWait = DefaultServiceUnavailableWait
	}
	if cfg.FabricBusyWait == 0 {
		cfg.FabricBusyWait = DefaultFabricBusyWait
	}
	if cfg.Log == nil {
		l := log.New()
		l.SetOutput(io.Discard)
		cfg.Log = log.NewEntry(l)
	}
	return cfg
}

// Scheme returns the URL scheme for a security mode.
func Scheme(security string) string {
	if strings.EqualFold(security, SecurityNone) {
		return "http"
	}
	return "https"
}

// Client is a logged in FOS REST session.
type Client struct {
	cfg   Config
	rc    *resty.Client
	token string
	log   *log.Entry
}

var _ Session = (*Client)(nil)

// Login opens a REST session on the switch.
func Login(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("login: missing switch address")
	}
	if !cfg.Credential.IsValid() {
		return nil, errors.New("login: missing user ID or password")
	}
	masked := util.MaskIPAddr(cfg.Host, true)

	rc := resty.New().
		SetBaseURL(Scheme(cfg.Security)+"://"+cfg.Host).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", MediaType).
		SetHeader("Content-Type", MediaType)
	switch {
	case cfg.TLSConfig != nil:
		rc.SetTLSClientConfig(cfg.TLSConfig)
	case strings.EqualFold(cfg.Security, SecuritySelf):
		rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}

	c := &Client{cfg: cfg, rc: rc, log: cfg.Log}

	c.log.Debugf("POST %slogin to %s", restPrefix, masked)
	resp, err := rc.R().
		SetContext(ctx).
		SetBasicAuth(cfg.Credential.User, cfg.Credential.Password.Value).
		Post(restPrefix + "login")
	if err != nil {
		return nil, errors.Wrapf(err, "login to %s", masked)
	}
	if resp.IsError() {
		return nil, errors.Wrapf(c.apiError(http.MethodPost, "login", resp), "login to %s", masked)
	}

	c.token = resp.Header().Get("Authorization")
	if c.token == "" {
		return nil, fmt.Errorf("login to %s: response has no Authorization header", masked)
	}
	return c, nil
}

// Logout closes the session. The token is discarded even if the switch
// rejects the request.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	token := c.token
	c.token = ""

	c.log.Debugf("POST %slogout", restPrefix)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", token).
		Post(restPrefix + "logout")
	if err != nil {
		return errors.Wrap(err, "logout")
	}
	if resp.IsError() {
		return c.apiError(http.MethodPost, "logout", resp)
	}
	return nil
}

// Get reads a resource. Responses FOS uses to mean "nothing here" come back
// as an empty object rather than an error.
func (c *Client) Get(ctx context.Context, uri string, fid int) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, uri, fid, nil)
	if err != nil {
		if isEmptyResult(err) {
			return json.RawMessage("{}"), nil
		}
		return nil, err
	}
	return unwrapResponse(body)
}

// Send issues a PATCH, POST, PUT or DELETE. A PATCH that FOS rejects because
// nothing changed is a success.
func (c *Client) Send(ctx context.Context, method, uri string, fid int, content interface{}) error {
	_, err := c.do(ctx, method, uri, fid, content)
	if err != nil && method == http.MethodPatch && isNoChange(err) {
		c.log.Debugf("%s %s: no change", method, uri)
		return nil
	}
	return err
}

func (c *Client) do(ctx context.Context, method, uri string, fid int, content interface{}) ([]byte, error) {
	if c.token == "" {
		return nil, errors.Errorf("%s %s: not logged in", method, uri)
	}
	if fid != 0 {
		if err := ValidateFID(fid); err != nil {
			return nil, err
		}
	}
	uri = NormalizeURI(uri)

	var body []byte
	err := retry.Do(
		func() error {
			req := c.rc.R().
				SetContext(ctx).
				SetHeader("Authorization", c.token)
			if fid != 0 {
				req.SetQueryParam(vfIDParam, strconv.Itoa(fid))
			}
			if content != nil {
				req.SetBody(content)
			}
			c.traceRequest(method, uri, fid, content)

			resp, err := req.Execute(method, restPrefix+uri)
			if err != nil {
				return errors.Wrapf(err, "%s %s", method, uri)
			}
			if c.cfg.Debug {
				c.log.Debugf("Response %s: %s", resp.Status(), util.PrettyJSON(resp.Body()))
			}
			if resp.IsError() {
				return c.apiError(method, uri, resp)
			}
			body = resp.Body()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.cfg.MaxRetries)+1),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return c.retryWait(err) > 0 }),
		retry.DelayType(func(_ uint, err error, _ *retry.Config) time.Duration { return c.retryWait(err) }),
		retry.OnRetry(func(n uint, err error) {
			c.log.WithError(err).Warnf("%s %s: retry %d of %d", method, uri, n+1, c.cfg.MaxRetries)
		}),
	)
	return body, err
}

func (c *Client) traceRequest(method, uri string, fid int, content interface{}) {
	if !c.cfg.Debug {
		return
	}
	c.log.Debugf("%s %s%s fid=%d", method, restPrefix, uri, fid)
	if content != nil {
		if data, err := json.Marshal(content); err == nil {
			c.log.Debugf("Content: %s", util.PrettyJSON(data))
		}
	}
}

// retryWait returns how long to wait before retrying, or 0 if err is final.
func (c *Client) retryWait(err error) time.Duration {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return 0
	}
	switch {
	case apiErr.StatusCode == http.StatusServiceUnavailable:
		return c.cfg.ServiceUnavailableWait
	case apiErr.StatusCode == http.StatusBadRequest && apiErr.Contains("The Fabric is busy"):
		return c.cfg.FabricBusyWait
	default:
		return 0
	}
}

func (c *Client) apiError(method, uri string, resp *resty.Response) *APIError {
	return &APIError{
		Method:     method,
		URI:        uri,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Messages:   parseErrorMessages(resp.Body()),
	}
}

func isEmptyResult(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusNotFound:
		return strings.Contains(apiErr.Status, "Not Found")
	case http.StatusBadRequest:
		return apiErr.Contains("No entries in the FDMI database") ||
			apiErr.Contains("Not supported on this platform")
	default:
		return false
	}
}

func isNoChange(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusBadRequest &&
		(apiErr.Contains("No Change in Configuration") || apiErr.Contains("Same configuration"))
}

func unwrapResponse(body []byte) (json.RawMessage, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return json.RawMessage("{}"), nil
	}
	var wrapper struct {
		Response json.RawMessage `json:"Response"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, errors.Wrap(ErrUnexpectedData, err.Error())
	}
	if len(wrapper.Response) == 0 || string(wrapper.Response) == "null" {
		return json.RawMessage("{}"), nil
	}
	return wrapper.Response, nil
}

// decode unmarshals a Get result, reporting malformed data as
// ErrUnexpectedData.
func decode(data json.RawMessage, uri string, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(ErrUnexpectedData, "%s: %v", uri, err)
	}
	return nil
}
