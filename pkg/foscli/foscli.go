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

// Package foscli runs FOS CLI commands over SSH for the few settings the REST
// API does not expose.
package foscli

//go:generate mockgen -destination=mock_foscli/mock_executor.go -package=mock_foscli . Executor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
)

const (
	DefaultPort    = "22"
	DefaultTimeout = 15 * time.Second
	// DefaultWait is how long the REST API takes to see changes made by CLI
	// commands.
	DefaultWait = 10 * time.Second
)

// ErrNotConnected matches the error of every Run after the SSH connection
// could not be made.
var ErrNotConnected = errors.New("no CLI connection")

type connectError struct {
	err error
}

func (e *connectError) Error() string        { return e.err.Error() }
func (e *connectError) Unwrap() error        { return e.err }
func (e *connectError) Is(target error) bool { return target == ErrNotConnected }

// Executor runs a CLI command in the context of a logical switch.
type Executor interface {
	Run(ctx context.Context, fid int, cmd string) (string, error)
	Close() error
}

// Config holds the SSH connection settings.
type Config struct {
	Host       string
	Port       string
	Credential credential.Credential
	Timeout    time.Duration
	Debug      bool
	Log        *log.Entry
}

// Client is an Executor backed by an SSH connection. The connection is made
// on the first Run. A failed login is remembered and returned by every later
// Run without retrying.
type Client struct {
	cfg Config

	mu    sync.Mutex
	conn  *ssh.Client
	fault *connectError
}

var _ Executor = (*Client)(nil)

// New returns a Client. Nothing is dialed until the first Run.
func New(cfg Config) *Client {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Log == nil {
		cfg.Log = log.NewEntry(log.StandardLogger())
	}
	return &Client{cfg: cfg}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// Command wraps cmd in fosexec so it runs against fid. cmd is escaped for the
// double quoted -cmd argument.
func Command(fid int, cmd string) string {
	return fmt.Sprintf(`fosexec --fid %d -cmd "%s"`, fid, quoteEscaper.Replace(cmd))
}

// CLIPort converts a REST port name to CLI notation. Fixed port switches use
// the bare port number, so "0/5" becomes "5".
func CLIPort(port string) string {
	if slot, p, ok := strings.Cut(port, "/"); ok && slot == "0" {
		return p
	}
	return port
}

// Wait pauses so the REST API and the CLI can sync up.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes cmd on fid and returns its combined output.
func (c *Client) Run(ctx context.Context, fid int, cmd string) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	full := Command(fid, cmd)
	if c.cfg.Debug {
		c.cfg.Log.Debugf("CLI send: %s", full)
	}

	session, err := conn.NewSession()
	if err != nil {
		return "", errors.Wrapf(err, "open SSH session for %q", cmd)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out

	done := make(chan error, 1)
	go func() { done <- session.Run(full) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return out.String(), ctx.Err()
	case err := <-done:
		if c.cfg.Debug {
			c.cfg.Log.Debugf("CLI response: %s", out.String())
		}
		if err != nil {
			return out.String(), errors.Wrapf(err, "run %q", cmd)
		}
		return out.String(), nil
	}
}

// Close closes the SSH connection if one was made.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}
	if c.fault != nil {
		return nil, c.fault
	}

	masked := util.MaskIPAddr(c.cfg.Host, true)
	addr := net.JoinHostPort(c.cfg.Host, c.cfg.Port)
	sshConfig := &ssh.ClientConfig{
		User:            c.cfg.Credential.User,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Credential.Password.Value)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         c.cfg.Timeout,
	}

	dialer := &net.Dialer{Timeout: c.cfg.Timeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.fault = &connectError{err: errors.Wrapf(err, "SSH connect to %s", masked)}
		return nil, c.fault
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, sshConfig)
	if err != nil {
		rawConn.Close()
		c.fault = &connectError{err: errors.Wrapf(err, "SSH login to %s", masked)}
		return nil, c.fault
	}

	c.conn = ssh.NewClient(clientConn, chans, reqs)
	c.cfg.Log.Debugf("SSH login to %s succeeded", masked)
	return c.conn, nil
}
