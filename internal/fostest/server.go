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

// Package fostest is an in-process stand-in for the FOS REST API. It records
// every request and answers from canned responses.
package fostest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	User     = "admin"
	Password = "password"
	Token    = "Custom_Basic YWRtaW46eHh4OmFiYzEyMw=="
)

// Request is one recorded call, minus login and logout.
type Request struct {
	Method string
	URI    string // relative to /rest/
	FID    int
	Body   json.RawMessage
}

// Response is what a handler answers. Body is wrapped in {"Response": ...}
// unless the status is an error.
type Response struct {
	Status int
	Body   interface{}
}

// Error builds a FOS error response.
func Error(status int, msgs ...string) Response {
	items := make([]map[string]string, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, map[string]string{
			"error-type":    "application",
			"error-tag":     "invalid-value",
			"error-message": m,
		})
	}
	return Response{
		Status: status,
		Body:   map[string]interface{}{"errors": map[string]interface{}{"error": items}},
	}
}

// OK is a 200 with body.
func OK(body interface{}) Response {
	return Response{Status: http.StatusOK, Body: body}
}

// HandlerFunc answers a request.
type HandlerFunc func(r Request) Response

// Server is a fake switch.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	handlers    map[string]HandlerFunc
	requests    []Request
	logins      int
	logouts     int
	loginStatus int
	logoutFail  bool
}

// New starts a fake switch that is stopped when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{handlers: map[string]HandlerFunc{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Host is the address to log in to, with security "none".
func (s *Server) Host() string {
	return strings.TrimPrefix(s.URL, "http://")
}

// Handle registers h for method and uri. uri is relative to /rest/ and has
// no query.
func (s *Server) Handle(method, uri string, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method+" "+uri] = h
}

// SetGet answers every GET of uri with body, whatever the FID.
func (s *Server) SetGet(uri string, body interface{}) {
	s.Handle(http.MethodGet, uri, func(Request) Response { return OK(body) })
}

// SetGetFID answers GETs of uri by FID. Unknown FIDs get a 404.
func (s *Server) SetGetFID(uri string, bodies map[int]interface{}) {
	s.Handle(http.MethodGet, uri, func(r Request) Response {
		if b, ok := bodies[r.FID]; ok {
			return OK(b)
		}
		return Response{Status: http.StatusNotFound}
	})
}

// FailLogin makes login answer with status.
func (s *Server) FailLogin(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginStatus = status
}

// FailLogout makes logout answer 500.
func (s *Server) FailLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutFail = true
}

// Requests returns the recorded requests in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Matching returns the recorded requests for method and uri.
func (s *Server) Matching(method, uri string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.URI == uri {
			out = append(out, r)
		}
	}
	return out
}

// Logins is the number of login requests received.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Logouts is the number of logout requests received.
func (s *Server) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

// Calls is every request including login and logout.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins + s.logouts + len(s.requests)
}

func (s *Server) serve(w http.ResponseWriter, req *http.Request) {
	uri := strings.TrimPrefix(req.URL.Path, "/rest/")
	switch uri {
	case "login":
		s.login(w, req)
		return
	case "logout":
		s.logout(w, req)
		return
	}

	if req.Header.Get("Authorization") != Token {
		writeResponse(w, Error(http.StatusUnauthorized, "Invalid session"))
		return
	}

	body, _ := io.ReadAll(req.Body)
	r := Request{Method: req.Method, URI: uri, Body: body}
	if v := req.URL.Query().Get("vf-id"); v != "" {
		r.FID, _ = strconv.Atoi(v)
	}

	s.mu.Lock()
	s.requests = append(s.requests, r)
	h, ok := s.handlers[req.Method+" "+uri]
	s.mu.Unlock()

	switch {
	case ok:
		writeResponse(w, h(r))
	case req.Method == http.MethodGet:
		writeResponse(w, Response{Status: http.StatusNotFound})
	default:
		writeResponse(w, Response{Status: http.StatusNoContent})
	}
}

func (s *Server) login(w http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	s.logins++
	status := s.loginStatus
	s.mu.Unlock()

	user, pw, ok := req.BasicAuth()
	switch {
	case status != 0:
		writeResponse(w, Error(status, "Login failed"))
	case !ok || user != User || pw != Password:
		writeResponse(w, Error(http.StatusUnauthorized, "Authentication failed"))
	default:
		w.Header().Set("Authorization", Token)
		writeResponse(w, OK(map[string]interface{}{"login": map[string]interface{}{"user": user}}))
	}
}

func (s *Server) logout(w http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	s.logouts++
	fail := s.logoutFail
	s.mu.Unlock()

	if fail || req.Header.Get("Authorization") != Token {
		writeResponse(w, Error(http.StatusInternalServerError, "Logout failed"))
		return
	}
	writeResponse(w, Response{Status: http.StatusNoContent})
}

func writeResponse(w http.ResponseWriter, resp Response) {
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/yang-data+json")
	if resp.Body == nil || resp.Status == http.StatusNoContent {
		w.WriteHeader(resp.Status)
		return
	}

	payload := resp.Body
	if resp.Status < http.StatusBadRequest {
		payload = map[string]interface{}{"Response": resp.Body}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "marshal: %v", err)
		return
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(data)
}
