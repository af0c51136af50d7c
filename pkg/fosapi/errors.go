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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotVFEnabled   = errors.New("chassis not VF enabled")
	ErrFIDExists      = errors.New("FID already present in chassis")
	ErrFIDNotFound    = errors.New("FID not found")
	ErrDefaultSwitch  = errors.New("cannot delete the default logical switch")
	ErrBaseAndFicon   = errors.New("switch type cannot be both base and ficon")
	ErrNoChecksum     = errors.New("could not get a valid zoning checksum")
	ErrUnexpectedData = errors.New("unexpected data returned from the API")
)

// APIError is a non-2xx response from the FOS REST API.
type APIError struct {
	Method     string
	URI        string
	StatusCode int
	Status     string
	Messages   []string
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = e.Status
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URI, e.StatusCode, msg)
}

// Contains reports whether any error message contains s.
func (e *APIError) Contains(s string) bool {
	for _, m := range e.Messages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

// VirtualFabricIDError is returned, without sending anything, when a request
// names a FID outside 1-128.
type VirtualFabricIDError struct {
	FID int
}

func (e *VirtualFabricIDError) Error() string {
	return fmt.Sprintf("invalid FID %d: FIDs must be integers in the range 1-128", e.FID)
}

// PortsNotMovedError is returned by DeleteSwitch when ports could not be moved
// out of the switch, in which case the switch is not deleted.
type PortsNotMovedError struct {
	FID   int
	Ports []string
}

func (e *PortsNotMovedError) Error() string {
	return fmt.Sprintf("cannot delete FID %d with ports: %s", e.FID, strings.Join(e.Ports, ", "))
}

// StatusCode returns the HTTP status FOS uses for this condition.
func (e *PortsNotMovedError) StatusCode() int {
	return http.StatusPreconditionRequired
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type errorBody struct {
	Errors struct {
		Error json.RawMessage `json:"error"`
	} `json:"errors"`
}

type errorItem struct {
	Message string `json:"error-message"`
	Tag     string `json:"error-tag"`
	Path    string `json:"error-path"`
}

// parseErrorMessages extracts error-message values. FOS returns "error" as a
// list or, for a single error, as an object.
func parseErrorMessages(body []byte) []string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Errors.Error) == 0 {
		return nil
	}
	var items List[errorItem]
	if err := json.Unmarshal(eb.Errors.Error, &items); err != nil {
		return nil
	}
	var msgs []string
	for _, it := range items {
		if it.Message != "" {
			msgs = append(msgs, it.Message)
		}
	}
	return msgs
}
