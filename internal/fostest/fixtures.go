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
package fostest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	uriChassis       = "running/brocade-chassis/chassis"
	uriLogicalSwitch = "running/brocade-fibrechannel-logical-switch/fibrechannel-logical-switch"
	uriSwitch        = "running/brocade-fibrechannel-switch/fibrechannel-switch"
	uriPorts         = "running/brocade-interface/fibrechannel"
	uriEffective     = "running/brocade-zone/effective-configuration"
)

// LogicalSwitch describes one logical switch of the fake chassis.
type LogicalSwitch struct {
	FID     int
	Default bool
	Ports   []string
	GEPorts []string
}

// WWN is the switch WWN reported for fid.
func WWN(fid int) string {
	return fmt.Sprintf("10:00:00:05:1e:00:00:%02x", fid)
}

// SetChassis loads the chassis, logical switch, switch and port resources for
// the given switches.
func (s *Server) SetChassis(vfEnabled bool, switches ...LogicalSwitch) {
	s.SetGet(uriChassis, map[string]interface{}{
		"chassis": map[string]interface{}{"vf-enabled": vfEnabled, "product-name": "G720"},
	})

	all := make([]map[string]interface{}, 0, len(switches))
	perFID := map[int]interface{}{}
	wwns := map[int]interface{}{}
	ports := map[int]interface{}{}
	for _, ls := range switches {
		entry := map[string]interface{}{
			"fabric-id":             ls.FID,
			"switch-wwn":            WWN(ls.FID),
			"default-switch-status": ls.Default,
			"base-switch-enabled":   false,
			"port-member-list":      map[string]interface{}{"port-member": nonNil(ls.Ports)},
			"ge-port-member-list":   map[string]interface{}{"port-member": nonNil(ls.GEPorts)},
		}
		all = append(all, entry)
		perFID[ls.FID] = map[string]interface{}{"fibrechannel-logical-switch": entry}
		wwns[ls.FID] = map[string]interface{}{
			"fibrechannel-switch": []map[string]interface{}{{"name": WWN(ls.FID), "domain-id": ls.FID}},
		}
		pl := make([]map[string]interface{}, 0, len(ls.Ports))
		for _, p := range ls.Ports {
			pl = append(pl, map[string]interface{}{"name": p, "is-enabled-state": true})
		}
		ports[ls.FID] = map[string]interface{}{"fibrechannel": pl}
	}

	s.SetGet(uriLogicalSwitch, map[string]interface{}{"fibrechannel-logical-switch": all})
	for fid, body := range perFID {
		s.SetGet(fmt.Sprintf("%s/fabric-id/%d", uriLogicalSwitch, fid), body)
	}
	s.SetGetFID(uriSwitch, wwns)
	s.SetGetFID(uriPorts, ports)
}

// SetChecksum answers effective-configuration GETs with checksum.
func (s *Server) SetChecksum(cfgName, checksum string) {
	s.SetGet(uriEffective, map[string]interface{}{
		"effective-configuration": map[string]interface{}{"cfg-name": cfgName, "checksum": checksum},
	})
}

// FailWrites answers every method request on uri with resp.
func (s *Server) FailWrites(method, uri string, resp Response) {
	s.Handle(method, uri, func(Request) Response { return resp })
}

// FailWhen answers method requests on uri with resp when match returns true
// and with 204 otherwise.
func (s *Server) FailWhen(method, uri string, match func(Request) bool, resp Response) {
	s.Handle(method, uri, func(r Request) Response {
		if match(r) {
			return resp
		}
		return Response{Status: http.StatusNoContent}
	})
}

// Decode unmarshals the request body.
func (r Request) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
