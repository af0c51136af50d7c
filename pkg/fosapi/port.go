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
	"net/http"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/nvidia/fos-rest-examples/pkg/common/ranges"
)

const (
	uriFibreChannelStatistics = "running/brocade-interface/fibrechannel-statistics"
	uriGigabitEthernetStats   = "running/brocade-interface/gigabitethernet-statistics"
	uriPortDecommission       = "operations/port-decommission"
)

// DefaultPortSettings are the leaves written by DefaultPortConfig. The port is
// left disabled.
var DefaultPortSettings = map[string]interface{}{
	"is-enabled-state":         false,
	"persistent-disable":       false,
	"npiv-enabled":             true,
	"npiv-pp-limit":            126,
	"e-port-disable":           false,
	"n-port-enabled":           false,
	"g-port-locked":            false,
	"trunk-port-enabled":       true,
	"isl-ready-mode-enabled":   false,
	"rscn-suppression-enabled": false,
	"qos-enabled":              true,
	"credit-recovery-enabled":  true,
	"d-port-enable":            false,
	"fec-enabled":              true,
	"speed":                    0,
	"long-distance":            0,
	"user-friendly-name":       "",
}

// PortName pairs a port with the user friendly name to give it.
type PortName struct {
	Port string
	Name string
}

// Ports reads the FC ports of a logical switch.
func Ports(ctx context.Context, s Session, fid int) ([]Port, error) {
	data, err := s.Get(ctx, URIFibreChannelPort, fid)
	if err != nil {
		return nil, err
	}
	var obj struct {
		FibreChannel List[Port] `json:"fibrechannel"`
	}
	if err := decode(data, URIFibreChannelPort, &obj); err != nil {
		return nil, err
	}
	return obj.FibreChannel, nil
}

// PortNames returns the s/p names of the FC ports in a logical switch.
func PortNames(ctx context.Context, s Session, fid int) ([]string, error) {
	ports, err := Ports(ctx, s, fid)
	if err != nil {
		return nil, err
	}
	return lo.Map(ports, func(p Port, _ int) string { return p.Name }), nil
}

// GEPorts returns the GE ports of a logical switch.
func GEPorts(ctx context.Context, s Session, fid int) ([]string, error) {
	data, err := s.Get(ctx, LogicalSwitchURI(fid), 0)
	if err != nil {
		return nil, err
	}
	var obj struct {
		Switches List[LogicalSwitch] `json:"fibrechannel-logical-switch"`
	}
	if err := decode(data, URILogicalSwitch, &obj); err != nil {
		return nil, err
	}
	var ports []string
	for _, ls := range obj.Switches {
		ports = append(ports, ls.GEPorts()...)
	}
	return ports, nil
}

// EnablePorts enables ports. Persistent also clears the persistent disable.
func EnablePorts(ctx context.Context, s Session, fid int, ports []string, persistent bool) error {
	leaves := map[string]interface{}{"is-enabled-state": true}
	if persistent {
		leaves["persistent-disable"] = false
	}
	return patchPorts(ctx, s, fid, ports, leaves)
}

// DisablePorts disables ports, persistently if requested.
func DisablePorts(ctx context.Context, s Session, fid int, ports []string, persistent bool) error {
	leaves := map[string]interface{}{"is-enabled-state": false}
	if persistent {
		leaves["persistent-disable"] = true
	}
	return patchPorts(ctx, s, fid, ports, leaves)
}

// DefaultPortConfig disables ports and restores the default port settings.
func DefaultPortConfig(ctx context.Context, s Session, fid int, ports []string) error {
	return patchPorts(ctx, s, fid, ports, DefaultPortSettings)
}

// EPort allows or prohibits ports from becoming E-Ports.
func EPort(ctx context.Context, s Session, fid int, ports []string, enable bool) error {
	return patchPorts(ctx, s, fid, ports, map[string]interface{}{"e-port-disable": !enable})
}

// NPort sets or clears N-Port mode.
func NPort(ctx context.Context, s Session, fid int, ports []string, enable bool) error {
	return patchPorts(ctx, s, fid, ports, map[string]interface{}{"n-port-enabled": enable})
}

// NamePorts sets the user friendly name of each port.
func NamePorts(ctx context.Context, s Session, fid int, names []PortName) error {
	if len(names) == 0 {
		return nil
	}
	content := map[string]interface{}{
		"fibrechannel": lo.Map(names, func(pn PortName, _ int) map[string]interface{} {
			return map[string]interface{}{
				"name":               ranges.NormalizePort(pn.Port),
				"user-friendly-name": pn.Name,
			}
		}),
	}
	return s.Send(ctx, http.MethodPatch, URIFibreChannelPort, fid, content)
}

// ClearStats resets the statistics counters of FC and GE ports.
func ClearStats(ctx context.Context, s Session, fid int, ports, gePorts []string) error {
	if len(ports) > 0 {
		content := map[string]interface{}{"fibrechannel-statistics": resetEntries(ports, true)}
		if err := s.Send(ctx, http.MethodPatch, uriFibreChannelStatistics, fid, content); err != nil {
			return errors.Wrap(err, "clear FC port statistics")
		}
	}
	if len(gePorts) > 0 {
		content := map[string]interface{}{"gigabitethernet-statistics": resetEntries(gePorts, false)}
		if err := s.Send(ctx, http.MethodPatch, uriGigabitEthernetStats, fid, content); err != nil {
			return errors.Wrap(err, "clear GE port statistics")
		}
	}
	return nil
}

// DecommissionPorts gracefully takes E-Ports out of service.
func DecommissionPorts(ctx context.Context, s Session, fid int, ports []string) error {
	for _, p := range ports {
		content := map[string]interface{}{
			"port-decommission-parameters": map[string]interface{}{
				"slot-port": ranges.NormalizePort(p),
				"port-type": "port",
			},
		}
		if err := s.Send(ctx, http.MethodPost, uriPortDecommission, fid, content); err != nil {
			return errors.Wrapf(err, "decommission port %s", p)
		}
	}
	return nil
}

// patchPorts writes the same leaves to every port in one request.
func patchPorts(ctx context.Context, s Session, fid int, ports []string, leaves map[string]interface{}) error {
	if len(ports) == 0 {
		return nil
	}
	content := map[string]interface{}{
		"fibrechannel": lo.Map(ports, func(p string, _ int) map[string]interface{} {
			entry := lo.Assign(leaves)
			entry["name"] = ranges.NormalizePort(p)
			return entry
		}),
	}
	return s.Send(ctx, http.MethodPatch, URIFibreChannelPort, fid, content)
}

func resetEntries(ports []string, normalize bool) []map[string]interface{} {
	return lo.Map(ports, func(p string, _ int) map[string]interface{} {
		if normalize {
			p = ranges.NormalizePort(p)
		}
		return map[string]interface{}{"name": p, "reset-statistics": 1}
	})
}
