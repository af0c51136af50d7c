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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/nvidia/fos-rest-examples/pkg/foscli"
)

const (
	// MaxPortsToMove is the most ports moved in one request.
	MaxPortsToMove = 32
	// DefaultSettleWait lets the REST API catch up with CLI changes.
	DefaultSettleWait = 20 * time.Second
)

// LogicalSwitches returns the logical switches in the chassis with the default
// switch first.
func LogicalSwitches(ctx context.Context, s Session) ([]LogicalSwitch, error) {
	data, err := s.Get(ctx, URIChassis, 0)
	if err != nil {
		return nil, err
	}
	var chassis struct {
		Chassis Chassis `json:"chassis"`
	}
	if err := decode(data, URIChassis, &chassis); err != nil {
		return nil, err
	}
	if !chassis.Chassis.IsVFEnabled() {
		return nil, ErrNotVFEnabled
	}

	data, err = s.Get(ctx, URILogicalSwitch, 0)
	if err != nil {
		return nil, err
	}
	var obj struct {
		Switches List[LogicalSwitch] `json:"fibrechannel-logical-switch"`
	}
	if err := decode(data, URILogicalSwitch, &obj); err != nil {
		return nil, err
	}

	switches := []LogicalSwitch(obj.Switches)
	sort.SliceStable(switches, func(i, j int) bool {
		return switches[i].IsDefault() && !switches[j].IsDefault()
	})
	return switches, nil
}

// SwitchWWN returns the WWN of the logical switch for fid.
func SwitchWWN(ctx context.Context, s Session, fid int) (string, error) {
	data, err := s.Get(ctx, URIFibreChannelSwitch, fid)
	if err != nil {
		return "", err
	}
	var obj struct {
		Switch List[FCSwitch] `json:"fibrechannel-switch"`
	}
	if err := decode(data, URIFibreChannelSwitch, &obj); err != nil {
		return "", err
	}
	if len(obj.Switch) == 0 || obj.Switch[0].Name == "" {
		return "", errors.Wrapf(ErrUnexpectedData, "%s: no switch WWN for FID %d", URIFibreChannelSwitch, fid)
	}
	return obj.Switch[0].Name, nil
}

// FibreChannelSwitch sets fibrechannel-switch leaves. The switch WWN is looked
// up and sent as the first leaf, "name".
func FibreChannelSwitch(ctx context.Context, s Session, fid int, parms map[string]interface{}) error {
	if len(parms) == 0 {
		return nil
	}
	wwn, err := SwitchWWN(ctx, s, fid)
	if err != nil {
		return err
	}
	content := map[string]interface{}{
		"fibrechannel-switch": nameFirst{name: wwn, leaves: parms},
	}
	return s.Send(ctx, http.MethodPatch, URIFibreChannelSwitch, fid, content)
}

// EnableSwitch enables the logical switch.
func EnableSwitch(ctx context.Context, s Session, fid int) error {
	return FibreChannelSwitch(ctx, s, fid, map[string]interface{}{"is-enabled-state": true})
}

// DisableSwitch disables the logical switch.
func DisableSwitch(ctx context.Context, s Session, fid int) error {
	return FibreChannelSwitch(ctx, s, fid, map[string]interface{}{"is-enabled-state": false})
}

// FabricConfiguration sets brocade-fibrechannel-configuration/fabric leaves.
func FabricConfiguration(ctx context.Context, s Session, fid int, parms map[string]interface{}) error {
	if len(parms) == 0 {
		return nil
	}
	return s.Send(ctx, http.MethodPatch, URIFabricConfiguration, fid, map[string]interface{}{"fabric": parms})
}

// SwitchConfiguration sets brocade-fibrechannel-configuration/switch-configuration
// leaves.
func SwitchConfiguration(ctx context.Context, s Session, fid int, parms map[string]interface{}) error {
	if len(parms) == 0 {
		return nil
	}
	return s.Send(ctx, http.MethodPatch, URISwitchConfiguration, fid,
		map[string]interface{}{"switch-configuration": parms})
}

// CreateSwitch creates a logical switch and leaves it disabled.
func CreateSwitch(ctx context.Context, s Session, fid int, base, ficon bool) error {
	if err := ValidateFID(fid); err != nil {
		return err
	}
	switches, err := LogicalSwitches(ctx, s)
	if err != nil {
		return err
	}
	if _, ok := lo.Find(switches, func(ls LogicalSwitch) bool { return ls.FabricID == fid }); ok {
		return errors.Wrapf(ErrFIDExists, "FID %d", fid)
	}
	if base && ficon {
		return errors.Wrapf(ErrBaseAndFicon, "FID %d", fid)
	}

	content := map[string]interface{}{
		"fibrechannel-logical-switch": map[string]interface{}{
			"fabric-id":           fid,
			"base-switch-enabled": boolInt(base),
			"ficon-mode-enabled":  boolInt(ficon),
		},
	}
	if err := s.Send(ctx, http.MethodPost, URILogicalSwitch, 0, content); err != nil {
		return errors.Wrapf(err, "create FID %d", fid)
	}
	return DisableSwitch(ctx, s, fid)
}

// MoveOptions control AddPorts.
type MoveOptions struct {
	// Best retries the ports of a failed batch one at a time.
	Best bool
	// CLI, when set, resets each port with portcfgdefault before the move.
	CLI foscli.Executor
	// Settle is the pause after CLI changes and before retries.
	Settle time.Duration
	Log    *log.Entry
}

// MoveResult lists the ports AddPorts moved and the ones it could not.
type MoveResult struct {
	Moved  []string
	Failed []string
}

// AddPorts moves ports and GE ports from one logical switch to another. Ports
// are set to the default configuration before they are moved.
func AddPorts(ctx context.Context, s Session, toFID, fromFID int, ports, gePorts []string,
	opts MoveOptions) (MoveResult, error) {
	var result MoveResult
	if len(ports)+len(gePorts) == 0 {
		return result, nil
	}
	logger := opts.Log
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger.Infof("Attempting to move %d FC ports and %d GE ports from FID %d to FID %d",
		len(ports), len(gePorts), fromFID, toFID)

	if err := DefaultPortConfig(ctx, s, fromFID, ports); err != nil {
		logger.WithError(err).Warn("Failed to set ports to the default configuration")
	}

	if opts.CLI != nil {
		if err := resetPortsCLI(ctx, opts.CLI, fromFID, append(append([]string{}, ports...), gePorts...),
			opts.Settle, logger); err != nil {
			return result, err
		}
	}

	for _, group := range []struct {
		key   string
		ports []string
	}{
		{key: "port-member-list", ports: ports},
		{key: "ge-port-member-list", ports: gePorts},
	} {
		var retryPorts []string
		for _, batch := range lo.Chunk(group.ports, MaxPortsToMove) {
			logger.Debugf("Moving ports: %s", strings.Join(batch, ", "))
			if err := movePorts(ctx, s, toFID, group.key, batch); err != nil {
				logger.WithError(err).Warnf("Failed to move %d ports to FID %d", len(batch), toFID)
				if opts.Best {
					retryPorts = append(retryPorts, batch...)
				} else {
					result.Failed = append(result.Failed, batch...)
				}
				continue
			}
			result.Moved = append(result.Moved, batch...)
		}

		if len(retryPorts) == 0 {
			continue
		}
		logger.Infof("Retrying ports %s", strings.Join(retryPorts, ", "))
		if err := foscli.Wait(ctx, opts.Settle); err != nil {
			result.Failed = append(result.Failed, retryPorts...)
			return result, err
		}
		for _, p := range retryPorts {
			if err := movePorts(ctx, s, toFID, group.key, []string{p}); err != nil {
				result.Failed = append(result.Failed, p)
				continue
			}
			result.Moved = append(result.Moved, p)
		}
	}
	return result, nil
}

// DeleteSwitch moves every port of fid to the default switch and then deletes
// fid. If any port cannot be moved the switch is left in place and a
// *PortsNotMovedError is returned.
func DeleteSwitch(ctx context.Context, s Session, fid int, opts MoveOptions) error {
	switches, err := LogicalSwitches(ctx, s)
	if err != nil {
		return err
	}
	idx := lo.IndexOf(lo.Map(switches, func(ls LogicalSwitch, _ int) int { return ls.FabricID }), fid)
	switch {
	case idx < 0:
		return errors.Wrapf(ErrFIDNotFound, "FID %d", fid)
	case idx == 0:
		return errors.Wrapf(ErrDefaultSwitch, "FID %d", fid)
	}

	ls := switches[idx]
	result, err := AddPorts(ctx, s, switches[0].FabricID, fid, ls.Ports(), ls.GEPorts(), opts)
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return &PortsNotMovedError{FID: fid, Ports: result.Failed}
	}

	content := map[string]interface{}{
		"fibrechannel-logical-switch": map[string]interface{}{"fabric-id": fid},
	}
	if err := s.Send(ctx, http.MethodDelete, URILogicalSwitch, 0, content); err != nil {
		return errors.Wrapf(err, "delete FID %d", fid)
	}
	return nil
}

// NonDefaultFIDs returns the FIDs of every logical switch except the default.
func NonDefaultFIDs(ctx context.Context, s Session) ([]int, error) {
	switches, err := LogicalSwitches(ctx, s)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(switches, func(ls LogicalSwitch, _ int) (int, bool) {
		return ls.FabricID, !ls.IsDefault()
	}), nil
}

// resetPortsCLI runs portcfgdefault on each port and waits for the REST API
// to catch up. Without a CLI connection the ports are left as they are.
func resetPortsCLI(ctx context.Context, cli foscli.Executor, fid int, ports []string, settle time.Duration,
	logger *log.Entry) error {
	for _, p := range ports {
		cmd := "portcfgdefault " + foscli.CLIPort(p)
		out, err := cli.Run(ctx, fid, cmd)
		if errors.Is(err, foscli.ErrNotConnected) {
			logger.WithError(err).Warn("Skipping portcfgdefault")
			return nil
		}
		if err != nil {
			logger.WithError(err).Warnf("CLI command failed: %s", cmd)
			continue
		}
		logger.Debugf("CLI %s: %s", cmd, strings.TrimSpace(out))
	}
	return foscli.Wait(ctx, settle)
}

func movePorts(ctx context.Context, s Session, toFID int, key string, ports []string) error {
	content := map[string]interface{}{
		"fibrechannel-logical-switch": map[string]interface{}{
			"fabric-id": toFID,
			key:         map[string]interface{}{"port-member": ports},
		},
	}
	return s.Send(ctx, http.MethodPost, URILogicalSwitch, 0, content)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nameFirst marshals as an object whose first member is "name". FOS requires
// the key leaf ahead of the leaves being changed.
type nameFirst struct {
	name   string
	leaves map[string]interface{}
}

func (n nameFirst) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	v, err := json.Marshal(n.name)
	if err != nil {
		return nil, err
	}
	buf.Write(v)

	keys := lo.Keys(n.leaves)
	sort.Strings(keys)
	for _, k := range keys {
		if k == "name" {
			continue
		}
		kb, _ := json.Marshal(k)
		vb, err := json.Marshal(n.leaves[k])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
