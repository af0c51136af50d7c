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

	"github.com/samber/lo"
)

// Values of effective-configuration/cfg-action.
const (
	cfgActionSave    = 1
	cfgActionDisable = 2
	cfgActionAbort   = 4
)

// EffectiveConfig reads brocade-zone/effective-configuration.
func EffectiveConfig(ctx context.Context, s Session, fid int) (EffectiveConfiguration, error) {
	var obj struct {
		Effective EffectiveConfiguration `json:"effective-configuration"`
	}
	data, err := s.Get(ctx, URIEffectiveConfig, fid)
	if err != nil {
		return obj.Effective, err
	}
	err = decode(data, URIEffectiveConfig, &obj)
	return obj.Effective, err
}

// DefinedConfig reads brocade-zone/defined-configuration.
func DefinedConfig(ctx context.Context, s Session, fid int) (DefinedConfiguration, error) {
	var obj struct {
		Defined DefinedConfiguration `json:"defined-configuration"`
	}
	data, err := s.Get(ctx, URIDefinedConfiguration, fid)
	if err != nil {
		return obj.Defined, err
	}
	err = decode(data, URIDefinedConfiguration, &obj)
	return obj.Defined, err
}

// Checksum returns the zoning checksum every zoning transaction must quote.
func Checksum(ctx context.Context, s Session, fid int) (string, error) {
	eff, err := EffectiveConfig(ctx, s, fid)
	if err != nil {
		return "", err
	}
	if eff.Checksum == "" {
		return "", ErrNoChecksum
	}
	return eff.Checksum, nil
}

// EnableZonecfg activates a defined zone configuration. Outstanding zoning
// changes are saved as part of the activation.
func EnableZonecfg(ctx context.Context, s Session, fid int, checksum, name string) error {
	return patchEffective(ctx, s, fid, map[string]interface{}{
		"cfg-name": name,
		"checksum": checksum,
	})
}

// SaveZoning commits outstanding zoning changes without activating anything.
func SaveZoning(ctx context.Context, s Session, fid int, checksum string) error {
	return patchEffective(ctx, s, fid, map[string]interface{}{
		"cfg-action": cfgActionSave,
		"checksum":   checksum,
	})
}

// DisableZonecfg deactivates the effective zone configuration.
func DisableZonecfg(ctx context.Context, s Session, fid int, checksum string) error {
	return patchEffective(ctx, s, fid, map[string]interface{}{
		"cfg-action": cfgActionDisable,
		"checksum":   checksum,
	})
}

// AbortZoning discards outstanding zoning changes.
func AbortZoning(ctx context.Context, s Session, fid int) error {
	return patchEffective(ctx, s, fid, map[string]interface{}{"cfg-action": cfgActionAbort})
}

// CreateAliases adds aliases to the defined configuration.
func CreateAliases(ctx context.Context, s Session, fid int, aliases []Alias) error {
	return sendDefined(ctx, s, fid, http.MethodPost, "alias", aliases)
}

// DeleteAliases removes aliases from the defined configuration.
func DeleteAliases(ctx context.Context, s Session, fid int, names []string) error {
	return sendDefined(ctx, s, fid, http.MethodDelete, "alias",
		lo.Map(names, func(n string, _ int) Alias { return Alias{Name: n} }))
}

// AddAliasMembers adds members to an existing alias.
func AddAliasMembers(ctx context.Context, s Session, fid int, name string, members []string) error {
	return sendDefined(ctx, s, fid, http.MethodPost, "alias", []Alias{aliasWith(name, members)})
}

// RemoveAliasMembers removes members from an alias.
func RemoveAliasMembers(ctx context.Context, s Session, fid int, name string, members []string) error {
	return sendDefined(ctx, s, fid, http.MethodDelete, "alias", []Alias{aliasWith(name, members)})
}

// CreateZones adds standard or peer zones to the defined configuration.
func CreateZones(ctx context.Context, s Session, fid int, zones []Zone) error {
	return sendDefined(ctx, s, fid, http.MethodPost, "zone", zones)
}

// DeleteZones removes zones from the defined configuration.
func DeleteZones(ctx context.Context, s Session, fid int, names []string) error {
	return sendDefined(ctx, s, fid, http.MethodDelete, "zone",
		lo.Map(names, func(n string, _ int) Zone { return Zone{Name: n} }))
}

// AddZoneMembers adds members, and principal members for peer zones, to a
// zone.
func AddZoneMembers(ctx context.Context, s Session, fid int, name string, members, principals []string) error {
	return sendDefined(ctx, s, fid, http.MethodPost, "zone", []Zone{zoneWith(name, members, principals)})
}

// RemoveZoneMembers removes members and principal members from a zone.
func RemoveZoneMembers(ctx context.Context, s Session, fid int, name string, members, principals []string) error {
	return sendDefined(ctx, s, fid, http.MethodDelete, "zone", []Zone{zoneWith(name, members, principals)})
}

// CreateZonecfgs adds zone configurations to the defined configuration.
func CreateZonecfgs(ctx context.Context, s Session, fid int, cfgs []ZoneCfg) error {
	return sendDefined(ctx, s, fid, http.MethodPost, "cfg", cfgs)
}

// DeleteZonecfgs removes zone configurations.
func DeleteZonecfgs(ctx context.Context, s Session, fid int, names []string) error {
	return sendDefined(ctx, s, fid, http.MethodDelete, "cfg",
		lo.Map(names, func(n string, _ int) ZoneCfg { return ZoneCfg{Name: n} }))
}

// AddZonecfgMembers adds zones to a zone configuration.
func AddZonecfgMembers(ctx context.Context, s Session, fid int, name string, zones []string) error {
	return sendDefined(ctx, s, fid, http.MethodPost, "cfg", []ZoneCfg{zonecfgWith(name, zones)})
}

// RemoveZonecfgMembers removes zones from a zone configuration.
func RemoveZonecfgMembers(ctx context.Context, s Session, fid int, name string, zones []string) error {
	return sendDefined(ctx, s, fid, http.MethodDelete, "cfg", []ZoneCfg{zonecfgWith(name, zones)})
}

func aliasWith(name string, members []string) Alias {
	a := Alias{Name: name}
	if len(members) > 0 {
		a.MemberEntry = &AliasMembers{AliasEntryName: members}
	}
	return a
}

func zoneWith(name string, members, principals []string) Zone {
	z := Zone{Name: name}
	if len(members)+len(principals) > 0 {
		z.MemberEntry = &ZoneMembers{EntryName: members, PrincipalEntryName: principals}
	}
	return z
}

func zonecfgWith(name string, zones []string) ZoneCfg {
	c := ZoneCfg{Name: name}
	if len(zones) > 0 {
		c.MemberZone = &ZoneCfgMembers{ZoneName: zones}
	}
	return c
}

func sendDefined[T any](ctx context.Context, s Session, fid int, method, key string, items []T) error {
	if len(items) == 0 {
		return nil
	}
	content := map[string]interface{}{
		"defined-configuration": map[string]interface{}{key: items},
	}
	return s.Send(ctx, method, URIDefinedConfiguration, fid, content)
}

func patchEffective(ctx context.Context, s Session, fid int, leaves map[string]interface{}) error {
	return s.Send(ctx, http.MethodPatch, URIEffectiveConfig, fid,
		map[string]interface{}{"effective-configuration": leaves})
}
