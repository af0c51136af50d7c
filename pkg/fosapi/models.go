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
	"encoding/json"

	"github.com/spf13/cast"
)

// List decodes a JSON array, or a single value where FOS collapses a one
// element list, into a slice.
type List[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	*l = List[T]{item}
	return nil
}

// Chassis is brocade-chassis/chassis.
type Chassis struct {
	ChassisUserFriendlyName string      `json:"chassis-user-friendly-name,omitempty"`
	ProductName             string      `json:"product-name,omitempty"`
	SerialNumber            string      `json:"serial-number,omitempty"`
	VFEnabled               interface{} `json:"vf-enabled"`
}

// IsVFEnabled reports whether virtual fabrics are enabled.
func (c Chassis) IsVFEnabled() bool {
	return cast.ToBool(c.VFEnabled)
}

// PortMemberList is the port-member-list container of a logical switch.
type PortMemberList struct {
	PortMember List[string] `json:"port-member"`
}

// LogicalSwitch is one entry of
// brocade-fibrechannel-logical-switch/fibrechannel-logical-switch.
type LogicalSwitch struct {
	FabricID            int             `json:"fabric-id"`
	SwitchWWN           string          `json:"switch-wwn,omitempty"`
	DefaultSwitchStatus interface{}     `json:"default-switch-status,omitempty"`
	BaseSwitchEnabled   interface{}     `json:"base-switch-enabled,omitempty"`
	FiconModeEnabled    interface{}     `json:"ficon-mode-enabled,omitempty"`
	LogicalISLEnabled   interface{}     `json:"logical-isl-enabled,omitempty"`
	PortMemberList      *PortMemberList `json:"port-member-list,omitempty"`
	GEPortMemberList    *PortMemberList `json:"ge-port-member-list,omitempty"`
}

// IsDefault reports whether this is the default logical switch. FOS reports
// the status as a bool on some versions and as 0/1 on others.
func (ls LogicalSwitch) IsDefault() bool {
	return cast.ToBool(ls.DefaultSwitchStatus)
}

// Ports returns the FC port members.
func (ls LogicalSwitch) Ports() []string {
	if ls.PortMemberList == nil {
		return nil
	}
	return ls.PortMemberList.PortMember
}

// GEPorts returns the GE port members.
func (ls LogicalSwitch) GEPorts() []string {
	if ls.GEPortMemberList == nil {
		return nil
	}
	return ls.GEPortMemberList.PortMember
}

// FCSwitch is one entry of brocade-fibrechannel-switch/fibrechannel-switch.
// Name is the switch WWN.
type FCSwitch struct {
	Name                   string      `json:"name"`
	DomainID               int         `json:"domain-id,omitempty"`
	UserFriendlyName       string      `json:"user-friendly-name,omitempty"`
	FabricUserFriendlyName string      `json:"fabric-user-friendly-name,omitempty"`
	Banner                 string      `json:"banner,omitempty"`
	IsEnabledState         interface{} `json:"is-enabled-state,omitempty"`
	FirmwareVersion        string      `json:"firmware-version,omitempty"`
}

// Port is one entry of brocade-interface/fibrechannel.
type Port struct {
	Name              string      `json:"name"`
	UserFriendlyName  string      `json:"user-friendly-name,omitempty"`
	IsEnabledState    interface{} `json:"is-enabled-state,omitempty"`
	PersistentDisable interface{} `json:"persistent-disable,omitempty"`
	OperationalStatus interface{} `json:"operational-status,omitempty"`
	PortType          interface{} `json:"port-type,omitempty"`
	Speed             interface{} `json:"speed,omitempty"`
	WWN               string      `json:"wwn,omitempty"`
}

// Enabled reports the port enable state.
func (p Port) Enabled() bool {
	return cast.ToBool(p.IsEnabledState)
}

// AliasMembers is the member-entry of an alias.
type AliasMembers struct {
	AliasEntryName List[string] `json:"alias-entry-name,omitempty"`
}

// Alias is a defined-configuration alias.
type Alias struct {
	Name        string        `json:"alias-name"`
	MemberEntry *AliasMembers `json:"member-entry,omitempty"`
}

// ZoneMembers is the member-entry of a zone.
type ZoneMembers struct {
	EntryName          List[string] `json:"entry-name,omitempty"`
	PrincipalEntryName List[string] `json:"principal-entry-name,omitempty"`
}

// Zone types as FOS encodes them.
const (
	ZoneTypeStandard   = 0
	ZoneTypeUserPeer   = 1
	ZoneTypeTargetPeer = 2
)

// Zone is a defined-configuration zone.
type Zone struct {
	Name        string       `json:"zone-name"`
	Type        *int         `json:"zone-type,omitempty"`
	MemberEntry *ZoneMembers `json:"member-entry,omitempty"`
}

// ZoneCfgMembers is the member-zone of a zone configuration.
type ZoneCfgMembers struct {
	ZoneName List[string] `json:"zone-name,omitempty"`
}

// ZoneCfg is a defined-configuration zone configuration.
type ZoneCfg struct {
	Name       string          `json:"cfg-name"`
	MemberZone *ZoneCfgMembers `json:"member-zone,omitempty"`
}

// DefinedConfiguration is brocade-zone/defined-configuration.
type DefinedConfiguration struct {
	Cfg   List[ZoneCfg] `json:"cfg,omitempty"`
	Zone  List[Zone]    `json:"zone,omitempty"`
	Alias List[Alias]   `json:"alias,omitempty"`
}

// EffectiveConfiguration is brocade-zone/effective-configuration.
type EffectiveConfiguration struct {
	CfgName  string      `json:"cfg-name,omitempty"`
	Checksum string      `json:"checksum,omitempty"`
	DBAvail  interface{} `json:"db-avail,omitempty"`
	DBMax    interface{} `json:"db-max,omitempty"`
}
