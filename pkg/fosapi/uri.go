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
	"strconv"
	"strings"
)

// Resource URIs, relative to /rest/.
const (
	URIChassis              = "running/brocade-chassis/chassis"
	URIFibreChannelSwitch   = "running/brocade-fibrechannel-switch/fibrechannel-switch"
	URILogicalSwitch        = "running/brocade-fibrechannel-logical-switch/fibrechannel-logical-switch"
	URIFabricConfiguration  = "running/brocade-fibrechannel-configuration/fabric"
	URISwitchConfiguration  = "running/brocade-fibrechannel-configuration/switch-configuration"
	URIFibreChannelPort     = "running/brocade-interface/fibrechannel"
	URIMapsDashboardMisc    = "running/brocade-maps/dashboard-misc"
	URIDefinedConfiguration = "running/brocade-zone/defined-configuration"
	URIEffectiveConfig      = "running/brocade-zone/effective-configuration"
	URISecurityCertificate  = "running/brocade-security/security-certificate"
	URIModuleVersion        = "brocade-module-version"
)

const (
	restPrefix = "/rest/"
	vfIDParam  = "vf-id"
)

// Fabric ID limits.
const (
	MinFID = 1
	MaxFID = 128
)

// ValidateFID returns a VirtualFabricIDError for a FID outside 1-128.
func ValidateFID(fid int) error {
	if fid < MinFID || fid > MaxFID {
		return &VirtualFabricIDError{FID: fid}
	}
	return nil
}

// NormalizeURI accepts "running/...", "operations/..." or a bare module path
// such as "brocade-interface/fibrechannel" and returns the URI relative to
// /rest/.
func NormalizeURI(uri string) string {
	uri = strings.Trim(strings.TrimPrefix(strings.TrimSpace(uri), restPrefix), "/")
	switch {
	case strings.HasPrefix(uri, "running/"),
		strings.HasPrefix(uri, "operations/"),
		uri == URIModuleVersion:
		return uri
	default:
		return "running/" + uri
	}
}

// LogicalSwitchURI is the logical switch resource of one FID.
func LogicalSwitchURI(fid int) string {
	return URILogicalSwitch + "/fabric-id/" + strconv.Itoa(fid)
}
