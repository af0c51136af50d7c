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
package scripts

import (
	"context"
	"fmt"

	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// StatsClearConstants are used in developer mode.
var StatsClearConstants = devLogin("1", nil)

// StatsClear clears the statistics of every FC and GE port in each logical
// switch.
func StatsClear() runner.Script {
	return runner.Script{
		Def: params.Definition{
			Name:        "stats_clear",
			Version:     version,
			Description: "Clear the statistics of all ports in one or more logical switches.",
			FIDRequired: true,
			FIDUsage:    `Fabric IDs of the logical switches, for example "1-3,9"`,
			Validate:    validFIDList,
		},
		Feedback: fidField,
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			return forEachFID(ctx, rc, func(ctx context.Context, fid int) error {
				ports, err := fosapi.PortNames(ctx, rc.Session, fid)
				if err != nil {
					return failed(err, "read the ports of FID %d", fid)
				}
				gePorts, err := fosapi.GEPorts(ctx, rc.Session, fid)
				if err != nil {
					return failed(err, "read the GE ports of FID %d", fid)
				}
				rc.Log.Echo(fmt.Sprintf("Clearing statistics for %d ports and %d GE ports of FID %d",
					len(ports), len(gePorts), fid))
				return failed(fosapi.ClearStats(ctx, rc.Session, fid, ports, gePorts), "clear statistics")
			})
		},
	}
}
