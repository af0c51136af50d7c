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
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// ZonecfgEnableConstants are used in developer mode.
var ZonecfgEnableConstants = devLogin("1", map[string]interface{}{"z": "prod_cfg"})

// ZonecfgEnable activates a defined zone configuration.
func ZonecfgEnable() runner.Script {
	return runner.Script{
		Def: params.Definition{
			Name:        "zonecfg_enable",
			Version:     version,
			Description: "Enable a zone configuration.",
			FIDRequired: true,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "z", Usage: "Required. Name of the zone configuration to enable"},
			},
			Validate: func(p *params.Params) error {
				if strings.TrimSpace(p.String("z")) == "" {
					return fault.Usage("-z is required")
				}
				return validSingleFID(p)
			},
		},
		Feedback: func(p *params.Params) []util.Field {
			return append(fidField(p), util.Field{Label: "Zone configuration", Flag: "z", Value: p.String("z")})
		},
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			fid, err := rc.Params.SingleFID()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(rc.Params.String("z"))

			checksum, err := fosapi.Checksum(ctx, rc.Session, fid)
			if err != nil {
				return failed(err, "read the zoning checksum")
			}
			rc.Log.Echo(fmt.Sprintf("Enabling zone configuration %s, FID %d", name, fid))
			if err := fosapi.EnableZonecfg(ctx, rc.Session, fid, checksum, name); err != nil {
				abortZoning(ctx, rc, fid)
				return failed(err, "enable zone configuration %s", name)
			}
			return nil
		},
	}
}

// abortZoning discards pending zoning changes. Failures are only logged.
func abortZoning(ctx context.Context, rc *runner.RunContext, fid int) {
	if err := fosapi.AbortZoning(ctx, rc.Session, fid); err != nil {
		rc.Log.Exception(err, "Failed to abort the zoning transaction")
		return
	}
	rc.Log.Echo("Zoning transaction aborted")
}
