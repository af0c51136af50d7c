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

	"github.com/nvidia/fos-rest-examples/pkg/common/ranges"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// SwitchDeleteConstants are used in developer mode.
var SwitchDeleteConstants = devLogin("20", map[string]interface{}{"best": true})

// SwitchDelete moves the ports of each logical switch to the default switch
// and deletes it.
func SwitchDelete() runner.Script {
	return runner.Script{
		Def: params.Definition{
			Name:        "switch_delete",
			Version:     version,
			Description: "Delete logical switches. Ports are set to the default configuration and moved to the default switch first.",
			FIDRequired: true,
			FIDUsage:    `Fabric IDs to delete, for example "1-3,9". "*" deletes every switch except the default switch`,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "best", Usage: "Optional. Retry ports that fail to move one at a time"},
			},
			Validate: func(p *params.Params) error {
				if strings.TrimSpace(p.FID) == ranges.All {
					return nil
				}
				return validFIDList(p)
			},
		},
		Feedback: fidField,
		UseCLI:   true,
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			var fids []int
			var err error
			if strings.TrimSpace(rc.Params.FID) == ranges.All {
				if fids, err = fosapi.NonDefaultFIDs(ctx, rc.Session); err != nil {
					return failed(err, "read the logical switches")
				}
				if len(fids) == 0 {
					rc.Log.Echo("No logical switches to delete")
					return nil
				}
			} else if fids, err = rc.Params.FIDList(); err != nil {
				return err
			}

			opts := fosapi.MoveOptions{
				Best:   rc.Params.Bool("best"),
				CLI:    rc.CLI,
				Settle: rc.Settle,
				Log:    rc.Log.Entry(),
			}
			return runner.Batch(ctx, rc, fids, runner.FIDName, func(ctx context.Context, fid int) error {
				rc.Log.Echo(fmt.Sprintf("Deleting FID %d. This will take about 20 sec per switch + 40 sec per "+
					"group of %d ports.", fid, fosapi.MaxPortsToMove))
				return failed(fosapi.DeleteSwitch(ctx, rc.Session, fid, opts), "delete FID %d", fid)
			})
		},
	}
}
