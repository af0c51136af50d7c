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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	cli "github.com/urfave/cli/v2"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
	"github.com/nvidia/fos-rest-examples/pkg/zoneworkbook"
)

// ZoneConfigConstants are used in developer mode.
var ZoneConfigConstants = devLogin("1", map[string]interface{}{
	"i":     "zone_config.xlsx",
	"sheet": zoneworkbook.DefaultSheet,
	"a":     "",
	"save":  true,
	"t":     false,
})

// ZoneConfig applies the changes in a zone workbook as one zoning
// transaction.
func ZoneConfig() runner.Script {
	var ops []zoneworkbook.Operation
	return runner.Script{
		Def: params.Definition{
			Name:        "zone_config",
			Version:     version,
			Description: "Create, delete and modify aliases, zones and zone configurations from a workbook.",
			FIDRequired: true,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "i", Usage: "Required. Zone workbook. The .xlsx extension is added if missing"},
				&cli.StringFlag{Name: "sheet", Value: zoneworkbook.DefaultSheet, Usage: "Optional. Worksheet name"},
				&cli.StringFlag{Name: "a", Usage: "Optional. Zone configuration to activate after the changes"},
				&cli.BoolFlag{Name: "save", Usage: "Optional. Save the changes to the defined configuration"},
				&cli.BoolFlag{Name: "t", Usage: "Optional. Test mode. Validate the changes without sending them"},
			},
			Validate: func(p *params.Params) error {
				if strings.TrimSpace(p.String("i")) == "" {
					return fault.Usage("-i is required")
				}
				if !p.Bool("t") && !p.Bool("save") && strings.TrimSpace(p.String("a")) == "" {
					return fault.Usage("one of -save, -a or -t is required")
				}
				return validSingleFID(p)
			},
		},
		Feedback: func(p *params.Params) []util.Field {
			return append(fidField(p),
				util.Field{Label: "Workbook", Flag: "i", Value: p.String("i")},
				util.Field{Label: "Worksheet", Flag: "sheet", Value: p.String("sheet")},
				util.Field{Label: "Activate", Flag: "a", Value: p.String("a")},
				util.Field{Label: "Save", Flag: "save", Value: p.Bool("save")},
				util.Field{Label: "Test", Flag: "t", Value: p.Bool("t")},
			)
		},
		Prepare: func(_ context.Context, rc *runner.RunContext) error {
			path := strings.TrimSpace(rc.Params.String("i"))
			if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				path += ".xlsx"
			}
			var err error
			if ops, err = zoneworkbook.Read(path, rc.Params.String("sheet")); err != nil {
				return err
			}
			if err := zoneworkbook.Validate(ops); err != nil {
				return err
			}
			rc.Log.Echo(fmt.Sprintf("Read %d zoning changes from %s", len(ops), path))
			return nil
		},
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			fid, err := rc.Params.SingleFID()
			if err != nil {
				return err
			}
			return applyZoning(ctx, rc, fid, ops)
		},
	}
}

func applyZoning(ctx context.Context, rc *runner.RunContext, fid int, ops []zoneworkbook.Operation) error {
	defined, err := fosapi.DefinedConfig(ctx, rc.Session, fid)
	if err != nil {
		return failed(err, "read the defined zoning configuration of FID %d", fid)
	}
	activate := strings.TrimSpace(rc.Params.String("a"))
	if problems := newZoneDB(defined).check(ops, activate); len(problems) > 0 {
		rc.Log.Warn(problems...)
		return fault.Action(nil, fmt.Sprintf("%d problems found in the zone workbook", len(problems)))
	}
	if rc.Params.Bool("t") {
		rc.Log.Echo("Test mode. The zoning changes are valid and were not sent.")
		return nil
	}

	for _, op := range ops {
		rc.Log.Log("Zoning change: " + op.String())
		if err := zoneOp(ctx, rc.Session, fid, op); err != nil {
			abortZoning(ctx, rc, fid)
			return failed(err, "%s", op.String())
		}
	}

	checksum, err := fosapi.Checksum(ctx, rc.Session, fid)
	if err != nil {
		abortZoning(ctx, rc, fid)
		return failed(err, "read the zoning checksum")
	}
	if activate != "" {
		rc.Log.Echo("Saving changes and enabling zone configuration " + activate)
		err = fosapi.EnableZonecfg(ctx, rc.Session, fid, checksum, activate)
	} else {
		rc.Log.Echo("Saving changes")
		err = fosapi.SaveZoning(ctx, rc.Session, fid, checksum)
	}
	if err != nil {
		abortZoning(ctx, rc, fid)
		return failed(err, "commit the zoning changes")
	}
	rc.Log.Echo(fmt.Sprintf("%d zoning changes committed", len(ops)))
	return nil
}

func zoneOp(ctx context.Context, s fosapi.Session, fid int, op zoneworkbook.Operation) error {
	switch op.Object {
	case zoneworkbook.ObjectAlias:
		switch op.Action {
		case zoneworkbook.ActionCreate:
			return fosapi.CreateAliases(ctx, s, fid, []fosapi.Alias{{
				Name:        op.Name,
				MemberEntry: &fosapi.AliasMembers{AliasEntryName: op.Members},
			}})
		case zoneworkbook.ActionDelete:
			return fosapi.DeleteAliases(ctx, s, fid, []string{op.Name})
		case zoneworkbook.ActionAddMem:
			return fosapi.AddAliasMembers(ctx, s, fid, op.Name, op.Members)
		case zoneworkbook.ActionRemoveMem:
			return fosapi.RemoveAliasMembers(ctx, s, fid, op.Name, op.Members)
		}

	case zoneworkbook.ObjectZone, zoneworkbook.ObjectPeerZone:
		switch op.Action {
		case zoneworkbook.ActionCreate:
			typ := fosapi.ZoneTypeStandard
			if op.Object == zoneworkbook.ObjectPeerZone {
				typ = fosapi.ZoneTypeUserPeer
			}
			return fosapi.CreateZones(ctx, s, fid, []fosapi.Zone{{
				Name:        op.Name,
				Type:        &typ,
				MemberEntry: &fosapi.ZoneMembers{EntryName: op.Members, PrincipalEntryName: op.Principals},
			}})
		case zoneworkbook.ActionDelete:
			return fosapi.DeleteZones(ctx, s, fid, []string{op.Name})
		case zoneworkbook.ActionAddMem:
			return fosapi.AddZoneMembers(ctx, s, fid, op.Name, op.Members, op.Principals)
		case zoneworkbook.ActionRemoveMem:
			return fosapi.RemoveZoneMembers(ctx, s, fid, op.Name, op.Members, op.Principals)
		}

	case zoneworkbook.ObjectZoneCfg:
		switch op.Action {
		case zoneworkbook.ActionCreate:
			return fosapi.CreateZonecfgs(ctx, s, fid, []fosapi.ZoneCfg{{
				Name:       op.Name,
				MemberZone: &fosapi.ZoneCfgMembers{ZoneName: op.Members},
			}})
		case zoneworkbook.ActionDelete:
			return fosapi.DeleteZonecfgs(ctx, s, fid, []string{op.Name})
		case zoneworkbook.ActionAddMem:
			return fosapi.AddZonecfgMembers(ctx, s, fid, op.Name, op.Members)
		case zoneworkbook.ActionRemoveMem:
			return fosapi.RemoveZonecfgMembers(ctx, s, fid, op.Name, op.Members)
		}
	}
	return fault.Unexpected(nil, "unsupported zoning change "+op.String())
}

// zoneDB tracks the names in the defined configuration as the workbook
// changes are applied to it.
type zoneDB struct {
	aliases mapset.Set[string]
	zones   mapset.Set[string]
	cfgs    mapset.Set[string]
}

func newZoneDB(d fosapi.DefinedConfiguration) *zoneDB {
	return &zoneDB{
		aliases: mapset.NewSet(lo.Map(d.Alias, func(a fosapi.Alias, _ int) string { return a.Name })...),
		zones:   mapset.NewSet(lo.Map(d.Zone, func(z fosapi.Zone, _ int) string { return z.Name })...),
		cfgs:    mapset.NewSet(lo.Map(d.Cfg, func(c fosapi.ZoneCfg, _ int) string { return c.Name })...),
	}
}

func (db *zoneDB) set(object string) (mapset.Set[string], string) {
	switch object {
	case zoneworkbook.ObjectAlias:
		return db.aliases, "alias"
	case zoneworkbook.ObjectZoneCfg:
		return db.cfgs, "zone configuration"
	default:
		return db.zones, "zone"
	}
}

// check replays ops against the names in the switch and returns every
// problem found.
func (db *zoneDB) check(ops []zoneworkbook.Operation, activate string) []string {
	var problems []string
	for _, op := range ops {
		names, kind := db.set(op.Object)
		switch op.Action {
		case zoneworkbook.ActionCreate:
			if names.Contains(op.Name) {
				problems = append(problems, fmt.Sprintf("%s: %s already exists", op, kind))
			}
			names.Add(op.Name)
		case zoneworkbook.ActionDelete:
			if !names.Contains(op.Name) {
				problems = append(problems, fmt.Sprintf("%s: %s does not exist", op, kind))
			}
			names.Remove(op.Name)
			continue
		default:
			if !names.Contains(op.Name) {
				problems = append(problems, fmt.Sprintf("%s: %s does not exist", op, kind))
			}
		}
		if op.Action == zoneworkbook.ActionRemoveMem {
			continue
		}

		switch op.Object {
		case zoneworkbook.ObjectZoneCfg:
			for _, z := range op.Members {
				if !db.zones.Contains(z) {
					problems = append(problems, fmt.Sprintf("%s: zone %s does not exist", op, z))
				}
			}
		case zoneworkbook.ObjectZone, zoneworkbook.ObjectPeerZone:
			for _, m := range append(append([]string{}, op.Members...), op.Principals...) {
				if isAliasRef(m) && !db.aliases.Contains(m) {
					problems = append(problems, fmt.Sprintf("%s: alias %s does not exist", op, m))
				}
			}
		}
	}
	if activate != "" && !db.cfgs.Contains(activate) {
		problems = append(problems, fmt.Sprintf("zone configuration %s does not exist", activate))
	}
	return problems
}

// isAliasRef reports whether a zone member names an alias rather than a WWN
// or a d,i pair.
func isAliasRef(member string) bool {
	return !strings.ContainsAny(member, ":,")
}
