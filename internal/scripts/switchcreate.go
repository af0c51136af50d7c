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
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
	cli "github.com/urfave/cli/v2"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/ranges"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// Switch types, the -type option.
const (
	SwitchTypeOpen  = "open"
	SwitchTypeBase  = "base"
	SwitchTypeFicon = "ficon"
)

// SwitchCreateConstants are used in developer mode.
var SwitchCreateConstants = devLogin("20", map[string]interface{}{
	"name":     "Test_20",
	"did":      20,
	"idid":     true,
	"xisl":     false,
	"type":     SwitchTypeOpen,
	"ports":    "12/0-3",
	"ge_ports": "",
	"from":     "",
})

type switchCreate struct {
	fid     int
	did     int
	name    string
	base    bool
	ficon   bool
	from    int
	ports   []string
	gePorts []string
}

func (sc *switchCreate) parse(p *params.Params) error {
	var err error
	if sc.fid, err = p.SingleFID(); err != nil {
		return err
	}
	did := p.Options["did"]
	if err := validation.Validate(did,
		validation.Required.Error("-did is required"),
		validation.By(func(v interface{}) error {
			n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(v)))
			if err != nil || n < 1 || n > 239 {
				return fmt.Errorf("-did must be a domain ID in the range 1-239")
			}
			sc.did = n
			return nil
		}),
	); err != nil {
		return fault.UsageWrap(err, "")
	}

	typ := strings.ToLower(strings.TrimSpace(p.String("type")))
	if typ == "" {
		typ = SwitchTypeOpen
	}
	if err := validation.Validate(typ, validation.In(SwitchTypeOpen, SwitchTypeBase, SwitchTypeFicon).
		Error(`-type must be open, base or ficon`)); err != nil {
		return fault.UsageWrap(err, "")
	}
	sc.base, sc.ficon = typ == SwitchTypeBase, typ == SwitchTypeFicon

	sc.name = strings.TrimSpace(p.String("name"))
	if sc.name == "" {
		sc.name = fmt.Sprintf("switch%d", sc.did)
	}
	if from := strings.TrimSpace(p.String("from")); from != "" {
		if sc.from, err = strconv.Atoi(from); err != nil {
			return fault.Usage("-from %q is not a fabric ID", from)
		}
		if err := fosapi.ValidateFID(sc.from); err != nil {
			return fault.UsageWrap(err, "-from")
		}
	}
	for flag, dst := range map[string]*[]string{"ports": &sc.ports, "ge_ports": &sc.gePorts} {
		if v := strings.TrimSpace(p.String(flag)); v != "" {
			if *dst, err = ranges.SlotPorts(v); err != nil {
				return fault.UsageWrap(err, "-"+flag)
			}
		}
	}
	return nil
}

// SwitchCreate creates and configures a logical switch and moves ports to it.
func SwitchCreate() runner.Script {
	sc := &switchCreate{}
	return runner.Script{
		Def: params.Definition{
			Name:        "switch_create",
			Version:     version,
			Description: "Create a logical switch.",
			FIDRequired: true,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: `Optional. Switch user friendly name. The default is ` +
					`"switchxx" where "xx" is the domain ID`},
				&cli.StringFlag{Name: "did", Usage: "Required. Domain ID, 1-239"},
				&cli.BoolFlag{Name: "idid", Usage: "Optional. Make the domain ID insistent"},
				&cli.BoolFlag{Name: "xisl", Usage: "Optional. Permit the use of ISLs in the base switch"},
				&cli.StringFlag{Name: "type", Value: SwitchTypeOpen, Usage: `Optional. "base", "ficon" or "open"`},
				&cli.StringFlag{Name: "ports", Usage: `Optional. Ports to add, for example "3-4/0-47"`},
				&cli.StringFlag{Name: "ge_ports", Usage: "Optional. Same as -ports but for GE ports"},
				&cli.StringFlag{Name: "from", Usage: "Optional. FID the ports are in. The default is the default switch"},
			},
			Validate: func(p *params.Params) error {
				return (&switchCreate{}).parse(p)
			},
		},
		Feedback: func(p *params.Params) []util.Field {
			return append(fidField(p),
				util.Field{Label: "Name", Flag: "name", Value: p.String("name")},
				util.Field{Label: "DID", Flag: "did", Value: p.String("did")},
				util.Field{Label: "Insistent", Flag: "idid", Value: p.Bool("idid")},
				util.Field{Label: "XISL", Flag: "xisl", Value: p.Bool("xisl")},
				util.Field{Label: "Switch type", Flag: "type", Value: p.String("type")},
				util.Field{Label: "Ports", Flag: "ports", Value: p.String("ports")},
				util.Field{Label: "GE ports", Flag: "ge_ports", Value: p.String("ge_ports")},
				util.Field{Label: "From FID", Flag: "from", Value: p.String("from")},
			)
		},
		UseCLI: true,
		Prepare: func(_ context.Context, rc *runner.RunContext) error {
			return sc.parse(rc.Params)
		},
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			return sc.run(ctx, rc)
		},
	}
}

func (sc *switchCreate) run(ctx context.Context, rc *runner.RunContext) error {
	s := rc.Session
	rc.Log.Echo(fmt.Sprintf("Creating logical switch FID %d", sc.fid))
	if err := fosapi.CreateSwitch(ctx, s, sc.fid, sc.base, sc.ficon); err != nil {
		return failed(err, "create logical switch FID %d", sc.fid)
	}

	rc.Log.Echo("Configuring the switch name and domain ID")
	if err := fosapi.FibreChannelSwitch(ctx, s, sc.fid, map[string]interface{}{
		"domain-id":                 sc.did,
		"user-friendly-name":        sc.name,
		"fabric-user-friendly-name": sc.name + "_fab",
	}); err != nil {
		return failed(err, "configure FID %d", sc.fid)
	}
	if rc.Params.Bool("idid") {
		if err := fosapi.FabricConfiguration(ctx, s, sc.fid,
			map[string]interface{}{"insistent-domain-id-enabled": true}); err != nil {
			return failed(err, "set insistent domain ID")
		}
	}
	if err := fosapi.SwitchConfiguration(ctx, s, sc.fid,
		map[string]interface{}{"xisl-enabled": rc.Params.Bool("xisl")}); err != nil {
		return failed(err, `configure "Allow XISL"`)
	}

	var result fosapi.MoveResult
	if len(sc.ports)+len(sc.gePorts) > 0 {
		from := sc.from
		if from == 0 {
			switches, err := fosapi.LogicalSwitches(ctx, s)
			if err != nil {
				return failed(err, "read the logical switches")
			}
			from = switches[0].FabricID
		}
		var err error
		result, err = fosapi.AddPorts(ctx, s, sc.fid, from, sc.ports, sc.gePorts, fosapi.MoveOptions{
			Best:   true,
			CLI:    rc.CLI,
			Settle: rc.Settle,
			Log:    rc.Log.Entry(),
		})
		if err != nil {
			return failed(err, "add ports")
		}
		rc.Log.Echo("Successfully added ports: " + joinPorts(result.Moved))
		if len(result.Failed) > 0 {
			rc.Log.Warn("Failed to add ports: " + joinPorts(result.Failed))
		}
	}

	rc.Log.Echo(fmt.Sprintf("Enabling FID %d", sc.fid))
	if err := fosapi.EnableSwitch(ctx, s, sc.fid); err != nil {
		return failed(err, "enable switch FID %d", sc.fid)
	}
	moved := lo.Filter(result.Moved, func(p string, _ int) bool { return lo.Contains(sc.ports, p) })
	if err := fosapi.EnablePorts(ctx, s, sc.fid, moved, false); err != nil {
		return failed(err, "enable ports of FID %d", sc.fid)
	}

	if len(result.Failed) > 0 {
		return fault.Action(nil, fmt.Sprintf("%d ports were not added to FID %d", len(result.Failed), sc.fid))
	}
	return nil
}
