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
	"os"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	cli "github.com/urfave/cli/v2"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/ranges"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/foscli"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// PortConfigConstants are used in developer mode.
var PortConfigConstants = devLogin("1", map[string]interface{}{
	"p":   "0/0-3",
	"a":   "disable,default",
	"cli": "",
})

// portTarget is the input to a port action. Names is only set for the name
// action.
type portTarget struct {
	fid   int
	ports []string
	names []fosapi.PortName
	cmd   string
}

type portAction struct {
	help string
	run  func(ctx context.Context, rc *runner.RunContext, t portTarget) error
}

var portActions = map[string]portAction{
	"clear": {help: "Clear port statistics", run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
		return fosapi.ClearStats(ctx, rc.Session, t.fid, t.ports, nil)
	}},
	"cli": {help: "Execute the CLI command given with -cli for each port", run: runPortCLI},
	"default": {help: "Disable and set ports to the default port configuration",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.DefaultPortConfig(ctx, rc.Session, t.fid, t.ports)
		}},
	"disable": {help: "Disable ports", run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
		return fosapi.DisablePorts(ctx, rc.Session, t.fid, t.ports, false)
	}},
	"enable": {help: "Enable ports", run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
		return fosapi.EnablePorts(ctx, rc.Session, t.fid, t.ports, false)
	}},
	"p_disable": {help: "Persistently disable ports",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.DisablePorts(ctx, rc.Session, t.fid, t.ports, true)
		}},
	"p_enable": {help: "Persistently enable ports",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.EnablePorts(ctx, rc.Session, t.fid, t.ports, true)
		}},
	"eport_disable": {help: "Disable ports for use as an E-Port",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.EPort(ctx, rc.Session, t.fid, t.ports, false)
		}},
	"eport_enable": {help: "Enable ports for use as an E-Port",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.EPort(ctx, rc.Session, t.fid, t.ports, true)
		}},
	"nport_disable": {help: "Disable ports for use as an N-Port",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.NPort(ctx, rc.Session, t.fid, t.ports, false)
		}},
	"nport_enable": {help: "Enable ports for use as an N-Port",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.NPort(ctx, rc.Session, t.fid, t.ports, true)
		}},
	"decom": {help: "Decommission ports (E-Ports only)",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.DecommissionPorts(ctx, rc.Session, t.fid, t.ports)
		}},
	"name": {help: "Set the port name. The port list, -p, must be s/p:port_name",
		run: func(ctx context.Context, rc *runner.RunContext, t portTarget) error {
			return fosapi.NamePorts(ctx, rc.Session, t.fid, t.names)
		}},
}

const actionHelp = "help"

// PortConfig runs a list of actions against a list of ports.
func PortConfig() runner.Script {
	var (
		fid     int
		actions []string
		spec    string
	)
	return runner.Script{
		Def: params.Definition{
			Name:        "port_config",
			Version:     version,
			Description: "Take actions, such as enable or set to the default configuration, on a list of ports.",
			FIDRequired: true,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "p", Usage: `Required. Ports or port ranges. "*" is every port, ` +
					`"3-4/0-1,5/3" is 3/0, 3/1, 4/0, 4/1 and 5/3. An entry with a "." is a file of ports. ` +
					`Use s/p:port_name with the name action`},
				&cli.StringFlag{Name: "a", Usage: `Required. CSV list of actions. Enter "help" for the list`},
				&cli.StringFlag{Name: "cli", Usage: `Optional. CLI command for the cli action. $p is replaced ` +
					`by the port`},
			},
			Validate: func(p *params.Params) error {
				if strings.TrimSpace(p.String("a")) == "" {
					return fault.Usage("-a is required")
				}
				if strings.TrimSpace(p.String("p")) == "" && !lo.Contains(p.Strings("a"), actionHelp) {
					return fault.Usage("-p is required")
				}
				return validSingleFID(p)
			},
		},
		Feedback: func(p *params.Params) []util.Field {
			return append(fidField(p),
				util.Field{Label: "Ports", Flag: "p", Value: p.String("p")},
				util.Field{Label: "Actions", Flag: "a", Value: p.String("a")},
				util.Field{Label: "CLI", Flag: "cli", Value: p.String("cli")},
			)
		},
		UseCLI: true,
		Prepare: func(_ context.Context, rc *runner.RunContext) error {
			var err error
			if fid, err = rc.Params.SingleFID(); err != nil {
				return err
			}
			actions = lo.Map(rc.Params.Strings("a"), func(a string, _ int) string { return strings.TrimSpace(a) })
			if lo.Contains(actions, actionHelp) {
				rc.Log.Echo(actionTable()...)
				return runner.ErrStop
			}
			if unknown := lo.Reject(actions, func(a string, _ int) bool {
				_, ok := portActions[a]
				return ok
			}); len(unknown) > 0 {
				return fault.Usage("invalid action: %s. Enter -a help for the list of actions", strings.Join(unknown, ", "))
			}
			if lo.Contains(actions, "cli") && strings.TrimSpace(rc.Params.String("cli")) == "" {
				return fault.Usage("cli specified with -a, but -cli was not specified")
			}
			spec, err = portSpec(rc.Params.String("p"))
			return err
		},
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			existing, err := fosapi.PortNames(ctx, rc.Session, fid)
			if err != nil {
				return failed(err, "read the ports of FID %d", fid)
			}
			target, err := selectPorts(spec, existing)
			if err != nil {
				return err
			}
			if len(target.ports) == 0 {
				return fault.Action(nil, fmt.Sprintf("no matching ports found in the logical switch with FID %d", fid))
			}
			target.fid = fid
			target.cmd = rc.Params.String("cli")
			rc.Log.Echo(fmt.Sprintf("Total matching ports to act on: %d", len(target.ports)))

			for _, a := range actions {
				rc.Log.Echo("Action: " + a)
				if err := portActions[a].run(ctx, rc, target); err != nil {
					return failed(err, "action %s", a)
				}
				rc.Log.Echo("Action " + a + " succeeded")
			}
			return nil
		},
	}
}

func actionTable() []string {
	names := append(lo.Keys(portActions), actionHelp)
	sort.Strings(names)
	width := lo.Max(lo.Map(names, func(n string, _ int) int { return len(n) })) + 2
	lines := []string{util.PadRight("Action", width) + "Description", util.PadRight("------", width) + "-----------"}
	for _, n := range names {
		h := "Display this help message and exit."
		if a, ok := portActions[n]; ok {
			h = a.help
		}
		lines = append(lines, util.PadRight(n, width)+h)
	}
	return lines
}

// portSpec returns the -p value, reading it from a file when it contains a
// ".". File lines may themselves be CSV.
func portSpec(p string) (string, error) {
	p = strings.TrimSpace(p)
	if !strings.Contains(p, ".") {
		return p, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fault.UsageWrap(err, "read port file")
	}
	var items []string
	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			items = append(items, line)
		}
	}
	return strings.Join(items, ","), nil
}

// selectPorts keeps the ports of spec that exist in the switch. Entries in
// s/p:name form are kept with their name.
func selectPorts(spec string, existing []string) (portTarget, error) {
	var t portTarget
	var rangeItems []string
	inSwitch := mapset.NewSet(existing...)
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		port, name, named := strings.Cut(item, ":")
		if !named {
			if item != "" {
				rangeItems = append(rangeItems, item)
			}
			continue
		}
		port = ranges.NormalizePort(port)
		if inSwitch.Contains(port) {
			t.names = append(t.names, fosapi.PortName{Port: port, Name: name})
		}
	}

	if len(rangeItems) > 0 {
		ports, err := ranges.Filter(strings.Join(rangeItems, ","), existing)
		if err != nil {
			return t, fault.UsageWrap(err, "-p")
		}
		t.ports = ports
	}
	t.ports = lo.Uniq(append(t.ports, lo.Map(t.names, func(pn fosapi.PortName, _ int) string { return pn.Port })...))
	return t, nil
}

func runPortCLI(ctx context.Context, rc *runner.RunContext, t portTarget) error {
	rc.Log.Echo(fmt.Sprintf("Executing CLI commands. This will take about %d seconds",
		int(rc.Settle.Seconds())+len(t.ports)))
	var errs []string
	for _, p := range t.ports {
		cmd := strings.ReplaceAll(t.cmd, "$p", foscli.CLIPort(p))
		out, err := rc.CLI.Run(ctx, t.fid, cmd)
		if errors.Is(err, foscli.ErrNotConnected) {
			return fault.Action(err, "CLI commands not run")
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", cmd, err))
			continue
		}
		rc.Log.Log("Command:  "+cmd, "Response: "+strings.TrimSpace(out))
	}
	if err := foscli.Wait(ctx, rc.Settle); err != nil {
		return err
	}
	if len(errs) > 0 {
		return fault.Action(nil, "CLI commands failed: "+strings.Join(errs, "; "))
	}
	return nil
}
