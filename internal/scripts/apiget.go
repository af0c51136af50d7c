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
	"encoding/json"
	"strings"

	"github.com/samber/lo"
	cli "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// Output formats, the -o option.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// APIGetConstants are used in developer mode.
var APIGetConstants = devLogin("", map[string]interface{}{
	"uri": fosapi.URIChassis + "," + fosapi.URILogicalSwitch,
	"o":   FormatJSON,
})

// APIGet reads resources and prints them.
func APIGet() runner.Script {
	return runner.Script{
		Def: params.Definition{
			Name:        "api_get",
			Version:     version,
			Description: "Read resources from the FOS REST API and print them.",
			FIDUsage:    "Fabric ID for resources of a logical switch",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "uri", Usage: `Required. CSV list of resources, for example ` +
					`"brocade-interface/fibrechannel"`},
				&cli.StringFlag{Name: "o", Value: FormatJSON, Usage: `Optional. Output format, "json" or "yaml"`},
			},
			Validate: func(p *params.Params) error {
				if len(uris(p)) == 0 {
					return fault.Usage("-uri is required")
				}
				if f := outputFormat(p); f != FormatJSON && f != FormatYAML {
					return fault.Usage("-o must be json or yaml")
				}
				if strings.TrimSpace(p.FID) == "" {
					return nil
				}
				return validSingleFID(p)
			},
		},
		Feedback: func(p *params.Params) []util.Field {
			return append(fidField(p),
				util.Field{Label: "URIs", Flag: "uri", Value: p.String("uri")},
				util.Field{Label: "Output", Flag: "o", Value: outputFormat(p)},
			)
		},
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			fid := 0
			if strings.TrimSpace(rc.Params.FID) != "" {
				var err error
				if fid, err = rc.Params.SingleFID(); err != nil {
					return err
				}
			}
			format := outputFormat(rc.Params)
			return runner.Batch(ctx, rc, uris(rc.Params), fosapi.NormalizeURI,
				func(ctx context.Context, uri string) error {
					data, err := rc.Session.Get(ctx, uri, fid)
					if err != nil {
						return failed(err, "GET %s", uri)
					}
					out, err := render(data, format)
					if err != nil {
						return failed(err, "format %s", uri)
					}
					rc.Log.Echo(fosapi.NormalizeURI(uri)+":", out)
					return nil
				})
		},
	}
}

func uris(p *params.Params) []string {
	return lo.Compact(lo.Map(p.Strings("uri"), func(u string, _ int) string { return strings.TrimSpace(u) }))
}

func outputFormat(p *params.Params) string {
	f := strings.ToLower(strings.TrimSpace(p.String("o")))
	if f == "" {
		return FormatJSON
	}
	return f
}

func render(data json.RawMessage, format string) (string, error) {
	if format == FormatJSON {
		return util.PrettyJSON(data), nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
