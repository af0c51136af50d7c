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
	"strings"

	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

const (
	certColumn     = 16
	certDateLayout = "02 Jan 2006"
)

// CertsGetConstants are used in developer mode.
var CertsGetConstants = devLogin("", nil)

// CertsGet prints the security certificates and CSRs of the chassis.
func CertsGet() runner.Script {
	return runner.Script{
		Def: params.Definition{
			Name:    "certs_get",
			Version: version,
			Description: "Display the security certificates and CSRs with the dates each certificate is " +
				"valid between.",
		},
		Dispatch: func(ctx context.Context, rc *runner.RunContext) error {
			rc.Log.Echo("Getting certificates. This will take about 30 sec.")
			certs, err := fosapi.Certificates(ctx, rc.Session)
			if err != nil {
				return failed(err, "read the security certificates")
			}
			for _, c := range certs {
				if strings.TrimSpace(c.Verbose) != "" {
					rc.Log.Echo("", c.Entity+", "+c.Type+" Detail:", "", c.Verbose)
				}
			}
			rc.Log.Echo(certSummary(certs)...)
			return nil
		},
	}
}

func certSummary(certs []fosapi.SecurityCertificate) []string {
	separator := "+" + strings.Repeat(strings.Repeat("-", certColumn)+"+", 5)
	lines := []string{"", "Summary:", "", separator,
		certRow("Entity", "Type", "Present", "Begins", "Expires"),
		strings.ReplaceAll(separator, "-", "=")}
	for _, c := range certs {
		present, begins, expires := "", "", ""
		if c.Present() {
			present = "X"
		}
		if notBefore, notAfter, err := c.Validity(); err == nil {
			begins, expires = notBefore.Format(certDateLayout), notAfter.Format(certDateLayout)
		}
		lines = append(lines, certRow(c.Entity, c.Type, present, begins, expires), separator)
	}
	return lines
}

func certRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(util.PadRight(c+" ", certColumn))
		b.WriteString("|")
	}
	return b.String()
}
