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

// Package scripts defines the administration scripts. Each script is a
// runner.Script plus the constants it uses in developer mode.
package scripts

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

const version = "1.0.0"

// devLogin is the switch every script talks to in developer mode.
func devLogin(fid string, options map[string]interface{}) params.Params {
	return params.Params{
		IP:        "10.144.72.15",
		User:      "admin",
		Password:  credential.Secret{Value: "password"},
		Security:  fosapi.SecuritySelf,
		FID:       fid,
		LogFolder: "_logs",
		Options:   options,
	}
}

func fidField(p *params.Params) []util.Field {
	return []util.Field{{Label: "FID", Flag: "fid", Value: p.FID}}
}

// failed marks a driver error as the failure of one action.
func failed(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var fe *fault.Error
	if errors.As(err, &fe) {
		return err
	}
	return fault.Action(err, fmt.Sprintf(format, args...))
}

func validFIDList(p *params.Params) error {
	_, err := p.FIDList()
	return err
}

func validSingleFID(p *params.Params) error {
	_, err := p.SingleFID()
	return err
}

// forEachFID runs fn for every FID of a -fid list.
func forEachFID(ctx context.Context, rc *runner.RunContext, fn func(ctx context.Context, fid int) error) error {
	fids, err := rc.Params.FIDList()
	if err != nil {
		return err
	}
	return runner.Batch(ctx, rc, fids, runner.FIDName, fn)
}

func joinPorts(ports []string) string {
	if len(ports) == 0 {
		return "none"
	}
	return strings.Join(ports, ", ")
}
