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

// Package params resolves the invocation parameters of a script, either from
// the command line or from constants compiled in for developer mode.
package params

import (
	"net"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/nvidia/fos-rest-examples/pkg/common/credential"
	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/common/ranges"
	"github.com/nvidia/fos-rest-examples/pkg/common/util"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
)

// Params is a resolved, validated invocation. It is not modified after
// Resolve returns.
type Params struct {
	IP        string
	User      string
	Password  credential.Secret
	Security  string
	FID       string
	Debug     bool
	LogFolder string
	NoLog     bool
	Suppress  bool

	// Options holds the script specific options by flag name.
	Options map[string]interface{}
}

// Credential returns the login credential.
func (p *Params) Credential() credential.Credential {
	return credential.New(p.User, p.Password.Value)
}

// String returns a script option as a string.
func (p *Params) String(name string) string {
	return cast.ToString(p.Options[name])
}

// Bool returns a script option as a bool.
func (p *Params) Bool(name string) bool {
	return cast.ToBool(p.Options[name])
}

// Int returns a script option as an int.
func (p *Params) Int(name string) (int, error) {
	v, err := cast.ToIntE(p.Options[name])
	return v, errors.Wrapf(err, "-%s", name)
}

// Strings returns a script option as a list. A single string is split on
// commas.
func (p *Params) Strings(name string) []string {
	v := p.Options[name]
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return strings.Split(s, ",")
	}
	l, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	return l
}

// SingleFID parses -fid as one fabric ID.
func (p *Params) SingleFID() (int, error) {
	fid, err := cast.ToIntE(strings.TrimSpace(p.FID))
	if err != nil {
		return 0, fault.Usage("-fid %q is not a fabric ID", p.FID)
	}
	if err := fosapi.ValidateFID(fid); err != nil {
		return 0, fault.UsageWrap(err, "-fid")
	}
	return fid, nil
}

// FIDList parses -fid as a list of fabric IDs and ranges, "1-3,9".
func (p *Params) FIDList() ([]int, error) {
	fids, err := ranges.Ints(p.FID, fosapi.MinFID, fosapi.MaxFID)
	if err != nil {
		return nil, fault.UsageWrap(err, "-fid")
	}
	for _, fid := range fids {
		if err := fosapi.ValidateFID(fid); err != nil {
			return nil, fault.UsageWrap(err, "-fid")
		}
	}
	return fids, nil
}

// LoginFields are the feedback lines shared by every script.
func (p *Params) LoginFields() []util.Field {
	return []util.Field{
		{Label: "IP address", Flag: "ip", Value: util.MaskIPAddr(p.IP, true)},
		{Label: "ID", Flag: "id", Value: p.User},
		{Label: "Security", Flag: "s", Value: p.Security},
	}
}

// LogFields are the feedback lines for the logging options.
func (p *Params) LogFields() []util.Field {
	return []util.Field{
		{Label: "Log folder", Flag: "log", Value: p.LogFolder},
		{Label: "No log", Flag: "nl", Value: p.NoLog},
		{Label: "Debug", Flag: "d", Value: p.Debug},
		{Label: "Suppress", Flag: "sup", Value: p.Suppress},
	}
}

// validate checks the common parameters, then the script rules.
func (p *Params) validate(def Definition) error {
	p.Security = normalizeSecurity(p.Security)

	err := validation.ValidateStruct(p,
		validation.Field(&p.IP, validation.Required.Error("-ip is required"), validation.By(hostOrHostPort)),
		validation.Field(&p.User, validation.Required.Error("-id is required")),
		validation.Field(&p.Password, validation.By(requiredSecret)),
		validation.Field(&p.Security, validation.In(fosapi.SecuritySelf, fosapi.SecurityCA, fosapi.SecurityNone).
			Error("-s must be self, CA or none")),
		validation.Field(&p.FID, validation.When(def.FIDRequired, validation.Required.Error("-fid is required"))),
	)
	if err != nil {
		return fault.UsageWrap(err, "invalid parameters")
	}
	if def.Validate != nil {
		if err := def.Validate(p); err != nil {
			return fault.UsageWrap(err, "invalid parameters")
		}
	}
	return nil
}

func normalizeSecurity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "self":
		return fosapi.SecuritySelf
	case "ca":
		return fosapi.SecurityCA
	case "none":
		return fosapi.SecurityNone
	default:
		return s
	}
}

func hostOrHostPort(value interface{}) error {
	s, _ := value.(string)
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	return is.Host.Validate(s)
}

func requiredSecret(value interface{}) error {
	if s, ok := value.(credential.Secret); !ok || s.IsEmpty() {
		return errors.New("-pw is required")
	}
	return nil
}
