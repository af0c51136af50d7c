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
package credential

import (
	"encoding/json"
	"strings"
)

const masked = "********"

// Secret is a string that never prints its value.
type Secret struct {
	Value string
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s.Value == "" {
		return ""
	}
	return masked
}

// MarshalJSON keeps the value out of JSON output.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// IsEmpty returns true if no secret is set.
func (s Secret) IsEmpty() bool {
	return s.Value == ""
}

// Credential is the switch login: user id and password.
type Credential struct {
	User     string `json:"user"`
	Password Secret `json:"password"`
}

// New creates a Credential with the given user and password.
func New(user string, password string) Credential {
	return Credential{
		User:     user,
		Password: Secret{Value: password},
	}
}

// IsValid returns true if both the user and the password are set.
func (c Credential) IsValid() bool {
	return strings.TrimSpace(c.User) != "" && !c.Password.IsEmpty()
}
