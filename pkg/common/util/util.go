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
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"strings"
)

// MaskIPAddr replaces every IPv4 octet but the last with "xxx". With keepLast
// false the last octet is masked too. IPv6 addresses keep only the last group
// the same way. A port suffix is kept and host names are returned unchanged.
func MaskIPAddr(addr string, keepLast bool) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, ""
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return addr
	}

	sep := "."
	if ip.To4() == nil {
		sep = ":"
	}
	parts := strings.Split(host, sep)
	for i := 0; i < len(parts)-1; i++ {
		parts[i] = "xxx"
	}
	if !keepLast {
		parts[len(parts)-1] = "xxx"
	}
	masked := strings.Join(parts, sep)
	if port != "" {
		return net.JoinHostPort(masked, port)
	}
	return masked
}

// PrettyJSON indents a JSON body for the debug log. Bodies that are not JSON
// are returned unchanged.
func PrettyJSON(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}

// Field is one line of the command line feedback block.
type Field struct {
	Label string
	Flag  string
	Value interface{}
}

// FeedbackLines renders "Label, -flag:   value" lines with aligned values.
func FeedbackLines(fields []Field) []string {
	width := 0
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = fmt.Sprintf("%s, -%s:", f.Label, f.Flag)
		if len(keys[i]) > width {
			width = len(keys[i])
		}
	}

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("%-*s %v", width+1, keys[i], f.Value)
	}
	return lines
}

// PadRight pads s with spaces to n characters.
func PadRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
