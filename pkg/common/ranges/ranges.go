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

// Package ranges expands the numeric and slot/port range notations accepted
// on the command line.
package ranges

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// All is the wildcard accepted for FID and port lists.
const All = "*"

// Largest slot and port numbers accepted in the slot/port notation.
const (
	MaxSlot = 31
	MaxPort = 511
)

// Ints expands a CSV of integers and ranges, "0-2,9,6-5", into a sorted list
// without duplicates. Reversed ranges are accepted. Every value must be within
// low and high; this is checked before a range is expanded.
func Ints(s string, low, high int) ([]int, error) {
	var out []int
	for _, item := range strings.Split(strings.ReplaceAll(s, " ", ""), ",") {
		if item == "" {
			continue
		}
		first, last, err := bounds(item)
		if err != nil {
			return nil, err
		}
		if first < low || last > high {
			return nil, fmt.Errorf("%q is outside %d-%d", item, low, high)
		}
		for v := first; v <= last; v++ {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty range %q", s)
	}
	out = lo.Uniq(out)
	sort.Ints(out)
	return out, nil
}

func bounds(item string) (int, int, error) {
	parts := strings.Split(item, "-")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("invalid range %q", item)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid number %q in %q", p, item)
		}
		vals[i] = v
	}
	if len(vals) == 1 {
		return vals[0], vals[0], nil
	}
	if vals[0] > vals[1] {
		return vals[1], vals[0], nil
	}
	return vals[0], vals[1], nil
}

// NormalizePort puts a port reference in s/p notation. A bare port number is
// on slot 0.
func NormalizePort(port string) string {
	port = strings.TrimSpace(port)
	if strings.Contains(port, "/") {
		return port
	}
	return "0/" + port
}

// SlotPorts expands "3-4/0-1,5/3" into s/p ports in the order given:
// 3/0, 3/1, 4/0, 4/1, 5/3. A bare number is a port on slot 0. A port part
// that is not numeric, such as "ge1", is kept as is.
func SlotPorts(s string) ([]string, error) {
	var out []string
	for _, item := range strings.Split(strings.ReplaceAll(s, " ", ""), ",") {
		if item == "" {
			continue
		}
		slotPart, portPart := splitSlotPort(item)
		if portPart == "" || slotPart == "" {
			return nil, fmt.Errorf("invalid port range %q", item)
		}
		slots, err := Ints(slotPart, 0, MaxSlot)
		if err != nil {
			return nil, fmt.Errorf("invalid slot in %q: %w", item, err)
		}
		ports, err := Ints(portPart, 0, MaxPort)
		if err != nil {
			if portPart == All || !isNumericish(portPart) {
				for _, slot := range slots {
					out = append(out, fmt.Sprintf("%d/%s", slot, portPart))
				}
				continue
			}
			return nil, fmt.Errorf("invalid port in %q: %w", item, err)
		}
		for _, slot := range slots {
			for _, port := range ports {
				out = append(out, fmt.Sprintf("%d/%d", slot, port))
			}
		}
	}
	return lo.Uniq(out), nil
}

func splitSlotPort(item string) (string, string) {
	parts := strings.Split(item, "/")
	switch len(parts) {
	case 1:
		return "0", parts[0]
	case 2:
		return parts[0], parts[1]
	default:
		return "", ""
	}
}

func isNumericish(s string) bool {
	return strings.Trim(s, "0123456789-") == ""
}

// Filter returns the ports named by spec that exist in existing, in the order
// of existing. spec is "*", or a SlotPorts expression where the port part may
// be "*" for every port of the slot.
func Filter(spec string, existing []string) ([]string, error) {
	if strings.TrimSpace(spec) == All {
		return append([]string(nil), existing...), nil
	}
	wanted, err := SlotPorts(spec)
	if err != nil {
		return nil, err
	}

	want := mapset.NewSet[string]()
	wholeSlots := mapset.NewSet[string]()
	for _, p := range wanted {
		slot, port, _ := strings.Cut(p, "/")
		if port == All {
			wholeSlots.Add(slot)
			continue
		}
		want.Add(p)
	}

	return lo.Filter(existing, func(p string, _ int) bool {
		slot, _, _ := strings.Cut(p, "/")
		return want.Contains(p) || wholeSlots.Contains(slot)
	}), nil
}
