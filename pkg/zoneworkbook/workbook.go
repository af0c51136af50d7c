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

// Package zoneworkbook reads the zone worksheet of a zoning workbook into
// the zoning operations it describes.
package zoneworkbook

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
)

// DefaultSheet is the worksheet read when none is named.
const DefaultSheet = "zone"

// Column headers.
const (
	ColObject    = "Zone_Object"
	ColAction    = "Action"
	ColName      = "Name"
	ColMatch     = "Match"
	ColMember    = "Member"
	ColPrincipal = "Principal Member"
	ColComments  = "Comments"
)

// Headers are the columns the zone worksheet must have.
var Headers = []string{ColObject, ColAction, ColName, ColMatch, ColMember, ColPrincipal, ColComments}

// Zone objects.
const (
	ObjectAlias    = "alias"
	ObjectZone     = "zone"
	ObjectPeerZone = "peer_zone"
	ObjectZoneCfg  = "zone_cfg"
	ObjectComment  = "comment"
)

// Actions.
const (
	ActionCreate    = "create"
	ActionDelete    = "delete"
	ActionAddMem    = "add_mem"
	ActionRemoveMem = "remove_mem"
)

// MatchExact is the only supported match type.
const MatchExact = "exact"

var (
	objects = []string{ObjectAlias, ObjectZone, ObjectPeerZone, ObjectZoneCfg}
	actions = []string{ActionCreate, ActionDelete, ActionAddMem, ActionRemoveMem}
)

// Row is one non-blank worksheet row after carrying forward empty keys.
// Number is the Excel row number.
type Row struct {
	Number    int
	Object    string
	Action    string
	Name      string
	Match     string
	Member    string
	Principal string
	Comments  string
	// Carried is set when Object, Action and Name all came from earlier rows.
	Carried bool
}

// Operation is one zoning change: consecutive rows for the same object,
// action and name merged into one member list.
type Operation struct {
	Object     string
	Action     string
	Name       string
	Members    []string
	Principals []string
	Rows       []int
}

func (o Operation) String() string {
	return fmt.Sprintf("%s %s %s (row %s)", o.Object, o.Action, o.Name,
		strings.Join(lo.Map(o.Rows, func(r int, _ int) string { return fmt.Sprint(r) }), ", "))
}

// Read opens path and parses sheet. An empty sheet name reads DefaultSheet.
// Problems with the content are reported together as one usage error.
func Read(path, sheet string) ([]Operation, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fault.UsageWrap(err, "open zone workbook "+path)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fault.Usage("zone workbook %s has no %q worksheet", path, sheet)
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fault.UsageWrap(err, "read zone workbook "+path)
	}

	rows, err := Parse(cells)
	if err != nil {
		return nil, err
	}
	return Operations(rows), nil
}

// Parse converts worksheet cells, header row first, to rows. Blank rows are
// skipped. An empty Zone_Object, Action or Name is taken from the previous
// row; setting one of them clears the ones after it.
func Parse(cells [][]string) ([]Row, error) {
	if len(cells) < 2 {
		return nil, fault.Usage("empty zone worksheet, nothing to process")
	}
	col := map[string]int{}
	for i, h := range cells[0] {
		col[strings.TrimSpace(h)] = i
	}
	var problems []string
	for _, h := range Headers {
		if _, ok := col[h]; !ok {
			problems = append(problems, fmt.Sprintf("missing column %q", h))
		}
	}
	if len(problems) > 0 {
		return nil, fault.Usage("zone worksheet: %s", strings.Join(problems, "; "))
	}

	var rows []Row
	var prev [3]string
	for i, line := range cells[1:] {
		number := i + 2
		cell := func(h string) string {
			if c := col[h]; c < len(line) {
				return strings.TrimSpace(line[c])
			}
			return ""
		}
		if lo.EveryBy(Headers, func(h string) bool { return cell(h) == "" }) {
			continue
		}

		r := Row{
			Number:    number,
			Match:     cell(ColMatch),
			Member:    cell(ColMember),
			Principal: cell(ColPrincipal),
			Comments:  cell(ColComments),
		}
		if cell(ColObject) == ObjectComment {
			r.Object = ObjectComment
			rows = append(rows, r)
			continue
		}

		keys := [3]string{cell(ColObject), cell(ColAction), cell(ColName)}
		carried := 0
		for k, v := range keys {
			if v != "" {
				prev[k] = v
				for j := k + 1; j < len(prev); j++ {
					prev[j] = ""
				}
				continue
			}
			if prev[k] == "" {
				problems = append(problems, fmt.Sprintf("row %d: missing %s", number, Headers[k]))
				continue
			}
			keys[k] = prev[k]
			carried++
		}
		r.Object, r.Action, r.Name = keys[0], keys[1], keys[2]
		r.Carried = carried == len(keys)
		if r.Match == "" {
			r.Match = MatchExact
		}

		switch {
		case r.Object != "" && !lo.Contains(objects, r.Object):
			problems = append(problems, fmt.Sprintf("row %d: unknown %s %q", number, ColObject, r.Object))
		case r.Action != "" && !lo.Contains(actions, r.Action):
			problems = append(problems, fmt.Sprintf("row %d: %q is not a valid %s for %s %q",
				number, r.Action, ColAction, ColObject, r.Object))
		case r.Match != MatchExact:
			problems = append(problems, fmt.Sprintf("row %d: %s %q is not supported", number, ColMatch, r.Match))
		case r.Principal != "" && r.Object != ObjectPeerZone:
			problems = append(problems, fmt.Sprintf("row %d: %s is only valid for %s", number, ColPrincipal,
				ObjectPeerZone))
		}
		rows = append(rows, r)
	}

	if len(problems) > 0 {
		return nil, fault.Usage("zone worksheet: %s", strings.Join(problems, "; "))
	}
	return rows, nil
}

// Operations merges rows into operations. A row whose keys were all carried
// forward extends the previous operation. Comment rows are dropped.
func Operations(rows []Row) []Operation {
	var ops []Operation
	for _, r := range rows {
		if r.Object == ObjectComment {
			continue
		}
		if !r.Carried || len(ops) == 0 {
			ops = append(ops, Operation{Object: r.Object, Action: r.Action, Name: r.Name})
		}
		op := &ops[len(ops)-1]
		op.Rows = append(op.Rows, r.Number)
		if r.Member != "" {
			op.Members = append(op.Members, r.Member)
		}
		if r.Principal != "" {
			op.Principals = append(op.Principals, r.Principal)
		}
	}
	return ops
}

// Validate checks that each operation has what its action needs.
func Validate(ops []Operation) error {
	var problems []string
	for _, op := range ops {
		switch {
		case (op.Action == ActionAddMem || op.Action == ActionRemoveMem) &&
			len(op.Members)+len(op.Principals) == 0:
			problems = append(problems, op.String()+": no members")
		case op.Action == ActionCreate && op.Object == ObjectZoneCfg && len(op.Members) == 0:
			problems = append(problems, op.String()+": a zone configuration needs at least one zone")
		case op.Action == ActionCreate && op.Object == ObjectPeerZone && len(op.Principals) == 0:
			problems = append(problems, op.String()+": a peer zone needs a principal member")
		}
	}
	if len(problems) > 0 {
		return errors.Wrap(fault.Usage("%s", strings.Join(problems, "; ")), "zone worksheet")
	}
	return nil
}
