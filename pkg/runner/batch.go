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
package runner

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvidia/fos-rest-examples/pkg/common/fault"
	"github.com/nvidia/fos-rest-examples/pkg/fosapi"
)

// Batch runs fn once per target. A failing target is logged and the rest
// still run. A session error, an expired session included, stops the batch.
// The returned error carries the most severe failure category seen.
func Batch[T any](ctx context.Context, rc *RunContext, targets []T, name func(T) string,
	fn func(ctx context.Context, target T) error) error {
	worst := fault.ExitOK
	var failed []string
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return fault.Session(err, "interrupted")
		}
		n := name(target)
		err := fn(ctx, target)
		if err == nil {
			rc.Log.Echo(n + ": Success")
			continue
		}
		if fosapi.IsStatus(err, http.StatusUnauthorized) {
			err = fault.Session(err, "session no longer valid")
		}
		code := fault.ExitCodeFor(err)
		if code == fault.ExitUnexpected && !errors.Is(err, fault.ErrUnexpected) {
			// Driver errors are action failures unless the script says otherwise.
			code = fault.ExitActionFailed
		}
		if code == fault.ExitSession {
			rc.Log.Exception(err, n+": Failed")
			return err
		}
		if code == fault.ExitUnexpected {
			rc.Log.Exception(err, n+": Failed")
		} else {
			rc.Log.Warn(fmt.Sprintf("%s: Failed. %v", n, err))
		}
		worst = fault.Worst(worst, code)
		failed = append(failed, n)
	}

	if len(failed) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d of %d failed: %s", len(failed), len(targets), strings.Join(failed, ", "))
	switch worst {
	case fault.ExitUnexpected:
		return fault.Unexpected(nil, msg)
	case fault.ExitUsage:
		return fault.Usage("%s", msg)
	default:
		return fault.Action(nil, msg)
	}
}

// FIDName labels a FID target.
func FIDName(fid int) string {
	return fmt.Sprintf("FID %d", fid)
}
