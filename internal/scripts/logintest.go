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
	"github.com/nvidia/fos-rest-examples/pkg/params"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// LoginTestConstants are used in developer mode.
var LoginTestConstants = devLogin("", nil)

// LoginTest logs in and out to check access to the API.
func LoginTest() runner.Script {
	return runner.Script{
		Def: params.Definition{
			Name:        "login_test",
			Version:     version,
			Description: "Test login and logout of the FOS REST API.",
		},
	}
}
