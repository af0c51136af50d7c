// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// login_test tests login and logout of the FOS REST API.
//
// Build with -ldflags "-X main.devMode=true" to ignore the command line and
// use the developer mode constants in internal/scripts.
package main

import (
	"os"

	"github.com/nvidia/fos-rest-examples/internal/scripts"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// devMode is set at link time.
var devMode string

func main() {
	os.Exit(runner.Run(scripts.LoginTest(), devMode, scripts.LoginTestConstants))
}
