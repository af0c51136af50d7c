// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// port_config runs a list of actions against a list of ports.
package main

import (
	"os"

	"github.com/nvidia/fos-rest-examples/internal/scripts"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// devMode is set at link time.
var devMode string

func main() {
	os.Exit(runner.Run(scripts.PortConfig(), devMode, scripts.PortConfigConstants))
}
