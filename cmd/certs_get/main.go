// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// certs_get displays the chassis security certificates and their validity dates.
package main

import (
	"os"

	"github.com/nvidia/fos-rest-examples/internal/scripts"
	"github.com/nvidia/fos-rest-examples/pkg/runner"
)

// devMode is set at link time.
var devMode string

func main() {
	os.Exit(runner.Run(scripts.CertsGet(), devMode, scripts.CertsGetConstants))
}
