// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command bvgraph compresses, inspects and transforms BV-encoded web graphs.
package main

import (
	"os"

	"github.com/gaissmai/bvgraph/cmd/bvgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
