// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bvgraph",
	Short: "Compress, inspect and transform BV-encoded web graphs",
	Long: `bvgraph builds, reads and transforms the compressed adjacency-list
format described by the boldi-vigna web graph codec: back-reference copy
blocks, interval runs and gap-coded residuals over a bit stream, plus a
quasi-succinct offsets index for random access.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// errorer is satisfied by lenders that can fail mid-iteration, such as the
// transform-package Lenders backed by an external sorter; ok==false alone
// doesn't distinguish "exhausted" from "read error" (spec §7), so callers
// check Err() once Write/iteration is done.
type errorer interface {
	Err() error
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
