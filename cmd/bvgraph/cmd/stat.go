// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaissmai/bvgraph"
)

var statBasename string

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print the properties of a compressed graph",
	RunE:  runStat,
}

func init() {
	rootCmd.AddCommand(statCmd)
	statCmd.Flags().StringVarP(&statBasename, "basename", "b", "", "graph basename, e.g. 'web' for web.properties (required)")
	statCmd.MarkFlagRequired("basename")
}

func runStat(cmd *cobra.Command, args []string) error {
	f, err := os.Open(statBasename + ".properties")
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	defer f.Close()

	props, err := bvgraph.ReadProperties(f)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "nodes:              %d\n", props.Nodes)
	fmt.Fprintf(cmd.OutOrStdout(), "arcs:               %d\n", props.Arcs)
	fmt.Fprintf(cmd.OutOrStdout(), "window size:        %d\n", props.WindowSize)
	fmt.Fprintf(cmd.OutOrStdout(), "max ref count:      %d\n", props.MaxRefCount)
	fmt.Fprintf(cmd.OutOrStdout(), "min interval len:   %d\n", props.MinIntervalLength)
	fmt.Fprintf(cmd.OutOrStdout(), "byte order:         %s\n", props.ByteOrder)
	fmt.Fprintf(cmd.OutOrStdout(), "bits per link:      %.3f\n", props.BitsPerLink)
	fmt.Fprintf(cmd.OutOrStdout(), "length (bits):      %d\n", props.Length)

	if dcfData, err := os.ReadFile(statBasename + ".dcf"); err == nil {
		dcfIdx, err := bvgraph.ReadDCFFile(dcfData)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dcf total arcs:     %d\n", dcfIdx.At(props.Nodes))
	}
	return nil
}
