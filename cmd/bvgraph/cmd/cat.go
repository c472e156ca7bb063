// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaissmai/bvgraph"
)

var (
	catBasename string
	catNode     int64
)

var catCmd = &cobra.Command{
	Use:   "cat",
	Short: "Dump a compressed graph's adjacency lists",
	Long: `cat sequentially decodes and prints every node's successors as
"node: s1 s2 s3 ...", one line per node. With --node it instead performs a
single random-access lookup via the graph's offsets index.`,
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.Flags().StringVarP(&catBasename, "basename", "b", "", "graph basename (required)")
	catCmd.Flags().Int64Var(&catNode, "node", -1, "decode only this node via random access instead of a full sequential scan")
	catCmd.MarkFlagRequired("basename")
}

func runCat(cmd *cobra.Command, args []string) error {
	mf, err := bvgraph.OpenMapped(catBasename)
	if err != nil {
		return fmt.Errorf("cat: %w", err)
	}
	defer mf.Close()

	w := bufio.NewWriter(cmd.OutOrStdout())
	defer w.Flush()

	if catNode >= 0 {
		ra, err := mf.NewRandomAccessReader()
		if err != nil {
			return fmt.Errorf("cat: %w", err)
		}
		succ, err := ra.Successors(catNode)
		if err != nil {
			return fmt.Errorf("cat: %w", err)
		}
		fmt.Fprintf(w, "%d:", catNode)
		for _, s := range succ {
			fmt.Fprintf(w, " %d", s)
		}
		fmt.Fprintln(w)
		return nil
	}

	r := mf.NewSequentialReader()
	for {
		v, succ, ok := r.Next()
		if !ok {
			break
		}
		fmt.Fprintf(w, "%d:", v)
		for _, s := range succ {
			fmt.Fprintf(w, " %d", s)
		}
		fmt.Fprintln(w)
	}
	return r.Err()
}
