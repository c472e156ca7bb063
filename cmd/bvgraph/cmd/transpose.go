// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaissmai/bvgraph"
	"github.com/gaissmai/bvgraph/transform"
)

var (
	transposeInput   string
	transposeOutput  string
	transposeTempDir string
	transposeBatch   int
)

var transposeCmd = &cobra.Command{
	Use:   "transpose",
	Short: "Reverse every arc of a compressed graph",
	Long: `transpose decodes <input>.graph sequentially, reverses every arc
(u, v) -> (v, u) through the external sorter, and recompresses the result
to <output>.graph/.properties/.offsets/.dcf, reusing <input>'s field codes.`,
	RunE: runTranspose,
}

func init() {
	rootCmd.AddCommand(transposeCmd)
	transposeCmd.Flags().StringVarP(&transposeInput, "input", "i", "", "input basename (required)")
	transposeCmd.Flags().StringVarP(&transposeOutput, "output", "o", "", "output basename (required)")
	transposeCmd.Flags().StringVar(&transposeTempDir, "temp-dir", "", "directory for sorter run files, defaults to the OS temp dir")
	transposeCmd.Flags().IntVar(&transposeBatch, "batch-size", 1<<20, "arcs buffered in RAM before a sorter run is spilled")
	transposeCmd.MarkFlagRequired("input")
	transposeCmd.MarkFlagRequired("output")
}

func runTranspose(cmd *cobra.Command, args []string) error {
	propsFile, err := os.Open(transposeInput + ".properties")
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	props, err := bvgraph.ReadProperties(propsFile)
	propsFile.Close()
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}

	data, err := os.ReadFile(transposeInput + ".graph")
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}

	tempDir := transposeTempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	src := bvgraph.NewSequentialReader(data, props.Codes, props.Nodes)
	lender, err := transform.Transpose(src, props.Nodes, transform.Options{TempDir: tempDir, BatchSize: transposeBatch})
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("transpose: %w", err)
	}

	w := bvgraph.NewWriter(bvgraph.WithConfig(props.Codes))
	if err := w.Write(lender); err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	if e, ok := lender.(errorer); ok {
		if err := e.Err(); err != nil {
			return fmt.Errorf("transpose: %w", err)
		}
	}

	if err := os.WriteFile(transposeOutput+".graph", w.Bytes(), 0o644); err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	outProps, err := os.Create(transposeOutput + ".properties")
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	defer outProps.Close()
	if err := bvgraph.WriteProperties(outProps, w.Properties()); err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	outOffsets, err := os.Create(transposeOutput + ".offsets")
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	defer outOffsets.Close()
	if err := bvgraph.WriteOffsetsFile(outOffsets, w.Offsets()); err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	outDCF, err := os.Create(transposeOutput + ".dcf")
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	defer outDCF.Close()
	dcfIdx, err := bvgraph.BuildDCFIndex(w.Outdegrees())
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	if err := bvgraph.WriteDCFFile(outDCF, dcfIdx); err != nil {
		return fmt.Errorf("transpose: %w", err)
	}

	logger.Info("transposed graph", "nodes", w.Properties().Nodes, "arcs", w.Properties().Arcs)
	return nil
}
