// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaissmai/bvgraph"
	"github.com/gaissmai/bvgraph/internal/sorter"
	"github.com/gaissmai/bvgraph/transform"
)

var (
	compressInput     string
	compressOutput    string
	compressNodes     int64
	compressWindow    int
	compressMaxRef    int
	compressMinIntLen int
	compressBatch     int
	compressTempDir   string
)

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Compress a plain-text arc list into a B.graph/B.properties/B.offsets triple",
	Long: `compress reads "src dst" pairs (one per line, whitespace separated)
from the input file, externally sorts them by (src, dst), and writes the
BV-compressed adjacency lists plus their metadata, fallback offsets index
and degree-cumulative function to <output>.graph, <output>.properties,
<output>.offsets and <output>.dcf.`,
	RunE: runCompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)

	compressCmd.Flags().StringVarP(&compressInput, "input", "i", "", "input arc-list file (required)")
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "output basename (required)")
	compressCmd.Flags().Int64VarP(&compressNodes, "nodes", "n", 0, "total node count (required)")
	compressCmd.Flags().IntVar(&compressWindow, "window", bvgraph.DefaultConfig().Window, "back-reference window size")
	compressCmd.Flags().IntVar(&compressMaxRef, "maxrefcount", bvgraph.DefaultConfig().MaxRefCount, "maximum reference chain depth, 0 disables references")
	compressCmd.Flags().IntVar(&compressMinIntLen, "minintervallength", bvgraph.DefaultConfig().MinIntervalLength, "minimum run length extracted as an interval")
	compressCmd.Flags().IntVar(&compressBatch, "batch-size", 1<<20, "arcs buffered in RAM before a sorter run is spilled")
	compressCmd.Flags().StringVar(&compressTempDir, "temp-dir", "", "directory for sorter run files, defaults to the OS temp dir")

	compressCmd.MarkFlagRequired("input")
	compressCmd.MarkFlagRequired("output")
	compressCmd.MarkFlagRequired("nodes")
}

func runCompress(cmd *cobra.Command, args []string) error {
	tempDir := compressTempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	arcs, err := readArcList(compressInput, tempDir, compressBatch)
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	lender := transform.FromSortedArcs(arcs, compressNodes)

	cfg := bvgraph.DefaultConfig()
	cfg.Window = compressWindow
	cfg.MaxRefCount = compressMaxRef
	cfg.MinIntervalLength = compressMinIntLen

	w := bvgraph.NewWriter(bvgraph.WithConfig(cfg))
	if err := w.Write(lender); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if e, ok := lender.(errorer); ok {
		if err := e.Err(); err != nil {
			return fmt.Errorf("compress: %w", err)
		}
	}

	if err := os.WriteFile(compressOutput+".graph", w.Bytes(), 0o644); err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	propsFile, err := os.Create(compressOutput + ".properties")
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	defer propsFile.Close()
	if err := bvgraph.WriteProperties(propsFile, w.Properties()); err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	offsetsFile, err := os.Create(compressOutput + ".offsets")
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	defer offsetsFile.Close()
	if err := bvgraph.WriteOffsetsFile(offsetsFile, w.Offsets()); err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	dcfFile, err := os.Create(compressOutput + ".dcf")
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	defer dcfFile.Close()
	dcfIdx, err := bvgraph.BuildDCFIndex(w.Outdegrees())
	if err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if err := bvgraph.WriteDCFFile(dcfFile, dcfIdx); err != nil {
		return fmt.Errorf("compress: %w", err)
	}

	logger.Info("compressed graph",
		"nodes", w.Properties().Nodes,
		"arcs", w.Properties().Arcs,
		"bits", w.Properties().Length,
		"bits_per_link", float64(w.Properties().Length)/max(1, float64(w.Properties().Arcs)),
	)
	return nil
}

// readArcList streams "src dst" lines through an external sorter and
// returns the sorted iterator, so arbitrarily large inputs never need to
// fit in RAM at once (spec §4.8).
func readArcList(path, tempDir string, batchSize int) (*sorter.Iterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := sorter.New(tempDir, batchSize)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed arc line %q", line)
		}
		src, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed src in %q: %w", line, err)
		}
		dst, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed dst in %q: %w", line, err)
		}
		if err := s.Push(sorter.Arc{Src: src, Dst: dst}); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return s.Close()
}
