// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompressStatCatTranspose(t *testing.T) {
	dir := t.TempDir()

	arcsPath := filepath.Join(dir, "arcs.txt")
	arcs := "0 1\n0 2\n1 2\n2 0\n"
	if err := os.WriteFile(arcsPath, []byte(arcs), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	base := filepath.Join(dir, "g")
	rootCmd.SetArgs([]string{"compress", "-i", arcsPath, "-o", base, "-n", "3"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("compress: %v", err)
	}

	for _, ext := range []string{".graph", ".properties", ".offsets", ".dcf"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Fatalf("expected %s%s to exist: %v", base, ext, err)
		}
	}

	var statOut bytes.Buffer
	rootCmd.SetOut(&statOut)
	rootCmd.SetArgs([]string{"stat", "-b", base})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !strings.Contains(statOut.String(), "nodes:") {
		t.Errorf("stat output missing nodes line: %q", statOut.String())
	}

	var catOut bytes.Buffer
	rootCmd.SetOut(&catOut)
	rootCmd.SetArgs([]string{"cat", "-b", base})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cat: %v", err)
	}
	if !strings.Contains(catOut.String(), "0: 1 2") {
		t.Errorf("cat output missing node 0's successors: %q", catOut.String())
	}

	var catNodeOut bytes.Buffer
	rootCmd.SetOut(&catNodeOut)
	rootCmd.SetArgs([]string{"cat", "-b", base, "--node", "1"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cat --node: %v", err)
	}
	if !strings.Contains(catNodeOut.String(), "1: 2") {
		t.Errorf("cat --node output wrong: %q", catNodeOut.String())
	}

	transposedBase := filepath.Join(dir, "gt")
	rootCmd.SetArgs([]string{"transpose", "-i", base, "-o", transposedBase})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("transpose: %v", err)
	}

	var catTOut bytes.Buffer
	rootCmd.SetOut(&catTOut)
	rootCmd.SetArgs([]string{"cat", "-b", transposedBase})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cat transposed: %v", err)
	}
	if !strings.Contains(catTOut.String(), "2: 0 1") {
		t.Errorf("transposed cat output missing node 2's successors: %q", catTOut.String())
	}
}
