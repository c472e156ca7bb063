// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bvgraph

import (
	"errors"
	"fmt"
	"os"

	"github.com/gaissmai/bvgraph/internal/mmapfile"
)

// errNoOffsetsIndex is returned by MappedFile's random-access constructors
// when OpenMapped found no .offsets sidecar to build an OffsetsIndex from.
var errNoOffsetsIndex = errors.New("bvgraph: no .offsets sidecar file was found")

// MappedFile opens a compressed graph's on-disk files (spec §6): the .graph
// body is opened through a read-only memory mapping and copied once, whole,
// into a heap slice (mmapfile.ReadOnlyFile.Bytes) that the readers decode
// from, while the small .properties and .offsets sidecars are read
// normally.
type MappedFile struct {
	graph *mmapfile.ReadOnlyFile
	data  []byte
	props Properties
	idx   *OffsetsIndex
}

// OpenMapped opens basename+".properties", memory-maps basename+".graph",
// and, if present, loads basename+".offsets" into an OffsetsIndex. The
// caller must Close the returned MappedFile when done.
func OpenMapped(basename string) (*MappedFile, error) {
	propsFile, err := os.Open(basename + ".properties")
	if err != nil {
		return nil, fmt.Errorf("bvgraph: open %s.properties: %w", basename, err)
	}
	props, err := ReadProperties(propsFile)
	propsFile.Close()
	if err != nil {
		return nil, fmt.Errorf("bvgraph: read %s.properties: %w", basename, err)
	}

	graph, err := mmapfile.OpenReadOnly(basename + ".graph")
	if err != nil {
		return nil, err
	}
	data, err := graph.Bytes()
	if err != nil {
		graph.Close()
		return nil, err
	}

	mf := &MappedFile{graph: graph, data: data, props: props}

	offsetsData, err := os.ReadFile(basename + ".offsets")
	if err == nil {
		offsets, err := ReadOffsetsFile(offsetsData, int(props.Nodes)+1)
		if err != nil {
			graph.Close()
			return nil, err
		}
		idx, err := BuildOffsetsIndex(offsets)
		if err != nil {
			graph.Close()
			return nil, err
		}
		mf.idx = idx
	}

	return mf, nil
}

// Properties returns the graph's decoded sidecar metadata.
func (mf *MappedFile) Properties() Properties {
	return mf.props
}

// NewSequentialReader returns a sequential reader over the mapped graph
// body, per spec §4.4.
func (mf *MappedFile) NewSequentialReader() *SequentialReader {
	return NewSequentialReader(mf.data, mf.props.Codes, mf.props.Nodes)
}

// NewRandomAccessReader returns a random-access reader over the mapped
// graph body, per spec §4.5. It fails if OpenMapped found no .offsets
// sidecar.
func (mf *MappedFile) NewRandomAccessReader() (*RandomAccessReader, error) {
	if mf.idx == nil {
		return nil, errNoOffsetsIndex
	}
	return NewRandomAccessReader(mf.data, mf.props.Codes, mf.idx, mf.props.Nodes), nil
}

// SplitSequentialReaders returns k lenders over the mapped graph body,
// collectively covering every node exactly once (spec §4.4's split
// support). It fails if OpenMapped found no .offsets sidecar, since each
// shard seeks to its start node via the offsets index.
func (mf *MappedFile) SplitSequentialReaders(k int) ([]*ShardReader, error) {
	if mf.idx == nil {
		return nil, errNoOffsetsIndex
	}
	return SplitSequentialReaders(mf.data, mf.props.Codes, mf.idx, mf.props.Nodes, k), nil
}

// Close unmaps the underlying graph file.
func (mf *MappedFile) Close() error {
	return mf.graph.Close()
}
