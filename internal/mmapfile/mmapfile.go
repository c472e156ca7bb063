// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package mmapfile memory-maps the on-disk files of spec §6 (B.graph,
// B.offsets, B.ef). ReadAt serves reads from the mapped pages; Bytes
// copies the whole file into the heap. It is the
// "memory-mapping" external collaborator RandomAccessReader and
// OffsetsIndex are built to consume without caring whether their backing
// bytes came from a mapped file or a loaded one.
package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
	"golang.org/x/sys/unix"
)

// ReadOnlyFile is a read-only memory-mapped file. OpenMapped reads a
// .graph file through it, copying the contents into the heap with Bytes.
type ReadOnlyFile struct {
	ra *mmap.ReaderAt
}

// OpenReadOnly maps path read-only. The caller must Close the returned
// file when done; the mapping outlives any individual read.
func OpenReadOnly(path string) (*ReadOnlyFile, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	return &ReadOnlyFile{ra: ra}, nil
}

// Len returns the mapped file's length in bytes.
func (f *ReadOnlyFile) Len() int64 {
	return f.ra.Len()
}

// Bytes copies the file's full contents into a plain slice. Prefer
// ReadAt for large files so the backing pages stay demand-paged; Bytes
// exists for callers (e.g. NewSequentialReader) that want a contiguous
// []byte and can afford to pay for the copy once.
func (f *ReadOnlyFile) Bytes() ([]byte, error) {
	buf := make([]byte, f.ra.Len())
	if _, err := f.ra.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("mmapfile: read %d bytes: %w", len(buf), err)
	}
	return buf, nil
}

// ReadAt implements io.ReaderAt against the mapped pages directly.
func (f *ReadOnlyFile) ReadAt(p []byte, off int64) (int, error) {
	return f.ra.ReadAt(p, off)
}

// Close unmaps the file.
func (f *ReadOnlyFile) Close() error {
	return f.ra.Close()
}

// WritableFile is a read-write memory-mapped file. No other package of
// this module uses it; ParallelWriter splices its shard fragments in
// memory.
type WritableFile struct {
	f    *os.File
	data []byte
}

// Create truncates (or creates) path to size bytes and maps it
// read-write, shared so writes are visible to any later ReadOnlyFile
// opened on the same path after Sync/Close.
func Create(path string, size int64) (*WritableFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: create %s: %w", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: truncate %s to %d: %w", path, size, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", path, err)
	}

	return &WritableFile{f: f, data: data}, nil
}

// Bytes returns the mapped region. Writes through the returned slice are
// written back to the file by the kernel, eagerly on Sync or eventually
// on Close.
func (f *WritableFile) Bytes() []byte {
	return f.data
}

// AdviseSequential hints the kernel that the mapping will be read
// front-to-back, matching SequentialReader's access pattern (spec §4.4).
func (f *WritableFile) AdviseSequential() error {
	return unix.Madvise(f.data, unix.MADV_SEQUENTIAL)
}

// AdviseRandom hints the kernel that accesses will be scattered,
// matching RandomAccessReader's access pattern (spec §4.5).
func (f *WritableFile) AdviseRandom() error {
	return unix.Madvise(f.data, unix.MADV_RANDOM)
}

// Sync flushes dirty pages to disk.
func (f *WritableFile) Sync() error {
	return unix.Msync(f.data, unix.MS_SYNC)
}

// Close unmaps and closes the backing file. It does not remove it.
func (f *WritableFile) Close() error {
	err := unix.Munmap(f.data)
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}
