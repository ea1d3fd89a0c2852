// Copyright 2012 Luuk van Dijk. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file contains Source, the storage abstraction ParseHeader and
// ReadAt read through, and its implementations. It plays the role
// cdf/file.go's ReaderWriterAt played for the strider package, narrowed
// to reading: nothing in this package writes.

package ncdf

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Source is random-access byte storage for a single NetCDF file. ReadAt
// must behave like io.ReaderAt: it must not advance any shared position,
// so one Source may safely back concurrent ReadAt calls for different
// variables. Size reports the storage's total extent; ParseHeader and
// Header.ReadAt do not call it and detect the end of the data from
// ReadAt's short reads instead.
type Source interface {
	ReadAt(p []byte, off int64) (n int, err error)
	Size() (int64, error)
}

// FileSource adapts an *os.File already opened by the caller. ncdf never
// opens, creates or closes files itself (spec Non-goals); the caller
// retains ownership of f and must Close it.
type FileSource struct {
	f *os.File
}

// NewFileSource wraps f, an already-opened file, as a Source.
func NewFileSource(f *os.File) *FileSource { return &FileSource{f: f} }

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }

func (s *FileSource) Size() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, &Error{Code: IO, Err: err}
	}
	return fi.Size(), nil
}

// MemSource is a Source backed by an in-memory byte slice, chiefly for
// tests and for small files already read into memory by the caller.
type MemSource struct {
	buf []byte
}

// NewMemSource wraps buf. The returned MemSource retains buf; the caller
// must not mutate it afterwards.
func NewMemSource(buf []byte) *MemSource { return &MemSource{buf: buf} }

func (s *MemSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(s.buf)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, s.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *MemSource) Size() (int64, error) { return int64(len(s.buf)), nil }

// MmapSource is a Source backed by a memory-mapped file, so that reading
// a single variable element never copies more of the file into the
// process than the page it lives on.
type MmapSource struct {
	m mmap.MMap
}

// NewMmapSource maps f read-only. The caller retains ownership of f
// (which may be closed once the mapping exists) and must call Close on
// the returned MmapSource when done with it.
func NewMmapSource(f *os.File) (*MmapSource, error) {
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &Error{Code: IO, Err: err}
	}
	return &MmapSource{m: m}, nil
}

func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(s.m)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, s.m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *MmapSource) Size() (int64, error) { return int64(len(s.m)), nil }

// Close unmaps the underlying file.
func (s *MmapSource) Close() error { return s.m.Unmap() }
