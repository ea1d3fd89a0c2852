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

// Package ncdf parses NetCDF classic and 64-bit-offset binary headers and
// serves random, partially materialized reads of the variables they
// describe, without loading the file into memory.
//
// The data model and the classic file format are documented at
//	https://docs.unidata.ucar.edu/nug/current/file_format_specifications.html
//
// A file's header is parsed once, incrementally, by ParseHeader, which
// accepts bytes from any Source in whatever chunks the caller's I/O
// happens to deliver them:
//
//	src := NewFileSource(f)
//	hdr, err := ParseHeader(src)
//
// The returned Header is immutable and safe to share across goroutines.
// Reading a single element or sub-slice of a variable's data is done by
// coordinate, against the same Source (whose ReadAt takes an absolute
// offset, so no read position is shared between calls):
//
//	buf := make([]byte, 4)
//	err := hdr.ReadAt(src, "tas", []int{0, 0, 0}, buf)
//	vals := BytesToF32BE(buf)
//
// This package does not open files, parse command lines, write NetCDF
// data, or understand the NetCDF-4/HDF5 container format; see cmd/ncdfinfo
// for a thin external example of wiring a file path and a config to this
// library.
package ncdf
