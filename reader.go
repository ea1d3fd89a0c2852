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

// This file contains the streaming driver (component D of spec.md §4.4):
// the loop that grows an accumulation buffer and retries parseHeader
// until it succeeds or hits a domain error, plus the public read path
// (ReadAt, MapSize) built on top of the parsed Header. It replaces
// cdf/read.go's ReadHeader, which assumed a blocking io.Reader and so
// never had to distinguish "not enough bytes yet" from a malformed file;
// here that distinction is exactly what lets a caller feed the parser
// whatever chunk sizes its I/O happens to produce (spec §3 "option (c)").

package ncdf

import (
	"errors"
	"io"
)

// initialChunk and growthFactor bound how aggressively ParseHeader grows
// its accumulation buffer: small enough that a small file only ever asks
// for one or two chunks, the geometric growth bounds the number of
// retries for a large header to O(log n).
const (
	initialChunk  = 256
	growthFactor  = 2
	maxHeaderSize = 64 << 20 // defends against a corrupt length field asking for unbounded growth
)

// ParseHeader reads from src, starting at offset 0, until it has
// accumulated a complete NetCDF classic or 64-bit-offset header, parses
// it, and returns the resulting Header. It issues ReadAt calls of
// growing size rather than assuming src can deliver the whole header in
// one call, so it works identically whether src is backed by a socket
// delivering a few bytes at a time or a memory-mapped file that could
// satisfy any request at once.
func ParseHeader(src Source) (*Header, error) {
	want := initialChunk
	got := 0
	for {
		buf := make([]byte, want)
		n, rerr := src.ReadAt(buf, 0)
		buf = buf[:n]

		hdr, _, perr := parseHeader(buf)
		if perr == nil {
			return hdr, nil
		}
		if !isNeedsMore(perr) {
			return nil, perr
		}

		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, &Error{Code: IO, Err: rerr}
		}
		if rerr != nil || n <= got {
			// src ran out of bytes, or delivered no new ones, before the
			// grammar was satisfied.
			return nil, &Error{Code: UnexpectedEOF}
		}
		got = n

		if n < want {
			// A short read without an error: ask again for the same size.
			continue
		}
		if want >= maxHeaderSize {
			return nil, &Error{Code: UnexpectedEOF}
		}
		want *= growthFactor
	}
}

// ReadAt reads the element of variable varName at coord (one 0-based
// index per dimension of the variable, outermost first) into buf, which
// must be exactly len(buf) == variable.Type.Size() bytes for a scalar
// read, or a multiple of it to read a contiguous run of elements along
// the variable's innermost axis starting at coord.
func (h *Header) ReadAt(src Source, varName string, coord []int, buf []byte) error {
	v, ok := h.Variable(varName)
	if !ok {
		return &Error{Code: UnknownVariable, Name: varName}
	}

	elemSize := v.Type.Size()
	if len(buf) == 0 || len(buf)%elemSize != 0 {
		return &Error{Code: OutOfBounds, Axis: -1, Value: len(buf), Bound: elemSize}
	}

	offset, err := OffsetOf(h, v, coord)
	if err != nil {
		return err
	}

	n, rerr := src.ReadAt(buf, offset)
	if n < len(buf) {
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return &Error{Code: IO, Err: rerr}
		}
		return &Error{Code: UnexpectedEOF}
	}
	return nil
}

// MapSize returns the element count of the first longitude dimension
// times the first latitude dimension found in h, the common shape of a
// single horizontal slice in a gridded climate file. Dimension names are
// matched case-sensitively against exactly "lon"/"longitude" and
// "lat"/"latitude" (spec §4.4, §9); a file whose spatial axes use any
// other spelling simply reports MissingCoordinate.
func (h *Header) MapSize() (int, error) {
	lon, err := findDimension(h, "longitude", lonNames)
	if err != nil {
		return 0, err
	}
	lat, err := findDimension(h, "latitude", latNames)
	if err != nil {
		return 0, err
	}
	return int(lon.Length) * int(lat.Length), nil
}

var lonNames = []string{"lon", "longitude"}
var latNames = []string{"lat", "latitude"}

func findDimension(h *Header, kind string, candidates []string) (Dimension, error) {
	for _, d := range h.Dimensions() {
		for _, c := range candidates {
			if d.Name == c {
				return d, nil
			}
		}
	}
	return Dimension{}, &Error{Code: MissingCoordinate, Coordinate: kind}
}

// BytesToF32BE reinterprets buf, a slice whose length is a multiple of
// 4, as a slice of big-endian IEEE-754 float32 values. It is a
// convenience for callers of ReadAt reading a Float variable, sparing
// them from reimplementing decode.go's beF32 on their own buffer.
func BytesToF32BE(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	rest := buf
	for i := range out {
		var v float32
		var err error
		rest, v, err = beF32(rest)
		if err != nil {
			break
		}
		out[i] = v
	}
	return out
}
