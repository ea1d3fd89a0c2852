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

// This file contains the primitive decoders (component A of spec.md §4.1):
// pure functions of the form func(buf []byte) (rest []byte, value T, err
// error) that either decide from buf or report errNeedsMore. They
// generalize cdf/read.go's readString/readFrom, which assumed a blocking
// io.Reader, into slice-based decoders the streaming driver in reader.go
// can retry without backtracking.

package ncdf

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// u8 reads a single byte.
func u8(buf []byte) (rest []byte, v byte, err error) {
	if len(buf) < 1 {
		return buf, 0, errNeedsMore
	}
	return buf[1:], buf[0], nil
}

// beU32 reads a big-endian uint32.
func beU32(buf []byte) (rest []byte, v uint32, err error) {
	if len(buf) < 4 {
		return buf, 0, errNeedsMore
	}
	return buf[4:], binary.BigEndian.Uint32(buf), nil
}

// beU64 reads a big-endian uint64.
func beU64(buf []byte) (rest []byte, v uint64, err error) {
	if len(buf) < 8 {
		return buf, 0, errNeedsMore
	}
	return buf[8:], binary.BigEndian.Uint64(buf), nil
}

// beI16 reads a big-endian int16.
func beI16(buf []byte) (rest []byte, v int16, err error) {
	if len(buf) < 2 {
		return buf, 0, errNeedsMore
	}
	return buf[2:], int16(binary.BigEndian.Uint16(buf)), nil
}

// beI32 reads a big-endian int32.
func beI32(buf []byte) (rest []byte, v int32, err error) {
	if len(buf) < 4 {
		return buf, 0, errNeedsMore
	}
	return buf[4:], int32(binary.BigEndian.Uint32(buf)), nil
}

// beF32 reads a big-endian IEEE-754 float32.
func beF32(buf []byte) (rest []byte, v float32, err error) {
	if len(buf) < 4 {
		return buf, 0, errNeedsMore
	}
	return buf[4:], math.Float32frombits(binary.BigEndian.Uint32(buf)), nil
}

// beF64 reads a big-endian IEEE-754 float64.
func beF64(buf []byte) (rest []byte, v float64, err error) {
	if len(buf) < 8 {
		return buf, 0, errNeedsMore
	}
	return buf[8:], math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

// magic matches the literal "CDF" followed by a version byte: 1 ->
// Classic, 2 -> Offset64, anything else -> UnsupportedVersion.
func magic(buf []byte) (rest []byte, v Version, err error) {
	if len(buf) < 4 {
		return buf, 0, errNeedsMore
	}
	if buf[0] != 'C' || buf[1] != 'D' || buf[2] != 'F' {
		return buf, 0, &Error{Code: InvalidFile}
	}
	switch buf[3] {
	case 1:
		return buf[4:], Classic, nil
	case 2:
		return buf[4:], Offset64, nil
	default:
		return buf, 0, &Error{Code: UnsupportedVersion, Tag: uint32(buf[3])}
	}
}

// recordCount reads the header's numrecs field: 0xFFFFFFFF means
// Streaming, anything else is a known non-negative count.
func recordCount(buf []byte) (rest []byte, v RecordCount, err error) {
	rest, n, err := beU32(buf)
	if err != nil {
		return buf, RecordCount{}, err
	}
	if n == 0xFFFFFFFF {
		return rest, Streaming, nil
	}
	return rest, NonNegative(n), nil
}

// nonNeg reads a be_u32 whose interpretation (element count, dimension
// length, ...) is up to the caller.
func nonNeg(buf []byte) (rest []byte, v uint32, err error) { return beU32(buf) }

// pad4 returns the number of zero-fill bytes following a variable-length
// field of n content bytes: (4 - n mod 4) mod 4.
func pad4(n uint32) uint32 {
	if r := n % 4; r != 0 {
		return 4 - r
	}
	return 0
}

// paddedName reads a be_u32 length-prefixed, 4-byte-padded UTF-8 name:
// the shared representation of dimension, attribute and variable names.
func paddedName(buf []byte) (rest []byte, name string, err error) {
	rest, n, err := beU32(buf)
	if err != nil {
		return buf, "", err
	}
	pad := pad4(n)
	total := uint64(n) + uint64(pad)
	if uint64(len(rest)) < total {
		return buf, "", errNeedsMore
	}
	raw := rest[:n]
	if !utf8.Valid(raw) {
		return buf, "", &Error{Code: UTF8}
	}
	return rest[total:], string(raw), nil
}

// listKind discriminates the three kinds of top-level list a list_tag can
// introduce.
type listKind uint32

const (
	tagAbsent    listKind = 0x00
	tagDimension listKind = 0x0A
	tagVariable  listKind = 0x0B
	tagAttribute listKind = 0x0C
)

// listTag reads a list_tag: a be_u32 of 0x0A/0x0B/0x0C, or 0x00 followed
// by a second be_u32 that must also be 0x00 (an absent list). Any other
// value is UnknownListTag.
func listTag(buf []byte) (rest []byte, kind listKind, err error) {
	rest, tag, err := beU32(buf)
	if err != nil {
		return buf, 0, err
	}
	switch listKind(tag) {
	case tagDimension, tagVariable, tagAttribute:
		return rest, listKind(tag), nil
	case tagAbsent:
		rest2, zero, err := beU32(rest)
		if err != nil {
			return buf, 0, err
		}
		if zero != 0 {
			return buf, 0, &Error{Code: MalformedAbsentList}
		}
		return rest2, tagAbsent, nil
	default:
		return buf, 0, &Error{Code: UnknownListTag, Tag: tag}
	}
}

// ncType reads an nc_type: a be_u32 in 1..6.
func ncType(buf []byte) (rest []byte, t NcType, err error) {
	rest, tag, err := beU32(buf)
	if err != nil {
		return buf, 0, err
	}
	t = NcType(tag)
	if !t.valid() {
		return buf, 0, &Error{Code: UnknownType, Tag: tag}
	}
	return rest, t, nil
}
