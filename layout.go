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

// This file contains the variable-layout indexer (component C of
// spec.md §4.3): the element-stride vector for each variable and the
// arithmetic turning an N-dimensional coordinate into a byte offset. It
// generalizes cdf/header.go's variable.setComputed/offsetOf and
// cdf/header.go's Header.fixRecordStrides, which computed byte strides
// eagerly for the strider package's sequential Reader/Writer; here the
// same products are kept in element units so ReadAt (reader.go) can
// address a single coordinate without constructing a strider.

package ncdf

// computeStrides fills in v.strides, the element stride of each axis:
// strides[i] is the number of elements of v.Type between consecutive
// indices along axis i. It is the standard row-major (C order) product
// of trailing dimension lengths. If v's leading axis is the record
// dimension, v.isRecord is set and strides[0] is left 0 (unused — record
// addressing goes through v.recordSize instead, set later by
// computeRecordSize once every variable's stride vector is known).
func computeStrides(v *Variable, dims []Dimension) {
	n := len(v.DimIDs)
	v.strides = make([]int64, n)
	if n == 0 {
		return
	}

	v.isRecord = dims[v.DimIDs[0]].isRecord()

	v.strides[n-1] = 1
	for i := n - 2; i >= 0; i-- {
		length := int64(dims[v.DimIDs[i+1]].Length)
		v.strides[i] = length * v.strides[i+1]
	}
	if v.isRecord {
		v.strides[0] = 0
	}
}

// pad4i64 is pad4 widened to int64, for padding vsize sums.
func pad4i64(n int64) int64 {
	if r := n % 4; r != 0 {
		return 4 - r
	}
	return 0
}

// computeRecordSize sets recordSize, in bytes, on every record variable
// in vars: the byte distance between the start of record r and record
// r+1. A single record variable's record size is its own vsize
// unpadded; with more than one record variable, each record's slab
// interleaves every record variable's (individually 4-byte-padded)
// vsize in declaration order, so recordSize is their sum.
//
// It also fills in strides[0] (left 0 by computeStrides) with that same
// record size expressed in elements of the variable's own type, per
// spec.md §4.3 item 2: the leading "record stride" of a record variable
// is its record size, not zero.
func computeRecordSize(vars map[string]*Variable, dims []Dimension) {
	var recVars []*Variable
	for _, v := range vars {
		if v.isRecord {
			recVars = append(recVars, v)
		}
	}
	if len(recVars) == 0 {
		return
	}

	var slabSize int64
	if len(recVars) == 1 {
		slabSize = int64(recVars[0].VSize)
	} else {
		for _, v := range recVars {
			slabSize += int64(v.VSize) + pad4i64(int64(v.VSize))
		}
	}
	for _, v := range recVars {
		v.recordSize = slabSize
		v.strides[0] = slabSize / int64(v.Type.Size())
	}
}

// OffsetOf returns the absolute byte offset of the element of variable v
// at the given coordinate (one index per dimension of v, outermost
// first), validating arity and per-axis bounds against hdr. hdr must be
// the Header v was parsed as part of.
func OffsetOf(hdr *Header, v *Variable, coord []int) (int64, error) {
	ndims := len(v.DimIDs)
	if len(coord) != ndims {
		return 0, &Error{Code: OutOfBounds, Axis: -1, Value: len(coord), Bound: ndims}
	}

	elemSize := int64(v.Type.Size())
	offset := int64(v.Begin)

	for i, c := range coord {
		dim, ok := hdr.Dimension(int(v.DimIDs[i]))
		if !ok {
			return 0, &Error{Code: BadDimRef, Name: v.Name, Tag: v.DimIDs[i]}
		}

		if i == 0 && v.isRecord {
			bound := -1
			if n, known := hdr.RecordCount.Value(); known {
				bound = int(n)
			}
			if c < 0 || (bound >= 0 && c >= bound) {
				return 0, &Error{Code: OutOfBounds, Axis: i, Value: c, Bound: bound}
			}
			offset += int64(c) * v.recordSize
			continue
		}

		length := int(dim.Length)
		if c < 0 || c >= length {
			return 0, &Error{Code: OutOfBounds, Axis: i, Value: c, Bound: length}
		}
		offset += int64(c) * v.strides[i] * elemSize
	}

	return offset, nil
}
