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

// This file contains the header grammar (component B of spec.md §4.2):
// magic record_count dim_list attr_list var_list, composed from the
// primitive decoders in decode.go. It is the direct generalization of
// cdf/read.go's ReadHeader, reworked to operate on a byte slice snapshot
// (so it can report errNeedsMore instead of blocking) and to enforce the
// invariants spec.md §3 lists as domain errors rather than silent
// log.Printf warnings.

package ncdf

import "unicode/utf8"

// parseHeader applies the full header grammar to buf. On success it
// returns the parsed Header and the number of bytes of buf it consumed.
// If buf does not yet hold a complete header, it returns errNeedsMore. Any
// other error is a domain error from §7 and is final.
func parseHeader(buf []byte) (hdr *Header, consumed int, err error) {
	orig := buf

	buf, version, err := magic(buf)
	if err != nil {
		return nil, 0, err
	}

	buf, recCount, err := recordCount(buf)
	if err != nil {
		return nil, 0, err
	}

	buf, dims, err := dimensionList(buf)
	if err != nil {
		return nil, 0, err
	}

	buf, globalAtts, err := attributeList(buf)
	if err != nil {
		return nil, 0, err
	}

	buf, vars, varOrder, err := variableList(buf, version, dims)
	if err != nil {
		return nil, 0, err
	}

	hdr = &Header{
		Version:     version,
		RecordCount: recCount,
		dimensions:  dims,
		globalAtts:  globalAtts,
		variables:   vars,
		varOrder:    varOrder,
	}
	return hdr, len(orig) - len(buf), nil
}

// dimensionList parses the dim_list production: a list_tag expected to be
// absent or DIMENSION, be_u32 nelems, then nelems dimension records.
func dimensionList(buf []byte) (rest []byte, dims []Dimension, err error) {
	buf, kind, err := listTag(buf)
	if err != nil {
		return nil, nil, err
	}
	if kind == tagAbsent {
		return buf, nil, nil
	}
	if kind != tagDimension {
		return nil, nil, &Error{Code: UnexpectedListTag, Tag: uint32(kind), ExpectedTag: uint32(tagDimension)}
	}

	buf, nelems, err := nonNeg(buf)
	if err != nil {
		return nil, nil, err
	}

	dims = make([]Dimension, 0, nelems)
	seen := make(map[string]bool, nelems)
	for i := uint32(0); i < nelems; i++ {
		var name string
		var length uint32
		buf, name, err = paddedName(buf)
		if err != nil {
			return nil, nil, err
		}
		if seen[name] {
			return nil, nil, &Error{Code: DuplicateName, Name: name}
		}
		seen[name] = true
		buf, length, err = nonNeg(buf)
		if err != nil {
			return nil, nil, err
		}
		dims = append(dims, Dimension{Name: name, Length: length})
	}
	return buf, dims, nil
}

// attributeList parses the attr_list production, used both for global
// attributes and for a variable's attribute sub-list.
func attributeList(buf []byte) (rest []byte, atts map[string]Attribute, err error) {
	buf, kind, err := listTag(buf)
	if err != nil {
		return nil, nil, err
	}
	if kind == tagAbsent {
		return buf, map[string]Attribute{}, nil
	}
	if kind != tagAttribute {
		return nil, nil, &Error{Code: UnexpectedListTag, Tag: uint32(kind), ExpectedTag: uint32(tagAttribute)}
	}

	buf, nelems, err := nonNeg(buf)
	if err != nil {
		return nil, nil, err
	}

	atts = make(map[string]Attribute, nelems)
	for i := uint32(0); i < nelems; i++ {
		var a Attribute
		buf, a, err = attribute(buf)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := atts[a.Name]; dup {
			return nil, nil, &Error{Code: DuplicateName, Name: a.Name}
		}
		atts[a.Name] = a
	}
	return buf, atts, nil
}

// attribute parses one attribute record: padded_name nc_type be_u32
// nelems, then nelems*sizeof(type) raw bytes padded to a 4-byte boundary.
func attribute(buf []byte) (rest []byte, a Attribute, err error) {
	buf, name, err := paddedName(buf)
	if err != nil {
		return nil, Attribute{}, err
	}
	buf, typ, err := ncType(buf)
	if err != nil {
		return nil, Attribute{}, err
	}
	buf, nelems, err := nonNeg(buf)
	if err != nil {
		return nil, Attribute{}, err
	}

	if typ == Char {
		contentLen := nelems
		pad := pad4(contentLen)
		total := uint64(contentLen) + uint64(pad)
		if uint64(len(buf)) < total {
			return nil, Attribute{}, errNeedsMore
		}
		raw := buf[:contentLen]
		if !utf8.Valid(raw) {
			return nil, Attribute{}, &Error{Code: UTF8}
		}
		return buf[total:], Attribute{Name: name, Type: typ, Value: string(raw)}, nil
	}

	elemSize := uint32(typ.Size())
	contentLen := nelems * elemSize
	pad := pad4(contentLen)
	total := uint64(contentLen) + uint64(pad)
	if uint64(len(buf)) < total {
		return nil, Attribute{}, errNeedsMore
	}
	raw := buf[:contentLen]
	value, err := decodeTypedSequence(typ, raw, nelems)
	if err != nil {
		return nil, Attribute{}, err
	}
	return buf[total:], Attribute{Name: name, Type: typ, Value: value}, nil
}

// decodeTypedSequence decodes nelems big-endian elements of type t out of
// raw (exactly nelems*t.Size() bytes, no padding) into the homogeneous
// slice Attribute.Value documents.
func decodeTypedSequence(t NcType, raw []byte, nelems uint32) (interface{}, error) {
	switch t {
	case Byte:
		out := make([]uint8, nelems)
		copy(out, raw)
		return out, nil
	case Short:
		out := make([]int16, nelems)
		rest := raw
		for i := range out {
			var v int16
			var err error
			rest, v, err = beI16(rest)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Int:
		out := make([]int32, nelems)
		rest := raw
		for i := range out {
			var v int32
			var err error
			rest, v, err = beI32(rest)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Float:
		out := make([]float32, nelems)
		rest := raw
		for i := range out {
			var v float32
			var err error
			rest, v, err = beF32(rest)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Double:
		out := make([]float64, nelems)
		rest := raw
		for i := range out {
			var v float64
			var err error
			rest, v, err = beF64(rest)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, &Error{Code: UnknownType, Tag: uint32(t)}
}

// variableList parses the var_list production and computes each
// variable's stride vector (component C, layout.go) once its dimension
// references are known to be valid.
func variableList(buf []byte, version Version, dims []Dimension) (rest []byte, vars map[string]*Variable, order []string, err error) {
	buf, kind, err := listTag(buf)
	if err != nil {
		return nil, nil, nil, err
	}
	if kind == tagAbsent {
		return buf, map[string]*Variable{}, nil, nil
	}
	if kind != tagVariable {
		return nil, nil, nil, &Error{Code: UnexpectedListTag, Tag: uint32(kind), ExpectedTag: uint32(tagVariable)}
	}

	buf, nelems, err := nonNeg(buf)
	if err != nil {
		return nil, nil, nil, err
	}

	vars = make(map[string]*Variable, nelems)
	order = make([]string, 0, nelems)
	for i := uint32(0); i < nelems; i++ {
		var v *Variable
		buf, v, err = variableRecord(buf, version, dims)
		if err != nil {
			return nil, nil, nil, err
		}
		if _, dup := vars[v.Name]; dup {
			return nil, nil, nil, &Error{Code: DuplicateName, Name: v.Name}
		}
		vars[v.Name] = v
		order = append(order, v.Name)
	}

	computeRecordSize(vars, dims)

	return buf, vars, order, nil
}

// variableRecord parses one variable record: padded_name, ndims dim_ids,
// an optional attribute sub-list, nc_type, vsize, and begin (32 or 64
// bits depending on version).
func variableRecord(buf []byte, version Version, dims []Dimension) (rest []byte, v *Variable, err error) {
	buf, name, err := paddedName(buf)
	if err != nil {
		return nil, nil, err
	}

	buf, ndims, err := nonNeg(buf)
	if err != nil {
		return nil, nil, err
	}
	dimIDs := make([]uint32, ndims)
	for i := range dimIDs {
		buf, dimIDs[i], err = nonNeg(buf)
		if err != nil {
			return nil, nil, err
		}
		if int(dimIDs[i]) >= len(dims) {
			return nil, nil, &Error{Code: BadDimRef, Name: name, Tag: dimIDs[i]}
		}
	}

	buf, atts, err := attributeList(buf)
	if err != nil {
		return nil, nil, err
	}

	buf, typ, err := ncType(buf)
	if err != nil {
		return nil, nil, err
	}

	buf, vsize, err := nonNeg(buf)
	if err != nil {
		return nil, nil, err
	}

	var begin uint64
	if version == Offset64 {
		buf, begin, err = beU64(buf)
	} else {
		var b32 uint32
		buf, b32, err = beU32(buf)
		begin = uint64(b32)
	}
	if err != nil {
		return nil, nil, err
	}

	v = &Variable{
		Name:       name,
		DimIDs:     dimIDs,
		Attributes: atts,
		Type:       typ,
		VSize:      vsize,
		Begin:      begin,
	}
	computeStrides(v, dims)

	return buf, v, nil
}
