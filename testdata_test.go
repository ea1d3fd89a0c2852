package ncdf

import (
	"fmt"
	"math"
)

// Hand-built byte fixtures. No .nc binaries exist to embed, so each
// fixture below is assembled field-by-field from the grammar in
// header.go/decode.go; the dimension names, lengths and the CVS_Id
// attribute bytes mirror the values a CCSM3 example file is documented
// to contain.

func beU32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func beU64Bytes(v uint64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

func beF32Bytes(v float32) []byte {
	return beU32Bytes(math.Float32bits(v))
}

func nameBytes(s string) []byte {
	out := beU32Bytes(uint32(len(s)))
	out = append(out, s...)
	for i := uint32(0); i < pad4(uint32(len(s))); i++ {
		out = append(out, 0)
	}
	return out
}

func absentListBytes() []byte {
	return append(beU32Bytes(0), beU32Bytes(0)...)
}

type dimSpec struct {
	name   string
	length uint32
}

func dimListBytes(dims []dimSpec) []byte {
	if len(dims) == 0 {
		return absentListBytes()
	}
	out := beU32Bytes(uint32(tagDimension))
	out = append(out, beU32Bytes(uint32(len(dims)))...)
	for _, d := range dims {
		out = append(out, nameBytes(d.name)...)
		out = append(out, beU32Bytes(d.length)...)
	}
	return out
}

type charAttrSpec struct {
	name string
	data []byte
}

func charAttrListBytes(atts []charAttrSpec) []byte {
	if len(atts) == 0 {
		return absentListBytes()
	}
	out := beU32Bytes(uint32(tagAttribute))
	out = append(out, beU32Bytes(uint32(len(atts)))...)
	for _, a := range atts {
		out = append(out, nameBytes(a.name)...)
		out = append(out, beU32Bytes(uint32(Char))...)
		out = append(out, beU32Bytes(uint32(len(a.data)))...)
		out = append(out, a.data...)
		for i := uint32(0); i < pad4(uint32(len(a.data))); i++ {
			out = append(out, 0)
		}
	}
	return out
}

type varSpec struct {
	name   string
	dimIDs []uint32
	typ    NcType
	vsize  uint32
	begin  uint64
}

func varListBytes(vars []varSpec, version Version) []byte {
	if len(vars) == 0 {
		return absentListBytes()
	}
	out := beU32Bytes(uint32(tagVariable))
	out = append(out, beU32Bytes(uint32(len(vars)))...)
	for _, v := range vars {
		out = append(out, nameBytes(v.name)...)
		out = append(out, beU32Bytes(uint32(len(v.dimIDs)))...)
		for _, id := range v.dimIDs {
			out = append(out, beU32Bytes(id)...)
		}
		out = append(out, absentListBytes()...) // no per-variable attributes
		out = append(out, beU32Bytes(uint32(v.typ))...)
		out = append(out, beU32Bytes(v.vsize)...)
		if version == Offset64 {
			out = append(out, beU64Bytes(v.begin)...)
		} else {
			out = append(out, beU32Bytes(uint32(v.begin))...)
		}
	}
	return out
}

// buildHeader assembles a complete header buffer: magic, numrecs,
// dim_list, attr_list, var_list.
func buildHeader(version byte, numrecs uint32, dims []dimSpec, atts []charAttrSpec, vars []varSpec) []byte {
	buf := []byte("CDF")
	buf = append(buf, version)
	buf = append(buf, beU32Bytes(numrecs)...)
	buf = append(buf, dimListBytes(dims)...)
	buf = append(buf, charAttrListBytes(atts)...)
	buf = append(buf, varListBytes(vars, Version(version))...)
	return buf
}

// emptyNCBytes mirrors the "empty.nc" fixture: no dimensions, no
// attributes, no variables.
func emptyNCBytes() []byte {
	return buildHeader(1, 0, nil, nil, nil)
}

// smallNCBytes mirrors "small.nc": one dimension, "dim" of length 5.
func smallNCBytes() []byte {
	return buildHeader(1, 0, []dimSpec{{"dim", 5}}, nil, nil)
}

// testrhNCBytes mirrors "testrh.nc": one dimension, "dim1" of length 10000.
func testrhNCBytes() []byte {
	return buildHeader(1, 0, []dimSpec{{"dim1", 10000}}, nil, nil)
}

// ccsm3RealBytes reproduces the literal CCSM3 example scenario spec.md §8
// documents: dimensions lat=128, lon=256, bnds=2, plev=17 and a record
// ("time") dimension, 18 global attributes (CVS_Id first, with the
// documented bytes), the "area" variable (begin=7564, vsize=131072,
// FLOAT, over lat/lon) and a record variable "tas" (time, lat, lon) whose
// first record's first four bytes are the documented sample
// 0x43,0x57,0xE4,0xBC (215.8935 as big-endian float32). Only that one
// 4-byte element of tas's record data is materialized; the coordinate
// arithmetic under test does not need the rest of the (128*256*4-byte)
// record to be present.
func ccsm3RealBytes(version Version) []byte {
	var dims []dimSpec
	var areaDims, tasDims []uint32
	if version == Classic {
		dims = []dimSpec{
			{"lat", 128}, {"lon", 256}, {"bnds", 2}, {"plev", 17}, {"time", 0},
		}
		areaDims = []uint32{0, 1}
		tasDims = []uint32{4, 0, 1}
	} else {
		dims = []dimSpec{
			{"time", 0}, {"lat", 128}, {"lon", 256}, {"bnds", 2}, {"plev", 17},
		}
		areaDims = []uint32{1, 2}
		tasDims = []uint32{0, 1, 2}
	}

	atts := []charAttrSpec{{"CVS_Id", []byte{0x24, 0x49, 0x64, 0x24}}}
	for i := 0; i < 17; i++ {
		atts = append(atts, charAttrSpec{fmt.Sprintf("attr%d", i), []byte{byte(i)}})
	}

	const areaVSize = 128 * 256 * 4
	const areaBegin = 7564
	const tasVSize = 128 * 256 * 4
	const tasBegin = areaBegin + areaVSize

	vars := []varSpec{
		{name: "area", dimIDs: areaDims, typ: Float, vsize: areaVSize, begin: areaBegin},
		{name: "tas", dimIDs: tasDims, typ: Float, vsize: tasVSize, begin: tasBegin},
	}

	buf := buildHeader(byte(version), 1, dims, atts, vars)

	for i := len(buf); i < tasBegin; i++ {
		buf = append(buf, 0)
	}
	buf = append(buf, 0x43, 0x57, 0xE4, 0xBC)
	return buf
}

// ccsm3Bytes mirrors the shape of the CCSM3 example file, scaled down to
// keep the fixture's implied data section small enough to exercise in a
// test: lat=4, lon=3, bnds=2, plev=2, a record ("time") dimension, the
// documented CVS_Id global attribute, and a float "area" variable over
// (lat, lon).
func ccsm3Bytes(version Version) []byte {
	var dims []dimSpec
	var areaDims []uint32
	if version == Classic {
		dims = []dimSpec{
			{"lat", 4}, {"lon", 3}, {"bnds", 2}, {"plev", 2}, {"time", 0},
		}
		areaDims = []uint32{0, 1}
	} else {
		dims = []dimSpec{
			{"time", 0}, {"lat", 4}, {"lon", 3}, {"bnds", 2}, {"plev", 2},
		}
		areaDims = []uint32{1, 2}
	}

	atts := []charAttrSpec{{"CVS_Id", []byte{36, 73, 100, 36}}}

	const areaElems = 4 * 3
	const areaVSize = areaElems * 4 // Float, 4 bytes/elem, already a multiple of 4
	const begin = 7564
	vars := []varSpec{
		{name: "area", dimIDs: areaDims, typ: Float, vsize: areaVSize, begin: begin},
	}

	buf := buildHeader(byte(version), 1, dims, atts, vars)

	// Pad the buffer out to begin+areaVSize so ReadAt against "area" has
	// real bytes to address, filled with a recognizable ramp.
	for i := len(buf); i < begin+areaVSize; i++ {
		buf = append(buf, byte(i))
	}
	return buf
}
