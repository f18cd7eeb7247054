// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package matrix

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// ElemType is the numeric type of matrix cells.  The values are the
// element type codes used on the wire by the compressed binary formats.
type ElemType int16

const (
	Int16   ElemType = 2
	Int32   ElemType = 3
	Float32 ElemType = 4
	Float64 ElemType = 5
)

// ParseElemType maps a wire code to an ElemType.
func ParseElemType(code int16) (ElemType, error) {
	t := ElemType(code)
	if !t.Valid() {
		return 0, fmt.Errorf("element type code %d: %w", code, ErrMalformedHeader)
	}
	return t, nil
}

func (t ElemType) Valid() bool {
	return t >= Int16 && t <= Float64
}

// Width is the size in bytes of one element.
func (t ElemType) Width() int {
	switch t {
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	default:
		return 8
	}
}

func (t ElemType) IsInteger() bool {
	return t == Int16 || t == Int32
}

func (t ElemType) String() string {
	switch t {
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("ElemType(%d)", int16(t))
	}
}

// Quantize returns v as it would be stored in an element of type t.
// Integer types truncate toward zero.
func (t ElemType) Quantize(v float64) float64 {
	switch t {
	case Int16:
		return float64(int16(v))
	case Int32:
		return float64(int32(v))
	case Float32:
		return float64(float32(v))
	default:
		return v
	}
}

// Fits reports whether v survives Quantize without wrapping.  Integer
// types accept any value that truncates into their range; float types
// accept everything.
func (t ElemType) Fits(v float64) bool {
	switch t {
	case Int16:
		return v > math.MinInt16-1 && v < math.MaxInt16+1
	case Int32:
		return v > math.MinInt32-1 && v < math.MaxInt32+1
	default:
		return true
	}
}

// Put writes v little-endian into b, which must be at least Width() bytes.
func (t ElemType) Put(b []byte, v float64) {
	switch t {
	case Int16:
		binary.LittleEndian.PutUint16(b, uint16(int16(v)))
	case Int32:
		binary.LittleEndian.PutUint32(b, uint32(int32(v)))
	case Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	default:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// Get reads one little-endian element from b.
func (t ElemType) Get(b []byte) float64 {
	switch t {
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
}

// Format renders v as the shortest text that parses back to the same
// element value.
func (t ElemType) Format(v float64) string {
	switch t {
	case Int16, Int32:
		return strconv.FormatInt(int64(t.Quantize(v)), 10)
	case Float32:
		return strconv.FormatFloat(v, 'g', -1, 32)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
