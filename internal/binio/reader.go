// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package binio reads and writes the fixed-width little-endian primitives
// the binary matrix formats are built from.
package binio

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/bpowers/odmatrix/matrix"
)

// Reader reads primitives from an in-memory file image.  It never copies
// the underlying bytes except where noted.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset is the absolute position of the next read.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Seek moves to the absolute offset off.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return fmt.Errorf("seek to %d beyond end (%d): %w", off, len(r.buf), matrix.ErrTruncatedInput)
	}
	r.off = off
	return nil
}

func (r *Reader) Skip(n int) error {
	_, err := r.Bytes(n)
	return err
}

// Bytes returns the next n bytes.  The slice aliases the reader's buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("off %d: negative length %d: %w", r.off, n, matrix.ErrMalformedHeader)
	}
	if n > len(r.buf)-r.off {
		return nil, fmt.Errorf("off %d: want %d bytes, have %d: %w", r.off, n, len(r.buf)-r.off, matrix.ErrTruncatedInput)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

func (r *Reader) I32() (int32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *Reader) F32() (float32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (r *Reader) F64() (float64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// Count reads an i32 element count and rejects negative values.
func (r *Reader) Count() (int, error) {
	off := r.off
	n, err := r.I32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("off %d: negative count %d: %w", off, n, matrix.ErrMalformedHeader)
	}
	return int(n), nil
}

// I32s reads n consecutive i32 values into a new slice.
func (r *Reader) I32s(n int) ([]int32, error) {
	b, err := r.Bytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out, nil
}

// F64s reads n consecutive f64 values into a new slice.
func (r *Reader) F64s(n int) ([]float64, error) {
	b, err := r.Bytes(8 * n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return out, nil
}

// UTF16 reads a string stored as an i32 code-unit count followed by that
// many little-endian UTF-16 code units.
func (r *Reader) UTF16() (string, error) {
	n, err := r.Count()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(2 * n)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return string(utf16.Decode(units)), nil
}
