// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package binio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

const defaultBufferSize = 4 * 1024 * 1024

// Writer writes primitives through a buffer.  The first write error is
// kept and returned by Err and Flush; later writes become no-ops.
type Writer struct {
	w   *bufio.Writer
	n   int64
	err error
	buf [8]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, defaultBufferSize)}
}

// Written is the number of bytes accepted so far.
func (w *Writer) Written() int64 {
	return w.n
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	if err != nil {
		w.err = fmt.Errorf("bufio.Write: %w", err)
	}
	return n, w.err
}

func (w *Writer) PutBytes(p []byte) {
	_, _ = w.Write(p)
}

func (w *Writer) PutU8(v uint8) {
	w.buf[0] = v
	w.PutBytes(w.buf[:1])
}

func (w *Writer) PutU16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.PutBytes(w.buf[:2])
}

func (w *Writer) PutI16(v int16) {
	w.PutU16(uint16(v))
}

func (w *Writer) PutI32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[:4], uint32(v))
	w.PutBytes(w.buf[:4])
}

func (w *Writer) PutF32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[:4], math.Float32bits(v))
	w.PutBytes(w.buf[:4])
}

func (w *Writer) PutF64(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(v))
	w.PutBytes(w.buf[:8])
}

func (w *Writer) PutI32s(vs []int32) {
	for _, v := range vs {
		w.PutI32(v)
	}
}

func (w *Writer) PutF64s(vs []float64) {
	for _, v := range vs {
		w.PutF64(v)
	}
}

// PutZeros writes n zero bytes.
func (w *Writer) PutZeros(n int) {
	var zeros [512]byte
	for n > 0 && w.err == nil {
		k := min(n, len(zeros))
		w.PutBytes(zeros[:k])
		n -= k
	}
}

// PutUTF16 writes s as an i32 code-unit count followed by little-endian
// UTF-16 code units.
func (w *Writer) PutUTF16(s string) {
	units := utf16.Encode([]rune(s))
	w.PutI32(int32(len(units)))
	for _, u := range units {
		w.PutU16(u)
	}
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = fmt.Errorf("bufio.Flush: %w", err)
	}
	return w.err
}
