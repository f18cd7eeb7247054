// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package rowcodec compresses single matrix rows with zlib, the way the
// compressed binary matrix formats store them.
package rowcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/bpowers/odmatrix/matrix"
)

const DefaultLevel = zlib.DefaultCompression

// Encoder compresses rows, reusing its buffers and compressor between
// calls.  It is not safe for concurrent use.
type Encoder struct {
	level int
	raw   []byte
	out   bytes.Buffer
	zw    *zlib.Writer
}

// NewEncoder returns an Encoder using the given zlib level.
func NewEncoder(level int) (*Encoder, error) {
	e := &Encoder{level: level}
	zw, err := zlib.NewWriterLevel(&e.out, level)
	if err != nil {
		return nil, fmt.Errorf("zlib.NewWriterLevel(%d): %w", level, err)
	}
	e.zw = zw
	return e, nil
}

// Compress serializes row in element type t and deflates it.  The returned
// slice is only valid until the next call to Compress.
func (e *Encoder) Compress(row []float64, t matrix.ElemType) ([]byte, error) {
	width := t.Width()
	if n := len(row) * width; cap(e.raw) < n {
		e.raw = make([]byte, n)
	} else {
		e.raw = e.raw[:n]
	}
	for i, v := range row {
		t.Put(e.raw[i*width:], v)
	}

	e.out.Reset()
	e.zw.Reset(&e.out)
	if _, err := e.zw.Write(e.raw); err != nil {
		return nil, fmt.Errorf("zlib.Write: %w", err)
	}
	if err := e.zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib.Close: %w", err)
	}
	return e.out.Bytes(), nil
}

// Decompress inflates chunk and decodes exactly len(dst) elements of type
// t into dst.  Output shorter than that is reported as ErrTruncatedInput,
// anything else that does not decode cleanly as ErrCorruptRow.
func Decompress(chunk []byte, t matrix.ElemType, dst []float64) error {
	zr, err := zlib.NewReader(bytes.NewReader(chunk))
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = zr.Close()
	}()

	width := t.Width()
	raw := make([]byte, len(dst)*width)
	if n, err := io.ReadFull(zr, raw); err != nil {
		return fmt.Errorf("inflated %d of %d bytes: %w", n, len(raw), classify(err))
	}
	// reading past the expected length verifies the adler32 trailer
	var extra [1]byte
	if n, err := io.ReadFull(zr, extra[:]); n > 0 {
		return fmt.Errorf("row inflates to more than %d bytes: %w", len(raw), matrix.ErrCorruptRow)
	} else if err != nil && err != io.EOF {
		return classify(err)
	}

	for i := range dst {
		dst[i] = t.Get(raw[i*width:])
	}
	return nil
}

func classify(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%v: %w", err, matrix.ErrTruncatedInput)
	}
	return fmt.Errorf("%v: %w", err, matrix.ErrCorruptRow)
}
