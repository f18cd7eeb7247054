// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package binio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/odmatrix/matrix"
)

func TestWriterReader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.PutU8(7)
	w.PutU16(0xbeef)
	w.PutI16(-2)
	w.PutI32(-100000)
	w.PutF32(1.5)
	w.PutF64(-0.25)
	w.PutI32s([]int32{1, 2, 3})
	w.PutF64s([]float64{4, 5})
	w.PutUTF16("Zürich 🚉")
	w.PutZeros(3)
	w.PutBytes([]byte("end"))
	require.NoError(t, w.Flush())
	assert.Equal(t, int64(buf.Len()), w.Written())

	r := NewReader(buf.Bytes())
	u8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)
	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), u16)
	i16, err := r.I16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)
	i32, err := r.I32()
	require.NoError(t, err)
	assert.Equal(t, int32(-100000), i32)
	f32, err := r.F32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)
	f64, err := r.F64()
	require.NoError(t, err)
	assert.Equal(t, -0.25, f64)
	ids, err := r.I32s(3)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, ids)
	vals, err := r.F64s(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, vals)
	s, err := r.UTF16()
	require.NoError(t, err)
	assert.Equal(t, "Zürich 🚉", s)
	require.NoError(t, r.Skip(3))
	tail, err := r.Bytes(3)
	require.NoError(t, err)
	assert.Equal(t, "end", string(tail))
	assert.Equal(t, 0, r.Remaining())

	_, err = r.U8()
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)
}

func TestReaderSeek(t *testing.T) {
	r := NewReader([]byte{1, 0, 0, 0, 2, 0, 0, 0})
	require.NoError(t, r.Seek(4))
	v, err := r.I32()
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
	assert.Equal(t, 8, r.Offset())

	assert.ErrorIs(t, r.Seek(9), matrix.ErrTruncatedInput)
	assert.ErrorIs(t, r.Seek(-1), matrix.ErrTruncatedInput)
}

func TestReaderCount(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff})
	_, err := r.Count()
	assert.ErrorIs(t, err, matrix.ErrMalformedHeader)

	// a string claiming more code units than remain
	r = NewReader([]byte{10, 0, 0, 0, 'a', 0})
	_, err = r.UTF16()
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.PutZeros(8 << 20)
	w.PutI32(1)
	err := w.Flush()
	require.Error(t, err)
	assert.Equal(t, err, w.Err())
}
