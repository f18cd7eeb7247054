// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package rowcodec

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/odmatrix/matrix"
)

func TestRoundTrip(t *testing.T) {
	enc, err := NewEncoder(DefaultLevel)
	require.NoError(t, err)

	for _, et := range []matrix.ElemType{matrix.Int16, matrix.Int32, matrix.Float32, matrix.Float64} {
		row := []float64{0, 1, -7, 300, 0, 0, 12, 0.5}
		for i, v := range row {
			row[i] = et.Quantize(v)
		}
		chunk, err := enc.Compress(row, et)
		require.NoError(t, err)
		// the chunk is only valid until the next call
		chunk = bytes.Clone(chunk)

		got := make([]float64, len(row))
		require.NoError(t, Decompress(chunk, et, got), et.String())
		assert.Equal(t, row, got, et.String())
	}
}

func TestTruncatedChunk(t *testing.T) {
	enc, err := NewEncoder(DefaultLevel)
	require.NoError(t, err)
	row := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	chunk, err := enc.Compress(row, matrix.Float64)
	require.NoError(t, err)

	got := make([]float64, len(row))
	err = Decompress(chunk[:len(chunk)/2], matrix.Float64, got)
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)
}

func TestShortRow(t *testing.T) {
	enc, err := NewEncoder(DefaultLevel)
	require.NoError(t, err)
	chunk, err := enc.Compress([]float64{1, 2}, matrix.Int32)
	require.NoError(t, err)

	got := make([]float64, 3)
	err = Decompress(chunk, matrix.Int32, got)
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)
}

func TestLongRow(t *testing.T) {
	enc, err := NewEncoder(DefaultLevel)
	require.NoError(t, err)
	chunk, err := enc.Compress([]float64{1, 2, 3}, matrix.Int32)
	require.NoError(t, err)

	got := make([]float64, 2)
	err = Decompress(chunk, matrix.Int32, got)
	assert.ErrorIs(t, err, matrix.ErrCorruptRow)
}

func TestCorruptChunk(t *testing.T) {
	got := make([]float64, 2)
	err := Decompress([]byte("definitely not zlib"), matrix.Float64, got)
	assert.ErrorIs(t, err, matrix.ErrCorruptRow)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err = zw.Write(make([]byte, 16))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	chunk := buf.Bytes()
	// flip a bit of the adler32 trailer
	chunk[len(chunk)-1] ^= 0x01
	err = Decompress(chunk, matrix.Float64, got)
	assert.ErrorIs(t, err, matrix.ErrCorruptRow)
}

func TestBadLevel(t *testing.T) {
	_, err := NewEncoder(42)
	assert.Error(t, err)
}
