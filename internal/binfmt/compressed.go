// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package binfmt

import (
	"fmt"
	"io"

	"github.com/bpowers/odmatrix/internal/binio"
	"github.com/bpowers/odmatrix/internal/checksum"
	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/internal/rowcodec"
	"github.com/bpowers/odmatrix/matrix"
)

// Compressed is a decoded $BI, $BK or $BL file together with the sums
// embedded in it.  The sums have not been checked against the matrix.
type Compressed struct {
	Kind    format.Kind
	Dataset *matrix.Dataset
	Sums    checksum.Sums
}

// inlineSums reports whether each row chunk is followed by its row and
// column sum, rather than the sums being stored as vectors at the end.
func inlineSums(k format.Kind) bool {
	return k != format.BL
}

// DecodeCompressed parses a compressed binary file.
func DecodeCompressed(data []byte) (*Compressed, error) {
	r := binio.NewReader(data)

	var h fileHeader
	if err := h.readFrom(r); err != nil {
		return nil, fmt.Errorf("file header: %w", err)
	}

	rows := h.rows
	cols := rows
	var err error
	if h.kind != format.BI {
		if cols, err = r.Count(); err != nil {
			return nil, fmt.Errorf("column count: %w", err)
		}
	}
	if inlineSums(h.kind) && cols != rows {
		return nil, fmt.Errorf("$B%c with %d rows and %d columns: %w", h.kind.TagChar(), rows, cols, matrix.ErrMalformedHeader)
	}

	zones := matrix.ZoneSet{}
	if zones.IDs, err = r.I32s(rows); err != nil {
		return nil, fmt.Errorf("row zones: %w", err)
	}
	var colZones *matrix.ZoneSet
	if h.kind != format.BI {
		cz := matrix.ZoneSet{}
		if cz.IDs, err = r.I32s(cols); err != nil {
			return nil, fmt.Errorf("column zones: %w", err)
		}
		if zones.Names, err = readNames(r, rows); err != nil {
			return nil, fmt.Errorf("row zone names: %w", err)
		}
		if cz.Names, err = readNames(r, cols); err != nil {
			return nil, fmt.Errorf("column zone names: %w", err)
		}
		if h.kind == format.BL || !cz.Equal(zones) {
			colZones = &cz
		}
	}

	off := r.Offset()
	allNull, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("all-null flag: %w", err)
	}
	if allNull > 1 {
		return nil, fmt.Errorf("off %d: all-null flag %d: %w", off, allNull, matrix.ErrMalformedHeader)
	}

	if allNull == 0 {
		if err := checkRowRoom(r, h.kind, h.elemType, rows, cols); err != nil {
			return nil, err
		}
	}

	m := matrix.New(h.elemType, rows, cols)
	sums := checksum.Sums{
		Rows: make([]float64, rows),
		Cols: make([]float64, cols),
	}
	if allNull == 0 {
		if sums.Diagonal, err = r.F64(); err != nil {
			return nil, fmt.Errorf("diagonal sum: %w", err)
		}
		for i := 0; i < rows; i++ {
			if err := readRow(r, m, i); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			if inlineSums(h.kind) {
				if sums.Rows[i], err = r.F64(); err != nil {
					return nil, fmt.Errorf("row %d sum: %w", i, err)
				}
				if sums.Cols[i], err = r.F64(); err != nil {
					return nil, fmt.Errorf("column %d sum: %w", i, err)
				}
			}
		}
		if !inlineSums(h.kind) {
			if sums.Rows, err = r.F64s(rows); err != nil {
				return nil, fmt.Errorf("row sums: %w", err)
			}
			if sums.Cols, err = r.F64s(cols); err != nil {
				return nil, fmt.Errorf("column sums: %w", err)
			}
		}
	}

	ds := &matrix.Dataset{
		Zones:    zones,
		ColZones: colZones,
		Matrix:   m,
		Meta:     h.metadata(sums.Diagonal),
	}
	return &Compressed{Kind: h.kind, Dataset: ds, Sums: sums}, nil
}

// maxDeflateRatio bounds how far deflate can shrink its input.
const maxDeflateRatio = 1032

// minChunkLen is the size of the smallest zlib stream: a 2-byte header,
// an empty final block and the adler32 trailer.
const minChunkLen = 8

// checkRowRoom fails unless the rest of the file could hold the diagonal,
// every row chunk and the sums that the header promises.  It runs before
// the matrix is allocated so a short file cannot demand rows*cols memory.
func checkRowRoom(r *binio.Reader, kind format.Kind, t matrix.ElemType, rows, cols int) error {
	perRow := 4 + max(minChunkLen, cols*t.Width()/maxDeflateRatio)
	if inlineSums(kind) {
		perRow += 16
	}
	need := 8
	if rows > 0 && perRow > (r.Remaining()-need)/rows {
		return fmt.Errorf("off %d: %d rows of at least %d bytes exceed the remaining %d: %w",
			r.Offset(), rows, perRow, r.Remaining(), matrix.ErrTruncatedInput)
	}
	need += rows * perRow
	if !inlineSums(kind) {
		need += 8 * (rows + cols)
	}
	if need > r.Remaining() {
		return fmt.Errorf("off %d: rows and sums need at least %d bytes, have %d: %w",
			r.Offset(), need, r.Remaining(), matrix.ErrTruncatedInput)
	}
	return nil
}

func readNames(r *binio.Reader, n int) ([]string, error) {
	names := make([]string, n)
	for i := range names {
		s, err := r.UTF16()
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
		names[i] = s
	}
	return names, nil
}

func readRow(r *binio.Reader, m *matrix.Matrix, i int) error {
	n, err := r.Count()
	if err != nil {
		return err
	}
	chunk, err := r.Bytes(n)
	if err != nil {
		return err
	}
	return rowcodec.Decompress(chunk, m.Type, m.Row(i))
}

// EncodeCompressed writes ds as a $BI, $BK or $BL file and returns the
// number of bytes written.  All sums and counts are computed from the
// matrix.
func EncodeCompressed(out io.Writer, ds *matrix.Dataset, kind format.Kind, level int) (int64, error) {
	if !kind.IsCompressed() {
		return 0, fmt.Errorf("%v is not a compressed binary format", kind)
	}
	if ds.Matrix.Is3D() {
		return 0, fmt.Errorf("$B%c cannot hold %d blocks: %w", kind.TagChar(), ds.Matrix.Blocks, matrix.ErrDimensionMismatch)
	}
	// quantize a copy so the sums match what a reader will see
	m := ds.Matrix.Convert(ds.Matrix.Type)
	if ds.Zones.Len() != m.Rows {
		return 0, fmt.Errorf("%d row zones for %d rows: %w", ds.Zones.Len(), m.Rows, matrix.ErrDimensionMismatch)
	}
	cols := ds.Columns()
	if cols.Len() != m.Cols {
		return 0, fmt.Errorf("%d column zones for %d columns: %w", cols.Len(), m.Cols, matrix.ErrDimensionMismatch)
	}
	if inlineSums(kind) && !m.IsSquare() {
		return 0, fmt.Errorf("$B%c needs a square matrix, have %dx%d: %w", kind.TagChar(), m.Rows, m.Cols, matrix.ErrDimensionMismatch)
	}
	if kind == format.BI && !ds.SharedZones() {
		return 0, fmt.Errorf("$BI has a single zone list but rows and columns differ: %w", matrix.ErrDimensionMismatch)
	}

	enc, err := rowcodec.NewEncoder(level)
	if err != nil {
		return 0, err
	}

	sums := checksum.Compute(m)
	w := binio.NewWriter(out)
	h := newFileHeader(kind, ds, m, sums.Diagonal)
	if err := h.writeTo(w); err != nil {
		return w.Written(), fmt.Errorf("fileHeader.writeTo: %w", err)
	}

	if kind != format.BI {
		w.PutI32(int32(m.Cols))
	}
	w.PutI32s(ds.Zones.IDs)
	if kind != format.BI {
		w.PutI32s(cols.IDs)
		for i := 0; i < ds.Zones.Len(); i++ {
			w.PutUTF16(ds.Zones.Name(i))
		}
		for i := 0; i < cols.Len(); i++ {
			w.PutUTF16(cols.Name(i))
		}
	}

	if m.IsZero() {
		w.PutU8(1)
		return w.Written(), w.Flush()
	}

	w.PutU8(0)
	w.PutF64(sums.Diagonal)
	for i := 0; i < m.Rows; i++ {
		chunk, err := enc.Compress(m.Row(i), m.Type)
		if err != nil {
			return w.Written(), fmt.Errorf("row %d: %w", i, err)
		}
		w.PutI32(int32(len(chunk)))
		w.PutBytes(chunk)
		if inlineSums(kind) {
			w.PutF64(sums.Rows[i])
			w.PutF64(sums.Cols[i])
		}
	}
	if !inlineSums(kind) {
		w.PutF64s(sums.Rows)
		w.PutF64s(sums.Cols)
	}

	if err := w.Flush(); err != nil {
		return w.Written(), err
	}
	return w.Written(), nil
}
