// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package matrix

import "fmt"

// Matrix is a dense row-major array of shape (Blocks, Rows, Cols).  All
// formats except 3-D uncompressed binary files have exactly one block.
//
// Values are stored as float64, which represents every supported element
// type exactly, and are kept quantized to Type.
type Matrix struct {
	Type   ElemType
	Blocks int
	Rows   int
	Cols   int
	Data   []float64
}

// New returns a zeroed rows x cols matrix.
func New(t ElemType, rows, cols int) *Matrix {
	return New3D(t, 1, rows, cols)
}

// New3D returns a zeroed blocks x rows x cols matrix.
func New3D(t ElemType, blocks, rows, cols int) *Matrix {
	if blocks < 0 || rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix.New3D: negative shape (%d, %d, %d)", blocks, rows, cols))
	}
	return &Matrix{
		Type:   t,
		Blocks: blocks,
		Rows:   rows,
		Cols:   cols,
		Data:   make([]float64, blocks*rows*cols),
	}
}

// FromRows builds a single-block matrix from a slice of equal-length rows.
func FromRows(t ElemType, rows [][]float64) (*Matrix, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := New(t, len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrDimensionMismatch)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

func (m *Matrix) Is3D() bool {
	return m.Blocks != 1
}

func (m *Matrix) IsSquare() bool {
	return m.Rows == m.Cols
}

// At returns element (i, j) of the first block.
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set stores v, quantized to the element type, at (i, j) of the first block.
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = m.Type.Quantize(v)
}

// Row returns row i of the first block.  The slice aliases the matrix.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// SetRow copies row into row i of the first block, quantizing each value.
func (m *Matrix) SetRow(i int, row []float64) {
	dst := m.Row(i)
	for j, v := range row {
		dst[j] = m.Type.Quantize(v)
	}
}

// Convert returns a copy of m with a different element type.
func (m *Matrix) Convert(t ElemType) *Matrix {
	out := New3D(t, m.Blocks, m.Rows, m.Cols)
	for i, v := range m.Data {
		out.Data[i] = t.Quantize(v)
	}
	return out
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := *m
	out.Data = append([]float64(nil), m.Data...)
	return &out
}

// IsZero reports whether every element is zero.
func (m *Matrix) IsZero() bool {
	for _, v := range m.Data {
		if v != 0 {
			return false
		}
	}
	return true
}

// NonZero counts the non-zero elements.
func (m *Matrix) NonZero() int {
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Sum is the total over all elements.
func (m *Matrix) Sum() float64 {
	var s float64
	for _, v := range m.Data {
		s += v
	}
	return s
}

// Trace is the sum of the main diagonal of the first block, over
// min(Rows, Cols) elements.
func (m *Matrix) Trace() float64 {
	n := min(m.Rows, m.Cols)
	var s float64
	for i := 0; i < n; i++ {
		s += m.At(i, i)
	}
	return s
}

// Equal reports whether both matrices have the same type, shape and values.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.Type != o.Type || m.Blocks != o.Blocks || m.Rows != o.Rows || m.Cols != o.Cols {
		return false
	}
	for i, v := range m.Data {
		if o.Data[i] != v {
			return false
		}
	}
	return true
}
