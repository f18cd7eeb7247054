// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package checksum computes and verifies the row, column and diagonal sums
// embedded in compressed binary matrix files.
package checksum

import (
	"fmt"
	"math"

	"github.com/bpowers/odmatrix/matrix"
)

const (
	relTolerance = 1e-5
	absTolerance = 1e-9
)

// Sums are the redundancy values stored alongside a compressed matrix.
type Sums struct {
	Rows     []float64
	Cols     []float64
	Diagonal float64
}

// Compute sums the first block of m along both axes and its diagonal.
func Compute(m *matrix.Matrix) Sums {
	s := Sums{
		Rows: make([]float64, m.Rows),
		Cols: make([]float64, m.Cols),
	}
	for i := 0; i < m.Rows; i++ {
		var rowSum float64
		for j, v := range m.Row(i) {
			rowSum += v
			s.Cols[j] += v
		}
		s.Rows[i] = rowSum
	}
	s.Diagonal = m.Trace()
	return s
}

// Verify recomputes the sums of m and compares them with want.  The first
// disagreement is returned wrapping ErrChecksumMismatch.
func Verify(m *matrix.Matrix, want Sums) error {
	got := Compute(m)
	if len(want.Rows) != len(got.Rows) || len(want.Cols) != len(got.Cols) {
		return fmt.Errorf("have %d row and %d column sums for a %dx%d matrix: %w",
			len(want.Rows), len(want.Cols), m.Rows, m.Cols, matrix.ErrChecksumMismatch)
	}
	for i, w := range want.Rows {
		if !within(got.Rows[i], w) {
			return fmt.Errorf("row %d sums to %g, file says %g: %w", i, got.Rows[i], w, matrix.ErrChecksumMismatch)
		}
	}
	for j, w := range want.Cols {
		if !within(got.Cols[j], w) {
			return fmt.Errorf("column %d sums to %g, file says %g: %w", j, got.Cols[j], w, matrix.ErrChecksumMismatch)
		}
	}
	if !within(got.Diagonal, want.Diagonal) {
		return fmt.Errorf("diagonal sums to %g, file says %g: %w", got.Diagonal, want.Diagonal, matrix.ErrChecksumMismatch)
	}
	return nil
}

func within(got, want float64) bool {
	if got == want {
		return true
	}
	return math.Abs(got-want) <= absTolerance+relTolerance*math.Abs(want)
}
