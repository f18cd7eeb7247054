// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package textfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bpowers/odmatrix/internal/binio"
	"github.com/bpowers/odmatrix/matrix"
)

// PSVLayout selects how an exported PSV file lists the cells of a row.
type PSVLayout uint8

const (
	// CellCell ("CC") lists "destination value" pairs for non-zero cells.
	CellCell PSVLayout = iota + 1
	// CellNumber ("CN") lists every value of the row in column order.
	CellNumber
)

// DefaultPSVWidth is the line length at which PSV rows are wrapped.
const DefaultPSVWidth = 1000

func (l PSVLayout) String() string {
	switch l {
	case CellCell:
		return "CC"
	case CellNumber:
		return "CN"
	}
	return fmt.Sprintf("PSVLayout(%d)", uint8(l))
}

// ParsePSVLayout reads "CC" or "CN", ignoring case.
func ParsePSVLayout(s string) (PSVLayout, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CC":
		return CellCell, nil
	case "CN":
		return CellNumber, nil
	}
	return 0, fmt.Errorf("PSV layout %q: %w", s, matrix.ErrUnrecognizedFormat)
}

// EncodePSV exports ds as a PSV file.  The first line is
// "<layout>; Za <max(rows, cols)>; Zi <min(rows, cols)>;" and each
// following line starts with an origin zone.  Rows that are entirely zero
// are left out.  A row longer than maxWidth bytes continues on further
// lines that repeat the origin.  PSV files carry no element type or zone
// names and are not read back.
func EncodePSV(out io.Writer, ds *matrix.Dataset, layout PSVLayout, maxWidth int) (int64, error) {
	if layout != CellCell && layout != CellNumber {
		return 0, fmt.Errorf("PSV layout %v: %w", layout, matrix.ErrUnrecognizedFormat)
	}
	m := ds.Matrix
	if m.Is3D() {
		return 0, fmt.Errorf("PSV cannot hold %d blocks: %w", m.Blocks, matrix.ErrDimensionMismatch)
	}
	cols := ds.Columns()
	if ds.Zones.Len() != m.Rows || cols.Len() != m.Cols {
		return 0, fmt.Errorf("%d row and %d column zones for a %dx%d matrix: %w",
			ds.Zones.Len(), cols.Len(), m.Rows, m.Cols, matrix.ErrDimensionMismatch)
	}
	if maxWidth <= 0 {
		maxWidth = DefaultPSVWidth
	}

	w := binio.NewWriter(out)
	fmt.Fprintf(w, "%s; Za %d; Zi %d;\n", layout, max(m.Rows, m.Cols), min(m.Rows, m.Cols))

	var line, item []byte
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		if isZeroRow(row) {
			continue
		}
		origin := strconv.AppendInt(nil, int64(ds.Zones.IDs[i]), 10)
		line = append(line[:0], origin...)
		for j, v := range row {
			if layout == CellCell && v == 0 {
				continue
			}
			item = item[:0]
			item = append(item, ' ')
			if layout == CellCell {
				item = strconv.AppendInt(item, int64(cols.IDs[j]), 10)
				item = append(item, ' ')
			}
			item = append(item, m.Type.Format(v)...)
			if len(line) > len(origin) && len(line)+len(item) >= maxWidth {
				line = append(line, '\n')
				w.PutBytes(line)
				line = append(line[:0], origin...)
			}
			line = append(line, item...)
		}
		line = append(line, '\n')
		w.PutBytes(line)
	}

	if err := w.Flush(); err != nil {
		return w.Written(), err
	}
	return w.Written(), nil
}

func isZeroRow(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
