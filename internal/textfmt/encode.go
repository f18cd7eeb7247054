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
	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

// valuesPerLine bounds how many values (V) or pairs (E) go on one line.
const valuesPerLine = 10

// Encode writes ds in the text format f and returns the number of bytes
// written.  Text formats describe a square matrix with one zone set.
func Encode(out io.Writer, ds *matrix.Dataset, f format.Format) (int64, error) {
	if !f.Kind.IsText() || f.Kind == format.S {
		return 0, fmt.Errorf("cannot write %v as text: %w", f, matrix.ErrUnrecognizedFormat)
	}
	m := ds.Matrix
	if m.Is3D() || !m.IsSquare() || !ds.SharedZones() {
		return 0, fmt.Errorf("$%v needs a square matrix with one zone set, have %dx%dx%d: %w",
			f, m.Blocks, m.Rows, m.Cols, matrix.ErrDimensionMismatch)
	}
	if ds.Zones.Len() != m.Rows {
		return 0, fmt.Errorf("%d zones for %d rows: %w", ds.Zones.Len(), m.Rows, matrix.ErrDimensionMismatch)
	}

	if err := checkNames(ds.Zones); err != nil {
		return 0, err
	}
	if f.Kind == format.E {
		if err := checkOrigins(ds); err != nil {
			return 0, err
		}
	}

	w := binio.NewWriter(out)
	writeHeader(w, f, m.Type, ds.Meta)
	switch f.Kind {
	case format.V:
		writeV(w, ds)
	case format.O:
		writeO(w, ds)
	case format.E:
		writeE(w, ds)
	}
	if err := w.Flush(); err != nil {
		return w.Written(), err
	}
	return w.Written(), nil
}

// checkNames rejects names that would break the one-line-per-zone
// $NAMES section.
func checkNames(z matrix.ZoneSet) error {
	for i, name := range z.Names {
		if strings.ContainsAny(name, "\r\n") {
			return fmt.Errorf("zone %d: name %q spans lines: %w", z.IDs[i], name, matrix.ErrMalformedRecord)
		}
	}
	return nil
}

// checkOrigins rejects negative origins in $E output: a leading minus on
// an origin is a flag readers strip, so the id would not survive.
func checkOrigins(ds *matrix.Dataset) error {
	m := ds.Matrix
	for i, id := range ds.Zones.IDs {
		if id >= 0 {
			continue
		}
		for _, v := range m.Row(i) {
			if v != 0 {
				return fmt.Errorf("origin zone %d is negative: %w", id, matrix.ErrMalformedRecord)
			}
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeHeader(w io.Writer, f format.Format, t matrix.ElemType, meta matrix.Metadata) {
	fmt.Fprintf(w, "$%s;%s\n", f, typeTag(t))
	if f.WithMode {
		fmt.Fprintf(w, "* Verkehrsmittelkennung:\n%d\n", meta.Mode)
	}
	if !f.NoTime {
		fmt.Fprintf(w, "* Zeitintervall:\n%s %s\n", formatFloat(meta.TimeFrom), formatFloat(meta.TimeTo))
		fmt.Fprintf(w, "* Faktor:\n%s\n", formatFloat(meta.Factor))
	}
}

func writeV(w io.Writer, ds *matrix.Dataset) {
	m := ds.Matrix
	n := ds.Zones.Len()
	fmt.Fprintf(w, "* Anzahl Bezirke:\n%d\n", n)
	io.WriteString(w, "* Bezirksnummern\n")
	var sb strings.Builder
	for start := 0; start < n; start += valuesPerLine {
		sb.Reset()
		for k, id := range ds.Zones.IDs[start:min(start+valuesPerLine, n)] {
			if k > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatInt(int64(id), 10))
		}
		sb.WriteByte('\n')
		io.WriteString(w, sb.String())
	}

	io.WriteString(w, "* Matrixwerte\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(w, "* %d\n", ds.Zones.IDs[i])
		row := m.Row(i)
		for start := 0; start < n; start += valuesPerLine {
			sb.Reset()
			for k, v := range row[start:min(start+valuesPerLine, n)] {
				if k > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(m.Type.Format(v))
			}
			sb.WriteByte('\n')
			io.WriteString(w, sb.String())
		}
	}

	if ds.Zones.HasNames() {
		writeNames(w, ds.Zones)
	}
}

// writeO writes the non-zero cells as triples.  The $NAMES section is
// always written so the zone set survives zones without any flows.
func writeO(w io.Writer, ds *matrix.Dataset) {
	m := ds.Matrix
	ids := ds.Zones.IDs
	io.WriteString(w, "* Matrixwerte\n")
	for i := 0; i < m.Rows; i++ {
		for j, v := range m.Row(i) {
			if v == 0 {
				continue
			}
			fmt.Fprintf(w, "%d %d %s\n", ids[i], ids[j], m.Type.Format(v))
		}
	}
	writeNames(w, ds.Zones)
}

// writeE writes one line per origin with at least one non-zero cell; long
// rows continue on further lines that repeat the origin.
func writeE(w io.Writer, ds *matrix.Dataset) {
	m := ds.Matrix
	ids := ds.Zones.IDs
	io.WriteString(w, "* Matrixwerte\n")
	var sb strings.Builder
	for i := 0; i < m.Rows; i++ {
		pairs := 0
		for j, v := range m.Row(i) {
			if v == 0 {
				continue
			}
			if pairs == 0 {
				sb.Reset()
				sb.WriteString(strconv.FormatInt(int64(ids[i]), 10))
			}
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatInt(int64(ids[j]), 10))
			sb.WriteByte(' ')
			sb.WriteString(m.Type.Format(v))
			pairs++
			if pairs == valuesPerLine {
				sb.WriteByte('\n')
				io.WriteString(w, sb.String())
				pairs = 0
			}
		}
		if pairs > 0 {
			sb.WriteByte('\n')
			io.WriteString(w, sb.String())
		}
	}
	writeNames(w, ds.Zones)
}

func writeNames(w io.Writer, z matrix.ZoneSet) {
	io.WriteString(w, "* Netzobjektnamen\n")
	io.WriteString(w, namesSection+"\n")
	for i, id := range z.IDs {
		fmt.Fprintf(w, "%d \"%s\"\n", id, z.Name(i))
	}
}
