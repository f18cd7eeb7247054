// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package textfmt reads and writes the line-oriented matrix formats.
//
// Every file starts with a header line such as "$OMN;Y5": the format
// letter (V, O, E or S), the optional flags M (a transport-mode section
// follows) and N (no time-window section), and an element type tag.
// Lines starting with '*' are comments.
package textfmt

import (
	"fmt"

	"github.com/bpowers/odmatrix/internal/bytesutil"
	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

// Decode parses a text matrix file.
func Decode(data []byte) (*matrix.Dataset, error) {
	lr := newLineReader(data)
	h, err := readHeader(lr)
	if err != nil {
		return nil, err
	}
	switch h.format.Kind {
	case format.V:
		return decodeV(lr, h)
	case format.O:
		return decodeSparse(lr, h, parseTriples)
	case format.E, format.S:
		return decodeSparse(lr, h, parseBand)
	}
	return nil, fmt.Errorf("%v is not a text format: %w", h.format.Kind, matrix.ErrUnrecognizedFormat)
}

func decodeV(lr *lineReader, h *header) (*matrix.Dataset, error) {
	var n int
	err := lr.readValues(1, "zone count", func(_ int, f []byte) error {
		var err error
		n, err = parseCount(f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := lr.checkRoom(n, "zone numbers"); err != nil {
		return nil, err
	}
	zones := matrix.ZoneSet{IDs: make([]int32, n)}
	err = lr.readValues(n, "zone numbers", func(i int, f []byte) error {
		var err error
		zones.IDs[i], err = parseZone(f)
		return err
	})
	if err != nil {
		return nil, err
	}

	// n fits in an int32, so n*n cannot overflow
	if err := lr.checkRoom(n*n, "matrix values"); err != nil {
		return nil, err
	}
	m := matrix.New(h.elemType, n, n)
	err = lr.readValues(n*n, "matrix values", func(i int, f []byte) error {
		v, err := parseElem(f, h.elemType)
		m.Data[i] = v
		return err
	})
	if err != nil {
		return nil, err
	}

	section, _ := lr.nextData()
	names, err := readNames(lr, section)
	if err != nil {
		return nil, err
	}
	if err := applyNames(&zones, names); err != nil {
		return nil, err
	}

	return &matrix.Dataset{Zones: zones, Matrix: m, Meta: h.meta}, nil
}

type cell struct {
	from, to int32
	value    float64
	// zoneOnly cells just mark from as a zone and carry no value
	zoneOnly bool
}

// lineParser turns one data line of a sparse format into cells.
type lineParser func(line []byte, emit func(cell)) error

// parseTriples reads "origin destination value" triples; a line may hold
// several of them.
func parseTriples(line []byte, emit func(cell)) error {
	n := bytesutil.CountFields(line)
	if n == 0 || n%3 != 0 {
		return fmt.Errorf("%d fields, want a multiple of 3: %w", n, matrix.ErrMalformedRecord)
	}
	rest := line
	for k := 0; k < n; k += 3 {
		var f1, f2, f3 []byte
		f1, rest = bytesutil.NextField(rest)
		f2, rest = bytesutil.NextField(rest)
		f3, rest = bytesutil.NextField(rest)
		from, err := parseZone(f1)
		if err != nil {
			return err
		}
		to, err := parseZone(f2)
		if err != nil {
			return err
		}
		v, err := parseValue(f3)
		if err != nil {
			return err
		}
		emit(cell{from: from, to: to, value: v})
	}
	return nil
}

// parseBand reads "origin (destination value)*"; a leading minus sign on
// the origin is ignored.
func parseBand(line []byte, emit func(cell)) error {
	for len(line) > 0 && line[0] == '-' {
		line = line[1:]
	}
	n := bytesutil.CountFields(line)
	if n == 0 || n%2 != 1 {
		return fmt.Errorf("%d fields, want an origin and pairs: %w", n, matrix.ErrMalformedRecord)
	}
	originField, rest := bytesutil.NextField(line)
	from, err := parseZone(originField)
	if err != nil {
		return err
	}
	if n == 1 {
		// an origin without destinations still names a zone
		emit(cell{from: from, to: from, zoneOnly: true})
		return nil
	}
	for k := 1; k < n; k += 2 {
		var f1, f2 []byte
		f1, rest = bytesutil.NextField(rest)
		f2, rest = bytesutil.NextField(rest)
		to, err := parseZone(f1)
		if err != nil {
			return err
		}
		v, err := parseValue(f2)
		if err != nil {
			return err
		}
		emit(cell{from: from, to: to, value: v})
	}
	return nil
}

// decodeSparse reads the O, E and S bodies: data lines up to EOF or a '$'
// line, then an optional $NAMES section.
func decodeSparse(lr *lineReader, h *header, parse lineParser) (*matrix.Dataset, error) {
	var cells []cell
	var referenced []int32
	emit := func(c cell) {
		cells = append(cells, c)
		referenced = append(referenced, c.from, c.to)
	}

	var section []byte
	for {
		line, ok := lr.nextData()
		if !ok {
			if err := lr.err(); err != nil {
				return nil, err
			}
			break
		}
		if line[0] == '$' {
			section = line
			break
		}
		if err := parse(line, emit); err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.lineNo, err)
		}
	}

	names, err := readNames(lr, section)
	if err != nil {
		return nil, err
	}
	var zones matrix.ZoneSet
	if len(names) > 0 {
		if zones, err = zonesFromNames(names); err != nil {
			return nil, err
		}
	} else {
		zones = matrix.DeriveZones(referenced)
	}

	idx, err := zones.Index()
	if err != nil {
		return nil, err
	}
	n := zones.Len()
	m := matrix.New(h.elemType, n, n)
	for _, c := range cells {
		if c.zoneOnly {
			continue
		}
		i, ok := idx[c.from]
		if !ok {
			return nil, fmt.Errorf("origin %d is not a listed zone: %w", c.from, matrix.ErrMalformedRecord)
		}
		j, ok := idx[c.to]
		if !ok {
			return nil, fmt.Errorf("destination %d is not a listed zone: %w", c.to, matrix.ErrMalformedRecord)
		}
		if !h.elemType.Fits(c.value) {
			return nil, fmt.Errorf("value %g from %d to %d out of range for %v: %w", c.value, c.from, c.to, h.elemType, matrix.ErrMalformedRecord)
		}
		m.Set(i, j, c.value)
	}

	return &matrix.Dataset{Zones: zones, Matrix: m, Meta: h.meta}, nil
}
