// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package matrix defines the in-memory origin-destination matrix dataset
// that every decoder produces and every encoder consumes.
package matrix

import "fmt"

// Metadata holds the scalar attributes carried by the file formats.
type Metadata struct {
	// TimeFrom and TimeTo bound the analysis period, in hours.
	TimeFrom float64
	TimeTo   float64
	Factor   float64
	// Mode is the transport-mode identifier.
	Mode     int32
	Rounding bool
	// DiagonalSum is only populated when decoding a compressed binary file.
	DiagonalSum float64
	// Header is the free-text header blob of compressed binary files.
	Header string
}

// DefaultMetadata is the metadata a decoder starts from before reading
// any optional header sections.
func DefaultMetadata() Metadata {
	return Metadata{Factor: 1}
}

// Dataset is a matrix together with its zones and metadata.
type Dataset struct {
	// Zones label the rows, and the columns too when ColZones is nil.
	Zones ZoneSet
	// ColZones is set for asymmetric matrices with independent column zones.
	ColZones *ZoneSet
	Matrix   *Matrix
	Meta     Metadata
}

// NewDataset wraps m with zones shared by rows and columns.
func NewDataset(zones ZoneSet, m *Matrix) *Dataset {
	return &Dataset{
		Zones:  zones,
		Matrix: m,
		Meta:   DefaultMetadata(),
	}
}

// Columns returns the zones labelling the matrix columns.
func (d *Dataset) Columns() ZoneSet {
	if d.ColZones != nil {
		return *d.ColZones
	}
	return d.Zones
}

// SharedZones reports whether rows and columns use one zone set.
func (d *Dataset) SharedZones() bool {
	return d.ColZones == nil || d.ColZones.Equal(d.Zones)
}

// Validate checks the zone sets against the matrix shape.
func (d *Dataset) Validate() error {
	if d.Matrix == nil {
		return fmt.Errorf("dataset has no matrix: %w", ErrDimensionMismatch)
	}
	if !d.Matrix.Type.Valid() {
		return fmt.Errorf("element type %v: %w", d.Matrix.Type, ErrMalformedHeader)
	}
	m := d.Matrix
	if len(m.Data) != m.Blocks*m.Rows*m.Cols {
		return fmt.Errorf("matrix data has %d elements for shape (%d, %d, %d): %w",
			len(m.Data), m.Blocks, m.Rows, m.Cols, ErrDimensionMismatch)
	}
	if err := d.Zones.Validate(); err != nil {
		return fmt.Errorf("row zones: %w", err)
	}
	if d.Zones.Len() != m.Rows {
		return fmt.Errorf("%d row zones for %d rows: %w", d.Zones.Len(), m.Rows, ErrDimensionMismatch)
	}
	cols := d.Columns()
	if d.ColZones != nil {
		if err := cols.Validate(); err != nil {
			return fmt.Errorf("column zones: %w", err)
		}
	}
	if cols.Len() != m.Cols {
		return fmt.Errorf("%d column zones for %d columns: %w", cols.Len(), m.Cols, ErrDimensionMismatch)
	}
	return nil
}
