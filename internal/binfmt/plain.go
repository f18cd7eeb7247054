// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package binfmt

import (
	"fmt"
	"io"

	"github.com/bpowers/odmatrix/internal/binio"
	"github.com/bpowers/odmatrix/matrix"
)

// DefaultHeaderLen is the length of the free-text header that precedes
// the fields of an uncompressed binary file, unless told otherwise.
const DefaultHeaderLen = 2048

// element type codes of the uncompressed format
const (
	plainFloat32 = 3
	plainFloat64 = 4
)

func plainElemType(code int16) (matrix.ElemType, error) {
	switch code {
	case plainFloat32:
		return matrix.Float32, nil
	case plainFloat64:
		return matrix.Float64, nil
	}
	return 0, fmt.Errorf("uncompressed element type code %d: %w", code, matrix.ErrMalformedHeader)
}

// DecodePlain parses an uncompressed binary file whose fields start
// headerLen bytes into data.
func DecodePlain(data []byte, headerLen int) (*matrix.Dataset, error) {
	r := binio.NewReader(data)
	if err := r.Seek(headerLen); err != nil {
		return nil, fmt.Errorf("header of %d bytes: %w", headerLen, err)
	}

	if err := r.Skip(2); err != nil {
		return nil, err
	}
	dims, err := r.I16()
	if err != nil {
		return nil, err
	}
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("%d dimensions: %w", dims, matrix.ErrUnsupportedDimensionality)
	}

	rows, err := r.Count()
	if err != nil {
		return nil, fmt.Errorf("row count: %w", err)
	}
	if err := r.Skip(4); err != nil {
		return nil, err
	}
	cols, err := r.Count()
	if err != nil {
		return nil, fmt.Errorf("column count: %w", err)
	}
	if err := r.Skip(4); err != nil {
		return nil, err
	}
	blocks := 1
	if dims == 3 {
		if blocks, err = r.Count(); err != nil {
			return nil, fmt.Errorf("block count: %w", err)
		}
		if err := r.Skip(4); err != nil {
			return nil, err
		}
	}

	code, err := r.I16()
	if err != nil {
		return nil, err
	}
	t, err := plainElemType(code)
	if err != nil {
		return nil, err
	}
	off := r.Offset()
	lists, err := r.I16()
	if err != nil {
		return nil, err
	}
	if lists < 0 {
		return nil, fmt.Errorf("off %d: zone list count %d: %w", off, lists, matrix.ErrMalformedHeader)
	}

	meta := matrix.DefaultMetadata()
	timeFrom, err := r.F32()
	if err != nil {
		return nil, err
	}
	timeTo, err := r.F32()
	if err != nil {
		return nil, err
	}
	if meta.Mode, err = r.I32(); err != nil {
		return nil, err
	}
	factor, err := r.F32()
	if err != nil {
		return nil, err
	}
	meta.TimeFrom, meta.TimeTo, meta.Factor = float64(timeFrom), float64(timeTo), float64(factor)

	// with several zone lists the last one labels the matrix
	var ids []int32
	for k := 0; k < int(lists); k++ {
		if ids, err = r.I32s(max(rows, cols)); err != nil {
			return nil, fmt.Errorf("zone list %d: %w", k, err)
		}
	}

	n, err := payloadLen(r.Remaining(), t.Width(), blocks, rows, cols)
	if err != nil {
		return nil, err
	}
	payload, err := r.Bytes(n)
	if err != nil {
		return nil, fmt.Errorf("matrix payload: %w", err)
	}
	m := matrix.New3D(t, blocks, rows, cols)
	width := t.Width()
	for i := range m.Data {
		m.Data[i] = t.Get(payload[i*width:])
	}

	ds := &matrix.Dataset{Matrix: m, Meta: meta}
	if ids == nil {
		ds.Zones = matrix.SequentialZones(rows)
		if cols != rows {
			cz := matrix.SequentialZones(cols)
			ds.ColZones = &cz
		}
	} else {
		ds.Zones = matrix.NewZoneSet(ids[:rows]...)
		if cols != rows {
			cz := matrix.NewZoneSet(ids[:cols]...)
			ds.ColZones = &cz
		}
	}
	return ds, nil
}

// payloadLen multiplies out the payload size, failing as soon as it
// exceeds what is left of the file.
func payloadLen(remaining, width int, dims ...int) (int, error) {
	for _, d := range dims {
		if d == 0 {
			return 0, nil
		}
	}
	n := width
	for _, d := range dims {
		if n > remaining/d {
			return 0, fmt.Errorf("matrix payload of %v x %d bytes exceeds remaining %d: %w", dims, width, remaining, matrix.ErrTruncatedInput)
		}
		n *= d
	}
	return n, nil
}

// EncodePlain writes ds as an uncompressed binary file with a header of
// headerLen bytes.  Integer matrices are widened to float64, the widest
// type the format knows.
func EncodePlain(out io.Writer, ds *matrix.Dataset, headerLen int) (int64, error) {
	if headerLen < 0 {
		return 0, fmt.Errorf("negative header length %d", headerLen)
	}
	if !ds.SharedZones() {
		return 0, fmt.Errorf("uncompressed format has a single zone list but rows and columns differ: %w", matrix.ErrDimensionMismatch)
	}
	m := ds.Matrix
	if ds.Zones.Len() != m.Rows || m.Rows != m.Cols {
		return 0, fmt.Errorf("%d zones for a %dx%d matrix: %w", ds.Zones.Len(), m.Rows, m.Cols, matrix.ErrDimensionMismatch)
	}
	code := int16(plainFloat64)
	if m.Type == matrix.Float32 {
		code = plainFloat32
	} else {
		m = m.Convert(matrix.Float64)
	}

	w := binio.NewWriter(out)
	text := fmt.Sprintf("Muuli matrix in binary format.\r\nZones: %d\r\nBlocks: %d\r\nTransport mode: %d\r\n",
		m.Rows, m.Blocks, ds.Meta.Mode)
	if len(text) > headerLen {
		text = text[:headerLen]
	}
	w.PutBytes([]byte(text))
	w.PutZeros(headerLen - len(text))

	w.PutU16(0)
	if m.Is3D() {
		w.PutI16(3)
	} else {
		w.PutI16(2)
	}
	w.PutI32(int32(m.Rows))
	w.PutI32(0)
	w.PutI32(int32(m.Cols))
	w.PutI32(0)
	if m.Is3D() {
		w.PutI32(int32(m.Blocks))
		w.PutI32(0)
	}
	w.PutI16(code)
	w.PutI16(1)
	w.PutF32(float32(ds.Meta.TimeFrom))
	w.PutF32(float32(ds.Meta.TimeTo))
	w.PutI32(ds.Meta.Mode)
	w.PutF32(float32(ds.Meta.Factor))
	w.PutI32s(ds.Zones.IDs)

	if code == plainFloat32 {
		for _, v := range m.Data {
			w.PutF32(float32(v))
		}
	} else {
		for _, v := range m.Data {
			w.PutF64(v)
		}
	}

	if err := w.Flush(); err != nil {
		return w.Written(), err
	}
	return w.Written(), nil
}
