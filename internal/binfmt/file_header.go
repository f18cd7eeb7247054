// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package binfmt

import (
	"fmt"
	"math"
	"strings"

	"github.com/bpowers/odmatrix/internal/binio"
	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

const tagLen = 3

type fileHeader struct {
	kind     format.Kind
	blob     string
	mode     int32
	timeFrom float32
	timeTo   float32
	factor   float32
	rows     int
	elemType matrix.ElemType
	rounding uint8
}

func newFileHeader(kind format.Kind, ds *matrix.Dataset, m *matrix.Matrix, diagSum float64) *fileHeader {
	h := &fileHeader{
		kind:     kind,
		mode:     ds.Meta.Mode,
		timeFrom: float32(ds.Meta.TimeFrom),
		timeTo:   float32(ds.Meta.TimeTo),
		factor:   float32(ds.Meta.Factor),
		rows:     m.Rows,
		elemType: m.Type,
	}
	if ds.Meta.Rounding {
		h.rounding = 1
	}
	h.blob = describe(h, m.Sum(), diagSum)
	return h
}

// describe renders the human-readable blob stored at the top of the file.
func describe(h *fileHeader, total, diagSum float64) string {
	lines := []string{
		"",
		"Muuli matrix in packed binary format.",
		fmt.Sprintf("Zones: %d ", h.rows),
		fmt.Sprintf("VarType: %d ", int16(h.elemType)),
		fmt.Sprintf("Total sum: %.6f ", total),
		fmt.Sprintf("Diagonal sum: %.6f ", diagSum),
		fmt.Sprintf("Transport mode: %d ", h.mode),
		fmt.Sprintf("from: %.2f ", h.timeFrom),
		fmt.Sprintf("to: %.2f ", h.timeTo),
		fmt.Sprintf("Factor: %.6f ", h.factor),
		"",
	}
	return strings.Join(lines, "\r\n")
}

func (h *fileHeader) writeTo(w *binio.Writer) error {
	if len(h.blob) > math.MaxUint16 {
		return fmt.Errorf("header blob of %d bytes too long", len(h.blob))
	}
	w.PutU16(tagLen)
	w.PutBytes([]byte{'$', 'B', h.kind.TagChar()})
	w.PutU16(uint16(len(h.blob)))
	w.PutBytes([]byte(h.blob))
	w.PutI32(h.mode)
	w.PutF32(h.timeFrom)
	w.PutF32(h.timeTo)
	w.PutF32(h.factor)
	w.PutI32(int32(h.rows))
	w.PutI16(int16(h.elemType))
	w.PutU8(h.rounding)
	return w.Err()
}

func (h *fileHeader) readFrom(r *binio.Reader) error {
	idLen, err := r.U16()
	if err != nil {
		return err
	}
	if idLen != tagLen {
		return fmt.Errorf("id length %d, want %d: %w", idLen, tagLen, matrix.ErrUnrecognizedFormat)
	}
	tag, err := r.Bytes(tagLen)
	if err != nil {
		return err
	}
	kind, ok := format.KindForTag(tag[2])
	if tag[0] != '$' || tag[1] != 'B' || !ok {
		return fmt.Errorf("tag %q: %w", tag, matrix.ErrUnrecognizedFormat)
	}
	h.kind = kind

	blobLen, err := r.U16()
	if err != nil {
		return err
	}
	blob, err := r.Bytes(int(blobLen))
	if err != nil {
		return err
	}
	h.blob = string(blob)

	if h.mode, err = r.I32(); err != nil {
		return err
	}
	if h.timeFrom, err = r.F32(); err != nil {
		return err
	}
	if h.timeTo, err = r.F32(); err != nil {
		return err
	}
	if h.factor, err = r.F32(); err != nil {
		return err
	}
	if h.rows, err = r.Count(); err != nil {
		return err
	}
	code, err := r.I16()
	if err != nil {
		return err
	}
	if h.elemType, err = matrix.ParseElemType(code); err != nil {
		return err
	}
	off := r.Offset()
	if h.rounding, err = r.U8(); err != nil {
		return err
	}
	if h.rounding > 1 {
		return fmt.Errorf("off %d: rounding flag %d: %w", off, h.rounding, matrix.ErrMalformedHeader)
	}
	return nil
}

func (h *fileHeader) metadata(diagSum float64) matrix.Metadata {
	return matrix.Metadata{
		TimeFrom:    float64(h.timeFrom),
		TimeTo:      float64(h.timeTo),
		Factor:      float64(h.factor),
		Mode:        h.mode,
		Rounding:    h.rounding == 1,
		DiagonalSum: diagSum,
		Header:      h.blob,
	}
}
