// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package textfmt

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bpowers/odmatrix/internal/bytesutil"
	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

// typeTag is the two-character element type tag written after the format
// letters, e.g. "Y5" for float64.
func typeTag(t matrix.ElemType) string {
	return "Y" + strconv.Itoa(int(t))
}

// parseTypeTag maps "Y2".."Y5" to an element type.  Other tags, such as
// the decimal-places tag "D3", describe float64 data.
func parseTypeTag(tag []byte) matrix.ElemType {
	if len(tag) == 2 && (tag[0] == 'Y' || tag[0] == 'y') {
		if t := matrix.ElemType(tag[1] - '0'); t.Valid() {
			return t
		}
	}
	return matrix.Float64
}

// header is what precedes the body of every text format.
type header struct {
	format   format.Format
	elemType matrix.ElemType
	meta     matrix.Metadata
}

// readHeader consumes the header line and the optional transport-mode and
// time-window sections.
func readHeader(lr *lineReader) (*header, error) {
	line, ok := lr.next()
	if !ok {
		if err := lr.err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing header line: %w", matrix.ErrTruncatedInput)
	}
	if len(line) < 2 || line[0] != '$' {
		return nil, fmt.Errorf("header line %q: %w", line, matrix.ErrUnrecognizedFormat)
	}
	k, ok := format.KindForLetter(line[1])
	if !ok {
		return nil, fmt.Errorf("header line %q: %w", line, matrix.ErrUnrecognizedFormat)
	}
	letters, rest, _ := bytesutil.CutAny(line[2:], ";, \t")
	tag, _ := bytesutil.NextField(bytes.TrimLeft(rest, ";, \t"))

	h := &header{
		format: format.Format{
			Kind:     k,
			WithMode: bytes.IndexByte(letters, 'M') >= 0,
			NoTime:   bytes.IndexByte(letters, 'N') >= 0,
		},
		elemType: parseTypeTag(tag),
		meta:     matrix.DefaultMetadata(),
	}

	if h.format.WithMode {
		err := lr.readValues(1, "transport mode", func(_ int, f []byte) error {
			v, err := strconv.ParseInt(string(f), 10, 32)
			if err != nil {
				return fmt.Errorf("transport mode %q: %w", f, matrix.ErrMalformedRecord)
			}
			h.meta.Mode = int32(v)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if !h.format.NoTime {
		var vals [3]float64
		err := lr.readValues(len(vals), "time window and factor", func(i int, f []byte) error {
			v, err := parseValue(f)
			vals[i] = v
			return err
		})
		if err != nil {
			return nil, err
		}
		h.meta.TimeFrom, h.meta.TimeTo, h.meta.Factor = vals[0], vals[1], vals[2]
	}

	return h, nil
}
