// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package detect classifies a matrix file from its leading bytes.
package detect

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

// compressedTagLen is the u16 id length every compressed file starts with.
const compressedTagLen = 3

// Sniff inspects the start of data and returns the variant it holds.  For
// text files the M/N flags of the header line are filled in.  Data that
// carries no tag at all is reported as the legacy uncompressed format.
func Sniff(data []byte) (format.Format, error) {
	if len(data) == 0 {
		return format.Format{}, fmt.Errorf("empty file: %w", matrix.ErrUnrecognizedFormat)
	}

	if len(data) >= 5 && binary.LittleEndian.Uint16(data[:2]) == compressedTagLen && data[2] == '$' && data[3] == 'B' {
		k, ok := format.KindForTag(data[4])
		if !ok {
			return format.Format{}, fmt.Errorf("compressed tag %q: %w", data[2:5], matrix.ErrUnrecognizedFormat)
		}
		return format.Format{Kind: k}, nil
	}

	if data[0] == '$' {
		return sniffText(firstLine(data))
	}

	return format.Format{Kind: format.B}, nil
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return data[:i]
	}
	return data
}

// sniffText reads a header line such as "$VMN;Y5".
func sniffText(line []byte) (format.Format, error) {
	if len(line) < 2 {
		return format.Format{}, fmt.Errorf("header line %q: %w", line, matrix.ErrUnrecognizedFormat)
	}
	k, ok := format.KindForLetter(line[1])
	if !ok {
		return format.Format{}, fmt.Errorf("header line %q: %w", line, matrix.ErrUnrecognizedFormat)
	}
	letters := line[2:]
	if i := bytes.IndexAny(letters, ";, \t"); i >= 0 {
		letters = letters[:i]
	}
	return format.Format{
		Kind:     k,
		WithMode: bytes.IndexByte(letters, 'M') >= 0,
		NoTime:   bytes.IndexByte(letters, 'N') >= 0,
	}, nil
}
