// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package format names the closed set of matrix file variants.
package format

import (
	"fmt"
	"strings"

	"github.com/bpowers/odmatrix/matrix"
)

type Kind uint8

const (
	// V is the positional text format: zone list followed by every cell.
	V Kind = iota + 1
	// O is the sparse text format of origin/destination/value triples.
	O
	// E is the banded text format: one origin per line with
	// destination/value pairs.
	E
	// S is read like E.
	S
	// B is the uncompressed binary format with a fixed-length header.
	B
	// BI is compressed binary, square, one zone list, no names.
	BI
	// BK is compressed binary, square, row and column zones and names.
	BK
	// BL is compressed binary, rectangular, with the sum vectors after the
	// last row.
	BL
)

var kindNames = map[Kind]string{
	V: "V", O: "O", E: "E", S: "S", B: "B", BI: "BI", BK: "BK", BL: "BL",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) IsText() bool {
	return k >= V && k <= S
}

func (k Kind) IsCompressed() bool {
	return k >= BI && k <= BL
}

// TagChar is the third byte of a compressed file's "$B?" tag.
func (k Kind) TagChar() byte {
	switch k {
	case BI:
		return 'I'
	case BK:
		return 'K'
	case BL:
		return 'L'
	}
	return 0
}

// KindForTag maps the third tag byte of a compressed file to its Kind.
func KindForTag(c byte) (Kind, bool) {
	switch c {
	case 'I':
		return BI, true
	case 'K':
		return BK, true
	case 'L':
		return BL, true
	}
	return 0, false
}

// KindForLetter maps the letter after '$' in a text header to its Kind.
func KindForLetter(c byte) (Kind, bool) {
	switch c {
	case 'V':
		return V, true
	case 'O':
		return O, true
	case 'E':
		return E, true
	case 'S':
		return S, true
	}
	return 0, false
}

// Format is a Kind plus the text-header flags.  WithMode and NoTime are
// only meaningful for text kinds.
type Format struct {
	Kind Kind
	// WithMode ("M") means a transport-mode section follows the header line.
	WithMode bool
	// NoTime ("N") means the time window and factor section is absent.
	NoTime bool
}

// String returns the tag that Parse accepts, e.g. "VMN" or "BK".
func (f Format) String() string {
	s := f.Kind.String()
	if f.WithMode {
		s += "M"
	}
	if f.NoTime {
		s += "N"
	}
	return s
}

// Parse reads a format tag such as "O", "VN", "OMN", "BL" or "$BL".
// Matching is case-insensitive.  S is only readable and is rejected here.
func Parse(tag string) (Format, error) {
	t := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(tag)), "$")
	switch t {
	case "B":
		return Format{Kind: B}, nil
	case "BI":
		return Format{Kind: BI}, nil
	case "BK":
		return Format{Kind: BK}, nil
	case "BL":
		return Format{Kind: BL}, nil
	}
	if t == "" {
		return Format{}, fmt.Errorf("empty format tag: %w", matrix.ErrUnrecognizedFormat)
	}
	k, ok := KindForLetter(t[0])
	if !ok || k == S {
		return Format{}, fmt.Errorf("format tag %q: %w", tag, matrix.ErrUnrecognizedFormat)
	}
	f := Format{Kind: k}
	flags, err := ParseFlags(t[1:])
	if err != nil {
		return Format{}, fmt.Errorf("format tag %q: %w", tag, err)
	}
	f.WithMode, f.NoTime = flags.WithMode, flags.NoTime
	return f, nil
}

// ParseFlags reads the M/N flag letters that follow a text format letter.
func ParseFlags(letters string) (Format, error) {
	var f Format
	for _, c := range letters {
		switch c {
		case 'M':
			if f.WithMode {
				return Format{}, fmt.Errorf("repeated flag %q: %w", c, matrix.ErrUnrecognizedFormat)
			}
			f.WithMode = true
		case 'N':
			if f.NoTime {
				return Format{}, fmt.Errorf("repeated flag %q: %w", c, matrix.ErrUnrecognizedFormat)
			}
			f.NoTime = true
		default:
			return Format{}, fmt.Errorf("unknown flag %q: %w", c, matrix.ErrUnrecognizedFormat)
		}
	}
	return f, nil
}
