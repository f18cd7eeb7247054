// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bytesutil has allocation-free helpers for tokenizing text lines.
package bytesutil

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// NextField returns the first run of non-whitespace bytes in s and
// everything after it.  field is empty when s holds only whitespace.
func NextField(s []byte) (field, rest []byte) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	j := i
	for j < len(s) && !isSpace(s[j]) {
		j++
	}
	return s[i:j], s[j:]
}

// CountFields counts whitespace-separated fields in s.
func CountFields(s []byte) int {
	n := 0
	for {
		var f []byte
		f, s = NextField(s)
		if len(f) == 0 {
			return n
		}
		n++
	}
}

// CutAny slices s around the first byte that appears in seps.  If none
// does, it returns s, nil, false.  The results alias s.
func CutAny(s []byte, seps string) (before, after []byte, found bool) {
	for i, c := range s {
		for j := 0; j < len(seps); j++ {
			if c == seps[j] {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, nil, false
}
