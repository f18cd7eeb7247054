// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package textfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/bpowers/odmatrix/internal/bytesutil"
	"github.com/bpowers/odmatrix/internal/unsafestring"
	"github.com/bpowers/odmatrix/matrix"
)

const maxLineLen = 64 * 1024 * 1024

// lineReader hands out trimmed lines and knows which ones are comments.
// Returned lines are only valid until the next call.
type lineReader struct {
	sc     *bufio.Scanner
	lineNo int
	// consumed counts the bytes of every scanned line plus one terminator
	consumed int
	size     int
}

func newLineReader(data []byte) *lineReader {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), maxLineLen)
	return &lineReader{sc: sc, size: len(data)}
}

// next returns the next line with surrounding whitespace removed.
func (lr *lineReader) next() ([]byte, bool) {
	if !lr.sc.Scan() {
		return nil, false
	}
	lr.lineNo++
	lr.consumed += len(lr.sc.Bytes()) + 1
	return bytes.TrimSpace(lr.sc.Bytes()), true
}

// remaining is an upper bound on the input bytes not yet scanned.
func (lr *lineReader) remaining() int {
	return max(lr.size-lr.consumed, 0)
}

// checkRoom fails unless n whitespace-separated values could still fit in
// the unscanned input, so counts read from a header cannot force huge
// allocations.
func (lr *lineReader) checkRoom(n int, what string) error {
	// k values need at least 2k-1 bytes
	if n > (lr.remaining()+1)/2 {
		return fmt.Errorf("%s: %d values cannot fit in the remaining %d bytes: %w", what, n, lr.remaining(), matrix.ErrTruncatedInput)
	}
	return nil
}

func (lr *lineReader) err() error {
	if err := lr.sc.Err(); err != nil {
		return fmt.Errorf("line %d: %w", lr.lineNo+1, err)
	}
	return nil
}

func isSkippable(line []byte) bool {
	return len(line) == 0 || line[0] == '*'
}

// nextData returns the next line that is neither blank nor a comment.
func (lr *lineReader) nextData() ([]byte, bool) {
	for {
		line, ok := lr.next()
		if !ok {
			return nil, false
		}
		if !isSkippable(line) {
			return line, true
		}
	}
}

// readValues feeds the next n whitespace-separated values, which may span
// several data lines, to fn.
func (lr *lineReader) readValues(n int, what string, fn func(i int, field []byte) error) error {
	i := 0
	for i < n {
		line, ok := lr.nextData()
		if !ok {
			if err := lr.err(); err != nil {
				return err
			}
			return fmt.Errorf("%s: found %d of %d values: %w", what, i, n, matrix.ErrTruncatedInput)
		}
		if line[0] == '$' {
			return fmt.Errorf("line %d: %s: section %q after %d of %d values: %w", lr.lineNo, what, line, i, n, matrix.ErrTruncatedInput)
		}
		rest := line
		for {
			var f []byte
			f, rest = bytesutil.NextField(rest)
			if len(f) == 0 {
				break
			}
			if i == n {
				return fmt.Errorf("line %d: %s: more than %d values: %w", lr.lineNo, what, n, matrix.ErrMalformedRecord)
			}
			if err := fn(i, f); err != nil {
				return fmt.Errorf("line %d: %s: %w", lr.lineNo, what, err)
			}
			i++
		}
	}
	return nil
}

// parseValue reads a cell value; a lone "-" stands for zero.
func parseValue(f []byte) (float64, error) {
	if len(f) == 1 && f[0] == '-' {
		return 0, nil
	}
	v, err := strconv.ParseFloat(unsafestring.FromBytes(f), 64)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", f, matrix.ErrMalformedRecord)
	}
	return v, nil
}

// parseElem reads a cell value for element type t, rejecting values an
// integer type cannot hold instead of letting them wrap.
func parseElem(f []byte, t matrix.ElemType) (float64, error) {
	v, err := parseValue(f)
	if err != nil {
		return 0, err
	}
	if !t.Fits(v) {
		return 0, fmt.Errorf("value %q out of range for %v: %w", f, t, matrix.ErrMalformedRecord)
	}
	return t.Quantize(v), nil
}

func parseZone(f []byte) (int32, error) {
	v, err := strconv.ParseInt(unsafestring.FromBytes(f), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("zone %q: %w", f, matrix.ErrMalformedRecord)
	}
	return int32(v), nil
}

func parseCount(f []byte) (int, error) {
	v, err := strconv.ParseInt(unsafestring.FromBytes(f), 10, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("count %q: %w", f, matrix.ErrMalformedRecord)
	}
	return int(v), nil
}
