// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package odmatrix

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// gunzip inflates a gzip-wrapped matrix file.  Concatenated members are
// read as one stream.
func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, gzipError(err)
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, gzipError(err)
	}
	return out, nil
}

func gzipError(err error) error {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("gzip: %v: %w", err, ErrTruncatedInput)
	case errors.Is(err, gzip.ErrChecksum):
		return fmt.Errorf("gzip: %v: %w", err, ErrChecksumMismatch)
	default:
		return fmt.Errorf("gzip: %v: %w", err, ErrUnrecognizedFormat)
	}
}
