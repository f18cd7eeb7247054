// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package matrix

import "errors"

// Decoders and encoders wrap these with context; match them with errors.Is.
var (
	// ErrUnrecognizedFormat is returned when the leading bytes of a file
	// match none of the known format tags.
	ErrUnrecognizedFormat = errors.New("odmatrix: unrecognized format")

	// ErrMalformedHeader is returned when a header field is outside its
	// documented domain (e.g. a rounding flag > 1).
	ErrMalformedHeader = errors.New("odmatrix: malformed header")

	// ErrUnsupportedDimensionality is returned for uncompressed binary
	// files that declare neither 2 nor 3 dimensions.
	ErrUnsupportedDimensionality = errors.New("odmatrix: unsupported dimensionality")

	// ErrChecksumMismatch is returned when recomputed row, column or
	// diagonal sums disagree with the values embedded in the file.
	ErrChecksumMismatch = errors.New("odmatrix: checksum mismatch")

	// ErrTruncatedInput is returned when fewer bytes or values are
	// available than the header promises.
	ErrTruncatedInput = errors.New("odmatrix: truncated input")

	// ErrDimensionMismatch is returned when a zone set disagrees with the
	// matrix shape, or the shape cannot be written in the requested format.
	ErrDimensionMismatch = errors.New("odmatrix: dimension mismatch")

	// ErrMalformedRecord is returned when a text record cannot be parsed,
	// references an unlisted zone, or holds a value the element type
	// cannot represent.
	ErrMalformedRecord = errors.New("odmatrix: malformed record")

	// ErrCorruptRow is returned when a compressed row fails to inflate or
	// inflates to more data than the row holds.
	ErrCorruptRow = errors.New("odmatrix: corrupt compressed row")

	// ErrDuplicateZone is returned when a zone set lists an id twice.
	ErrDuplicateZone = errors.New("odmatrix: duplicate zone id")
)
