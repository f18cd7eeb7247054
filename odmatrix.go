// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package odmatrix reads and writes origin-destination matrix files in
// the text ($V, $O, $E, $S) and binary (B, $BI, $BK, $BL) layouts used by
// transport-planning tools.
//
// Decode detects the layout from the leading bytes of the file, after
// inflating gzip-compressed input.  Encode always takes the layout
// explicitly:
//
//	ds, err := odmatrix.Decode("demand.mtx")
//	...
//	f, _ := odmatrix.ParseFormat("BK")
//	err = odmatrix.Encode(ds, "demand-bk.mtx", f)
package odmatrix

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bpowers/odmatrix/internal/binfmt"
	"github.com/bpowers/odmatrix/internal/checksum"
	"github.com/bpowers/odmatrix/internal/detect"
	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/internal/mmapfile"
	"github.com/bpowers/odmatrix/internal/rowcodec"
	"github.com/bpowers/odmatrix/internal/textfmt"
	"github.com/bpowers/odmatrix/matrix"
)

type (
	// Dataset is a decoded matrix file: zones, values and metadata.
	Dataset = matrix.Dataset
	// Format names one on-disk layout, including the text flags.
	Format = format.Format
)

// Errors returned by Decode and Encode, for use with errors.Is.
var (
	ErrUnrecognizedFormat        = matrix.ErrUnrecognizedFormat
	ErrMalformedHeader           = matrix.ErrMalformedHeader
	ErrUnsupportedDimensionality = matrix.ErrUnsupportedDimensionality
	ErrChecksumMismatch          = matrix.ErrChecksumMismatch
	ErrTruncatedInput            = matrix.ErrTruncatedInput
	ErrDimensionMismatch         = matrix.ErrDimensionMismatch
	ErrMalformedRecord           = matrix.ErrMalformedRecord
	ErrCorruptRow                = matrix.ErrCorruptRow
	ErrDuplicateZone             = matrix.ErrDuplicateZone
)

// Option configures Decode and Encode.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	headerLen int
	level     int
	lineWidth int
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		headerLen: binfmt.DefaultHeaderLen,
		level:     rowcodec.DefaultLevel,
		lineWidth: textfmt.DefaultPSVWidth,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets an optional logger for progress updates.  If not
// provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHeaderLen sets the length of the free-text header that precedes
// uncompressed "B" files.  It defaults to 2048 bytes.
func WithHeaderLen(n int) Option {
	return func(o *options) {
		o.headerLen = n
	}
}

// WithCompressionLevel sets the zlib level used for the rows of $BI, $BK
// and $BL files.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithLineWidth sets the length at which EncodePSV wraps a row onto a
// new line.  It defaults to 1000 bytes.
func WithLineWidth(n int) Option {
	return func(o *options) {
		o.lineWidth = n
	}
}

// ParseFormat parses a format tag such as "VMN", "O", "BK" or "$BL".
func ParseFormat(tag string) (Format, error) {
	return format.Parse(tag)
}

// Detect reports the layout of an encoded matrix without decoding it.
// Gzip-compressed input is inflated first.
func Detect(data []byte) (Format, error) {
	if isGzip(data) {
		var err error
		if data, err = gunzip(data); err != nil {
			return Format{}, err
		}
	}
	return detect.Sniff(data)
}

// Decode reads the matrix file at path.
func Decode(path string, opts ...Option) (*Dataset, error) {
	f, err := mmapfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile.Open(%s): %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := DecodeBytes(f.Data(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// DecodeBytes decodes an in-memory matrix file.  The returned Dataset does
// not reference data.
func DecodeBytes(data []byte, opts ...Option) (*Dataset, error) {
	o := newOptions(opts)

	if isGzip(data) {
		n := len(data)
		var err error
		if data, err = gunzip(data); err != nil {
			return nil, err
		}
		o.logger.Debug("inflated gzip input", "compressed", n, "bytes", len(data))
	}

	f, err := detect.Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("detect.Sniff: %w", err)
	}

	var ds *Dataset
	switch {
	case f.Kind.IsText():
		ds, err = textfmt.Decode(data)
	case f.Kind == format.B:
		ds, err = binfmt.DecodePlain(data, o.headerLen)
	default:
		var c *binfmt.Compressed
		if c, err = binfmt.DecodeCompressed(data); err != nil {
			break
		}
		if err = checksum.Verify(c.Dataset.Matrix, c.Sums); err != nil {
			break
		}
		ds = c.Dataset
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %v: %w", f, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("decoding %v: %w", f, err)
	}

	m := ds.Matrix
	o.logger.Debug("decoded matrix",
		"format", f.String(),
		"type", m.Type.String(),
		"blocks", m.Blocks,
		"rows", m.Rows,
		"cols", m.Cols)
	return ds, nil
}

// Encode writes ds to path in the layout f.  The file is written next to
// path under a temporary name and renamed into place once complete.
func Encode(ds *Dataset, path string, f Format, opts ...Option) (err error) {
	o := newOptions(opts)

	path, err = filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "odmatrix.*.tmp")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := encodeTo(tmp, ds, f, o)
	if err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("Sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("os.Chmod(0644): %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	o.logger.Info("wrote matrix", "format", f.String(), "path", path, "bytes", n)
	return nil
}

// EncodeTo writes ds to w in the layout f.
func EncodeTo(w io.Writer, ds *Dataset, f Format, opts ...Option) error {
	o := newOptions(opts)
	n, err := encodeTo(w, ds, f, o)
	if err != nil {
		return err
	}
	o.logger.Debug("wrote matrix", "format", f.String(), "bytes", n)
	return nil
}

// EncodeBytes returns ds encoded in the layout f.
func EncodeBytes(ds *Dataset, f Format, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, ds, f, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePSV exports ds as a PSV file with the layout "CC" (destination
// and value of each non-zero cell) or "CN" (every value of a row).  PSV is
// write-only: Decode does not read it back.
func EncodePSV(w io.Writer, ds *Dataset, layout string, opts ...Option) error {
	o := newOptions(opts)
	l, err := textfmt.ParsePSVLayout(layout)
	if err != nil {
		return err
	}
	if ds == nil || ds.Matrix == nil {
		return fmt.Errorf("nil dataset: %w", ErrDimensionMismatch)
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("Dataset.Validate: %w", err)
	}
	n, err := textfmt.EncodePSV(w, ds, l, o.lineWidth)
	if err != nil {
		return fmt.Errorf("encoding PSV %v: %w", l, err)
	}
	o.logger.Debug("wrote matrix", "format", l.String(), "bytes", n)
	return nil
}

func encodeTo(w io.Writer, ds *Dataset, f Format, o *options) (int64, error) {
	if ds == nil || ds.Matrix == nil {
		return 0, fmt.Errorf("nil dataset: %w", ErrDimensionMismatch)
	}
	if err := ds.Validate(); err != nil {
		return 0, fmt.Errorf("Dataset.Validate: %w", err)
	}

	var n int64
	var err error
	switch {
	case f.Kind.IsText():
		n, err = textfmt.Encode(w, ds, f)
	case f.Kind == format.B:
		n, err = binfmt.EncodePlain(w, ds, o.headerLen)
	case f.Kind.IsCompressed():
		n, err = binfmt.EncodeCompressed(w, ds, f.Kind, o.level)
	default:
		return 0, fmt.Errorf("format %v: %w", f, ErrUnrecognizedFormat)
	}
	if err != nil {
		return n, fmt.Errorf("encoding %v: %w", f, err)
	}
	return n, nil
}
