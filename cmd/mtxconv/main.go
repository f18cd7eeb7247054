// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// mtxconv inspects and converts origin-destination matrix files.
//
//	mtxconv -info FILE
//	mtxconv -to TAG IN OUT
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bpowers/odmatrix"
	"github.com/bpowers/odmatrix/internal/checksum"
	"github.com/bpowers/odmatrix/internal/mmapfile"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n  mtxconv [-v] [-header N] -info FILE\n  mtxconv [-v] [-header N] [-level L] [-width W] -to TAG IN OUT\n\n")
	flag.PrintDefaults()
}

func main() {
	verbose := flag.Bool("v", false, "log debug output")
	info := flag.Bool("info", false, "describe the matrix file")
	to := flag.String("to", "", "convert to this format tag (V, O, E, B, BI, BK, BL with M/N flags for text, or CC/CN for PSV export)")
	headerLen := flag.Int("header", 2048, "header length of uncompressed B files")
	level := flag.Int("level", -1, "zlib level for compressed rows")
	width := flag.Int("width", 1000, "line width of PSV exports")
	flag.Usage = usage
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	opts := []odmatrix.Option{
		odmatrix.WithLogger(logger),
		odmatrix.WithHeaderLen(*headerLen),
		odmatrix.WithCompressionLevel(*level),
		odmatrix.WithLineWidth(*width),
	}

	var err error
	switch {
	case *info && flag.NArg() == 1:
		err = describe(os.Stdout, flag.Arg(0), opts)
	case *to != "" && flag.NArg() == 2:
		err = convert(flag.Arg(0), flag.Arg(1), *to, opts)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("mtxconv failed", "err", err)
		os.Exit(1)
	}
}

func convert(in, out, tag string, opts []odmatrix.Option) error {
	if psv := strings.ToUpper(tag); psv == "CC" || psv == "CN" {
		ds, err := odmatrix.Decode(in, opts...)
		if err != nil {
			return err
		}
		return exportPSV(ds, out, psv, opts)
	}
	f, err := odmatrix.ParseFormat(tag)
	if err != nil {
		return err
	}
	ds, err := odmatrix.Decode(in, opts...)
	if err != nil {
		return err
	}
	return odmatrix.Encode(ds, out, f, opts...)
}

func exportPSV(ds *odmatrix.Dataset, out, layout string, opts []odmatrix.Option) (err error) {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return odmatrix.EncodePSV(f, ds, layout, opts...)
}

func describe(w io.Writer, path string, opts []odmatrix.Option) error {
	mf, err := mmapfile.Open(path)
	if err != nil {
		return fmt.Errorf("mmapfile.Open(%s): %w", path, err)
	}
	defer func() { _ = mf.Close() }()

	f, err := odmatrix.Detect(mf.Data())
	if err != nil {
		return err
	}
	ds, err := odmatrix.DecodeBytes(mf.Data(), opts...)
	if err != nil {
		return err
	}

	m := ds.Matrix
	sums := checksum.Compute(m)
	cols := ds.Columns()
	fmt.Fprintf(w, "format:      %s\n", f)
	fmt.Fprintf(w, "type:        %s\n", m.Type)
	if m.Is3D() {
		fmt.Fprintf(w, "shape:       %d x %d x %d\n", m.Blocks, m.Rows, m.Cols)
	} else {
		fmt.Fprintf(w, "shape:       %d x %d\n", m.Rows, m.Cols)
	}
	fmt.Fprintf(w, "zones:       %d rows, %d columns, shared=%t, names=%t\n",
		ds.Zones.Len(), cols.Len(), ds.SharedZones(), ds.Zones.HasNames())
	fmt.Fprintf(w, "mode:        %d\n", ds.Meta.Mode)
	fmt.Fprintf(w, "time:        %g - %g\n", ds.Meta.TimeFrom, ds.Meta.TimeTo)
	fmt.Fprintf(w, "factor:      %g\n", ds.Meta.Factor)
	fmt.Fprintf(w, "non-zero:    %d\n", m.NonZero())
	fmt.Fprintf(w, "total:       %g\n", m.Sum())
	fmt.Fprintf(w, "diagonal:    %g\n", sums.Diagonal)
	fmt.Fprintf(w, "fingerprint: %016x\n", ds.Fingerprint())
	return nil
}
