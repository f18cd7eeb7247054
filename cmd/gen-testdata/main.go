// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes one random origin-destination matrix in every
// writable format.
package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/bpowers/odmatrix"
	"github.com/bpowers/odmatrix/matrix"
)

var tags = []string{"V", "VMN", "O", "OM", "E", "EN", "B", "BI", "BK", "BL"}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		_, _ = crand.Read(seedBytes[:])
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

// randomDataset fills a sparse demand matrix: most cells are empty and the
// rest carry small trip counts.
func randomDataset(rng *rand.Rand, n int) *matrix.Dataset {
	zones := matrix.ZoneSet{
		IDs:   make([]int32, n),
		Names: make([]string, n),
	}
	next := int32(0)
	for i := range zones.IDs {
		next += 1 + rng.Int31n(50)
		zones.IDs[i] = next
		zones.Names[i] = fmt.Sprintf("Zone %d", next)
	}

	m := matrix.New(matrix.Float32, n, n)
	for i := range m.Data {
		if rng.Intn(4) == 0 {
			m.Data[i] = matrix.Float32.Quantize(rng.ExpFloat64() * 25)
		}
	}

	ds := matrix.NewDataset(zones, m)
	ds.Meta.TimeFrom = 0
	ds.Meta.TimeTo = 24
	ds.Meta.Mode = 1
	return ds
}

func main() {
	zones := flag.Int("zones", 100, "number of zones")
	out := flag.String("out", ".", "output directory")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("MkdirAll", "err", err)
		os.Exit(1)
	}

	ds := randomDataset(newRand(*seed), *zones)
	for _, tag := range tags {
		f, err := odmatrix.ParseFormat(tag)
		if err != nil {
			logger.Error("ParseFormat", "tag", tag, "err", err)
			os.Exit(1)
		}
		path := filepath.Join(*out, "demand-"+strings.ToLower(tag)+".mtx")
		if err := odmatrix.Encode(ds, path, f, odmatrix.WithLogger(logger)); err != nil {
			logger.Error("Encode", "path", path, "err", err)
			os.Exit(1)
		}
	}
	fmt.Printf("fingerprint %016x\n", ds.Fingerprint())
}
