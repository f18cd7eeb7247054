// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package textfmt

import (
	"bytes"
	"fmt"

	"github.com/bpowers/odmatrix/internal/bytesutil"
	"github.com/bpowers/odmatrix/matrix"
)

const namesSection = "$NAMES"

func isNamesSection(line []byte) bool {
	return len(line) >= len(namesSection) && bytes.EqualFold(line[:len(namesSection)], []byte(namesSection))
}

// zoneName is one `<id> "<name>"` line of a $NAMES section.
type zoneName struct {
	id   int32
	name string
}

// readNames reads a $NAMES section if section is its opening line.  The
// section ends at EOF or at the next line starting with '$'.
func readNames(lr *lineReader, section []byte) ([]zoneName, error) {
	if !isNamesSection(section) {
		return nil, nil
	}
	var names []zoneName
	for {
		line, ok := lr.nextData()
		if !ok {
			return names, lr.err()
		}
		if line[0] == '$' {
			return names, nil
		}
		idField, rest := bytesutil.NextField(line)
		id, err := parseZone(idField)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.lineNo, err)
		}
		name := bytes.TrimSpace(rest)
		name = bytes.TrimPrefix(name, []byte{'"'})
		name = bytes.TrimSuffix(name, []byte{'"'})
		names = append(names, zoneName{id: id, name: string(name)})
	}
}

// zonesFromNames turns a $NAMES section into the authoritative zone set.
func zonesFromNames(names []zoneName) (matrix.ZoneSet, error) {
	z := matrix.ZoneSet{
		IDs:   make([]int32, len(names)),
		Names: make([]string, len(names)),
	}
	for i, n := range names {
		z.IDs[i] = n.id
		z.Names[i] = n.name
	}
	if _, err := z.Index(); err != nil {
		return matrix.ZoneSet{}, fmt.Errorf("%s: %w", namesSection, err)
	}
	return z, nil
}

// applyNames labels the zones of z from a $NAMES section.  Zones the
// section does not mention get an empty name.
func applyNames(z *matrix.ZoneSet, names []zoneName) error {
	if len(names) == 0 {
		return nil
	}
	idx, err := z.Index()
	if err != nil {
		return err
	}
	z.Names = make([]string, z.Len())
	for _, n := range names {
		i, ok := idx[n.id]
		if !ok {
			return fmt.Errorf("%s: zone %d is not in the matrix: %w", namesSection, n.id, matrix.ErrMalformedRecord)
		}
		z.Names[i] = n.name
	}
	return nil
}
