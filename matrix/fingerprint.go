// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package matrix

import (
	"encoding/binary"
	"math"

	"github.com/dgryski/go-farm"
)

// Fingerprint hashes the zones and matrix contents of d.  Two datasets
// with equal zone ids, names, element type, shape and values have the same
// fingerprint; metadata is not included.
func (d *Dataset) Fingerprint() uint64 {
	var buf []byte
	buf = appendZones(buf, d.Zones)
	if d.ColZones != nil && !d.ColZones.Equal(d.Zones) {
		buf = append(buf, 1)
		buf = appendZones(buf, *d.ColZones)
	} else {
		buf = append(buf, 0)
	}
	m := d.Matrix
	buf = binary.LittleEndian.AppendUint16(buf, uint16(m.Type))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Blocks))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Rows))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Cols))
	for _, v := range m.Data {
		// normalize -0 so it hashes like 0
		if v == 0 {
			v = 0
		}
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return farm.Fingerprint64(buf)
}

func appendZones(buf []byte, z ZoneSet) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(z.Len()))
	for i, id := range z.IDs {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id))
		name := z.Name(i)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(name)))
		buf = append(buf, name...)
	}
	return buf
}
