// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package matrix

import (
	"fmt"
	"slices"
)

// ZoneSet is an ordered list of unique zone ids with optional display
// names.  Names is either nil or exactly as long as IDs.
type ZoneSet struct {
	IDs   []int32
	Names []string
}

// NewZoneSet returns a ZoneSet without names.
func NewZoneSet(ids ...int32) ZoneSet {
	return ZoneSet{IDs: ids}
}

// SequentialZones numbers n zones 1..n.
func SequentialZones(n int) ZoneSet {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i + 1)
	}
	return ZoneSet{IDs: ids}
}

func (z ZoneSet) Len() int {
	return len(z.IDs)
}

func (z ZoneSet) HasNames() bool {
	return z.Names != nil
}

// Name returns the name of the i-th zone, or "" if the set has no names.
func (z ZoneSet) Name(i int) string {
	if z.Names == nil {
		return ""
	}
	return z.Names[i]
}

// Index maps each zone id to its position.
func (z ZoneSet) Index() (map[int32]int, error) {
	idx := make(map[int32]int, len(z.IDs))
	for i, id := range z.IDs {
		if _, ok := idx[id]; ok {
			return nil, fmt.Errorf("zone %d: %w", id, ErrDuplicateZone)
		}
		idx[id] = i
	}
	return idx, nil
}

// Validate checks that ids are unique and names cover every zone.
func (z ZoneSet) Validate() error {
	if z.Names != nil && len(z.Names) != len(z.IDs) {
		return fmt.Errorf("%d names for %d zones: %w", len(z.Names), len(z.IDs), ErrDimensionMismatch)
	}
	_, err := z.Index()
	return err
}

// Equal compares ids and names.  A set without names equals one whose
// names are all empty.
func (z ZoneSet) Equal(o ZoneSet) bool {
	if !slices.Equal(z.IDs, o.IDs) {
		return false
	}
	for i := range z.IDs {
		if z.Name(i) != o.Name(i) {
			return false
		}
	}
	return true
}

func (z ZoneSet) Clone() ZoneSet {
	out := ZoneSet{IDs: slices.Clone(z.IDs)}
	if z.Names != nil {
		out.Names = slices.Clone(z.Names)
	}
	return out
}

// DeriveZones builds the sorted set of distinct ids.
func DeriveZones(ids []int32) ZoneSet {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return ZoneSet{IDs: slices.Compact(sorted)}
}
