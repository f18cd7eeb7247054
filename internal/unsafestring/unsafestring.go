// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package unsafestring views byte slices as strings without copying, for
// handing text-format fields to strconv.
package unsafestring

import "unsafe"

// FromBytes returns a string sharing b's memory.
// SAFETY: b must not be modified while the string is in use, and the
// string must not outlive b.
func FromBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
