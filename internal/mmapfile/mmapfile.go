// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmapfile exposes the contents of a file as a read-only byte
// slice, backed by a memory mapping where the platform supports one.
package mmapfile

import "errors"

var errClosed = errors.New("mmapfile: file already closed")

// Len returns the size of the mapped file in bytes.
func (f *File) Len() int {
	return len(f.data)
}

// Data returns the file contents.  The slice must not be used after Close.
func (f *File) Data() []byte {
	return f.data
}
