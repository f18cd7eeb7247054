// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !linux && !darwin

package mmapfile

import (
	"os"
	"sync/atomic"
)

// File holds the contents of a whole file.
type File struct {
	data     []byte
	isClosed atomic.Bool
}

// Open reads path into memory.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Close releases the file contents.
func (f *File) Close() error {
	if !f.isClosed.CompareAndSwap(false, true) {
		return errClosed
	}
	f.data = nil
	return nil
}
