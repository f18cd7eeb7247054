// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package binfmt reads and writes the binary matrix formats.
//
// A compressed file ($BI, $BK or $BL) generally looks like:
//
//	┌───────────────────────────┐
//	│ tag + file header         │
//	├───────────────────────────┤
//	│ row zone ids              │
//	│ column zone ids     (K,L) │
//	│ row zone names      (K,L) │
//	│ column zone names   (K,L) │
//	├───────────────────────────┤
//	│ all-null flag             │
//	│ diagonal sum              │
//	├───────────────────────────┤
//	│ repeated compressed rows  │
//	│                           │
//	│                           │
//	├───────────────────────────┤
//	│ row sums, column sums (L) │
//	└───────────────────────────┘
//
// The file header is variable length because of the free-text blob:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	| idlen=3 | $    B    I/K/L| blob len|..
//	+----+----+----+----+----+----+----+----+
//	| blob...                               |
//	+----+----+----+----+----+----+----+----+
//	| mode              | time from         |
//	+----+----+----+----+----+----+----+----+
//	| time to           | factor            |
//	+----+----+----+----+----+----+----+----+
//	| row count         | type    |rnd |
//	+----+----+----+----+----+----+----+
//
// Each row is an i32 length followed by a zlib stream of the row's
// elements.  $BI and $BK follow every row with two f64 values: that row's
// sum and the sum of the column with the same index.  $BL instead stores
// all row sums and then all column sums after the last row.  The sums and
// the diagonal sum let a reader detect truncated or misread files.
//
// The uncompressed format has no tag.  A fixed-length free-text header
// (2048 bytes unless configured otherwise) is followed by a small block of
// fixed-offset fields, the zone lists and the raw row-major payload.
package binfmt
