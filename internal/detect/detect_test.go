// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

func TestSniff(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want format.Format
	}{
		{"\x03\x00$BI\x00\x00", format.Format{Kind: format.BI}},
		{"\x03\x00$BK", format.Format{Kind: format.BK}},
		{"\x03\x00$BL", format.Format{Kind: format.BL}},
		{"$V;Y5\n3\n", format.Format{Kind: format.V}},
		{"$VN;Y4\r\n", format.Format{Kind: format.V, NoTime: true}},
		{"$OMN;D3\n", format.Format{Kind: format.O, WithMode: true, NoTime: true}},
		{"$E\n", format.Format{Kind: format.E}},
		{"$SM;Y2\n", format.Format{Kind: format.S, WithMode: true}},
		{"$O;NAMES\n", format.Format{Kind: format.O}},
		{"Matrix exported from a legacy tool\x00\x00", format.Format{Kind: format.B}},
		{"\x03\x00", format.Format{Kind: format.B}},
	} {
		got, err := Sniff([]byte(tt.in))
		require.NoError(t, err, "%q", tt.in)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestSniffRejects(t *testing.T) {
	for _, in := range []string{"", "$", "$X;Y5\n", "\x03\x00$BQ"} {
		_, err := Sniff([]byte(in))
		assert.ErrorIs(t, err, matrix.ErrUnrecognizedFormat, "%q", in)
	}
}
