// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/odmatrix/matrix"
)

func TestParse(t *testing.T) {
	for _, tag := range []string{
		"V", "VM", "VN", "VMN",
		"O", "OM", "ON", "OMN",
		"E", "EM", "EN", "EMN",
		"B", "BI", "BK", "BL",
	} {
		f, err := Parse(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, tag, f.String())
	}

	f, err := Parse(" $bk ")
	require.NoError(t, err)
	assert.Equal(t, Format{Kind: BK}, f)

	f, err = Parse("onm")
	require.NoError(t, err)
	assert.Equal(t, Format{Kind: O, WithMode: true, NoTime: true}, f)
}

func TestParseRejects(t *testing.T) {
	for _, tag := range []string{"", "S", "X", "VMM", "OX", "BZ", "$"} {
		_, err := Parse(tag)
		assert.ErrorIs(t, err, matrix.ErrUnrecognizedFormat, tag)
	}
}

func TestKinds(t *testing.T) {
	assert.True(t, S.IsText())
	assert.False(t, B.IsText())
	assert.False(t, B.IsCompressed())
	assert.True(t, BL.IsCompressed())
	assert.Equal(t, byte('K'), BK.TagChar())

	k, ok := KindForTag('L')
	require.True(t, ok)
	assert.Equal(t, BL, k)
	_, ok = KindForTag('V')
	assert.False(t, ok)

	k, ok = KindForLetter('S')
	require.True(t, ok)
	assert.Equal(t, S, k)
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
