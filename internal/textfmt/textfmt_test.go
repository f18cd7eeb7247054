// Copyright 2024 The odmatrix Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package textfmt

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/odmatrix/internal/format"
	"github.com/bpowers/odmatrix/matrix"
)

func decodeString(t *testing.T, s string) *matrix.Dataset {
	ds, err := Decode([]byte(s))
	require.NoError(t, err)
	require.NoError(t, ds.Validate())
	return ds
}

func TestDecodeV(t *testing.T) {
	ds := decodeString(t, `$VMR;D3
* Verkehrsmittelkennung:
 2
* Zeitintervall:
 0.00 24.00
* Faktor:
1.00
* Anzahl Bezirke
3
* Bezirksnummern
100 200
300
* Matrixwerte
1 4 5
2 1 -
* 300
5 7 2
`)
	assert.Equal(t, matrix.Float64, ds.Matrix.Type)
	assert.Equal(t, []int32{100, 200, 300}, ds.Zones.IDs)
	assert.Equal(t, []float64{1, 4, 5, 2, 1, 0, 5, 7, 2}, ds.Matrix.Data)
	assert.Equal(t, int32(2), ds.Meta.Mode)
	assert.Equal(t, 24.0, ds.Meta.TimeTo)
	assert.Equal(t, 1.0, ds.Meta.Factor)
	assert.False(t, ds.Zones.HasNames())
}

func TestDecodeVNames(t *testing.T) {
	ds := decodeString(t, `$VN;Y3
2
7 9
1 2
3 4
* Netzobjektnamen
$NAMES
9 "Bahnhof"
7 "Altstadt"
`)
	assert.Equal(t, matrix.Int32, ds.Matrix.Type)
	assert.Equal(t, []string{"Altstadt", "Bahnhof"}, ds.Zones.Names)
	assert.Equal(t, 1.0, ds.Meta.Factor)
}

func TestDecodeVTruncated(t *testing.T) {
	_, err := Decode([]byte("$VN\n2\n1 2\n1 2 3\n"))
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)

	_, err = Decode([]byte("$VN\n2\n1 2\n1 2 3\n$NAMES\n1 \"a\"\n"))
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)

	_, err = Decode([]byte("$V\n0 24\n"))
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)
}

func TestDecodeO(t *testing.T) {
	ds := decodeString(t, `$O;D3
* Zeitintervall:
8 9
* Faktor:
0.5
* Matrixwerte
100 200 4
100 300 5   200 100 2
300 300 -
300 100 5.5
`)
	assert.Equal(t, []int32{100, 200, 300}, ds.Zones.IDs)
	m := ds.Matrix
	assert.Equal(t, 4.0, m.At(0, 1))
	assert.Equal(t, 5.0, m.At(0, 2))
	assert.Equal(t, 2.0, m.At(1, 0))
	assert.Equal(t, 0.0, m.At(2, 2))
	assert.Equal(t, 5.5, m.At(2, 0))
	assert.Equal(t, 4, m.NonZero())
	assert.Equal(t, 8.0, ds.Meta.TimeFrom)
	assert.Equal(t, 0.5, ds.Meta.Factor)
}

func TestDecodeONamesOrder(t *testing.T) {
	ds := decodeString(t, `$ON
3 1 7
$NAMES
3 "drei"
2 "zwei"
1 "eins"
`)
	assert.Equal(t, []int32{3, 2, 1}, ds.Zones.IDs)
	assert.Equal(t, []string{"drei", "zwei", "eins"}, ds.Zones.Names)
	assert.Equal(t, 7.0, ds.Matrix.At(0, 2))
}

func TestDecodeOUnlistedZone(t *testing.T) {
	_, err := Decode([]byte("$ON\n3 4 7\n$NAMES\n3 \"drei\"\n"))
	assert.ErrorIs(t, err, matrix.ErrMalformedRecord)
}

func TestDecodeOMalformed(t *testing.T) {
	for _, in := range []string{
		"$ON\n1 2\n",
		"$ON\n1 2 x\n",
		"$ON\n1.5 2 3\n",
		"$OMN\nbus\n1 2 3\n",
	} {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, matrix.ErrMalformedRecord, "%q", in)
	}
}

func TestDecodeE(t *testing.T) {
	ds := decodeString(t, `$EN;Y4
1 1 2 2 3
-2 1 4
3
`)
	assert.Equal(t, matrix.Float32, ds.Matrix.Type)
	assert.Equal(t, []int32{1, 2, 3}, ds.Zones.IDs)
	assert.Equal(t, []float64{2, 3, 0, 4, 0, 0, 0, 0, 0}, ds.Matrix.Data)
}

func TestDecodeSOriginOnlyKeepsDiagonal(t *testing.T) {
	ds := decodeString(t, "$SN\n1 1 9\n1\n")
	assert.Equal(t, 9.0, ds.Matrix.At(0, 0))
}

func TestDecodeDuplicateNames(t *testing.T) {
	ds, err := Decode([]byte("$ON\n1 1 1\n$NAMES\n1 \"a\"\n1 \"b\"\n"))
	if err == nil {
		err = ds.Validate()
	}
	assert.ErrorIs(t, err, matrix.ErrDuplicateZone)
}

func TestDecodeBadHeader(t *testing.T) {
	for _, in := range []string{"", "V;Y5\n", "$X\n"} {
		_, err := Decode([]byte(in))
		assert.Error(t, err, "%q", in)
	}
}

func sample(t *testing.T, et matrix.ElemType) *matrix.Dataset {
	const n = 13
	m := matrix.New(et, n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if (i+j)%3 != 0 {
				m.Set(i, j, float64(i*n+j)+0.1)
			}
		}
	}
	zones := matrix.ZoneSet{IDs: make([]int32, n), Names: make([]string, n)}
	for i := range zones.IDs {
		zones.IDs[i] = int32(1000 + 10*i)
		zones.Names[i] = "Zone " + string(rune('A'+i))
	}
	// a zone without any flow
	for j := 0; j < n; j++ {
		m.Set(4, j, 0)
	}
	ds := matrix.NewDataset(zones, m)
	ds.Meta.Mode = 5
	ds.Meta.TimeFrom = 6.5
	ds.Meta.TimeTo = 9
	ds.Meta.Factor = 0.25
	return ds
}

func TestRoundTrip(t *testing.T) {
	for _, tag := range []string{"V", "VM", "VN", "VMN", "O", "OM", "ON", "OMN", "E", "EM", "EN", "EMN"} {
		for _, et := range []matrix.ElemType{matrix.Int16, matrix.Int32, matrix.Float32, matrix.Float64} {
			f, err := format.Parse(tag)
			require.NoError(t, err)
			ds := sample(t, et)

			var buf bytes.Buffer
			n, err := Encode(&buf, ds, f)
			require.NoError(t, err, tag)
			assert.Equal(t, int64(buf.Len()), n)
			assert.True(t, strings.HasPrefix(buf.String(), "$"+tag+";"), buf.String())

			got, err := Decode(buf.Bytes())
			require.NoError(t, err, "%s %v\n%s", tag, et, buf.String())
			assert.Equal(t, et, got.Matrix.Type)
			assert.True(t, ds.Matrix.Equal(got.Matrix), "%s %v", tag, et)
			assert.True(t, ds.Zones.Equal(got.Zones), "%s %v", tag, et)
			assert.Equal(t, ds.Fingerprint(), got.Fingerprint())

			if f.WithMode {
				assert.Equal(t, int32(5), got.Meta.Mode)
			}
			if f.NoTime {
				assert.Equal(t, matrix.DefaultMetadata().Factor, got.Meta.Factor)
			} else {
				assert.Equal(t, 6.5, got.Meta.TimeFrom)
				assert.Equal(t, 9.0, got.Meta.TimeTo)
				assert.Equal(t, 0.25, got.Meta.Factor)
			}
		}
	}
}

func TestEncodeVWithoutNames(t *testing.T) {
	ds := sample(t, matrix.Float64)
	ds.Zones.Names = nil

	var buf bytes.Buffer
	_, err := Encode(&buf, ds, format.Format{Kind: format.V, NoTime: true})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), namesSection)

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.False(t, got.Zones.HasNames())
	assert.True(t, ds.Matrix.Equal(got.Matrix))
}

func TestEncodeESplitsLongRows(t *testing.T) {
	const n = 25
	m := matrix.New(matrix.Int32, n, n)
	for i := range m.Data {
		m.Data[i] = float64(i + 1)
	}
	ds := matrix.NewDataset(matrix.SequentialZones(n), m)

	var buf bytes.Buffer
	_, err := Encode(&buf, ds, format.Format{Kind: format.E, NoTime: true})
	require.NoError(t, err)

	dataLines := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if line == "" || line[0] == '*' || line[0] == '$' || strings.Contains(line, `"`) {
			continue
		}
		dataLines++
		fields := strings.Fields(line)
		assert.LessOrEqual(t, len(fields), 1+2*valuesPerLine, line)
	}
	assert.Equal(t, n*3, dataLines)

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, m.Equal(got.Matrix))
	assert.Equal(t, ds.Zones.IDs, got.Zones.IDs)
}

func TestEncodeRejects(t *testing.T) {
	m, err := matrix.FromRows(matrix.Float64, [][]float64{{1, 2, 3}})
	require.NoError(t, err)
	ds := matrix.NewDataset(matrix.NewZoneSet(1), m)
	cols := matrix.NewZoneSet(1, 2, 3)
	ds.ColZones = &cols

	_, err = Encode(&bytes.Buffer{}, ds, format.Format{Kind: format.O})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = Encode(&bytes.Buffer{}, sample(t, matrix.Float64), format.Format{Kind: format.S})
	assert.ErrorIs(t, err, matrix.ErrUnrecognizedFormat)

	_, err = Encode(&bytes.Buffer{}, sample(t, matrix.Float64), format.Format{Kind: format.BK})
	assert.ErrorIs(t, err, matrix.ErrUnrecognizedFormat)
}

func TestDecodeVCountBeyondInput(t *testing.T) {
	_, err := Decode([]byte("$VN;Y5\n2000000000\n1 2 3\n"))
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)

	// the zone numbers are all there but the values cannot be
	var sb strings.Builder
	sb.WriteString("$VN;Y5\n50000\n")
	for i := 1; i <= 50000; i++ {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte('\n')
	}
	sb.WriteString("1 2 3\n")
	_, err = Decode([]byte(sb.String()))
	assert.ErrorIs(t, err, matrix.ErrTruncatedInput)
}

func TestDecodeIntegerOutOfRange(t *testing.T) {
	for _, in := range []string{
		"$ON;Y2\n1 2 40000\n",
		"$ON;Y2\n1 2 -32769\n",
		"$EN;Y3\n1 2 3000000000\n",
		"$VN;Y2\n1\n1\n70000\n",
		"$VN;Y3\n1\n1\nNaN\n",
	} {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, matrix.ErrMalformedRecord, "%q", in)
	}

	// in range values still truncate toward zero
	ds := decodeString(t, "$ON;Y2\n1 2 32767.9\n2 1 -32768\n")
	assert.Equal(t, 32767.0, ds.Matrix.At(0, 1))
	assert.Equal(t, -32768.0, ds.Matrix.At(1, 0))
}

func TestEncodeENegativeOrigin(t *testing.T) {
	m, err := matrix.FromRows(matrix.Float64, [][]float64{{0, 1}, {2, 0}})
	require.NoError(t, err)
	ds := matrix.NewDataset(matrix.NewZoneSet(-5, 3), m)

	_, err = Encode(&bytes.Buffer{}, ds, format.Format{Kind: format.E, NoTime: true})
	assert.ErrorIs(t, err, matrix.ErrMalformedRecord)

	// negative ids are fine as destinations and in the other layouts
	m.SetRow(0, []float64{0, 0})
	var buf bytes.Buffer
	_, err = Encode(&buf, ds, format.Format{Kind: format.E, NoTime: true})
	require.NoError(t, err)
	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []int32{-5, 3}, got.Zones.IDs)
	assert.True(t, m.Equal(got.Matrix))

	m.SetRow(0, []float64{0, 1})
	for _, k := range []format.Kind{format.V, format.O} {
		buf.Reset()
		_, err = Encode(&buf, ds, format.Format{Kind: k, NoTime: true})
		require.NoError(t, err)
		got, err = Decode(buf.Bytes())
		require.NoError(t, err, k.String())
		assert.True(t, m.Equal(got.Matrix), k.String())
	}
}

func TestEncodeMultilineName(t *testing.T) {
	ds := sample(t, matrix.Float64)
	ds.Zones.Names[2] = "a\nb"
	for _, k := range []format.Kind{format.V, format.O, format.E} {
		_, err := Encode(&bytes.Buffer{}, ds, format.Format{Kind: k})
		assert.ErrorIs(t, err, matrix.ErrMalformedRecord, k.String())
	}
}

func TestEncodePSV(t *testing.T) {
	m, err := matrix.FromRows(matrix.Float64, [][]float64{
		{1, 0, 5},
		{0, 0, 0},
		{5, 7, 2.5},
	})
	require.NoError(t, err)
	ds := matrix.NewDataset(matrix.NewZoneSet(100, 200, 300), m)

	var buf bytes.Buffer
	n, err := EncodePSV(&buf, ds, CellCell, DefaultPSVWidth)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "CC; Za 3; Zi 3;\n"+
		"100 100 1 300 5\n"+
		"300 100 5 200 7 300 2.5\n", buf.String())

	buf.Reset()
	_, err = EncodePSV(&buf, ds, CellNumber, 0)
	require.NoError(t, err)
	assert.Equal(t, "CN; Za 3; Zi 3;\n"+
		"100 1 0 5\n"+
		"300 5 7 2.5\n", buf.String())
}

func TestEncodePSVWraps(t *testing.T) {
	m, err := matrix.FromRows(matrix.Int32, [][]float64{
		{11, 12, 13, 14, 15},
	})
	require.NoError(t, err)
	ds := matrix.NewDataset(matrix.NewZoneSet(7), m)
	cols := matrix.NewZoneSet(1, 2, 3, 4, 5)
	ds.ColZones = &cols

	var buf bytes.Buffer
	_, err = EncodePSV(&buf, ds, CellCell, 12)
	require.NoError(t, err)
	assert.Equal(t, "CC; Za 5; Zi 1;\n"+
		"7 1 11 2 12\n"+
		"7 3 13 4 14\n"+
		"7 5 15\n", buf.String())

	buf.Reset()
	_, err = EncodePSV(&buf, ds, CellNumber, 9)
	require.NoError(t, err)
	assert.Equal(t, "CN; Za 5; Zi 1;\n"+
		"7 11 12\n"+
		"7 13 14\n"+
		"7 15\n", buf.String())

	// a single item wider than the limit still gets its own line
	buf.Reset()
	_, err = EncodePSV(&buf, ds, CellNumber, 1)
	require.NoError(t, err)
	assert.Equal(t, 1+5, strings.Count(buf.String(), "\n"))
}

func TestEncodePSVRejects(t *testing.T) {
	ds := sample(t, matrix.Float64)
	_, err := EncodePSV(&bytes.Buffer{}, ds, PSVLayout(9), 0)
	assert.ErrorIs(t, err, matrix.ErrUnrecognizedFormat)

	ds.Matrix = matrix.New3D(matrix.Float64, 2, ds.Zones.Len(), ds.Zones.Len())
	_, err = EncodePSV(&bytes.Buffer{}, ds, CellCell, 0)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	l, err := ParsePSVLayout(" cn")
	require.NoError(t, err)
	assert.Equal(t, CellNumber, l)
	assert.Equal(t, "CN", l.String())
	_, err = ParsePSVLayout("CX")
	assert.ErrorIs(t, err, matrix.ErrUnrecognizedFormat)
}
