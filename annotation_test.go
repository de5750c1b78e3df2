package yolods

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
		want    Annotation
	}{
		{
			name: "valid box",
			line: "10 0.1 0.2 0.3 0.4",
			want: Annotation{ClassID: 10, Coords: []float64{0.1, 0.2, 0.3, 0.4}},
		},
		{
			name: "valid three point polygon",
			line: "4 0.02 0.42 0.28 0.41 0.31 0.40",
			want: Annotation{ClassID: 4, Coords: []float64{0.02, 0.42, 0.28, 0.41, 0.31, 0.40}},
		},
		{
			name: "boundary values accepted",
			line: "39 0 1 0 1",
			want: Annotation{ClassID: 39, Coords: []float64{0, 1, 0, 1}},
		},
		{name: "class id out of range", line: "40 0.1 0.2 0.3 0.4", wantErr: ErrRange},
		{name: "negative class id", line: "-1 0.1 0.2 0.3 0.4", wantErr: ErrRange},
		{name: "coordinate above one", line: "10 0.1 1.5 0.3 0.4", wantErr: ErrRange},
		{name: "coordinate below zero", line: "10 -0.1 0.2 0.3 0.4", wantErr: ErrRange},
		{name: "non numeric class id", line: "car 0.1 0.2 0.3 0.4", wantErr: ErrParse},
		{name: "non numeric coordinate", line: "10 0.1 x 0.3 0.4", wantErr: ErrParse},
		{name: "even token count", line: "10 0.1 0.2 0.3 0.4 0.5", wantErr: ErrTokenCount},
		{name: "too few tokens", line: "10 0.1 0.2", wantErr: ErrTokenCount},
		{name: "empty line", line: "", wantErr: ErrTokenCount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := ParseLine(tc.line)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, a)
		})
	}
}

func TestAnnotationKind(t *testing.T) {
	box, err := ParseLine("10 0.1 0.2 0.3 0.4")
	require.NoError(t, err)
	assert.False(t, box.IsPolygon())
	assert.Equal(t, 0, box.NumPoints())

	polygon, err := ParseLine("4 0.02 0.42 0.28 0.41 0.31 0.40")
	require.NoError(t, err)
	assert.True(t, polygon.IsPolygon())
	assert.Equal(t, 3, polygon.NumPoints())
}

func TestAnnotationString(t *testing.T) {
	a := Annotation{ClassID: 10, Coords: []float64{0.1, 0.2, 0.3, 0.4}}
	assert.Equal(t, "10 0.100000 0.200000 0.300000 0.400000", a.String())
}

func TestAnnotationRoundTrip(t *testing.T) {
	lines := []string{
		"10 0.347656 0.281250 0.562500 0.395833",
		"4 0.029785 0.425781 0.284180 0.412109 0.313477 0.407227",
	}
	for _, line := range lines {
		a, err := ParseLine(line)
		require.NoError(t, err)

		b, err := ParseLine(a.String())
		require.NoError(t, err)
		assert.Equal(t, a.ClassID, b.ClassID)
		require.Len(t, b.Coords, len(a.Coords))
		for i := range a.Coords {
			assert.InDelta(t, a.Coords[i], b.Coords[i], 1e-6)
		}
	}
}

func TestSerializeAnnotations(t *testing.T) {
	annotations := []Annotation{
		{ClassID: 10, Coords: []float64{0.1, 0.2, 0.3, 0.4}},
		{ClassID: 12, Coords: []float64{0.5, 0.5, 0.1, 0.1}},
	}
	got := string(serializeAnnotations(annotations))
	assert.Equal(t,
		"10 0.100000 0.200000 0.300000 0.400000\n12 0.500000 0.500000 0.100000 0.100000\n", got)
	assert.True(t, strings.HasSuffix(got, "\n"))
	assert.False(t, strings.HasSuffix(got, "\n\n"))
}
