package yolods

// The YOLO text annotation model: one object instance per line, whitespace-separated tokens,
// normalized coordinates.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// The Cityscapes taxonomy used by this dataset has 40 classes with ids 0..MaxClassID.
const (
	NumClasses = 40
	MaxClassID = NumClasses - 1
)

// Per-line failure kinds. Both discard the offending line; neither aborts a file.
var (
	ErrTokenCount = errors.New("unrecognized token count")
	ErrParse      = errors.New("malformed annotation value")
	ErrRange      = errors.New("annotation value out of range")
)

// Annotation is a single object instance within a label file.
//
// A box annotation has four coordinates (center x, center y, width, height); a polygon
// annotation has 2N coordinates for N >= 3 vertices. All coordinates are normalized to [0, 1].
type Annotation struct {
	ClassID int
	Coords  []float64
}

// IsPolygon reports whether a is a polygon annotation rather than a bounding box.
func (a Annotation) IsPolygon() bool {
	return len(a.Coords) > 4
}

// NumPoints is the number of polygon vertices, or zero for a box annotation.
func (a Annotation) NumPoints() int {
	if !a.IsPolygon() {
		return 0
	}
	return len(a.Coords) / 2
}

// String serializes a as a label file line: the integer class id followed by each coordinate at
// fixed 6-decimal precision, space-separated, no trailing newline.
func (a Annotation) String() string {
	var b strings.Builder
	b.Grow(2 + 9*len(a.Coords))
	b.WriteString(strconv.Itoa(a.ClassID))
	for _, c := range a.Coords {
		fmt.Fprintf(&b, " %.6f", c)
	}
	return b.String()
}

// ParseLine parses and validates a single annotation line.
//
// A line is accepted iff it has exactly 5 tokens (box) or an odd number of tokens >= 7
// (polygon), the class id is an integer in [0, MaxClassID] and every coordinate is a float
// in [0.0, 1.0]. Any violation is reported as ErrTokenCount, ErrParse or ErrRange.
func ParseLine(line string) (Annotation, error) {
	tokens := strings.Fields(line)

	switch n := len(tokens); {
	case n == 5: // Box: class id + 4 coordinates.
	case n >= 7 && n%2 == 1: // Polygon: class id + 2N coordinates, N >= 3.
	default:
		return Annotation{}, fmt.Errorf("%w: %d tokens in %q", ErrTokenCount, n, line)
	}

	classID, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Annotation{}, fmt.Errorf("%w: class id %q", ErrParse, tokens[0])
	}
	if classID < 0 || classID > MaxClassID {
		return Annotation{}, fmt.Errorf("%w: class id %d not in [0, %d]", ErrRange, classID, MaxClassID)
	}

	coords := make([]float64, len(tokens)-1)
	for i, t := range tokens[1:] {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return Annotation{}, fmt.Errorf("%w: coordinate %q", ErrParse, t)
		}
		if v < 0 || v > 1 {
			return Annotation{}, fmt.Errorf("%w: coordinate %v not in [0, 1]", ErrRange, v)
		}
		coords[i] = v
	}

	return Annotation{ClassID: classID, Coords: coords}, nil
}

// serializeAnnotations renders annotations one per line with a single trailing newline.
func serializeAnnotations(annotations []Annotation) []byte {
	var b strings.Builder
	for _, a := range annotations {
		b.WriteString(a.String())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
