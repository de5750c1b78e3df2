package yolods

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillRect paints the rectangle [x0,x1)x[y0,y1) in c.
func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func newMask(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	// Background color far from every palette entry.
	fillRect(img, 0, 0, w, h, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	return img
}

func TestMaskToAnnotations(t *testing.T) {
	img := newMask(100, 100)
	carColor := color.NRGBA{R: 0, G: 0, B: 142, A: 255}
	fillRect(img, 10, 20, 30, 40, carColor)

	annotations := MaskToAnnotations(img, CityscapesPalette(), DefaultMaskOptions())
	require.Len(t, annotations, 1)

	a := annotations[0]
	assert.Equal(t, 13, a.ClassID)
	require.Len(t, a.Coords, 4)
	assert.InDelta(t, 0.2, a.Coords[0], 1e-9) // center x
	assert.InDelta(t, 0.3, a.Coords[1], 1e-9) // center y
	assert.InDelta(t, 0.2, a.Coords[2], 1e-9) // width
	assert.InDelta(t, 0.2, a.Coords[3], 1e-9) // height
}

func TestMaskToAnnotationsMinArea(t *testing.T) {
	img := newMask(100, 100)
	personColor := color.NRGBA{R: 220, G: 20, B: 60, A: 255}
	fillRect(img, 50, 50, 53, 53, personColor) // 9 pixels, below the default minimum.

	annotations := MaskToAnnotations(img, CityscapesPalette(), DefaultMaskOptions())
	assert.Empty(t, annotations)

	opts := DefaultMaskOptions()
	opts.MinArea = 1
	annotations = MaskToAnnotations(img, CityscapesPalette(), opts)
	require.Len(t, annotations, 1)
	assert.Equal(t, 11, annotations[0].ClassID)
}

func TestMaskToAnnotationsNearestColor(t *testing.T) {
	img := newMask(100, 100)
	// Slightly off the car palette color.
	fillRect(img, 0, 0, 20, 20, color.NRGBA{R: 0, G: 0, B: 150, A: 255})

	annotations := MaskToAnnotations(img, CityscapesPalette(), DefaultMaskOptions())
	require.Len(t, annotations, 1)
	assert.Equal(t, 13, annotations[0].ClassID)

	opts := DefaultMaskOptions()
	opts.MatchNearest = false
	assert.Empty(t, MaskToAnnotations(img, CityscapesPalette(), opts))
}

func TestMaskToAnnotationsSeparateRegions(t *testing.T) {
	img := newMask(100, 100)
	carColor := color.NRGBA{R: 0, G: 0, B: 142, A: 255}
	fillRect(img, 0, 0, 20, 20, carColor)
	fillRect(img, 60, 60, 80, 80, carColor)

	annotations := MaskToAnnotations(img, CityscapesPalette(), DefaultMaskOptions())
	assert.Len(t, annotations, 2)
}

func saveMask(t *testing.T, img image.Image, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestConvertMasks(t *testing.T) {
	maskDir := t.TempDir()
	labelDir := t.TempDir()

	withCar := newMask(64, 64)
	fillRect(withCar, 8, 8, 24, 24, color.NRGBA{R: 0, G: 0, B: 142, A: 255})
	saveMask(t, withCar, maskDir, "frame_0001.png")
	saveMask(t, newMask(64, 64), maskDir, "background_only.png")

	written, err := ConvertMasks(maskDir, labelDir, CityscapesPalette(), DefaultMaskOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	content, err := os.ReadFile(filepath.Join(labelDir, "frame_0001.txt"))
	require.NoError(t, err)
	line := strings.TrimSpace(string(content))
	assert.True(t, strings.HasPrefix(line, "13 "), "unexpected label line: %q", line)

	v := verifyLines(strings.Split(line, "\n"))
	assert.True(t, v.Valid)
	assert.Equal(t, 1, v.Boxes)

	assert.NoFileExists(t, filepath.Join(labelDir, "background_only.txt"))
}

func TestConvertMasksMissingLabelDir(t *testing.T) {
	_, err := ConvertMasks(t.TempDir(), filepath.Join(t.TempDir(), "nowhere"),
		CityscapesPalette(), DefaultMaskOptions())
	require.Error(t, err)
}
