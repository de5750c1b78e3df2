package yolods

// Conversion of colored segmentation masks to YOLO bounding box labels: one connected region of
// a mapped color becomes one normalized box annotation.

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ColorClassMap maps a mask color to a class id. Callers pass it explicitly; there is no
// package-level default to mutate.
type ColorClassMap map[color.NRGBA]int

// CityscapesPalette returns the color-to-class mapping for the 19 trainable Cityscapes classes.
func CityscapesPalette() ColorClassMap {
	return ColorClassMap{
		{R: 128, G: 64, B: 128, A: 255}: 0,  // road
		{R: 244, G: 35, B: 232, A: 255}: 1,  // sidewalk
		{R: 70, G: 70, B: 70, A: 255}:   2,  // building
		{R: 102, G: 102, B: 156, A: 255}: 3, // wall
		{R: 190, G: 153, B: 153, A: 255}: 4, // fence
		{R: 153, G: 153, B: 153, A: 255}: 5, // pole
		{R: 250, G: 170, B: 30, A: 255}: 6,  // traffic light
		{R: 220, G: 220, B: 0, A: 255}:  7,  // traffic sign
		{R: 107, G: 142, B: 35, A: 255}: 8,  // vegetation
		{R: 152, G: 251, B: 152, A: 255}: 9, // terrain
		{R: 70, G: 130, B: 180, A: 255}: 10, // sky
		{R: 220, G: 20, B: 60, A: 255}:  11, // person
		{R: 255, G: 0, B: 0, A: 255}:    12, // rider
		{R: 0, G: 0, B: 142, A: 255}:    13, // car
		{R: 0, G: 0, B: 70, A: 255}:     14, // truck
		{R: 0, G: 60, B: 100, A: 255}:   15, // bus
		{R: 0, G: 80, B: 100, A: 255}:   16, // train
		{R: 0, G: 0, B: 230, A: 255}:    17, // motorcycle
		{R: 119, G: 11, B: 32, A: 255}:  18, // bicycle
	}
}

// MaskOptions tunes the mask conversion.
type MaskOptions struct {
	MinArea      int     // Minimum region size in pixels; smaller regions are dropped.
	MatchNearest bool    // Map unknown colors to the nearest palette color within Tolerance.
	Tolerance    float64 // Maximum Euclidean RGB distance for nearest-color matching.
}

// DefaultMaskOptions returns the conversion defaults.
func DefaultMaskOptions() MaskOptions {
	return MaskOptions{MinArea: 50, MatchNearest: true, Tolerance: 50}
}

// nearestClass returns the class of the palette color closest to c within opts.Tolerance, or -1.
func nearestClass(c color.NRGBA, colors ColorClassMap, tolerance float64) int {
	minDistance := tolerance
	classID := -1
	for pc, id := range colors {
		dr := float64(pc.R) - float64(c.R)
		dg := float64(pc.G) - float64(c.G)
		db := float64(pc.B) - float64(c.B)
		if d := math.Sqrt(dr*dr + dg*dg + db*db); d < minDistance {
			minDistance = d
			classID = id
		}
	}
	return classID
}

// MaskToAnnotations converts a decoded mask image to box annotations.
//
// Pixels are mapped to classes through colors (exactly, or via nearest-color matching when
// enabled). Each 4-connected region of one color yields one box covering its extent, with
// center and size normalized by the image dimensions.
func MaskToAnnotations(img image.Image, colors ColorClassMap, opts MaskOptions) []Annotation {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Resolve every pixel to its exact color key once.
	pixels := make([]color.NRGBA, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = color.NRGBAModel.Convert(
				img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
		}
	}

	// Class lookup per distinct color, memoized since nearest-color matching is O(palette).
	classByColor := make(map[color.NRGBA]int)
	classOf := func(c color.NRGBA) int {
		if id, ok := classByColor[c]; ok {
			return id
		}
		id, ok := colors[c]
		if !ok {
			id = -1
			if opts.MatchNearest {
				id = nearestClass(c, colors, opts.Tolerance)
			}
		}
		classByColor[c] = id
		return id
	}

	var annotations []Annotation
	visited := make([]bool, len(pixels))
	var stack []int

	for start := range pixels {
		if visited[start] || classOf(pixels[start]) < 0 {
			continue
		}

		// Flood fill the 4-connected region of this exact color.
		regionColor := pixels[start]
		minX, minY := width, height
		maxX, maxY := 0, 0
		area := 0

		visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%width, idx/width

			area++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for _, n := range [4]int{idx - width, idx + width, idx - 1, idx + 1} {
				if n < 0 || n >= len(pixels) || visited[n] || pixels[n] != regionColor {
					continue
				}
				// Do not wrap across row boundaries for horizontal neighbours.
				if (n == idx-1 || n == idx+1) && n/width != y {
					continue
				}
				visited[n] = true
				stack = append(stack, n)
			}
		}

		if area < opts.MinArea {
			continue
		}

		boxW := float64(maxX-minX+1) / float64(width)
		boxH := float64(maxY-minY+1) / float64(height)
		centerX := (float64(minX) + float64(maxX-minX+1)/2) / float64(width)
		centerY := (float64(minY) + float64(maxY-minY+1)/2) / float64(height)

		annotations = append(annotations, Annotation{
			ClassID: classOf(regionColor),
			Coords:  []float64{centerX, centerY, boxW, boxH},
		})
	}

	return annotations
}

// ConvertMasks converts every PNG mask in maskDir to a YOLO label file in labelDir, named by
// the mask's file stem. Masks that yield no annotations produce no label file. Returns the
// number of label files written.
func ConvertMasks(maskDir, labelDir string, colors ColorClassMap, opts MaskOptions) (int, error) {
	if !dirExists(labelDir) {
		return 0, fmt.Errorf("cannot access label directory %q", labelDir)
	}
	maskFiles, err := filesByExtInDir(maskDir, ".png")
	if err != nil {
		return 0, err
	}
	log.Printf("Converting %d masks from %s", len(maskFiles), maskDir)

	written := 0
	for _, path := range maskFiles {
		img, err := imaging.Open(path)
		if err != nil {
			log.Printf("Error reading mask, skipping %q: %v", path, err)
			continue
		}

		annotations := MaskToAnnotations(img, colors, opts)
		if len(annotations) == 0 {
			log.Printf("No labelled regions in %q, skipping", path)
			continue
		}

		outPath := filepath.Join(labelDir, stem(path)+labelExt)
		if err := writeFileAtomic(outPath, serializeAnnotations(annotations)); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}
