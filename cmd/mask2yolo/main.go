// Converts colored segmentation masks to YOLO bounding box label files.
package main

import (
	"flag"
	"log"
	"path/filepath"

	yolods "github.com/fayizfareed1/yolo-on-cityscapes"
)

var (
	maskDirPath  = flag.String("masks", "", "The `path` to the mask input directory")
	labelDirPath = flag.String("labels-out", "", "The `path` to the label output directory")
	minArea      = flag.Int("min-area", 50, "The minimum region size in `pixels` to keep")
	tolerance    = flag.Float64("color-tolerance", 50, "The maximum RGB `distance` for nearest-color matching")
	exactColors  = flag.Bool("exact-colors", false, "Match palette colors exactly, without nearest-color fallback")
)

func main() {
	flag.Parse()
	if *maskDirPath == "" || *labelDirPath == "" {
		flag.Usage()
		log.Fatal("Missing mask input or label output directory")
	}
	maskDir := filepath.Clean(*maskDirPath)
	labelDir := filepath.Clean(*labelDirPath)
	if maskDir == labelDir {
		log.Fatal("The mask input and label output paths cannot be identical")
	}

	opts := yolods.DefaultMaskOptions()
	opts.MinArea = *minArea
	opts.Tolerance = *tolerance
	opts.MatchNearest = !*exactColors

	written, err := yolods.ConvertMasks(maskDir, labelDir, yolods.CityscapesPalette(), opts)
	if err != nil {
		log.Fatal("Mask conversion failed: ", err)
	}
	log.Printf("Successfully wrote labels for %d masks to %s", written, labelDir)
}
