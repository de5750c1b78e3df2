// Repairs YOLO label files in a Cityscapes-style dataset and verifies the result.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	yolods "github.com/fayizfareed1/yolo-on-cityscapes"
)

var (
	dataRoot   = flag.String("root", "cityscapes", "The `path` to the dataset root directory")
	workers    = flag.Int("workers", 0, "The number of concurrent workers (0 selects twice the CPU count)")
	verifyOnly = flag.Bool("verify-only", false, "Only verify the label files, do not rewrite anything")
)

func main() {
	flag.Parse()
	root := filepath.Clean(*dataRoot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if summary, err := yolods.DetectAnnotationType(root); err == nil {
		log.Printf("Label files: %d box, %d polygon, %d mixed, %d invalid",
			summary.BoxFiles, summary.PolygonFiles, summary.MixedFiles, summary.InvalidFiles)
	}

	if !*verifyOnly {
		report, err := yolods.FixLabels(ctx, root, *workers)
		if err != nil {
			log.Fatal("Label repair failed: ", err)
		}
		report.Print(os.Stdout)
	}

	for _, split := range yolods.Splits {
		sv, err := yolods.VerifySplit(root, split)
		if err != nil {
			log.Printf("Cannot verify split %q: %v", split, err)
			continue
		}
		log.Printf("%s: %d/%d valid label files, %d annotations (%d boxes, %d polygons)",
			sv.Split, sv.ValidFiles, sv.TotalFiles, sv.Annotations, sv.Boxes, sv.Polygons)
	}
}
