// Lists, quarantines or removes empty and corrupted YOLO label files together with their paired
// images. Removal is destructive and must be confirmed with -yes.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	yolods "github.com/fayizfareed1/yolo-on-cityscapes"
)

var (
	dataRoot = flag.String("root", "cityscapes", "The `path` to the dataset root directory")
	action   = flag.String("action", "list", "What to do with problematic files {list, quarantine, remove}")
	confirm  = flag.Bool("yes", false, "Confirm the destructive remove action")
)

func main() {
	flag.Parse()
	root := filepath.Clean(*dataRoot)

	var pruneAction yolods.PruneAction
	switch *action {
	case "list":
		pruneAction = yolods.PruneList
	case "quarantine":
		pruneAction = yolods.PruneQuarantine
	case "remove":
		pruneAction = yolods.PruneRemove
		if !*confirm {
			log.Fatal("Action \"remove\" deletes label and image files; pass -yes to confirm")
		}
	default:
		log.Fatalf("Unknown action %q", *action)
	}

	report, err := yolods.PruneLabels(root, pruneAction, os.Stdout)
	if err != nil {
		log.Fatal("Pruning failed: ", err)
	}
	log.Printf("Processed %d label files and %d image files", report.Labels, report.Images)
}
