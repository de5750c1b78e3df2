// Diagnoses the structure of a Cityscapes-style YOLO dataset and optionally writes the dataset
// descriptor or stubs out missing label files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	yolods "github.com/fayizfareed1/yolo-on-cityscapes"
)

var (
	dataRoot   = flag.String("root", "cityscapes", "The `path` to the dataset root directory")
	writeYAML  = flag.Bool("write-yaml", false, "Write a data.yaml descriptor with an absolute dataset path")
	stubLabels = flag.Bool("stub-labels", false, "Create empty label files for images without labels (testing only)")
)

func main() {
	flag.Parse()
	root := filepath.Clean(*dataRoot)

	diagnosis, err := yolods.Diagnose(root)
	if err != nil {
		log.Fatal("Diagnosis failed: ", err)
	}
	diagnosis.Print(os.Stdout)

	changed := false
	if *writeYAML {
		path := yolods.DescriptorPath(root)
		if err := yolods.WriteDataConfig(path, yolods.DefaultDataConfig(root)); err != nil {
			log.Fatal("Failed to write the descriptor: ", err)
		}
		log.Print("Wrote descriptor ", path)
		changed = true
	}

	if *stubLabels {
		for _, split := range yolods.Splits {
			created, err := yolods.StubMissingLabels(root, split)
			if err != nil {
				log.Printf("Cannot stub labels for split %q: %v", split, err)
				continue
			}
			log.Printf("%s: created %d empty label files", split, created)
			changed = changed || created > 0
		}
	}

	// Show the post-fix state when anything was modified.
	if changed {
		diagnosis, err := yolods.Diagnose(root)
		if err != nil {
			log.Fatal("Diagnosis failed: ", err)
		}
		diagnosis.Print(os.Stdout)
	}
}
