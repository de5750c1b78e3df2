package yolods

// Handling of empty and corrupted label files. Unlike the repair driver, these operations may
// delete or move files, so the destructive paths are confirm-gated at the CLI.

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// LabelAudit lists one split's label files by validity.
type LabelAudit struct {
	Split     string
	Valid     int
	Empty     []string // Paths of label files with no content.
	Corrupted []string // Paths of unreadable label files or files with an invalid line.
}

// Problematic returns the empty and corrupted paths combined.
func (a LabelAudit) Problematic() []string {
	out := make([]string, 0, len(a.Empty)+len(a.Corrupted))
	out = append(out, a.Empty...)
	return append(out, a.Corrupted...)
}

// AuditSplit classifies every label file of one split as valid, empty or corrupted. Corrupted
// means unreadable, or containing at least one non-blank line that fails the per-line
// acceptance rule.
func AuditSplit(root, split string) (LabelAudit, error) {
	labelFiles, err := filesByExtInDir(LabelDir(root, split), labelExt)
	if err != nil {
		return LabelAudit{}, err
	}

	audit := LabelAudit{Split: split}
	for _, path := range labelFiles {
		raw, err := os.ReadFile(path)
		if err != nil {
			audit.Corrupted = append(audit.Corrupted, path)
			continue
		}

		if Classify(string(raw)) == FileEmpty {
			audit.Empty = append(audit.Empty, path)
			continue
		}

		lines, err := readLines(path)
		if err != nil {
			audit.Corrupted = append(audit.Corrupted, path)
			continue
		}
		if verifyLines(lines).Valid {
			audit.Valid++
		} else {
			audit.Corrupted = append(audit.Corrupted, path)
		}
	}

	return audit, nil
}

// AuditLabels audits all splits under root. Splits without a label directory are skipped.
func AuditLabels(root string) ([]LabelAudit, error) {
	var audits []LabelAudit
	for _, split := range Splits {
		if !dirExists(LabelDir(root, split)) {
			log.Printf("No label directory for split %q, skipping", split)
			continue
		}
		audit, err := AuditSplit(root, split)
		if err != nil {
			return audits, err
		}
		audits = append(audits, audit)
	}
	return audits, nil
}

// PruneAction selects what PruneLabels does with problematic files.
type PruneAction int

const (
	// PruneList only prints the problematic files for manual review.
	PruneList PruneAction = iota
	// PruneQuarantine moves problematic label files and their paired images to
	// <root>/<split>_problematic/{labels,images}.
	PruneQuarantine
	// PruneRemove deletes problematic label files and their paired images.
	PruneRemove
)

// PruneReport counts the files a prune run touched.
type PruneReport struct {
	Labels int // Label files removed, moved or listed.
	Images int // Paired image files removed or moved.
}

// PruneLabels applies action to every empty or corrupted label file under root, together with
// the images paired to it by name stem. Splits missing either directory are skipped. Listing
// output goes to w.
func PruneLabels(root string, action PruneAction, w io.Writer) (PruneReport, error) {
	var report PruneReport

	for _, split := range Splits {
		labelDir := LabelDir(root, split)
		imageDir := ImageDir(root, split)
		if !dirExists(labelDir) || !dirExists(imageDir) {
			log.Printf("Skipping split %q: missing directories", split)
			continue
		}

		audit, err := AuditSplit(root, split)
		if err != nil {
			return report, err
		}
		problematic := audit.Problematic()
		log.Printf("%s: %d empty and %d corrupted label files",
			split, len(audit.Empty), len(audit.Corrupted))
		if len(problematic) == 0 {
			continue
		}

		switch action {
		case PruneList:
			for _, path := range problematic {
				kind := "corrupted"
				for _, e := range audit.Empty {
					if e == path {
						kind = "empty"
						break
					}
				}
				fmt.Fprintf(w, "%s (%s)\n", path, kind)
			}
			report.Labels += len(problematic)

		case PruneRemove:
			for _, path := range problematic {
				images := imagePathsForStem(imageDir, stem(path))
				if err := os.Remove(path); err != nil {
					return report, err
				}
				report.Labels++
				for _, img := range images {
					if err := os.Remove(img); err != nil {
						return report, err
					}
					report.Images++
				}
			}
			log.Printf("%s: removed %d label files and their images", split, len(problematic))

		case PruneQuarantine:
			backupLabels := filepath.Join(root, split+"_problematic", "labels")
			backupImages := filepath.Join(root, split+"_problematic", "images")
			if err := os.MkdirAll(backupLabels, 0755); err != nil {
				return report, err
			}
			if err := os.MkdirAll(backupImages, 0755); err != nil {
				return report, err
			}

			for _, path := range problematic {
				images := imagePathsForStem(imageDir, stem(path))
				if err := os.Rename(path, filepath.Join(backupLabels, filepath.Base(path))); err != nil {
					return report, err
				}
				report.Labels++
				for _, img := range images {
					if err := os.Rename(img, filepath.Join(backupImages, filepath.Base(img))); err != nil {
						return report, err
					}
					report.Images++
				}
			}
			log.Printf("%s: moved %d label files and their images to %s",
				split, len(problematic), filepath.Join(root, split+"_problematic"))
		}
	}

	return report, nil
}
