package yolods

// Post-repair verification. Unlike Classify, these routines re-validate every line.

import (
	"os"
	"strings"
)

// FileVerification is the result of independently re-validating one label file.
type FileVerification struct {
	Boxes    int  // Accepted box lines, up to the first failure.
	Polygons int  // Accepted polygon lines, up to the first failure.
	Valid    bool // Every non-blank line passed and at least one line was present.
}

// Annotations is the total number of accepted annotation lines.
func (v FileVerification) Annotations() int {
	return v.Boxes + v.Polygons
}

// verifyLines applies the per-line acceptance rule to every non-blank line.
func verifyLines(lines []string) FileVerification {
	var v FileVerification
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		a, err := ParseLine(line)
		if err != nil {
			return FileVerification{Boxes: v.Boxes, Polygons: v.Polygons, Valid: false}
		}
		seen = true
		if a.IsPolygon() {
			v.Polygons++
		} else {
			v.Boxes++
		}
	}
	v.Valid = seen
	return v
}

// VerifyFile re-reads the label file at path and re-validates every line against the per-line
// acceptance rule. It is used for reporting, never for repair decisions.
func VerifyFile(path string) (FileVerification, error) {
	lines, err := readLines(path)
	if err != nil {
		return FileVerification{}, err
	}
	return verifyLines(lines), nil
}

// SplitVerification aggregates verification over one split's label directory.
type SplitVerification struct {
	Split       string
	TotalFiles  int
	ValidFiles  int
	Annotations int // Annotations in valid files.
	Boxes       int // Accepted box lines across all files, valid or not.
	Polygons    int // Accepted polygon lines across all files, valid or not.
}

// VerifySplit verifies every label file of the given split under root. Unreadable files are
// skipped; they count towards TotalFiles only.
func VerifySplit(root, split string) (SplitVerification, error) {
	labelFiles, err := filesByExtInDir(LabelDir(root, split), labelExt)
	if err != nil {
		return SplitVerification{}, err
	}

	sv := SplitVerification{Split: split, TotalFiles: len(labelFiles)}
	for _, path := range labelFiles {
		v, err := VerifyFile(path)
		if err != nil {
			continue
		}
		sv.Boxes += v.Boxes
		sv.Polygons += v.Polygons
		if v.Valid {
			sv.ValidFiles++
			sv.Annotations += v.Annotations()
		}
	}

	return sv, nil
}

// TypeSummary counts label files by the kind of annotations they contain. Classification is by
// token count only, so it also covers files whose values are out of range.
type TypeSummary struct {
	BoxFiles     int
	PolygonFiles int
	MixedFiles   int
	InvalidFiles int // Files that are unreadable or contain neither format.
}

// DetectAnnotationType inspects every label file across all splits under root and summarizes
// which annotation formats are present. Empty files are not counted. Missing split directories
// are skipped.
func DetectAnnotationType(root string) (TypeSummary, error) {
	var summary TypeSummary

	for _, split := range Splits {
		dir := LabelDir(root, split)
		if !dirExists(dir) {
			continue
		}
		labelFiles, err := filesByExtInDir(dir, labelExt)
		if err != nil {
			return TypeSummary{}, err
		}

		for _, path := range labelFiles {
			lines, err := readLines(path)
			if err != nil {
				summary.InvalidFiles++
				continue
			}
			if len(lines) == 0 {
				continue
			}

			hasBox, hasPolygon := false, false
			for _, line := range lines {
				switch n := len(strings.Fields(line)); {
				case n == 5:
					hasBox = true
				case n >= 7 && n%2 == 1:
					hasPolygon = true
				}
			}

			switch {
			case hasBox && hasPolygon:
				summary.MixedFiles++
			case hasBox:
				summary.BoxFiles++
			case hasPolygon:
				summary.PolygonFiles++
			default:
				summary.InvalidFiles++
			}
		}
	}

	return summary, nil
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
