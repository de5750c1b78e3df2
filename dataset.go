package yolods

// Dataset directory conventions and image/label pairing.
//
// Layout: <root>/images/<split>/*.{png,jpg,jpeg} paired by file name stem with
// <root>/labels/<split>/*.txt, for split in {train, val, test}.

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const labelExt = ".txt"

// Splits are the dataset partitions, each owning one image and one label directory.
var Splits = []string{"train", "val", "test"}

// imageExts are the recognized image file extensions, without the dot.
var imageExts = []string{"png", "jpg", "jpeg"}

// ImagesRoot is the directory holding all image split directories.
func ImagesRoot(root string) string { return filepath.Join(root, "images") }

// LabelsRoot is the directory holding all label split directories.
func LabelsRoot(root string) string { return filepath.Join(root, "labels") }

// ImageDir is the image directory of one split.
func ImageDir(root, split string) string { return filepath.Join(ImagesRoot(root), split) }

// LabelDir is the label directory of one split.
func LabelDir(root, split string) string { return filepath.Join(LabelsRoot(root), split) }

// imageFilesInDir lists the files with a recognized image extension directly in dir.
func imageFilesInDir(dir string) ([]string, error) {
	all, err := filesByExtInDir(dir, "")
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(all))
	for _, path := range all {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		for _, want := range imageExts {
			if ext == want {
				files = append(files, path)
				break
			}
		}
	}

	return files, nil
}

// imagePathsForStem returns the image files in dir whose name stem matches s, across all
// recognized extensions.
func imagePathsForStem(dir, s string) []string {
	var paths []string
	for _, ext := range imageExts {
		path := filepath.Join(dir, s+"."+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			paths = append(paths, path)
		}
	}
	return paths
}

// MatchReport summarizes image/label pairing for one split. Unmatched files are reported, not
// treated as errors.
type MatchReport struct {
	Split      string
	Images     int
	Labels     int
	Matched    int      // Stems present on both sides.
	ImagesOnly []string // Image stems without a label file, sorted.
	LabelsOnly []string // Label stems without an image file, sorted.
}

// MatchSplit pairs the image and label files of one split by file name stem.
func MatchSplit(root, split string) (MatchReport, error) {
	imageFiles, err := imageFilesInDir(ImageDir(root, split))
	if err != nil {
		return MatchReport{}, err
	}
	labelFiles, err := filesByExtInDir(LabelDir(root, split), labelExt)
	if err != nil {
		return MatchReport{}, err
	}

	imageStems := make(map[string]bool, len(imageFiles))
	for _, path := range imageFiles {
		imageStems[stem(path)] = true
	}
	labelStems := make(map[string]bool, len(labelFiles))
	for _, path := range labelFiles {
		labelStems[stem(path)] = true
	}

	report := MatchReport{Split: split, Images: len(imageStems), Labels: len(labelStems)}
	for s := range imageStems {
		if labelStems[s] {
			report.Matched++
		} else {
			report.ImagesOnly = append(report.ImagesOnly, s)
		}
	}
	for s := range labelStems {
		if !imageStems[s] {
			report.LabelsOnly = append(report.LabelsOnly, s)
		}
	}
	sort.Strings(report.ImagesOnly)
	sort.Strings(report.LabelsOnly)

	return report, nil
}

// StubMissingLabels creates an empty label file for every image in the split that has none and
// returns the number of files created. Empty labels mark background-only images; real
// annotations are still required for anything else.
func StubMissingLabels(root, split string) (int, error) {
	report, err := MatchSplit(root, split)
	if err != nil {
		return 0, err
	}

	labelDir := LabelDir(root, split)
	if err := os.MkdirAll(labelDir, 0755); err != nil {
		return 0, err
	}

	created := 0
	for _, s := range report.ImagesOnly {
		if err := os.WriteFile(filepath.Join(labelDir, s+labelExt), nil, 0644); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
