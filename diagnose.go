package yolods

// Structural dataset diagnosis: directory layout, image/label pairing and a sample label check
// per split, plus the descriptor.

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// SplitDiagnosis is the diagnosis of one split.
type SplitDiagnosis struct {
	Split          string
	ImageDirExists bool
	LabelDirExists bool
	Match          MatchReport

	// Sample inspection of the first label file, when one exists.
	SamplePath   string
	SampleState  FileState
	SampleDetail FileVerification
}

// Diagnosis is the result of a full dataset inspection. Advisory only; nothing is modified.
type Diagnosis struct {
	Root             string
	ImagesRootExists bool
	LabelsRootExists bool
	Splits           []SplitDiagnosis

	DescriptorExists bool
	Descriptor       DataConfig
	DescriptorErr    error
}

// Diagnose inspects the dataset rooted at root. It fails only when root itself is missing;
// every other problem is reported in the returned Diagnosis.
func Diagnose(root string) (Diagnosis, error) {
	if !dirExists(root) {
		return Diagnosis{}, fmt.Errorf("dataset root not found: %q", root)
	}

	d := Diagnosis{
		Root:             root,
		ImagesRootExists: dirExists(ImagesRoot(root)),
		LabelsRootExists: dirExists(LabelsRoot(root)),
	}

	for _, split := range Splits {
		sd := SplitDiagnosis{
			Split:          split,
			ImageDirExists: dirExists(ImageDir(root, split)),
			LabelDirExists: dirExists(LabelDir(root, split)),
		}

		if sd.ImageDirExists && sd.LabelDirExists {
			match, err := MatchSplit(root, split)
			if err == nil {
				sd.Match = match
			}
			diagnoseSample(root, split, &sd)
		}

		d.Splits = append(d.Splits, sd)
	}

	descriptor := DescriptorPath(root)
	cfg, err := ReadDataConfig(descriptor)
	switch {
	case err == nil:
		d.DescriptorExists = true
		d.Descriptor = cfg
	case fileExists(descriptor):
		d.DescriptorExists = true
		d.DescriptorErr = err
	}

	return d, nil
}

// diagnoseSample inspects the first label file of the split, if any.
func diagnoseSample(root, split string, sd *SplitDiagnosis) {
	labelFiles, err := filesByExtInDir(LabelDir(root, split), labelExt)
	if err != nil || len(labelFiles) == 0 {
		return
	}

	sd.SamplePath = labelFiles[0]
	lines, err := readLines(sd.SamplePath)
	if err != nil {
		return
	}

	sd.SampleState = Classify(strings.Join(lines, "\n"))
	sd.SampleDetail = verifyLines(lines)
}

// Print writes a human-readable diagnosis report to w.
func (d Diagnosis) Print(w io.Writer) {
	fmt.Fprintf(w, "Dataset root: %s\n", d.Root)
	fmt.Fprintf(w, "Images root exists: %t\n", d.ImagesRootExists)
	fmt.Fprintf(w, "Labels root exists: %t\n", d.LabelsRootExists)

	for _, sd := range d.Splits {
		fmt.Fprintf(w, "\n%s:\n", sd.Split)
		fmt.Fprintf(w, "  images dir exists: %t\n", sd.ImageDirExists)
		fmt.Fprintf(w, "  labels dir exists: %t\n", sd.LabelDirExists)
		if !sd.ImageDirExists || !sd.LabelDirExists {
			continue
		}

		m := sd.Match
		fmt.Fprintf(w, "  images: %d, labels: %d, matched pairs: %d\n", m.Images, m.Labels, m.Matched)
		fmt.Fprintf(w, "  images without labels: %d\n", len(m.ImagesOnly))
		fmt.Fprintf(w, "  labels without images: %d\n", len(m.LabelsOnly))
		if sd.SamplePath != "" {
			fmt.Fprintf(w, "  sample %s: %s, %d boxes, %d polygons, valid: %t\n",
				sd.SamplePath, sd.SampleState, sd.SampleDetail.Boxes, sd.SampleDetail.Polygons,
				sd.SampleDetail.Valid)
		}
	}

	fmt.Fprintf(w, "\ndata.yaml exists: %t\n", d.DescriptorExists)
	switch {
	case d.DescriptorErr != nil:
		fmt.Fprintf(w, "data.yaml error: %v\n", d.DescriptorErr)
	case d.DescriptorExists:
		fmt.Fprintf(w, "data.yaml: path=%s nc=%d names=%d\n",
			d.Descriptor.Path, d.Descriptor.NC, len(d.Descriptor.Names))
	}
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
