package yolods

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    FileVerification
	}{
		{
			name:    "boxes and polygons",
			content: "10 0.1 0.2 0.3 0.4\n4 0.02 0.42 0.28 0.41 0.31 0.40\n12 0.5 0.5 0.1 0.1\n",
			want:    FileVerification{Boxes: 2, Polygons: 1, Valid: true},
		},
		{
			name:    "blank lines ignored",
			content: "10 0.1 0.2 0.3 0.4\n\n  \n12 0.5 0.5 0.1 0.1\n",
			want:    FileVerification{Boxes: 2, Valid: true},
		},
		{
			name:    "invalid line fails the file",
			content: "10 0.1 0.2 0.3 0.4\n40 0.1 0.2 0.3 0.4\n",
			want:    FileVerification{Boxes: 1, Valid: false},
		},
		{
			name:    "empty file is not valid",
			content: "",
			want:    FileVerification{Valid: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeLabelFile(t, t.TempDir(), "a.txt", tc.content)
			got, err := VerifyFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Boxes+tc.want.Polygons, got.Annotations())
		})
	}
}

func TestVerifySplit(t *testing.T) {
	root := t.TempDir()
	dir := LabelDir(root, "train")
	require.NoError(t, os.MkdirAll(dir, 0755))

	writeLabelFile(t, dir, "a.txt", "10 0.1 0.2 0.3 0.4\n12 0.5 0.5 0.1 0.1\n")
	writeLabelFile(t, dir, "b.txt", "4 0.02 0.42 0.28 0.41 0.31 0.40\n")
	writeLabelFile(t, dir, "c.txt", "10 0.1 0.2 0.3 0.4\ngarbage\n")
	writeLabelFile(t, dir, "d.txt", "")

	sv, err := VerifySplit(root, "train")
	require.NoError(t, err)
	assert.Equal(t, "train", sv.Split)
	assert.Equal(t, 4, sv.TotalFiles)
	assert.Equal(t, 2, sv.ValidFiles)
	assert.Equal(t, 3, sv.Annotations)
	// Accepted lines of invalid files still count towards the box/polygon totals.
	assert.Equal(t, 3, sv.Boxes)
	assert.Equal(t, 1, sv.Polygons)
}

func TestDetectAnnotationType(t *testing.T) {
	root := t.TempDir()
	train := LabelDir(root, "train")
	val := LabelDir(root, "val")
	require.NoError(t, os.MkdirAll(train, 0755))
	require.NoError(t, os.MkdirAll(val, 0755))

	writeLabelFile(t, train, "box.txt", "10 0.1 0.2 0.3 0.4\n")
	writeLabelFile(t, train, "polygon.txt", "4 0.02 0.42 0.28 0.41 0.31 0.40\n")
	writeLabelFile(t, train, "mixed.txt", "10 0.1 0.2 0.3 0.4\n4 0.02 0.42 0.28 0.41 0.31 0.40\n")
	writeLabelFile(t, train, "invalid.txt", "garbage here\n")
	writeLabelFile(t, train, "empty.txt", "")
	// Token counts decide; out-of-range values still detect as boxes.
	writeLabelFile(t, val, "outofrange.txt", "40 0.1 0.2 0.3 0.4\n")

	summary, err := DetectAnnotationType(root)
	require.NoError(t, err)
	assert.Equal(t, TypeSummary{BoxFiles: 2, PolygonFiles: 1, MixedFiles: 1, InvalidFiles: 1}, summary)
}

func TestDetectAnnotationTypeMissingDirs(t *testing.T) {
	summary, err := DetectAnnotationType(filepath.Join(t.TempDir(), "nowhere"))
	require.NoError(t, err)
	assert.Equal(t, TypeSummary{}, summary)
}
