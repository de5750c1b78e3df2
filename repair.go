package yolods

// Classification and in-place repair of label files.

import (
	"os"
	"strings"
)

// FileState is the validation state of a label file's content.
type FileState int

const (
	FileEmpty FileState = iota
	FileWellFormed
	FileMalformed
)

func (s FileState) String() string {
	switch s {
	case FileEmpty:
		return "empty"
	case FileWellFormed:
		return "well-formed"
	case FileMalformed:
		return "malformed"
	}
	return "unknown"
}

// Outcome is the result category of repairing one label file.
type Outcome int

const (
	// OutcomeEmpty: the file had no content after trimming whitespace. Nothing is written.
	OutcomeEmpty Outcome = iota
	// OutcomeAlreadyCorrect: the file was classified well-formed and left untouched.
	OutcomeAlreadyCorrect
	// OutcomeFixed: at least one annotation was recovered and the file was rewritten.
	OutcomeFixed
	// OutcomeNoValidAnnotations: content was present but no line passed validation. The file is
	// left untouched rather than truncated.
	OutcomeNoValidAnnotations
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty file"
	case OutcomeAlreadyCorrect:
		return "already correct"
	case OutcomeFixed:
		return "fixed"
	case OutcomeNoValidAnnotations:
		return "no valid annotations"
	}
	return "unknown"
}

// Classify decides whether content is empty, already well-formed or in need of repair.
//
// Content is empty iff it is the empty string after trimming whitespace. It is well-formed iff
// it has more than one newline-delimited segment and the first segment has a recognized token
// count (5, or odd and >= 7).
//
// Known limitation: only the first line is inspected, so a multi-line file whose later lines are
// invalid still classifies as well-formed. This mirrors the upstream annotation tooling; use
// VerifyFile to validate every line.
func Classify(content string) FileState {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return FileEmpty
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > 1 {
		switch n := len(strings.Fields(lines[0])); {
		case n == 5, n >= 7 && n%2 == 1:
			return FileWellFormed
		}
	}

	return FileMalformed
}

// Repair recovers the valid annotations from content.
//
// A known failure mode of the upstream export joined multiple annotation lines into one physical
// line with a literal backslash-n sequence instead of a real line break, so those sequences are
// normalized to newlines before splitting. Each non-blank segment is then parsed with ParseLine;
// segments that fail are discarded silently.
//
// The outcome is OutcomeEmpty for whitespace-only content, OutcomeFixed when at least one
// annotation was accepted, and OutcomeNoValidAnnotations otherwise. Repair never touches the
// file system; see RepairFile.
func Repair(content string) ([]Annotation, Outcome) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, OutcomeEmpty
	}

	var annotations []Annotation
	for _, segment := range strings.Split(strings.ReplaceAll(trimmed, `\n`, "\n"), "\n") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		a, err := ParseLine(segment)
		if err != nil {
			continue
		}
		annotations = append(annotations, a)
	}

	if len(annotations) == 0 {
		return nil, OutcomeNoValidAnnotations
	}
	return annotations, OutcomeFixed
}

// RepairResult describes what happened to one label file.
type RepairResult struct {
	Outcome Outcome
	Fixed   int // Number of annotations written when Outcome is OutcomeFixed.
}

// RepairFile classifies the label file at path and, if it is malformed, rewrites it in place
// with the recovered annotations re-serialized one per line.
//
// The file is only written when at least one annotation was recovered, and the write goes
// through a temp file plus rename. Empty files and files with no recoverable annotations are
// reported but left untouched.
func RepairFile(path string) (RepairResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RepairResult{}, err
	}

	content := string(raw)
	switch Classify(content) {
	case FileEmpty:
		return RepairResult{Outcome: OutcomeEmpty}, nil
	case FileWellFormed:
		return RepairResult{Outcome: OutcomeAlreadyCorrect}, nil
	}

	annotations, outcome := Repair(content)
	if outcome != OutcomeFixed {
		return RepairResult{Outcome: outcome}, nil
	}

	if err := writeFileAtomic(path, serializeAnnotations(annotations)); err != nil {
		return RepairResult{}, err
	}
	return RepairResult{Outcome: OutcomeFixed, Fixed: len(annotations)}, nil
}
