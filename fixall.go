package yolods

// The repair driver: walks every split's label directory and repairs each file in place.

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
)

// SplitReport aggregates repair outcomes over one split's label directory.
type SplitReport struct {
	Split          string
	Files          int
	Fixed          int
	AlreadyCorrect int
	Empty          int
	NoValid        int // Files with content but no recoverable annotations.
	IOErrors       int // Files that could not be read or written back.
}

func (r *SplitReport) add(res RepairResult, err error) {
	if err != nil {
		r.IOErrors++
		return
	}
	switch res.Outcome {
	case OutcomeFixed:
		r.Fixed++
	case OutcomeAlreadyCorrect:
		r.AlreadyCorrect++
	case OutcomeEmpty:
		r.Empty++
	case OutcomeNoValidAnnotations:
		r.NoValid++
	}
}

// DatasetReport aggregates repair outcomes per split. It is created fresh on each run and never
// persisted.
type DatasetReport struct {
	Splits []SplitReport
}

// Total sums the counters across all splits.
func (r DatasetReport) Total() SplitReport {
	total := SplitReport{Split: "total"}
	for _, s := range r.Splits {
		total.Files += s.Files
		total.Fixed += s.Fixed
		total.AlreadyCorrect += s.AlreadyCorrect
		total.Empty += s.Empty
		total.NoValid += s.NoValid
		total.IOErrors += s.IOErrors
	}
	return total
}

// Print writes the per-split and total counters to w.
func (r DatasetReport) Print(w io.Writer) {
	write := func(s SplitReport) {
		fmt.Fprintf(w, "%s: %d files, %d fixed, %d already correct, %d empty,"+
				" %d without valid annotations, %d errors\n",
			s.Split, s.Files, s.Fixed, s.AlreadyCorrect, s.Empty, s.NoValid, s.IOErrors)
	}
	for _, s := range r.Splits {
		write(s)
	}
	write(r.Total())
}

// fileOutcome pairs one label file with its repair result.
type fileOutcome struct {
	path   string
	result RepairResult
	err    error
}

// FixLabels repairs every label file under root, one split at a time. A failing file is counted
// and the walk continues; no partial state needs rolling back since each file is an independent
// unit. Missing split directories are skipped.
//
// workers bounds the number of files repaired concurrently; values < 1 select twice the number
// of CPUs. Cancellation via ctx stops the walk between files.
func FixLabels(ctx context.Context, root string, workers int) (DatasetReport, error) {
	if !dirExists(LabelsRoot(root)) {
		return DatasetReport{}, fmt.Errorf("labels directory not found: %q", LabelsRoot(root))
	}

	var report DatasetReport
	for _, split := range Splits {
		dir := LabelDir(root, split)
		if !dirExists(dir) {
			log.Printf("No label directory for split %q, skipping", split)
			continue
		}

		splitReport, err := fixSplit(ctx, split, dir, workers)
		report.Splits = append(report.Splits, splitReport)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// fixSplit repairs all label files directly in dir using a bounded worker pool fed from a work
// queue.
func fixSplit(ctx context.Context, split, dir string, workers int) (SplitReport, error) {
	files, err := filesByExtInDir(dir, labelExt)
	if err != nil {
		return SplitReport{Split: split}, err
	}
	log.Printf("Repairing %d label files in %s", len(files), dir)

	report := SplitReport{Split: split, Files: len(files)}
	if len(files) == 0 {
		return report, nil
	}

	numTasks := workers
	if numTasks < 1 {
		numTasks = 2 * runtime.NumCPU()
	}
	if len(files) < numTasks {
		numTasks = len(files)
	}

	workQueue := make(chan string, 2*numTasks)
	results := make(chan fileOutcome, 2*numTasks)

	// Repair files concurrently from the work queue.
	var wg sync.WaitGroup
	wg.Add(numTasks)
	for i := 0; i < numTasks; i++ {
		go func() {
			defer wg.Done()
			for path := range workQueue {
				res, err := RepairFile(path)
				results <- fileOutcome{path: path, result: res, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Feed the work queue, stopping between files on cancellation.
	go func() {
		defer close(workQueue)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workQueue <- path:
			}
		}
	}()

	for out := range results {
		report.add(out.result, out.err)
		switch {
		case out.err != nil:
			log.Printf("Error repairing %s: %v", out.path, out.err)
		case out.result.Outcome == OutcomeFixed:
			log.Printf("Fixed %d annotations in %s", out.result.Fixed, out.path)
		case out.result.Outcome == OutcomeNoValidAnnotations:
			log.Printf("No valid annotations found in %s, leaving it untouched", out.path)
		}
	}

	return report, ctx.Err()
}
