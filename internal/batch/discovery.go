// Package batch orchestrates per-file processing over a directory tree of
// recordings: diagnosis, filtering and the housekeeping operations around
// them. Every file is processed in isolation; one file's failure is
// reported and never stops the batch.
package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Candidate is a file selected for processing
type Candidate struct {
	// Path is the absolute or root-relative location of the file
	Path string
	// Subject is the name of the directory holding the file
	Subject string
}

// findTargets walks the tree rooted at root and partitions the CSV files
// it finds into candidates (base name in the target set) and a count of
// skipped CSV files. The root is always explicit; the batch never consults
// the process working directory.
func findTargets(root string, targets []string) ([]Candidate, int, error) {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	var candidates []Candidate
	skipped := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		if targetSet[d.Name()] {
			candidates = append(candidates, Candidate{
				Path:    path,
				Subject: filepath.Base(filepath.Dir(path)),
			})
		} else {
			skipped++
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return candidates, skipped, nil
}

// findCSVFiles walks the tree rooted at root and returns every CSV file
func findCSVFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// baseName returns the file name without its extension
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
