// Package diagnostics inspects raw recording tables for the failure modes
// that break digital filtering and produces a structured problem report.
// Checks never mutate data; rendering the report to text is presentation
// only, the underlying problems stay programmatically accessible.
package diagnostics

import (
	"fmt"
	"strings"
)

// Category classifies a reported problem
type Category string

const (
	CategoryAccess  Category = "access"
	CategoryFormat  Category = "format"
	CategoryContent Category = "content"
	CategoryFilter  Category = "filter"
)

// Problem is a single categorized diagnostic finding
type Problem struct {
	Category Category
	Message  string
}

// Report is the ordered, append-only result of diagnosing one file
type Report struct {
	Path     string
	Problems []Problem
}

// NewReport creates an empty report for the given file
func NewReport(path string) *Report {
	return &Report{Path: path}
}

// Add appends a problem to the report
func (r *Report) Add(category Category, format string, args ...interface{}) {
	r.Problems = append(r.Problems, Problem{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasProblems reports whether any problem was found
func (r *Report) HasProblems() bool {
	return len(r.Problems) > 0
}

// Count returns the number of problems in the given category
func (r *Report) Count(category Category) int {
	n := 0
	for _, p := range r.Problems {
		if p.Category == category {
			n++
		}
	}
	return n
}

// ByCategory returns the problems of one category in report order
func (r *Report) ByCategory(category Category) []Problem {
	var out []Problem
	for _, p := range r.Problems {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Render formats the report for human consumption, grouped by category
func (r *Report) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Diagnostics for %s\n", r.Path)

	if !r.HasProblems() {
		sb.WriteString("  no problems detected\n")
		return sb.String()
	}

	for _, category := range []Category{CategoryAccess, CategoryFormat, CategoryContent, CategoryFilter} {
		problems := r.ByCategory(category)
		if len(problems) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %s (%d):\n", strings.ToUpper(string(category)), len(problems))
		for _, p := range problems {
			fmt.Fprintf(&sb, "    - %s\n", p.Message)
		}
	}
	return sb.String()
}
