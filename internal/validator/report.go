// Package validator checks generated summary reports for structural and
// arithmetic consistency.
package validator

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"housemembers/pkg/metadata"
	"housemembers/pkg/utils"
)

const (
	// countColumn is the header of the count column in breakdown tables.
	countColumn = "Members"
	maxValueLen = 50
)

var (
	totalLine     = regexp.MustCompile(`^- Total members: (\d+)$`)
	separatorCell = regexp.MustCompile(`^:?-{3,}:?$`)

	strs = utils.NewStringHelper()
)

// ValidationError is a problem at a position in the report.
type ValidationError struct {
	Section string
	Value   string
	Message string
	Line    int
	Column  int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	Metadata *metadata.Metadata
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	Tables      int
	TotalRows   int
	ValidRows   int
	InvalidRows int
	Total       int
}

// ReportValidator validates summary reports.
type ReportValidator struct {
	requireMetadata bool
}

// NewReportValidator creates a validator. With requireMetadata a report
// without an integrity block is invalid.
func NewReportValidator(requireMetadata bool) *ReportValidator {
	return &ReportValidator{requireMetadata: requireMetadata}
}

type table struct {
	section  string
	header   []string
	countCol int
	sum      int
	rows     int
	line     int
}

// Validate checks the report. Every table row must have as many cells as its
// header, count cells must be non-negative integers, and every breakdown
// except the sample must add up to the total member count.
func (v *ReportValidator) Validate(content string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	v.checkIntegrity(content, result)

	_, body := metadata.Extract(content)

	var (
		section   string
		current   *table
		tables    []*table
		expectSep bool
	)

	total := -1

	for i, raw := range strings.Split(body, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)

		if !strings.HasPrefix(line, "|") {
			current = nil
			expectSep = false

			switch {
			case strings.HasPrefix(line, "## "):
				section = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			case totalLine.MatchString(line):
				total, _ = strconv.Atoi(totalLine.FindStringSubmatch(line)[1])
			}

			continue
		}

		cells := splitRow(line)

		if current == nil {
			current = &table{section: section, header: cells, countCol: -1, line: lineNum}
			for c, h := range cells {
				if h == countColumn {
					current.countCol = c
				}
			}

			tables = append(tables, current)
			expectSep = true

			continue
		}

		if expectSep {
			expectSep = false

			if !isSeparator(cells) {
				result.fail(ValidationError{Section: section, Line: lineNum, Column: 1, Message: "missing separator row after header"})
			}

			continue
		}

		current.rows++
		result.Stats.TotalRows++

		if errs := current.checkRow(cells, lineNum); len(errs) > 0 {
			result.Stats.InvalidRows++
			for _, e := range errs {
				result.fail(e)
			}

			continue
		}

		result.Stats.ValidRows++
	}

	result.Stats.Tables = len(tables)

	if total < 0 {
		result.fail(ValidationError{Message: "total members line not found"})

		return result
	}

	result.Stats.Total = total

	for _, t := range tables {
		switch {
		case t.countCol < 0:
			if t.rows > total {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: %d rows exceeds %d members", t.section, t.rows, total))
			}
		case t.sum != total:
			result.fail(ValidationError{
				Section: t.section,
				Line:    t.line,
				Message: fmt.Sprintf("counts add up to %d, expected %d", t.sum, total),
			})
		}
	}

	if m := result.Metadata; m != nil && m.Members != total {
		result.fail(ValidationError{Message: fmt.Sprintf("metadata reports %d members, report says %d", m.Members, total)})
	}

	return result
}

func (v *ReportValidator) checkIntegrity(content string, result *ValidationResult) {
	meta, err := metadata.Verify(content)
	result.Metadata = meta

	switch {
	case err == nil:
	case meta == nil && !v.requireMetadata:
		result.Warnings = append(result.Warnings, "report has no metadata block")
	default:
		result.fail(ValidationError{Message: fmt.Sprintf("integrity check failed: %v", err)})
	}
}

func (t *table) checkRow(cells []string, lineNum int) []ValidationError {
	if len(cells) != len(t.header) {
		return []ValidationError{{
			Section: t.section,
			Line:    lineNum,
			Column:  1,
			Message: fmt.Sprintf("expected %d cells, got %d", len(t.header), len(cells)),
		}}
	}

	if t.countCol < 0 {
		return nil
	}

	n, err := strconv.Atoi(cells[t.countCol])
	if err != nil || n < 0 {
		return []ValidationError{{
			Section: t.section,
			Line:    lineNum,
			Column:  t.countCol + 1,
			Value:   strs.TruncateString(cells[t.countCol], maxValueLen),
			Message: "count is not a non-negative integer",
		}}
	}

	t.sum += n

	return nil
}

func (r *ValidationResult) fail(e ValidationError) {
	r.IsValid = false
	r.Errors = append(r.Errors, e)
}

// splitRow splits "| a | b \| c |" into ["a", "b | c"].
func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var (
		cells []string
		cell  strings.Builder
	)

	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}

	return append(cells, strings.TrimSpace(cell.String()))
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}

	return len(cells) > 0
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Members: %d | Tables: %d | Rows: %d | Invalid: %d | Warnings: %d",
		status,
		r.Stats.Total,
		r.Stats.Tables,
		r.Stats.TotalRows,
		r.Stats.InvalidRows,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Line == 0 {
			fmt.Fprintf(w, "  %s\n", err.Message)

			continue
		}

		fmt.Fprintf(w, "  Line %d, Col %d", err.Line, err.Column)

		if err.Section != "" {
			fmt.Fprintf(w, " [%s]", err.Section)
		}

		fmt.Fprintf(w, ": %s\n", err.Message)

		if err.Value != "" {
			fmt.Fprintf(w, "    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
