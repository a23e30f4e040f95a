package tabular

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxRows is a hard ceiling on accepted datasets, an abuse guard.
const MaxRows = 100000

// piiKeywords flags likely personal data by column name. Substring match,
// case-insensitive; heuristic only, warnings never block an upload.
var piiKeywords = []string{
	"email", "phone", "ssn", "social_security",
	"credit_card", "password", "address", "name",
	"birth", "dob", "ip_address",
}

// Quality summarizes dataset quality metrics.
type Quality struct {
	Completeness   float64 `json:"completeness"`
	NullPercentage float64 `json:"null_percentage"`
	DuplicateRows  int     `json:"duplicate_rows"`
}

// Report is the outcome of validating a table. IsValid is false iff Errors
// is non-empty; warnings and quality metrics are informational and present
// even for invalid tables.
type Report struct {
	IsValid  bool            `json:"is_valid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Checks   map[string]bool `json:"checks"`
	Quality  Quality         `json:"quality"`
}

// Validate runs the fixed check battery against a parsed table:
// non-empty rows, non-empty columns, row ceiling, PII column-name scan,
// quality metrics. Checks run in order; all of them always run.
func Validate(t *Table) *Report {
	report := &Report{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Checks:   map[string]bool{},
	}

	// Check 1: not empty
	if t.RowCount() == 0 {
		report.IsValid = false
		report.Errors = append(report.Errors, "Data is empty")
	} else {
		report.Checks["not_empty"] = true
	}

	// Check 2: has columns
	if t.ColumnCount() == 0 {
		report.IsValid = false
		report.Errors = append(report.Errors, "No columns found")
	} else {
		report.Checks["has_columns"] = true
	}

	// Check 3: row limit
	if t.RowCount() > MaxRows {
		report.IsValid = false
		report.Errors = append(report.Errors, fmt.Sprintf("Too many rows (max %d)", MaxRows))
	} else {
		report.Checks["within_row_limit"] = true
	}

	// Check 4: PII column names
	report.Warnings = append(report.Warnings, detectPII(t)...)

	// Check 5: quality metrics
	report.Quality = checkQuality(t)

	return report
}

// detectPII flags columns whose names contain a PII keyword.
func detectPII(t *Table) []string {
	var warnings []string
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		for _, keyword := range piiKeywords {
			if strings.Contains(lower, keyword) {
				warnings = append(warnings, fmt.Sprintf("Column %q may contain PII (%s)", col, keyword))
				break
			}
		}
	}
	return warnings
}

// checkQuality computes completeness and duplicate-row metrics.
func checkQuality(t *Table) Quality {
	totalCells := t.RowCount() * t.ColumnCount()
	if totalCells == 0 {
		return Quality{}
	}

	nullCells := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if v == nil {
				nullCells++
			}
		}
	}

	nullRatio := float64(nullCells) / float64(totalCells)

	return Quality{
		Completeness:   1.0 - nullRatio,
		NullPercentage: nullRatio * 100,
		DuplicateRows:  countDuplicateRows(t),
	}
}

// countDuplicateRows counts rows structurally equal to an earlier row.
func countDuplicateRows(t *Table) int {
	seen := make(map[string]bool, t.RowCount())
	dups := 0
	for _, row := range t.Rows {
		// json.Marshal is deterministic (sorted map keys), so the
		// encoding works as a structural equality key
		key, err := json.Marshal(row)
		if err != nil {
			continue
		}
		if seen[string(key)] {
			dups++
		} else {
			seen[string(key)] = true
		}
	}
	return dups
}
