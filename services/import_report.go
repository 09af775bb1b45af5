package services

import (
	"fmt"
	"io"
	"path/filepath"
)

// RowError is a failure isolated to one spreadsheet row.
type RowError struct {
	Row int
	Key string
	Err error
}

func (e *RowError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Key, e.Err)
}

func (e *RowError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ImportReport is the per-file outcome of an import.
type ImportReport struct {
	File     string      `json:"file"`
	Total    int         `json:"total"`
	Success  int         `json:"success"`
	Failed   int         `json:"failed"`
	Failures []*RowError `json:"-"`
}

func NewImportReport(file string) *ImportReport {
	return &ImportReport{File: file}
}

func (r *ImportReport) record(row Row, key string, err error) {
	r.Total++
	if err == nil {
		r.Success++
		return
	}
	r.Failed++
	r.Failures = append(r.Failures, &RowError{Row: row.Number, Key: key, Err: err})
}

// FailureMessages returns the failure list as printable strings.
func (r *ImportReport) FailureMessages() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.Error())
	}
	return out
}

func (r *ImportReport) WriteSummary(w io.Writer) {
	name := filepath.Base(r.File)
	if name == "." || name == "" {
		name = r.File
	}
	fmt.Fprintf(w, "%s: total %d, success %d, failed %d\n", name, r.Total, r.Success, r.Failed)
	for _, msg := range r.FailureMessages() {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}

// importRows runs fn for every row with per-row failure isolation.
func importRows(sheet *Sheet, file string, fn func(Row) (string, error)) *ImportReport {
	report := NewImportReport(file)
	if sheet == nil {
		return report
	}
	for _, row := range sheet.Rows {
		key, err := fn(row)
		report.record(row, key, err)
	}
	return report
}
