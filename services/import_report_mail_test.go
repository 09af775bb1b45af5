package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderImportReport(t *testing.T) {
	report := NewImportReport("data/dtr_cases.xlsx")
	report.record(Row{Number: 2}, "DTR-1", nil)
	report.record(Row{Number: 3}, "<DTR-2>", ErrCreatorNotFound)

	summary := &ImportJobSummary{
		RunKey:   "run-1",
		Kind:     "cases",
		Imports:  []*ImportReport{report},
		Duration: 1.27,
	}
	html, err := renderImportReport(summary, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "cases run run-1")
	assert.Contains(t, html, "<td>dtr_cases.xlsx</td><td>2</td><td>1</td><td>1</td>")
	assert.Contains(t, html, "&lt;DTR-2&gt;")
	assert.Contains(t, html, "Duration: 1.3s")
	assert.NotContains(t, html, "Run failed")
}

func TestRenderImportReportFailureAndCleanup(t *testing.T) {
	cleanup := &CleanupReport{Name: "orphan cleanup", DryRun: true}
	cleanup.add(CleanupEntry{CaseType: "RMA", CaseID: 4, Identifier: "RMA-4", Serial: "SN-9", Action: CleanupActionDeleted, Reason: "no evidence"})

	summary := &ImportJobSummary{RunKey: "run-2", Kind: "cleanup", DryRun: true, Cleanup: cleanup}
	html, err := renderImportReport(summary, errors.New("workbook locked"))
	require.NoError(t, err)
	assert.Contains(t, html, "(dry run)")
	assert.Contains(t, html, "Run failed:</strong> workbook locked")
	assert.Contains(t, html, "[deleted] RMA RMA-4 serial SN-9: no evidence")
}

func TestMailSummarySubject(t *testing.T) {
	var got sentMail
	svc := &ImportJobService{sendMail: func(to []string, subject, html string) error {
		got = sentMail{to: to, subject: subject, html: html}
		return nil
	}}

	summary := &ImportJobSummary{RunKey: "run-3", Kind: "master"}
	require.NoError(t, svc.mailSummary([]string{"ops@example.com"}, summary, errors.New("boom")))
	assert.Equal(t, "[CRM sync] master run failed", got.subject)
	assert.Equal(t, []string{"ops@example.com"}, got.to)
}
