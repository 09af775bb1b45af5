package services

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

var importReportTemplate = template.Must(template.New("import_report").Funcs(template.FuncMap{
	"base": filepath.Base,
}).Parse(`<h3>{{.Summary.Kind}} run {{.Summary.RunKey}}{{if .Summary.DryRun}} (dry run){{end}}</h3>
{{if .Error}}<p style="color:#b91c1c"><strong>Run failed:</strong> {{.Error}}</p>{{end}}
{{if .Summary.Imports}}<table border="1" cellpadding="4" cellspacing="0">
<tr><th>File</th><th>Total</th><th>Success</th><th>Failed</th></tr>
{{range .Summary.Imports}}<tr><td>{{base .File}}</td><td>{{.Total}}</td><td>{{.Success}}</td><td>{{.Failed}}</td></tr>
{{end}}</table>
{{range .Summary.Imports}}{{if .Failures}}<p><strong>{{base .File}}</strong></p><ul>
{{range .FailureMessages}}<li>{{.}}</li>
{{end}}</ul>{{end}}{{end}}{{end}}
{{with .Summary.Cleanup}}<p>{{.Name}}: checked {{.Checked}}, valid {{.Valid}}, kept {{.Kept}} (relinked {{.Relinked}}), deleted {{.Deleted}}, failed {{.Failed}}</p>
{{if .Entries}}<ul>
{{range .Entries}}<li>[{{.Action}}] {{.CaseType}} {{.Identifier}} serial {{.Serial}}: {{.Reason}}</li>
{{end}}</ul>{{end}}{{end}}
<p>Duration: {{printf "%.1f" .Summary.Duration}}s</p>`))

func renderImportReport(summary *ImportJobSummary, runErr error) (string, error) {
	data := struct {
		Summary *ImportJobSummary
		Error   string
	}{Summary: summary}
	if runErr != nil {
		data.Error = runErr.Error()
	}
	var buf bytes.Buffer
	if err := importReportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *ImportJobService) mailSummary(to []string, summary *ImportJobSummary, runErr error) error {
	html, err := renderImportReport(summary, runErr)
	if err != nil {
		return fmt.Errorf("render import report: %w", err)
	}
	status := "completed"
	if runErr != nil {
		status = "failed"
	}
	subject := fmt.Sprintf("[CRM sync] %s run %s", summary.Kind, status)
	return s.sendMail(to, subject, html)
}
