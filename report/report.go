package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/tableio/metrics"
)

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// ReportGenerator renders fetch statistics.
type ReportGenerator interface {
	GenerateFetchReport(stats metrics.FetchStats) ([]byte, error)
	SaveReportToFile(stats metrics.FetchStats, filePath string) error
}

// ForPath picks the generator matching the file extension: .html and .htm
// get HTML, everything else JSON.
func ForPath(filePath string) ReportGenerator {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".html", ".htm":
		return &HTMLReportGenerator{}
	default:
		return &JSONReportGenerator{}
	}
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONReportGenerator generates JSON reports.
type JSONReportGenerator struct{}

func (j *JSONReportGenerator) GenerateFetchReport(stats metrics.FetchStats) ([]byte, error) {
	return json.MarshalIndent(stats, "", "  ")
}

// SaveReportToFile saves the JSON report to a file.
func (j *JSONReportGenerator) SaveReportToFile(stats metrics.FetchStats, filePath string) error {
	data, err := j.GenerateFetchReport(stats)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// -----------------------------
// HTML Report Generator
// -----------------------------

// HTMLReportGenerator generates HTML reports.
type HTMLReportGenerator struct{}

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Fetch Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f4f4f4; }
        .nulls { color: #b36b00; }
    </style>
</head>
<body>
    <h1>Fetch Report</h1>
    <p><strong>Source:</strong> {{.Source}}</p>
    <p><strong>Format:</strong> {{.Format}}</p>
    <p><strong>Path:</strong> {{.Path}}</p>
    <p><strong>Rows:</strong> {{.Rows}}</p>
    <p><strong>Columns:</strong> {{.Columns}}</p>
    <p><strong>Duration:</strong> {{.Duration}}</p>

    <h2>Schema</h2>
    <table>
        <tr>
            <th>Column</th>
            <th>Type</th>
            <th>Nulls</th>
        </tr>
        {{range .Schema}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.DataType}}</td>
            <td{{if .NullCount}} class="nulls"{{end}}>{{.NullCount}}</td>
        </tr>
        {{end}}
    </table>

    <footer>
        <p>Fetched at {{.StartTime}}</p>
    </footer>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

// GenerateFetchReport renders the statistics as an HTML page.
func (h *HTMLReportGenerator) GenerateFetchReport(stats metrics.FetchStats) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, stats); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveReportToFile saves the HTML report to a file.
func (h *HTMLReportGenerator) SaveReportToFile(stats metrics.FetchStats, filePath string) error {
	data, err := h.GenerateFetchReport(stats)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// ReportFromFilePath loads statistics saved by JSONReportGenerator.
func ReportFromFilePath(filePath string) (metrics.FetchStats, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return metrics.FetchStats{}, err
	}
	var stats metrics.FetchStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return metrics.FetchStats{}, err
	}
	return stats, nil
}
