package droneweather

import (
	"bytes"
	"fmt"
	"text/template"

	"drone-dashboard/internal/models"
)

const reportTemplate = `🚁 Drone Weather Report - {{.LocationName}}
{{.Date.Format "Monday, January 2, 2006 at 3:04 PM MST"}}
{{if .Error}}
❌ Weather unavailable: {{.Error}}
{{else}}
Temperature: {{.Summary.Temperature}}
Humidity:    {{.Summary.Humidity}}
{{.Summary.Condition}}

{{range .Verdicts}}{{if .IsFlyable}}✅{{else}}⛔{{end}} {{printf "%-24s" .Name}} max {{printf "%4.1f" .MaxWind}} m/s  margin {{printf "%+5.1f" .Margin}} m/s  ({{.FlightTime}})
{{end}}
{{.FlyableCount}}/{{len .Verdicts}} drones can fly
{{end}}`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// FormatReport renders a flight report as plain text for the terminal
func FormatReport(report models.DroneFlightReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
