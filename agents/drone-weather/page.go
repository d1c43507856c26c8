package droneweather

import (
	"fmt"
	"html/template"
	"io"

	"drone-dashboard/internal/models"
)

// PageView is everything the dashboard template renders
type PageView struct {
	State      DashboardState
	Theme      Palette
	Status     SectionStatus
	Indicators []Indicator
	Compass    *CompassView
	Chart      *ChartView
	Table      *TableView
	Forecast   *ForecastView
	Drones     []models.DroneVerdict
	Alert      AlertView
	CanAsk     bool
}

// View builds the page from a single state copy
func (d *Dashboard) View() PageView {
	state := d.State()
	snapshot := state.Weather

	return PageView{
		State:      state,
		Theme:      Theme(state.DarkMode),
		Status:     Status(snapshot),
		Indicators: Indicators(snapshot),
		Compass:    Compass(snapshot),
		Chart:      HourlyChart(snapshot, d.settings.HourlyPoints),
		Table:      HourlyTable(snapshot, d.settings.HourlyPoints),
		Forecast:   DailyForecast(snapshot, d.settings.ForecastDays),
		Drones:     DroneCards(snapshot, d.catalog.Drones),
		Alert:      Alert(snapshot, d.catalog.Drones, d.settings.AlertMessage),
		CanAsk:     snapshot.Renderable() && !state.LoadingAI,
	}
}

// RenderPage writes the dashboard HTML
func RenderPage(w io.Writer, view PageView) error {
	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"css": func(s string) template.CSS { return template.CSS(s) },
	"num": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    {{if or .State.Weather.Loading .State.LoadingAI}}<meta http-equiv="refresh" content="2">{{end}}
    <title>Drone Weather Dashboard - {{.State.City}}</title>
    <style>
        :root { --primary: {{css .Theme.Primary}}; --background: {{css .Theme.Background}}; --paper: {{css .Theme.Paper}}; --text: {{css .Theme.Text}}; }
        body { font-family: Roboto, Arial, sans-serif; background: var(--background); color: var(--text); margin: 0; }
        header { background: var(--primary); color: #fff; padding: 12px 20px; display: flex; gap: 16px; align-items: center; }
        header h1 { font-size: 20px; margin: 0; flex: 1; }
        main { max-width: 1100px; margin: 0 auto; padding: 16px; display: grid; gap: 16px; }
        section { background: var(--paper); border-radius: 8px; padding: 16px; box-shadow: 0 1px 3px rgba(0,0,0,.2); }
        .tiles, .cards, .days { display: flex; flex-wrap: wrap; gap: 12px; }
        .tile, .card, .day { flex: 1 1 160px; border: 1px solid rgba(127,127,127,.3); border-radius: 6px; padding: 10px; }
        .value { font-size: 24px; color: var(--primary); }
        .detail { font-size: 13px; opacity: .7; }
        .flyable { border-left: 4px solid #4caf50; }
        .grounded { border-left: 4px solid #f44336; }
        .alert { padding: 12px; border-radius: 6px; }
        .alert.warning { background: #fff4e5; color: #663c00; }
        .alert.error { background: #fdeded; color: #5f2120; }
        .error-text { color: #f44336; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid rgba(127,127,127,.3); }
        textarea { width: 100%; min-height: 60px; }
    </style>
</head>
<body>
<header>
    <h1>🚁 Drone Weather Dashboard</h1>
    <form method="post" action="/city">
        <select name="city" onchange="this.form.submit()">
            {{range .State.Cities}}<option value="{{.Name}}"{{if eq .Name $.State.City}} selected{{end}}>{{.Name}}</option>{{end}}
        </select>
        <noscript><button type="submit">Go</button></noscript>
    </form>
    <form method="post" action="/refresh"><button type="submit">Refresh</button></form>
    <form method="post" action="/theme"><button type="submit">{{if .State.DarkMode}}Light mode{{else}}Dark mode{{end}}</button></form>
</header>
<main>
    <section id="indicators">
        <div class="tiles">
            {{range .Indicators}}
            <div class="tile">
                <div class="detail">{{.Title}}</div>
                <div class="value">{{.Value}}</div>
                {{if .Detail}}<div class="detail">{{.Detail}}</div>{{end}}
            </div>
            {{end}}
            {{with .Compass}}
            <div class="tile">
                <div class="detail">Wind Direction</div>
                <svg width="100" height="100" viewBox="0 0 100 100">
                    <circle cx="50" cy="50" r="45" fill="none" stroke="currentColor" stroke-opacity=".3"/>
                    <text x="50" y="14" text-anchor="middle" font-size="10" fill="currentColor">N</text>
                    <polygon points="50,12 56,50 50,60 44,50" fill="{{css $.Theme.Primary}}" transform="rotate({{num .Rotation}} 50 50)"/>
                </svg>
                <div class="value">{{.Cardinal}}</div>
                <div class="detail">{{num .Degrees}}°</div>
            </div>
            {{end}}
        </div>
    </section>

    <section id="chart">
        <h2>Next hours</h2>
        {{if .Status.Loading}}<p>Loading weather...</p>
        {{else if .Status.Error}}<p class="error-text">{{.Status.Error}}</p>
        {{else if .Chart}}
        <svg width="100%" viewBox="0 0 {{.Chart.Width}} {{.Chart.Height}}" preserveAspectRatio="none">
            <polyline points="{{.Chart.TemperaturePoints}}" fill="none" stroke="#ff7043" stroke-width="2"/>
            <polyline points="{{.Chart.WindPoints}}" fill="none" stroke="{{css .Theme.Primary}}" stroke-width="2"/>
        </svg>
        <p class="detail">Temperature {{num .Chart.MinTemperature}} to {{num .Chart.MaxTemperature}} {{.Chart.TemperatureUnit}}, wind up to {{num .Chart.MaxWind}} {{.Chart.WindUnit}}</p>
        {{end}}
    </section>

    <section id="table">
        <h2>Hourly data</h2>
        {{if .Status.Loading}}<p>Loading weather...</p>
        {{else if .Status.Error}}<p class="error-text">{{.Status.Error}}</p>
        {{else if .Table}}
        <table>
            <tr><th>Time</th><th>Temperature ({{.Table.Units.Temperature2m}})</th><th>Humidity ({{.Table.Units.RelativeHumidity2m}})</th><th>Wind ({{.Table.Units.WindSpeed10m}})</th></tr>
            {{range .Table.Rows}}<tr><td>{{.Time}}</td><td>{{.Temperature}}</td><td>{{.Humidity}}</td><td>{{.WindSpeed}}</td></tr>{{end}}
        </table>
        {{end}}
    </section>

    {{with .Forecast}}
    <section id="forecast">
        <h2>Forecast</h2>
        <div class="days">
            {{range .Days}}
            <div class="day">
                <div class="detail">{{.Date}}</div>
                <div class="value">{{.MaxTemperature}} / {{.MinTemperature}} {{$.Forecast.Units.Temperature2mMax}}</div>
                <div class="detail">Wind up to {{.MaxWind}} {{$.Forecast.Units.WindSpeed10mMax}}</div>
            </div>
            {{end}}
        </div>
    </section>
    {{end}}

    {{if .Drones}}
    <section id="drones">
        <h2>Drones</h2>
        <div class="cards">
            {{range .Drones}}
            <div class="card {{if .IsFlyable}}flyable{{else}}grounded{{end}}">
                <strong>{{.Name}}</strong>
                <div class="detail">Max wind {{.MaxWind}} m/s · {{.FlightTime}}</div>
                <div>{{if .IsFlyable}}✅ Can fly{{else}}⛔ Too windy{{end}} ({{num .Margin}} m/s margin)</div>
            </div>
            {{end}}
        </div>
    </section>
    {{end}}

    <section id="assistant">
        <h2>Ask the assistant</h2>
        <form method="post" action="/ask">
            <textarea name="question" placeholder="Can I fly my drone this afternoon?"{{if not .CanAsk}} disabled{{end}}>{{.State.Question}}</textarea>
            <button type="submit"{{if not .CanAsk}} disabled{{end}}>{{if .State.LoadingAI}}Thinking...{{else}}Ask{{end}}</button>
        </form>
        {{if .State.AIResponse}}<p>{{.State.AIResponse}}</p>{{end}}
    </section>

    <section id="alert">
        <div class="alert {{.Alert.Severity}}">
            <strong>{{.Alert.Message}}</strong>
            {{if .Alert.Detail}}<div>{{.Alert.Detail}}</div>{{end}}
        </div>
    </section>
</main>
</body>
</html>
`
