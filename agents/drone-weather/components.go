package droneweather

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"drone-dashboard/internal/models"
)

// Chart geometry in SVG user units
const (
	chartWidth   = 600
	chartHeight  = 200
	chartPadding = 10
)

var cardinals = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Indicator is a single headline tile
type Indicator struct {
	Title  string
	Value  string
	Detail string
}

// CompassView describes the wind direction needle
type CompassView struct {
	Degrees  float64
	Cardinal string
	Rotation float64
}

// ChartView holds SVG polyline coordinates for the hourly series
type ChartView struct {
	Width             int
	Height            int
	Labels            []string
	TemperaturePoints string
	WindPoints        string
	TemperatureUnit   string
	WindUnit          string
	MinTemperature    float64
	MaxTemperature    float64
	MaxWind           float64
}

type TableRow struct {
	Time        string
	Temperature float64
	Humidity    float64
	WindSpeed   float64
}

type TableView struct {
	Units models.HourlyUnits
	Rows  []TableRow
}

type ForecastDay struct {
	Date           string
	MaxTemperature float64
	MinTemperature float64
	MaxWind        float64
}

type ForecastView struct {
	Units models.DailyUnits
	Days  []ForecastDay
}

// AlertView is the banner shown at the bottom of the dashboard
type AlertView struct {
	Severity string // "warning" or "error"
	Message  string
	Detail   string
}

// SectionStatus drives the loading/error placeholders of the chart and table
type SectionStatus struct {
	Loading bool
	Error   string
}

// Palette is the colour set for a theme mode
type Palette struct {
	Mode       string
	Primary    string
	Background string
	Paper      string
	Text       string
}

// Theme returns the light or dark palette
func Theme(dark bool) Palette {
	if dark {
		return Palette{Mode: "dark", Primary: "#90caf9", Background: "#121212", Paper: "#1d1d1d", Text: "#ffffff"}
	}
	return Palette{Mode: "light", Primary: "#1976d2", Background: "#fafafa", Paper: "#fff", Text: "#212121"}
}

func Status(s models.WeatherSnapshot) SectionStatus {
	return SectionStatus{Loading: s.Loading, Error: s.Error}
}

// Indicators returns the temperature, humidity and wind tiles
func Indicators(s models.WeatherSnapshot) []Indicator {
	if !s.Renderable() {
		return nil
	}
	current, units := s.Data.Current, s.Data.CurrentUnits

	temperature := Indicator{Title: "Temperature (2m)", Value: withUnit(current.Temperature2m, units.Temperature2m)}
	if units.Temperature2m == "°C" {
		temperature.Detail = fmt.Sprintf("%.1f °F", CelsiusToFahrenheit(current.Temperature2m))
	}

	wind := Indicator{Title: "Wind", Value: withUnit(current.WindSpeed10m, units.WindSpeed10m)}
	if units.WindSpeed10m == "m/s" {
		wind.Detail = fmt.Sprintf("%.1f km/h", MsToKmh(current.WindSpeed10m))
	}

	return []Indicator{
		temperature,
		{Title: "Relative Humidity", Value: formatNumber(current.RelativeHumidity2m) + units.RelativeHumidity2m},
		wind,
	}
}

func Compass(s models.WeatherSnapshot) *CompassView {
	if !s.Renderable() {
		return nil
	}
	deg := s.Data.Current.WindDirection10m
	rotation := math.Mod(deg, 360)
	if rotation < 0 {
		rotation += 360
	}
	return &CompassView{
		Degrees:  deg,
		Cardinal: cardinals[int(math.Round(rotation/45))%len(cardinals)],
		Rotation: rotation,
	}
}

// HourlyChart plots the first points hourly entries
func HourlyChart(s models.WeatherSnapshot, points int) *ChartView {
	if !s.Renderable() {
		return nil
	}
	n := clamp(points, s.Data.Hourly.Len())
	if n == 0 {
		return nil
	}
	hourly := s.Data.Hourly

	temps := hourly.Temperature2m[:n]
	winds := hourly.WindSpeed10m[:n]
	minTemp, maxTemp := bounds(temps)
	_, maxWind := bounds(winds)

	view := &ChartView{
		Width:           chartWidth,
		Height:          chartHeight,
		Labels:          make([]string, n),
		TemperatureUnit: s.Data.HourlyUnits.Temperature2m,
		WindUnit:        s.Data.HourlyUnits.WindSpeed10m,
		MinTemperature:  minTemp,
		MaxTemperature:  maxTemp,
		MaxWind:         maxWind,
	}

	tempPoints := make([]string, n)
	windPoints := make([]string, n)
	for i := 0; i < n; i++ {
		view.Labels[i] = hourLabel(hourly.Time[i])
		x := chartX(i, n)
		tempPoints[i] = fmt.Sprintf("%.1f,%.1f", x, chartY(temps[i], minTemp, maxTemp))
		windPoints[i] = fmt.Sprintf("%.1f,%.1f", x, chartY(winds[i], math.Min(0, maxWind), maxWind))
	}
	view.TemperaturePoints = strings.Join(tempPoints, " ")
	view.WindPoints = strings.Join(windPoints, " ")

	return view
}

func HourlyTable(s models.WeatherSnapshot, rows int) *TableView {
	if !s.Renderable() {
		return nil
	}
	n := clamp(rows, s.Data.Hourly.Len())
	if n == 0 {
		return nil
	}
	hourly := s.Data.Hourly

	view := &TableView{Units: s.Data.HourlyUnits, Rows: make([]TableRow, n)}
	for i := 0; i < n; i++ {
		view.Rows[i] = TableRow{
			Time:        hourly.Time[i],
			Temperature: hourly.Temperature2m[i],
			Humidity:    hourly.RelativeHumidity2m[i],
			WindSpeed:   hourly.WindSpeed10m[i],
		}
	}
	return view
}

// DailyForecast returns up to days entries, fewer when the payload has fewer
func DailyForecast(s models.WeatherSnapshot, days int) *ForecastView {
	if !s.Renderable() {
		return nil
	}
	n := clamp(days, s.Data.Daily.Len())
	if n == 0 {
		return nil
	}
	daily := s.Data.Daily

	view := &ForecastView{Units: s.Data.DailyUnits, Days: make([]ForecastDay, n)}
	for i := 0; i < n; i++ {
		view.Days[i] = ForecastDay{
			Date:           daily.Time[i],
			MaxTemperature: daily.Temperature2mMax[i],
			MinTemperature: daily.Temperature2mMin[i],
			MaxWind:        daily.WindSpeed10mMax[i],
		}
	}
	return view
}

// DroneCards compares every drone's wind limit with the current wind in m/s.
// A drone can fly when the wind is at or below its limit.
func DroneCards(s models.WeatherSnapshot, drones []models.DroneProfile) []models.DroneVerdict {
	if !s.Renderable() {
		return nil
	}
	wind := WindToMs(s.Data.Current.WindSpeed10m, s.Data.CurrentUnits.WindSpeed10m)

	cards := make([]models.DroneVerdict, 0, len(drones))
	for _, drone := range drones {
		cards = append(cards, models.DroneVerdict{
			Name:        drone.Name,
			MaxWind:     drone.MaxWind,
			FlightTime:  drone.FlightTime,
			CurrentWind: wind,
			WindUnit:    "m/s",
			IsFlyable:   wind <= drone.MaxWind,
			Margin:      drone.MaxWind - wind,
		})
	}
	return cards
}

// Alert always renders; it escalates when no catalog drone can fly.
func Alert(s models.WeatherSnapshot, drones []models.DroneProfile, message string) AlertView {
	alert := AlertView{Severity: "warning", Message: message}

	cards := DroneCards(s, drones)
	if len(cards) == 0 {
		return alert
	}
	for _, card := range cards {
		if card.IsFlyable {
			return alert
		}
	}

	alert.Severity = "error"
	alert.Detail = fmt.Sprintf("Current wind of %.1f m/s exceeds the limit of every drone.", cards[0].CurrentWind)
	return alert
}

// Summary builds the compact weather context for the assistant
func Summary(loc models.Location, payload *models.WeatherPayload) models.WeatherSummary {
	summary := models.WeatherSummary{City: loc.Name}
	if payload == nil || payload.Current == nil {
		return summary
	}
	current, units := payload.Current, payload.CurrentUnits

	summary.Temperature = withUnit(current.Temperature2m, units.Temperature2m)
	summary.Humidity = withUnit(current.RelativeHumidity2m, units.RelativeHumidity2m)
	summary.Condition = "Wind " + withUnit(current.WindSpeed10m, units.WindSpeed10m)
	return summary
}

func MsToKmh(ms float64) float64 {
	return ms * 3.6
}

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// WindToMs converts a wind speed in an Open-Meteo unit to m/s
func WindToMs(value float64, unit string) float64 {
	switch unit {
	case "km/h":
		return value / 3.6
	case "mp/h", "mph":
		return value * 0.44704
	case "kn":
		return value * 0.514444
	default:
		return value
	}
}

func withUnit(v float64, unit string) string {
	if unit == "" {
		return formatNumber(v)
	}
	return formatNumber(v) + " " + unit
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp(limit, available int) int {
	if limit < 0 {
		return 0
	}
	if available < limit {
		return available
	}
	return limit
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func chartX(i, n int) float64 {
	if n == 1 {
		return chartWidth / 2
	}
	return chartPadding + float64(i)*float64(chartWidth-2*chartPadding)/float64(n-1)
}

func chartY(v, lo, hi float64) float64 {
	if hi == lo {
		return chartHeight / 2
	}
	return chartHeight - chartPadding - (v-lo)/(hi-lo)*float64(chartHeight-2*chartPadding)
}

// hourLabel shortens "2025-06-01T14:00" to "14:00"
func hourLabel(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[i+1:]
	}
	return ts
}
