package models

// WeatherPayload mirrors the Open-Meteo forecast response for the fields the dashboard requests.
// Arrays within Hourly and Daily are index aligned: index i of every field is the same timestamp.
type WeatherPayload struct {
	Latitude     float64            `json:"latitude"`
	Longitude    float64            `json:"longitude"`
	Timezone     string             `json:"timezone"`
	CurrentUnits CurrentUnits       `json:"current_units"`
	Current      *CurrentConditions `json:"current"`
	HourlyUnits  HourlyUnits        `json:"hourly_units"`
	Hourly       *HourlySeries      `json:"hourly"`
	DailyUnits   DailyUnits         `json:"daily_units"`
	Daily        *DailySeries       `json:"daily"`
}

type CurrentUnits struct {
	Time               string `json:"time"`
	Temperature2m      string `json:"temperature_2m"`
	RelativeHumidity2m string `json:"relative_humidity_2m"`
	WindSpeed10m       string `json:"wind_speed_10m"`
	WindDirection10m   string `json:"wind_direction_10m"`
}

// CurrentConditions holds the latest observation
type CurrentConditions struct {
	Time               string  `json:"time"`
	Temperature2m      float64 `json:"temperature_2m"`
	RelativeHumidity2m float64 `json:"relative_humidity_2m"`
	WindSpeed10m       float64 `json:"wind_speed_10m"`     // configured wind unit, m/s by default
	WindDirection10m   float64 `json:"wind_direction_10m"` // degrees
}

type HourlyUnits struct {
	Time               string `json:"time"`
	Temperature2m      string `json:"temperature_2m"`
	RelativeHumidity2m string `json:"relative_humidity_2m"`
	WindSpeed10m       string `json:"wind_speed_10m"`
}

type HourlySeries struct {
	Time               []string  `json:"time"`
	Temperature2m      []float64 `json:"temperature_2m"`
	RelativeHumidity2m []float64 `json:"relative_humidity_2m"`
	WindSpeed10m       []float64 `json:"wind_speed_10m"`
}

// Len returns the number of aligned entries, the shortest of all series.
func (h *HourlySeries) Len() int {
	if h == nil {
		return 0
	}
	return minLen(len(h.Time), len(h.Temperature2m), len(h.RelativeHumidity2m), len(h.WindSpeed10m))
}

type DailyUnits struct {
	Time             string `json:"time"`
	Temperature2mMax string `json:"temperature_2m_max"`
	Temperature2mMin string `json:"temperature_2m_min"`
	WindSpeed10mMax  string `json:"wind_speed_10m_max"`
}

type DailySeries struct {
	Time             []string  `json:"time"`
	Temperature2mMax []float64 `json:"temperature_2m_max"`
	Temperature2mMin []float64 `json:"temperature_2m_min"`
	WindSpeed10mMax  []float64 `json:"wind_speed_10m_max"`
}

// Len returns the number of aligned entries, the shortest of all series.
func (d *DailySeries) Len() int {
	if d == nil {
		return 0
	}
	return minLen(len(d.Time), len(d.Temperature2mMax), len(d.Temperature2mMin), len(d.WindSpeed10mMax))
}

func minLen(lengths ...int) int {
	n := lengths[0]
	for _, l := range lengths[1:] {
		if l < n {
			n = l
		}
	}
	return n
}
