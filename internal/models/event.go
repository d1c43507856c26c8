package models

import "time"

// WeatherEvent is a settled weather fetch, flattened for publishing
type WeatherEvent struct {
	City          string    `json:"city"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Status        string    `json:"status"` // "ok" or "error"
	Error         string    `json:"error,omitempty"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Time          time.Time `json:"time"`
}

// NewWeatherEvent flattens a settled snapshot
func NewWeatherEvent(s WeatherSnapshot) WeatherEvent {
	e := WeatherEvent{
		City:      s.Location.Name,
		Latitude:  s.Location.Latitude,
		Longitude: s.Location.Longitude,
		Status:    "ok",
		Time:      s.UpdatedAt,
	}
	if s.Error != "" {
		e.Status = "error"
		e.Error = s.Error
		return e
	}
	if s.Data != nil && s.Data.Current != nil {
		e.Temperature = s.Data.Current.Temperature2m
		e.Humidity = s.Data.Current.RelativeHumidity2m
		e.WindSpeed = s.Data.Current.WindSpeed10m
		e.WindDirection = s.Data.Current.WindDirection10m
	}
	return e
}
