package models

import "time"

// DroneVerdict is a drone profile checked against the current wind speed
type DroneVerdict struct {
	Name        string  `json:"name"`
	MaxWind     float64 `json:"max_wind"`
	FlightTime  string  `json:"flight_time"`
	CurrentWind float64 `json:"current_wind"`
	WindUnit    string  `json:"wind_unit"`
	IsFlyable   bool    `json:"is_flyable"`
	Margin      float64 `json:"margin"` // MaxWind - CurrentWind, negative when grounded
}

// DroneFlightReport is the one-shot summary printed by the CLI
type DroneFlightReport struct {
	Date         time.Time      `json:"date"`
	LocationName string         `json:"location_name"`
	Summary      WeatherSummary `json:"summary"`
	Verdicts     []DroneVerdict `json:"verdicts"`
	FlyableCount int            `json:"flyable_count"`
	Error        string         `json:"error,omitempty"`
}
