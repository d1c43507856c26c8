package models

import "time"

// WeatherSnapshot is the tri-state result of a weather fetch.
// Loading clears Data and Error; when Error is set Data is nil.
type WeatherSnapshot struct {
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	Data      *WeatherPayload `json:"data,omitempty"`
	Location  Location        `json:"location"`
	Seq       uint64          `json:"seq"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Renderable reports whether the payload may be displayed
func (s WeatherSnapshot) Renderable() bool {
	return !s.Loading && s.Error == "" && s.Data != nil && s.Data.Current != nil
}
