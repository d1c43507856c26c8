package droneweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"drone-dashboard/internal/models"
	"drone-dashboard/shared/config"

	log "github.com/sirupsen/logrus"
)

// ErrMalformedPayload is returned when the response decodes but lacks required blocks
var ErrMalformedPayload = errors.New("unexpected weather payload")

var (
	currentFields = []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m", "wind_direction_10m"}
	hourlyFields  = []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m"}
	dailyFields   = []string{"temperature_2m_max", "temperature_2m_min", "wind_speed_10m_max"}
)

// WeatherClient handles interactions with the Open-Meteo API
type WeatherClient struct {
	config *config.WeatherConfig
	client *http.Client
}

func NewWeatherClient(cfg *config.WeatherConfig) *WeatherClient {
	return &WeatherClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// BuildURL returns the forecast request URL for the coordinates
func (w *WeatherClient) BuildURL(lat, lon float64) string {
	return fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=%s&hourly=%s&daily=%s&wind_speed_unit=%s&temperature_unit=%s&timezone=auto&forecast_days=%d",
		w.config.URL, lat, lon,
		strings.Join(currentFields, ","),
		strings.Join(hourlyFields, ","),
		strings.Join(dailyFields, ","),
		w.config.WindSpeedUnit,
		w.config.TemperatureUnit,
		w.config.ForecastDays)
}

// GetWeather fetches current, hourly and daily data for the coordinates
func (w *WeatherClient) GetWeather(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error) {
	url := w.BuildURL(lat, lon)

	log.WithFields(log.Fields{"latitude": lat, "longitude": lon}).Debugf("Fetching weather data from: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload models.WeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	if payload.Current == nil {
		return nil, fmt.Errorf("%w: missing current conditions", ErrMalformedPayload)
	}

	// Partial hourly/daily blocks are allowed; the sections that need them render nothing
	if payload.Hourly.Len() == 0 {
		log.WithField("latitude", lat).Debug("Weather payload has no usable hourly series")
	}
	if payload.Daily.Len() == 0 {
		log.WithField("latitude", lat).Debug("Weather payload has no usable daily series")
	}

	return &payload, nil
}
