package droneweather

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"drone-dashboard/internal/models"
	"drone-dashboard/shared/config"
	"drone-dashboard/shared/events"
	"drone-dashboard/shared/scheduler"

	log "github.com/sirupsen/logrus"
)

// publishTimeout bounds a single event publish
const publishTimeout = 5 * time.Second

// Asker answers a question about the given weather
type Asker interface {
	Ask(ctx context.Context, question string, summary models.WeatherSummary) models.AskResult
}

// DashboardMetrics represents the outcome of a scheduled refresh
type DashboardMetrics struct {
	City         string `json:"city"`
	FlyableCount int    `json:"flyable_count"`
	Drones       int    `json:"drones"`
}

// GetSummary implements the scheduler.Metrics interface
func (m DashboardMetrics) GetSummary() string {
	if m.Drones > 0 && m.FlyableCount == 0 {
		return fmt.Sprintf("%s: no drone can fly", m.City)
	}
	return fmt.Sprintf("%s: %d/%d drones can fly", m.City, m.FlyableCount, m.Drones)
}

// DashboardState is a copy of everything the page shows
type DashboardState struct {
	City       string                 `json:"city"`
	Cities     []models.Location      `json:"cities"`
	DarkMode   bool                   `json:"dark_mode"`
	Question   string                 `json:"question"`
	AIResponse string                 `json:"ai_response"`
	LoadingAI  bool                   `json:"loading_ai"`
	Weather    models.WeatherSnapshot `json:"weather"`
}

// Dashboard is the shared state of the kiosk: one selected city, one theme and one
// assistant exchange for every viewer. It implements the scheduler.Agent interface.
type Dashboard struct {
	catalog   models.Catalog
	settings  config.DashboardConfig
	fetcher   *Fetcher
	asker     Asker
	publisher events.Publisher

	mu         sync.Mutex
	selected   models.Location
	darkMode   bool
	question   string
	aiResponse string
	loadingAI  bool
}

// NewDashboard wires the fetcher around provider. The first catalog city is selected.
func NewDashboard(cfg *config.DashboardConfig, provider WeatherProvider, fetchTimeout time.Duration, asker Asker, publisher events.Publisher) *Dashboard {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	d := &Dashboard{
		catalog:   cfg.Catalog(),
		settings:  *cfg,
		asker:     asker,
		publisher: publisher,
	}
	if len(d.catalog.Cities) > 0 {
		d.selected = d.catalog.Cities[0]
	}
	d.fetcher = NewFetcher(provider, fetchTimeout, d.onSettle)
	return d
}

func (d *Dashboard) Name() string {
	return "Drone Weather Dashboard"
}

func (d *Dashboard) Initialize() error {
	log.Infof("Initializing %s...", d.Name())

	if len(d.catalog.Cities) == 0 {
		return fmt.Errorf("at least one city must be configured (dashboard.cities)")
	}
	if d.asker == nil {
		return fmt.Errorf("assistant is required")
	}

	log.WithFields(log.Fields{
		"cities": len(d.catalog.Cities),
		"drones": len(d.catalog.Drones),
	}).Infof("Configured for %s (%.4f, %.4f)", d.selected.Name, d.selected.Latitude, d.selected.Longitude)

	return nil
}

// RunOnce refreshes the selected city and reports once the fetch settles.
func (d *Dashboard) RunOnce(ctx context.Context, ev *scheduler.AgentEvents) error {
	startTime := time.Now()

	d.mu.Lock()
	loc := d.selected
	seq, done := d.fetcher.FetchSeq(loc)
	d.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	snapshot := d.fetcher.Snapshot()
	duration := time.Since(startTime)

	if snapshot.Seq != seq {
		// a newer fetch took over and reports on its own
		if ev != nil && ev.OnPartialFailure != nil {
			ev.OnPartialFailure(fmt.Errorf("refresh for %s was superseded", loc.Name), duration)
		}
		return nil
	}

	if snapshot.Error != "" {
		err := fmt.Errorf("failed to fetch weather for %s: %s", snapshot.Location.Name, snapshot.Error)
		if ev != nil && ev.OnCriticalFailure != nil {
			ev.OnCriticalFailure(err, duration)
		}
		return err
	}

	report := d.Report()
	metrics := DashboardMetrics{
		City:         report.LocationName,
		FlyableCount: report.FlyableCount,
		Drones:       len(report.Verdicts),
	}
	if ev != nil && ev.OnSuccess != nil {
		ev.OnSuccess(metrics, duration)
	}

	log.Infof("Weather refresh complete: %s", metrics.GetSummary())
	return nil
}

// Start triggers the first fetch for the selected city
func (d *Dashboard) Start() <-chan struct{} {
	return d.Refresh()
}

// SelectCity switches to the named catalog city and fetches its weather.
// Unknown names and the current city are ignored.
func (d *Dashboard) SelectCity(name string) (<-chan struct{}, bool) {
	loc, ok := d.catalog.FindCity(name)
	if !ok {
		log.WithField("city", name).Debug("Ignoring unknown city")
		return nil, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if loc.Name == d.selected.Name {
		return nil, false
	}
	d.selected = loc
	log.WithField("city", loc.Name).Info("City selected")

	return d.fetcher.Fetch(loc), true
}

// Refresh re-fetches the selected city
func (d *Dashboard) Refresh() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetcher.Fetch(d.selected)
}

func (d *Dashboard) ToggleDarkMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.darkMode = !d.darkMode
	return d.darkMode
}

func (d *Dashboard) Theme() Palette {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Theme(d.darkMode)
}

func (d *Dashboard) SetQuestion(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.question = q
}

// Ask submits the stored question. It does nothing and returns false when there
// is no weather to display, when a query is already running or when the question is blank.
// A blank question with weather present is therefore ignored rather than sent
// and never sets LoadingAI.
func (d *Dashboard) Ask(ctx context.Context) (models.AskResult, bool) {
	d.mu.Lock()
	return d.askLocked(ctx)
}

// AskQuestion stores q and submits it in one step
func (d *Dashboard) AskQuestion(ctx context.Context, q string) (models.AskResult, bool) {
	d.mu.Lock()
	d.question = q
	return d.askLocked(ctx)
}

// askLocked must be called with d.mu held; it releases the lock for the assistant call.
func (d *Dashboard) askLocked(ctx context.Context) (models.AskResult, bool) {
	snapshot := d.fetcher.Snapshot()
	question := strings.TrimSpace(d.question)

	if d.loadingAI || question == "" || !snapshot.Renderable() {
		d.mu.Unlock()
		return models.AskResult{}, false
	}
	d.loadingAI = true
	d.mu.Unlock()

	var result models.AskResult
	defer func() {
		d.mu.Lock()
		d.aiResponse = result.Text()
		d.loadingAI = false
		d.mu.Unlock()
	}()

	log.WithField("city", snapshot.Location.Name).Debug("Sending question to assistant")
	result = d.asker.Ask(ctx, question, Summary(snapshot.Location, snapshot.Data))
	return result, true
}

// State returns a copy of the dashboard state
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()

	cities := make([]models.Location, len(d.catalog.Cities))
	copy(cities, d.catalog.Cities)

	return DashboardState{
		City:       d.selected.Name,
		Cities:     cities,
		DarkMode:   d.darkMode,
		Question:   d.question,
		AIResponse: d.aiResponse,
		LoadingAI:  d.loadingAI,
		Weather:    d.fetcher.Snapshot(),
	}
}

// Report summarises the current snapshot against the drone catalog
func (d *Dashboard) Report() models.DroneFlightReport {
	snapshot := d.fetcher.Snapshot()

	report := models.DroneFlightReport{
		Date:         time.Now(),
		LocationName: snapshot.Location.Name,
		Summary:      Summary(snapshot.Location, snapshot.Data),
		Verdicts:     DroneCards(snapshot, d.catalog.Drones),
		Error:        snapshot.Error,
	}
	if !snapshot.UpdatedAt.IsZero() {
		report.Date = snapshot.UpdatedAt
	}
	for _, v := range report.Verdicts {
		if v.IsFlyable {
			report.FlyableCount++
		}
	}
	return report
}

// Close stops the fetcher and the publisher
func (d *Dashboard) Close() error {
	d.fetcher.Close()
	return d.publisher.Close()
}

func (d *Dashboard) onSettle(snapshot models.WeatherSnapshot, _ time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, models.NewWeatherEvent(snapshot)); err != nil {
		log.WithError(err).Warn("Failed to publish weather event")
	}
}
