package droneweather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"drone-dashboard/internal/models"
)

type reply struct {
	payload *models.WeatherPayload
	err     error
}

type pendingCall struct {
	ctx   context.Context
	lat   float64
	lon   float64
	reply chan reply
}

// blockingProvider hands every request to the test and waits for a reply,
// ignoring cancellation so late responses still arrive.
type blockingProvider struct {
	started chan *pendingCall
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{started: make(chan *pendingCall, 8)}
}

func (p *blockingProvider) GetWeather(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error) {
	call := &pendingCall{ctx: ctx, lat: lat, lon: lon, reply: make(chan reply, 1)}
	p.started <- call
	r := <-call.reply
	return r.payload, r.err
}

func (p *blockingProvider) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case call := <-p.started:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for weather request")
		return nil
	}
}

// stubProvider answers immediately and records the coordinates it was asked for
type stubProvider struct {
	mu      sync.Mutex
	calls   []models.Location
	payload *models.WeatherPayload
	err     error
}

func (p *stubProvider) GetWeather(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, models.Location{Latitude: lat, Longitude: lon})
	if p.err != nil {
		return nil, p.err
	}
	return p.payload, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func testPayload(temp, wind float64) *models.WeatherPayload {
	return &models.WeatherPayload{
		CurrentUnits: models.CurrentUnits{
			Temperature2m:      "°C",
			RelativeHumidity2m: "%",
			WindSpeed10m:       "m/s",
			WindDirection10m:   "°",
		},
		Current: &models.CurrentConditions{
			Time:               "2025-06-01T10:00",
			Temperature2m:      temp,
			RelativeHumidity2m: 80,
			WindSpeed10m:       wind,
			WindDirection10m:   90,
		},
		HourlyUnits: models.HourlyUnits{Temperature2m: "°C", RelativeHumidity2m: "%", WindSpeed10m: "m/s"},
		Hourly: &models.HourlySeries{
			Time:               []string{"2025-06-01T00:00", "2025-06-01T01:00", "2025-06-01T02:00"},
			Temperature2m:      []float64{temp - 1, temp, temp + 1},
			RelativeHumidity2m: []float64{85, 80, 75},
			WindSpeed10m:       []float64{wind, wind + 1, wind + 2},
		},
		DailyUnits: models.DailyUnits{Temperature2mMax: "°C", Temperature2mMin: "°C", WindSpeed10mMax: "m/s"},
		Daily: &models.DailySeries{
			Time:             []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05", "2025-06-06"},
			Temperature2mMax: []float64{30, 31, 32, 33, 34, 35},
			Temperature2mMin: []float64{20, 21, 22, 23, 24, 25},
			WindSpeed10mMax:  []float64{5, 6, 7, 8, 9, 10},
		},
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch to settle")
	}
}

var (
	machala = models.Location{Name: "Machala", Latitude: -3.2586, Longitude: -79.9605}
	quito   = models.Location{Name: "Quito", Latitude: -0.2298, Longitude: -78.525}
)

func TestFetcherTransitions(t *testing.T) {
	provider := newBlockingProvider()
	var settled []models.WeatherSnapshot
	fetcher := NewFetcher(provider, time.Second, func(s models.WeatherSnapshot, _ time.Duration) {
		settled = append(settled, s)
	})
	defer fetcher.Close()

	done := fetcher.Fetch(machala)
	call := provider.next(t)

	snap := fetcher.Snapshot()
	if !snap.Loading || snap.Data != nil || snap.Error != "" {
		t.Errorf("expected loading snapshot, got %+v", snap)
	}
	if snap.Location != machala {
		t.Errorf("Location = %+v, want Machala", snap.Location)
	}
	if call.lat != machala.Latitude || call.lon != machala.Longitude {
		t.Errorf("request coordinates = (%v, %v)", call.lat, call.lon)
	}

	call.reply <- reply{payload: testPayload(26, 4)}
	waitDone(t, done)

	snap = fetcher.Snapshot()
	if !snap.Renderable() {
		t.Fatalf("expected renderable snapshot, got %+v", snap)
	}
	if snap.Data.Current.Temperature2m != 26 {
		t.Errorf("Temperature2m = %v, want 26", snap.Data.Current.Temperature2m)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
	if len(settled) != 1 {
		t.Errorf("expected 1 settle callback, got %d", len(settled))
	}
}

func TestFetcherErrorSupersedesData(t *testing.T) {
	provider := &stubProvider{payload: testPayload(20, 3)}
	fetcher := NewFetcher(provider, time.Second, nil)
	defer fetcher.Close()

	waitDone(t, fetcher.Fetch(machala))
	if !fetcher.Snapshot().Renderable() {
		t.Fatal("expected data after first fetch")
	}

	provider.err = errors.New("failed to fetch weather data: connection refused")
	waitDone(t, fetcher.Fetch(machala))

	snap := fetcher.Snapshot()
	if snap.Error != "failed to fetch weather data: connection refused" {
		t.Errorf("Error = %q", snap.Error)
	}
	if snap.Data != nil {
		t.Error("stale data must not survive an error")
	}
	if snap.Loading {
		t.Error("snapshot should not be loading after settle")
	}
}

func TestFetcherLastRequestWins(t *testing.T) {
	tests := []struct {
		name        string
		newerFirst  bool
		wantLoading bool
	}{
		{name: "Newer response arrives first", newerFirst: true},
		{name: "Older response arrives first", newerFirst: false, wantLoading: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newBlockingProvider()
			fetcher := NewFetcher(provider, time.Second, nil)
			defer fetcher.Close()

			doneOld := fetcher.Fetch(machala)
			callOld := provider.next(t)
			doneNew := fetcher.Fetch(quito)
			callNew := provider.next(t)

			if callOld.ctx.Err() == nil {
				t.Error("superseded request context should be cancelled")
			}

			first, second := callOld, callNew
			firstDone, secondDone := doneOld, doneNew
			if tt.newerFirst {
				first, second = callNew, callOld
				firstDone, secondDone = doneNew, doneOld
			}

			first.reply <- reply{payload: testPayload(tempFor(first), 1)}
			waitDone(t, firstDone)

			mid := fetcher.Snapshot()
			if mid.Loading != tt.wantLoading {
				t.Errorf("after first response Loading = %v, want %v", mid.Loading, tt.wantLoading)
			}
			if mid.Data != nil && mid.Data.Current.Temperature2m != 14 {
				t.Errorf("rendered stale data: %v", mid.Data.Current.Temperature2m)
			}

			second.reply <- reply{payload: testPayload(tempFor(second), 1)}
			waitDone(t, secondDone)

			final := fetcher.Snapshot()
			if !final.Renderable() {
				t.Fatalf("expected renderable snapshot, got %+v", final)
			}
			if final.Location != quito || final.Data.Current.Temperature2m != 14 {
				t.Errorf("final snapshot = %s %v, want Quito 14", final.Location.Name, final.Data.Current.Temperature2m)
			}
		})
	}
}

// tempFor gives each city a distinct temperature: Quito 14, Machala 27.
func tempFor(call *pendingCall) float64 {
	if call.lat == quito.Latitude {
		return 14
	}
	return 27
}

func TestFetcherStaleErrorIgnored(t *testing.T) {
	provider := newBlockingProvider()
	var settles int
	fetcher := NewFetcher(provider, time.Second, func(models.WeatherSnapshot, time.Duration) { settles++ })
	defer fetcher.Close()

	doneOld := fetcher.Fetch(machala)
	callOld := provider.next(t)
	doneNew := fetcher.Fetch(quito)
	callNew := provider.next(t)

	callNew.reply <- reply{payload: testPayload(14, 2)}
	waitDone(t, doneNew)
	callOld.reply <- reply{err: context.Canceled}
	waitDone(t, doneOld)

	snap := fetcher.Snapshot()
	if snap.Error != "" || !snap.Renderable() {
		t.Errorf("stale error leaked into snapshot: %+v", snap)
	}
	if settles != 1 {
		t.Errorf("expected 1 applied settle, got %d", settles)
	}
}

func TestFetcherCloseDiscardsInFlight(t *testing.T) {
	provider := newBlockingProvider()
	fetcher := NewFetcher(provider, 0, nil)

	done := fetcher.Fetch(machala)
	call := provider.next(t)
	fetcher.Close()

	if call.ctx.Err() == nil {
		t.Error("Close should cancel the in-flight request")
	}

	call.reply <- reply{payload: testPayload(26, 4)}
	waitDone(t, done)

	if fetcher.Snapshot().Data != nil {
		t.Error("result arriving after Close must not be applied")
	}
}

func TestFetcherFetchSeq(t *testing.T) {
	provider := newBlockingProvider()
	fetcher := NewFetcher(provider, time.Second, nil)
	defer fetcher.Close()

	first, firstDone := fetcher.FetchSeq(machala)
	older := provider.next(t)
	second, secondDone := fetcher.FetchSeq(quito)
	newer := provider.next(t)

	if second <= first {
		t.Fatalf("sequence tokens not increasing: %d then %d", first, second)
	}

	newer.reply <- reply{payload: testPayload(14, 2)}
	waitDone(t, secondDone)
	older.reply <- reply{payload: testPayload(27, 3)}
	waitDone(t, firstDone)

	if got := fetcher.Snapshot().Seq; got != second {
		t.Errorf("snapshot Seq = %d, want %d", got, second)
	}
}
