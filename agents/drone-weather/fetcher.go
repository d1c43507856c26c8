package droneweather

import (
	"context"
	"sync"
	"time"

	"drone-dashboard/internal/models"
	"drone-dashboard/shared/monitoring"

	log "github.com/sirupsen/logrus"
)

// WeatherProvider fetches weather for a coordinate pair
type WeatherProvider interface {
	GetWeather(ctx context.Context, lat, lon float64) (*models.WeatherPayload, error)
}

// Fetcher exposes the latest weather fetch as a tri-state snapshot.
// Only the most recently issued fetch may update the snapshot.
type Fetcher struct {
	provider WeatherProvider
	timeout  time.Duration
	onSettle func(models.WeatherSnapshot, time.Duration)

	base     context.Context
	stop     context.CancelFunc
	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	snapshot models.WeatherSnapshot
}

// NewFetcher creates a fetcher. onSettle, if set, is called outside the lock
// for every fetch whose result was applied.
func NewFetcher(provider WeatherProvider, timeout time.Duration, onSettle func(models.WeatherSnapshot, time.Duration)) *Fetcher {
	base, stop := context.WithCancel(context.Background())
	return &Fetcher{
		provider: provider,
		timeout:  timeout,
		onSettle: onSettle,
		base:     base,
		stop:     stop,
	}
}

// Fetch supersedes any in-flight request and starts a new one for loc.
// The returned channel is closed once this request has settled, applied or not.
func (f *Fetcher) Fetch(loc models.Location) <-chan struct{} {
	_, done := f.FetchSeq(loc)
	return done
}

// FetchSeq is Fetch that also returns the sequence token of the new request.
// The request was applied iff the settled snapshot carries the same token.
func (f *Fetcher) FetchSeq(loc models.Location) (uint64, <-chan struct{}) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq

	var ctx context.Context
	var cancel context.CancelFunc
	if f.timeout > 0 {
		ctx, cancel = context.WithTimeout(f.base, f.timeout)
	} else {
		ctx, cancel = context.WithCancel(f.base)
	}
	f.cancel = cancel
	f.snapshot = models.WeatherSnapshot{Loading: true, Location: loc, Seq: seq}
	f.mu.Unlock()

	log.WithFields(log.Fields{"city": loc.Name, "seq": seq}).Debug("Weather fetch started")

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		start := time.Now()
		payload, err := f.provider.GetWeather(ctx, loc.Latitude, loc.Longitude)
		f.settle(seq, loc, payload, err, time.Since(start))
	}()

	return seq, done
}

func (f *Fetcher) settle(seq uint64, loc models.Location, payload *models.WeatherPayload, err error, duration time.Duration) {
	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		log.WithFields(log.Fields{"city": loc.Name, "seq": seq}).Debug("Discarding stale weather response")
		monitoring.RecordWeatherFetch("stale", duration)
		return
	}

	snapshot := models.WeatherSnapshot{Location: loc, Seq: seq, UpdatedAt: time.Now()}
	if err != nil {
		snapshot.Error = err.Error()
	} else {
		snapshot.Data = payload
	}
	f.snapshot = snapshot
	f.cancel = nil
	f.mu.Unlock()

	if err != nil {
		log.WithFields(log.Fields{"city": loc.Name, "seq": seq}).WithError(err).Warn("Weather fetch failed")
		monitoring.RecordWeatherFetch("error", duration)
	} else {
		log.WithFields(log.Fields{"city": loc.Name, "seq": seq, "duration": duration}).Info("Weather fetch complete")
		monitoring.RecordWeatherFetch("success", duration)
	}

	if f.onSettle != nil {
		f.onSettle(snapshot, duration)
	}
}

// Snapshot returns the current state
func (f *Fetcher) Snapshot() models.WeatherSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

// Close cancels any in-flight request; later results are never applied.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.seq++
	f.cancel = nil
	f.mu.Unlock()
	f.stop()
}
