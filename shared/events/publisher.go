package events

import (
	"context"
	"fmt"
	"time"

	"drone-dashboard/internal/models"
	"drone-dashboard/shared/config"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// streamMaxLen caps the stream, trimmed approximately
const streamMaxLen = 1000

// Publisher receives every settled, non-stale weather fetch
type Publisher interface {
	Publish(ctx context.Context, event models.WeatherEvent) error
	Close() error
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.WeatherEvent) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// RedisPublisher appends events to a Redis stream
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewPublisher returns a Redis publisher, or a NopPublisher when no address is configured.
func NewPublisher(cfg *config.EventsConfig) Publisher {
	if cfg.RedisAddr == "" {
		log.Debug("No Redis address configured, weather events are not published")
		return NopPublisher{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	log.WithFields(log.Fields{"addr": cfg.RedisAddr, "stream": cfg.Stream}).Info("Publishing weather events to Redis")

	return &RedisPublisher{client: client, stream: cfg.Stream}
}

func (p *RedisPublisher) Publish(ctx context.Context, event models.WeatherEvent) error {
	if err := p.client.XAdd(ctx, xAddArgs(p.stream, event)).Err(); err != nil {
		return fmt.Errorf("failed to publish weather event to %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func xAddArgs(stream string, event models.WeatherEvent) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"city":           event.City,
			"latitude":       fmt.Sprintf("%.4f", event.Latitude),
			"longitude":      fmt.Sprintf("%.4f", event.Longitude),
			"status":         event.Status,
			"error":          event.Error,
			"temperature":    event.Temperature,
			"humidity":       event.Humidity,
			"wind_speed":     event.WindSpeed,
			"wind_direction": event.WindDirection,
			"time":           event.Time.UTC().Format(time.RFC3339),
		},
	}
}
