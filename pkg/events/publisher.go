// Package events publishes catalog change notifications to a Redis stream.
package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"moviecatalog/internal/util"
	"moviecatalog/pkg/domain"
)

type Type string

const (
	MovieCreated Type = "movie.created"
	MovieUpdated Type = "movie.updated"
	MovieDeleted Type = "movie.deleted"
)

// Event describes one committed catalog mutation.
type Event struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	MovieID   string        `json:"movieId"`
	Movie     *domain.Movie `json:"movie,omitempty"`
	At        time.Time     `json:"at"`
	RequestID string        `json:"requestId,omitempty"` // originating HTTP request, when known
}

// NewEvent stamps an event for movieID. movie may be nil for deletions.
func NewEvent(t Type, movieID string, movie *domain.Movie) Event {
	return Event{
		ID:      util.NewID(),
		Type:    t,
		MovieID: movieID,
		Movie:   movie,
		At:      time.Now().UTC(),
	}
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type RedisPublisherConfig struct {
	Stream  string
	MaxLen  int64
	Timeout time.Duration
}

// RedisPublisher appends events to a capped Redis stream.
type RedisPublisher struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
}

func NewRedisPublisher(client *redis.Client, cfg RedisPublisherConfig) (*RedisPublisher, error) {
	if client == nil {
		return nil, errors.New("events: redis client required")
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		return nil, errors.New("events: stream required")
	}
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisPublisher{
		client:  client,
		stream:  stream,
		maxLen:  maxLen,
		timeout: timeout,
	}, nil
}

// Publish appends evt to the stream. The movie snapshot travels as JSON.
func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":   evt.ID,
			"type":       string(evt.Type),
			"movie_id":   evt.MovieID,
			"request_id": evt.RequestID,
			"payload":    string(payload),
		},
	}).Err()
}
