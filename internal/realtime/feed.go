package realtime

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ChangesChannel is the Postgres NOTIFY channel the schema triggers publish to.
const ChangesChannel = "neofin_changes"

// Feed listens on a dedicated Postgres connection and publishes every
// change notification to a Registry.
type Feed struct {
	url      string
	registry *Registry
	log      zerolog.Logger

	minBackoff time.Duration
	maxBackoff time.Duration

	connected atomic.Bool
	received  atomic.Uint64
	failed    atomic.Uint64
}

func NewFeed(url string, registry *Registry, log zerolog.Logger) *Feed {
	return &Feed{
		url:        url,
		registry:   registry,
		log:        log,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Run blocks until ctx is cancelled, reconnecting with capped
// exponential backoff whenever the connection drops.
func (f *Feed) Run(ctx context.Context) error {
	backoff := f.minBackoff
	for {
		err := f.listen(ctx, func() { backoff = f.minBackoff })
		f.connected.Store(false)
		if ctx.Err() != nil {
			return nil
		}

		f.log.Warn().Err(err).Dur("retry_in", backoff).Msg("Change feed disconnected")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, f.maxBackoff)
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func (f *Feed) listen(ctx context.Context, onConnect func()) error {
	conn, err := pgx.Connect(ctx, f.url)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangesChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	f.connected.Store(true)
	onConnect()
	f.log.Info().Str("channel", ChangesChannel).Msg("Change feed connected")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := f.handle(n.Payload); err != nil {
			f.failed.Add(1)
			f.log.Error().Err(err).Str("payload", n.Payload).Msg("Failed to handle change notification")
		}
	}
}

func (f *Feed) handle(payload string) error {
	event, err := DecodeEvent(payload)
	if err != nil {
		return err
	}
	f.received.Add(1)
	delivered := f.registry.Publish(event)
	f.log.Debug().
		Str("table", event.Table).
		Str("action", event.Action).
		Int("user_id", event.UserID).
		Int("listeners", delivered).
		Msg("Change dispatched")
	return nil
}

// DecodeEvent parses a trigger payload.
func DecodeEvent(payload string) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Event{}, fmt.Errorf("decode change payload: %w", err)
	}
	if event.Table == "" {
		return Event{}, fmt.Errorf("change payload without table")
	}
	event.Action = strings.ToLower(event.Action)
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	return event, nil
}

type FeedStats struct {
	Connected bool   `json:"connected"`
	Received  uint64 `json:"received"`
	Failed    uint64 `json:"failed"`
}

func (f *Feed) Stats() FeedStats {
	return FeedStats{
		Connected: f.connected.Load(),
		Received:  f.received.Load(),
		Failed:    f.failed.Load(),
	}
}
