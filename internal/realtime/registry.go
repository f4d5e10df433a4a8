// Package realtime fans database change events out to in-process listeners
// and websocket clients.
package realtime

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event is one row change published by the database triggers.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	UserID int       `json:"user_id"`
	ID     int       `json:"id"`
	At     time.Time `json:"at"`
}

type Listener func(Event)

// UserChannel names the per-user channel of a table, e.g. "transactions:user:7".
func UserChannel(table string, userID int) string {
	return fmt.Sprintf("%s:user:%d", table, userID)
}

// TableChannel names the wildcard channel that receives every change of a table.
func TableChannel(table string) string {
	return table + ":*"
}

type subscription struct {
	id       uint64
	listener Listener
}

// Registry maps channels to listeners. The first listener on a channel
// fires OnFirst and the last one leaving fires OnLast, so upstream
// subscriptions are opened once per channel.
type Registry struct {
	mu       sync.RWMutex
	channels map[string][]subscription
	nextID   uint64

	dispatched uint64
	recovered  uint64

	OnFirst func(channel string)
	OnLast  func(channel string)

	log zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		channels: make(map[string][]subscription),
		log:      log,
	}
}

// Subscribe registers listener on channel and returns its unsubscribe func.
// Calling the returned func more than once is a no-op.
func (r *Registry) Subscribe(channel string, listener Listener) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	first := len(r.channels[channel]) == 0
	r.channels[channel] = append(r.channels[channel], subscription{id: id, listener: listener})
	r.mu.Unlock()

	if first && r.OnFirst != nil {
		r.OnFirst(channel)
	}

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(channel, id) })
	}
}

func (r *Registry) unsubscribe(channel string, id uint64) {
	r.mu.Lock()
	subs := r.channels[channel]
	removed := false
	for i, s := range subs {
		if s.id == id {
			subs = append(subs[:i:i], subs[i+1:]...)
			removed = true
			break
		}
	}
	last := removed && len(subs) == 0
	if last {
		delete(r.channels, channel)
	} else {
		r.channels[channel] = subs
	}
	r.mu.Unlock()

	if last && r.OnLast != nil {
		r.OnLast(channel)
	}
}

// Dispatch delivers event to every listener on channel and returns how
// many were called. A panicking listener does not stop the others.
func (r *Registry) Dispatch(channel string, event Event) int {
	r.mu.RLock()
	snapshot := make([]subscription, len(r.channels[channel]))
	copy(snapshot, r.channels[channel])
	r.mu.RUnlock()

	for _, s := range snapshot {
		r.call(channel, s.listener, event)
	}

	r.mu.Lock()
	r.dispatched += uint64(len(snapshot))
	r.mu.Unlock()
	return len(snapshot)
}

func (r *Registry) call(channel string, listener Listener, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.mu.Lock()
			r.recovered++
			r.mu.Unlock()
			r.log.Error().
				Str("channel", channel).
				Interface("panic", rec).
				Msg("Realtime listener panicked")
		}
	}()
	listener(event)
}

// Publish dispatches event to its user channel and the table wildcard.
func (r *Registry) Publish(event Event) int {
	n := r.Dispatch(UserChannel(event.Table, event.UserID), event)
	return n + r.Dispatch(TableChannel(event.Table), event)
}

func (r *Registry) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channels := make([]string, 0, len(r.channels))
	for ch := range r.channels {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	return channels
}

func (r *Registry) ListenerCount(channel string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[channel])
}

type Stats struct {
	Channels   int    `json:"channels"`
	Listeners  int    `json:"listeners"`
	Dispatched uint64 `json:"dispatched"`
	Recovered  uint64 `json:"recovered_panics"`
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := Stats{
		Channels:   len(r.channels),
		Dispatched: r.dispatched,
		Recovered:  r.recovered,
	}
	for _, subs := range r.channels {
		stats.Listeners += len(subs)
	}
	return stats
}
