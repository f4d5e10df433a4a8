package realtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDecodeEvent(t *testing.T) {
	e, err := DecodeEvent(`{"table":"transactions","action":"INSERT","user_id":4,"id":12}`)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if e.Table != "transactions" || e.Action != "insert" || e.UserID != 4 || e.ID != 12 {
		t.Errorf("unexpected event %+v", e)
	}
	if e.At.IsZero() {
		t.Error("expected timestamp to be set")
	}

	if _, err := DecodeEvent(`not json`); err == nil {
		t.Error("expected error for malformed payload")
	}
	if _, err := DecodeEvent(`{"action":"INSERT"}`); err == nil {
		t.Error("expected error for payload without table")
	}
}

func TestFeed_HandlePublishes(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	var got Event
	r.Subscribe(UserChannel("budgets", 3), func(e Event) { got = e })

	f := NewFeed("", r, zerolog.Nop())
	if err := f.handle(`{"table":"budgets","action":"UPDATE","user_id":3,"id":8}`); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if got.ID != 8 || got.Action != "update" {
		t.Errorf("listener got %+v", got)
	}
	if s := f.Stats(); s.Received != 1 || s.Connected {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestNextBackoff(t *testing.T) {
	max := 30 * time.Second
	b := time.Second
	var seen []time.Duration
	for i := 0; i < 7; i++ {
		b = nextBackoff(b, max)
		seen = append(seen, b)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, max, max, max}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("backoff sequence %v, want %v", seen, want)
		}
	}
}
