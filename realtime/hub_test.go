package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"lifesystem/core"
)

func TestHubSubscribeBroadcastUnsubscribe(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe(1)
	if h.Len() != 1 {
		t.Fatalf("want 1 subscriber got %d", h.Len())
	}

	ev := core.NewLevelUp(time.Now(), 3, core.RankSilver)
	h.Broadcast(context.Background(), ev)

	received := <-ch
	if received.Level != 3 || received.Type != core.EventLevelUp {
		t.Fatalf("unexpected event: %+v", received)
	}

	h.Unsubscribe(id)
	_, ok := <-ch
	if ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
	h.Unsubscribe(id)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	_, ch := h.Subscribe(1)
	h.Broadcast(context.Background(), core.NewStateChanged(time.Now()))
	h.Broadcast(context.Background(), core.NewStateChanged(time.Now()))
	if len(ch) != 1 || h.Dropped() != 1 {
		t.Fatalf("want 1 buffered and 1 dropped, got %d and %d", len(ch), h.Dropped())
	}
}

func TestMarshalJSON(t *testing.T) {
	ev := core.NewMilestoneReached(time.Now(), core.TrackAlcohol, 30)
	b := MarshalJSON(ev)
	var out core.Event
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Type != core.EventMilestoneReached || out.XPDelta != core.MilestoneXP {
		t.Fatalf("unexpected event: %+v", out)
	}
	if out.Metadata["track"] != "alcohol" {
		t.Fatalf("unexpected metadata: %v", out.Metadata)
	}
}
