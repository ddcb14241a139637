package news

import (
	"fmt"
	"testing"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

func newTestBus() *Bus {
	n := 0
	return &Bus{NewID: func() string {
		n++
		return fmt.Sprintf("ev-%d", n)
	}}
}

func TestPushReactive_RecordsNoVisibleText(t *testing.T) {
	w := domain.NewWorld()
	bus := newTestBus()

	bus.PushReactive(w, domain.ReactiveRaceResult, ImportanceHigh, map[string]any{"winner": "d1"})

	if len(w.Pending) != 1 {
		t.Fatalf("Pending = %d events, want 1", len(w.Pending))
	}
	if len(w.Timeline) != 0 {
		t.Errorf("reactive push created %d timeline entries, want 0", len(w.Timeline))
	}
	ev := w.Pending[0]
	if ev.Kind != domain.ReactiveRaceResult || ev.Importance != ImportanceHigh {
		t.Errorf("event = %+v", ev)
	}
	if ev.Payload["winner"] != "d1" {
		t.Errorf("payload = %+v", ev.Payload)
	}
}

func TestHeadline_NeverCritical(t *testing.T) {
	w := domain.NewWorld()
	w.Season = 3
	w.Week = 12
	bus := newTestBus()

	ev := bus.Headline(w, "Shock win at Monza", "body", nil)

	if ev.Critical {
		t.Error("headline marked critical")
	}
	if ev.Kind != domain.EventHeadline {
		t.Errorf("Kind = %q", ev.Kind)
	}
	if ev.Season != 3 || ev.Week != 12 {
		t.Errorf("event dated (%d, %d), want (3, 12)", ev.Season, ev.Week)
	}
	if len(w.Timeline) != 1 || w.Timeline[0].ID != "ev-1" {
		t.Errorf("Timeline = %+v", w.Timeline)
	}
}

func TestEmail_CriticalFlagCarried(t *testing.T) {
	w := domain.NewWorld()
	bus := newTestBus()

	bus.Email(w, "Repair bill", "body", false, nil)
	ev := bus.Email(w, "Negotiation response", "body", true, nil)

	if !ev.Critical {
		t.Error("critical email lost its flag")
	}
	if w.Timeline[0].Critical {
		t.Error("informational email marked critical")
	}
	if len(w.Timeline) != 2 {
		t.Fatalf("Timeline = %d entries, want 2", len(w.Timeline))
	}
}
