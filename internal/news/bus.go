// Package news appends structured news and email items to the world's event
// log and records reactive hooks for the downstream headline generator.
package news

import (
	"github.com/google/uuid"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// Importance levels for reactive events.
const (
	ImportanceLow    = 1
	ImportanceNormal = 2
	ImportanceHigh   = 3
)

// Bus is the single write path for the world's timeline. The id generator is
// swappable for deterministic tests.
type Bus struct {
	NewID func() string
}

// NewBus returns a bus with the process-wide uuid generator.
func NewBus() *Bus {
	return &Bus{NewID: uuid.NewString}
}

// PushReactive records that something newsworthy happened. It never creates
// visible news text itself; headline synthesis from the payload is a
// downstream concern.
func (b *Bus) PushReactive(w *domain.World, kind string, importance int, payload map[string]any) {
	w.Pending = append(w.Pending, domain.ReactiveEvent{
		Kind:       kind,
		Importance: importance,
		Payload:    payload,
	})
}

// Headline appends a news headline with final wording to the timeline.
// Headlines never halt the simulation.
func (b *Bus) Headline(w *domain.World, subject, body string, payload map[string]any) domain.CalendarEvent {
	return b.append(w, domain.EventHeadline, subject, body, payload, false)
}

// Email appends an email to the timeline. Critical is reserved for emails
// that must block turn advancement until acknowledged.
func (b *Bus) Email(w *domain.World, subject, body string, critical bool, payload map[string]any) domain.CalendarEvent {
	return b.append(w, domain.EventEmail, subject, body, payload, critical)
}

func (b *Bus) append(w *domain.World, kind domain.EventKind, subject, body string, payload map[string]any, critical bool) domain.CalendarEvent {
	ev := domain.CalendarEvent{
		ID:       b.NewID(),
		Season:   w.Season,
		Week:     w.Week,
		Kind:     kind,
		Subject:  subject,
		Body:     body,
		Payload:  payload,
		Critical: critical,
	}
	w.Timeline = append(w.Timeline, ev)
	return ev
}
