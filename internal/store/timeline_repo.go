package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// TimelineRepo persists CalendarEvents so the timeline survives outside the
// save snapshot and can be queried by week.
type TimelineRepo struct{}

// Append inserts one calendar event for a save slot. Duplicate event ids are
// rejected by the primary key.
func (r *TimelineRepo) Append(ctx context.Context, db *sql.DB, slot string, ev domain.CalendarEvent) error {
	payload := "{}"
	if ev.Payload != nil {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		payload = string(data)
	}

	const q = `INSERT INTO timeline_events (id, slot, season, week, kind, subject, body, payload_json, critical, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		ev.ID,
		slot,
		int(ev.Season),
		ev.Week,
		string(ev.Kind),
		ev.Subject,
		ev.Body,
		payload,
		boolToInt(ev.Critical),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append timeline event: %w", err)
	}
	return nil
}

// ListByWeek returns a slot's events for one season week, oldest first.
func (r *TimelineRepo) ListByWeek(ctx context.Context, db *sql.DB, slot string, season domain.Season, week int) ([]domain.CalendarEvent, error) {
	const q = `SELECT id, season, week, kind, subject, body, payload_json, critical
FROM timeline_events
WHERE slot = ? AND season = ? AND week = ?
ORDER BY created_at ASC, id ASC`

	rows, err := db.QueryContext(ctx, q, slot, int(season), week)
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var ev domain.CalendarEvent
		var season, critical int
		var kind, payload string
		if err := rows.Scan(&ev.ID, &season, &ev.Week, &kind, &ev.Subject, &ev.Body, &payload, &critical); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		ev.Season = domain.Season(season)
		ev.Kind = domain.EventKind(kind)
		ev.Critical = critical != 0
		if payload != "" && payload != "{}" {
			if err := json.Unmarshal([]byte(payload), &ev.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
