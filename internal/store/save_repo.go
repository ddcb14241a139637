package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// SaveRepo persists full world snapshots by save slot.
type SaveRepo struct{}

// Save serializes the world into the slot, replacing any previous save. The
// snapshot carries a checksum so a corrupted save is detected on load rather
// than silently resuming a broken season.
func (r *SaveRepo) Save(ctx context.Context, db *sql.DB, slot string, w *domain.World) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal world: %w", err)
	}
	sum := sha256.Sum256(data)

	const q = `INSERT INTO saves (slot, season, week, snapshot_json, checksum, saved_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
	season = excluded.season,
	week = excluded.week,
	snapshot_json = excluded.snapshot_json,
	checksum = excluded.checksum,
	saved_at = excluded.saved_at`
	_, err = db.ExecContext(ctx, q,
		slot,
		int(w.Season),
		w.Week,
		string(data),
		hex.EncodeToString(sum[:]),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save world: %w", err)
	}
	return nil
}

// Load restores the world stored in the slot.
func (r *SaveRepo) Load(ctx context.Context, db *sql.DB, slot string) (*domain.World, error) {
	const q = `SELECT snapshot_json, checksum FROM saves WHERE slot = ?`

	var data, checksum string
	err := db.QueryRowContext(ctx, q, slot).Scan(&data, &checksum)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSaveNotFound
		}
		return nil, fmt.Errorf("load world: %w", err)
	}

	sum := sha256.Sum256([]byte(data))
	if hex.EncodeToString(sum[:]) != checksum {
		return nil, domain.ErrSnapshotCorrupt
	}

	var w domain.World
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("unmarshal world: %w", err)
	}
	return &w, nil
}

// ListSlots returns all save slots ordered by most recently saved.
func (r *SaveRepo) ListSlots(ctx context.Context, db *sql.DB) ([]string, error) {
	const q = `SELECT slot FROM saves ORDER BY saved_at DESC`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
