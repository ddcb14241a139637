package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleWorld() *domain.World {
	w := domain.NewWorld()
	w.Season = 2
	w.Week = 14
	w.PlayerTeamID = "t1"
	w.Teams["t1"] = &domain.Team{ID: "t1", Name: "Apex GP", Budget: -250_000}
	w.Drivers["d1"] = &domain.Driver{ID: "d1", TeamID: "t1", Name: "Alda", Reputation: 77}
	w.DriverStandings = []domain.DriverStanding{{Position: 1, DriverID: "d1", Points: 113}}
	w.Analytics["t1"] = []domain.PowerReading{{RaceNumber: 3, EstimatedPower: 931.5}}
	return w
}

func TestSaveRepo_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &SaveRepo{}

	if err := repo.Save(ctx, db, "career", sampleWorld()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w, err := repo.Load(ctx, db, "career")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.Season != 2 || w.Week != 14 {
		t.Errorf("loaded (season, week) = (%d, %d), want (2, 14)", w.Season, w.Week)
	}
	if w.Teams["t1"].Budget != -250_000 {
		t.Errorf("Budget = %d, want -250000", w.Teams["t1"].Budget)
	}
	if len(w.DriverStandings) != 1 || w.DriverStandings[0].Points != 113 {
		t.Errorf("DriverStandings = %+v", w.DriverStandings)
	}
	if len(w.Analytics["t1"]) != 1 {
		t.Errorf("Analytics = %+v", w.Analytics)
	}
}

func TestSaveRepo_OverwritesSlot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &SaveRepo{}

	if err := repo.Save(ctx, db, "career", sampleWorld()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	w2 := sampleWorld()
	w2.Week = 15
	if err := repo.Save(ctx, db, "career", w2); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := repo.Load(ctx, db, "career")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Week != 15 {
		t.Errorf("Week = %d, want 15", loaded.Week)
	}
}

func TestSaveRepo_MissingSlot(t *testing.T) {
	db := newTestDB(t)
	repo := &SaveRepo{}

	_, err := repo.Load(context.Background(), db, "nope")
	if err != domain.ErrSaveNotFound {
		t.Errorf("err = %v, want ErrSaveNotFound", err)
	}
}

func TestSaveRepo_DetectsCorruption(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &SaveRepo{}

	if err := repo.Save(ctx, db, "career", sampleWorld()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := db.Exec(`UPDATE saves SET snapshot_json = '{"Season":999}' WHERE slot = 'career'`); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	_, err := repo.Load(ctx, db, "career")
	if err != domain.ErrSnapshotCorrupt {
		t.Errorf("err = %v, want ErrSnapshotCorrupt", err)
	}
}

func TestSaveRepo_ListSlots(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &SaveRepo{}

	for _, slot := range []string{"a", "b"} {
		if err := repo.Save(ctx, db, slot, sampleWorld()); err != nil {
			t.Fatalf("Save %s: %v", slot, err)
		}
	}

	slots, err := repo.ListSlots(ctx, db)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("slots = %v, want 2 entries", slots)
	}
}
