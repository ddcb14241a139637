// Package standings maintains the championship tables.
package standings

import (
	"sort"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// Replace swaps both championship tables wholesale. The two slices are
// installed together so a reader never observes driver standings from one
// race alongside constructor standings from another. Passing one table
// without the other is a caller sequencing bug.
func Replace(w *domain.World, drivers []domain.DriverStanding, constructors []domain.ConstructorStanding) error {
	if (drivers == nil) != (constructors == nil) {
		return domain.ErrStandingsPartial
	}
	w.DriverStandings = drivers
	w.ConstructorStandings = constructors
	return nil
}

// Snapshot returns an independent copy of the current driver standings,
// safe to hold across a turn for lead-change detection.
func Snapshot(w *domain.World) []domain.DriverStanding {
	if w.DriverStandings == nil {
		return nil
	}
	out := make([]domain.DriverStanding, len(w.DriverStandings))
	copy(out, w.DriverStandings)
	return out
}

// Leader returns the standing ranked first, or nil for an empty table.
func Leader(table []domain.DriverStanding) *domain.DriverStanding {
	for i := range table {
		if table[i].Position == 1 {
			return &table[i]
		}
	}
	return nil
}

// RunnerUp returns the standing ranked second, or nil.
func RunnerUp(table []domain.DriverStanding) *domain.DriverStanding {
	for i := range table {
		if table[i].Position == 2 {
			return &table[i]
		}
	}
	return nil
}

// RankDrivers sorts the table by points descending with wins then id as
// tie-breaks and assigns dense 1-based positions in place.
func RankDrivers(table []domain.DriverStanding) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		return table[i].DriverID < table[j].DriverID
	})
	for i := range table {
		table[i].Position = i + 1
	}
}

// RankConstructors sorts the table by points descending with wins then id as
// tie-breaks and assigns dense 1-based positions in place.
func RankConstructors(table []domain.ConstructorStanding) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		return table[i].TeamID < table[j].TeamID
	})
	for i := range table {
		table[i].Position = i + 1
	}
}
