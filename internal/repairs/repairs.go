// Package repairs charges post-race car repair costs to team budgets and
// keeps the append-only parts log.
package repairs

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/paddockworks/pitwall-engine/internal/domain"
	"github.com/paddockworks/pitwall-engine/internal/news"
)

// Default per-car costs in whole currency units.
const (
	DefaultBaseCost       = 120_000
	DefaultCrashSurcharge = 350_000
)

// Accountant computes and deducts per-car repair costs after a race.
type Accountant struct {
	// BaseCost is charged per car regardless of outcome.
	BaseCost int64
	// CrashSurcharge is added when the car's result status is retired.
	CrashSurcharge int64

	Bus *news.Bus
	Log *zap.Logger
}

// NewAccountant creates an accountant with standard costs.
func NewAccountant(bus *news.Bus, logger *zap.Logger) *Accountant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accountant{
		BaseCost:       DefaultBaseCost,
		CrashSurcharge: DefaultCrashSurcharge,
		Bus:            bus,
		Log:            logger,
	}
}

// Apply charges every team fielding two qualifying race-seat drivers with
// recorded results for the just-completed race. Teams may go into debt.
// Teams missing either qualifying driver or either result are skipped
// without error. The player team additionally receives a non-critical
// summary email.
func (a *Accountant) Apply(w *domain.World, entry *domain.CalendarEntry) {
	if entry == nil || entry.Result == nil {
		return
	}

	teamIDs := make([]string, 0, len(w.Teams))
	for id := range w.Teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	for _, teamID := range teamIDs {
		a.applyTeam(w, entry, teamID)
	}
}

func (a *Accountant) applyTeam(w *domain.World, entry *domain.CalendarEntry, teamID string) {
	seats := w.RaceSeatDrivers(teamID)
	if len(seats) < 2 {
		a.Log.Debug("repairs skipped: incomplete roster",
			zap.String("team", teamID), zap.Int("seats", len(seats)))
		return
	}
	seats = seats[:2]

	results := make([]*domain.DriverResult, 2)
	for i, d := range seats {
		res := entry.Result.ResultFor(d.ID)
		if res == nil {
			a.Log.Debug("repairs skipped: missing result",
				zap.String("team", teamID), zap.String("driver", d.ID))
			return
		}
		results[i] = res
	}

	var total int64
	costs := make([]int64, 2)
	for i, res := range results {
		cost := a.BaseCost
		category := domain.PartsCategoryMaintenance
		if res.Status == domain.StatusRetired {
			cost += a.CrashSurcharge
			category = domain.PartsCategoryRetirement
		}
		costs[i] = cost
		total += cost

		w.PartsLog = append(w.PartsLog, domain.PartsLogEntry{
			Season:   w.Season,
			Week:     w.Week,
			TeamID:   teamID,
			DriverID: seats[i].ID,
			Cost:     cost,
			Category: category,
		})
	}

	w.Teams[teamID].Budget -= total

	if w.IsPlayerTeam(teamID) {
		a.emailSummary(w, entry, seats, costs, total)
	}
}

func (a *Accountant) emailSummary(w *domain.World, entry *domain.CalendarEntry, seats []*domain.Driver, costs []int64, total int64) {
	circuitName := entry.CircuitID
	if c, ok := w.Circuits[entry.CircuitID]; ok {
		circuitName = c.Name
	}

	subject := fmt.Sprintf("Repair bill: %s", circuitName)
	body := fmt.Sprintf("Post-race repairs after %s. %s: %d. %s: %d. Total deducted: %d.",
		circuitName, seats[0].Name, costs[0], seats[1].Name, costs[1], total)

	a.Bus.Email(w, subject, body, false, map[string]any{
		"circuit":    circuitName,
		"raceNumber": entry.RaceNumber,
		"carCosts":   []int64{costs[0], costs[1]},
		"total":      total,
	})
}
