// Package mutate applies bounded numeric deltas and roster writes to the
// world state.
package mutate

import "github.com/paddockworks/pitwall-engine/internal/domain"

// DriverDelta is the set of named per-driver changes one turn can carry.
// Percentage fields are additive and clamped to [0,100] after application;
// counters are additive and unclamped. SetInjuryWeeks and SetBanRaces are
// absolute overwrites and only applied when non-nil.
type DriverDelta struct {
	Fatigue    int
	Fitness    int
	Morale     int
	Reputation int

	EngineUnits  int
	GearboxRaces int

	SetInjuryWeeks *int
	SetBanRaces    *int
}

// TeamDelta is the set of named per-team changes one turn can carry. Budget
// is an unclamped signed delta; morale and satisfaction entries are additive
// and clamped to [0,100].
type TeamDelta struct {
	Budget              int64
	DeptMorale          map[domain.ChiefRole]int
	SponsorSatisfaction map[string]int
}

// DeltaSet groups deltas keyed by driver or team id.
type DeltaSet struct {
	Drivers map[string]DriverDelta
	Teams   map[string]TeamDelta
}

// Apply mutates the world in place with every present delta. Ids without a
// matching entity or runtime state are skipped silently; partially
// initialized worlds are tolerated.
func Apply(w *domain.World, deltas DeltaSet) {
	for id, d := range deltas.Drivers {
		applyDriver(w, id, d)
	}
	for id, d := range deltas.Teams {
		applyTeam(w, id, d)
	}
}

func applyDriver(w *domain.World, id string, d DriverDelta) {
	if drv, ok := w.Drivers[id]; ok {
		drv.Reputation = clampPct(drv.Reputation + d.Reputation)
	}

	st, ok := w.DriverStates[id]
	if !ok {
		return
	}
	st.Fatigue = clampPct(st.Fatigue + d.Fatigue)
	st.Fitness = clampPct(st.Fitness + d.Fitness)
	st.Morale = clampPct(st.Morale + d.Morale)
	st.EngineUnitsUsed += d.EngineUnits
	st.GearboxRaceCount += d.GearboxRaces
	if d.SetInjuryWeeks != nil {
		st.InjuryWeeksRemaining = *d.SetInjuryWeeks
	}
	if d.SetBanRaces != nil {
		st.BanRacesRemaining = *d.SetBanRaces
	}
}

func applyTeam(w *domain.World, id string, d TeamDelta) {
	if team, ok := w.Teams[id]; ok {
		team.Budget += d.Budget
	}

	st, ok := w.TeamStates[id]
	if !ok {
		return
	}
	for role, delta := range d.DeptMorale {
		if _, ok := st.DeptMorale[role]; !ok {
			continue
		}
		st.DeptMorale[role] = clampPct(st.DeptMorale[role] + delta)
	}
	for sponsorID, delta := range d.SponsorSatisfaction {
		if _, ok := st.SponsorSatisfaction[sponsorID]; !ok {
			continue
		}
		st.SponsorSatisfaction[sponsorID] = clampPct(st.SponsorSatisfaction[sponsorID] + delta)
	}
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
