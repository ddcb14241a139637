package domain

import "sort"

// World is the single mutable aggregate holding all teams, drivers,
// contracts, standings, and event history. One turn-processing call owns it
// exclusively for the duration of the turn; the engine never retains it
// between calls.
type World struct {
	Season       Season
	Week         int
	PlayerTeamID string

	Teams         map[string]*Team
	Drivers       map[string]*Driver
	Chiefs        map[string]*Chief
	DriverStates  map[string]*DriverState
	TeamStates    map[string]*TeamState
	Manufacturers map[string]*Manufacturer
	Sponsors      map[string]*Sponsor
	Circuits      map[string]*Circuit

	EngineContracts []*EngineContract
	SponsorDeals    []*SponsorDeal

	Calendar             []*CalendarEntry
	DriverStandings      []DriverStanding
	ConstructorStandings []ConstructorStanding

	Timeline  []CalendarEvent
	Pending   []ReactiveEvent
	PartsLog  []PartsLogEntry
	Analytics map[string][]PowerReading
}

// NewWorld returns an empty world with all lookup maps initialized.
func NewWorld() *World {
	return &World{
		Season:        1,
		Week:          1,
		Teams:         map[string]*Team{},
		Drivers:       map[string]*Driver{},
		Chiefs:        map[string]*Chief{},
		DriverStates:  map[string]*DriverState{},
		TeamStates:    map[string]*TeamState{},
		Manufacturers: map[string]*Manufacturer{},
		Sponsors:      map[string]*Sponsor{},
		Circuits:      map[string]*Circuit{},
		Analytics:     map[string][]PowerReading{},
	}
}

// IsPlayerTeam reports whether the team is human-controlled.
func (w *World) IsPlayerTeam(teamID string) bool {
	return teamID != "" && teamID == w.PlayerTeamID
}

// CurrentRace returns the race whose week matches the active week and which
// has been neither completed nor cancelled, or nil if this is not a race
// week.
func (w *World) CurrentRace() *CalendarEntry {
	for _, entry := range w.Calendar {
		if entry.Completed || entry.Cancelled {
			continue
		}
		if entry.Week == w.Week {
			return entry
		}
	}
	return nil
}

// RaceSeatDrivers returns the team's drivers holding a qualifying race seat,
// ordered first seat before second for stable output.
func (w *World) RaceSeatDrivers(teamID string) []*Driver {
	var seats []*Driver
	for _, d := range w.Drivers {
		if d.TeamID == teamID && d.Role.IsRaceSeat() {
			seats = append(seats, d)
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Role != seats[j].Role {
			return roleOrder(seats[i].Role) < roleOrder(seats[j].Role)
		}
		return seats[i].ID < seats[j].ID
	})
	return seats
}

func roleOrder(r DriverRole) int {
	switch r {
	case RoleFirstDriver:
		return 0
	case RoleEqualDriver:
		return 1
	case RoleSecondDriver:
		return 2
	default:
		return 3
	}
}

// ActiveEngineContract returns the team's engine contract covering the
// current season, or nil. The model holds at most one per team.
func (w *World) ActiveEngineContract(teamID string) *EngineContract {
	for _, c := range w.EngineContracts {
		if c.TeamID == teamID && c.StartSeason <= w.Season && c.EndSeason >= w.Season {
			return c
		}
	}
	return nil
}

// RemoveEngineContract drops the team's engine contract, if any. Used when a
// contract is superseded by early termination.
func (w *World) RemoveEngineContract(teamID string) {
	kept := w.EngineContracts[:0]
	for _, c := range w.EngineContracts {
		if c.TeamID != teamID {
			kept = append(kept, c)
		}
	}
	w.EngineContracts = kept
}
