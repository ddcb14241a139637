// Package outcome provides the default race outcome engine: a skill-plus-
// noise simulator producing classifications, replacement standings, and
// post-race state deltas.
package outcome

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/paddockworks/pitwall-engine/internal/domain"
	"github.com/paddockworks/pitwall-engine/internal/mutate"
	"github.com/paddockworks/pitwall-engine/internal/raceweekend"
	"github.com/paddockworks/pitwall-engine/internal/standings"
	"github.com/paddockworks/pitwall-engine/internal/telemetry"
)

// pointsTable awards championship points by finish position.
var pointsTable = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

const (
	baselinePower   = 900.0
	retirementOdds  = 0.12
	reputationGain  = 0.5
	performanceSpan = 40.0
)

// Simulator ranks entrants by engine power, driver reputation, and seeded
// noise. It satisfies raceweekend.OutcomeEngine.
type Simulator struct {
	Rand *rand.Rand
	Log  *zap.Logger
}

// NewSimulator creates a simulator. A nil source falls back to a time-seeded
// one.
func NewSimulator(r *rand.Rand, logger *zap.Logger) *Simulator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{Rand: r, Log: logger}
}

type entrant struct {
	driver *domain.Driver
	score  float64
}

// Simulate produces the weekend's outcome for the current race. Injured and
// banned drivers do not take the start.
func (s *Simulator) Simulate(ctx context.Context, w *domain.World, entry *domain.CalendarEntry) (*raceweekend.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entrants := s.gridFor(w)
	if len(entrants) == 0 {
		return nil, domain.NewEngineError(domain.ErrInvalidResult.Code, "no drivers available to race")
	}

	sort.SliceStable(entrants, func(i, j int) bool { return entrants[i].score > entrants[j].score })

	classification := s.classify(entrants)
	result := &domain.RaceWeekendResult{
		RaceNumber:     entry.RaceNumber,
		CircuitID:      entry.CircuitID,
		Classification: classification,
	}
	result.DriverStandings, result.ConstructorStandings = s.accumulateStandings(w, classification)

	return &raceweekend.Outcome{
		Result: result,
		Deltas: s.deltasFor(classification),
	}, nil
}

// gridFor assembles and scores the starting grid: the first two race seats
// of every team, minus injured and banned drivers.
func (s *Simulator) gridFor(w *domain.World) []entrant {
	teamIDs := make([]string, 0, len(w.Teams))
	for id := range w.Teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	var grid []entrant
	for _, teamID := range teamIDs {
		seats := w.RaceSeatDrivers(teamID)
		if len(seats) > 2 {
			seats = seats[:2]
		}
		for _, d := range seats {
			if st, ok := w.DriverStates[d.ID]; ok {
				if st.InjuryWeeksRemaining > 0 || st.BanRacesRemaining > 0 {
					s.Log.Debug("driver misses race",
						zap.String("driver", d.ID),
						zap.Int("injuryWeeks", st.InjuryWeeksRemaining),
						zap.Int("banRaces", st.BanRacesRemaining))
					continue
				}
			}
			grid = append(grid, entrant{driver: d, score: s.scoreDriver(w, d)})
		}
	}
	return grid
}

func (s *Simulator) scoreDriver(w *domain.World, d *domain.Driver) float64 {
	power := baselinePower
	if contract := w.ActiveEngineContract(d.TeamID); contract != nil {
		if m, ok := w.Manufacturers[contract.ManufacturerID]; ok {
			if state, ok := w.TeamStates[d.TeamID]; ok {
				power = telemetry.TruePower(m, state.Engine)
			}
		}
	}
	return power + float64(d.Reputation)*reputationGain + s.Rand.Float64()*performanceSpan
}

// classify converts the ranked grid into a classification: positions for
// survivors, unclassified rows for retirements, cumulative gaps behind the
// winner, and laps-behind for anyone over a lap adrift.
func (s *Simulator) classify(grid []entrant) []domain.DriverResult {
	const lapMillis = 90_000

	var rows []domain.DriverResult
	position := 0
	var gap int64
	for i, e := range grid {
		if i > 0 && s.Rand.Float64() < retirementOdds {
			rows = append(rows, domain.DriverResult{
				DriverID: e.driver.ID,
				Status:   domain.StatusRetired,
			})
			continue
		}
		position++
		if position > 1 {
			gap += 500 + s.Rand.Int63n(20_000)
		}
		row := domain.DriverResult{
			DriverID: e.driver.ID,
			Position: position,
			Status:   domain.StatusFinished,
		}
		if laps := int(gap / lapMillis); laps > 0 {
			row.LapsBehind = laps
		} else {
			row.GapMillis = gap
		}
		rows = append(rows, row)
	}

	if finishers := lo.Filter(rows, func(r domain.DriverResult, _ int) bool {
		return r.Status == domain.StatusFinished
	}); len(finishers) > 0 {
		fastest := finishers[s.Rand.Intn(len(finishers))].DriverID
		for i := range rows {
			if rows[i].DriverID == fastest {
				rows[i].FastestLap = true
			}
		}
	}
	return rows
}

// accumulateStandings folds the race points into the previous championship
// tables and re-ranks both.
func (s *Simulator) accumulateStandings(w *domain.World, classification []domain.DriverResult) ([]domain.DriverStanding, []domain.ConstructorStanding) {
	byDriver := map[string]domain.DriverStanding{}
	for _, row := range w.DriverStandings {
		byDriver[row.DriverID] = row
	}

	for _, res := range classification {
		st := byDriver[res.DriverID]
		st.DriverID = res.DriverID
		if d, ok := w.Drivers[res.DriverID]; ok {
			st.TeamID = d.TeamID
		}
		switch {
		case res.Status == domain.StatusRetired:
			st.DNFs++
		case res.Position >= 1 && res.Position <= len(pointsTable):
			st.Points += pointsTable[res.Position-1]
		}
		if res.Position == 1 {
			st.Wins++
		}
		if res.Position >= 1 && res.Position <= 3 {
			st.Podiums++
		}
		if res.FastestLap {
			st.FastestLaps++
		}
		byDriver[res.DriverID] = st
	}

	drivers := lo.Values(byDriver)
	standings.RankDrivers(drivers)

	grouped := lo.GroupBy(drivers, func(st domain.DriverStanding) string { return st.TeamID })
	var constructors []domain.ConstructorStanding
	for teamID, rows := range grouped {
		if teamID == "" {
			continue
		}
		c := domain.ConstructorStanding{TeamID: teamID}
		for _, st := range rows {
			c.Points += st.Points
			c.Wins += st.Wins
			c.Podiums += st.Podiums
		}
		constructors = append(constructors, c)
	}
	standings.RankConstructors(constructors)

	return drivers, constructors
}

// deltasFor attributes post-race condition changes: everyone tires, the
// winner's morale climbs, retirements sting.
func (s *Simulator) deltasFor(classification []domain.DriverResult) mutate.DeltaSet {
	deltas := mutate.DeltaSet{Drivers: map[string]mutate.DriverDelta{}}
	for _, res := range classification {
		d := mutate.DriverDelta{
			Fatigue:      8 + s.Rand.Intn(8),
			GearboxRaces: 1,
		}
		switch {
		case res.Position == 1:
			d.Morale = 10
		case res.Status == domain.StatusRetired:
			d.Morale = -5
		}
		deltas.Drivers[res.DriverID] = d
	}
	return deltas
}
