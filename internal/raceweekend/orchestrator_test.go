package raceweekend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paddockworks/pitwall-engine/internal/domain"
	"github.com/paddockworks/pitwall-engine/internal/mutate"
	"github.com/paddockworks/pitwall-engine/internal/news"
)

// stubOutcome returns a canned outcome or error.
type stubOutcome struct {
	outcome *Outcome
	err     error
}

func (s *stubOutcome) Simulate(ctx context.Context, w *domain.World, entry *domain.CalendarEntry) (*Outcome, error) {
	return s.outcome, s.err
}

func newTestWorld() *domain.World {
	w := domain.NewWorld()
	w.Week = 10
	w.PlayerTeamID = "t1"
	w.Teams["t1"] = &domain.Team{ID: "t1", Name: "Apex GP", Budget: 10_000_000}
	w.Teams["t2"] = &domain.Team{ID: "t2", Name: "Borealis", Budget: 10_000_000}
	for _, d := range []*domain.Driver{
		{ID: "d1", TeamID: "t1", Name: "Alda", Role: domain.RoleFirstDriver},
		{ID: "d2", TeamID: "t1", Name: "Brice", Role: domain.RoleSecondDriver},
		{ID: "d3", TeamID: "t2", Name: "Corin", Role: domain.RoleFirstDriver},
		{ID: "d4", TeamID: "t2", Name: "Dario", Role: domain.RoleSecondDriver},
	} {
		w.Drivers[d.ID] = d
		w.DriverStates[d.ID] = &domain.DriverState{Fitness: 80, Morale: 60}
	}
	w.Circuits["monza"] = &domain.Circuit{ID: "monza", Name: "Monza"}
	w.Calendar = []*domain.CalendarEntry{
		{CircuitID: "monza", Week: 10, RaceNumber: 4},
	}
	return w
}

func standardOutcome() *Outcome {
	return &Outcome{
		Result: &domain.RaceWeekendResult{
			RaceNumber: 4,
			CircuitID:  "monza",
			Classification: []domain.DriverResult{
				{DriverID: "d3", Position: 1, Status: domain.StatusFinished},
				{DriverID: "d1", Position: 2, Status: domain.StatusFinished, GapMillis: 1500},
				{DriverID: "d4", Position: 3, Status: domain.StatusFinished, GapMillis: 8200},
				{DriverID: "d2", Status: domain.StatusRetired},
			},
			DriverStandings: []domain.DriverStanding{
				{Position: 1, DriverID: "d3", TeamID: "t2", Points: 85},
				{Position: 2, DriverID: "d1", TeamID: "t1", Points: 80},
			},
			ConstructorStandings: []domain.ConstructorStanding{
				{Position: 1, TeamID: "t2", Points: 110},
				{Position: 2, TeamID: "t1", Points: 95},
			},
		},
		Deltas: mutate.DeltaSet{
			Drivers: map[string]mutate.DriverDelta{
				"d1": {Fatigue: 20},
			},
		},
	}
}

func newTestOrchestrator(engine OutcomeEngine) *Orchestrator {
	return New(engine, news.NewBus(), nil)
}

func TestRun_FullTurn(t *testing.T) {
	w := newTestWorld()
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	report, err := o.Run(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, StageComplete, report.Stage)
	assert.Equal(t, 4, report.RaceNumber)

	// State deltas applied.
	assert.Equal(t, 20, w.DriverStates["d1"].Fatigue)
	// Standings replaced atomically.
	require.Len(t, w.DriverStandings, 2)
	assert.Equal(t, "d3", w.DriverStandings[0].DriverID)
	require.Len(t, w.ConstructorStandings, 2)
	// Calendar entry completed with the result attached.
	assert.True(t, w.Calendar[0].Completed)
	require.NotNil(t, w.Calendar[0].Result)
	// Repairs ran: four parts-log entries, budgets deducted.
	assert.Len(t, w.PartsLog, 4)
	assert.Less(t, w.Teams["t1"].Budget, int64(10_000_000))
}

func TestRun_RaceResultEventPayload(t *testing.T) {
	w := newTestWorld()
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	_, err := o.Run(context.Background(), w)
	require.NoError(t, err)

	var raceEvents []domain.ReactiveEvent
	for _, ev := range w.Pending {
		if ev.Kind == domain.ReactiveRaceResult {
			raceEvents = append(raceEvents, ev)
		}
	}
	require.Len(t, raceEvents, 1)
	payload := raceEvents[0].Payload
	assert.Equal(t, "Corin", payload["winnerName"])
	assert.Equal(t, "Alda", payload["secondName"])
	assert.Equal(t, "Dario", payload["thirdName"])
	assert.Equal(t, "+1.500s", payload["winnerMargin"])
	assert.Equal(t, "Monza", payload["circuit"])
}

func TestRun_LeadChangeEvent(t *testing.T) {
	w := newTestWorld()
	w.Drivers["dX"] = &domain.Driver{ID: "dX", Name: "Xeno"}
	w.DriverStandings = []domain.DriverStanding{
		{Position: 1, DriverID: "dX", Points: 80},
		{Position: 2, DriverID: "d3", Points: 75},
	}
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	_, err := o.Run(context.Background(), w)
	require.NoError(t, err)

	var leadEvents []domain.ReactiveEvent
	for _, ev := range w.Pending {
		if ev.Kind == domain.ReactiveLeadChange {
			leadEvents = append(leadEvents, ev)
		}
	}
	require.Len(t, leadEvents, 1)
	payload := leadEvents[0].Payload
	assert.Equal(t, "Xeno", payload["previousLeaderName"])
	assert.Equal(t, "Corin", payload["newLeaderName"])
	assert.Equal(t, 85, payload["points"])
	// Gap to the new second place (d1 on 80).
	assert.Equal(t, 5, payload["pointsGap"])
}

func TestRun_NoLeadChangeWhenLeaderHolds(t *testing.T) {
	w := newTestWorld()
	w.DriverStandings = []domain.DriverStanding{
		{Position: 1, DriverID: "d3", Points: 60},
	}
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	_, err := o.Run(context.Background(), w)
	require.NoError(t, err)

	for _, ev := range w.Pending {
		assert.NotEqual(t, domain.ReactiveLeadChange, ev.Kind)
	}
}

func TestRun_FirstLeaderCountsAsChange(t *testing.T) {
	w := newTestWorld()
	// No prior standings at all.
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	_, err := o.Run(context.Background(), w)
	require.NoError(t, err)

	found := false
	for _, ev := range w.Pending {
		if ev.Kind == domain.ReactiveLeadChange {
			found = true
			assert.NotContains(t, ev.Payload, "previousLeaderID")
		}
	}
	assert.True(t, found, "expected a lead-change event when a first leader appears")
}

func TestRun_OutcomeFailureAbortsBeforeMutation(t *testing.T) {
	w := newTestWorld()
	o := newTestOrchestrator(&stubOutcome{err: errors.New("simulator crashed")})

	report, err := o.Run(context.Background(), w)
	require.Error(t, err)
	assert.Equal(t, StageNotStarted, report.Stage)
	// World untouched.
	assert.Zero(t, w.DriverStates["d1"].Fatigue)
	assert.False(t, w.Calendar[0].Completed)
	assert.Empty(t, w.PartsLog)
	assert.Empty(t, w.Pending)
}

func TestRun_InvalidResultIsFatal(t *testing.T) {
	w := newTestWorld()
	bad := standardOutcome()
	bad.Result.Classification = nil
	o := newTestOrchestrator(&stubOutcome{outcome: bad})

	_, err := o.Run(context.Background(), w)
	require.Error(t, err)
	assert.False(t, w.Calendar[0].Completed)
}

func TestRun_NoCurrentRace(t *testing.T) {
	w := newTestWorld()
	w.Week = 11
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	_, err := o.Run(context.Background(), w)
	assert.Equal(t, domain.ErrNoCurrentRace, err)
}

func TestRun_MissingCircuitSkipsNewsNotTurn(t *testing.T) {
	w := newTestWorld()
	delete(w.Circuits, "monza")
	o := newTestOrchestrator(&stubOutcome{outcome: standardOutcome()})

	report, err := o.Run(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, StageComplete, report.Stage)
	for _, ev := range w.Pending {
		assert.NotEqual(t, domain.ReactiveRaceResult, ev.Kind)
	}
	// Repairs still ran.
	assert.Len(t, w.PartsLog, 4)
}

func TestRun_ThinPodiumSkipsRaceResultEvent(t *testing.T) {
	w := newTestWorld()
	out := standardOutcome()
	out.Result.Classification = []domain.DriverResult{
		{DriverID: "d3", Position: 1, Status: domain.StatusFinished},
		{DriverID: "d1", Position: 2, Status: domain.StatusFinished},
	}
	o := newTestOrchestrator(&stubOutcome{outcome: out})

	report, err := o.Run(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, StageComplete, report.Stage)
	for _, ev := range w.Pending {
		assert.NotEqual(t, domain.ReactiveRaceResult, ev.Kind)
	}
}

func TestWinnerMargin(t *testing.T) {
	tests := []struct {
		name     string
		runnerUp *domain.DriverResult
		want     string
	}{
		{"lead lap gap", &domain.DriverResult{GapMillis: 1500}, "+1.500s"},
		{"one lap down", &domain.DriverResult{LapsBehind: 1}, "+1 lap"},
		{"two laps down", &domain.DriverResult{LapsBehind: 2}, "+2 laps"},
		{"unresolvable", nil, "+0.000s"},
		{"zero gap", &domain.DriverResult{}, "+0.000s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, winnerMargin(tt.runnerUp))
		})
	}
}
