// Package raceweekend sequences one race-day turn over the world state.
package raceweekend

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/paddockworks/pitwall-engine/internal/domain"
	"github.com/paddockworks/pitwall-engine/internal/mutate"
	"github.com/paddockworks/pitwall-engine/internal/news"
	"github.com/paddockworks/pitwall-engine/internal/repairs"
	"github.com/paddockworks/pitwall-engine/internal/standings"
	"github.com/paddockworks/pitwall-engine/internal/telemetry"
)

// Stage is the orchestrator's position within a race-day turn.
type Stage string

const (
	StageNotStarted        Stage = "not_started"
	StageResultsObtained   Stage = "results_obtained"
	StageStateApplied      Stage = "state_applied"
	StageStandingsUpdated  Stage = "standings_updated"
	StageEventsEmitted     Stage = "events_emitted"
	StageRepairsApplied    Stage = "repairs_applied"
	StageAnalyticsRecorded Stage = "analytics_recorded"
	StageComplete          Stage = "complete"
)

// nextStage defines the single legal successor of each stage. Transitions
// are strictly sequential and non-skippable.
var nextStage = map[Stage]Stage{
	StageNotStarted:        StageResultsObtained,
	StageResultsObtained:   StageStateApplied,
	StageStateApplied:      StageStandingsUpdated,
	StageStandingsUpdated:  StageEventsEmitted,
	StageEventsEmitted:     StageRepairsApplied,
	StageRepairsApplied:    StageAnalyticsRecorded,
	StageAnalyticsRecorded: StageComplete,
}

// Outcome is the external engine's full answer for one race weekend: the
// classification plus the state deltas it attributes to the weekend.
type Outcome struct {
	Result *domain.RaceWeekendResult
	Deltas mutate.DeltaSet
}

// OutcomeEngine produces race outcomes. The implementation is external to
// the core; a failure here aborts the turn before any state is mutated.
type OutcomeEngine interface {
	Simulate(ctx context.Context, w *domain.World, entry *domain.CalendarEntry) (*Outcome, error)
}

// Report describes how far a turn progressed.
type Report struct {
	Stage      Stage
	RaceNumber int
	CircuitID  string
}

// Orchestrator runs the race-day pipeline. It holds no state across turns.
type Orchestrator struct {
	Outcome   OutcomeEngine
	Repairs   *repairs.Accountant
	Telemetry *telemetry.Reporter
	Bus       *news.Bus
	Log       *zap.Logger
}

// New creates an orchestrator with the standard pipeline components.
func New(outcome OutcomeEngine, bus *news.Bus, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		Outcome:   outcome,
		Repairs:   repairs.NewAccountant(bus, logger),
		Telemetry: telemetry.NewReporter(nil, logger),
		Bus:       bus,
		Log:       logger,
	}
}

// Run advances the world by one race weekend. An outcome-engine failure is
// returned before any mutation; skipped news or analytics sub-steps never
// abort the remaining steps.
func (o *Orchestrator) Run(ctx context.Context, w *domain.World) (*Report, error) {
	entry := w.CurrentRace()
	if entry == nil {
		return nil, domain.ErrNoCurrentRace
	}

	report := &Report{
		Stage:      StageNotStarted,
		RaceNumber: entry.RaceNumber,
		CircuitID:  entry.CircuitID,
	}

	// Pre-race snapshot for lead-change detection.
	snapshot := standings.Snapshot(w)

	outcome, err := o.Outcome.Simulate(ctx, w, entry)
	if err != nil {
		return report, domain.WrapEngineError(domain.ErrOutcomeEngine.Code, "race outcome engine failed", err)
	}
	if err := validateOutcome(outcome, entry); err != nil {
		return report, err
	}
	if err := advance(report, StageResultsObtained); err != nil {
		return report, err
	}

	mutate.Apply(w, outcome.Deltas)
	if err := advance(report, StageStateApplied); err != nil {
		return report, err
	}

	if err := standings.Replace(w, outcome.Result.DriverStandings, outcome.Result.ConstructorStandings); err != nil {
		return report, err
	}
	if err := advance(report, StageStandingsUpdated); err != nil {
		return report, err
	}

	entry.Completed = true
	entry.Result = outcome.Result

	o.emitRaceResult(w, entry)
	o.emitLeadChange(w, snapshot)
	if err := advance(report, StageEventsEmitted); err != nil {
		return report, err
	}

	o.Repairs.Apply(w, entry)
	if err := advance(report, StageRepairsApplied); err != nil {
		return report, err
	}

	o.Telemetry.Record(w, entry.RaceNumber)
	if err := advance(report, StageAnalyticsRecorded); err != nil {
		return report, err
	}

	if err := advance(report, StageComplete); err != nil {
		return report, err
	}
	o.Log.Info("race weekend complete",
		zap.Int("race", entry.RaceNumber), zap.String("circuit", entry.CircuitID))
	return report, nil
}

func advance(r *Report, to Stage) error {
	if nextStage[r.Stage] != to {
		return domain.NewEngineError(domain.ErrTurnOutOfOrder.Code,
			fmt.Sprintf("illegal stage transition %s -> %s", r.Stage, to))
	}
	r.Stage = to
	return nil
}

func validateOutcome(outcome *Outcome, entry *domain.CalendarEntry) error {
	if outcome == nil || outcome.Result == nil {
		return domain.ErrInvalidResult
	}
	if len(outcome.Result.Classification) == 0 {
		return domain.NewEngineError(domain.ErrInvalidResult.Code, "empty race classification")
	}
	if outcome.Result.RaceNumber != entry.RaceNumber {
		return domain.NewEngineError(domain.ErrInvalidResult.Code,
			fmt.Sprintf("result is for race %d, expected %d", outcome.Result.RaceNumber, entry.RaceNumber))
	}
	return nil
}

// emitRaceResult pushes the race-result reactive event. Fewer than three
// classified finishers or a missing circuit record skips the emission; the
// turn continues either way.
func (o *Orchestrator) emitRaceResult(w *domain.World, entry *domain.CalendarEntry) {
	circuit, ok := w.Circuits[entry.CircuitID]
	if !ok {
		o.Log.Debug("race-result event skipped: unknown circuit", zap.String("circuit", entry.CircuitID))
		return
	}

	podium := make([]*domain.DriverResult, 3)
	for pos := 1; pos <= 3; pos++ {
		row, found := lo.Find(entry.Result.Classification, func(r domain.DriverResult) bool {
			return r.Position == pos
		})
		if !found {
			o.Log.Debug("race-result event skipped: podium unresolved", zap.Int("position", pos))
			return
		}
		podium[pos-1] = &row
	}

	names := make([]string, 3)
	for i, row := range podium {
		drv, ok := w.Drivers[row.DriverID]
		if !ok {
			o.Log.Debug("race-result event skipped: unknown driver", zap.String("driver", row.DriverID))
			return
		}
		names[i] = drv.Name
	}

	o.Bus.PushReactive(w, domain.ReactiveRaceResult, news.ImportanceHigh, map[string]any{
		"circuit":      circuit.Name,
		"raceNumber":   entry.RaceNumber,
		"winnerID":     podium[0].DriverID,
		"winnerName":   names[0],
		"secondID":     podium[1].DriverID,
		"secondName":   names[1],
		"thirdID":      podium[2].DriverID,
		"thirdName":    names[2],
		"winnerMargin": winnerMargin(podium[1]),
	})
}

// winnerMargin renders the winner's margin over the runner-up: a time gap
// when second finished on the lead lap, a laps-behind count otherwise, and
// a zero-gap label when neither is resolvable.
func winnerMargin(runnerUp *domain.DriverResult) string {
	switch {
	case runnerUp == nil:
		return "+0.000s"
	case runnerUp.LapsBehind == 1:
		return "+1 lap"
	case runnerUp.LapsBehind > 1:
		return fmt.Sprintf("+%d laps", runnerUp.LapsBehind)
	default:
		return fmt.Sprintf("+%.3fs", float64(runnerUp.GapMillis)/1000.0)
	}
}

// emitLeadChange compares the pre-race leader to the new one and pushes a
// championship-lead-change reactive event when the identity changed.
func (o *Orchestrator) emitLeadChange(w *domain.World, snapshot []domain.DriverStanding) {
	newLeader := standings.Leader(w.DriverStandings)
	if newLeader == nil {
		return
	}
	prevLeader := standings.Leader(snapshot)
	if prevLeader != nil && prevLeader.DriverID == newLeader.DriverID {
		return
	}

	drv, ok := w.Drivers[newLeader.DriverID]
	if !ok {
		o.Log.Debug("lead-change event skipped: unknown driver", zap.String("driver", newLeader.DriverID))
		return
	}

	pointsGap := 0
	if second := standings.RunnerUp(w.DriverStandings); second != nil {
		pointsGap = newLeader.Points - second.Points
	}

	payload := map[string]any{
		"newLeaderID":   newLeader.DriverID,
		"newLeaderName": drv.Name,
		"newLeaderTeam": newLeader.TeamID,
		"points":        newLeader.Points,
		"pointsGap":     pointsGap,
	}
	if prevLeader != nil {
		payload["previousLeaderID"] = prevLeader.DriverID
		if prev, ok := w.Drivers[prevLeader.DriverID]; ok {
			payload["previousLeaderName"] = prev.Name
		}
		payload["previousLeaderPoints"] = prevLeader.Points
	}

	o.Bus.PushReactive(w, domain.ReactiveLeadChange, news.ImportanceHigh, payload)
}
