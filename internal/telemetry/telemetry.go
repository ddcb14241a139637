// Package telemetry derives the publicly visible engine-power estimate
// published after each race.
package telemetry

import (
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// Contribution of team customisations to true power.
const (
	powerPerCustomisationPoint = 0.5
	powerPerUpgrade            = 2.0
	optimisationBonus          = 10.0
)

// DefaultNoiseFraction bounds the simulated measurement error of fan and
// media telemetry at roughly ±8% of true power.
const DefaultNoiseFraction = 0.08

// Reporter appends estimated-power readings to each team's analytics
// series. The noise source is injected so tests can seed it.
type Reporter struct {
	Noise         *rand.Rand
	NoiseFraction float64
	Log           *zap.Logger
}

// NewReporter creates a reporter. A nil noise source falls back to a
// time-seeded one.
func NewReporter(noise *rand.Rand, logger *zap.Logger) *Reporter {
	if noise == nil {
		noise = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		Noise:         noise,
		NoiseFraction: DefaultNoiseFraction,
		Log:           logger,
	}
}

// TruePower computes the deterministic power figure for a team's engine:
// manufacturer base stats, the manufacturer's current spec-upgrade bonus,
// and the team's purchased customisations.
func TruePower(m *domain.Manufacturer, spec domain.EngineSpec) float64 {
	power := m.BasePower + m.SpecBonusPower
	power += float64(spec.CustomisationPoints) * powerPerCustomisationPoint
	power += float64(len(spec.Upgrades)) * powerPerUpgrade
	if spec.Optimised {
		power += optimisationBonus
	}
	return power
}

// Record appends one (raceNumber, estimatedPower) reading per team under an
// active engine contract, creating the series on first use. Teams without a
// resolvable manufacturer, contract, or spec state are skipped silently, and
// a team is never sampled twice for the same race.
func (r *Reporter) Record(w *domain.World, raceNumber int) {
	teamIDs := make([]string, 0, len(w.Teams))
	for id := range w.Teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	for _, teamID := range teamIDs {
		contract := w.ActiveEngineContract(teamID)
		if contract == nil {
			continue
		}
		manufacturer, ok := w.Manufacturers[contract.ManufacturerID]
		if !ok {
			r.Log.Debug("telemetry skipped: unknown manufacturer",
				zap.String("team", teamID), zap.String("manufacturer", contract.ManufacturerID))
			continue
		}
		state, ok := w.TeamStates[teamID]
		if !ok {
			continue
		}
		if sampled(w.Analytics[teamID], raceNumber) {
			continue
		}

		truePower := TruePower(manufacturer, state.Engine)
		noise := (r.Noise.Float64()*2 - 1) * r.NoiseFraction
		estimated := truePower * (1 + noise)

		w.Analytics[teamID] = append(w.Analytics[teamID], domain.PowerReading{
			RaceNumber:     raceNumber,
			EstimatedPower: estimated,
		})
	}
}

func sampled(series []domain.PowerReading, raceNumber int) bool {
	for _, reading := range series {
		if reading.RaceNumber == raceNumber {
			return true
		}
	}
	return false
}
