// Package negotiation turns completed negotiations into binding contracts.
package negotiation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/paddockworks/pitwall-engine/internal/domain"
	"github.com/paddockworks/pitwall-engine/internal/news"
)

// Result summarizes the contract a finalization installed.
type Result struct {
	Kind          domain.StakeholderKind
	TeamID        string
	CounterpartID string
	// Penalty is the early-termination charge for replacing an engine
	// contract; zero for the other kinds.
	Penalty int64
	// BudgetDelta is the net change applied to the team's budget.
	BudgetDelta int64
}

// Finalizer converts accepted negotiations into contracts with their budget
// and roster side effects. It is a pure function of (negotiation, world).
type Finalizer struct {
	Bus *news.Bus
	Log *zap.Logger
}

// NewFinalizer creates a finalizer writing through the given bus.
func NewFinalizer(bus *news.Bus, logger *zap.Logger) *Finalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finalizer{Bus: bus, Log: logger}
}

// Finalize installs the contract described by the negotiation's last round.
// Feeding a negotiation that has not reached the Completed phase, or one
// without rounds, is a caller sequencing bug and is rejected.
func (f *Finalizer) Finalize(w *domain.World, n domain.Negotiation) (*Result, error) {
	base := n.Base()
	if base.Phase != domain.PhaseCompleted {
		return nil, domain.ErrNegotiationNotCompleted
	}
	if n.RoundCount() == 0 {
		return nil, domain.ErrNegotiationNoRounds
	}
	team, ok := w.Teams[base.TeamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}

	switch v := n.(type) {
	case *domain.ManufacturerNegotiation:
		return f.finalizeManufacturer(w, team, v)
	case *domain.DriverNegotiation:
		return f.finalizeDriver(w, team, v)
	case *domain.StaffNegotiation:
		return f.finalizeStaff(w, team, v)
	case *domain.SponsorNegotiation:
		return f.finalizeSponsor(w, team, v)
	default:
		return nil, domain.ErrUnknownStakeholder
	}
}

// finalizeManufacturer replaces the team's engine supply. An active contract
// with seasons remaining beyond the current one is bought out at its full
// remaining value before the new contract is installed.
func (f *Finalizer) finalizeManufacturer(w *domain.World, team *domain.Team, n *domain.ManufacturerNegotiation) (*Result, error) {
	manufacturer, ok := w.Manufacturers[n.CounterpartID]
	if !ok {
		return nil, domain.ErrCounterpartNotFound
	}
	terms := n.Rounds[len(n.Rounds)-1]

	res := &Result{Kind: domain.KindManufacturer, TeamID: team.ID, CounterpartID: manufacturer.ID}

	if old := w.ActiveEngineContract(team.ID); old != nil && old.EndSeason > w.Season {
		remaining := int64(old.EndSeason - w.Season)
		res.Penalty = remaining * old.AnnualCost
		team.Budget -= res.Penalty
		res.BudgetDelta -= res.Penalty
		w.RemoveEngineContract(team.ID)
	}

	w.EngineContracts = append(w.EngineContracts, &domain.EngineContract{
		TeamID:         team.ID,
		ManufacturerID: manufacturer.ID,
		StartSeason:    n.ForSeason,
		EndSeason:      n.ForSeason + domain.Season(terms.Seasons) - 1,
		AnnualCost:     terms.AnnualCost,
	})

	if state, ok := w.TeamStates[team.ID]; ok {
		state.Engine.ManufacturerID = manufacturer.ID
		state.Engine.CustomisationPoints += terms.CustomisationPoints
		state.Engine.Upgrades = append(state.Engine.Upgrades, terms.Upgrades...)
		if terms.Optimised {
			state.Engine.Optimised = true
		}
	}

	f.Bus.Headline(w,
		fmt.Sprintf("%s to run %s engines", team.Name, manufacturer.Name),
		fmt.Sprintf("%s have agreed an engine supply with %s from season %d.", team.Name, manufacturer.Name, n.ForSeason),
		map[string]any{"team": team.ID, "manufacturer": manufacturer.ID, "forSeason": int(n.ForSeason)})

	f.Log.Info("engine contract finalized",
		zap.String("team", team.ID), zap.String("manufacturer", manufacturer.ID),
		zap.Int64("penalty", res.Penalty))
	return res, nil
}

// finalizeDriver reassigns the driver outright; a single-party move with no
// penalty logic.
func (f *Finalizer) finalizeDriver(w *domain.World, team *domain.Team, n *domain.DriverNegotiation) (*Result, error) {
	driver, ok := w.Drivers[n.CounterpartID]
	if !ok {
		return nil, domain.ErrCounterpartNotFound
	}
	terms := n.Rounds[len(n.Rounds)-1]

	driver.TeamID = team.ID
	driver.ContractEnd = terms.EndSeason
	driver.Salary = terms.Salary
	driver.Role = terms.Role

	payload := map[string]any{
		"team": team.ID, "driver": driver.ID,
		"role": string(terms.Role), "until": int(terms.EndSeason),
	}
	f.Bus.Headline(w,
		fmt.Sprintf("%s signs for %s", driver.Name, team.Name),
		fmt.Sprintf("%s will drive for %s until season %d.", driver.Name, team.Name, terms.EndSeason),
		payload)
	f.notifySigning(w, team, domain.ReactiveDriverSigning,
		fmt.Sprintf("Contract signed: %s", driver.Name),
		fmt.Sprintf("%s has signed as %s driver until season %d.", driver.Name, terms.Role, terms.EndSeason),
		payload)

	return &Result{Kind: domain.KindDriver, TeamID: team.ID, CounterpartID: driver.ID}, nil
}

// finalizeStaff reassigns a chief. Only the player team pays buyout and
// signing bonus; AI-team signings move rosters without simulated budget
// deductions.
func (f *Finalizer) finalizeStaff(w *domain.World, team *domain.Team, n *domain.StaffNegotiation) (*Result, error) {
	chief, ok := w.Chiefs[n.CounterpartID]
	if !ok {
		return nil, domain.ErrCounterpartNotFound
	}
	terms := n.Rounds[len(n.Rounds)-1]

	chief.TeamID = team.ID
	chief.ContractEnd = terms.EndSeason
	chief.Salary = terms.Salary

	res := &Result{Kind: domain.KindStaff, TeamID: team.ID, CounterpartID: chief.ID}
	if w.IsPlayerTeam(team.ID) {
		cost := terms.Buyout + terms.SigningBonus
		team.Budget -= cost
		res.BudgetDelta -= cost
	}

	payload := map[string]any{
		"team": team.ID, "chief": chief.ID,
		"role": string(chief.Role), "until": int(terms.EndSeason),
	}
	f.Bus.Headline(w,
		fmt.Sprintf("%s joins %s", chief.Name, team.Name),
		fmt.Sprintf("%s takes over as %s at %s.", chief.Name, chief.Role, team.Name),
		payload)
	f.notifySigning(w, team, domain.ReactiveStaffSigning,
		fmt.Sprintf("Staff signing: %s", chief.Name),
		fmt.Sprintf("%s has joined as %s until season %d.", chief.Name, chief.Role, terms.EndSeason),
		payload)

	return res, nil
}

// finalizeSponsor constructs a new sponsor deal. Payment is guaranteed iff
// the negotiated terms contain no exit clause.
func (f *Finalizer) finalizeSponsor(w *domain.World, team *domain.Team, n *domain.SponsorNegotiation) (*Result, error) {
	sponsor, ok := w.Sponsors[n.CounterpartID]
	if !ok {
		return nil, domain.ErrCounterpartNotFound
	}
	terms := n.Rounds[len(n.Rounds)-1]

	w.SponsorDeals = append(w.SponsorDeals, &domain.SponsorDeal{
		TeamID:         team.ID,
		SponsorID:      sponsor.ID,
		StartSeason:    n.ForSeason,
		EndSeason:      n.ForSeason + domain.Season(terms.Seasons) - 1,
		PaymentPerRace: terms.PaymentPerRace,
		SigningBonus:   terms.SigningBonus,
		Guaranteed:     !terms.ExitClause,
	})
	team.Budget += terms.SigningBonus

	payload := map[string]any{
		"team": team.ID, "sponsor": sponsor.ID,
		"guaranteed": !terms.ExitClause, "forSeason": int(n.ForSeason),
	}
	f.Bus.Headline(w,
		fmt.Sprintf("%s announces %s partnership", team.Name, sponsor.Name),
		fmt.Sprintf("%s and %s have agreed a deal from season %d.", team.Name, sponsor.Name, n.ForSeason),
		payload)
	f.notifySigning(w, team, domain.ReactiveSponsorSigning,
		fmt.Sprintf("Sponsorship signed: %s", sponsor.Name),
		fmt.Sprintf("%s is now backing the team with %d per race.", sponsor.Name, terms.PaymentPerRace),
		payload)

	return &Result{
		Kind:          domain.KindSponsor,
		TeamID:        team.ID,
		CounterpartID: sponsor.ID,
		BudgetDelta:   terms.SigningBonus,
	}, nil
}

// notifySigning routes the signing notice: a direct email when the player
// team is a party, a reactive event otherwise so the player still learns of
// market movement without false urgency.
func (f *Finalizer) notifySigning(w *domain.World, team *domain.Team, kind, subject, body string, payload map[string]any) {
	if w.IsPlayerTeam(team.ID) {
		f.Bus.Email(w, subject, body, false, payload)
		return
	}
	f.Bus.PushReactive(w, kind, news.ImportanceNormal, payload)
}
