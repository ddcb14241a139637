// Package season loads season fixtures and builds the initial world state.
package season

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// Spec is the YAML season fixture file.
type Spec struct {
	Season        int                `yaml:"season"`
	PlayerTeam    string             `yaml:"player_team"`
	Teams         []TeamSpec         `yaml:"teams"`
	Manufacturers []ManufacturerSpec `yaml:"manufacturers"`
	Sponsors      []SponsorSpec      `yaml:"sponsors,omitempty"`
	Circuits      []CircuitSpec      `yaml:"circuits"`
	Calendar      []RaceSpec         `yaml:"calendar"`
}

// TeamSpec declares one constructor, its engine deal, and its roster.
type TeamSpec struct {
	ID            string       `yaml:"id"`
	Name          string       `yaml:"name"`
	Budget        int64        `yaml:"budget"`
	Engine        string       `yaml:"engine,omitempty"`
	EngineSeasons int          `yaml:"engine_seasons,omitempty"`
	Drivers       []DriverSpec `yaml:"drivers"`
	Chiefs        []ChiefSpec  `yaml:"chiefs,omitempty"`
}

// DriverSpec declares one contracted driver.
type DriverSpec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Salary      int64  `yaml:"salary"`
	ContractEnd int    `yaml:"contract_end"`
	Reputation  int    `yaml:"reputation"`
}

// ChiefSpec declares one department chief.
type ChiefSpec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Salary      int64  `yaml:"salary"`
	ContractEnd int    `yaml:"contract_end"`
	Ability     int    `yaml:"ability"`
}

// ManufacturerSpec declares one engine supplier.
type ManufacturerSpec struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	BasePower  float64 `yaml:"base_power"`
	SpecBonus  float64 `yaml:"spec_bonus,omitempty"`
	AnnualCost int64   `yaml:"annual_cost"`
}

// SponsorSpec declares one commercial partner.
type SponsorSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// CircuitSpec declares one venue.
type CircuitSpec struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Country string `yaml:"country,omitempty"`
}

// RaceSpec declares one calendar slot.
type RaceSpec struct {
	Circuit string `yaml:"circuit"`
	Week    int    `yaml:"week"`
}

// Load reads and parses a season fixture file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read season file: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse season YAML: %w", err)
	}
	return &spec, nil
}

// Build assembles the initial world from the fixtures, validating every
// cross-reference so a broken fixture file fails at startup rather than
// mid-season.
func (s *Spec) Build() (*domain.World, error) {
	w := domain.NewWorld()
	if s.Season > 0 {
		w.Season = domain.Season(s.Season)
	}
	w.PlayerTeamID = s.PlayerTeam

	for _, m := range s.Manufacturers {
		w.Manufacturers[m.ID] = &domain.Manufacturer{
			ID:             m.ID,
			Name:           m.Name,
			BasePower:      m.BasePower,
			SpecBonusPower: m.SpecBonus,
			AnnualCost:     m.AnnualCost,
		}
	}
	for _, sp := range s.Sponsors {
		w.Sponsors[sp.ID] = &domain.Sponsor{ID: sp.ID, Name: sp.Name}
	}
	for _, c := range s.Circuits {
		w.Circuits[c.ID] = &domain.Circuit{ID: c.ID, Name: c.Name, Country: c.Country}
	}

	for _, t := range s.Teams {
		if err := s.buildTeam(w, t); err != nil {
			return nil, err
		}
	}

	for i, r := range s.Calendar {
		if _, ok := w.Circuits[r.Circuit]; !ok {
			return nil, fixtureError("calendar references unknown circuit %q", r.Circuit)
		}
		w.Calendar = append(w.Calendar, &domain.CalendarEntry{
			CircuitID:  r.Circuit,
			Week:       r.Week,
			RaceNumber: i + 1,
		})
	}

	if s.PlayerTeam != "" {
		if _, ok := w.Teams[s.PlayerTeam]; !ok {
			return nil, fixtureError("player_team references unknown team %q", s.PlayerTeam)
		}
	}
	return w, nil
}

func (s *Spec) buildTeam(w *domain.World, t TeamSpec) error {
	if t.ID == "" {
		return fixtureError("team with empty id")
	}
	w.Teams[t.ID] = &domain.Team{ID: t.ID, Name: t.Name, Budget: t.Budget}

	state := &domain.TeamState{
		DeptMorale:          map[domain.ChiefRole]int{},
		SponsorSatisfaction: map[string]int{},
	}
	for _, role := range []domain.ChiefRole{domain.ChiefDesigner, domain.ChiefEngineer, domain.ChiefMechanic, domain.ChiefCommercial} {
		state.DeptMorale[role] = 50
	}

	if t.Engine != "" {
		m, ok := w.Manufacturers[t.Engine]
		if !ok {
			return fixtureError("team %q references unknown manufacturer %q", t.ID, t.Engine)
		}
		seasons := t.EngineSeasons
		if seasons <= 0 {
			seasons = 1
		}
		w.EngineContracts = append(w.EngineContracts, &domain.EngineContract{
			TeamID:         t.ID,
			ManufacturerID: m.ID,
			StartSeason:    w.Season,
			EndSeason:      w.Season + domain.Season(seasons) - 1,
			AnnualCost:     m.AnnualCost,
		})
		state.Engine.ManufacturerID = m.ID
	}
	w.TeamStates[t.ID] = state

	for _, d := range t.Drivers {
		role := domain.DriverRole(d.Role)
		switch role {
		case domain.RoleFirstDriver, domain.RoleSecondDriver, domain.RoleTestDriver, domain.RoleEqualDriver:
		default:
			return fixtureError("driver %q has unknown role %q", d.ID, d.Role)
		}
		w.Drivers[d.ID] = &domain.Driver{
			ID:          d.ID,
			TeamID:      t.ID,
			Name:        d.Name,
			Salary:      d.Salary,
			ContractEnd: domain.Season(d.ContractEnd),
			Role:        role,
			Reputation:  d.Reputation,
		}
		w.DriverStates[d.ID] = &domain.DriverState{Fitness: 100, Morale: 70}
	}

	for _, c := range t.Chiefs {
		w.Chiefs[c.ID] = &domain.Chief{
			ID:          c.ID,
			TeamID:      t.ID,
			Name:        c.Name,
			Salary:      c.Salary,
			ContractEnd: domain.Season(c.ContractEnd),
			Role:        domain.ChiefRole(c.Role),
			Ability:     c.Ability,
		}
	}
	return nil
}

func fixtureError(format string, args ...any) error {
	return domain.NewEngineError(domain.ErrSeasonFixtures.Code,
		fmt.Sprintf(format, args...))
}
