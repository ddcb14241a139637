package season

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

const validYAML = `
season: 2026
player_team: tyr
manufacturers:
  - id: vulcan
    name: Vulcan Power
    base_power: 905
    annual_cost: 12000000
circuits:
  - id: interlagos
    name: Interlagos
    country: Brazil
  - id: suzuka
    name: Suzuka
    country: Japan
teams:
  - id: tyr
    name: Tyrrell Racing
    budget: 45000000
    engine: vulcan
    engine_seasons: 2
    drivers:
      - id: d1
        name: Ayr Senna
        role: first
        salary: 4000000
        contract_end: 2027
        reputation: 90
      - id: d2
        name: Jo Siffert
        role: second
        salary: 1500000
        contract_end: 2026
        reputation: 60
    chiefs:
      - id: c1
        name: Ross Newey
        role: designer
        salary: 2000000
        contract_end: 2027
        ability: 85
calendar:
  - circuit: interlagos
    week: 3
  - circuit: suzuka
    week: 7
`

func writeSeason(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "season.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write season file: %v", err)
	}
	return path
}

func TestLoadBuild_Valid(t *testing.T) {
	spec, err := Load(writeSeason(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, err := spec.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if w.Season != 2026 {
		t.Fatalf("season = %d, want 2026", w.Season)
	}
	if w.PlayerTeamID != "tyr" {
		t.Fatalf("player team = %q, want tyr", w.PlayerTeamID)
	}
	if len(w.Teams) != 1 || len(w.Drivers) != 2 || len(w.Chiefs) != 1 {
		t.Fatalf("entity counts: teams=%d drivers=%d chiefs=%d",
			len(w.Teams), len(w.Drivers), len(w.Chiefs))
	}
	if w.Teams["tyr"].Budget != 45_000_000 {
		t.Fatalf("budget = %d", w.Teams["tyr"].Budget)
	}

	contract := w.ActiveEngineContract("tyr")
	if contract == nil {
		t.Fatal("no active engine contract")
	}
	if contract.EndSeason != 2027 {
		t.Fatalf("contract end = %d, want 2027", contract.EndSeason)
	}
	if got := w.TeamStates["tyr"].Engine.ManufacturerID; got != "vulcan" {
		t.Fatalf("team engine manufacturer = %q", got)
	}

	if len(w.Calendar) != 2 {
		t.Fatalf("calendar size = %d", len(w.Calendar))
	}
	if w.Calendar[1].RaceNumber != 2 || w.Calendar[1].Week != 7 {
		t.Fatalf("second race = %+v", w.Calendar[1])
	}

	ds := w.DriverStates["d1"]
	if ds == nil || ds.Fitness != 100 || ds.Morale != 70 {
		t.Fatalf("initial driver state = %+v", ds)
	}
}

func TestBuild_UnknownCircuit(t *testing.T) {
	broken := strings.Replace(validYAML, "circuit: suzuka", "circuit: monza", 1)
	spec, err := Load(writeSeason(t, broken))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := spec.Build(); err == nil {
		t.Fatal("expected error for unknown calendar circuit")
	} else if !strings.Contains(err.Error(), "monza") {
		t.Fatalf("error should name the circuit, got: %v", err)
	}
}

func TestBuild_UnknownManufacturer(t *testing.T) {
	broken := strings.Replace(validYAML, "engine: vulcan", "engine: hart", 1)
	spec, err := Load(writeSeason(t, broken))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = spec.Build()
	var ee *domain.EngineError
	if !errors.As(err, &ee) || ee.Code != domain.ErrSeasonFixtures.Code {
		t.Fatalf("expected fixture error, got %v", err)
	}
}

func TestBuild_UnknownDriverRole(t *testing.T) {
	broken := strings.Replace(validYAML, "role: second", "role: reserve", 1)
	spec, err := Load(writeSeason(t, broken))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := spec.Build(); err == nil {
		t.Fatal("expected error for unknown driver role")
	}
}

func TestBuild_UnknownPlayerTeam(t *testing.T) {
	broken := strings.Replace(validYAML, "player_team: tyr", "player_team: brabham", 1)
	spec, err := Load(writeSeason(t, broken))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := spec.Build(); err == nil {
		t.Fatal("expected error for unknown player team")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
