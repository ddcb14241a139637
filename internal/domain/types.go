// Package domain defines the core types for the Pitwall season engine.
package domain

// Season is a 1-based season number.
type Season int

// DriverRole describes a driver's seat within a team.
type DriverRole string

const (
	RoleFirstDriver  DriverRole = "first"
	RoleSecondDriver DriverRole = "second"
	RoleTestDriver   DriverRole = "test"
	RoleEqualDriver  DriverRole = "equal"
)

// IsRaceSeat reports whether the role qualifies for a race entry.
func (r DriverRole) IsRaceSeat() bool {
	return r == RoleFirstDriver || r == RoleSecondDriver || r == RoleEqualDriver
}

// ChiefRole identifies a department a chief runs.
type ChiefRole string

const (
	ChiefDesigner   ChiefRole = "designer"
	ChiefEngineer   ChiefRole = "engineer"
	ChiefMechanic   ChiefRole = "mechanic"
	ChiefCommercial ChiefRole = "commercial"
)

// Team is a constructor entity. Budget is in whole currency units and may
// go negative (debt); it is never clamped.
type Team struct {
	ID     string
	Name   string
	Budget int64
}

// Driver is a contracted or free driver. An empty TeamID means free agent.
type Driver struct {
	ID          string
	TeamID      string
	Name        string
	Salary      int64
	ContractEnd Season
	Role        DriverRole
	Reputation  int // 0-100
}

// Chief is a department staff member.
type Chief struct {
	ID          string
	TeamID      string
	Name        string
	Salary      int64
	ContractEnd Season
	Role        ChiefRole
	Ability     int // 0-100
}

// DriverState is the per-driver mutable condition, keyed by driver id.
// Percentage fields are kept within [0,100]; counters are never implicitly
// reset.
type DriverState struct {
	Fatigue              int
	Fitness              int
	Morale               int
	InjuryWeeksRemaining int
	BanRacesRemaining    int
	EngineUnitsUsed      int
	GearboxRaceCount     int
}

// EngineSpec is a team's engine runtime state: which manufacturer powers the
// car and what has been bought on top of the works specification.
type EngineSpec struct {
	ManufacturerID      string
	CustomisationPoints int
	Upgrades            []string
	Optimised           bool
}

// TeamState is the per-team mutable condition, keyed by team id.
type TeamState struct {
	DeptMorale          map[ChiefRole]int // 0-100
	SponsorSatisfaction map[string]int    // by sponsor id, 0-100
	Engine              EngineSpec
}

// Manufacturer is an engine supplier. Base stats plus the current
// spec-upgrade bonus determine works power before team customisations.
type Manufacturer struct {
	ID             string
	Name           string
	BasePower      float64
	SpecBonusPower float64
	AnnualCost     int64
}

// Sponsor is a commercial partner available for sponsorship deals.
type Sponsor struct {
	ID   string
	Name string
}

// EngineContract binds a team to a manufacturer. At most one is active per
// team at a time.
type EngineContract struct {
	TeamID         string
	ManufacturerID string
	StartSeason    Season
	EndSeason      Season
	AnnualCost     int64
}

// SponsorDeal is a signed sponsorship agreement. Guaranteed deals carry no
// exit clause and cannot be cancelled without penalty.
type SponsorDeal struct {
	TeamID         string
	SponsorID      string
	StartSeason    Season
	EndSeason      Season
	PaymentPerRace int64
	SigningBonus   int64
	Guaranteed     bool
}

// ResultStatus classifies a driver's race outcome.
type ResultStatus string

const (
	StatusFinished     ResultStatus = "finished"
	StatusRetired      ResultStatus = "retired"
	StatusDisqualified ResultStatus = "disqualified"
)

// DriverResult is one row of a race classification. Position is 1-based for
// classified finishers and 0 for unclassified drivers. GapMillis is the gap
// to the winner for drivers on the lead lap; LapsBehind is nonzero for
// lapped drivers.
type DriverResult struct {
	DriverID   string
	Position   int
	Status     ResultStatus
	GapMillis  int64
	LapsBehind int
	FastestLap bool
}

// RaceWeekendResult is the outcome engine's full output for one race: the
// classification and the replacement standings it attributes to the weekend.
type RaceWeekendResult struct {
	RaceNumber           int
	CircuitID            string
	Classification       []DriverResult
	DriverStandings      []DriverStanding
	ConstructorStandings []ConstructorStanding
}

// ResultFor returns the classification row for a driver, or nil if the
// driver took no part in the race.
func (r *RaceWeekendResult) ResultFor(driverID string) *DriverResult {
	for i := range r.Classification {
		if r.Classification[i].DriverID == driverID {
			return &r.Classification[i]
		}
	}
	return nil
}

// Circuit is a venue on the calendar.
type Circuit struct {
	ID      string
	Name    string
	Country string
}

// CalendarEntry is one race slot on the season calendar.
type CalendarEntry struct {
	CircuitID  string
	Week       int
	RaceNumber int
	Completed  bool
	Cancelled  bool
	Result     *RaceWeekendResult
}

// EventKind distinguishes timeline items.
type EventKind string

const (
	EventHeadline EventKind = "headline"
	EventEmail    EventKind = "email"
)

// CalendarEvent is a news item or email on the world's timeline. Critical
// events block turn advancement until acknowledged; ordinary news never
// does.
type CalendarEvent struct {
	ID       string
	Season   Season
	Week     int
	Kind     EventKind
	Subject  string
	Body     string
	Payload  map[string]any
	Critical bool
}

// ReactiveEvent records that something newsworthy happened. It carries no
// prose; headline synthesis is a downstream concern.
type ReactiveEvent struct {
	Kind       string
	Importance int
	Payload    map[string]any
}

// Reactive event kinds emitted by the core pipelines.
const (
	ReactiveRaceResult     = "race_result"
	ReactiveLeadChange     = "championship_lead_change"
	ReactiveDriverSigning  = "driver_signing"
	ReactiveStaffSigning   = "staff_signing"
	ReactiveSponsorSigning = "sponsor_signing"
)

// DriverStanding is a row in the drivers' championship.
type DriverStanding struct {
	Position    int
	DriverID    string
	TeamID      string
	Points      int
	Wins        int
	Podiums     int
	Poles       int
	FastestLaps int
	DNFs        int
}

// ConstructorStanding is a row in the constructors' championship.
type ConstructorStanding struct {
	Position int
	TeamID   string
	Points   int
	Wins     int
	Podiums  int
}

// Parts-log cost categories.
const (
	PartsCategoryRetirement  = "race retirement"
	PartsCategoryMaintenance = "routine maintenance"
)

// PartsLogEntry is an append-only accounting record of a repair cost.
type PartsLogEntry struct {
	Season   Season
	Week     int
	TeamID   string
	DriverID string
	Cost     int64
	Category string
}

// PowerReading is one telemetry sample in a team's analytics series.
type PowerReading struct {
	RaceNumber     int
	EstimatedPower float64
}
