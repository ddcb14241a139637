package domain

// StakeholderKind is one of the four parties a negotiation can bind.
type StakeholderKind string

const (
	KindManufacturer StakeholderKind = "manufacturer"
	KindDriver       StakeholderKind = "driver"
	KindStaff        StakeholderKind = "staff"
	KindSponsor      StakeholderKind = "sponsor"
)

// NegotiationPhase is the lifecycle phase of an in-progress deal. Phase
// transitions are one-directional; only Completed negotiations may be
// finalized.
type NegotiationPhase string

const (
	PhaseInProgress       NegotiationPhase = "in_progress"
	PhaseResponseReceived NegotiationPhase = "response_received"
	PhaseCompleted        NegotiationPhase = "completed"
	PhaseFailed           NegotiationPhase = "failed"
)

// NegotiationBase carries the fields shared by all four stakeholder kinds.
// CounterpartID names the manufacturer, driver, chief, or sponsor the team
// is negotiating with. Ultimatum marks a final offer and is orthogonal to
// phase.
type NegotiationBase struct {
	ID            string
	TeamID        string
	CounterpartID string
	ForSeason     Season
	Phase         NegotiationPhase
	Ultimatum     bool
}

// Negotiation is the tagged-variant interface over the four stakeholder
// kinds. The concrete types carry kind-specific round terms; the last
// round's terms are authoritative once the phase is Completed.
type Negotiation interface {
	Kind() StakeholderKind
	Base() *NegotiationBase
	RoundCount() int
}

// ManufacturerTerms are one round's proposed engine-supply terms.
type ManufacturerTerms struct {
	AnnualCost          int64
	Seasons             int
	CustomisationPoints int
	Upgrades            []string
	Optimised           bool
}

// ManufacturerNegotiation is an engine-supply deal in progress.
type ManufacturerNegotiation struct {
	NegotiationBase
	Rounds []ManufacturerTerms
}

func (n *ManufacturerNegotiation) Kind() StakeholderKind { return KindManufacturer }
func (n *ManufacturerNegotiation) Base() *NegotiationBase { return &n.NegotiationBase }
func (n *ManufacturerNegotiation) RoundCount() int { return len(n.Rounds) }

// DriverTerms are one round's proposed driver-contract terms.
type DriverTerms struct {
	Salary    int64
	EndSeason Season
	Role      DriverRole
}

// DriverNegotiation is a driver signing in progress.
type DriverNegotiation struct {
	NegotiationBase
	Rounds []DriverTerms
}

func (n *DriverNegotiation) Kind() StakeholderKind { return KindDriver }
func (n *DriverNegotiation) Base() *NegotiationBase { return &n.NegotiationBase }
func (n *DriverNegotiation) RoundCount() int { return len(n.Rounds) }

// StaffTerms are one round's proposed staff-contract terms. Buyout is paid
// to the chief's current employer; the signing bonus to the chief.
type StaffTerms struct {
	Salary       int64
	EndSeason    Season
	Buyout       int64
	SigningBonus int64
}

// StaffNegotiation is a chief signing in progress.
type StaffNegotiation struct {
	NegotiationBase
	Rounds []StaffTerms
}

func (n *StaffNegotiation) Kind() StakeholderKind { return KindStaff }
func (n *StaffNegotiation) Base() *NegotiationBase { return &n.NegotiationBase }
func (n *StaffNegotiation) RoundCount() int { return len(n.Rounds) }

// SponsorTerms are one round's proposed sponsorship terms. ExitClause allows
// the sponsor to walk away; its absence makes the payment guaranteed.
type SponsorTerms struct {
	PaymentPerRace int64
	SigningBonus   int64
	Seasons        int
	ExitClause     bool
}

// SponsorNegotiation is a sponsorship deal in progress.
type SponsorNegotiation struct {
	NegotiationBase
	Rounds []SponsorTerms
}

func (n *SponsorNegotiation) Kind() StakeholderKind { return KindSponsor }
func (n *SponsorNegotiation) Base() *NegotiationBase { return &n.NegotiationBase }
func (n *SponsorNegotiation) RoundCount() int { return len(n.Rounds) }
