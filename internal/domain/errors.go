package domain

import "fmt"

// EngineError is the unified error type for the engine.
// Each error has a numeric code and human-readable message.
type EngineError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// NewEngineError creates a new EngineError.
func NewEngineError(code int, msg string) *EngineError {
	return &EngineError{Code: code, Message: msg}
}

// WrapEngineError creates an EngineError that includes a cause.
func WrapEngineError(code int, msg string, cause error) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf("%s: %v", msg, cause)}
}

// ---- Turn / orchestrator errors (-41010 to -41039) ----

var (
	ErrNoCurrentRace    = &EngineError{Code: -41010, Message: "no race scheduled for the active week"}
	ErrOutcomeEngine    = &EngineError{Code: -41011, Message: "race outcome engine failed"}
	ErrInvalidResult    = &EngineError{Code: -41012, Message: "race outcome engine returned an invalid result"}
	ErrRaceAlreadyRun   = &EngineError{Code: -41013, Message: "race has already been completed"}
	ErrTurnOutOfOrder   = &EngineError{Code: -41014, Message: "orchestrator stage executed out of order"}
	ErrStandingsPartial = &EngineError{Code: -41015, Message: "driver and constructor standings must be replaced together"}
)

// ---- Negotiation / contract errors (-41040 to -41069) ----

var (
	ErrNegotiationNotCompleted = &EngineError{Code: -41040, Message: "negotiation has not reached the completed phase"}
	ErrNegotiationNoRounds     = &EngineError{Code: -41041, Message: "negotiation has no rounds to finalize"}
	ErrNegotiationPhase        = &EngineError{Code: -41042, Message: "illegal negotiation phase transition"}
	ErrUnknownStakeholder      = &EngineError{Code: -41043, Message: "unknown stakeholder kind"}
	ErrTeamNotFound            = &EngineError{Code: -41044, Message: "team not found"}
	ErrCounterpartNotFound     = &EngineError{Code: -41045, Message: "negotiation counterpart not found"}
)

// ---- Store / persistence errors (-41070 to -41099) ----

var (
	ErrStoreInit       = &EngineError{Code: -41070, Message: "failed to initialize store"}
	ErrStoreQuery      = &EngineError{Code: -41071, Message: "store query failed"}
	ErrStoreWrite      = &EngineError{Code: -41072, Message: "store write failed"}
	ErrSaveNotFound    = &EngineError{Code: -41073, Message: "save slot not found"}
	ErrSnapshotCorrupt = &EngineError{Code: -41074, Message: "save snapshot checksum mismatch"}
)

// ---- Config / fixtures errors (-41100 to -41129) ----

var (
	ErrConfigInvalid  = &EngineError{Code: -41100, Message: "invalid configuration"}
	ErrSeasonFixtures = &EngineError{Code: -41101, Message: "invalid season fixtures"}
)
