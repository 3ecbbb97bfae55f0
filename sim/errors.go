package sim

import "errors"

// Domain failures. All are local and recoverable: the engine returns one
// of these with zero mutation and the previously returned state stays
// current. The transport adapter matches them with errors.Is to pick a
// client-facing response.
var (
	ErrInvalidAction         = errors.New("invalid action")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrNoTournamentScheduled = errors.New("no tournament scheduled this week")
	ErrSeasonComplete        = errors.New("season is complete")
)
