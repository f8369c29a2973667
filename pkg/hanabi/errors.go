package hanabi

import "errors"

// Error taxonomy per the error-handling design: each kind is a sentinel
// wrapped with context via fmt.Errorf("...: %w", ...) and returned; the
// driver logs a returned error and keeps processing events. None of these
// are ever panicked, and this package has no panic/recover boundary: the
// finesse simulator's badPlay signal is a returned error too.
var (
	// ErrUnimplementedVariant marks a variant/player-count combination the
	// encoder has no residue table or raw-residue rule for. Never silently
	// miscompute — callers must log and skip the clue.
	ErrUnimplementedVariant = errors.New("hanabi: unimplemented variant combination")

	// ErrContradiction is returned by a convention's ChooseAction when no
	// action can be built because the observer's hand is empty. A candidate
	// set emptied by convention-level narrowing does not surface as this
	// error: it is recovered locally by restoring candidates from
	// possibilities.
	ErrContradiction = errors.New("hanabi: candidate set contradiction")

	// ErrProtocolViolation marks a malformed or unknown inbound event.
	ErrProtocolViolation = errors.New("hanabi: protocol violation")

	// errBadPlay is the finesse/prompt simulator's local control-flow signal:
	// a simulated play onto a stack that isn't actually playable. It never
	// escapes the hgroup.go resolver as a panic.
	errBadPlay = errors.New("hanabi: bad play in simulation")
)
