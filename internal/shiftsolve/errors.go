// Package shiftsolve decomposes per-bucket staffing demand into a set of
// work shifts bounded by a minimum and maximum length, such that supply
// meets demand everywhere at minimal total over-coverage.
package shiftsolve

import "errors"

// Sentinel errors surfaced at the package boundary. Callers should use
// errors.Is rather than comparing errors directly: some call paths return
// these bare, others wrap them with the originating component name.
var (
	// ErrUnequalDayLength is returned when a weekly demand matrix's rows
	// are not all the same length.
	ErrUnequalDayLength = errors.New("shiftsolve: day demand vectors have unequal length")

	// ErrInfeasibleHeuristic is returned when the greedy seed in
	// Decompose cannot meet demand. Edge smoothing is supposed to
	// guarantee feasibility, so this indicates a bug in edge smoothing
	// or corrupted input reaching the solver directly (bypassing
	// Splitter's windowing).
	ErrInfeasibleHeuristic = errors.New("shiftsolve: heuristic seed failed to meet demand")

	// ErrShiftOutOfBounds is returned by ShiftCollection.AddShift when
	// the shift's start or end lies outside the demand vector.
	ErrShiftOutOfBounds = errors.New("shiftsolve: shift lies outside demand bounds")

	// ErrEmptyCacheWrite is returned when a Cache.Set is attempted with
	// an empty shift list, guarding against caching a bogus "no work
	// needed" result for non-zero demand.
	ErrEmptyCacheWrite = errors.New("shiftsolve: refusing to cache an empty shift list")

	// ErrAlreadyCalculated is returned when Decompose.Calculate is
	// invoked a second time on the same instance.
	ErrAlreadyCalculated = errors.New("shiftsolve: Calculate already invoked on this instance")

	// ErrMinLengthViolated is returned internally by window admission
	// when a recursively split window would be shorter than min_length;
	// Splitter recovers from it by admitting the oversized window whole.
	ErrMinLengthViolated = errors.New("shiftsolve: window shorter than min length")
)
