package shiftsolve

import "fmt"

// ShiftCollection owns a partial or complete shift set for a single
// demand vector plus its incrementally-maintained coverage vector. It is
// the unit of value-copy in Decompose's branch-and-bound search: every
// branch clones its parent's ShiftCollection before trying a new shift.
//
// Demand is shared by reference and never mutated; Shifts and Coverage
// are owned by this instance and cloned on Clone.
type ShiftCollection struct {
	MinLength int
	MaxLength int

	demand   []int
	coverage []int
	shifts   []Shift
}

// NewShiftCollection builds an empty collection over demand. demand is
// held by reference; callers must not mutate it afterwards.
func NewShiftCollection(minLength, maxLength int, demand []int) *ShiftCollection {
	return &ShiftCollection{
		MinLength: minLength,
		MaxLength: maxLength,
		demand:    demand,
		coverage:  make([]int, len(demand)),
	}
}

// Clone returns a deep copy suitable for an independent search branch.
// demand is shared (it is logically immutable for the collection's
// lifetime); shifts and coverage are copied.
func (c *ShiftCollection) Clone() *ShiftCollection {
	clone := &ShiftCollection{
		MinLength: c.MinLength,
		MaxLength: c.MaxLength,
		demand:    c.demand,
		coverage:  make([]int, len(c.coverage)),
		shifts:    make([]Shift, len(c.shifts)),
	}
	copy(clone.coverage, c.coverage)
	copy(clone.shifts, c.shifts)
	return clone
}

// Shifts returns the collection's shifts. The slice must not be mutated
// by the caller; AddShift and anneal are the only ways to change it.
func (c *ShiftCollection) Shifts() []Shift {
	return c.shifts
}

// DemandLength returns the length of the underlying demand vector.
func (c *ShiftCollection) DemandLength() int {
	return len(c.demand)
}

// ShiftCount returns how many shifts have been added.
func (c *ShiftCollection) ShiftCount() int {
	return len(c.shifts)
}

// AddShift appends a shift and increments coverage over its span. O(length).
func (c *ShiftCollection) AddShift(s Shift) error {
	end := s.End()
	if s.Start < 0 || end > len(c.demand) {
		return fmt.Errorf("%w (demand length %d, shift start %d, shift end %d)",
			ErrShiftOutOfBounds, len(c.demand), s.Start, end)
	}

	for t := s.Start; t < end; t++ {
		c.coverage[t]++
	}
	c.shifts = append(c.shifts, s)
	return nil
}

// DemandMinusCoverage returns demand[t] - coverage[t]: positive means
// under-scheduled, zero optimal, negative over-scheduled.
func (c *ShiftCollection) DemandMinusCoverage(t int) int {
	return c.demand[t] - c.coverage[t]
}

// CoverageSum is the total scheduled coverage across all buckets.
func (c *ShiftCollection) CoverageSum() int {
	sum := 0
	for _, v := range c.coverage {
		sum += v
	}
	return sum
}

// BestPossibleCoverage is the branch-and-bound lower bound: the
// irreducible over-coverage already committed, plus the remaining ideal
// (demand-exact) coverage still to be scheduled.
func (c *ShiftCollection) BestPossibleCoverage() int {
	best := 0
	for _, d := range c.demand {
		best += d
	}
	for t := range c.demand {
		if delta := c.DemandMinusCoverage(t); delta < 0 {
			best += -delta
		}
	}
	return best
}

// DemandIsMet reports whether coverage meets or exceeds demand everywhere.
func (c *ShiftCollection) DemandIsMet() bool {
	for t := range c.demand {
		if c.DemandMinusCoverage(t) > 0 {
			return false
		}
	}
	return true
}

// IsOptimal reports whether coverage exactly equals demand everywhere.
func (c *ShiftCollection) IsOptimal() bool {
	for t := range c.demand {
		if c.DemandMinusCoverage(t) != 0 {
			return false
		}
	}
	return true
}

// FirstUnmetBucket returns the smallest t with demand[t] > coverage[t].
// It panics if demand is already met — callers must check DemandIsMet
// first, matching the precondition documented in spec.
func (c *ShiftCollection) FirstUnmetBucket() int {
	for t := range c.demand {
		if c.demand[t] > c.coverage[t] {
			return t
		}
	}
	panic(fmt.Sprintf("shiftsolve: FirstUnmetBucket called with demand already met (demand %v, coverage %v)", c.demand, c.coverage))
}

// Anneal shrinks shifts at over-covered boundaries until a full pass
// makes no further change. Precondition: DemandIsMet. Feasibility
// (DemandIsMet) is preserved by construction — a shrink only ever
// removes coverage at a bucket that was already over-covered.
//
// The right-edge branch below checks length > MaxLength, which under
// normal AddShift usage (length is always ≤ MaxLength already) can never
// fire. This mirrors the original implementation; preserved verbatim
// rather than "corrected" to length > MinLength, since the corrected
// condition was never exercised in production and changing it now would
// be a silent behavior change.
func (c *ShiftCollection) Anneal() {
	if !c.DemandIsMet() {
		panic("shiftsolve: Anneal called on a collection that does not meet demand")
	}

	improvementMade := true
	for improvementMade {
		improvementMade = false

		for t := range c.demand {
			if c.DemandMinusCoverage(t) >= 0 {
				continue
			}

			for i, s := range c.shifts {
				end := s.End()
				if s.Start == t && s.Length > c.MinLength && c.DemandMinusCoverage(t) < 0 {
					c.shifts[i] = Shift{Start: s.Start + 1, Length: s.Length - 1}
					c.coverage[t]--
					improvementMade = true
				}
				if end == t && s.Length > c.MaxLength && c.DemandMinusCoverage(t) < 0 {
					c.shifts[i] = Shift{Start: s.Start, Length: s.Length - 1}
					c.coverage[t]--
					improvementMade = true
				}
			}
		}
	}
}
