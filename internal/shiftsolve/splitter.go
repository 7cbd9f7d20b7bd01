package shiftsolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/staffjoy/shiftsolve/internal/parallel"
)

type splitterState int

const (
	splitterFresh splitterState = iota
	splitterWindowed
	splitterSolved
)

// window is a candidate [start, end) range over the flattened weekly
// demand, in flat-index coordinates. end may exceed len(flatDemand) when
// the window wraps circularly past the end of the week.
type window struct {
	start, end int
}

// Splitter flattens a weekly demand matrix into one circular vector,
// partitions it into independent contiguous subproblems (windows), and
// drives a Decompose per window, re-projecting the results back onto
// day+bucket coordinates.
//
// State machine: Fresh -> Windowed -> Solved, advanced monotonically by
// Calculate. GetShifts/Validate/Efficiency require Solved.
type Splitter struct {
	minLength int
	maxLength int

	dayLength  int // B: buckets per day
	weekLength int // D: number of days

	flatDemand []int

	windows []window
	shifts  []DayShift

	opts  Options
	state splitterState
}

// NewSplitter validates that every row of weekDemand has the same
// length and flattens it in row-major order. Returns ErrUnequalDayLength
// otherwise.
func NewSplitter(weekDemand [][]int, minLength, maxLength int, opts Options) (*Splitter, error) {
	if len(weekDemand) == 0 {
		return &Splitter{minLength: minLength, maxLength: maxLength, opts: opts}, nil
	}

	dayLength := len(weekDemand[0])
	for _, day := range weekDemand {
		if len(day) != dayLength {
			return nil, ErrUnequalDayLength
		}
	}

	flat := make([]int, 0, len(weekDemand)*dayLength)
	for _, day := range weekDemand {
		flat = append(flat, day...)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Splitter{
		minLength:  minLength,
		maxLength:  maxLength,
		dayLength:  dayLength,
		weekLength: len(weekDemand),
		flatDemand: flat,
		opts:       opts,
	}, nil
}

// DayLength returns B, the number of buckets per day.
func (s *Splitter) DayLength() int { return s.dayLength }

// WeekLength returns D, the number of days.
func (s *Splitter) WeekLength() int { return s.weekLength }

// FlatDemand returns the flattened weekly demand vector, row-major.
func (s *Splitter) FlatDemand() []int { return s.flatDemand }

// Calculate generates windows over the flattened demand and solves each
// one via Decompose, accumulating their day-projected shifts.
func (s *Splitter) Calculate() error {
	s.generateWindows()
	s.state = splitterWindowed
	if err := s.solveWindows(); err != nil {
		return err
	}
	s.state = splitterSolved
	return nil
}

// GetShifts returns the accumulated shifts, re-projected to
// {day, start, length}. Requires Calculate to have run.
func (s *Splitter) GetShifts() []DayShift {
	out := make([]DayShift, len(s.shifts))
	copy(out, s.shifts)
	return out
}

// flatAt returns flatDemand at index, wrapping circularly past either
// end. It implements the original's (index+1) mod len - 1 formula
// verbatim; combined with that language's always-non-negative modulo and
// negative-index wraparound on the final -1, the formula reduces to
// plain circular indexing (index mod len) for every index, positive or
// one full lap past the end. wrapIndex below carries the literal
// (index+1)-then-subtract-1 shape rather than simplifying to a bare mod,
// so a reader comparing it against the original line by line can see
// they are the same computation.
func (s *Splitter) flatAt(index int) int {
	return s.flatDemand[wrapIndex(index, len(s.flatDemand))]
}

// wrapIndex implements (index+1) mod n - 1 with Python-style (always
// non-negative) modulo, mapping a -1 result (from mod returning 0) to
// n-1. Equivalent to mod(index, n).
func wrapIndex(index, n int) int {
	m := mod(index+1, n)
	if m == 0 {
		return n - 1
	}
	return m - 1
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// isAlwaysOpen detects the 24/7 case: scanning front to back, if a zero
// bucket is found at or beyond index max_length, the week is not
// considered always-open (any zero gap shorter than max_length cannot
// accommodate a shift boundary, so it is ignored as noise).
func (s *Splitter) isAlwaysOpen() bool {
	for i, v := range s.flatDemand {
		if v == 0 && i >= s.maxLength {
			return false
		}
	}
	return true
}

// generateWindows populates s.windows, either one window per day (24/7
// case) or by scanning for maximal non-zero runs with circular wrap.
func (s *Splitter) generateWindows() {
	if s.isAlwaysOpen() {
		s.opts.logf("demand is always-open; windowing day by day")
		for i := 0; i < s.weekLength; i++ {
			start := i * s.dayLength
			end := start + s.dayLength
			s.addWindow(start, end, false)
		}
		return
	}

	n := len(s.flatDemand)
	for start := 0; start < n; start++ {
		if s.flatDemand[start] == 0 {
			continue
		}
		if !(start == 0 || s.flatDemand[start-1] == 0) {
			continue
		}

		for end := start + 1; end < n+s.maxLength; end++ {
			if s.flatAt(end) == 0 && (start == end-1 || s.flatAt(end-1) != 0) {
				s.addWindow(start, end, false)
				break
			}
		}
	}
}

// addWindow admits a candidate [start, end) window, recursing when it
// spans more than one day and dropping it (with logging) when it is
// shorter than minLength and not part of a forced recursive split.
func (s *Splitter) addWindow(start, end int, raiseOnMinLength bool) error {
	length := end - start

	if length < s.minLength {
		if raiseOnMinLength {
			return ErrMinLengthViolated
		}
		if start == 0 {
			s.opts.logf("skipping circular wraparound at beginning of loop")
		} else {
			s.opts.logf("skipping window shorter than min length: [%d,%d)", start, end)
		}
		return nil
	}

	if length > s.dayLength {
		s.opts.logf("splitting oversized window [%d,%d) into subproblems", start, end)
		center := start + (end-start)/2
		snapshot := len(s.windows)

		errA := s.addWindow(start, center, true)
		var errB error
		if errA == nil {
			errB = s.addWindow(center, end, true)
		}

		if errA != nil || errB != nil {
			// The recursive split violated min length somewhere
			// beneath us (possibly several recursion levels down, so
			// more than two windows may have been appended); roll back
			// to the pre-split snapshot and admit the oversized window
			// as one piece instead.
			s.windows = s.windows[:snapshot]
			s.windows = append(s.windows, window{start, end})
		}
		return nil
	}

	s.windows = append(s.windows, window{start, end})
	return nil
}

// solveWindows runs each admitted window through a fresh Decompose and
// accumulates its shifts, day-projected. Windows are independent
// subproblems, so when MaxWindowWorkers allows it they are solved
// concurrently on a shared parallel.WorkerPool; Options.Cache is already
// safe for concurrent access, so this only changes wall-clock time.
func (s *Splitter) solveWindows() error {
	if s.opts.MaxWindowWorkers <= 1 || len(s.windows) <= 1 {
		for i, w := range s.windows {
			shifts, err := s.solveWindow(w)
			if err != nil {
				return err
			}
			s.opts.logf("window %d/%d [%d,%d) solved sequentially", i+1, len(s.windows), w.start, w.end)
			s.shifts = append(s.shifts, shifts...)
		}
		return nil
	}

	maxWorkers := s.opts.MaxWindowWorkers
	if maxWorkers > len(s.windows) {
		maxWorkers = len(s.windows)
	}
	pool := parallel.NewWorkerPool(maxWorkers)
	defer pool.Shutdown()

	results := make([][]DayShift, len(s.windows))
	errs := make([]error, len(s.windows))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i, w := range s.windows {
		i, w := i, w
		wg.Add(1)
		task := func() {
			defer wg.Done()
			shifts, err := s.solveWindow(w)
			results[i] = shifts
			errs[i] = err
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	for i, w := range s.windows {
		if errs[i] != nil {
			return errs[i]
		}
		s.opts.logf("window %d/%d [%d,%d) solved concurrently", i+1, len(s.windows), w.start, w.end)
		s.shifts = append(s.shifts, results[i]...)
	}
	return nil
}

// solveWindow runs a fresh Decompose over a single window's demand slice
// and re-projects its shifts onto {day, start, length}. Safe to call
// concurrently across windows: each Decompose owns its own state, and
// the only shared collaborator, Options.Cache, is itself safe for
// concurrent access.
func (s *Splitter) solveWindow(w window) ([]DayShift, error) {
	demand := s.windowDemand(w.start, w.end)

	d := NewDecompose(demand, s.minLength, s.maxLength, w.start, s.opts)
	if err := d.Calculate(); err != nil {
		return nil, err
	}

	out := make([]DayShift, 0, len(d.GetShifts()))
	for _, shift := range d.GetShifts() {
		out = append(out, s.projectShift(shift))
	}
	return out, nil
}

// windowDemand extracts the demand slice for [start, end), wrapping
// around the flattened vector when end exceeds its length.
func (s *Splitter) windowDemand(start, end int) []int {
	n := len(s.flatDemand)
	if end <= n {
		out := make([]int, end-start)
		copy(out, s.flatDemand[start:end])
		return out
	}
	out := make([]int, 0, end-start)
	out = append(out, s.flatDemand[start:]...)
	out = append(out, s.flatDemand[:end-n]...)
	return out
}

// projectShift maps a flat-index shift onto {day, start, length}.
func (s *Splitter) projectShift(shift Shift) DayShift {
	return DayShift{
		Day:    s.flatIndexToDay(shift.Start),
		Start:  s.flatIndexToTime(shift.Start),
		Length: shift.Length,
	}
}

func (s *Splitter) flatIndexToDay(index int) int {
	if index == 0 {
		return 0
	}
	return index / s.dayLength
}

func (s *Splitter) flatIndexToTime(index int) int {
	return index % s.dayLength
}

// Validate checks that every bucket of the flattened, circular demand is
// covered by at least as many shifts as it demands. Test-only.
func (s *Splitter) Validate() error {
	n := len(s.flatDemand)
	if n == 0 {
		return nil
	}
	supply := make([]int, n)
	for _, shift := range s.shifts {
		flatStart := shift.Day*s.dayLength + shift.Start
		for t := flatStart; t < flatStart+shift.Length; t++ {
			supply[wrapIndex(t, n)]++
		}
	}
	for t, want := range s.flatDemand {
		if supply[t] < want {
			return fmt.Errorf("shiftsolve: Splitter: demand not met at bucket %d (demand %d, supply %d)", t, want, supply[t])
		}
	}
	return nil
}

// Efficiency returns the fractional over-coverage across the whole
// flattened week. Zero when total demand is zero, to avoid a
// divide-by-zero.
func (s *Splitter) Efficiency() float64 {
	demandSum := sumInts(s.flatDemand)
	if demandSum == 0 {
		return 0
	}
	lengthSum := 0
	for _, shift := range s.shifts {
		lengthSum += shift.Length
	}
	return float64(lengthSum)/float64(demandSum) - 1.0
}
