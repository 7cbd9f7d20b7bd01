package shiftsolve

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Options bundles the collaborators and tunables a Decompose needs,
// separate from the demand/length arguments that define the subproblem
// itself. The cache and logger are injected rather than reached for as
// package globals, so recursive subproblems and tests can share (or not
// share) state explicitly.
type Options struct {
	// CalculationTimeout bounds a single Decompose's branch-and-bound
	// search. Recursive bifurcation subproblems each get this same
	// budget fresh — timeouts do not compound across recursion levels.
	CalculationTimeout time.Duration

	// BifurcationThreshold is the minimum sum(demand) that triggers
	// recursive halving instead of direct search.
	BifurcationThreshold int

	Cache  Cache
	Logger *slog.Logger

	// MaxWindowWorkers bounds how many of a Splitter's windows are solved
	// concurrently. Windows are independent subproblems once generated, so
	// this only affects wall-clock time, never results. 0 or 1 solves
	// windows sequentially in a single goroutine, which is also what a
	// Splitter falls back to when it has at most one window. With more
	// windows than that, the pool is sized to the smaller of this value
	// and the window count.
	MaxWindowWorkers int
}

// DefaultOptions returns production-shaped defaults: a 600 second
// timeout, a bifurcation threshold of 100, a fresh in-memory cache, and a
// logger discarding its output.
func DefaultOptions() Options {
	return Options{
		CalculationTimeout:   600 * time.Second,
		BifurcationThreshold: 100,
		Cache:                NewMemoryCache(),
		Logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxWindowWorkers:     1,
	}
}

// Decompose solves a single contiguous demand vector into a shift set
// meeting or exceeding demand at every bucket, minimizing total
// over-coverage and, secondarily, preferring longer shifts.
type Decompose struct {
	rawDemand []int // as given to the constructor, for inspection/tests
	demand    []int // post-windowing, post-edge-smoothing

	minLength int
	maxLength int

	// windowOffset locates this subproblem's bucket 0 within whatever
	// larger vector it was carved from. It accumulates any leading
	// zeros stripped during preprocessing, on top of whatever offset
	// the caller supplied (e.g. a Splitter window's start).
	windowOffset int

	opts Options

	shifts     []Shift
	calculated bool
	timedOut   bool
}

// NewDecompose constructs a Decompose over demand, which is copied and
// then preprocessed (trailing/leading zero trimming, edge smoothing).
// windowOffset is the caller's notion of where demand[0] sits in some
// larger vector (0 if demand is not a window of anything else).
func NewDecompose(demand []int, minLength, maxLength, windowOffset int, opts Options) *Decompose {
	raw := make([]int, len(demand))
	copy(raw, demand)

	d := &Decompose{
		rawDemand:    raw,
		demand:       append([]int(nil), demand...),
		minLength:    minLength,
		maxLength:    maxLength,
		windowOffset: windowOffset,
		opts:         opts,
	}
	d.processDemand()
	return d
}

// processDemand trims trailing and leading zeros (tracking the leading
// count into windowOffset) and applies edge smoothing so the search can
// always end a shift of length >= minLength flush against either edge
// without leaving an orphan deficit.
func (d *Decompose) processDemand() {
	demand := d.demand

	for len(demand) > 0 && demand[len(demand)-1] == 0 {
		demand = demand[:len(demand)-1]
	}

	leading := 0
	for len(demand) > 0 && demand[0] == 0 {
		demand = demand[1:]
		leading++
	}
	d.windowOffset += leading

	// Smooth the leading edge: track a running peak over the first
	// minLength buckets; dips below the peak are raised to it.
	peak := 0
	for t := 0; t < d.minLength && t < len(demand); t++ {
		if demand[t] > peak {
			peak = demand[t]
		} else if demand[t] < peak {
			demand[t] = peak
		}
	}

	// Smooth the trailing edge, scanning right-to-left. The window
	// scanned is minLength+1 buckets wide (len(demand)-minLength-1
	// through len(demand)-1), matching the original implementation's
	// off-by-one-wide window verbatim rather than trimming it to
	// exactly minLength buckets.
	peak = 0
	start := len(demand) - d.minLength - 1
	if start < 0 {
		start = 0
	}
	for t := len(demand) - 1; t >= start; t-- {
		if demand[t] > peak {
			peak = demand[t]
		} else if demand[t] < peak {
			demand[t] = peak
		}
	}

	d.opts.logf("windowing removed %d leading zeros, processed demand %v", leading, demand)
	d.demand = demand
}

// ProcessedDemand returns the demand vector after leading/trailing zero
// trimming and edge smoothing, the form actually searched and
// fingerprinted. Exposed for inspection (tests, demos) rather than used
// internally, since every method that needs it already holds d.demand.
func (d *Decompose) ProcessedDemand() []int {
	out := make([]int, len(d.demand))
	copy(out, d.demand)
	return out
}

// SplitDemand returns the round-up or round-down half of the processed
// demand vector, the same split Calculate uses internally above the
// bifurcation threshold.
func (d *Decompose) SplitDemand(roundUp bool) []int {
	return d.splitDemand(roundUp)
}

func (o Options) logf(template string, args ...interface{}) {
	if o.Logger == nil {
		return
	}
	o.Logger.Debug(fmt.Sprintf(template, args...))
}

// splitDemand halves d.demand elementwise, rounding up or down, for
// recursive bifurcation. ceil(d/2) + floor(d/2) == d elementwise by
// construction (integer division rounds down; the ceil branch adds the
// one lost to that rounding back when the value is odd).
func (d *Decompose) splitDemand(roundUp bool) []int {
	out := make([]int, len(d.demand))
	for i, v := range d.demand {
		half := v / 2
		if roundUp && v%2 != 0 {
			half++
		}
		out[i] = half
	}
	return out
}

// Calculate populates the instance's shift list, either from the cache
// or by computing it (directly, or via recursive bifurcation for
// large demand sums). It is idempotent-checked: a second call on the
// same instance returns ErrAlreadyCalculated.
func (d *Decompose) Calculate() error {
	if d.calculated {
		return ErrAlreadyCalculated
	}
	d.calculated = true

	// All-zero demand trims to an empty vector: there is nothing to
	// cover, so no shifts are produced and nothing is cached.
	if len(d.demand) == 0 {
		return nil
	}

	key := NewFingerprint(d.demand, d.minLength, d.maxLength)
	if cached, ok := d.opts.Cache.Get(key); ok {
		d.opts.logf("cache hit for fingerprint %s", key)
		d.shifts = cached
		return nil
	}

	demandSum := sumInts(d.demand)
	if demandSum > d.opts.BifurcationThreshold {
		d.opts.logf("bifurcating (demand sum %d, threshold %d)", demandSum, d.opts.BifurcationThreshold)

		up := NewDecompose(d.splitDemand(true), d.minLength, d.maxLength, 0, d.opts)
		low := NewDecompose(d.splitDemand(false), d.minLength, d.maxLength, 0, d.opts)

		if err := up.Calculate(); err != nil {
			return err
		}
		if err := low.Calculate(); err != nil {
			return err
		}

		d.shifts = append(d.shifts, up.GetShifts()...)
		d.shifts = append(d.shifts, low.GetShifts()...)
		return d.writeCache(key)
	}

	shifts, timedOut, err := d.search()
	if err != nil {
		return err
	}
	d.shifts = shifts
	d.timedOut = timedOut
	return d.writeCache(key)
}

func (d *Decompose) writeCache(key Fingerprint) error {
	if err := d.opts.Cache.Set(key, d.shifts); err != nil {
		return fmt.Errorf("shiftsolve: Decompose: %w", err)
	}
	return nil
}

// TimedOut reports whether the branch-and-bound search exhausted its
// calculation timeout rather than proving optimality. A timed-out result
// is still feasible (at minimum, the heuristic seed) — it is simply not
// proven optimal. Always false when bifurcation recursion was used,
// since the timeout applies per-leaf-subproblem.
func (d *Decompose) TimedOut() bool {
	return d.timedOut
}

// GetShifts returns this subproblem's shifts with windowOffset applied,
// i.e. in the coordinate system of whatever vector this Decompose's
// demand was carved from.
func (d *Decompose) GetShifts() []Shift {
	out := make([]Shift, len(d.shifts))
	for i, s := range d.shifts {
		out[i] = Shift{Start: s.Start + d.windowOffset, Length: s.Length}
	}
	return out
}

// Efficiency returns (sum of shift lengths)/(sum of demand) - 1.0: the
// fractional over-coverage. Zero is perfectly optimal; it is never
// negative for a feasible solution. If shifts is omitted, the instance's
// own computed shifts are used.
func (d *Decompose) Efficiency(shifts ...[]Shift) float64 {
	var s []Shift
	if len(shifts) > 0 {
		s = shifts[0]
	} else {
		s = d.shifts
	}

	demandSum := sumInts(d.demand)
	if demandSum == 0 {
		return 0
	}

	lengthSum := 0
	for _, shift := range s {
		lengthSum += shift.Length
	}
	return float64(lengthSum)/float64(demandSum) - 1.0
}

// Validate asserts that the computed shifts meet or exceed demand at
// every bucket of this subproblem's processed demand vector. Test-only.
func (d *Decompose) Validate() error {
	supply := make([]int, len(d.demand))
	for _, s := range d.shifts {
		for t := s.Start; t < s.End(); t++ {
			supply[t]++
		}
	}
	for t, want := range d.demand {
		if supply[t] < want {
			return fmt.Errorf("shiftsolve: Decompose: demand not met at bucket %d (demand %d, supply %d)", t+d.windowOffset, want, supply[t])
		}
	}
	return nil
}

// search runs the heuristic seed followed by DFS branch-and-bound,
// bounded by opts.CalculationTimeout. On timeout it returns the
// best-known feasible solution found so far along with timedOut=true;
// this is not an error.
func (d *Decompose) search() ([]Shift, bool, error) {
	seed, err := d.heuristicSeed()
	if err != nil {
		return nil, false, err
	}

	bestKnownCoverage := seed.CoverageSum()
	bestKnownSolution := seed

	d.opts.logf("seed coverage %d, demand sum %d", bestKnownCoverage, sumInts(d.demand))

	stack := []*ShiftCollection{NewShiftCollection(d.minLength, d.maxLength, d.demand)}
	startTime := time.Now()
	timedOut := false

	for len(stack) > 0 {
		if d.opts.CalculationTimeout > 0 && time.Since(startTime) > d.opts.CalculationTimeout {
			d.opts.logf("search timed out after %s", time.Since(startTime))
			timedOut = true
			break
		}

		working := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if working.IsOptimal() {
			return working.Shifts(), false, nil
		}

		if working.DemandIsMet() {
			if working.CoverageSum() < bestKnownCoverage {
				bestKnownSolution = working
				bestKnownCoverage = working.CoverageSum()
			}
			continue
		}

		if working.BestPossibleCoverage() >= bestKnownCoverage {
			continue
		}

		t := working.FirstUnmetBucket()
		for length := d.maxLength; length >= d.minLength; length-- {
			if t+length > working.DemandLength() {
				continue
			}

			candidate := working.Clone()
			if err := candidate.AddShift(Shift{Start: t, Length: length}); err != nil {
				return nil, false, fmt.Errorf("shiftsolve: Decompose: %w", err)
			}

			if candidate.DemandIsMet() {
				candidate.Anneal()
			}

			if candidate.BestPossibleCoverage() < bestKnownCoverage {
				stack = append(stack, candidate)
			}
		}
	}

	return bestKnownSolution.Shifts(), timedOut, nil
}

// heuristicSeed builds a feasible (but not necessarily optimal) solution
// to seed branch-and-bound with an initial bound: min-length shifts
// covering the right edge, then a left-to-right sweep filling any
// remaining deficit with min-length shifts.
func (d *Decompose) heuristicSeed() (*ShiftCollection, error) {
	collection := NewShiftCollection(d.minLength, d.maxLength, d.demand)

	total := len(d.demand)
	endStart := total - d.minLength
	endShift := Shift{Start: endStart, Length: d.minLength}
	for i := 0; i < d.demand[total-1]; i++ {
		if err := collection.AddShift(endShift); err != nil {
			return nil, fmt.Errorf("shiftsolve: Decompose: %w", err)
		}
	}

	for t := 0; t < total; t++ {
		for collection.DemandMinusCoverage(t) > 0 {
			start := t
			length := d.minLength
			if start+length > total {
				start = total - length
			}
			if err := collection.AddShift(Shift{Start: start, Length: length}); err != nil {
				return nil, fmt.Errorf("shiftsolve: Decompose: %w", err)
			}
		}
	}

	if !collection.DemandIsMet() {
		return nil, ErrInfeasibleHeuristic
	}
	return collection, nil
}

func sumInts(xs []int) int {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return sum
}
