package shiftsolve

import (
	"testing"
	"time"
)

func testSplitterOptions() Options {
	opts := DefaultOptions()
	opts.Cache = NewMemoryCache()
	opts.CalculationTimeout = 30 * time.Second
	return opts
}

func TestSplitterUnequalDayLength(t *testing.T) {
	week := [][]int{{1, 2, 3}, {1, 2}}
	_, err := NewSplitter(week, 3, 4, testSplitterOptions())
	if err == nil {
		t.Fatal("expected ErrUnequalDayLength")
	}
}

func TestSplitterStandardWindowing(t *testing.T) {
	week := [][]int{{1, 2, 3, 0}, {1, 3, 1, 0}, {1, 1, 1, 0}}
	s, err := NewSplitter(week, 3, 4, testSplitterOptions())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}

	s.generateWindows()

	want := []window{{0, 3}, {4, 7}, {8, 11}}
	if len(s.windows) != len(want) {
		t.Fatalf("windows = %v, want %v", s.windows, want)
	}
	for i, w := range want {
		if s.windows[i] != w {
			t.Errorf("window %d = %v, want %v", i, s.windows[i], w)
		}
	}
}

func TestSplitterAlwaysOpenWindowing(t *testing.T) {
	week := [][]int{{1, 2, 3, 4}, {1, 3, 1, 8}, {1, 1, 1, 2}}
	s, err := NewSplitter(week, 3, 4, testSplitterOptions())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}

	if !s.isAlwaysOpen() {
		t.Fatal("expected always-open demand to be detected")
	}

	s.generateWindows()

	want := []window{{0, 4}, {4, 8}, {8, 12}}
	if len(s.windows) != len(want) {
		t.Fatalf("windows = %v, want %v", s.windows, want)
	}
	for i, w := range want {
		if s.windows[i] != w {
			t.Errorf("window %d = %v, want %v", i, s.windows[i], w)
		}
	}
}

func TestSplitterFlatAtCircularWrap(t *testing.T) {
	week := [][]int{{1, 2, 3}}
	s, err := NewSplitter(week, 1, 2, testSplitterOptions())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}

	n := len(s.flatDemand)
	for index := 0; index < 2*n; index++ {
		if got, want := s.flatAt(index), s.flatDemand[index%n]; got != want {
			t.Errorf("flatAt(%d) = %d, want %d", index, got, want)
		}
	}
}

func TestSplitterAllZeroDemand(t *testing.T) {
	week := [][]int{{0, 0, 0}, {0, 0, 0}}
	s, err := NewSplitter(week, 3, 4, testSplitterOptions())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}

	if err := s.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(s.GetShifts()) != 0 {
		t.Errorf("expected zero shifts, got %v", s.GetShifts())
	}
	if eff := s.Efficiency(); eff != 0 {
		t.Errorf("efficiency = %f, want 0", eff)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSplitterEndToEndValidate(t *testing.T) {
	week := [][]int{
		{0, 0, 3, 5, 6, 4, 0, 0},
		{0, 0, 2, 6, 7, 3, 0, 0},
		{0, 0, 4, 5, 5, 2, 0, 0},
	}
	s, err := NewSplitter(week, 2, 4, testSplitterOptions())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}

	if err := s.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, ds := range s.GetShifts() {
		if ds.Length < 2 || ds.Length > 4 {
			t.Errorf("day-shift %v violates min/max length", ds)
		}
		if ds.Day < 0 || ds.Day >= s.WeekLength() {
			t.Errorf("day-shift %v has out-of-range day", ds)
		}
	}
}

func TestSplitterOversizedWindowRecursiveSplit(t *testing.T) {
	// A single nonzero run six buckets long, spanning both days, forces
	// generateWindows to discover one (0,6) window that exceeds
	// dayLength (4) and must be recursively halved.
	week := [][]int{
		{1, 1, 1, 1},
		{1, 1, 0, 0},
	}
	s, err := NewSplitter(week, 2, 3, testSplitterOptions())
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}

	if s.isAlwaysOpen() {
		t.Fatal("expected non-always-open demand")
	}

	s.generateWindows()

	want := []window{{0, 3}, {3, 6}}
	if len(s.windows) != len(want) {
		t.Fatalf("windows = %v, want %v", s.windows, want)
	}
	for i, w := range want {
		if s.windows[i] != w {
			t.Errorf("window %d = %v, want %v", i, s.windows[i], w)
		}
	}

	if err := s.solveWindows(); err != nil {
		t.Fatalf("solveWindows: %v", err)
	}
	s.state = splitterSolved
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSplitterConcurrentWindowsMatchSequential(t *testing.T) {
	week := [][]int{
		{0, 0, 3, 5, 6, 4, 0, 0},
		{0, 0, 2, 6, 7, 3, 0, 0},
		{0, 0, 4, 5, 5, 2, 0, 0},
	}

	seqOpts := testSplitterOptions()
	seq, err := NewSplitter(week, 2, 4, seqOpts)
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	if err := seq.Calculate(); err != nil {
		t.Fatalf("Calculate (sequential): %v", err)
	}

	parOpts := testSplitterOptions()
	parOpts.MaxWindowWorkers = 4
	par, err := NewSplitter(week, 2, 4, parOpts)
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	if err := par.Calculate(); err != nil {
		t.Fatalf("Calculate (concurrent): %v", err)
	}
	if err := par.Validate(); err != nil {
		t.Fatalf("Validate (concurrent): %v", err)
	}

	seqShifts, parShifts := seq.GetShifts(), par.GetShifts()
	if len(seqShifts) != len(parShifts) {
		t.Fatalf("shift count mismatch: sequential %d, concurrent %d", len(seqShifts), len(parShifts))
	}
	for i := range seqShifts {
		if seqShifts[i] != parShifts[i] {
			t.Errorf("shift %d mismatch: sequential %v, concurrent %v", i, seqShifts[i], parShifts[i])
		}
	}
}
