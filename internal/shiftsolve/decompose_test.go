package shiftsolve

import (
	"errors"
	"testing"
	"time"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Cache = NewMemoryCache()
	return opts
}

func TestDecomposeEdgeSmoothing(t *testing.T) {
	demand := []int{3, 3, 2, 2, 4, 2, 3, 1, 3}
	d := NewDecompose(demand, 3, 4, 0, testOptions())

	want := []int{3, 3, 3, 2, 4, 3, 3, 3, 3}
	if len(d.demand) != len(want) {
		t.Fatalf("processed demand length = %d, want %d", len(d.demand), len(want))
	}
	for i, v := range want {
		if d.demand[i] != v {
			t.Errorf("processed demand[%d] = %d, want %d", i, d.demand[i], v)
		}
	}
}

func TestDecomposeLeadingZeroWindowing(t *testing.T) {
	demand := []int{0, 1, 2, 3, 4, 2}
	d := NewDecompose(demand, 1, 2, 0, testOptions())

	wantDemand := []int{1, 2, 3, 4, 2}
	if len(d.demand) != len(wantDemand) {
		t.Fatalf("windowed demand length = %d, want %d", len(d.demand), len(wantDemand))
	}
	for i, v := range wantDemand {
		if d.demand[i] != v {
			t.Errorf("windowed demand[%d] = %d, want %d", i, d.demand[i], v)
		}
	}
	if d.windowOffset != 1 {
		t.Errorf("windowOffset = %d, want 1", d.windowOffset)
	}
}

func TestDecomposeSplitDemand(t *testing.T) {
	demand := []int{0, 1, 2, 3, 4, 2}
	d := NewDecompose(demand, 1, 2, 0, testOptions())

	wantUp := []int{1, 1, 2, 2, 1}
	wantDown := []int{0, 1, 1, 2, 1}

	gotUp := d.splitDemand(true)
	gotDown := d.splitDemand(false)

	if !intsEqual(gotUp, wantUp) {
		t.Errorf("round-up split = %v, want %v", gotUp, wantUp)
	}
	if !intsEqual(gotDown, wantDown) {
		t.Errorf("round-down split = %v, want %v", gotDown, wantDown)
	}
	for i := range gotUp {
		if gotUp[i]+gotDown[i] != d.demand[i] {
			t.Errorf("split halves do not sum to windowed demand at %d: %d + %d != %d", i, gotUp[i], gotDown[i], d.demand[i])
		}
	}
}

func TestDecomposeBikeShopScenario(t *testing.T) {
	demand := []int{0, 0, 0, 0, 0, 0, 0, 5, 5, 7, 8, 6, 6, 7, 7, 7, 9, 9, 6, 5, 4, 4, 0, 0}
	d := NewDecompose(demand, 4, 8, 0, testOptions())

	if err := d.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if eff := d.Efficiency(); eff >= 0.8 {
		t.Errorf("efficiency = %f, want < 0.8", eff)
	}
	for _, s := range d.GetShifts() {
		if s.Length < 4 || s.Length > 8 {
			t.Errorf("shift %v violates min/max length", s)
		}
	}
}

func TestDecomposeHeavyDemandBifurcation(t *testing.T) {
	demand := []int{0, 0, 0, 0, 0, 0, 35, 35, 35, 34, 56, 59, 63, 70, 87, 107, 90, 61, 44, 32, 28}
	opts := testOptions()
	opts.CalculationTimeout = 60 * time.Second
	d := NewDecompose(demand, 4, 8, 0, opts)

	if err := d.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if eff := d.Efficiency(); eff >= 0.8 {
		t.Errorf("efficiency = %f, want < 0.8", eff)
	}
}

func TestDecomposeAllZeroDemand(t *testing.T) {
	demand := make([]int, 10)
	d := NewDecompose(demand, 3, 8, 0, testOptions())

	if err := d.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(d.GetShifts()) != 0 {
		t.Errorf("expected zero shifts for all-zero demand, got %v", d.GetShifts())
	}
	if eff := d.Efficiency(); eff != 0 {
		t.Errorf("efficiency = %f, want 0", eff)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecomposeCalculateIsIdempotentChecked(t *testing.T) {
	demand := []int{1, 2, 3, 2, 1}
	d := NewDecompose(demand, 2, 3, 0, testOptions())

	if err := d.Calculate(); err != nil {
		t.Fatalf("first Calculate: %v", err)
	}
	if err := d.Calculate(); !errors.Is(err, ErrAlreadyCalculated) {
		t.Errorf("second Calculate: got %v, want ErrAlreadyCalculated", err)
	}
}

func TestDecomposeCachePopulatedAfterCalculate(t *testing.T) {
	demand := []int{1, 2, 3, 2, 1}
	opts := testOptions()
	cache := opts.Cache.(*MemoryCache)

	d := NewDecompose(demand, 2, 3, 0, opts)
	key := NewFingerprint(d.demand, d.minLength, d.maxLength)

	if _, ok := cache.Get(key); ok {
		t.Fatal("cache should be empty before Calculate")
	}
	if err := d.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	cached, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected cache hit after Calculate")
	}
	if !shiftsEqual(cached, d.shifts) {
		t.Errorf("cached shifts = %v, want %v", cached, d.shifts)
	}
}

func TestDecomposeCacheHitSkipsRecompute(t *testing.T) {
	demand := []int{1, 2, 3, 2, 1}
	opts := testOptions()
	cache := opts.Cache.(*MemoryCache)

	primed := []Shift{{Start: 0, Length: 5}}
	key := NewFingerprint(demand, 2, 3)
	if err := cache.Set(key, primed); err != nil {
		t.Fatalf("priming cache: %v", err)
	}

	d := NewDecompose(demand, 2, 3, 0, opts)
	if err := d.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !shiftsEqual(d.GetShifts(), primed) {
		t.Errorf("expected primed cache entry to be used verbatim, got %v", d.GetShifts())
	}
}

func TestDecomposeWindowOffsetAppliedToShifts(t *testing.T) {
	demand := []int{1, 2, 3, 2, 1}
	d := NewDecompose(demand, 2, 3, 10, testOptions())
	if err := d.Calculate(); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	for i, s := range d.GetShifts() {
		if s.Start < 10 {
			t.Errorf("shift %d start %d not offset by windowOffset", i, s.Start)
		}
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
