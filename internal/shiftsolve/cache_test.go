package shiftsolve

import (
	"errors"
	"testing"
)

func TestFingerprintStability(t *testing.T) {
	demand := []int{1, 2, 3}
	a := NewFingerprint(demand, 2, 4)
	b := NewFingerprint([]int{1, 2, 3}, 2, 4)
	if a != b {
		t.Errorf("fingerprints for identical inputs differ: %s vs %s", a, b)
	}
}

func TestFingerprintDistinguishesMinLength(t *testing.T) {
	demand := []int{1, 2, 3}
	a := NewFingerprint(demand, 2, 4)
	b := NewFingerprint(demand, 3, 4)
	if a == b {
		t.Error("fingerprints should differ when min_length differs, even for identical demand")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	key := NewFingerprint([]int{1, 2, 3}, 2, 4)

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss before Set")
	}

	shifts := []Shift{{Start: 0, Length: 3}}
	if err := c.Set(key, shifts); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if !shiftsEqual(got, shifts) {
		t.Errorf("Get = %v, want %v", got, shifts)
	}

	other := NewFingerprint([]int{4, 5, 6}, 2, 4)
	if _, ok := c.Get(other); ok {
		t.Error("expected miss for unrelated key")
	}
}

func TestMemoryCacheRejectsEmptyWrite(t *testing.T) {
	c := NewMemoryCache()
	key := NewFingerprint([]int{1}, 1, 1)
	if err := c.Set(key, nil); !errors.Is(err, ErrEmptyCacheWrite) {
		t.Errorf("Set(nil) = %v, want ErrEmptyCacheWrite", err)
	}
}

func TestMemoryCacheFlush(t *testing.T) {
	c := NewMemoryCache()
	key := NewFingerprint([]int{1, 2}, 1, 2)
	if err := c.Set(key, []Shift{{0, 2}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	c.Flush()

	if c.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", c.Len())
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after Flush")
	}
}
