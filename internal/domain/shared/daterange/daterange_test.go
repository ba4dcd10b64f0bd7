package daterange

import (
	"testing"
	"time"
)

func date(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	if _, err := New(date(5), date(3)); err != ErrInvalidRange {
		t.Errorf("New(5,3) err = %v, want ErrInvalidRange", err)
	}
	if _, err := New(date(5), date(5)); err != ErrInvalidRange {
		t.Errorf("New(5,5) err = %v, want ErrInvalidRange", err)
	}
	if _, err := New(time.Time{}, date(5)); err != ErrInvalidRange {
		t.Errorf("New(zero,5) err = %v, want ErrInvalidRange", err)
	}
}

func TestNights(t *testing.T) {
	dr, err := New(date(10), date(13))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := dr.Nights(); got != 3 {
		t.Errorf("Nights() = %d, want 3", got)
	}

	// A partial day rounds up.
	dr, err = New(date(10), date(11).Add(6*time.Hour))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := dr.Nights(); got != 2 {
		t.Errorf("Nights() with partial day = %d, want 2", got)
	}

	// Shortest valid range still counts one night.
	dr, err = New(date(10), date(10).Add(time.Hour))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := dr.Nights(); got != 1 {
		t.Errorf("Nights() for sub-day range = %d, want 1", got)
	}
}

func TestConflictsInclusiveBoundaries(t *testing.T) {
	a, _ := New(date(1), date(4))
	b, _ := New(date(4), date(6))

	// Back-to-back stays share day 4 and must conflict, symmetrically.
	if !a.Conflicts(b) {
		t.Error("a.Conflicts(b) = false, want true for shared boundary day")
	}
	if !b.Conflicts(a) {
		t.Error("b.Conflicts(a) = false, want true for shared boundary day")
	}
}

func TestConflictsDisjointRanges(t *testing.T) {
	a, _ := New(date(1), date(4))
	b, _ := New(date(5), date(8))

	if a.Conflicts(b) || b.Conflicts(a) {
		t.Error("disjoint ranges reported as conflicting")
	}
}

func TestConflictsContainedRange(t *testing.T) {
	outer, _ := New(date(1), date(10))
	inner, _ := New(date(3), date(5))

	if !outer.Conflicts(inner) || !inner.Conflicts(outer) {
		t.Error("contained range not reported as conflicting")
	}
}
