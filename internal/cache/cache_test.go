package cache

import (
	"testing"

	"github.com/irfansharif/voxl/internal/voxel"
)

func coord(x int64) voxel.Coord { return voxel.Coord{X: x} }

func TestInsertBoundsResidency(t *testing.T) {
	c := New(3)
	for i := int64(0); i < 10; i++ {
		c.Insert(coord(i), nil)
		if c.Len() > 3 {
			t.Fatalf("residency %d exceeds capacity after insert %d", c.Len(), i)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(3)
	c.Insert(coord(1), nil)
	c.Insert(coord(2), nil)
	c.Insert(coord(3), nil)

	// Touch 1 and 2; 3 becomes the coldest entry.
	if !c.Touch(coord(1)) || !c.Touch(coord(2)) {
		t.Fatalf("touch of resident coord failed")
	}

	evicted := c.Insert(coord(4), nil)
	if len(evicted) != 1 || evicted[0] != coord(3) {
		t.Fatalf("evicted %v, want [%v]", evicted, coord(3))
	}
	if c.Contains(coord(3)) {
		t.Fatalf("evicted coord still resident")
	}
	for _, want := range []voxel.Coord{coord(1), coord(2), coord(4)} {
		if !c.Contains(want) {
			t.Fatalf("%v missing after eviction", want)
		}
	}
}

func TestTouchRefreshesRecency(t *testing.T) {
	c := New(2)
	c.Insert(coord(1), nil)
	c.Insert(coord(2), nil)

	// 1 was inserted first but touched since; 2 is now the coldest.
	c.Touch(coord(1))

	evicted := c.Insert(coord(3), nil)
	if len(evicted) != 1 || evicted[0] != coord(2) {
		t.Fatalf("evicted %v, want [%v]", evicted, coord(2))
	}
}

func TestInsertNeverEvictsItself(t *testing.T) {
	c := New(1)
	c.Insert(coord(1), nil)
	evicted := c.Insert(coord(2), nil)
	if len(evicted) != 1 || evicted[0] != coord(1) {
		t.Fatalf("evicted %v, want [%v]", evicted, coord(1))
	}
	if !c.Contains(coord(2)) {
		t.Fatalf("fresh insert was evicted")
	}
}

func TestTouchMissingCoord(t *testing.T) {
	c := New(2)
	if c.Touch(coord(9)) {
		t.Fatalf("touch of absent coord reported success")
	}
}

func TestRemove(t *testing.T) {
	c := New(2)
	c.Insert(coord(1), nil)
	if !c.Remove(coord(1)) {
		t.Fatalf("remove of resident coord failed")
	}
	if c.Remove(coord(1)) {
		t.Fatalf("second remove reported success")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after remove, want 0", c.Len())
	}
}

func TestCoordsOutside(t *testing.T) {
	c := New(16)
	for i := int64(0); i < 8; i++ {
		c.Insert(coord(i), nil)
	}
	out := c.CoordsOutside(coord(0), 5)
	if len(out) != 2 {
		t.Fatalf("CoordsOutside returned %v, want coords 6 and 7", out)
	}
	for _, got := range out {
		if got != coord(6) && got != coord(7) {
			t.Fatalf("unexpected out-of-radius coord %v", got)
		}
	}
}

func TestStats(t *testing.T) {
	c := New(2)
	c.Insert(coord(1), nil)
	c.Insert(coord(2), nil)
	c.Touch(coord(1))
	c.Insert(coord(3), nil) // capacity-evicts 2
	c.Remove(coord(3))      // radius path

	s := c.Stats()
	if s.Inserts != 3 || s.Hits != 1 || s.CapacityEvictions != 1 || s.RadiusEvictions != 1 {
		t.Fatalf("Stats() = %+v", s)
	}
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New(0) did not panic")
		}
	}()
	New(0)
}
