package game

import (
	"testing"
	"time"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now: got %v, want %v", c.Now(), start)
	}
	c.Advance(1500 * time.Millisecond)
	if got := c.Now().Sub(start); got != 1500*time.Millisecond {
		t.Errorf("after Advance: got %v, want 1.5s", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("after Set: got %v, want %v", c.Now(), start)
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	var c Clock = NewSystemClock()
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Errorf("system clock went backwards: %v then %v", a, b)
	}
}
