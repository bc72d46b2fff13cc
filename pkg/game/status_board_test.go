package game

import (
	"testing"
	"time"
)

func TestStatusBoardText(t *testing.T) {
	sb := NewStatusBoard(NewMockClock(time.Unix(0, 0)))
	if sb.Text() != "" {
		t.Errorf("initial text: got %q", sb.Text())
	}
	sb.SetStatusText("Fist - Fireworks!")
	sb.SetStatusText("Fist - Fireworks!")
	if sb.Text() != "Fist - Fireworks!" {
		t.Errorf("text: got %q", sb.Text())
	}
}

func TestStatusBoardCelebration(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	sb := NewStatusBoard(clock)

	if _, active := sb.Celebration(); active {
		t.Fatal("celebration should not be active before trigger")
	}

	sb.TriggerCelebrationAnimation()
	clock.Advance(1500 * time.Millisecond)
	progress, active := sb.Celebration()
	if !active || progress != 0.5 {
		t.Errorf("at 1.5s: got progress=%v active=%v, want 0.5 true", progress, active)
	}

	// 再次触发从头开始
	sb.TriggerCelebrationAnimation()
	clock.Advance(CelebrationDuration - time.Millisecond)
	if _, active := sb.Celebration(); !active {
		t.Error("retriggered celebration ended early")
	}

	clock.Advance(time.Millisecond)
	if progress, active := sb.Celebration(); active || progress != 1 {
		t.Errorf("after duration: got progress=%v active=%v, want 1 false", progress, active)
	}
	if _, active := sb.Celebration(); active {
		t.Error("celebration should stay inactive")
	}
}
