package systems

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/game"
)

const floatTolerance = 1e-9

func newTestMotionSystem() *MotionSystem {
	return NewMotionSystem(config.Default().Motion)
}

func TestMotionSystemFistThrottle(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{"999ms apart", 999 * time.Millisecond, 1},
		{"exactly 1000ms apart", 1000 * time.Millisecond, 1},
		{"1001ms apart", 1001 * time.Millisecond, 2},
	}

	fist := components.Gesture{Kind: components.GestureFist}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newTestMotionSystem()
			clock := game.NewMockClock(time.Date(2024, 12, 24, 20, 0, 0, 0, time.UTC))
			var state components.MotionState
			var throttle components.ThrottleState

			events := 0
			if ms.Update(fist, clock.Now(), &state, &throttle) == MotionEventFirework {
				events++
			}
			clock.Advance(tt.gap)
			if ms.Update(fist, clock.Now(), &state, &throttle) == MotionEventFirework {
				events++
			}

			if events != tt.want {
				t.Errorf("firework events: got %d, want %d", events, tt.want)
			}
		})
	}
}

func TestMotionSystemVictoryThrottle(t *testing.T) {
	ms := newTestMotionSystem()
	clock := game.NewMockClock(time.Unix(1_700_000_000, 0))
	var state components.MotionState
	var throttle components.ThrottleState
	victory := components.Gesture{Kind: components.GestureVictory, X: 0.5}

	if got := ms.Update(victory, clock.Now(), &state, &throttle); got != MotionEventMerryChristmas {
		t.Fatalf("first victory: got %v, want %v", got, MotionEventMerryChristmas)
	}

	// 节流窗口内的重复手势只衰减速度
	for i := 0; i < 40; i++ {
		clock.Advance(100 * time.Millisecond)
		if got := ms.Update(victory, clock.Now(), &state, &throttle); got != MotionEventNone {
			t.Fatalf("victory at +%v: got %v, want none", time.Duration(i+1)*100*time.Millisecond, got)
		}
	}

	clock.Advance(time.Millisecond)
	if got := ms.Update(victory, clock.Now(), &state, &throttle); got != MotionEventMerryChristmas {
		t.Errorf("victory after 4001ms: got %v, want %v", got, MotionEventMerryChristmas)
	}
}

func TestMotionSystemOpenHandZones(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		startZoom float64
		wantZoom  float64
	}{
		{"hand on left zooms in", 0.9, 0, -MaxZoomSpeed * 1.5},
		{"hand on right zooms out", 0.1, 0, MaxZoomSpeed * 1.5},
		{"center decays zoom", 0.5, 0.1, 0.08},
		{"center snaps small zoom", 0.5, 0.001, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newTestMotionSystem()
			state := components.MotionState{ZoomSpeed: tt.startZoom}
			var throttle components.ThrottleState

			event := ms.Update(components.Gesture{Kind: components.GestureOpenHand, X: tt.x}, time.Now(), &state, &throttle)
			if event != MotionEventNone {
				t.Errorf("event: got %v, want none", event)
			}
			if math.Abs(state.ZoomSpeed-tt.wantZoom) > floatTolerance {
				t.Errorf("zoom speed: got %v, want %v", state.ZoomSpeed, tt.wantZoom)
			}
			if math.Abs(state.RotationSpeed-MaxRotationSpeed*0.3) > floatTolerance {
				t.Errorf("rotation speed: got %v, want %v", state.RotationSpeed, MaxRotationSpeed*0.3)
			}
		})
	}
}

func TestMotionSystemSpeedBounds(t *testing.T) {
	ms := newTestMotionSystem()
	rng := rand.New(rand.NewPCG(7, 11))
	var state components.MotionState
	var throttle components.ThrottleState
	now := time.Unix(0, 0)

	for i := 0; i < 5000; i++ {
		now = now.Add(16 * time.Millisecond)
		ms.Update(components.Gesture{Kind: components.GestureOpenHand, X: rng.Float64()}, now, &state, &throttle)

		if math.Abs(state.RotationSpeed) > 0.3*MaxRotationSpeed+floatTolerance {
			t.Fatalf("step %d: rotation speed %v exceeds bound", i, state.RotationSpeed)
		}
		if math.Abs(state.ZoomSpeed) > 1.5*MaxZoomSpeed+floatTolerance {
			t.Fatalf("step %d: zoom speed %v exceeds bound", i, state.ZoomSpeed)
		}
	}
}

func TestMotionSystemSnapToZero(t *testing.T) {
	ms := newTestMotionSystem()
	state := components.MotionState{RotationSpeed: 0.3 * MaxRotationSpeed, ZoomSpeed: -1.5 * MaxZoomSpeed}
	var throttle components.ThrottleState
	none := components.Gesture{Kind: components.GestureNone}
	now := time.Unix(0, 0)

	steps := 0
	for state.RotationSpeed != 0 || state.ZoomSpeed != 0 {
		ms.Update(none, now, &state, &throttle)
		steps++
		if steps > 1000 {
			t.Fatalf("speeds never reached zero: %+v", state)
		}
	}

	for i := 0; i < 100; i++ {
		ms.Update(none, now, &state, &throttle)
		if state.RotationSpeed != 0 || state.ZoomSpeed != 0 {
			t.Fatalf("speeds left zero after %d more steps: %+v", i, state)
		}
	}
}

func TestMotionSystemDampsOnDiscreteGestures(t *testing.T) {
	ms := newTestMotionSystem()
	var throttle components.ThrottleState
	now := time.Unix(100, 0)

	for _, g := range []components.Gesture{
		{Kind: components.GestureFist},
		{Kind: components.GestureVictory, X: 0.5},
		{Kind: components.GestureNone},
	} {
		state := components.MotionState{RotationSpeed: 0.01, ZoomSpeed: 0.1}
		ms.Update(g, now, &state, &throttle)
		if math.Abs(state.RotationSpeed-0.009) > floatTolerance || math.Abs(state.ZoomSpeed-0.09) > floatTolerance {
			t.Errorf("%v: got %+v, want speeds damped by 0.9", g.Kind, state)
		}
	}
}

func TestNewMotionSystemDefaults(t *testing.T) {
	ms := NewMotionSystem(config.MotionConfig{})
	if ms.fistCooldown != DefaultFistCooldown || ms.victoryCooldown != DefaultVictoryCooldown {
		t.Errorf("cooldowns: got %v/%v, want %v/%v", ms.fistCooldown, ms.victoryCooldown, DefaultFistCooldown, DefaultVictoryCooldown)
	}
}

// 起始状态 rotation=0, zoom=0, cameraZ=20；手在画面左侧（x=0.9 镜像后 0.1）
func TestMotionToCameraScenario(t *testing.T) {
	cfg := config.Default()
	ms := NewMotionSystem(cfg.Motion)
	cs := NewCameraSystem(cfg.Camera)

	var state components.MotionState
	var throttle components.ThrottleState
	cam := components.CameraState{X: 0, Y: 5, Z: 20}
	var model components.ModelState

	ms.Update(components.Gesture{Kind: components.GestureOpenHand, X: 0.9}, time.Now(), &state, &throttle)
	if math.Abs(state.ZoomSpeed+0.15) > floatTolerance {
		t.Errorf("zoom speed: got %v, want -0.15", state.ZoomSpeed)
	}
	if math.Abs(state.RotationSpeed-0.006) > floatTolerance {
		t.Errorf("rotation speed: got %v, want 0.006", state.RotationSpeed)
	}

	cs.Apply(state, &cam, &model)
	if math.Abs(cam.Z-19.85) > floatTolerance {
		t.Errorf("camera z: got %v, want 19.85", cam.Z)
	}
	if math.Abs(model.RotationY-0.006) > floatTolerance {
		t.Errorf("model rotation: got %v, want 0.006", model.RotationY)
	}
}

func TestMotionEventString(t *testing.T) {
	if MotionEventFirework.String() != "firework" || MotionEventMerryChristmas.String() != "merry-christmas" || MotionEventNone.String() != "none" {
		t.Error("unexpected MotionEvent names")
	}
}
