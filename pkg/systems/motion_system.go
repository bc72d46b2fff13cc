package systems

import (
	"math"
	"time"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

// Motion constants.
const (
	MaxRotationSpeed = 0.02
	MaxZoomSpeed     = 0.1

	DefaultFistCooldown    = 1000 * time.Millisecond
	DefaultVictoryCooldown = 4000 * time.Millisecond

	dampFactor       = 0.9  // 无手、握拳、剪刀手时的衰减
	centerDecay      = 0.8  // 手在中间时缩放速度衰减
	zoomBoost        = 1.5  // 缩放速度倍率
	autoRotateFactor = 0.3  // 张开手时自动旋转速度倍率
	zoomInThreshold  = 0.35 // 镜像后 handX 小于该值时拉近
	zoomOutThreshold = 0.65 // 镜像后 handX 大于该值时拉远
	snapThreshold    = 0.001
)

// MotionEvent is a discrete trigger emitted by MotionSystem.Update.
type MotionEvent int

const (
	// MotionEventNone nothing fired this tick.
	MotionEventNone MotionEvent = iota
	// MotionEventFirework a fist passed its throttle window.
	MotionEventFirework
	// MotionEventMerryChristmas a victory sign passed its throttle window.
	MotionEventMerryChristmas
)

// String returns the event name used in logs.
func (e MotionEvent) String() string {
	switch e {
	case MotionEventFirework:
		return "firework"
	case MotionEventMerryChristmas:
		return "merry-christmas"
	default:
		return "none"
	}
}

// MotionSystem converts gestures into damped camera velocities and throttled
// discrete events. It holds only configuration; all mutable state is passed in.
type MotionSystem struct {
	fistCooldown    time.Duration
	victoryCooldown time.Duration
}

// NewMotionSystem creates a MotionSystem from the motion config section.
// Zero cooldowns fall back to the defaults (1s fist, 4s victory).
func NewMotionSystem(cfg config.MotionConfig) *MotionSystem {
	ms := &MotionSystem{
		fistCooldown:    cfg.FistCooldown,
		victoryCooldown: cfg.VictoryCooldown,
	}
	if ms.fistCooldown == 0 {
		ms.fistCooldown = DefaultFistCooldown
	}
	if ms.victoryCooldown == 0 {
		ms.victoryCooldown = DefaultVictoryCooldown
	}
	return ms
}

// Update applies one gesture to the motion state and returns at most one event.
//
// The throttle windows are exclusive: a trigger needs strictly more than the
// cooldown to have elapsed since the previous one. Speeds whose magnitude drops
// below 0.001 snap to exactly zero.
func (ms *MotionSystem) Update(g components.Gesture, now time.Time, state *components.MotionState, throttle *components.ThrottleState) MotionEvent {
	event := MotionEventNone

	switch g.Kind {
	case components.GestureVictory:
		if now.Sub(throttle.LastVictory) > ms.victoryCooldown {
			event = MotionEventMerryChristmas
			throttle.LastVictory = now
		}
		damp(state)

	case components.GestureFist:
		if now.Sub(throttle.LastFist) > ms.fistCooldown {
			event = MotionEventFirework
			throttle.LastFist = now
		}
		damp(state)

	case components.GestureOpenHand:
		// 摄像头画面是镜像的
		handX := 1 - g.X
		switch {
		case handX < zoomInThreshold:
			state.ZoomSpeed = -MaxZoomSpeed * zoomBoost
		case handX > zoomOutThreshold:
			state.ZoomSpeed = MaxZoomSpeed * zoomBoost
		default:
			state.ZoomSpeed *= centerDecay
		}
		state.RotationSpeed = MaxRotationSpeed * autoRotateFactor

	default:
		damp(state)
	}

	state.RotationSpeed = snapToZero(state.RotationSpeed)
	state.ZoomSpeed = snapToZero(state.ZoomSpeed)
	return event
}

func damp(state *components.MotionState) {
	state.RotationSpeed *= dampFactor
	state.ZoomSpeed *= dampFactor
}

func snapToZero(v float64) float64 {
	if math.Abs(v) < snapThreshold {
		return 0
	}
	return v
}
