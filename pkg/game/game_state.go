package game

import (
	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

// GameState 场景的可变状态
//
// 所有字段只由帧循环读写：MotionState 和 ThrottleState 由 MotionSystem 修改，
// Camera 和 Model 由 CameraSystem 修改。不是全局单例，每个场景持有一份。
type GameState struct {
	Motion   components.MotionState
	Throttle components.ThrottleState
	Camera   components.CameraState
	Model    components.ModelState

	HandSeen bool // 是否检测到过手（用于首次启动背景音乐）
	Ticks    uint64
}

// NewGameState 以配置中的相机初始位置创建状态
func NewGameState(cam config.CameraConfig) *GameState {
	return &GameState{
		Camera: components.CameraState{X: cam.StartX, Y: cam.StartY, Z: cam.StartZ},
	}
}

// Reset 恢复初始状态（保留 HandSeen，音乐只启动一次）
func (gs *GameState) Reset(cam config.CameraConfig) {
	handSeen := gs.HandSeen
	*gs = *NewGameState(cam)
	gs.HandSeen = handSeen
}
