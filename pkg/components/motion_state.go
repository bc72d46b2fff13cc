package components

import "time"

// MotionState 相机运动速度状态
// 由 MotionSystem 独占写入，FrameLoop 每帧读取一次并作用到相机变换
type MotionState struct {
	RotationSpeed float64 // 模型绕 Y 轴旋转速度（弧度/帧）
	ZoomSpeed     float64 // 相机 Z 轴移动速度（单位/帧），负值靠近场景
}

// ThrottleState 离散事件的节流时间戳
// 零值时间表示从未触发过
type ThrottleState struct {
	LastFist    time.Time // 上次握拳触发烟花的时间
	LastVictory time.Time // 上次剪刀手触发庆祝序列的时间
}

// CameraState 相机位置（世界坐标）
type CameraState struct {
	X float64
	Y float64
	Z float64
}

// ModelState 场景模型（圣诞树）的变换
type ModelState struct {
	RotationY float64 // 绕 Y 轴旋转角度（弧度）
}
