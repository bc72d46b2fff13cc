package systems

import (
	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

// CameraSystem 将 MotionState 应用到相机和模型上。
// 模型绕 Y 轴旋转 rotationSpeed，相机沿 Z 轴移动 zoomSpeed，然后把深度限制在 [MinZ, MaxZ]。
type CameraSystem struct {
	minZ float64
	maxZ float64
}

// NewCameraSystem 创建相机系统。
func NewCameraSystem(cfg config.CameraConfig) *CameraSystem {
	return &CameraSystem{minZ: cfg.MinZ, maxZ: cfg.MaxZ}
}

// StartCamera 返回配置中的初始相机位置。
func StartCamera(cfg config.CameraConfig) components.CameraState {
	return components.CameraState{X: cfg.StartX, Y: cfg.StartY, Z: cfg.StartZ}
}

// Apply 每帧调用一次。
func (cs *CameraSystem) Apply(motion components.MotionState, cam *components.CameraState, model *components.ModelState) {
	model.RotationY += motion.RotationSpeed
	cam.Z += motion.ZoomSpeed

	if cam.Z < cs.minZ {
		cam.Z = cs.minZ
	} else if cam.Z > cs.maxZ {
		cam.Z = cs.maxZ
	}
}

// Bounds 返回相机深度的取值范围。
func (cs *CameraSystem) Bounds() (minZ, maxZ float64) {
	return cs.minZ, cs.maxZ
}
