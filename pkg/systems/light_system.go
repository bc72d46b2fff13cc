package systems

import (
	"math"

	"github.com/gonewx/snowglobe/pkg/config"
)

// PointLight 场景中的一盏彩色点光源。
type PointLight struct {
	X, Y, Z   float64
	R, G, B   float32
	Intensity float64
}

// LightSystem 驱动两盏点光源的强度振荡（一红一绿，相位相差 90°）。
type LightSystem struct {
	Lights [2]PointLight
	speed  float64
}

// NewLightSystem 创建灯光系统。
func NewLightSystem(cfg config.LightsConfig) *LightSystem {
	speed := cfg.Speed
	if speed == 0 {
		speed = 2
	}
	return &LightSystem{
		Lights: [2]PointLight{
			{X: 5, Y: 5, Z: 5, R: 1, G: 0.2, B: 0.2, Intensity: 1},
			{X: -5, Y: 5, Z: -5, R: 0.2, G: 1, B: 0.3, Intensity: 1},
		},
		speed: speed,
	}
}

// Update 按经过的时间（秒）计算强度。
func (ls *LightSystem) Update(elapsed float64) {
	phase := elapsed * ls.speed
	ls.Lights[0].Intensity = 0.5 + 0.5*math.Sin(phase)
	ls.Lights[1].Intensity = 0.5 + 0.5*math.Cos(phase)
}
