package systems

import (
	"math/rand/v2"

	"github.com/gonewx/snowglobe/pkg/components"
)

// newTestRand 固定种子，保证测试可重复
func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(20241225, 1))
}

// makeHand 构造一帧 21 点手部数据：
// 伸直的手指指尖 Y 小于 PIP 关节（图像坐标向下为正）。
func makeHand(wristX float64, thumb, index, middle, ring, pinky bool) *components.HandFrame {
	lm := make([]components.Landmark, components.LandmarkCount)
	for i := range lm {
		lm[i] = components.Landmark{X: wristX, Y: 0.5}
	}
	lm[components.LandmarkWrist] = components.Landmark{X: wristX, Y: 0.9}

	set := func(tip, joint int, extended bool) {
		lm[joint].Y = 0.5
		if extended {
			lm[tip].Y = 0.3
		} else {
			lm[tip].Y = 0.7
		}
	}
	set(components.LandmarkThumbTip, components.LandmarkThumbIP, thumb)
	set(components.LandmarkIndexTip, components.LandmarkIndexPIP, index)
	set(components.LandmarkMiddleTip, components.LandmarkMiddlePIP, middle)
	set(components.LandmarkRingTip, components.LandmarkRingPIP, ring)
	set(components.LandmarkPinkyTip, components.LandmarkPinkyPIP, pinky)
	return components.NewHandFrame(lm)
}
