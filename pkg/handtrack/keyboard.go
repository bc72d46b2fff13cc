package handtrack

import (
	"log"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 键盘模拟时手腕的水平位置（图像坐标，未镜像）
const (
	simulatedLeftX   = 0.8 // 镜像后 handX = 0.2，拉近
	simulatedRightX  = 0.2 // 镜像后 handX = 0.8，拉远
	simulatedCenterX = 0.5
)

// KeyPressedFunc 判断按键是否在本帧刚按下
type KeyPressedFunc func(key ebiten.Key) bool

// KeyboardSource 没有摄像头时用键盘模拟手势
//
//	F      握拳（烟花）
//	V      剪刀手（圣诞祝福）
//	←/→/↑  张开手掌，位于画面左/右/中间
//	N      移开手
//
// 合成帧写入同一个 Mailbox，保持到下一次按键。
type KeyboardSource struct {
	mailbox *Mailbox
	pressed KeyPressedFunc
}

// NewKeyboardSource 创建键盘模拟源，使用 inpututil 检测按键
func NewKeyboardSource(mailbox *Mailbox) *KeyboardSource {
	return NewKeyboardSourceWithInput(mailbox, inpututil.IsKeyJustPressed)
}

// NewKeyboardSourceWithInput 使用自定义按键检测（测试用）
func NewKeyboardSourceWithInput(mailbox *Mailbox, pressed KeyPressedFunc) *KeyboardSource {
	return &KeyboardSource{mailbox: mailbox, pressed: pressed}
}

// Update 每个 tick 调用一次，返回是否写入了新帧
func (k *KeyboardSource) Update() bool {
	switch {
	case k.pressed(ebiten.KeyF):
		k.store("fist", SyntheticFrame(components.GestureFist, simulatedCenterX))
	case k.pressed(ebiten.KeyV):
		k.store("victory", SyntheticFrame(components.GestureVictory, simulatedCenterX))
	case k.pressed(ebiten.KeyArrowLeft):
		k.store("open hand (left)", SyntheticFrame(components.GestureOpenHand, simulatedLeftX))
	case k.pressed(ebiten.KeyArrowRight):
		k.store("open hand (right)", SyntheticFrame(components.GestureOpenHand, simulatedRightX))
	case k.pressed(ebiten.KeyArrowUp):
		k.store("open hand (center)", SyntheticFrame(components.GestureOpenHand, simulatedCenterX))
	case k.pressed(ebiten.KeyN):
		k.store("no hand", nil)
	default:
		return false
	}
	return true
}

func (k *KeyboardSource) store(name string, frame *components.HandFrame) {
	log.Printf("[HandTrack] Keyboard: %s", name)
	k.mailbox.Store(frame)
}

// SyntheticFrame 合成一帧 21 点手部数据
//
// 伸直的手指指尖位于 PIP 关节上方（Y 更小）。GestureNone 返回 nil。
func SyntheticFrame(kind components.GestureKind, wristX float64) *components.HandFrame {
	var extended [5]bool // thumb, index, middle, ring, pinky
	switch kind {
	case components.GestureOpenHand:
		extended = [5]bool{true, true, true, true, true}
	case components.GestureVictory:
		extended = [5]bool{false, true, true, false, false}
	case components.GestureFist:
	default:
		return nil
	}

	lm := make([]components.Landmark, components.LandmarkCount)
	lm[components.LandmarkWrist] = components.Landmark{X: wristX, Y: 0.85}

	fingers := [5]struct{ joint, tip int }{
		{components.LandmarkThumbIP, components.LandmarkThumbTip},
		{components.LandmarkIndexPIP, components.LandmarkIndexTip},
		{components.LandmarkMiddlePIP, components.LandmarkMiddleTip},
		{components.LandmarkRingPIP, components.LandmarkRingTip},
		{components.LandmarkPinkyPIP, components.LandmarkPinkyTip},
	}
	for f, finger := range fingers {
		x := wristX + float64(f-2)*0.04
		// MCP .. TIP 沿手指依次排列，joint-2 为 MCP（拇指为 CMC）
		base := finger.tip - 3
		for j := base; j <= finger.tip; j++ {
			lm[j] = components.Landmark{X: x, Y: 0.65 - float64(j-base)*0.05}
		}
		if !extended[f] {
			// 弯曲：指尖落回关节下方
			if finger.tip-1 != finger.joint {
				lm[finger.tip-1].Y = lm[finger.joint].Y + 0.04
			}
			lm[finger.tip].Y = lm[finger.joint].Y + 0.08
		}
	}
	return components.NewHandFrame(lm)
}
