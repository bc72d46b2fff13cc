package game

import (
	"log"
	"time"
)

// CelebrationDuration Merry Christmas 横幅动画时长
const CelebrationDuration = 3 * time.Second

// StatusBoard 状态显示协作者
//
// 保存当前状态文本和庆祝动画的起始时间，由渲染端读取。
// 只在帧循环中写入。
type StatusBoard struct {
	clock            Clock
	text             string
	celebrationStart time.Time
	celebrating      bool
}

// NewStatusBoard 创建状态面板
func NewStatusBoard(clock Clock) *StatusBoard {
	return &StatusBoard{clock: clock}
}

// SetStatusText 更新状态文本
func (sb *StatusBoard) SetStatusText(text string) {
	if text != sb.text {
		log.Printf("[StatusBoard] %s", text)
	}
	sb.text = text
}

// Text 返回当前状态文本
func (sb *StatusBoard) Text() string {
	return sb.text
}

// TriggerCelebrationAnimation 重新开始庆祝动画（动画进行中再次触发会从头播放）
func (sb *StatusBoard) TriggerCelebrationAnimation() {
	sb.celebrationStart = sb.clock.Now()
	sb.celebrating = true
}

// Celebration 返回庆祝动画进度 [0,1] 以及是否仍在播放
func (sb *StatusBoard) Celebration() (progress float64, active bool) {
	if !sb.celebrating {
		return 0, false
	}
	elapsed := sb.clock.Now().Sub(sb.celebrationStart)
	if elapsed >= CelebrationDuration {
		sb.celebrating = false
		return 1, false
	}
	if elapsed < 0 {
		return 0, true
	}
	return float64(elapsed) / float64(CelebrationDuration), true
}
