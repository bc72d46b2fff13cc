// Package handtrack 手部追踪输入
//
// 追踪端（websocket 客户端或键盘模拟）在自己的 goroutine 中写入 Mailbox，
// 帧循环每个 tick 读取最新一帧。Mailbox 只保留一个槽位，新帧覆盖旧帧。
package handtrack

import (
	"sync"

	"github.com/gonewx/snowglobe/pkg/components"
)

// Mailbox 单槽位最新帧邮箱
type Mailbox struct {
	mu    sync.Mutex
	frame *components.HandFrame
	seq   uint64
}

// NewMailbox 创建空邮箱（初始为"无手"）
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Store 写入最新一帧，nil 表示未检测到手
func (m *Mailbox) Store(frame *components.HandFrame) {
	m.mu.Lock()
	m.frame = frame
	m.seq++
	m.mu.Unlock()
}

// Latest 返回最新一帧
func (m *Mailbox) Latest() *components.HandFrame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

// Snapshot 在同一把锁内返回最新一帧和对应的写入序号
func (m *Mailbox) Snapshot() (*components.HandFrame, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame, m.seq
}

// Seq 返回写入次数，可用于判断是否有新帧
func (m *Mailbox) Seq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}
