package game

import (
	"sync"
	"time"
)

// Clock 时间来源
// 节流窗口和延迟任务都基于 Clock.Now() 比较，测试中替换为 MockClock
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟（带单调时钟读数）
type SystemClock struct{}

// NewSystemClock 创建系统时钟
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now 返回当前时间
func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock 可控时钟，用于测试
type MockClock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockClock 以给定时间创建可控时钟
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{currentTime: start}
}

// Now 返回当前模拟时间
func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set 设置当前模拟时间
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance 推进模拟时间
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
