package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a top-level scene driven by the ebiten game loop.
type Scene interface {
	// Update advances the scene by one display tick.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，场景被替换或程序退出时调用
//
// 实现此接口的场景在 Close 中释放粒子缓冲区、停止音频、丢弃延迟任务。
// Close 之后场景不得再产生任何副作用。
type Closer interface {
	Close()
}
