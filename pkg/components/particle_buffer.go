package components

// ParticleBuffer 固定容量的粒子属性缓冲区
//
// 属性以扁平 float32 数组存储，布局与 GPU 顶点属性一致：
//   - Positions/Velocities/Colors: 每个粒子 3 个分量
//   - Sizes: 每个粒子 1 个分量
//
// 构造后容量不再变化；每次 Update 修改属性后设置对应的 Dirty 标志，
// 渲染端在下一次绘制前重新上传并调用 ClearDirty。
type ParticleBuffer struct {
	Count      int
	Positions  []float32
	Velocities []float32
	Colors     []float32
	Sizes      []float32

	PositionsDirty bool
	ColorsDirty    bool
	SizesDirty     bool
}

// NewParticleBuffer 按容量一次性分配全部属性数组
func NewParticleBuffer(count int) *ParticleBuffer {
	return &ParticleBuffer{
		Count:          count,
		Positions:      make([]float32, count*3),
		Velocities:     make([]float32, count*3),
		Colors:         make([]float32, count*3),
		Sizes:          make([]float32, count),
		PositionsDirty: true,
		ColorsDirty:    true,
		SizesDirty:     true,
	}
}

// Position 返回第 i 个粒子的位置
func (b *ParticleBuffer) Position(i int) (x, y, z float32) {
	i3 := i * 3
	return b.Positions[i3], b.Positions[i3+1], b.Positions[i3+2]
}

// Point 以 Vec3 返回第 i 个粒子的位置
func (b *ParticleBuffer) Point(i int) Vec3 {
	x, y, z := b.Position(i)
	return Vec3{X: float64(x), Y: float64(y), Z: float64(z)}
}

// Color 返回第 i 个粒子的颜色
func (b *ParticleBuffer) Color(i int) (r, g, bl float32) {
	i3 := i * 3
	return b.Colors[i3], b.Colors[i3+1], b.Colors[i3+2]
}

// IsDirty 是否有属性等待重新上传
func (b *ParticleBuffer) IsDirty() bool {
	return b.PositionsDirty || b.ColorsDirty || b.SizesDirty
}

// ClearDirty 渲染端上传完成后清除全部脏标志
func (b *ParticleBuffer) ClearDirty() {
	b.PositionsDirty = false
	b.ColorsDirty = false
	b.SizesDirty = false
}

// Release 释放全部属性数组，之后缓冲区不可再用
func (b *ParticleBuffer) Release() {
	b.Count = 0
	b.Positions = nil
	b.Velocities = nil
	b.Colors = nil
	b.Sizes = nil
	b.ClearDirty()
}
