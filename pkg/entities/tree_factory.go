package entities

import (
	"math"
	"math/rand/v2"

	"github.com/gonewx/snowglobe/pkg/components"
)

// TreePoint 圣诞树点云中的一个点（模型空间）
type TreePoint struct {
	Pos     components.Vec3
	R, G, B float32
	Size    float32
	// Light 指定该点随哪盏灯闪烁（-1 表示不受灯光影响）
	Light int
}

// TreeOptions 程序化圣诞树参数
type TreeOptions struct {
	Height     float64 // 树冠高度
	BaseRadius float64 // 底层半径
	BaseY      float64 // 树干底部高度
	Layers     int     // 锥形层数
	Density    int     // 每层点数
	Ornaments  int     // 彩球数量
}

// DefaultTreeOptions 返回默认参数，对应相机初始位置 (0,5,20) 下的构图。
func DefaultTreeOptions() TreeOptions {
	return TreeOptions{
		Height:     9,
		BaseRadius: 4,
		BaseY:      -2,
		Layers:     4,
		Density:    220,
		Ornaments:  40,
	}
}

// CreateTree 生成一棵程序化圣诞树点云：若干层相互重叠的圆锥、棕色树干、彩球和顶部星星。
// 模型加载失败或未配置模型时作为场景主体使用。
func CreateTree(opts TreeOptions, rng *rand.Rand) []TreePoint {
	points := make([]TreePoint, 0, opts.Layers*opts.Density+opts.Ornaments+64)

	trunkTop := opts.BaseY + 1.5
	for i := 0; i < 40; i++ {
		a := rng.Float64() * 2 * math.Pi
		p := TreePoint{Size: 0.25, Light: -1}
		p.Pos = components.Vec3{X: 0.4 * math.Cos(a), Y: opts.BaseY + rng.Float64()*1.5, Z: 0.4 * math.Sin(a)}
		p.R, p.G, p.B = 0.4, 0.25, 0.1
		points = append(points, p)
	}

	// 每层圆锥的底部依次上移，半径依次缩小
	layerHeight := opts.Height / float64(opts.Layers)
	for l := 0; l < opts.Layers; l++ {
		bottom := trunkTop + float64(l)*layerHeight*0.7
		radius := opts.BaseRadius * (1 - float64(l)/float64(opts.Layers+1))
		top := bottom + layerHeight*1.4
		for i := 0; i < opts.Density; i++ {
			y, r := coneSurface(bottom, top, radius, rng)
			a := rng.Float64() * 2 * math.Pi
			shade := 0.6 + rng.Float32()*0.4
			p := TreePoint{Size: 0.3, Light: -1}
			p.Pos = components.Vec3{X: r * math.Cos(a), Y: y, Z: r * math.Sin(a)}
			p.R, p.G, p.B = 0.05*shade, 0.45*shade, 0.15*shade
			points = append(points, p)
		}
	}

	crownBottom := trunkTop
	crownTop := trunkTop + opts.Height
	for i := 0; i < opts.Ornaments; i++ {
		y, r := coneSurface(crownBottom, crownTop, opts.BaseRadius, rng)
		a := rng.Float64() * 2 * math.Pi
		light := i % 2
		p := TreePoint{
			Pos:   components.Vec3{X: r * math.Cos(a), Y: y, Z: r * math.Sin(a)},
			Size:  0.35,
			Light: light,
		}
		if light == 0 {
			p.R, p.G, p.B = 1, 0.2, 0.2
		} else {
			p.R, p.G, p.B = 1, 0.85, 0.3
		}
		points = append(points, p)
	}

	// 树顶星星
	for i := 0; i < 5; i++ {
		p := TreePoint{Size: 0.6, Light: -1}
		p.Pos = components.Vec3{Y: crownTop + 0.3 + 0.1*float64(i)}
		p.R, p.G, p.B = 1, 0.95, 0.5
		points = append(points, p)
	}

	return points
}

// coneSurface 在圆锥表面附近随机取一点，返回高度和到轴心的距离。
func coneSurface(bottom, top, radius float64, rng *rand.Rand) (y, r float64) {
	// sqrt 使点在面积上均匀分布（底部更宽）
	t := 1 - math.Sqrt(rng.Float64())
	y = bottom + t*(top-bottom)
	r = radius * (1 - t) * (0.85 + rng.Float64()*0.15)
	return y, r
}
