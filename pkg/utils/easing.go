package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受进度值 t ∈ [0, 1]。EaseOutBack 会短暂超过 1（回弹）。
//
// 参考：https://easings.net/

// EaseOutCubic 三次方缓出，开始快结束慢
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInQuad 二次方缓入
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutBack 回弹缓出：冲过终点后回落，用于横幅弹出
// 公式：f(t) = 1 + c3·(t-1)³ + c1·(t-1)²
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	u := t - 1
	return 1 + c3*u*u*u + c1*u*u
}

// Clamp01 将 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// BannerCurve 横幅动画曲线，progress ∈ [0, 1]
//
//	前 20%：缩放 0 → 1（回弹），透明度 0 → 1
//	中间：保持
//	后 25%：透明度 1 → 0
func BannerCurve(progress float64) (scale, alpha float64) {
	p := Clamp01(progress)
	switch {
	case p < 0.2:
		t := p / 0.2
		return EaseOutBack(t), EaseOutCubic(t)
	case p > 0.75:
		t := (p - 0.75) / 0.25
		return 1, 1 - EaseInQuad(t)
	default:
		return 1, 1
	}
}
