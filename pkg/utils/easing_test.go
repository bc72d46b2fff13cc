package utils

import (
	"math"
	"testing"
)

// TestEaseOutCubic 测试三次方缓出
func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.875},
		{"终点", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestEaseOutBack 端点固定，中途超过 1
func TestEaseOutBack(t *testing.T) {
	if got := EaseOutBack(0); math.Abs(got) > 1e-9 {
		t.Errorf("EaseOutBack(0) = %v, 期望 0", got)
	}
	if got := EaseOutBack(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("EaseOutBack(1) = %v, 期望 1", got)
	}
	if got := EaseOutBack(0.7); got <= 1 {
		t.Errorf("EaseOutBack(0.7) = %v, 期望 > 1（回弹）", got)
	}
}

func TestClampAndLerp(t *testing.T) {
	if Clamp01(-0.5) != 0 || Clamp01(1.5) != 1 || Clamp01(0.3) != 0.3 {
		t.Error("Clamp01 did not clamp to [0, 1]")
	}
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp(10, 20, 0.25) = %v, 期望 12.5", got)
	}
}

// TestBannerCurve 测试横幅动画三个阶段
func TestBannerCurve(t *testing.T) {
	tests := []struct {
		name      string
		progress  float64
		wantScale float64
		wantAlpha float64
	}{
		{"开始", 0, 0, 0},
		{"弹出结束", 0.2, 1, 1},
		{"保持", 0.5, 1, 1},
		{"淡出一半", 0.875, 1, 0.75},
		{"结束", 1, 1, 0},
		{"越界", 2, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, alpha := BannerCurve(tt.progress)
			if math.Abs(scale-tt.wantScale) > 0.001 || math.Abs(alpha-tt.wantAlpha) > 0.001 {
				t.Errorf("BannerCurve(%v) = (%v, %v), 期望 (%v, %v)",
					tt.progress, scale, alpha, tt.wantScale, tt.wantAlpha)
			}
		})
	}
}
