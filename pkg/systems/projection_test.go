package systems

import (
	"math"
	"testing"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

func TestProjectorCenterAndCulling(t *testing.T) {
	cam := components.CameraState{X: 0, Y: 5, Z: 20}
	p := NewProjector(1280, 720, 75, cam)

	sx, sy, _, depth, ok := p.Project(components.Vec3{X: 0, Y: 5, Z: 0})
	if !ok || sx != 640 || sy != 360 || depth != 20 {
		t.Errorf("point on axis: got (%v, %v) depth %v ok %v", sx, sy, depth, ok)
	}

	if _, _, _, _, ok := p.Project(components.Vec3{Z: 25}); ok {
		t.Error("point behind the camera should be culled")
	}

	// 更高的点在屏幕上方
	_, syHigh, _, _, _ := p.Project(components.Vec3{Y: 8})
	if syHigh >= 360 {
		t.Errorf("higher point should project above center, got y=%v", syHigh)
	}
}

func TestProjectorScaleShrinksWithDepth(t *testing.T) {
	p := NewProjector(800, 600, 75, components.CameraState{Z: 20})
	_, _, near, _, _ := p.Project(components.Vec3{Z: 15})
	_, _, far, _, _ := p.Project(components.Vec3{Z: -15})
	if near <= far {
		t.Errorf("scale near=%v should exceed far=%v", near, far)
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	p := NewProjector(1024, 768, 75, components.CameraState{X: 1, Y: 5, Z: 20})
	world := p.Unproject(300, 200, 8)
	if math.Abs(world.Z-12) > 1e-9 {
		t.Errorf("Unproject depth: got z=%v, want 12", world.Z)
	}
	sx, sy, _, _, ok := p.Project(world)
	if !ok || math.Abs(sx-300) > 1e-6 || math.Abs(sy-200) > 1e-6 {
		t.Errorf("Project(Unproject(300, 200)) = (%v, %v), want (300, 200)", sx, sy)
	}
}

func TestFogFactor(t *testing.T) {
	tests := []struct {
		depth, want float64
	}{
		{5, 0}, {10, 0}, {30, 0.5}, {50, 1}, {80, 1},
	}
	for _, tt := range tests {
		if got := FogFactor(tt.depth); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("FogFactor(%v): got %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestRotateY(t *testing.T) {
	got := RotateY(components.Vec3{X: 1, Y: 2}, math.Pi/2)
	if math.Abs(got.X) > 1e-9 || got.Y != 2 || math.Abs(got.Z+1) > 1e-9 {
		t.Errorf("RotateY: got %+v, want (0, 2, -1)", got)
	}
}

func TestLightSystemOscillates(t *testing.T) {
	ls := NewLightSystem(config.LightsConfig{})
	ls.Update(0)
	if ls.Lights[0].Intensity != 0.5 || ls.Lights[1].Intensity != 1 {
		t.Errorf("t=0: got %v/%v, want 0.5/1", ls.Lights[0].Intensity, ls.Lights[1].Intensity)
	}
	for _, elapsed := range []float64{0.3, 1.7, 12.5} {
		ls.Update(elapsed)
		for i, l := range ls.Lights {
			if l.Intensity < 0 || l.Intensity > 1 {
				t.Errorf("t=%v light %d intensity %v outside [0, 1]", elapsed, i, l.Intensity)
			}
		}
	}
}
