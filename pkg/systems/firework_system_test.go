package systems

import (
	"math"
	"testing"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

func TestFireworkBurstExplosion(t *testing.T) {
	cfg := config.Default().Firework
	origin := components.Vec3{X: 1, Y: 6, Z: 12}
	b := NewFireworkBurst(origin, cfg, newTestRand())

	if b.ID == "" {
		t.Error("burst should have an ID")
	}
	if b.Buffer.Count != cfg.Particles {
		t.Fatalf("particles: got %d, want %d", b.Buffer.Count, cfg.Particles)
	}
	for i := 0; i < b.Buffer.Count; i++ {
		if p := b.Buffer.Point(i); math.Abs(p.X-1) > 1e-6 || math.Abs(p.Y-6) > 1e-6 || math.Abs(p.Z-12) > 1e-6 {
			t.Fatalf("particle %d: starts at %+v, want origin", i, p)
		}
		i3 := i * 3
		vx, vy, vz := b.Buffer.Velocities[i3], b.Buffer.Velocities[i3+1], b.Buffer.Velocities[i3+2]
		speed := math.Sqrt(float64(vx*vx + vy*vy + vz*vz))
		if speed < cfg.Speed.Min-1e-5 || speed > cfg.Speed.Max+1e-5 {
			t.Fatalf("particle %d: speed %v outside %v", i, speed, cfg.Speed)
		}
	}
}

func TestFireworkBurstVelocityIsIsotropic(t *testing.T) {
	cfg := config.Default().Firework
	cfg.Particles = 20000
	b := NewFireworkBurst(components.Vec3{}, cfg, newTestRand())

	// 球面均匀分布时各轴平均方向接近 0
	var sx, sy, sz float64
	for i := 0; i < b.Buffer.Count; i++ {
		i3 := i * 3
		sx += float64(b.Buffer.Velocities[i3])
		sy += float64(b.Buffer.Velocities[i3+1])
		sz += float64(b.Buffer.Velocities[i3+2])
	}
	n := float64(b.Buffer.Count)
	for axis, sum := range map[string]float64{"x": sx, "y": sy, "z": sz} {
		if mean := sum / n; math.Abs(mean) > 0.005 {
			t.Errorf("mean %s velocity %v is biased", axis, mean)
		}
	}
}

func TestFireworkBurstTerminatesAtTick67(t *testing.T) {
	cfg := config.Default().Firework
	b := NewFireworkBurst(components.Vec3{}, cfg, newTestRand())

	tick := 0
	for b.Update() {
		tick++
		if tick > 100 {
			t.Fatal("burst never died")
		}
	}
	tick++

	if tick != 67 {
		t.Errorf("burst died at tick %d, want 67", tick)
	}
	if b.Life > 0 {
		t.Errorf("life after death: got %v, want <= 0", b.Life)
	}
	if b.Opacity != 0 {
		t.Errorf("opacity after death: got %v, want 0", b.Opacity)
	}
}

func TestFireworkBurstFadeAndPhysics(t *testing.T) {
	cfg := config.Default().Firework
	b := NewFireworkBurst(components.Vec3{}, cfg, newTestRand())
	vy0 := b.Buffer.Velocities[1]
	vx0 := b.Buffer.Velocities[0]
	size0 := b.Buffer.Sizes[0]

	b.Update()
	if got, want := b.Buffer.Velocities[1], vy0+float32(cfg.Gravity); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("gravity: vy got %v, want %v", got, want)
	}
	if got, want := b.Buffer.Velocities[0], vx0*float32(cfg.Drag); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("drag: vx got %v, want %v", got, want)
	}
	if got, want := b.Buffer.Sizes[0], size0*float32(cfg.Shrink); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("shrink: size got %v, want %v", got, want)
	}
	if b.Opacity != 1 {
		t.Errorf("opacity before fade: got %v, want 1", b.Opacity)
	}

	// life = 1 - 0.015·50 = 0.25 ⇒ opacity = 0.25/0.3
	for i := 1; i < 50; i++ {
		b.Update()
	}
	if want := b.Life / cfg.FadeStart; math.Abs(b.Opacity-want) > 1e-9 || math.Abs(b.Opacity-0.25/0.3) > 1e-6 {
		t.Errorf("opacity at tick 50: got %v, want %v", b.Opacity, want)
	}
}

func TestFireworkBurstRelease(t *testing.T) {
	b := NewFireworkBurst(components.Vec3{}, config.Default().Firework, newTestRand())
	b.Release()
	b.Release()

	if !b.Released() || b.Alive() {
		t.Error("released burst should not be alive")
	}
	if b.Buffer.Positions != nil || b.Buffer.Count != 0 {
		t.Error("buffer should be freed")
	}
	if b.Update() {
		t.Error("Update on released burst should return false")
	}
}

func TestFireworkSystemPoolBound(t *testing.T) {
	cfg := config.Default().Firework
	fs := NewFireworkSystem(cfg, newTestRand())

	spawned, dropped := 0, 0
	fs.OnSpawn = func(*FireworkBurst) { spawned++ }
	fs.OnDrop = func(components.Vec3) { dropped++ }

	for i := 0; i < 10; i++ {
		fs.Spawn(components.Vec3{Y: float64(i)})
	}
	if fs.Active() != 5 {
		t.Fatalf("active: got %d, want 5", fs.Active())
	}
	if spawned != 5 || dropped != 5 {
		t.Errorf("spawned/dropped: got %d/%d, want 5/5", spawned, dropped)
	}
}

func TestFireworkSystemReusesFreedSlot(t *testing.T) {
	cfg := config.Default().Firework
	fs := NewFireworkSystem(cfg, newTestRand())

	first, ok := fs.Spawn(components.Vec3{})
	if !ok {
		t.Fatal("first spawn failed")
	}
	for i := 0; i < 30; i++ {
		fs.Update()
	}
	for i := 0; i < 9; i++ {
		fs.Spawn(components.Vec3{X: float64(i)})
	}
	if fs.Active() != fs.Capacity() {
		t.Fatalf("active: got %d, want %d", fs.Active(), fs.Capacity())
	}

	var retired []*FireworkBurst
	fs.OnRetire = func(b *FireworkBurst) { retired = append(retired, b) }

	// 第一枚烟花在第 67 次 Update 结束
	for i := 0; i < 37; i++ {
		fs.Update()
	}
	if len(retired) != 1 || retired[0] != first {
		t.Fatalf("retired: got %d bursts, want only the first", len(retired))
	}
	if !first.Released() {
		t.Error("retired burst should be released")
	}
	for _, b := range fs.Bursts() {
		if b == first {
			t.Error("retired burst still in pool")
		}
	}

	if _, ok := fs.Spawn(components.Vec3{}); !ok {
		t.Error("spawn after a burst expired should succeed")
	}
	if fs.Active() != fs.Capacity() {
		t.Errorf("active: got %d, want %d", fs.Active(), fs.Capacity())
	}
}

func TestFireworkSystemUpdateRemovesEveryDeadBurst(t *testing.T) {
	fs := NewFireworkSystem(config.Default().Firework, newTestRand())
	for i := 0; i < 5; i++ {
		fs.Spawn(components.Vec3{})
	}

	retired := 0
	for i := 0; i < 67; i++ {
		retired += fs.Update()
	}
	if retired != 5 || fs.Active() != 0 {
		t.Errorf("retired %d, active %d; want 5, 0", retired, fs.Active())
	}
}

func TestFireworkSystemReleaseAll(t *testing.T) {
	fs := NewFireworkSystem(config.Default().Firework, newTestRand())
	var bursts []*FireworkBurst
	for i := 0; i < 3; i++ {
		b, _ := fs.Spawn(components.Vec3{})
		bursts = append(bursts, b)
	}

	fs.ReleaseAll()
	if fs.Active() != 0 {
		t.Errorf("active after ReleaseAll: got %d", fs.Active())
	}
	for i, b := range bursts {
		if !b.Released() {
			t.Errorf("burst %d not released", i)
		}
	}
}

func TestFireworkSystemSpawnPosition(t *testing.T) {
	cfg := config.Default().Firework
	fs := NewFireworkSystem(cfg, newTestRand())
	cam := components.CameraState{X: 0, Y: 5, Z: 20}

	for i := 0; i < 200; i++ {
		p := fs.SpawnPosition(cam)
		if p.X < -3 || p.X >= 3 {
			t.Fatalf("x offset %v outside [-3, 3)", p.X)
		}
		if p.Y < 5 || p.Y >= 9 {
			t.Fatalf("y %v outside [5, 9)", p.Y)
		}
		if p.Z != 12 {
			t.Fatalf("z: got %v, want 12", p.Z)
		}
	}
}
