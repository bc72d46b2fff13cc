package systems

import (
	"log"
	"math/rand/v2"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

// FireworkSystem owns the bounded pool of active firework bursts.
//
// Spawn requests beyond the pool capacity are dropped silently. Bursts that
// report dead in Update are released and removed in the same pass.
type FireworkSystem struct {
	cfg    config.FireworkConfig
	rng    *rand.Rand
	bursts []*FireworkBurst

	// OnSpawn 每次成功生成烟花后调用（播放音效、计数）
	OnSpawn func(b *FireworkBurst)
	// OnDrop 池已满、请求被丢弃时调用
	OnDrop func(pos components.Vec3)
	// OnRetire 烟花寿命结束、资源释放后调用
	OnRetire func(b *FireworkBurst)
}

// NewFireworkSystem creates an empty firework pool.
func NewFireworkSystem(cfg config.FireworkConfig, rng *rand.Rand) *FireworkSystem {
	capacity := cfg.MaxActive
	if capacity <= 0 {
		capacity = 1
	}
	cfg.MaxActive = capacity
	return &FireworkSystem{
		cfg:    cfg,
		rng:    rng,
		bursts: make([]*FireworkBurst, 0, capacity),
	}
}

// Capacity returns the maximum number of simultaneously active bursts.
func (fs *FireworkSystem) Capacity() int {
	return fs.cfg.MaxActive
}

// Active returns the number of bursts in the pool.
func (fs *FireworkSystem) Active() int {
	return len(fs.bursts)
}

// Bursts returns the active bursts. The slice is owned by the system and is
// only valid until the next Spawn or Update.
func (fs *FireworkSystem) Bursts() []*FireworkBurst {
	return fs.bursts
}

// Spawn explodes a new burst at pos. It returns false, and creates nothing,
// when the pool is already at capacity.
func (fs *FireworkSystem) Spawn(pos components.Vec3) (*FireworkBurst, bool) {
	if len(fs.bursts) >= fs.cfg.MaxActive {
		if fs.OnDrop != nil {
			fs.OnDrop(pos)
		}
		return nil, false
	}

	b := NewFireworkBurst(pos, fs.cfg, fs.rng)
	fs.bursts = append(fs.bursts, b)
	log.Printf("[FireworkSystem] Spawned burst %s (%s) at (%.2f, %.2f, %.2f), active=%d/%d",
		b.ID, b.Scheme, pos.X, pos.Y, pos.Z, len(fs.bursts), fs.cfg.MaxActive)

	if fs.OnSpawn != nil {
		fs.OnSpawn(b)
	}
	return b, true
}

// SpawnPosition picks a spawn point in front of the camera: a random
// horizontal and vertical offset, spawn_distance units further down -Z.
func (fs *FireworkSystem) SpawnPosition(cam components.CameraState) components.Vec3 {
	return cam.Position().Add(components.Vec3{
		X: fs.cfg.SpawnOffsetX.Sample(fs.rng),
		Y: fs.cfg.SpawnOffsetY.Sample(fs.rng),
		Z: -fs.cfg.SpawnDistance,
	})
}

// SpawnInView spawns a burst at SpawnPosition(cam).
func (fs *FireworkSystem) SpawnInView(cam components.CameraState) (*FireworkBurst, bool) {
	return fs.Spawn(fs.SpawnPosition(cam))
}

// Update advances every burst one tick, releasing and removing the dead ones.
// Returns the number of bursts retired this tick.
func (fs *FireworkSystem) Update() int {
	retired := 0
	// 倒序遍历，原地删除不影响未访问的元素
	for i := len(fs.bursts) - 1; i >= 0; i-- {
		b := fs.bursts[i]
		if b.Update() {
			continue
		}
		b.Release()
		fs.remove(i)
		retired++
		if fs.OnRetire != nil {
			fs.OnRetire(b)
		}
	}
	return retired
}

// ReleaseAll releases every active burst and empties the pool.
func (fs *FireworkSystem) ReleaseAll() {
	for i := len(fs.bursts) - 1; i >= 0; i-- {
		fs.bursts[i].Release()
		fs.remove(i)
	}
}

func (fs *FireworkSystem) remove(i int) {
	last := len(fs.bursts) - 1
	copy(fs.bursts[i:], fs.bursts[i+1:])
	fs.bursts[last] = nil
	fs.bursts = fs.bursts[:last]
}
