package systems

import (
	"math/rand/v2"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

// SnowfallSystem owns the ambient snow particle buffer.
//
// The buffer is allocated once; flakes that fall below the floor are recycled
// to the ceiling at a new random horizontal position with their velocity kept.
// Snow has no gravity or drag, each flake falls at its own constant velocity.
type SnowfallSystem struct {
	Buffer  *components.ParticleBuffer
	Size    float32 // 所有雪花共用的尺寸
	Opacity float32

	cfg config.SnowfallConfig
	rng *rand.Rand
}

// NewSnowfallSystem creates the snowfall buffer and samples every flake's
// initial position and velocity.
func NewSnowfallSystem(cfg config.SnowfallConfig, rng *rand.Rand) *SnowfallSystem {
	s := &SnowfallSystem{
		Buffer:  components.NewParticleBuffer(cfg.Count),
		Size:    float32(cfg.Size),
		Opacity: float32(cfg.Opacity),
		cfg:     cfg,
		rng:     rng,
	}

	b := s.Buffer
	for i := 0; i < b.Count; i++ {
		i3 := i * 3
		b.Positions[i3] = float32(cfg.Spread.Sample(rng))
		b.Positions[i3+1] = float32(cfg.Height.Sample(rng))
		b.Positions[i3+2] = float32(cfg.Spread.Sample(rng))

		b.Velocities[i3] = float32(cfg.Drift.Sample(rng))
		b.Velocities[i3+1] = float32(cfg.Fall.Sample(rng))
		b.Velocities[i3+2] = float32(cfg.Drift.Sample(rng))

		b.Colors[i3], b.Colors[i3+1], b.Colors[i3+2] = 1, 1, 1
		b.Sizes[i] = s.Size
	}
	return s
}

// Update advances every flake by one tick and recycles the ones below the floor.
// Returns the number of recycled flakes.
func (s *SnowfallSystem) Update() int {
	b := s.Buffer
	floor := float32(s.cfg.Floor)
	ceiling := float32(s.cfg.Ceiling)
	recycled := 0

	for i := 0; i < b.Count; i++ {
		i3 := i * 3
		b.Positions[i3] += b.Velocities[i3]
		b.Positions[i3+1] += b.Velocities[i3+1]
		b.Positions[i3+2] += b.Velocities[i3+2]

		if b.Positions[i3+1] < floor {
			b.Positions[i3+1] = ceiling
			b.Positions[i3] = float32(s.cfg.Spread.Sample(s.rng))
			b.Positions[i3+2] = float32(s.cfg.Spread.Sample(s.rng))
			recycled++
		}
	}

	b.PositionsDirty = true
	return recycled
}
