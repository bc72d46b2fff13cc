package systems

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
)

// FireworkBurst is one firework explosion: a fixed set of particles launched
// from a single origin, sharing one Life scalar.
//
// Life starts at 1.0 and drops by FadeRate every Update. Once Life falls below
// FadeStart the burst fades out linearly, reaching zero opacity when Life
// reaches zero. Update reports false once Life <= 0; the owner must then call
// Release.
type FireworkBurst struct {
	ID      string
	Origin  components.Vec3
	Scheme  ColorScheme
	Buffer  *components.ParticleBuffer
	Life    float64
	Opacity float64
	Ticks   int // Update 调用次数

	cfg      config.FireworkConfig
	released bool
}

// NewFireworkBurst explodes a burst at origin.
//
// Every particle starts at origin with a color from one randomly chosen scheme
// and an outward velocity uniform over the sphere: azimuth θ ∈ [0, 2π),
// inclination φ = acos(u) with u ∈ [-1, 1], scaled by a speed from cfg.Speed.
func NewFireworkBurst(origin components.Vec3, cfg config.FireworkConfig, rng *rand.Rand) *FireworkBurst {
	return newFireworkBurst(origin, RandomColorScheme(rng), cfg, rng)
}

func newFireworkBurst(origin components.Vec3, scheme ColorScheme, cfg config.FireworkConfig, rng *rand.Rand) *FireworkBurst {
	b := &FireworkBurst{
		ID:      uuid.NewString(),
		Origin:  origin,
		Scheme:  scheme,
		Buffer:  components.NewParticleBuffer(cfg.Particles),
		Life:    1.0,
		Opacity: 1.0,
		cfg:     cfg,
	}

	buf := b.Buffer
	ox, oy, oz := float32(origin.X), float32(origin.Y), float32(origin.Z)
	for i := 0; i < buf.Count; i++ {
		i3 := i * 3
		buf.Positions[i3], buf.Positions[i3+1], buf.Positions[i3+2] = ox, oy, oz
		buf.Colors[i3], buf.Colors[i3+1], buf.Colors[i3+2] = scheme.Sample(rng)

		theta := rng.Float32() * 2 * math32.Pi
		phi := math32.Acos(2*rng.Float32() - 1)
		speed := float32(cfg.Speed.Sample(rng))
		sinPhi := math32.Sin(phi)
		buf.Velocities[i3] = sinPhi * math32.Cos(theta) * speed
		buf.Velocities[i3+1] = sinPhi * math32.Sin(theta) * speed
		buf.Velocities[i3+2] = math32.Cos(phi) * speed

		buf.Sizes[i] = float32(cfg.Size.Sample(rng))
	}
	return b
}

// Update advances the burst one tick and reports whether it is still alive.
func (b *FireworkBurst) Update() bool {
	if b.released {
		return false
	}

	buf := b.Buffer
	gravity := float32(b.cfg.Gravity)
	drag := float32(b.cfg.Drag)
	shrink := float32(b.cfg.Shrink)

	for i := 0; i < buf.Count; i++ {
		i3 := i * 3
		buf.Positions[i3] += buf.Velocities[i3]
		buf.Positions[i3+1] += buf.Velocities[i3+1]
		buf.Positions[i3+2] += buf.Velocities[i3+2]

		buf.Velocities[i3+1] += gravity
		buf.Velocities[i3] *= drag
		buf.Velocities[i3+2] *= drag

		buf.Sizes[i] *= shrink
	}
	buf.PositionsDirty = true
	buf.SizesDirty = true

	b.Ticks++
	b.Life -= b.cfg.FadeRate
	if b.Life < b.cfg.FadeStart {
		b.Opacity = nonNegative(b.Life) / b.cfg.FadeStart
	}
	return b.Life > 0
}

// Alive reports whether the burst still has life left and has not been released.
func (b *FireworkBurst) Alive() bool {
	return !b.released && b.Life > 0
}

// Release frees the particle buffer. Safe to call more than once.
func (b *FireworkBurst) Release() {
	if b.released {
		return
	}
	b.released = true
	b.Buffer.Release()
}

// Released reports whether Release has been called.
func (b *FireworkBurst) Released() bool {
	return b.released
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
