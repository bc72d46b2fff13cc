// Package main provides a firework viewer for tuning the particle settings
// of the snowglobe scene.
//
// Usage:
//
//	go run cmd/particles/main.go [flags]
//
// Flags:
//
//	--config <path>   User config YAML (firework and snowfall sections are used)
//	--snow            Also run the snowfall system
//	--auto-play       Launch a firework every 1.5 seconds
//	--verbose         Enable verbose logging
//
// Controls:
//
//	Mouse Click   - Launch a firework at the cursor
//	Space         - Merry Christmas sequence (3 staggered fireworks)
//	A             - Toggle auto-play
//	R             - Clear all active fireworks
//	Q/Escape      - Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/game"
	"github.com/gonewx/snowglobe/pkg/systems"
	"github.com/gonewx/snowglobe/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	autoPlayInterval = 1500 * time.Millisecond
)

var (
	configFlag   = flag.String("config", "", "User config YAML file")
	snowFlag     = flag.Bool("snow", false, "Also run the snowfall system")
	autoPlayFlag = flag.Bool("auto-play", false, "Launch a firework every 1.5 seconds")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// FireworkViewer implements ebiten.Game for the firework viewer
type FireworkViewer struct {
	cfg       *config.SceneConfig
	clock     game.Clock
	camera    components.CameraState
	fireworks *systems.FireworkSystem
	snow      *systems.SnowfallSystem
	renderer  *systems.RenderSystem
	tasks     *game.TaskQueue
	audio     *game.AudioManager

	autoPlay     bool
	lastAutoPlay time.Time
	spawned      int
	dropped      int
	lastScheme   systems.ColorScheme
}

// NewFireworkViewer creates the viewer from the scene config
func NewFireworkViewer(cfg *config.SceneConfig) *FireworkViewer {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	clock := game.NewSystemClock()

	audioContext := audio.NewContext(cfg.Audio.SampleRate)
	rm := game.NewResourceManager(audioContext, cfg.Audio.SampleRate)
	am, err := game.NewAudioManager(rm, nil, cfg.Audio, rng)
	if err != nil {
		log.Printf("Warning: %v (continuing without sound)", err)
	}

	v := &FireworkViewer{
		cfg:          cfg,
		clock:        clock,
		camera:       systems.StartCamera(cfg.Camera),
		fireworks:    systems.NewFireworkSystem(cfg.Firework, rng),
		renderer:     systems.NewRenderSystem(),
		tasks:        game.NewTaskQueue(),
		audio:        am,
		autoPlay:     *autoPlayFlag,
		lastAutoPlay: clock.Now(),
	}
	if *snowFlag {
		v.snow = systems.NewSnowfallSystem(cfg.Snowfall, rng)
	}

	v.fireworks.OnSpawn = func(b *systems.FireworkBurst) {
		v.spawned++
		v.lastScheme = b.Scheme
		if _, err := v.audio.PlayOneShotSound(); err != nil {
			log.Printf("Warning: firework sound failed: %v", err)
		}
	}
	v.fireworks.OnDrop = func(components.Vec3) {
		v.dropped++
	}

	log.Printf("Firework viewer initialized: %d particles per burst, pool of %d",
		cfg.Firework.Particles, cfg.Firework.MaxActive)

	// 启动时放一个烟花，避免空白屏幕
	v.fireworks.SpawnInView(v.camera)
	return v
}

// Update handles input and advances the particle systems
func (v *FireworkViewer) Update() error {
	now := v.clock.Now()

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		proj := systems.NewProjector(screenWidth, screenHeight, v.cfg.Camera.FOV, v.camera)
		v.fireworks.Spawn(proj.Unproject(float64(x), float64(y), v.cfg.Firework.SpawnDistance))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.merryChristmas(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.autoPlay = !v.autoPlay
		v.lastAutoPlay = now
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.tasks.Clear()
		v.fireworks.ReleaseAll()
		log.Printf("Cleared all fireworks")
	}

	if v.autoPlay && now.Sub(v.lastAutoPlay) >= autoPlayInterval {
		v.lastAutoPlay = now
		v.fireworks.SpawnInView(v.camera)
	}

	v.tasks.Drain(now)
	if v.snow != nil {
		v.snow.Update()
	}
	v.fireworks.Update()
	return nil
}

func (v *FireworkViewer) merryChristmas(now time.Time) {
	for i := 0; i < v.cfg.Motion.CelebrationBursts; i++ {
		at := now.Add(time.Duration(i) * v.cfg.Motion.CelebrationStagger)
		v.tasks.Schedule(at, func() {
			v.fireworks.SpawnInView(v.camera)
		})
	}
}

// Draw renders the fireworks and a status line
func (v *FireworkViewer) Draw(screen *ebiten.Image) {
	status := fmt.Sprintf("Bursts %d/%d | spawned %d, dropped %d | last %s | auto-play %v",
		v.fireworks.Active(), v.fireworks.Capacity(), v.spawned, v.dropped, v.lastScheme, v.autoPlay)
	v.renderer.Draw(screen, &systems.SceneView{
		Background: v.cfg.Window.BackgroundColor(),
		FOV:        v.cfg.Camera.FOV,
		Camera:     v.camera,
		Snow:       v.snow,
		Fireworks:  v.fireworks.Bursts(),
		Status:     status,
	})
}

// Layout returns the viewer's logical screen size
func (v *FireworkViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	viewer := NewFireworkViewer(cfg)
	defer viewer.audio.Close()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Snowglobe - Firework Viewer")

	if err := ebiten.RunGame(viewer); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
