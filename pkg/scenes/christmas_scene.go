package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/entities"
	"github.com/gonewx/snowglobe/pkg/game"
	"github.com/gonewx/snowglobe/pkg/handtrack"
	"github.com/gonewx/snowglobe/pkg/metrics"
	"github.com/gonewx/snowglobe/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneLoadedMessage 启动完成后显示的状态文本
const SceneLoadedMessage = "Scene loaded! Use gestures to control."

// ChristmasSceneOptions 场景依赖
//
// Config、Clock、Mailbox 必填；其余为 nil 时对应功能关闭。
type ChristmasSceneOptions struct {
	Config   *config.SceneConfig
	Clock    game.Clock
	Rand     *rand.Rand
	Mailbox  *handtrack.Mailbox
	Keyboard *handtrack.KeyboardSource
	Audio    *game.AudioManager
	Settings *game.SettingsManager
	Metrics  *metrics.Manager

	// KeyPressed 设置快捷键检测（M/S/H，-/= 音乐音量，[/] 音效音量）
	KeyPressed handtrack.KeyPressedFunc
	// Tapped 点击/触摸检测，点击时在视野中放一个烟花
	Tapped func() bool
}

// ChristmasScene 手势控制的圣诞场景
//
// 帧循环（Tick）步骤顺序固定：
//  1. 读取最新手部帧并分类，首次检测到手时启动背景音乐
//  2. MotionSystem 更新速度并产生事件
//  3. 分发事件，执行到期的延迟任务
//  4. 相机旋转/缩放
//  5. 雪花
//  6. 烟花
//  7. 请求渲染
//
// 所有状态只在 ebiten 的更新 goroutine 中修改。
type ChristmasScene struct {
	cfg      *config.SceneConfig
	clock    game.Clock
	mailbox  *handtrack.Mailbox
	keyboard *handtrack.KeyboardSource
	audio    *game.AudioManager
	settings *game.SettingsManager
	metrics  *metrics.Manager

	keyPressed handtrack.KeyPressedFunc
	tapped     func() bool

	state     *game.GameState
	motion    *systems.MotionSystem
	camera    *systems.CameraSystem
	snow      *systems.SnowfallSystem
	fireworks *systems.FireworkSystem
	lights    *systems.LightSystem
	renderer  *systems.RenderSystem
	status    *game.StatusBoard
	tasks     *game.TaskQueue

	tree       []entities.TreePoint
	background color.RGBA
	started    time.Time

	lastFrame   *components.HandFrame
	lastSeq     uint64
	alive       bool
	needsRender bool
}

// NewChristmasScene 创建场景并初始化所有粒子系统
func NewChristmasScene(opts ChristmasSceneOptions) *ChristmasScene {
	cfg := opts.Config
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	s := &ChristmasScene{
		cfg:        cfg,
		clock:      opts.Clock,
		mailbox:    opts.Mailbox,
		keyboard:   opts.Keyboard,
		audio:      opts.Audio,
		settings:   opts.Settings,
		metrics:    opts.Metrics,
		keyPressed: opts.KeyPressed,
		tapped:     opts.Tapped,
		state:      game.NewGameState(cfg.Camera),
		motion:     systems.NewMotionSystem(cfg.Motion),
		camera:     systems.NewCameraSystem(cfg.Camera),
		snow:       systems.NewSnowfallSystem(cfg.Snowfall, rng),
		fireworks:  systems.NewFireworkSystem(cfg.Firework, rng),
		lights:     systems.NewLightSystem(cfg.Lights),
		renderer:   systems.NewRenderSystem(),
		status:     game.NewStatusBoard(opts.Clock),
		tasks:      game.NewTaskQueue(),
		tree:       entities.CreateTree(entities.DefaultTreeOptions(), rng),
		background: cfg.Window.BackgroundColor(),
		started:    opts.Clock.Now(),
		alive:      true,
	}

	s.fireworks.OnSpawn = func(*systems.FireworkBurst) {
		s.metrics.RecordFireworkSpawned()
		s.playFireworkSound()
	}
	s.fireworks.OnDrop = func(components.Vec3) {
		s.metrics.RecordFireworkDropped()
	}

	s.status.SetStatusText(SceneLoadedMessage)
	log.Printf("[ChristmasScene] Loaded: %d snowflakes, %d tree points, firework pool %d",
		s.snow.Buffer.Count, len(s.tree), s.fireworks.Capacity())
	return s
}

// Update 实现 game.Scene，处理输入后执行一次帧循环
func (s *ChristmasScene) Update(deltaTime float64) {
	if !s.alive {
		return
	}
	if s.keyboard != nil {
		s.safeCall("Keyboard", func() error {
			s.keyboard.Update()
			return nil
		})
	}
	s.handleSettingsKeys()
	if s.tapped != nil && s.tapped() {
		s.spawnFirework()
	}
	s.Tick(s.clock.Now())
}

// Tick 执行一次帧循环
func (s *ChristmasScene) Tick(now time.Time) {
	if !s.alive {
		return
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.reportFailure("FrameLoop", fmt.Errorf("panic: %v", r))
		}
	}()
	s.state.Ticks++

	// 1. 手势
	frame, seq := s.mailbox.Snapshot()
	gesture := systems.ClassifyGesture(frame)
	s.metrics.RecordGesture(gesture.Kind.String())
	// 关键点不足的观测等同于无手
	present := frame.IsComplete()
	if seq != s.lastSeq {
		s.lastSeq = seq
		if text := systems.DescribeGesture(gesture, present); text != "" {
			s.status.SetStatusText(text)
		}
	}
	s.lastFrame = frame
	if present && !s.state.HandSeen {
		s.state.HandSeen = true
		s.startMusic()
	}

	// 2. 运动
	event := s.motion.Update(gesture, now, &s.state.Motion, &s.state.Throttle)

	// 3. 事件与延迟任务
	s.dispatch(event, now)
	s.tasks.Drain(now)

	// 4. 相机
	s.camera.Apply(s.state.Motion, &s.state.Camera, &s.state.Model)

	// 5. 雪花
	s.snow.Update()

	// 6. 烟花
	s.fireworks.Update()
	s.metrics.SetActiveBursts(s.fireworks.Active())

	// 7. 渲染请求
	s.lights.Update(now.Sub(s.started).Seconds())
	s.needsRender = true
	s.metrics.RecordTick(time.Since(start).Seconds())
}

func (s *ChristmasScene) dispatch(event systems.MotionEvent, now time.Time) {
	switch event {
	case systems.MotionEventFirework:
		log.Printf("[ChristmasScene] Fist detected, launching firework")
		s.status.SetStatusText(systems.DescribeEvent(event))
		s.spawnFirework()

	case systems.MotionEventMerryChristmas:
		log.Printf("[ChristmasScene] Victory detected, Merry Christmas!")
		s.status.SetStatusText(systems.DescribeEvent(event))
		s.status.TriggerCelebrationAnimation()
		for i := 0; i < s.cfg.Motion.CelebrationBursts; i++ {
			at := now.Add(time.Duration(i) * s.cfg.Motion.CelebrationStagger)
			s.tasks.Schedule(at, func() {
				// 场景关闭后延迟任务不得产生副作用
				if s.alive {
					s.spawnFirework()
				}
			})
		}
	}
}

func (s *ChristmasScene) spawnFirework() {
	s.fireworks.SpawnInView(s.state.Camera)
}

func (s *ChristmasScene) startMusic() {
	if s.audio == nil {
		return
	}
	s.safeCall("AudioManager", s.audio.PlayLoopingTrack)
}

func (s *ChristmasScene) playFireworkSound() {
	if s.audio == nil {
		return
	}
	s.safeCall("AudioManager", func() error {
		_, err := s.audio.PlayOneShotSound()
		return err
	})
}

func (s *ChristmasScene) handleSettingsKeys() {
	if s.keyPressed == nil || s.settings == nil {
		return
	}
	changed := false
	switch {
	case s.keyPressed(ebiten.KeyM):
		s.status.SetStatusText(onOff("Music", s.settings.ToggleMusic()))
		changed = true
	case s.keyPressed(ebiten.KeyS):
		s.status.SetStatusText(onOff("Sound effects", s.settings.ToggleSound()))
		changed = true
	case s.keyPressed(ebiten.KeyH):
		s.status.SetStatusText(onOff("Hand overlay", s.settings.ToggleHandOverlay()))
		changed = true
	case s.keyPressed(ebiten.KeyMinus), s.keyPressed(ebiten.KeyEqual):
		v := s.settings.GetSettings().MusicVolume + volumeDelta(s.keyPressed(ebiten.KeyEqual))
		s.status.SetStatusText(percent("Music volume", s.settings.SetMusicVolume(v)))
		changed = true
	case s.keyPressed(ebiten.KeyBracketLeft), s.keyPressed(ebiten.KeyBracketRight):
		v := s.settings.GetSettings().SoundVolume + volumeDelta(s.keyPressed(ebiten.KeyBracketRight))
		s.status.SetStatusText(percent("Sound volume", s.settings.SetSoundVolume(v)))
		changed = true
	}
	if !changed {
		return
	}
	if s.audio != nil {
		s.audio.ApplySettings()
	}
	s.safeCall("SettingsManager", s.settings.Save)
}

func volumeDelta(up bool) float64 {
	if up {
		return game.VolumeStep
	}
	return -game.VolumeStep
}

func percent(name string, v float64) string {
	return fmt.Sprintf("%s: %d%%", name, int(math.Round(v*100)))
}

func onOff(name string, on bool) string {
	if on {
		return name + ": on"
	}
	return name + ": off"
}

// safeCall 调用协作者，错误和 panic 都转为状态文本，不中断帧循环
func (s *ChristmasScene) safeCall(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.reportFailure(name, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		s.reportFailure(name, err)
	}
}

func (s *ChristmasScene) reportFailure(name string, err error) {
	log.Printf("[ChristmasScene] %s failed: %v", name, err)
	s.status.SetStatusText(fmt.Sprintf("[%s] %v", name, err))
	s.metrics.RecordCollaboratorError(name)
}

// Draw 实现 game.Scene
func (s *ChristmasScene) Draw(screen *ebiten.Image) {
	s.safeCall("RenderSystem", func() error {
		s.renderer.Draw(screen, s.View())
		return nil
	})
	s.needsRender = false
}

// View 返回当前帧的渲染快照
func (s *ChristmasScene) View() *systems.SceneView {
	progress, celebrating := s.status.Celebration()
	showHand := true
	if s.settings != nil {
		showHand = s.settings.GetSettings().ShowHandOverlay
	}
	return &systems.SceneView{
		Background:  s.background,
		FOV:         s.cfg.Camera.FOV,
		Camera:      s.state.Camera,
		Model:       s.state.Model,
		Tree:        s.tree,
		Lights:      s.lights,
		Snow:        s.snow,
		Fireworks:   s.fireworks.Bursts(),
		Hand:        s.lastFrame,
		ShowHand:    showHand,
		Status:      s.status.Text(),
		Celebrating: celebrating,
		Celebration: progress,
	}
}

// Close 实现 game.Closer：停止音乐、丢弃延迟任务、释放所有烟花。可重复调用。
func (s *ChristmasScene) Close() {
	if !s.alive {
		return
	}
	s.alive = false
	s.tasks.Clear()
	s.fireworks.ReleaseAll()
	s.metrics.SetActiveBursts(0)
	if s.audio != nil {
		s.audio.Close()
	}
	log.Printf("[ChristmasScene] Closed after %d ticks", s.state.Ticks)
}

// State 返回场景状态（只读使用）
func (s *ChristmasScene) State() *game.GameState {
	return s.state
}

// Fireworks 返回烟花系统
func (s *ChristmasScene) Fireworks() *systems.FireworkSystem {
	return s.fireworks
}

// Snowfall 返回雪花系统
func (s *ChristmasScene) Snowfall() *systems.SnowfallSystem {
	return s.snow
}

// Status 返回状态面板
func (s *ChristmasScene) Status() *game.StatusBoard {
	return s.status
}

// PendingTasks 未执行的延迟任务数
func (s *ChristmasScene) PendingTasks() int {
	return s.tasks.Len()
}

// NeedsRender 上次 Tick 之后是否还没有绘制
func (s *ChristmasScene) NeedsRender() bool {
	return s.needsRender
}

// Alive 场景是否仍在运行
func (s *ChristmasScene) Alive() bool {
	return s.alive
}
