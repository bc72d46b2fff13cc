// Package app 提供场景应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/game"
	"github.com/gonewx/snowglobe/pkg/handtrack"
	"github.com/gonewx/snowglobe/pkg/metrics"
	"github.com/gonewx/snowglobe/pkg/scenes"
	"github.com/gonewx/snowglobe/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 用户配置文件，为空时使用内嵌默认值（和 SNOWGLOBE_CONFIG）
	ConfigPath string
	// HandsAddr 覆盖 hand_tracking.addr，nil 表示使用配置文件的值，空串表示关闭
	HandsAddr *string
	// MetricsAddr 覆盖 metrics.addr，nil 表示使用配置文件的值，空串表示关闭
	MetricsAddr *string
	// Keyboard 覆盖 hand_tracking.keyboard
	Keyboard *bool
}

// App 是场景应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          *config.SceneConfig
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	cancel       context.CancelFunc
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 加载配置、启动追踪服务和指标端点，创建圣诞场景
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	sceneCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	applyOverrides(sceneCfg, cfg)

	ctx, cancel := context.WithCancel(context.Background())

	// 指标
	metricsManager := metrics.NewManager(metrics.WithNamespace(sceneCfg.Metrics.Namespace))
	if addr := sceneCfg.Metrics.Addr; addr != "" {
		if _, err := metricsManager.Serve(ctx, addr); err != nil {
			log.Printf("[App] Warning: metrics endpoint disabled: %v", err)
		}
	}

	// 手部追踪输入
	mailbox := handtrack.NewMailbox()
	if sceneCfg.HandTracking.Addr != "" {
		server := handtrack.NewServer(sceneCfg.HandTracking, mailbox, metricsManager)
		if _, err := server.Start(ctx); err != nil {
			log.Printf("[App] Warning: hand tracking server disabled: %v", err)
		}
	}
	var keyboard *handtrack.KeyboardSource
	if sceneCfg.HandTracking.Keyboard && !utils.IsMobile() {
		keyboard = handtrack.NewKeyboardSource(mailbox)
		log.Printf("[App] Keyboard simulator enabled (F/V/arrows/N)")
	}

	// 设置（gdata 不可用时降级为内存模式）
	storage, err := game.OpenSettingsStorage()
	if err != nil {
		log.Printf("[App] Warning: %v (settings will not persist)", err)
	}
	settings := game.NewSettingsManager(storage, sceneCfg.Audio)

	// 音频
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	audioContext := audio.NewContext(sceneCfg.Audio.SampleRate)
	resourceManager := game.NewResourceManager(audioContext, sceneCfg.Audio.SampleRate)
	audioManager, err := game.NewAudioManager(resourceManager, settings, sceneCfg.Audio, rng)
	if err != nil {
		log.Printf("[App] Audio degraded: %v", err)
	}
	log.Printf("[App] AudioManager initialized")

	scene := scenes.NewChristmasScene(scenes.ChristmasSceneOptions{
		Config:     sceneCfg,
		Clock:      game.NewSystemClock(),
		Rand:       rng,
		Mailbox:    mailbox,
		Keyboard:   keyboard,
		Audio:      audioManager,
		Settings:   settings,
		Metrics:    metricsManager,
		KeyPressed: inpututil.IsKeyJustPressed,
		Tapped: func() bool {
			tapped, _, _ := utils.IsJustTouchedOrClicked()
			return tapped
		},
	})

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		cfg:          sceneCfg,
		sceneManager: sceneManager,
		settings:     settings,
		cancel:       cancel,
		verbose:      cfg.Verbose,
	}, nil
}

func applyOverrides(sceneCfg *config.SceneConfig, cfg Config) {
	if cfg.HandsAddr != nil {
		sceneCfg.HandTracking.Addr = *cfg.HandsAddr
	}
	if cfg.MetricsAddr != nil {
		sceneCfg.Metrics.Addr = *cfg.MetricsAddr
	}
	if cfg.Keyboard != nil {
		sceneCfg.HandTracking.Keyboard = *cfg.Keyboard
	}
}

// Update 更新场景逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := a.settings.ToggleFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
	}
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制场景
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 逻辑尺寸跟随窗口尺寸，相机宽高比随之变化
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.cfg.Window.Width, a.cfg.Window.Height
	}
	return outsideWidth, outsideHeight
}

// WindowConfig 返回窗口配置（main 用于设置初始窗口）
func (a *App) WindowConfig() config.WindowConfig {
	return a.cfg.Window
}

// Close 关闭场景、停止后台服务并保存设置
func (a *App) Close() {
	a.sceneManager.Close()
	a.cancel()
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
