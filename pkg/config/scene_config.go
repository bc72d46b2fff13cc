package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/gonewx/snowglobe/internal/particle"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// SceneConfig 场景总配置
//
// 加载顺序（低 → 高）：
//  1. 内嵌 default_config.yaml
//  2. 用户 YAML 文件（--config 或 SNOWGLOBE_CONFIG）
//  3. 环境变量 SNOWGLOBE_<SECTION>__<KEY>
type SceneConfig struct {
	Window       WindowConfig       `yaml:"window" koanf:"window"`
	Snowfall     SnowfallConfig     `yaml:"snowfall" koanf:"snowfall"`
	Firework     FireworkConfig     `yaml:"firework" koanf:"firework"`
	Motion       MotionConfig       `yaml:"motion" koanf:"motion"`
	Camera       CameraConfig       `yaml:"camera" koanf:"camera"`
	Audio        AudioConfig        `yaml:"audio" koanf:"audio"`
	HandTracking HandTrackingConfig `yaml:"hand_tracking" koanf:"hand_tracking"`
	Metrics      MetricsConfig      `yaml:"metrics" koanf:"metrics"`
	Lights       LightsConfig       `yaml:"lights" koanf:"lights"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width      int    `yaml:"width" koanf:"width"`
	Height     int    `yaml:"height" koanf:"height"`
	Title      string `yaml:"title" koanf:"title"`
	Background string `yaml:"background" koanf:"background"` // 背景色（也是雾的颜色）
}

// SnowfallConfig 雪花粒子系统配置
type SnowfallConfig struct {
	Count   int            `yaml:"count" koanf:"count"`
	Spread  particle.Range `yaml:"spread" koanf:"spread"`   // 水平 X/Z 分布（回收时同样使用）
	Height  particle.Range `yaml:"height" koanf:"height"`   // 初始高度分布
	Drift   particle.Range `yaml:"drift" koanf:"drift"`     // 水平速度
	Fall    particle.Range `yaml:"fall" koanf:"fall"`       // 垂直速度（负值下落）
	Floor   float64        `yaml:"floor" koanf:"floor"`     // 低于此高度回收
	Ceiling float64        `yaml:"ceiling" koanf:"ceiling"` // 回收后的高度
	Size    float64        `yaml:"size" koanf:"size"`
	Opacity float64        `yaml:"opacity" koanf:"opacity"`
}

// FireworkConfig 烟花粒子系统配置
type FireworkConfig struct {
	Particles     int            `yaml:"particles" koanf:"particles"`   // 每次爆炸的粒子数
	MaxActive     int            `yaml:"max_active" koanf:"max_active"` // 同时存在的烟花上限
	Speed         particle.Range `yaml:"speed" koanf:"speed"`
	Size          particle.Range `yaml:"size" koanf:"size"`
	Gravity       float64        `yaml:"gravity" koanf:"gravity"`
	Drag          float64        `yaml:"drag" koanf:"drag"`
	Shrink        float64        `yaml:"shrink" koanf:"shrink"`
	FadeRate      float64        `yaml:"fade_rate" koanf:"fade_rate"`
	FadeStart     float64        `yaml:"fade_start" koanf:"fade_start"`
	SpawnDistance float64        `yaml:"spawn_distance" koanf:"spawn_distance"` // 相机前方距离
	SpawnOffsetX  particle.Range `yaml:"spawn_offset_x" koanf:"spawn_offset_x"`
	SpawnOffsetY  particle.Range `yaml:"spawn_offset_y" koanf:"spawn_offset_y"`
}

// MotionConfig 手势节流配置
type MotionConfig struct {
	FistCooldown       time.Duration `yaml:"fist_cooldown" koanf:"fist_cooldown"`
	VictoryCooldown    time.Duration `yaml:"victory_cooldown" koanf:"victory_cooldown"`
	CelebrationBursts  int           `yaml:"celebration_bursts" koanf:"celebration_bursts"`
	CelebrationStagger time.Duration `yaml:"celebration_stagger" koanf:"celebration_stagger"`
}

// CameraConfig 相机配置
type CameraConfig struct {
	StartX float64 `yaml:"start_x" koanf:"start_x"`
	StartY float64 `yaml:"start_y" koanf:"start_y"`
	StartZ float64 `yaml:"start_z" koanf:"start_z"`
	MinZ   float64 `yaml:"min_z" koanf:"min_z"`
	MaxZ   float64 `yaml:"max_z" koanf:"max_z"`
	FOV    float64 `yaml:"fov" koanf:"fov"` // 垂直视角（度）
}

// AudioConfig 音频配置
//
// MusicVolume/SoundVolume 是首次启动的默认音量，之后以用户设置为准。
type AudioConfig struct {
	MusicPath            string  `yaml:"music_path" koanf:"music_path"`
	FireworkSoundPath    string  `yaml:"firework_sound_path" koanf:"firework_sound_path"` // 为空时使用合成音效
	MusicVolume          float64 `yaml:"music_volume" koanf:"music_volume"`
	SoundVolume          float64 `yaml:"sound_volume" koanf:"sound_volume"`
	MaxOverlappingSounds int     `yaml:"max_overlapping_sounds" koanf:"max_overlapping_sounds"`
	SampleRate           int     `yaml:"sample_rate" koanf:"sample_rate"`
}

// HandTrackingConfig 手部追踪输入配置
type HandTrackingConfig struct {
	Addr      string `yaml:"addr" koanf:"addr"` // 为空时不启动 websocket 服务
	Path      string `yaml:"path" koanf:"path"`
	Keyboard  bool   `yaml:"keyboard" koanf:"keyboard"` // 启用键盘模拟手势
	ReadLimit int64  `yaml:"read_limit" koanf:"read_limit"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Addr      string `yaml:"addr" koanf:"addr"` // 为空时不暴露 /metrics
	Namespace string `yaml:"namespace" koanf:"namespace"`
}

// LightsConfig 灯光动画配置
type LightsConfig struct {
	Speed float64 `yaml:"speed" koanf:"speed"` // 强度振荡角速度（弧度/秒）
}

// Default 返回内嵌默认配置的副本
func Default() *SceneConfig {
	cfg, err := parseYAML(defaultConfigYAML)
	if err != nil {
		// 内嵌文件由测试覆盖，解析失败只可能是构建错误
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

func parseYAML(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *SceneConfig) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive (got %dx%d)", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Snowfall.Count < 0:
		return fmt.Errorf("%w: snowfall.count must not be negative", ErrInvalidConfig)
	case c.Snowfall.Floor >= c.Snowfall.Ceiling:
		return fmt.Errorf("%w: snowfall.floor (%v) must be below snowfall.ceiling (%v)", ErrInvalidConfig, c.Snowfall.Floor, c.Snowfall.Ceiling)
	case c.Firework.Particles <= 0:
		return fmt.Errorf("%w: firework.particles must be positive", ErrInvalidConfig)
	case c.Firework.MaxActive <= 0:
		return fmt.Errorf("%w: firework.max_active must be positive", ErrInvalidConfig)
	case c.Firework.FadeRate <= 0:
		return fmt.Errorf("%w: firework.fade_rate must be positive", ErrInvalidConfig)
	case c.Firework.FadeStart <= 0 || c.Firework.FadeStart > 1:
		return fmt.Errorf("%w: firework.fade_start must be in (0, 1]", ErrInvalidConfig)
	case c.Motion.FistCooldown < 0 || c.Motion.VictoryCooldown < 0 || c.Motion.CelebrationStagger < 0:
		return fmt.Errorf("%w: motion durations must not be negative", ErrInvalidConfig)
	case c.Motion.CelebrationBursts < 0:
		return fmt.Errorf("%w: motion.celebration_bursts must not be negative", ErrInvalidConfig)
	case c.Camera.MinZ >= c.Camera.MaxZ:
		return fmt.Errorf("%w: camera.min_z (%v) must be below camera.max_z (%v)", ErrInvalidConfig, c.Camera.MinZ, c.Camera.MaxZ)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera.fov must be in (0, 180)", ErrInvalidConfig)
	case c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 || c.Audio.SoundVolume < 0 || c.Audio.SoundVolume > 1:
		return fmt.Errorf("%w: audio volumes must be in [0, 1]", ErrInvalidConfig)
	case c.Audio.MaxOverlappingSounds < 0:
		return fmt.Errorf("%w: audio.max_overlapping_sounds must not be negative", ErrInvalidConfig)
	case !validHexColor(c.Window.Background):
		return fmt.Errorf("%w: window.background %q is not a #rrggbb color", ErrInvalidConfig, c.Window.Background)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	return nil
}

// BackgroundColor 解析 window.background（#rrggbb），无效时返回 #0a1628
func (w WindowConfig) BackgroundColor() color.RGBA {
	if !validHexColor(w.Background) {
		return color.RGBA{R: 0x0a, G: 0x16, B: 0x28, A: 0xff}
	}
	v, _ := strconv.ParseUint(strings.TrimPrefix(w.Background, "#"), 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}
