package game

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/snowglobe/pkg/config"
	"github.com/gonewx/snowglobe/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// VolumeStep 音量快捷键每次调整的幅度
const VolumeStep = 0.1

// GameSettings 用户可调整的设置，跨启动持久化
type GameSettings struct {
	MusicVolume  float64 `yaml:"musicVolume"` // 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"` // 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"`
	SoundEnabled bool    `yaml:"soundEnabled"`

	Fullscreen      bool `yaml:"fullscreen"`      // 启动时是否全屏
	ShowHandOverlay bool `yaml:"showHandOverlay"` // 是否显示手部骨架
}

// DefaultSettings 首次启动的设置，音量取自场景配置
func DefaultSettings(audio config.AudioConfig) *GameSettings {
	return &GameSettings{
		MusicVolume:     clampVolume(audio.MusicVolume),
		SoundVolume:     clampVolume(audio.SoundVolume),
		MusicEnabled:    true,
		SoundEnabled:    true,
		ShowHandOverlay: true,
	}
}

// SettingsManager 加载、修改并保存 GameSettings
//
// gdataManager 为 nil 时进入降级模式：设置只保存在内存中。
type SettingsManager struct {
	gdataManager *gdata.Manager
	defaults     config.AudioConfig
	settings     *GameSettings
}

const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// OpenSettingsStorage 打开 gdata 存储（应用名 snowglobe）
// 失败时返回 nil 和错误，调用方以降级模式继续。
func OpenSettingsStorage() (*gdata.Manager, error) {
	if err := utils.EnsureStorageDir(settingsObject); err != nil {
		return nil, err
	}
	m, err := gdata.Open(gdata.Config{AppName: "snowglobe"})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings storage: %w", err)
	}
	return m, nil
}

// NewSettingsManager 创建设置管理器并加载已保存的设置。
// 没有保存过设置时使用 audio 中的默认音量；加载失败只记录日志。
func NewSettingsManager(gdataManager *gdata.Manager, audio config.AudioConfig) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		defaults:     audio,
		settings:     DefaultSettings(audio),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 读取设置；不存在或损坏时回退到默认设置
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings(sm.defaults)
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	var loaded GameSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded")
	return nil
}

// Save 写回 gdata，降级模式下为空操作
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// GetSettings 返回当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量（限制在 0 ~ 1），返回实际值
func (sm *SettingsManager) SetMusicVolume(volume float64) float64 {
	sm.settings.MusicVolume = clampVolume(volume)
	return sm.settings.MusicVolume
}

// SetSoundVolume 设置音效音量（限制在 0 ~ 1），返回实际值
func (sm *SettingsManager) SetSoundVolume(volume float64) float64 {
	sm.settings.SoundVolume = clampVolume(volume)
	return sm.settings.SoundVolume
}

// ToggleMusic 切换音乐开关，返回新状态
func (sm *SettingsManager) ToggleMusic() bool {
	sm.settings.MusicEnabled = !sm.settings.MusicEnabled
	return sm.settings.MusicEnabled
}

// ToggleSound 切换音效开关，返回新状态
func (sm *SettingsManager) ToggleSound() bool {
	sm.settings.SoundEnabled = !sm.settings.SoundEnabled
	return sm.settings.SoundEnabled
}

// ToggleFullscreen 切换全屏，返回新状态
func (sm *SettingsManager) ToggleFullscreen() bool {
	sm.settings.Fullscreen = !sm.settings.Fullscreen
	return sm.settings.Fullscreen
}

// ToggleHandOverlay 切换手部骨架显示，返回新状态
func (sm *SettingsManager) ToggleHandOverlay() bool {
	sm.settings.ShowHandOverlay = !sm.settings.ShowHandOverlay
	return sm.settings.ShowHandOverlay
}

// clampVolume 限制在 0 ~ 1，并消除步进累加的浮点误差
func clampVolume(volume float64) float64 {
	volume = math.Round(volume*100) / 100
	return math.Max(0, math.Min(1, volume))
}
