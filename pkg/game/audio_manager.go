package game

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/gonewx/snowglobe/pkg/config"
)

// SoundPlayer 音频播放器接口（*audio.Player 满足此接口）
type SoundPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

// PlayerFactory 创建一个新的播放器
type PlayerFactory func() (SoundPlayer, error)

// AudioManager 音频管理器
// 职责：
//   - 背景音乐：循环播放，只启动一次（PlayLoopingTrack 幂等）
//   - 烟花音效：每次触发创建独立播放器，多个音效可以重叠播放
//   - 同时播放的音效数量上限为 maxOverlapping，超出的触发直接丢弃
//   - 音量和开关从 SettingsManager 读取；没有 SettingsManager 时使用配置中的音量
//
// 工厂为 nil 时对应的音频处于静默模式，所有播放请求返回 false。
type AudioManager struct {
	settingsManager *SettingsManager
	newSound        PlayerFactory
	newMusic        PlayerFactory
	maxOverlapping  int
	musicVolume     float64
	soundVolume     float64

	music        SoundPlayer
	musicStarted bool
	oneShots     []SoundPlayer // 正在播放的音效
}

// NewAudioManager 用 ResourceManager 加载配置中的音乐和音效。
// 加载失败时对应部分进入静默模式，错误通过返回值报告（不影响创建）。
func NewAudioManager(rm *ResourceManager, sm *SettingsManager, cfg config.AudioConfig, rng *rand.Rand) (*AudioManager, error) {
	var loadErr error

	var sound PlayerFactory
	if rm.AudioContext() == nil {
		loadErr = ErrAudioUnavailable
	} else if pcm, err := rm.FireworkSoundPCM(cfg.FireworkSoundPath, rng); err != nil {
		loadErr = fmt.Errorf("firework sound: %w", err)
	} else {
		sound = func() (SoundPlayer, error) { return rm.NewOneShotPlayer(pcm) }
	}

	var music PlayerFactory
	if cfg.MusicPath != "" && rm.AudioContext() != nil {
		if pcm, err := rm.LoadPCM(cfg.MusicPath); err != nil {
			if loadErr == nil {
				loadErr = fmt.Errorf("music: %w", err)
			}
		} else {
			music = func() (SoundPlayer, error) { return rm.NewLoopPlayer(pcm) }
		}
	}

	am := NewAudioManagerWithFactories(sm, sound, music, cfg)
	if loadErr != nil {
		log.Printf("[AudioManager] Warning: %v (continuing without it)", loadErr)
	}
	return am, loadErr
}

// NewAudioManagerWithFactories 直接指定播放器工厂（测试和自定义后端使用）。
// cfg.MaxOverlappingSounds <= 0 表示不限制。
func NewAudioManagerWithFactories(sm *SettingsManager, sound, music PlayerFactory, cfg config.AudioConfig) *AudioManager {
	return &AudioManager{
		settingsManager: sm,
		newSound:        sound,
		newMusic:        music,
		maxOverlapping:  cfg.MaxOverlappingSounds,
		musicVolume:     clampVolume(cfg.MusicVolume),
		soundVolume:     clampVolume(cfg.SoundVolume),
	}
}

// PlayLoopingTrack 开始循环播放背景音乐。
// 只在第一次调用时生效，之后的调用都是空操作（即使第一次失败）。
//
// 返回：
//   - error: 播放器创建失败
func (am *AudioManager) PlayLoopingTrack() error {
	if am.musicStarted {
		return nil
	}
	am.musicStarted = true

	if am.newMusic == nil {
		return nil
	}
	player, err := am.newMusic()
	if err != nil {
		return fmt.Errorf("failed to start music: %w", err)
	}
	am.music = player
	player.SetVolume(am.getMusicVolume())
	if am.musicEnabled() {
		player.Play()
	}
	log.Printf("[AudioManager] Music started (volume: %.2f)", am.getMusicVolume())
	return nil
}

// MusicStarted 是否已经调用过 PlayLoopingTrack
func (am *AudioManager) MusicStarted() bool {
	return am.musicStarted
}

// PlayOneShotSound 播放一次烟花音效。
//
// 返回：
//   - bool: 是否实际开始播放（音效关闭、静默模式或达到重叠上限时为 false）
//   - error: 播放器创建失败
func (am *AudioManager) PlayOneShotSound() (bool, error) {
	if am.newSound == nil || !am.soundEnabled() {
		return false, nil
	}

	am.reapFinished()
	if am.maxOverlapping > 0 && len(am.oneShots) >= am.maxOverlapping {
		return false, nil
	}

	player, err := am.newSound()
	if err != nil {
		return false, fmt.Errorf("failed to create sound player: %w", err)
	}
	player.SetVolume(am.getSoundVolume())
	player.Play()
	am.oneShots = append(am.oneShots, player)
	return true, nil
}

// ActiveSounds 返回仍在播放的音效数量
func (am *AudioManager) ActiveSounds() int {
	am.reapFinished()
	return len(am.oneShots)
}

// reapFinished 关闭并移除已播放完的音效
func (am *AudioManager) reapFinished() {
	alive := am.oneShots[:0]
	for _, p := range am.oneShots {
		if p.IsPlaying() {
			alive = append(alive, p)
			continue
		}
		if err := p.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close sound player: %v", err)
		}
	}
	for i := len(alive); i < len(am.oneShots); i++ {
		am.oneShots[i] = nil
	}
	am.oneShots = alive
}

// ApplySettings 把当前设置应用到正在播放的音频（开关切换后调用）
func (am *AudioManager) ApplySettings() {
	if am.music != nil {
		am.music.SetVolume(am.getMusicVolume())
		if am.musicEnabled() && !am.music.IsPlaying() {
			am.music.Play()
		} else if !am.musicEnabled() && am.music.IsPlaying() {
			am.music.Pause()
		}
	}
	if !am.soundEnabled() {
		am.stopSounds()
	}
}

// Close 停止并释放所有播放器
func (am *AudioManager) Close() {
	if am.music != nil {
		am.music.Pause()
		if err := am.music.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close music player: %v", err)
		}
		am.music = nil
	}
	am.stopSounds()
}

func (am *AudioManager) stopSounds() {
	for _, p := range am.oneShots {
		p.Pause()
		if err := p.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close sound player: %v", err)
		}
	}
	am.oneShots = nil
}

func (am *AudioManager) musicEnabled() bool {
	return am.settingsManager == nil || am.settingsManager.GetSettings().MusicEnabled
}

func (am *AudioManager) soundEnabled() bool {
	return am.settingsManager == nil || am.settingsManager.GetSettings().SoundEnabled
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return am.musicVolume
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return am.soundVolume
}
