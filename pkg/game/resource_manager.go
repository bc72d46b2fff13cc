package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	synth "github.com/gonewx/snowglobe/internal/audio"
)

// ErrAudioUnavailable 没有可用的音频上下文（无音频设备或初始化失败）
var ErrAudioUnavailable = errors.New("audio unavailable")

// ResourceManager is responsible for loading and caching audio resources.
//
// Audio files are decoded once into PCM (16-bit stereo at the context sample
// rate) and cached by path, so every one-shot playback can create its own
// player from the same bytes without touching the disk again.
//
// A nil audio context is allowed: decoding still works, but creating players
// fails with ErrAudioUnavailable and callers fall back to silence.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. Load everything on the game goroutine.
type ResourceManager struct {
	audioContext *audio.Context
	sampleRate   int
	pcmCache     map[string][]byte // path -> decoded PCM
}

// NewResourceManager creates a ResourceManager for the given audio context.
// sampleRate is used for decoding when audioContext is nil.
func NewResourceManager(audioContext *audio.Context, sampleRate int) *ResourceManager {
	if audioContext != nil {
		sampleRate = audioContext.SampleRate()
	}
	return &ResourceManager{
		audioContext: audioContext,
		sampleRate:   sampleRate,
		pcmCache:     make(map[string][]byte),
	}
}

// AudioContext returns the audio context, or nil in silent mode.
func (rm *ResourceManager) AudioContext() *audio.Context {
	return rm.audioContext
}

// SampleRate returns the decoding sample rate.
func (rm *ResourceManager) SampleRate() int {
	return rm.sampleRate
}

// LoadPCM decodes an audio file (.mp3, .ogg or .wav) into PCM and caches it.
func (rm *ResourceManager) LoadPCM(path string) ([]byte, error) {
	if pcm, ok := rm.pcmCache[path]; ok {
		return pcm, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	pcm, err := decodeAudio(rm.sampleRate, filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio %s: %w", path, err)
	}

	rm.pcmCache[path] = pcm
	return pcm, nil
}

// FireworkSoundPCM returns the firework sound: the file at path when set,
// otherwise a synthesized pop.
func (rm *ResourceManager) FireworkSoundPCM(path string, rng *rand.Rand) ([]byte, error) {
	if path != "" {
		return rm.LoadPCM(path)
	}
	const key = "synth:firework-pop"
	if pcm, ok := rm.pcmCache[key]; ok {
		return pcm, nil
	}
	pcm := synth.SynthesizeFireworkPop(rm.sampleRate, rng)
	rm.pcmCache[key] = pcm
	return pcm, nil
}

// NewOneShotPlayer creates an independent player for PCM data.
// Players never share state, so several can play the same sound at once.
func (rm *ResourceManager) NewOneShotPlayer(pcm []byte) (*audio.Player, error) {
	if rm.audioContext == nil {
		return nil, ErrAudioUnavailable
	}
	return rm.audioContext.NewPlayerFromBytes(pcm), nil
}

// NewLoopPlayer creates a player that repeats the PCM data forever.
func (rm *ResourceManager) NewLoopPlayer(pcm []byte) (*audio.Player, error) {
	if rm.audioContext == nil {
		return nil, ErrAudioUnavailable
	}
	stream := synth.NewPCMStream(pcm)
	player, err := rm.audioContext.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		return nil, fmt.Errorf("failed to create loop player: %w", err)
	}
	return player, nil
}

// decodeAudio decodes by extension, resampling to sampleRate.
func decodeAudio(sampleRate int, ext string, data []byte) ([]byte, error) {
	reader := bytes.NewReader(data)

	var stream io.Reader
	switch strings.ToLower(ext) {
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("mp3: %w", err)
		}
		stream = s
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("ogg: %w", err)
		}
		stream = s
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("wav: %w", err)
		}
		stream = s
	default:
		return nil, fmt.Errorf("unsupported audio format: %q (supported: .mp3, .ogg, .wav)", ext)
	}

	return io.ReadAll(stream)
}
