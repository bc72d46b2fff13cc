// Package audio 生成程序化音效 PCM 数据。
//
// 输出格式与 Ebitengine 音频上下文一致：16-bit 有符号小端、双声道交错。
package audio

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
)

const (
	bytesPerFrame = 4 // 2 声道 × 16 bit

	popDuration = 0.9 // 秒
)

// PCMStream 内存中的 PCM 数据流，实现 io.ReadSeeker 和 Length()，
// 可直接交给 audio.Context.NewPlayer。
type PCMStream struct {
	data   []byte
	offset int64
}

// NewPCMStream 包装一段 PCM 数据（不复制）
func NewPCMStream(pcm []byte) *PCMStream {
	return &PCMStream{data: pcm}
}

// Read implements io.Reader.
func (s *PCMStream) Read(p []byte) (int, error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (s *PCMStream) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.offset + offset
	case io.SeekEnd:
		next = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position: %d", next)
	}
	s.offset = next
	return next, nil
}

// Length 返回 PCM 数据总字节数
func (s *PCMStream) Length() int64 {
	return int64(len(s.data))
}

// SynthesizeFireworkPop 合成一次烟花爆炸音效：
// 低频爆裂声 + 衰减白噪声 + 尾部随机噼啪声。
// 未配置音效文件时使用。
func SynthesizeFireworkPop(sampleRate int, rng *rand.Rand) []byte {
	frames := int(popDuration * float64(sampleRate))
	pcm := make([]byte, frames*bytesPerFrame)
	sr := float64(sampleRate)

	// 噼啪声：0.2s 之后随机分布的短脉冲
	type crackle struct {
		start int
		amp   float64
	}
	crackles := make([]crackle, 24)
	for i := range crackles {
		crackles[i] = crackle{
			start: int((0.2 + rng.Float64()*0.6) * sr),
			amp:   0.15 + rng.Float64()*0.25,
		}
	}
	crackleLen := int(0.008 * sr)

	for i := 0; i < frames; i++ {
		t := float64(i) / sr
		attack := math.Min(1, t/0.004)

		thump := math.Sin(2*math.Pi*70*t) * math.Exp(-t*18) * 0.6
		noise := (rng.Float64()*2 - 1) * math.Exp(-t*9) * 0.45

		var crack float64
		for _, c := range crackles {
			if d := i - c.start; d >= 0 && d < crackleLen {
				crack += (rng.Float64()*2 - 1) * c.amp * (1 - float64(d)/float64(crackleLen))
			}
		}

		// 尾部 50ms 线性收尾，避免截断爆音
		tail := math.Min(1, (popDuration-t)/0.05)
		v := (thump + noise + crack) * attack * tail
		v = math.Max(-1, math.Min(1, v))

		sample := int16(v * math.MaxInt16)
		j := i * bytesPerFrame
		pcm[j] = byte(sample)
		pcm[j+1] = byte(sample >> 8)
		pcm[j+2] = byte(sample)
		pcm[j+3] = byte(sample >> 8)
	}
	return pcm
}
