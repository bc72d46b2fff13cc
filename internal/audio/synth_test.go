package audio

import (
	"encoding/binary"
	"io"
	"math/rand/v2"
	"testing"
)

func TestSynthesizeFireworkPop(t *testing.T) {
	const rate = 48000
	pcm := SynthesizeFireworkPop(rate, rand.New(rand.NewPCG(1, 2)))

	wantLen := int(popDuration*rate) * bytesPerFrame
	if len(pcm) != wantLen {
		t.Fatalf("length: got %d, want %d", len(pcm), wantLen)
	}

	sample := func(frame int) int16 {
		return int16(binary.LittleEndian.Uint16(pcm[frame*bytesPerFrame:]))
	}

	if s := sample(0); s != 0 {
		t.Errorf("first sample: got %d, want 0 (attack ramp)", s)
	}
	if s := sample(len(pcm)/bytesPerFrame - 1); s > 400 || s < -400 {
		t.Errorf("last sample %d should be close to silence", s)
	}

	var peak int16
	for i := 0; i < len(pcm)/bytesPerFrame; i++ {
		s := sample(i)
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
		// 左右声道相同
		if pcm[i*4] != pcm[i*4+2] || pcm[i*4+1] != pcm[i*4+3] {
			t.Fatalf("frame %d: channels differ", i)
		}
	}
	if peak < 5000 {
		t.Errorf("peak amplitude %d is too quiet", peak)
	}
}

func TestSynthesizeFireworkPopDeterministic(t *testing.T) {
	a := SynthesizeFireworkPop(22050, rand.New(rand.NewPCG(9, 9)))
	b := SynthesizeFireworkPop(22050, rand.New(rand.NewPCG(9, 9)))
	if string(a) != string(b) {
		t.Error("same seed should produce identical PCM")
	}
}

func TestPCMStreamReadSeek(t *testing.T) {
	s := NewPCMStream([]byte{1, 2, 3, 4, 5, 6})
	if s.Length() != 6 {
		t.Fatalf("Length: got %d, want 6", s.Length())
	}

	buf := make([]byte, 4)
	if n, err := s.Read(buf); n != 4 || err != nil {
		t.Fatalf("Read: got %d, %v", n, err)
	}
	if n, _ := s.Read(buf); n != 2 || buf[0] != 5 {
		t.Errorf("second Read: got n=%d first=%d", n, buf[0])
	}
	if _, err := s.Read(buf); err != io.EOF {
		t.Errorf("Read at end: got %v, want EOF", err)
	}

	if pos, err := s.Seek(-2, io.SeekEnd); pos != 4 || err != nil {
		t.Errorf("Seek end: got %d, %v", pos, err)
	}
	if pos, err := s.Seek(1, io.SeekCurrent); pos != 5 || err != nil {
		t.Errorf("Seek current: got %d, %v", pos, err)
	}
	if _, err := s.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative seek should fail")
	}
	if _, err := s.Seek(0, 42); err == nil {
		t.Error("invalid whence should fail")
	}
}
