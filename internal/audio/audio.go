// Package audio plays the game's sound cues.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const sampleRate = beep.SampleRate(44100)

// Player dispatches cues. Implementations must not block the game loop.
type Player interface {
	// Cue plays the reveal-complete chime for a rarity tier.
	Cue(rarity int)
	// Play plays a sound resource, such as an item's pick or place sound.
	Play(path string)
	Close()
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) Cue(int)     {}
func (Nop) Play(string) {}
func (Nop) Close()      {}

// CueTone returns the pitch and length of the chime for a rarity tier.
// Rarer items ring higher and longer: each tier is a major third above the
// previous one.
func CueTone(rarity int) (freq float64, length time.Duration) {
	if rarity < 0 {
		rarity = 0
	}
	freq = 523.25 * math.Pow(2, float64(rarity)*4/12)
	length = 120*time.Millisecond + time.Duration(rarity)*40*time.Millisecond
	return freq, length
}

// Speaker plays through the system audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	sounds map[string]*beep.Buffer
	dir    string
}

// NewSpeaker opens the audio device. dir is prepended to relative sound
// paths.
func NewSpeaker(dir string) (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio init: %w", err)
	}
	s := &Speaker{
		mixer:  &beep.Mixer{},
		sounds: make(map[string]*beep.Buffer),
		dir:    dir,
	}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *Speaker) Cue(rarity int) {
	freq, length := CueTone(rarity)
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		slog.Warn("cue tone", "rarity", rarity, "error", err)
		return
	}
	s.add(&effects.Volume{
		Streamer: beep.Take(sampleRate.N(length), tone),
		Base:     2,
		Volume:   -2,
	})
}

func (s *Speaker) Play(path string) {
	if path == "" {
		return
	}
	buf, err := s.load(path)
	if err != nil {
		slog.Warn("sound unavailable", "path", path, "error", err)
		return
	}
	s.add(buf.Streamer(0, buf.Len()))
}

// Close silences everything still playing.
func (s *Speaker) Close() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

func (s *Speaker) add(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// load decodes a WAV file once and keeps it resampled in memory.
func (s *Speaker) load(path string) (*beep.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if buf, ok := s.sounds[path]; ok {
		return buf, nil
	}

	full := path
	if s.dir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(s.dir, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, stream)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	s.sounds[path] = buf
	return buf, nil
}
