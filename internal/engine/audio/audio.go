// Package audio provides sound effect playback.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/deskview/internal/logger"
)

// DefaultSampleRate is the output sample rate; cues are resampled to it.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrNotInitialized is returned when playing before Init.
	ErrNotInitialized = errors.New("audio not initialized")
	// ErrUnsupportedFormat is returned for files other than .mp3 and .wav.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Manager owns the speaker and the volume settings shared by all cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64
	muted        bool
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
	}
}

// Init opens the audio device.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	m.initialized = true
	logger.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close stops all playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// SetMuted silences every cue started afterwards.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// ToggleMute flips the mute flag and returns the new value.
func (m *Manager) ToggleMute() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = !m.muted
	return m.muted
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// Muted reports whether playback is muted.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// effectiveVolume returns master*sfx, or 0 when muted.
func (m *Manager) effectiveVolume() float64 {
	if m.muted {
		return 0
	}
	return m.masterVolume * m.sfxVolLevel
}

// volumeToDb converts a 0-1 volume to decibels: 1 -> 0dB, 0.5 -> -6dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LoadCue decodes an .mp3 or .wav file fully into memory.
func (m *Manager) LoadCue(path string) (*Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
		format.SampleRate = m.sampleRate
	}

	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	logger.Debug("cue loaded",
		zap.String("path", path),
		zap.Int("samples", buf.Len()),
		zap.Duration("duration", format.SampleRate.D(buf.Len())),
	)
	return &Cue{manager: m, name: filepath.Base(path), buf: buf}, nil
}

// Cue is a short decoded sound that can be restarted at any time.
type Cue struct {
	manager *Manager
	name    string
	buf     *beep.Buffer

	// playing is the most recent playback; replaced on every Replay.
	playing *beep.Ctrl
}

// Name returns the file name the cue was loaded from.
func (c *Cue) Name() string {
	return c.name
}

// Duration returns the cue length.
func (c *Cue) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// Replay stops the cue if it is still sounding and plays it from the start.
func (c *Cue) Replay() error {
	m := c.manager
	m.mu.RLock()
	initialized := m.initialized
	vol := m.effectiveVolume()
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	speaker.Lock()
	if c.playing != nil {
		// A Ctrl without a streamer reports drained and the speaker drops it.
		c.playing.Streamer = nil
		c.playing = nil
	}
	if vol > 0 {
		c.playing = &beep.Ctrl{Streamer: &effects.Volume{
			Streamer: c.buf.Streamer(0, c.buf.Len()),
			Base:     10,
			Volume:   volumeToDb(vol) / 20, // decibels as a power of ten
		}}
	}
	next := c.playing
	speaker.Unlock()

	if next != nil {
		speaker.Play(next)
	}
	return nil
}
