// internal/sidetone/sidetone.go
// Audible indicator: a gated sine tone on the default playback device.
// The device renders continuously; Set only flips the gate, so pulse
// edges are not delayed by device startup.
package sidetone

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	ErrNotInitialized = errors.New("sidetone not initialized")
	ErrAlreadyRunning = errors.New("sidetone already running")
	ErrNotRunning     = errors.New("sidetone not running")
)

// amplitude keeps the tone well below clipping
const amplitude = 0.6

// rampDuration is the attack/release time that keeps gate edges click-free
const rampDuration = 0.005 // seconds

// Config holds sidetone playback configuration
type Config struct {
	Frequency  float64 // tone frequency in Hz, e.g. 600
	SampleRate uint32  // e.g., 48000
	BufferSize uint32  // frames per callback
}

// DefaultConfig returns sensible defaults for a CW-style sidetone
func DefaultConfig() Config {
	return Config{
		Frequency:  600,
		SampleRate: 48000,
		BufferSize: 256,
	}
}

// Tone renders a gated sine wave on the default playback device.
// Implements the player's Indicator contract.
type Tone struct {
	config  Config
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running bool
	mu      sync.RWMutex

	// gate is read from the audio thread, so no lock around it
	gate atomic.Bool

	// synthesis state, touched only by the audio callback
	phase    float64
	level    float64
	rampStep float64
}

// New creates a new sidetone instance
func New(cfg Config) *Tone {
	ramp := rampDuration * float64(cfg.SampleRate)
	if ramp < 1 {
		ramp = 1
	}
	return &Tone{
		config:   cfg,
		rampStep: 1.0 / ramp,
	}
}

// Init initializes the audio backend
func (t *Tone) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	t.ctx = ctx

	return nil
}

// Start opens the default playback device and begins rendering.
// The device keeps running, emitting silence, until Stop or Close.
func (t *Tone) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	if t.ctx == nil {
		t.mu.Unlock()
		return ErrNotInitialized
	}
	t.mu.Unlock()

	deviceConfig := malgo.DeviceConfig{
		DeviceType:         malgo.Playback,
		SampleRate:         t.config.SampleRate,
		PeriodSizeInFrames: t.config.BufferSize,
		Playback: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: 1,
		},
	}

	onSendFrames := func(outputSamples, inputSamples []byte, frameCount uint32) {
		t.render(outputSamples, frameCount)
	}

	device, err := malgo.InitDevice(t.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSendFrames,
	})
	if err != nil {
		return fmt.Errorf("init playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start playback device: %w", err)
	}

	t.mu.Lock()
	t.device = device
	t.running = true
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = t.Stop()
	}()

	return nil
}

// Set gates the tone on or off. Safe to call from the player goroutine
// while the audio thread renders.
func (t *Tone) Set(on bool) error {
	t.mu.RLock()
	running := t.running
	t.mu.RUnlock()

	if !running {
		return ErrNotRunning
	}
	t.gate.Store(on)
	return nil
}

// Stop stops playback
func (t *Tone) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return ErrNotRunning
	}

	if t.device != nil {
		_ = t.device.Stop()
		t.device.Uninit()
		t.device = nil
	}

	t.running = false
	t.gate.Store(false)
	return nil
}

// Close releases all audio resources
func (t *Tone) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running && t.device != nil {
		_ = t.device.Stop()
		t.device.Uninit()
		t.device = nil
		t.running = false
	}

	if t.ctx != nil {
		if err := t.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		t.ctx.Free()
		t.ctx = nil
	}

	return nil
}

// IsRunning returns true if playback is active
func (t *Tone) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// render fills out with frameCount mono float32 frames. The envelope
// ramps toward the gate target so edges never click. Runs on the audio
// thread; must not block.
func (t *Tone) render(out []byte, frameCount uint32) {
	target := 0.0
	if t.gate.Load() {
		target = 1.0
	}
	step := 2 * math.Pi * t.config.Frequency / float64(t.config.SampleRate)

	for i := uint32(0); i < frameCount; i++ {
		if t.level < target {
			t.level = math.Min(target, t.level+t.rampStep)
		} else if t.level > target {
			t.level = math.Max(target, t.level-t.rampStep)
		}

		sample := float32(math.Sin(t.phase) * t.level * amplitude)
		t.phase += step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}

		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(sample))
	}
}
