// Package audio plays short feedback tones for the terminal client.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/automoto/arena-mp/config"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// tone is a sine oscillator with a linear fade out over its length.
type tone struct {
	freq     float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

// NewTone creates a finite sine streamer at freq lasting d.
func NewTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}
		fade := 1 - float64(t.position)/float64(t.length)
		v := math.Sin(2*math.Pi*t.phase) * fade
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// HitTone returns the configured hit tone at the configured volume.
func HitTone(cfg config.AudioConfig) beep.Streamer {
	return withVolume(NewTone(cfg.Frequency, cfg.Duration, beep.SampleRate(cfg.SampleRate)), cfg.Volume)
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// BlipPlayer plays the hit tone through the system speaker.
type BlipPlayer struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

func NewBlipPlayer(cfg config.AudioConfig) *BlipPlayer {
	return &BlipPlayer{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. A muted player never touches the device.
func (p *BlipPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || p.cfg.Muted {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Blip queues one hit tone. It is a no-op when muted or not initialized.
func (p *BlipPlayer) Blip() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.cfg.Muted {
		return
	}
	speaker.Lock()
	p.mixer.Add(HitTone(p.cfg))
	speaker.Unlock()
}

// SetMuted toggles playback without closing the speaker.
func (p *BlipPlayer) SetMuted(muted bool) {
	p.mu.Lock()
	p.cfg.Muted = muted
	p.mu.Unlock()
}

func (p *BlipPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
