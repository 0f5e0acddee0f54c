package systems

import (
	"sync"

	"github.com/automoto/arena-mp/audio"
	cfg "github.com/automoto/arena-mp/config"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Global audio state - created once and shared across all scenes
var (
	globalAudioContext *ebaudio.Context
	globalHitSound     []byte
	audioInitOnce      sync.Once
)

// initGlobalAudio creates the audio context and renders the hit tone once.
func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = ebaudio.CurrentContext()
		if globalAudioContext == nil {
			globalAudioContext = ebaudio.NewContext(cfg.Audio.SampleRate)
		}
		globalHitSound = audio.PCM16(audio.HitTone(cfg.Audio))
	})
}

// PlayHitSound plays the local hit tone unless audio is muted.
func PlayHitSound() {
	if cfg.Audio.Muted {
		return
	}
	initGlobalAudio()
	globalAudioContext.NewPlayerFromBytes(globalHitSound).Play()
}
