package config

import "time"

// AudioConfig contains hit feedback tone configuration for the terminal
// front-end.
type AudioConfig struct {
	SampleRate int           `yaml:"sample_rate"`
	Frequency  float64       `yaml:"frequency"` // Hz
	Duration   time.Duration `yaml:"duration"`
	Volume     float64       `yaml:"volume"` // 0.0 to 1.0
	Muted      bool          `yaml:"muted"`
}

var Audio AudioConfig

func init() {
	Audio = AudioConfig{
		SampleRate: 44100,
		Frequency:  880,
		Duration:   120 * time.Millisecond,
		Volume:     0.4,
	}
}
