package netsync

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the synchronization tuning. Durations are on the client-local
// monotonic clock.
type Config struct {
	// BufferCap is the number of snapshots kept per remote entity.
	BufferCap int `yaml:"buffer_cap"`
	// TrimWindow is how far behind the render time buffered snapshots may
	// lag before Trim drops them.
	TrimWindow time.Duration `yaml:"trim_window"`
	// InterpolationDelay is how far in the past remote entities are drawn.
	InterpolationDelay time.Duration `yaml:"interpolation_delay"`
	// SmoothingFactor is the per-sample fraction used when the render time
	// is not bracketed.
	SmoothingFactor float64 `yaml:"smoothing_factor"`
	// SortOnInsert keeps buffers ordered by ReceivedAt.
	SortOnInsert bool `yaml:"sort_on_insert"`

	Strategy Strategy `yaml:"strategy"`
	// ReconcileThreshold is the distance the local prediction may drift from
	// the authoritative position before it is corrected.
	ReconcileThreshold float64 `yaml:"reconcile_threshold"`
	// CorrectionFraction is the share of the discrepancy removed per
	// authoritative sample.
	CorrectionFraction float64 `yaml:"correction_fraction"`

	// RemovalGrace is how long snapshots for a removed entity are discarded.
	RemovalGrace time.Duration `yaml:"removal_grace"`
	// FlashDuration is the length of the hit feedback fade.
	FlashDuration time.Duration `yaml:"flash_duration"`

	// PlayerSpeed and Arena apply until the server's welcome overrides them.
	PlayerSpeed float64 `yaml:"player_speed"`
	Arena       Bounds  `yaml:"arena"`
}

func DefaultConfig() Config {
	return Config{
		BufferCap:          5,
		TrimWindow:         200 * time.Millisecond,
		InterpolationDelay: 100 * time.Millisecond,
		SmoothingFactor:    0.3,
		Strategy:           StrategyPredicted,
		ReconcileThreshold: 15,
		CorrectionFraction: 0.3,
		RemovalGrace:       250 * time.Millisecond,
		FlashDuration:      1500 * time.Millisecond,
		PlayerSpeed:        5,
		Arena:              Bounds{Width: 800, Height: 600},
	}
}

var ErrConfig = errors.New("invalid sync config")

func (c Config) Validate() error {
	switch {
	case c.BufferCap < 2:
		return fmt.Errorf("%w: buffer_cap %d is below 2", ErrConfig, c.BufferCap)
	case c.TrimWindow < 0:
		return fmt.Errorf("%w: negative trim_window", ErrConfig)
	case c.InterpolationDelay < 0:
		return fmt.Errorf("%w: negative interpolation_delay", ErrConfig)
	case c.SmoothingFactor <= 0 || c.SmoothingFactor > 1:
		return fmt.Errorf("%w: smoothing_factor %v outside (0, 1]", ErrConfig, c.SmoothingFactor)
	case c.CorrectionFraction <= 0 || c.CorrectionFraction > 1:
		return fmt.Errorf("%w: correction_fraction %v outside (0, 1]", ErrConfig, c.CorrectionFraction)
	case c.ReconcileThreshold < 0:
		return fmt.Errorf("%w: negative reconcile_threshold", ErrConfig)
	case c.RemovalGrace < 0:
		return fmt.Errorf("%w: negative removal_grace", ErrConfig)
	case c.PlayerSpeed <= 0:
		return fmt.Errorf("%w: player_speed must be positive", ErrConfig)
	case c.Arena.Width < 0 || c.Arena.Height < 0:
		return fmt.Errorf("%w: negative arena extent", ErrConfig)
	}
	return nil
}
