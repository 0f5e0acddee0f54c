package config

import (
	"image/color"
	"time"

	"github.com/automoto/arena-mp/netsync"
)

// Config holds general window configuration
type Config struct {
	Width  int
	Height int
	Title  string
}

// ArenaConfig contains arena drawing configuration
type ArenaConfig struct {
	GridSpacing    float64
	GridColor      color.RGBA
	Background     color.RGBA
	GunLength      float64 // Multiple of the entity size
	GunWidth       float64
	ProjectileSize float64
	NameOffset     float64 // Pixels between the entity edge and its label
	FallbackColor  string
}

// NetConfig contains transport configuration
type NetConfig struct {
	Address        string        `yaml:"address"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	AimInterval    time.Duration `yaml:"aim_interval"`
	ShootCooldown  time.Duration `yaml:"shoot_cooldown"`
	InboxSize      int           `yaml:"inbox_size"`
	ReadLimit      int64         `yaml:"read_limit"`
}

// MetricsConfig contains the Prometheus endpoint configuration
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the endpoint
}

// ScreenFlashConfig contains local hit feedback configuration
type ScreenFlashConfig struct {
	Duration time.Duration
	MaxAlpha float64
	Color    color.RGBA
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	Verbose    bool `yaml:"verbose"` // Log entity lifecycle changes
	ShowHUD    bool `yaml:"show_hud"`
	ShowGhosts bool `yaml:"show_ghosts"` // Outline the newest server position of remote players
}

// Global configuration instances
var C *Config
var Arena ArenaConfig
var Netcode netsync.Config
var Net NetConfig
var Metrics MetricsConfig
var ScreenFlash ScreenFlashConfig
var Debug DebugConfig

// Default is the ECS render layer everything in the arena draws on.
const Default = 0

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	BrightGreen  = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	DarkGrey     = color.RGBA{R: 26, G: 26, B: 26, A: 255}
	GridGrey     = color.RGBA{R: 51, G: 51, B: 51, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

func init() {
	C = &Config{
		Width:  800,
		Height: 600,
		Title:  "Arena",
	}

	Arena = ArenaConfig{
		GridSpacing:    50,
		GridColor:      GridGrey,
		Background:     DarkGrey,
		GunLength:      1.5,
		GunWidth:       4,
		ProjectileSize: 5,
		NameOffset:     10,
		FallbackColor:  "#FFFFFF",
	}

	Netcode = netsync.DefaultConfig()

	Net = NetConfig{
		Address:        "localhost:8080",
		UpdateInterval: 50 * time.Millisecond,
		AimInterval:    50 * time.Millisecond,
		ShootCooldown:  250 * time.Millisecond,
		InboxSize:      256,
		ReadLimit:      1 << 20,
	}

	ScreenFlash = ScreenFlashConfig{
		Duration: 300 * time.Millisecond,
		MaxAlpha: 0.35,
		Color:    LightRed,
	}

	Debug = DebugConfig{
		ShowHUD: true,
	}
}
