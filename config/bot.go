package config

import "time"

// BotPattern selects how the headless bot wanders
type BotPattern string

const (
	BotPatternRandom BotPattern = "random"
	BotPatternCircle BotPattern = "circle"
)

// BotConfigData holds tuning values for the headless bot client
type BotConfigData struct {
	Pattern        BotPattern    `yaml:"pattern"`
	MinRetarget    time.Duration `yaml:"min_retarget"` // Random pattern: shortest time on one heading
	MaxRetarget    time.Duration `yaml:"max_retarget"`
	CircleRadius   float64       `yaml:"circle_radius"`
	CircleSpeed    float64       `yaml:"circle_speed"` // Radians per second
	ShootChance    float64       `yaml:"shoot_chance"` // Per second
	ReportInterval time.Duration `yaml:"report_interval"`
}

// Bot holds bot configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Pattern:        BotPatternRandom,
		MinRetarget:    500 * time.Millisecond,
		MaxRetarget:    2 * time.Second,
		CircleRadius:   150,
		CircleSpeed:    1,
		ShootChance:    0.3,
		ReportInterval: 5 * time.Second,
	}
}
