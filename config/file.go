package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvFile names the environment variable consulted when no config path is
// given.
const EnvFile = "ARENA_CONFIG"

var ErrInvalid = errors.New("invalid config")

// Load overlays the YAML file at path onto the global configuration and
// validates the result. An empty path falls back to $ARENA_CONFIG; if that is
// unset too, Load only validates the defaults.
func Load(path string) error {
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := Apply(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Printf("[config] loaded %s", path)
	}
	return Validate()
}

// Apply decodes a YAML document onto the global configuration. Sections
// that are absent keep their current values; nothing changes on error.
func Apply(data []byte) error {
	var doc struct {
		Netcode yaml.Node `yaml:"netcode"`
		Net     yaml.Node `yaml:"net"`
		Metrics yaml.Node `yaml:"metrics"`
		Audio   yaml.Node `yaml:"audio"`
		Bot     yaml.Node `yaml:"bot"`
		Debug   yaml.Node `yaml:"debug"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	netcode, net, metrics, audio, bot, debug := Netcode, Net, Metrics, Audio, Bot, Debug
	sections := []struct {
		name string
		node *yaml.Node
		dst  any
	}{
		{"netcode", &doc.Netcode, &netcode},
		{"net", &doc.Net, &net},
		{"metrics", &doc.Metrics, &metrics},
		{"audio", &doc.Audio, &audio},
		{"bot", &doc.Bot, &bot},
		{"debug", &doc.Debug, &debug},
	}
	for _, s := range sections {
		if s.node.Kind == 0 {
			continue
		}
		if err := s.node.Decode(s.dst); err != nil {
			return fmt.Errorf("parse %s: %w", s.name, err)
		}
	}

	Netcode, Net, Metrics, Audio, Bot, Debug = netcode, net, metrics, audio, bot, debug
	return nil
}

// Validate checks the global configuration.
func Validate() error {
	if err := Netcode.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case Net.Address == "":
		return fmt.Errorf("%w: net.address is empty", ErrInvalid)
	case Net.UpdateInterval < 0 || Net.AimInterval < 0 || Net.ShootCooldown < 0:
		return fmt.Errorf("%w: negative net interval", ErrInvalid)
	case Audio.Volume < 0 || Audio.Volume > 1:
		return fmt.Errorf("%w: audio.volume %v outside [0, 1]", ErrInvalid, Audio.Volume)
	case Bot.Pattern != BotPatternRandom && Bot.Pattern != BotPatternCircle:
		return fmt.Errorf("%w: unknown bot.pattern %q", ErrInvalid, Bot.Pattern)
	case Bot.MinRetarget <= 0 || Bot.MaxRetarget < Bot.MinRetarget:
		return fmt.Errorf("%w: bot retarget range", ErrInvalid)
	}
	return nil
}
