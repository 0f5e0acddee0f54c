package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/automoto/arena-mp/netsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restore puts the package globals back after a test mutates them.
func restore(t *testing.T) {
	netcode, net, metrics, audio, bot, debug := Netcode, Net, Metrics, Audio, Bot, Debug
	t.Cleanup(func() {
		Netcode, Net, Metrics, Audio, Bot, Debug = netcode, net, metrics, audio, bot, debug
	})
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate())
	assert.Equal(t, 100*time.Millisecond, Netcode.InterpolationDelay)
	assert.Equal(t, 5, Netcode.BufferCap)
}

func TestApplyOverlay(t *testing.T) {
	restore(t)

	err := Apply([]byte(`
netcode:
  interpolation_delay: 150ms
  strategy: authoritative
  arena:
    width: 1024
net:
  address: arena.example:9000
metrics:
  addr: ":2112"
bot:
  pattern: circle
`))
	require.NoError(t, err)

	assert.Equal(t, 150*time.Millisecond, Netcode.InterpolationDelay)
	assert.Equal(t, netsync.StrategyAuthoritative, Netcode.Strategy)
	assert.Equal(t, 1024.0, Netcode.Arena.Width)
	assert.Equal(t, 600.0, Netcode.Arena.Height, "untouched fields keep defaults")
	assert.Equal(t, 5, Netcode.BufferCap)
	assert.Equal(t, "arena.example:9000", Net.Address)
	assert.Equal(t, 50*time.Millisecond, Net.UpdateInterval)
	assert.Equal(t, ":2112", Metrics.Addr)
	assert.Equal(t, BotPatternCircle, Bot.Pattern)
	require.NoError(t, Validate())
}

func TestApplyRejectsBadYAML(t *testing.T) {
	restore(t)
	before := Netcode

	err := Apply([]byte("netcode:\n  strategy: lockstep\n"))

	assert.Error(t, err)
	assert.Equal(t, before, Netcode)
}

func TestLoad(t *testing.T) {
	restore(t)
	dir := t.TempDir()

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(dir, "arena.yaml")
		require.NoError(t, os.WriteFile(path, []byte("debug:\n  verbose: true\n"), 0o644))

		require.NoError(t, Load(path))
		assert.True(t, Debug.Verbose)
	})

	t.Run("environment fallback", func(t *testing.T) {
		path := filepath.Join(dir, "env.yaml")
		require.NoError(t, os.WriteFile(path, []byte("netcode:\n  buffer_cap: 1\n"), 0o644))
		t.Setenv(EnvFile, path)

		assert.ErrorIs(t, Load(""), ErrInvalid)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, Load(filepath.Join(dir, "nope.yaml")))
	})
}

func TestApplySaved(t *testing.T) {
	restore(t)
	name, addr := "flag-name", "flag-addr"

	ApplySaved(&SavedSettings{PlayerName: "saved", ServerAddress: "saved:1", Muted: true}, &name, &addr, map[string]bool{"addr": true})

	assert.Equal(t, "saved", name)
	assert.Equal(t, "flag-addr", addr)
	assert.True(t, Audio.Muted)

	ApplySaved(nil, &name, &addr, nil)
	assert.Equal(t, "saved", name)
}
