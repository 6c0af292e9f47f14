package game

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"rules.json": {Data: []byte(`{"fuse_time": 2, "chain_reaction": true, "board": {"width": 21, "height": 11}}`)},
	}

	cfg, err := LoadConfig(fsys, "rules.json")
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.FuseTime)
	assert.True(t, cfg.ChainReaction)
	assert.Equal(t, 21, cfg.Board.Width)
	assert.Equal(t, 11, cfg.Board.Height)
	assert.Equal(t, DefaultConfig().ExplosionTime, cfg.ExplosionTime)
	assert.Equal(t, DefaultConfig().PlayerSize, cfg.PlayerSize)
}

func TestLoadConfigErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.json":  {Data: []byte(`{"fuse_time": `)},
		"invalid.json": {Data: []byte(`{"tick_rate": 0}`)},
	}

	_, err := LoadConfig(fsys, "missing.json")
	assert.Error(t, err)

	_, err = LoadConfig(fsys, "broken.json")
	assert.Error(t, err)

	_, err = LoadConfig(fsys, "invalid.json")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no explosion time", func(c *Config) { c.ExplosionTime = 0 }},
		{"clamp below step", func(c *Config) { c.MaxFrameTime = c.PhysicsStep / 2 }},
		{"negative speed", func(c *Config) { c.EnemySpeed = -1 }},
		{"flat player", func(c *Config) { c.PlayerSize.H = 0 }},
		{"radius above max", func(c *Config) { c.StartBlastRadius = 9 }},
		{"no bombs", func(c *Config) { c.StartBombLimit = 0 }},
		{"negative time limit", func(c *Config) { c.TimeLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"time_limit": 120}`), 0o644))

	cfg, err = LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.TimeLimit)
}
