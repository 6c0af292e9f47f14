package game

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BoardConfig drives the procedural map generator.
type BoardConfig struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SoftWallDensity float64 `json:"soft_wall_density"` // 0.0 to 1.0
	Enemies         int     `json:"enemies"`
	PowerUps        int     `json:"power_ups"`
}

// Config holds the tunable rules of a game session. Durations are seconds,
// distances are tiles.
type Config struct {
	FuseTime       float64 `json:"fuse_time"`
	ExplosionTime  float64 `json:"explosion_time"`
	PhysicsStep    float64 `json:"physics_step"`
	MaxFrameTime   float64 `json:"max_frame_time"`
	PlayerSpeed    float64 `json:"player_speed"`
	PlayerSize     Size    `json:"player_size"`
	EnemySpeed     float64 `json:"enemy_speed"`
	EnemySize      Size    `json:"enemy_size"`
	EnemyLookahead float64 `json:"enemy_lookahead"`

	StartBlastRadius int `json:"start_blast_radius"`
	MaxBlastRadius   int `json:"max_blast_radius"`
	StartBombLimit   int `json:"start_bomb_limit"`
	MaxBombLimit     int `json:"max_bomb_limit"`

	ChainReaction bool    `json:"chain_reaction"`
	TimeLimit     float64 `json:"time_limit"` // 0 disables the countdown

	TickRate int   `json:"tick_rate"` // Engine ticks per second
	Seed     int64 `json:"seed"`      // 0 picks a time based seed

	Board BoardConfig `json:"board"`
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		FuseTime:         3.0,
		ExplosionTime:    0.5,
		PhysicsStep:      1.0 / 60.0,
		MaxFrameTime:     0.25,
		PlayerSpeed:      2.0,
		PlayerSize:       Size{W: 0.5, H: 0.5},
		EnemySpeed:       0.4,
		EnemySize:        Size{W: 0.8, H: 0.8},
		EnemyLookahead:   1.0,
		StartBlastRadius: 1,
		MaxBlastRadius:   8,
		StartBombLimit:   1,
		MaxBombLimit:     8,
		TickRate:         60,
		Board: BoardConfig{
			Width:           15,
			Height:          13,
			SoftWallDensity: 0.4,
			Enemies:         4,
			PowerUps:        3,
		},
	}
}

// Validate rejects rule sets the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.FuseTime <= 0:
		return fmt.Errorf("%w: fuse_time must be positive", ErrInvalidConfig)
	case c.ExplosionTime <= 0:
		return fmt.Errorf("%w: explosion_time must be positive", ErrInvalidConfig)
	case c.PhysicsStep <= 0:
		return fmt.Errorf("%w: physics_step must be positive", ErrInvalidConfig)
	case c.MaxFrameTime < c.PhysicsStep:
		return fmt.Errorf("%w: max_frame_time must be at least physics_step", ErrInvalidConfig)
	case c.PlayerSpeed < 0 || c.EnemySpeed < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfig)
	case c.PlayerSize.W <= 0 || c.PlayerSize.H <= 0:
		return fmt.Errorf("%w: player_size must be positive", ErrInvalidConfig)
	case c.EnemySize.W <= 0 || c.EnemySize.H <= 0:
		return fmt.Errorf("%w: enemy_size must be positive", ErrInvalidConfig)
	case c.StartBlastRadius < 1 || c.MaxBlastRadius < c.StartBlastRadius:
		return fmt.Errorf("%w: blast radius range %d..%d", ErrInvalidConfig, c.StartBlastRadius, c.MaxBlastRadius)
	case c.StartBombLimit < 1 || c.MaxBombLimit < c.StartBombLimit:
		return fmt.Errorf("%w: bomb limit range %d..%d", ErrInvalidConfig, c.StartBombLimit, c.MaxBombLimit)
	case c.TimeLimit < 0:
		return fmt.Errorf("%w: time_limit must not be negative", ErrInvalidConfig)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a JSON rules file from fsys and overlays it onto
// DefaultConfig. Fields missing from the file keep their defaults.
func LoadConfig(fsys fs.FS, name string) (Config, error) {
	cfg := DefaultConfig()

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

// LoadConfigFile reads a rules file from the local filesystem. An empty path
// returns DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
