package game

import (
	"fmt"
	"math/rand"
	"time"
)

// NewRandomWorld generates a board from cfg.Board and builds a world on it.
// Both draw from one RNG seeded with cfg.Seed, or the clock when it is zero,
// so a fixed seed reproduces the whole session.
func NewRandomWorld(cfg Config) (*World, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w, err := NewWorld(cfg, GenerateMap(cfg.Board, rng), rng)
	if err != nil {
		return nil, fmt.Errorf("generate world (seed %d): %w", seed, err)
	}
	return w, nil
}

// GenerateMap builds a classic Bomberman layout.
//
// Layout rules:
//   - Border is all indestructible
//   - Indestructible pillar wherever both X and Y are even
//   - Random destructible fill at the given density
//   - The entrance (1,1) and its adjacent tiles are kept clear
//   - Enemies spawn on free tiles away from the entrance
//   - Power-ups hide under random destructible walls
//
// The exit is left unset so NewWorld hides it under a random destructible wall.
func GenerateMap(config BoardConfig, rng *rand.Rand) *MapData {
	m := NewMapData(config.Width, config.Height)
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			switch {
			case x == 0 || y == 0 || x == config.Width-1 || y == config.Height-1:
				// Border walls
				m.SetWall(x, y, WallIndestructible)
			case x%2 == 0 && y%2 == 0:
				// Interior pillar pattern
				m.SetWall(x, y, WallIndestructible)
			}
		}
	}

	entrance := Position{X: 1, Y: 1}
	m.Entrance = &entrance
	safeSet := makeSafeSet(entrance)

	// Fill destructible walls randomly, avoiding the safe zone
	var soft, open []Position
	for y := 1; y < config.Height-1; y++ {
		for x := 1; x < config.Width-1; x++ {
			pos := Position{X: x, Y: y}
			if _, ok := m.Walls[pos]; ok || safeSet[pos] {
				continue
			}
			if rng.Float64() < config.SoftWallDensity {
				m.SetWall(x, y, WallDestructible)
				soft = append(soft, pos)
				continue
			}
			if manhattan(pos, entrance) >= 4 {
				open = append(open, pos)
			}
		}
	}

	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	for i := 0; i < config.Enemies && i < len(open); i++ {
		m.Enemies = append(m.Enemies, open[i])
	}

	rng.Shuffle(len(soft), func(i, j int) { soft[i], soft[j] = soft[j], soft[i] })
	for i := 0; i < config.PowerUps && i < len(soft); i++ {
		kind := PowerUpBlastRadius
		if i%2 == 1 {
			kind = PowerUpBombLimit
		}
		m.PowerUps = append(m.PowerUps, PowerUpSpec{Pos: soft[i], Type: kind})
	}

	return m
}

// makeSafeSet returns the positions that must remain clear around the entrance:
// the entrance itself plus its four neighbours.
func makeSafeSet(entrance Position) map[Position]bool {
	safe := make(map[Position]bool)
	safe[entrance] = true
	for _, d := range Directions {
		safe[entrance.Step(d, 1)] = true
	}
	return safe
}

func manhattan(a, b Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
