package game

import (
	"errors"
	"fmt"
)

// Construction errors. NewWorld wraps them; test with errors.Is.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	ErrInvalidDimensions  = errors.New("invalid map dimensions")
	ErrNoEntrance         = errors.New("map has no entrance")
	ErrOutOfBounds        = errors.New("coordinate outside map")
	ErrCellOccupied       = errors.New("cell already occupied")
	ErrPowerUpWithoutWall = errors.New("power-up not covered by a destructible wall")
	ErrNoExitCandidate    = errors.New("no destructible wall to hide the exit under")
	ErrUnknownCellCode    = errors.New("unknown cell code")
)

// CellCode is the numeric tag a map file uses for one coordinate.
type CellCode int

const (
	CellIndestructible CellCode = iota
	CellDestructible
	CellEntrance
	CellEnemy
	CellExit
	CellBombLimitPowerUp
	CellBlastRadiusPowerUp
)

// PowerUpSpec places a power-up under the destructible wall at Pos.
type PowerUpSpec struct {
	Pos  Position    `json:"pos"`
	Type PowerUpType `json:"type"`
}

// MapData is everything the map loading collaborator supplies at world
// construction.
type MapData struct {
	Width    int                   `json:"width"`
	Height   int                   `json:"height"`
	Walls    map[Position]WallKind `json:"-"`
	Entrance *Position             `json:"entrance,omitempty"`
	Enemies  []Position            `json:"enemies,omitempty"`
	Exit     *Position             `json:"exit,omitempty"` // nil picks a random destructible wall
	PowerUps []PowerUpSpec         `json:"power_ups,omitempty"`
}

// NewMapData returns an empty map of the given size.
func NewMapData(width, height int) *MapData {
	return &MapData{
		Width:  width,
		Height: height,
		Walls:  make(map[Position]WallKind),
	}
}

func (m *MapData) inBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// SetWall places a wall of the given kind at (x,y).
func (m *MapData) SetWall(x, y int, kind WallKind) {
	if m.Walls == nil {
		m.Walls = make(map[Position]WallKind)
	}
	m.Walls[Position{X: x, Y: y}] = kind
}

// Set applies one map-file cell code at (x,y). Exits and power-ups are
// always covered by a destructible wall.
func (m *MapData) Set(x, y int, code CellCode) error {
	p := Position{X: x, Y: y}
	switch code {
	case CellIndestructible:
		m.SetWall(x, y, WallIndestructible)
	case CellDestructible:
		m.SetWall(x, y, WallDestructible)
	case CellEntrance:
		m.Entrance = &p
	case CellEnemy:
		m.Enemies = append(m.Enemies, p)
	case CellExit:
		m.Exit = &p
		m.SetWall(x, y, WallDestructible)
	case CellBombLimitPowerUp:
		m.PowerUps = append(m.PowerUps, PowerUpSpec{Pos: p, Type: PowerUpBombLimit})
		m.SetWall(x, y, WallDestructible)
	case CellBlastRadiusPowerUp:
		m.PowerUps = append(m.PowerUps, PowerUpSpec{Pos: p, Type: PowerUpBlastRadius})
		m.SetWall(x, y, WallDestructible)
	default:
		return fmt.Errorf("%w: %d at (%d,%d)", ErrUnknownCellCode, code, x, y)
	}
	return nil
}

// Validate checks the map for everything that would prevent a consistent
// world from being built.
func (m *MapData) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	for p, kind := range m.Walls {
		if !m.inBounds(p) {
			return fmt.Errorf("wall at (%d,%d): %w", p.X, p.Y, ErrOutOfBounds)
		}
		if kind != WallIndestructible && kind != WallDestructible {
			return fmt.Errorf("wall at (%d,%d): unknown kind %d", p.X, p.Y, kind)
		}
	}

	if m.Entrance == nil {
		return ErrNoEntrance
	}
	if err := m.checkOpen("entrance", *m.Entrance); err != nil {
		return err
	}
	spawns := make(map[Position]bool, len(m.Enemies))
	for _, p := range m.Enemies {
		if err := m.checkOpen("enemy", p); err != nil {
			return err
		}
		if spawns[p] {
			return fmt.Errorf("enemy at (%d,%d): %w", p.X, p.Y, ErrCellOccupied)
		}
		spawns[p] = true
	}

	seen := make(map[Position]bool, len(m.PowerUps))
	for _, pu := range m.PowerUps {
		if !m.inBounds(pu.Pos) {
			return fmt.Errorf("power-up at (%d,%d): %w", pu.Pos.X, pu.Pos.Y, ErrOutOfBounds)
		}
		if m.Walls[pu.Pos] != WallDestructible {
			return fmt.Errorf("power-up at (%d,%d): %w", pu.Pos.X, pu.Pos.Y, ErrPowerUpWithoutWall)
		}
		if seen[pu.Pos] {
			return fmt.Errorf("power-up at (%d,%d): %w", pu.Pos.X, pu.Pos.Y, ErrCellOccupied)
		}
		seen[pu.Pos] = true
	}

	if m.Exit != nil {
		if !m.inBounds(*m.Exit) {
			return fmt.Errorf("exit at (%d,%d): %w", m.Exit.X, m.Exit.Y, ErrOutOfBounds)
		}
		if m.Walls[*m.Exit] != WallDestructible {
			return fmt.Errorf("exit at (%d,%d): not covered by a destructible wall", m.Exit.X, m.Exit.Y)
		}
		if seen[*m.Exit] {
			return fmt.Errorf("exit at (%d,%d): shares a wall with a power-up: %w", m.Exit.X, m.Exit.Y, ErrCellOccupied)
		}
	}
	return nil
}

func (m *MapData) checkOpen(what string, p Position) error {
	if !m.inBounds(p) {
		return fmt.Errorf("%s at (%d,%d): %w", what, p.X, p.Y, ErrOutOfBounds)
	}
	if _, ok := m.Walls[p]; ok {
		return fmt.Errorf("%s at (%d,%d): %w", what, p.X, p.Y, ErrCellOccupied)
	}
	return nil
}

// exitCandidates lists destructible walls that hide nothing, in row-major
// order so a seeded pick is reproducible.
func (m *MapData) exitCandidates() []Position {
	hidden := make(map[Position]bool, len(m.PowerUps))
	for _, pu := range m.PowerUps {
		hidden[pu.Pos] = true
	}
	var out []Position
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Position{X: x, Y: y}
			if m.Walls[p] == WallDestructible && !hidden[p] {
				out = append(out, p)
			}
		}
	}
	return out
}
