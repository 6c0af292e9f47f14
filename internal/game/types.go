package game

import (
	"fmt"
	"math"
)

// TilePixels is the pixel edge of one tile. Collision boxes are compared in
// this integer space so that sub-pixel float noise never decides an overlap.
const TilePixels = 64

// Direction represents a cardinal direction. Up is +Y.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four cardinal directions in sweep order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Offset returns the unit tile offset of the direction.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText lets Direction be used as a JSON object key.
func (d Direction) MarshalText() ([]byte, error) {
	if d < DirUp || d > DirRight {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	for _, dir := range Directions {
		if dir.String() == string(text) {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("invalid direction %q", text)
}

// Position is an integer tile coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the position n tiles away in direction d.
func (p Position) Step(d Direction, n int) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx*n, Y: p.Y + dy*n}
}

// Vec returns the position as a float vector.
func (p Position) Vec() Vec2 {
	return Vec2{X: float64(p.X), Y: float64(p.Y)}
}

// Bounds returns the 1x1 tile box at p.
func (p Position) Bounds() Box {
	return Box{X: float64(p.X), Y: float64(p.Y), W: 1, H: 1}
}

// Vec2 is a point or velocity in tile units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Floor returns the tile containing v.
func (v Vec2) Floor() Position {
	return Position{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// Size is a footprint in tile units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Box is an axis-aligned box in tile units anchored at its lower-left corner.
type Box struct {
	X, Y, W, H float64
}

// Bounds makes a Box usable wherever a Bounded entity is expected.
func (b Box) Bounds() Box { return b }

// pixelRect scales the box into tile-pixel space, flooring so negative
// coordinates land on the same pixel grid as positive ones.
func (b Box) pixelRect() (x, y, w, h int) {
	return toPixels(b.X), toPixels(b.Y), toPixels(b.W), toPixels(b.H)
}

func toPixels(v float64) int {
	return int(math.Floor(v * TilePixels))
}

// Bounded is anything with a collision footprint.
type Bounded interface {
	Bounds() Box
}

// Collides reports whether the footprints of a and b overlap. Boxes that only
// touch along an edge do not collide, and neither does an empty box.
func Collides(a, b Bounded) bool {
	ax, ay, aw, ah := a.Bounds().pixelRect()
	bx, by, bw, bh := b.Bounds().pixelRect()
	if aw <= 0 || ah <= 0 || bw <= 0 || bh <= 0 {
		return false
	}
	return ax < bx+bw && bx < ax+aw && ay < by+bh && by < ay+ah
}

// EntityID identifies an entity inside one World.
type EntityID uint32

// Status is the game-level state machine: Playing, then Won or Lost.
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further ticks are processed in this status.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Death reasons reported with StatusLost.
const (
	ReasonKilledByBomb  = "killed by bomb"
	ReasonKilledByEnemy = "killed by enemy"
	ReasonTimeUp        = "time ran out"
)

// Input is the logical intent supplied once per tick. Opposing directions
// cancel each other out.
type Input struct {
	Up        bool `json:"up,omitempty"`
	Down      bool `json:"down,omitempty"`
	Left      bool `json:"left,omitempty"`
	Right     bool `json:"right,omitempty"`
	PlaceBomb bool `json:"place_bomb,omitempty"`
}

// Axis returns the movement intent as a vector with components in {-1,0,1}.
func (in Input) Axis() (x, y float64) {
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if in.Down {
		y--
	}
	if in.Up {
		y++
	}
	return x, y
}
