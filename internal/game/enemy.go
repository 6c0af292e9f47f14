package game

import (
	"math"
	"math/rand"
)

// Enemy wanders the grid along one cardinal heading at a fixed speed.
type Enemy struct {
	ID EntityID
	Body

	heading Direction
	speed   float64
}

func newEnemy(id EntityID, at Position, cfg Config, rng *rand.Rand) Enemy {
	e := Enemy{
		ID:    id,
		Body:  Body{Pos: at.Vec(), Size: cfg.EnemySize},
		speed: cfg.EnemySpeed,
	}
	e.reroll(rng)
	return e
}

// Heading returns the direction the enemy wants to move in.
func (e *Enemy) Heading() Direction { return e.heading }

// velocity returns the intended velocity for the current heading.
func (e *Enemy) velocity() Vec2 {
	dx, dy := e.heading.Offset()
	return Vec2{X: float64(dx) * e.speed, Y: float64(dy) * e.speed}
}

// reroll picks a new heading uniformly at random.
func (e *Enemy) reroll(rng *rand.Rand) {
	e.heading = Directions[rng.Intn(len(Directions))]
}

// deflectFrom turns the enemy away from other based on the bearing to it:
// other to the north sends it down, south sends it up, west sends it right
// and east sends it left.
func (e *Enemy) deflectFrom(other Vec2) {
	angle := math.Atan2(other.Y-e.Pos.Y, other.X-e.Pos.X) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	switch {
	case angle >= 45 && angle < 135:
		e.heading = DirDown
	case angle >= 225 && angle < 315:
		e.heading = DirUp
	case angle >= 135 && angle < 225:
		e.heading = DirRight
	default:
		e.heading = DirLeft
	}
}
