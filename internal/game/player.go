package game

// Body is the logical physics state of a moving entity. Vel is the committed
// velocity the integrator applies each fixed step.
type Body struct {
	Pos  Vec2
	Vel  Vec2
	Size Size
}

// Bounds returns the body's footprint at its current position.
func (b *Body) Bounds() Box {
	return Box{X: b.Pos.X, Y: b.Pos.Y, W: b.Size.W, H: b.Size.H}
}

// Player is the character controlled by the input collaborator.
type Player struct {
	ID EntityID
	Body

	alive       bool
	facing      Direction
	blastRadius int
	bombLimit   int
	bombsPlaced int

	maxBlastRadius int
	maxBombLimit   int
}

func newPlayer(id EntityID, at Position, cfg Config) Player {
	return Player{
		ID:             id,
		Body:           Body{Pos: at.Vec(), Size: cfg.PlayerSize},
		alive:          true,
		facing:         DirDown,
		blastRadius:    cfg.StartBlastRadius,
		bombLimit:      cfg.StartBombLimit,
		maxBlastRadius: cfg.MaxBlastRadius,
		maxBombLimit:   cfg.MaxBombLimit,
	}
}

// Alive reports whether the player is still alive. Death is terminal.
func (p *Player) Alive() bool { return p.alive }

// Facing returns the last direction the player moved in.
func (p *Player) Facing() Direction { return p.facing }

// BlastRadius returns the radius new bombs are placed with.
func (p *Player) BlastRadius() int { return p.blastRadius }

// BombLimit returns how many bombs may be armed at once.
func (p *Player) BombLimit() int { return p.bombLimit }

// BombsPlaced returns how many of the player's bombs are still on the map.
func (p *Player) BombsPlaced() int { return p.bombsPlaced }

// IncreaseBlastRadius raises the blast radius by one, up to the maximum.
func (p *Player) IncreaseBlastRadius() {
	if p.blastRadius < p.maxBlastRadius {
		p.blastRadius++
	}
}

// IncreaseConcurrentBombs raises the bomb limit by one, up to the maximum.
func (p *Player) IncreaseConcurrentBombs() {
	if p.bombLimit < p.maxBombLimit {
		p.bombLimit++
	}
}

// BombExploded frees one placement slot after one of the player's bombs is
// removed from the map.
func (p *Player) BombExploded() {
	if p.bombsPlaced > 0 {
		p.bombsPlaced--
	}
}

// Kill marks the player dead. It returns false if the player was already dead.
func (p *Player) Kill() bool {
	if !p.alive {
		return false
	}
	p.alive = false
	p.Vel = Vec2{}
	return true
}

// canPlace reports whether another bomb fits under the bomb limit.
func (p *Player) canPlace() bool {
	return p.alive && p.bombsPlaced < p.bombLimit
}

// tile returns the floor-rounded tile the player's anchor stands on.
func (p *Player) tile() Position {
	return p.Pos.Floor()
}
