package game

// BombState is the bomb lifecycle: Armed, Exploding, Removed.
type BombState int

const (
	BombArmed BombState = iota
	BombExploding
	BombRemoved
)

func (s BombState) String() string {
	switch s {
	case BombArmed:
		return "armed"
	case BombExploding:
		return "exploding"
	case BombRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Bomb is a placed bomb. Its radius is captured at placement and does not
// follow later power-ups.
type Bomb struct {
	ID     EntityID
	Owner  EntityID
	Pos    Position
	Radius int

	state    BombState
	fuse     float64 // counts down to the explosion
	elapsed  float64 // counts up while exploding
	duration float64 // how long the explosion lasts
}

func newBomb(id, owner EntityID, at Position, radius int, cfg Config) Bomb {
	return Bomb{
		ID:       id,
		Owner:    owner,
		Pos:      at,
		Radius:   radius,
		fuse:     cfg.FuseTime,
		duration: cfg.ExplosionTime,
	}
}

// State returns the lifecycle state.
func (b *Bomb) State() BombState { return b.state }

// IsExploded reports whether the bomb has gone off.
func (b *Bomb) IsExploded() bool { return b.state != BombArmed }

// Fuse returns the seconds left until the explosion.
func (b *Bomb) Fuse() float64 { return b.fuse }

// Elapsed returns the seconds since the explosion started.
func (b *Bomb) Elapsed() float64 { return b.elapsed }

// Bounds returns the bomb's tile box.
func (b *Bomb) Bounds() Box { return b.Pos.Bounds() }

// advance moves the timers forward. It reports whether the fuse ran out
// during this call; the caller then explodes the bomb.
func (b *Bomb) advance(delta float64) (detonate bool) {
	switch b.state {
	case BombArmed:
		b.fuse -= delta
		return b.fuse <= 0
	case BombExploding:
		b.elapsed += delta
		if b.elapsed >= b.duration {
			b.state = BombRemoved
		}
	}
	return false
}

// PlaceBomb arms a bomb on the player's tile. It silently does nothing when
// the player is at the bomb limit or a bomb already occupies the tile.
func (w *World) PlaceBomb() bool {
	p := &w.player
	if w.status.Terminal() || !p.canPlace() {
		return false
	}
	at := p.tile()
	if w.hasBombAt(at) {
		return false
	}

	b := newBomb(w.nextID(), p.ID, at, p.blastRadius, w.cfg)
	w.bombs = append(w.bombs, b)
	p.bombsPlaced++
	w.emit(Event{Kind: EventBombPlaced, Pos: at, Entity: b.ID})
	return true
}

func (w *World) hasBombAt(at Position) bool {
	for i := range w.bombs {
		if w.bombs[i].Pos == at && w.bombs[i].state != BombRemoved {
			return true
		}
	}
	return false
}

// updateBombs advances every bomb by delta. Bombs whose fuse runs out explode
// one at a time in placement order, each sweeping the grid as left by the
// explosions before it. Bombs set off by a chain reaction follow in the order
// they were hit. Finished bombs are removed and their owner's slot is freed.
func (w *World) updateBombs(delta float64) {
	var queue []int
	for i := range w.bombs {
		if w.bombs[i].advance(delta) {
			queue = append(queue, i)
		}
	}
	for k := 0; k < len(queue); k++ {
		queue = append(queue, w.explode(queue[k])...)
	}

	remaining := w.bombs[:0]
	for _, b := range w.bombs {
		if b.state == BombRemoved {
			if b.Owner == w.player.ID {
				w.player.BombExploded()
			}
			continue
		}
		remaining = append(remaining, b)
	}
	w.bombs = remaining
}

// explode detonates the bomb at index i. Calling it on a bomb that already
// went off does nothing. It returns the indices of armed bombs the blast set
// off when chain reactions are enabled.
func (w *World) explode(i int) []int {
	b := &w.bombs[i]
	if b.state != BombArmed {
		return nil
	}
	b.state = BombExploding
	b.fuse = 0
	b.elapsed = 0
	w.emit(Event{Kind: EventBombExploded, Pos: b.Pos, Entity: b.ID})

	origin, radius := b.Pos, b.Radius
	chained := w.blastCell(origin, i)
	for _, d := range Directions {
		for step := 1; step <= radius; step++ {
			p := origin.Step(d, step)
			if !w.grid.InBounds(p.X, p.Y) {
				break
			}
			if wall, ok := w.grid.WallAt(p.X, p.Y); ok {
				if !wall.IsDestructible() {
					break
				}
				w.destroyWall(p)
			}
			chained = append(chained, w.blastCell(p, i)...)
		}
	}
	return chained
}

// blastCell applies the blast to one tile: the player dies if its footprint
// overlaps the tile and every enemy overlapping it is killed.
func (w *World) blastCell(p Position, source int) []int {
	cell := p.Bounds()
	if w.player.alive && Collides(&w.player, cell) {
		w.lose(ReasonKilledByBomb)
	}

	var hit []EntityID
	for i := range w.enemies {
		if Collides(&w.enemies[i], cell) {
			hit = append(hit, w.enemies[i].ID)
		}
	}
	for _, id := range hit {
		w.killEnemy(id)
	}

	if !w.cfg.ChainReaction {
		return nil
	}
	var chained []int
	for j := range w.bombs {
		if j != source && w.bombs[j].Pos == p && w.bombs[j].state == BombArmed {
			w.bombs[j].fuse = 0
			chained = append(chained, j)
		}
	}
	return chained
}

// BlastLengths reports, per direction, how many tiles the bomb's explosion
// covers before an indestructible wall or the map edge. It reads the grid
// without changing it and stops at the same walls the explosion does.
func (w *World) BlastLengths(b *Bomb) map[Direction]int {
	lengths := make(map[Direction]int, len(Directions))
	for _, d := range Directions {
		lengths[d] = w.grid.sweepLength(b.Pos, d, b.Radius)
	}
	return lengths
}
