package game

// enemyPair names two enemies by ID, lower ID first.
type enemyPair struct {
	a, b EntityID
}

func pairOf(a, b EntityID) enemyPair {
	if a > b {
		a, b = b, a
	}
	return enemyPair{a: a, b: b}
}

// steerPlayer turns the movement intent into a velocity. The velocity is
// committed only if one fixed step along it keeps the player clear of walls;
// otherwise the player stops instead of sliding.
func (w *World) steerPlayer(in Input) {
	p := &w.player
	if !p.alive {
		return
	}

	ax, ay := in.Axis()
	if ax == 0 && ay == 0 {
		p.Vel = Vec2{}
		return
	}
	p.facing = facingFor(ax, ay)

	v := Vec2{X: ax * w.cfg.PlayerSpeed, Y: ay * w.cfg.PlayerSpeed}
	target := p.Pos.Add(v.Scale(w.cfg.PhysicsStep))
	if w.grid.IsPassableFor(p.Size, target.X, target.Y) {
		p.Vel = v
	} else {
		p.Vel = Vec2{}
	}
}

func facingFor(ax, ay float64) Direction {
	switch {
	case ax < 0:
		return DirLeft
	case ax > 0:
		return DirRight
	case ay > 0:
		return DirUp
	default:
		return DirDown
	}
}

// integrate advances every body by one fixed step. A body whose next
// position would overlap a wall keeps its position and loses its velocity.
func (w *World) integrate(dt float64) {
	moveBody(w.grid, &w.player.Body, dt)
	for i := range w.enemies {
		moveBody(w.grid, &w.enemies[i].Body, dt)
	}
}

func moveBody(g *Grid, b *Body, dt float64) {
	if b.Vel.IsZero() {
		return
	}
	next := b.Pos.Add(b.Vel.Scale(dt))
	if !g.IsPassableFor(b.Size, next.X, next.Y) {
		b.Vel = Vec2{}
		return
	}
	b.Pos = next
}

// updateEnemies steers every enemy, re-rolling the heading of any that is
// blocked, then deflects each overlapping pair. It returns the pairs it
// deflected.
func (w *World) updateEnemies() map[enemyPair]bool {
	for i := range w.enemies {
		e := &w.enemies[i]
		if !w.steerEnemy(e) {
			e.reroll(w.rng)
		}
	}

	deflected := make(map[enemyPair]bool)
	for i := range w.enemies {
		for j := i + 1; j < len(w.enemies); j++ {
			if Collides(&w.enemies[i], &w.enemies[j]) {
				w.deflect(i, j)
				deflected[pairOf(w.enemies[i].ID, w.enemies[j].ID)] = true
			}
		}
	}
	return deflected
}

// separateEnemies deflects overlapping pairs that updateEnemies did not.
func (w *World) separateEnemies(deflected map[enemyPair]bool) {
	for i := range w.enemies {
		for j := i + 1; j < len(w.enemies); j++ {
			if deflected[pairOf(w.enemies[i].ID, w.enemies[j].ID)] {
				continue
			}
			if Collides(&w.enemies[i], &w.enemies[j]) {
				w.deflect(i, j)
			}
		}
	}
}

// steerEnemy commits the enemy's heading velocity if the look-ahead target
// is clear and stops it otherwise. It reports whether the way was clear.
func (w *World) steerEnemy(e *Enemy) bool {
	v := e.velocity()
	target := e.Pos.Add(v.Scale(w.cfg.EnemyLookahead))
	if w.grid.IsPassableFor(e.Size, target.X, target.Y) {
		e.Vel = v
		return true
	}
	e.Vel = Vec2{}
	return false
}

// deflect turns both enemies away from each other. Each new heading depends
// only on the other's relative position.
func (w *World) deflect(i, j int) {
	a, b := &w.enemies[i], &w.enemies[j]
	pa, pb := a.Pos, b.Pos
	if pa == pb {
		// No bearing between coincident enemies: split them by ID.
		if a.ID > b.ID {
			a, b = b, a
		}
		a.heading, b.heading = DirLeft, DirRight
	} else {
		a.deflectFrom(pb)
		b.deflectFrom(pa)
	}
	w.steerEnemy(a)
	w.steerEnemy(b)
}
