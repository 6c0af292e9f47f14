package game

// PlayerView is the read-only player state handed to renderers.
type PlayerView struct {
	Pos         Vec2      `json:"pos"`
	Size        Size      `json:"size"`
	Moving      bool      `json:"moving"`
	Facing      Direction `json:"facing"`
	Alive       bool      `json:"alive"`
	BlastRadius int       `json:"blast_radius"`
	BombLimit   int       `json:"bomb_limit"`
	BombsPlaced int       `json:"bombs_placed"`
}

// EnemyView is the read-only state of one enemy.
type EnemyView struct {
	ID      EntityID  `json:"id"`
	Pos     Vec2      `json:"pos"`
	Size    Size      `json:"size"`
	Heading Direction `json:"heading"`
}

// BombView is the read-only state of one bomb. Blast is set while the bomb
// is exploding.
type BombView struct {
	ID    EntityID          `json:"id"`
	Pos   Position          `json:"pos"`
	State BombState         `json:"state"`
	Fuse  float64           `json:"fuse"`
	Blast map[Direction]int `json:"blast,omitempty"`
}

// PowerUpView is the read-only state of one power-up.
type PowerUpView struct {
	ID       EntityID    `json:"id"`
	Pos      Position    `json:"pos"`
	Type     PowerUpType `json:"type"`
	Revealed bool        `json:"revealed"`
}

// ExitView is the read-only state of the exit.
type ExitView struct {
	Pos      Position `json:"pos"`
	Unlocked bool     `json:"unlocked"`
	Revealed bool     `json:"revealed"`
}

// Snapshot is a deep copy of everything a renderer needs for one frame. It
// shares no memory with the World.
type Snapshot struct {
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Walls        [][]WallKind  `json:"walls"` // indexed [y][x], y up
	Player       PlayerView    `json:"player"`
	Enemies      []EnemyView   `json:"enemies"`
	Bombs        []BombView    `json:"bombs"`
	PowerUps     []PowerUpView `json:"power_ups"`
	Exit         ExitView      `json:"exit"`
	Status       Status        `json:"status"`
	DeathReason  string        `json:"death_reason,omitempty"`
	Elapsed      float64       `json:"elapsed"`
	TimeLeft     float64       `json:"time_left"` // -1 without a time limit
	EnemiesLeft  int           `json:"enemies_left"`
	EnemiesTotal int           `json:"enemies_total"`
}

// Snapshot copies the current state for rendering.
func (w *World) Snapshot() Snapshot {
	p := &w.player
	snap := Snapshot{
		Width:  w.grid.Width(),
		Height: w.grid.Height(),
		Walls:  w.grid.Kinds(),
		Player: PlayerView{
			Pos:         p.Pos,
			Size:        p.Size,
			Moving:      !p.Vel.IsZero(),
			Facing:      p.facing,
			Alive:       p.alive,
			BlastRadius: p.blastRadius,
			BombLimit:   p.bombLimit,
			BombsPlaced: p.bombsPlaced,
		},
		Enemies:  make([]EnemyView, 0, len(w.enemies)),
		Bombs:    make([]BombView, 0, len(w.bombs)),
		PowerUps: make([]PowerUpView, 0, len(w.powerUps)),
		Exit: ExitView{
			Pos:      w.exit.Pos,
			Unlocked: w.exit.unlocked,
			Revealed: w.exit.revealed,
		},
		Status:       w.status,
		DeathReason:  w.deathReason,
		Elapsed:      w.elapsed,
		TimeLeft:     w.TimeLeft(),
		EnemiesLeft:  len(w.enemies),
		EnemiesTotal: w.totalEnemies,
	}

	for i := range w.enemies {
		e := &w.enemies[i]
		snap.Enemies = append(snap.Enemies, EnemyView{ID: e.ID, Pos: e.Pos, Size: e.Size, Heading: e.heading})
	}
	for i := range w.bombs {
		b := &w.bombs[i]
		view := BombView{ID: b.ID, Pos: b.Pos, State: b.state, Fuse: b.fuse}
		if b.IsExploded() {
			view.Blast = w.BlastLengths(b)
		}
		snap.Bombs = append(snap.Bombs, view)
	}
	for _, pu := range w.powerUps {
		snap.PowerUps = append(snap.PowerUps, PowerUpView{
			ID:       pu.ID,
			Pos:      pu.Pos,
			Type:     pu.Type,
			Revealed: w.IsRevealed(pu.Pos),
		})
	}
	return snap
}
