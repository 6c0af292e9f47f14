package game

import (
	"fmt"
	"math/rand"
	"time"
)

// World is one game session: the grid and every entity on it. It is not safe
// for concurrent use; Engine serializes access for real-time callers.
type World struct {
	cfg  Config
	rng  *rand.Rand
	grid *Grid

	player   Player
	enemies  []Enemy
	bombs    []Bomb
	powerUps []PowerUp
	exit     Exit
	entrance Position

	totalEnemies int
	status       Status
	deathReason  string
	elapsed      float64
	physicsTime  float64 // fixed-step accumulator carried between ticks

	lastID    EntityID
	listeners []Listener
}

// NewWorld builds a session from map data. A nil rng is replaced by one
// seeded from cfg.Seed, or from the clock when the seed is zero.
func NewWorld(cfg Config, m *MapData, rng *rand.Rand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("new world: %w: no map data", ErrInvalidDimensions)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	w := &World{
		cfg:      cfg,
		rng:      rng,
		grid:     NewGrid(m.Width, m.Height),
		entrance: *m.Entrance,
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if kind, ok := m.Walls[Position{X: x, Y: y}]; ok {
				w.grid.set(x, y, kind)
			}
		}
	}

	exitPos := m.Exit
	if exitPos == nil {
		candidates := m.exitCandidates()
		if len(candidates) == 0 {
			return nil, fmt.Errorf("new world: %w", ErrNoExitCandidate)
		}
		pick := candidates[rng.Intn(len(candidates))]
		exitPos = &pick
	}
	w.exit = Exit{Pos: *exitPos}

	w.player = newPlayer(w.nextID(), w.entrance, cfg)
	for _, at := range m.Enemies {
		w.enemies = append(w.enemies, newEnemy(w.nextID(), at, cfg, rng))
	}
	for _, spec := range m.PowerUps {
		w.powerUps = append(w.powerUps, PowerUp{ID: w.nextID(), Pos: spec.Pos, Type: spec.Type})
	}
	w.totalEnemies = len(w.enemies)
	if w.totalEnemies == 0 {
		w.exit.unlocked = true
	}
	return w, nil
}

func (w *World) nextID() EntityID {
	w.lastID++
	return w.lastID
}

// Subscribe registers a listener for simulation events.
func (w *World) Subscribe(l Listener) {
	w.listeners = append(w.listeners, l)
}

func (w *World) emit(ev Event) {
	for _, l := range w.listeners {
		l.HandleEvent(ev)
	}
}

// Tick advances the session by one frame. The stages run in a fixed order:
//
//  1. player intents (steering and bomb placement)
//  2. fixed-step physics over the accumulated frame time
//  3. bomb fuses, explosions and removal
//  4. enemy motion and pairwise deflection
//  5. power-up pickup
//  6. player/enemy contact
//  7. enemy/enemy overlap not already deflected
//  8. exit check
//  9. countdown
//
// A tick that reaches Won or Lost stops at that stage, and later calls do
// nothing.
func (w *World) Tick(frameTime float64, in Input) {
	if w.status.Terminal() {
		return
	}
	if frameTime < 0 {
		frameTime = 0
	}
	w.elapsed += frameTime

	w.steerPlayer(in)
	if in.PlaceBomb {
		w.PlaceBomb()
	}

	w.stepPhysics(frameTime)

	w.updateBombs(frameTime)
	if w.status.Terminal() {
		return
	}

	deflected := w.updateEnemies()

	w.collectPowerUps()

	if w.checkEnemyContact() {
		return
	}

	w.separateEnemies(deflected)

	if w.checkExit() {
		return
	}

	if w.cfg.TimeLimit > 0 && w.elapsed >= w.cfg.TimeLimit {
		w.lose(ReasonTimeUp)
	}
}

// stepPhysics clamps the frame time, adds it to the accumulator and
// integrates in fixed steps until less than one step remains.
func (w *World) stepPhysics(frameTime float64) {
	if frameTime > w.cfg.MaxFrameTime {
		frameTime = w.cfg.MaxFrameTime
	}
	w.physicsTime += frameTime
	for w.physicsTime >= w.cfg.PhysicsStep {
		w.integrate(w.cfg.PhysicsStep)
		w.physicsTime -= w.cfg.PhysicsStep
	}
}

func (w *World) collectPowerUps() {
	remaining := w.powerUps[:0]
	for _, pu := range w.powerUps {
		if w.IsRevealed(pu.Pos) && Collides(&w.player, pu) {
			pu.apply(&w.player)
			w.emit(Event{Kind: EventPowerUpCollected, Pos: pu.Pos, Entity: pu.ID, PowerUp: pu.Type})
			continue
		}
		remaining = append(remaining, pu)
	}
	w.powerUps = remaining
}

func (w *World) checkEnemyContact() bool {
	for i := range w.enemies {
		if Collides(&w.player, &w.enemies[i]) {
			w.lose(ReasonKilledByEnemy)
			return true
		}
	}
	return false
}

func (w *World) checkExit() bool {
	if w.exit.unlocked && Collides(&w.player, &w.exit) {
		w.status = StatusWon
		w.player.Vel = Vec2{}
		w.emit(Event{Kind: EventGameWon, Pos: w.exit.Pos})
		return true
	}
	return false
}

// lose kills the player and ends the game. Only the first reason sticks.
func (w *World) lose(reason string) {
	if w.status.Terminal() {
		return
	}
	w.player.Kill()
	w.status = StatusLost
	w.deathReason = reason
	w.emit(Event{Kind: EventGameLost, Pos: w.player.tile(), Reason: reason})
}

// killEnemy removes the enemy from the active set. Killing the last one
// unlocks the exit in the same tick.
func (w *World) killEnemy(id EntityID) {
	for i := range w.enemies {
		if w.enemies[i].ID != id {
			continue
		}
		pos := w.enemies[i].Pos.Floor()
		w.enemies = append(w.enemies[:i], w.enemies[i+1:]...)
		w.emit(Event{Kind: EventEnemyKilled, Pos: pos, Entity: id})
		if len(w.enemies) == 0 && !w.exit.unlocked {
			w.exit.unlocked = true
			w.emit(Event{Kind: EventExitUnlocked, Pos: w.exit.Pos})
		}
		return
	}
}

// destroyWall removes a destructible wall, revealing anything beneath it.
func (w *World) destroyWall(p Position) {
	if _, ok := w.grid.destroy(p.X, p.Y); !ok {
		return
	}
	w.emit(Event{Kind: EventWallDestroyed, Pos: p})
	if p == w.exit.Pos && !w.exit.revealed {
		w.exit.revealed = true
		w.emit(Event{Kind: EventExitRevealed, Pos: p})
	}
}

// IsRevealed reports whether nothing covers the tile at p any more.
func (w *World) IsRevealed(p Position) bool {
	_, covered := w.grid.WallAt(p.X, p.Y)
	return !covered
}

// Config returns the rules the world was built with.
func (w *World) Config() Config { return w.cfg }

// Grid returns the wall grid.
func (w *World) Grid() *Grid { return w.grid }

// Player returns the player.
func (w *World) Player() *Player { return &w.player }

// Enemies returns the active enemies. The slice is owned by the world.
func (w *World) Enemies() []Enemy { return w.enemies }

// Bombs returns the bombs on the map in placement order. The slice is owned
// by the world.
func (w *World) Bombs() []Bomb { return w.bombs }

// PowerUps returns the power-ups not yet collected.
func (w *World) PowerUps() []PowerUp { return w.powerUps }

// Exit returns the level exit.
func (w *World) Exit() *Exit { return &w.exit }

// Entrance returns the player's spawn tile.
func (w *World) Entrance() Position { return w.entrance }

// TotalEnemies returns how many enemies the map started with.
func (w *World) TotalEnemies() int { return w.totalEnemies }

// Status returns the game state.
func (w *World) Status() Status { return w.status }

// DeathReason explains a Lost status and is empty otherwise.
func (w *World) DeathReason() string { return w.deathReason }

// Elapsed returns the session clock in seconds.
func (w *World) Elapsed() float64 { return w.elapsed }

// TimeLeft returns the countdown remainder, or -1 without a time limit.
func (w *World) TimeLeft() float64 {
	if w.cfg.TimeLimit <= 0 {
		return -1
	}
	left := w.cfg.TimeLimit - w.elapsed
	if left < 0 {
		return 0
	}
	return left
}
