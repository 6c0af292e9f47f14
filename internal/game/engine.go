package game

import (
	"log"
	"sync"
	"time"
)

// Engine drives a World in real time. Callers on other goroutines hand it
// input; the loop goroutine is the only one that mutates the world.
type Engine struct {
	world *World
	rate  int

	mu         sync.Mutex
	input      Input
	bombQueued bool
	onTick     func(Snapshot) // Callback after each tick with a copy of the state
	last       time.Time
	now        func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewEngine wraps a world. The tick rate comes from the world's config.
func NewEngine(world *World) *Engine {
	return &Engine{
		world: world,
		rate:  world.Config().TickRate,
		now:   time.Now,
		done:  make(chan struct{}),
	}
}

// OnTick sets a callback invoked after every tick with a snapshot.
// Used by the UI and the network server to publish state.
func (e *Engine) OnTick(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// Subscribe registers a listener for the world's events. Listeners run on
// the loop goroutine while the engine lock is held.
func (e *Engine) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world.Subscribe(l)
}

// Run ticks the world at the configured rate until Stop is called or the
// game ends. It blocks.
func (e *Engine) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(e.rate))
	defer ticker.Stop()

	e.mu.Lock()
	e.last = e.now()
	e.mu.Unlock()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			if status := e.tick(); status.Terminal() {
				log.Printf("[ENGINE] Game over: %s", status)
				return
			}
		}
	}
}

// Stop halts the loop. It is safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// SetInput replaces the held movement intent. A PlaceBomb request is latched
// until the next tick consumes it, so short presses are never lost.
func (e *Engine) SetInput(in Input) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = in
	if in.PlaceBomb {
		e.bombQueued = true
	}
}

// PlaceBomb requests a bomb on the next tick without changing movement.
func (e *Engine) PlaceBomb() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bombQueued = true
}

// tick measures the frame time since the previous tick and advances the
// world by it. The lock is released before the callback runs so the callback
// may call back into the engine.
func (e *Engine) tick() Status {
	e.mu.Lock()
	now := e.now()
	frameTime := now.Sub(e.last).Seconds()
	e.last = now

	snap, status := e.stepLocked(frameTime)
	onTick := e.onTick
	e.mu.Unlock()

	if onTick != nil {
		onTick(snap)
	}
	return status
}

// Step advances the world by an explicit frame time. It is the manual
// counterpart of Run for tests and fixed-rate drivers.
func (e *Engine) Step(frameTime float64) Snapshot {
	e.mu.Lock()
	snap, _ := e.stepLocked(frameTime)
	onTick := e.onTick
	e.mu.Unlock()

	if onTick != nil {
		onTick(snap)
	}
	return snap
}

// stepLocked runs one world tick. MUST be called while e.mu is held.
func (e *Engine) stepLocked(frameTime float64) (Snapshot, Status) {
	in := e.input
	in.PlaceBomb = e.bombQueued
	e.bombQueued = false

	e.world.Tick(frameTime, in)
	return e.world.Snapshot(), e.world.Status()
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.Snapshot()
}

// Config returns the rules of the running world.
func (e *Engine) Config() Config {
	return e.world.Config()
}
