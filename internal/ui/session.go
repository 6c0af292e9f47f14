package ui

import (
	"github.com/amalg/go-bomberquest/internal/game"
)

// Session is what the TUI drives: somewhere to send intents and a stream of
// snapshots. A local engine and a network client both satisfy it.
type Session interface {
	Input(in game.Input)
	Snapshots() <-chan game.Snapshot
}

// LocalSession runs an engine in-process.
type LocalSession struct {
	engine  *game.Engine
	stateCh chan game.Snapshot
}

// NewLocalSession attaches to the engine's tick callback. Call Start to run
// the loop.
func NewLocalSession(engine *game.Engine) *LocalSession {
	s := &LocalSession{
		engine:  engine,
		stateCh: make(chan game.Snapshot, 4),
	}
	engine.OnTick(s.publish)
	return s
}

// Start runs the engine loop in the background and queues the initial state.
func (s *LocalSession) Start() {
	s.publish(s.engine.Snapshot())
	go s.engine.Run()
}

// Stop halts the engine loop.
func (s *LocalSession) Stop() {
	s.engine.Stop()
}

// Input forwards the intent to the engine.
func (s *LocalSession) Input(in game.Input) {
	s.engine.SetInput(in)
}

// Snapshots returns the snapshot stream.
func (s *LocalSession) Snapshots() <-chan game.Snapshot {
	return s.stateCh
}

// publish keeps only the freshest snapshots when the UI falls behind.
func (s *LocalSession) publish(snap game.Snapshot) {
	select {
	case s.stateCh <- snap:
	default:
		select {
		case <-s.stateCh:
		default:
		}
		select {
		case s.stateCh <- snap:
		default:
		}
	}
}
