package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// walledMap returns a w x h map ringed by indestructible walls with the
// entrance at (ex,ey) and the exit hidden in the top right corner.
func walledMap(w, h, ex, ey int) *MapData {
	m := NewMapData(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				m.SetWall(x, y, WallIndestructible)
			}
		}
	}
	entrance := Position{X: ex, Y: ey}
	m.Entrance = &entrance
	if err := m.Set(w-2, h-2, CellExit); err != nil {
		panic(err)
	}
	return m
}

func newTestWorld(t *testing.T, m *MapData, cfg Config) *World {
	t.Helper()
	w, err := NewWorld(cfg, m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return w
}

// addBomb arms a bomb for the player at p without touching the player's
// placement count.
func addBomb(w *World, p Position, radius int) int {
	w.bombs = append(w.bombs, newBomb(w.nextID(), w.player.ID, p, radius, w.cfg))
	return len(w.bombs) - 1
}

// recorder collects events in delivery order.
type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
