package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerMovesInFixedSteps(t *testing.T) {
	w := newTestWorld(t, walledMap(20, 9, 2, 4), DefaultConfig())
	start := w.Player().Pos
	step := w.Config().PhysicsStep

	w.Tick(step/2, Input{Right: true})
	assert.Equal(t, start, w.Player().Pos, "half a step accumulates")
	assert.Equal(t, DirRight, w.Player().Facing())

	w.Tick(step/2, Input{Right: true})
	assert.InDelta(t, start.X+2*step, w.Player().Pos.X, 1e-9)
	assert.Equal(t, start.Y, w.Player().Pos.Y)
}

func TestFrameClampLimitsPhysicsOnly(t *testing.T) {
	cfg := DefaultConfig()
	w := newTestWorld(t, walledMap(20, 9, 2, 4), cfg)
	start := w.Player().Pos.X

	w.Tick(10, Input{Right: true})

	moved := w.Player().Pos.X - start
	assert.LessOrEqual(t, moved, cfg.MaxFrameTime*cfg.PlayerSpeed+1e-9)
	assert.Greater(t, moved, 0.4)
	assert.InDelta(t, 10.0, w.Elapsed(), 1e-9, "the clock is not clamped")
}

func TestOpposingIntentsCancel(t *testing.T) {
	w := newTestWorld(t, walledMap(9, 9, 4, 4), DefaultConfig())
	start := w.Player().Pos

	w.Tick(0.1, Input{Left: true, Right: true, Up: true, Down: true})

	assert.Equal(t, start, w.Player().Pos)
	assert.True(t, w.Player().Vel.IsZero())
}

func TestDiagonalIsNotNormalized(t *testing.T) {
	w := newTestWorld(t, walledMap(9, 9, 4, 4), DefaultConfig())

	w.Tick(0.001, Input{Up: true, Right: true})

	assert.Equal(t, Vec2{X: 2, Y: 2}, w.Player().Vel)
}

func TestBlockedPlayerStops(t *testing.T) {
	m := walledMap(9, 9, 1, 1)
	m.SetWall(2, 1, WallIndestructible)
	w := newTestWorld(t, m, DefaultConfig())
	w.player.Pos = Vec2{X: 1.5, Y: 1}

	w.Tick(1.0/60, Input{Right: true})

	assert.Equal(t, Vec2{X: 1.5, Y: 1}, w.Player().Pos)
	assert.True(t, w.Player().Vel.IsZero(), "no sliding along the wall")

	w.Tick(1.0/60, Input{Left: true})
	assert.Less(t, w.Player().Pos.X, 1.5)
}

func TestEnemyDeflectFrom(t *testing.T) {
	tests := []struct {
		name  string
		other Vec2
		want  Direction
	}{
		{"other north", Vec2{X: 5, Y: 6}, DirDown},
		{"other south", Vec2{X: 5, Y: 4}, DirUp},
		{"other west", Vec2{X: 4, Y: 5}, DirRight},
		{"other east", Vec2{X: 6, Y: 5}, DirLeft},
		{"north east leans north", Vec2{X: 5.5, Y: 6}, DirDown},
		{"south west leans west", Vec2{X: 4, Y: 4.5}, DirRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Enemy{Body: Body{Pos: Vec2{X: 5, Y: 5}}}
			e.deflectFrom(tt.other)
			assert.Equal(t, tt.want, e.Heading())
		})
	}
}

func TestEnemyBlockedRerolls(t *testing.T) {
	// A one-tile pocket: every heading is blocked.
	m := walledMap(7, 7, 1, 1)
	m.SetWall(3, 4, WallIndestructible)
	m.SetWall(3, 2, WallIndestructible)
	m.SetWall(2, 3, WallIndestructible)
	m.SetWall(4, 3, WallIndestructible)
	m.Enemies = []Position{{X: 3, Y: 3}}
	w := newTestWorld(t, m, DefaultConfig())

	for i := 0; i < 20; i++ {
		w.Tick(0.05, Input{})
	}

	assert.Equal(t, Vec2{X: 3, Y: 3}, w.Enemies()[0].Pos)
	assert.True(t, w.Enemies()[0].Vel.IsZero())
}

func TestEnemyWalksOpenCorridor(t *testing.T) {
	m := walledMap(9, 9, 1, 1)
	m.Enemies = []Position{{X: 4, Y: 4}}
	w := newTestWorld(t, m, DefaultConfig())

	w.Tick(0.001, Input{})
	e := w.Enemies()[0]
	assert.InDelta(t, w.Config().EnemySpeed, abs(e.Vel.X)+abs(e.Vel.Y), 1e-9)

	for i := 0; i < 30; i++ {
		w.Tick(0.1, Input{})
	}
	assert.NotEqual(t, Vec2{X: 4, Y: 4}, w.Enemies()[0].Pos)
	assert.True(t, w.Grid().IsPassableFor(e.Size, w.Enemies()[0].Pos.X, w.Enemies()[0].Pos.Y))
}

func TestOverlappingEnemiesDeflectApart(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.Enemies = []Position{{X: 5, Y: 5}, {X: 7, Y: 5}}
	w := newTestWorld(t, m, DefaultConfig())
	w.enemies[1].Pos = Vec2{X: 5.5, Y: 5}

	w.Tick(0.001, Input{})

	assert.Equal(t, DirLeft, w.enemies[0].Heading())
	assert.Equal(t, DirRight, w.enemies[1].Heading())
	assert.Less(t, w.enemies[0].Vel.X, 0.0)
	assert.Greater(t, w.enemies[1].Vel.X, 0.0)
}

func TestCoincidentEnemiesSeparate(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.Enemies = []Position{{X: 5, Y: 5}, {X: 7, Y: 5}}
	w := newTestWorld(t, m, DefaultConfig())
	w.enemies[1].Pos = w.enemies[0].Pos

	w.Tick(1.0/60, Input{})
	assert.Equal(t, DirLeft, w.enemies[0].Heading(), "lower ID goes left")
	assert.Equal(t, DirRight, w.enemies[1].Heading())

	separated := false
	for i := 0; i < 600 && !separated; i++ {
		w.Tick(1.0/60, Input{})
		separated = !Collides(&w.enemies[0], &w.enemies[1])
	}
	assert.True(t, separated, "enemies at %v and %v still overlap", w.enemies[0].Pos, w.enemies[1].Pos)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
