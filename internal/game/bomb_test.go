package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlastLengthsOpenGrid(t *testing.T) {
	w := newTestWorld(t, walledMap(11, 11, 1, 1), DefaultConfig())
	i := addBomb(w, Position{X: 5, Y: 5}, 3)

	lengths := w.BlastLengths(&w.bombs[i])
	for _, d := range Directions {
		assert.Equal(t, 3, lengths[d], d.String())
	}
}

func TestBlastLengthsStopAtEdgeAndIndestructible(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.SetWall(5, 7, WallIndestructible)
	m.SetWall(3, 5, WallDestructible)
	w := newTestWorld(t, m, DefaultConfig())
	i := addBomb(w, Position{X: 5, Y: 5}, 6)

	lengths := w.BlastLengths(&w.bombs[i])
	assert.Equal(t, 1, lengths[DirUp])
	assert.Equal(t, 4, lengths[DirDown], "border wall at y=0")
	assert.Equal(t, 4, lengths[DirLeft], "destructible walls do not shorten the blast")
	assert.Equal(t, 4, lengths[DirRight])
}

func TestExplosionStopsAtIndestructibleWall(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.SetWall(5, 7, WallIndestructible)
	m.SetWall(5, 8, WallDestructible)
	w := newTestWorld(t, m, DefaultConfig())
	i := addBomb(w, Position{X: 5, Y: 5}, 3)

	w.explode(i)

	_, ok := w.grid.WallAt(5, 7)
	assert.True(t, ok, "indestructible wall survives")
	_, ok = w.grid.WallAt(5, 8)
	assert.True(t, ok, "cells beyond the stop are untouched")
}

func TestExplosionDestroysAndContinues(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.SetWall(5, 6, WallDestructible)
	m.SetWall(5, 7, WallDestructible)
	w := newTestWorld(t, m, DefaultConfig())
	rec := &recorder{}
	w.Subscribe(rec)
	i := addBomb(w, Position{X: 5, Y: 5}, 2)

	w.explode(i)
	assert.Equal(t, BombExploding, w.bombs[i].State())
	assert.True(t, w.grid.IsPassable(5, 6))
	assert.True(t, w.grid.IsPassable(5, 7))
	assert.Equal(t, 2, rec.count(EventWallDestroyed))

	// Exploding twice is a no-op.
	assert.Nil(t, w.explode(i))
	assert.Equal(t, 2, rec.count(EventWallDestroyed))
	assert.Equal(t, 1, rec.count(EventBombExploded))
}

func TestExplosionKillsPlayerOnOrigin(t *testing.T) {
	w := newTestWorld(t, walledMap(9, 9, 3, 3), DefaultConfig())
	require.True(t, w.PlaceBomb())

	w.Tick(3.0, Input{})

	assert.Equal(t, StatusLost, w.Status())
	assert.Equal(t, ReasonKilledByBomb, w.DeathReason())
	assert.False(t, w.Player().Alive())
}

func TestExplosionKillsEveryOverlappingEnemy(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.Enemies = []Position{{X: 5, Y: 6}, {X: 3, Y: 7}, {X: 7, Y: 5}}
	w := newTestWorld(t, m, DefaultConfig())
	w.enemies[1].Pos = Vec2{X: 5.3, Y: 6}
	rec := &recorder{}
	w.Subscribe(rec)
	i := addBomb(w, Position{X: 5, Y: 5}, 1)

	w.explode(i)

	assert.Equal(t, 2, rec.count(EventEnemyKilled))
	require.Len(t, w.Enemies(), 1)
	assert.Equal(t, Vec2{X: 7, Y: 5}, w.Enemies()[0].Pos)
	assert.False(t, w.Exit().IsUnlocked())
}

func TestLastEnemyUnlocksExitSameTick(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.Enemies = []Position{{X: 5, Y: 6}}
	w := newTestWorld(t, m, DefaultConfig())
	rec := &recorder{}
	w.Subscribe(rec)
	addBomb(w, Position{X: 5, Y: 5}, 1)

	w.Tick(3.0, Input{})

	assert.Empty(t, w.Enemies())
	assert.True(t, w.Exit().IsUnlocked())
	assert.Equal(t, StatusPlaying, w.Status())
	assert.Equal(t, 1, rec.count(EventExitUnlocked))
}

func TestBombLifecycleFreesSlot(t *testing.T) {
	w := newTestWorld(t, walledMap(11, 11, 3, 3), DefaultConfig())

	require.True(t, w.PlaceBomb())
	assert.False(t, w.PlaceBomb(), "limit reached")
	assert.Equal(t, 1, w.Player().BombsPlaced())
	w.player.Pos = Vec2{X: 7, Y: 7}

	w.Tick(3.0, Input{})
	require.Len(t, w.Bombs(), 1)
	assert.Equal(t, BombExploding, w.Bombs()[0].State())
	assert.Equal(t, 1, w.Player().BombsPlaced())

	w.Tick(0.5, Input{})
	assert.Empty(t, w.Bombs())
	assert.Equal(t, 0, w.Player().BombsPlaced())
	assert.Equal(t, StatusPlaying, w.Status())
}

func TestPlaceBombOneBombPerTile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartBombLimit = 3
	w := newTestWorld(t, walledMap(11, 11, 3, 3), cfg)

	assert.True(t, w.PlaceBomb())
	assert.False(t, w.PlaceBomb(), "tile already has a bomb")

	w.player.Pos = Vec2{X: 4.2, Y: 3.7}
	assert.True(t, w.PlaceBomb())
	assert.Equal(t, Position{X: 4, Y: 3}, w.Bombs()[1].Pos, "bomb goes on the floor tile")
	assert.LessOrEqual(t, w.Player().BombsPlaced(), w.Player().BombLimit())
}

func TestBombRadiusCapturedAtPlacement(t *testing.T) {
	w := newTestWorld(t, walledMap(11, 11, 3, 3), DefaultConfig())
	require.True(t, w.PlaceBomb())
	w.player.IncreaseBlastRadius()

	assert.Equal(t, 1, w.Bombs()[0].Radius)
	assert.Equal(t, 2, w.Player().BlastRadius())
}

func TestExplosionsApplyInPlacementOrder(t *testing.T) {
	m := walledMap(11, 11, 1, 1)
	m.SetWall(4, 5, WallDestructible)
	w := newTestWorld(t, m, DefaultConfig())
	rec := &recorder{}
	w.Subscribe(rec)
	first := addBomb(w, Position{X: 3, Y: 5}, 1)
	second := addBomb(w, Position{X: 5, Y: 5}, 1)

	w.updateBombs(3.0)

	var exploded []EntityID
	for _, ev := range rec.events {
		if ev.Kind == EventBombExploded {
			exploded = append(exploded, ev.Entity)
		}
	}
	assert.Equal(t, []EntityID{w.bombs[first].ID, w.bombs[second].ID}, exploded)
	assert.Equal(t, 1, rec.count(EventWallDestroyed), "the shared wall falls to the first bomb only")
}

func TestChainReaction(t *testing.T) {
	for _, chain := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.ChainReaction = chain
		w := newTestWorld(t, walledMap(11, 11, 1, 1), cfg)
		addBomb(w, Position{X: 3, Y: 5}, 2)
		late := addBomb(w, Position{X: 5, Y: 5}, 1)
		w.bombs[late].fuse = 10

		w.updateBombs(3.0)

		if chain {
			assert.Equal(t, BombExploding, w.bombs[late].State(), "chained bomb goes off")
		} else {
			assert.Equal(t, BombArmed, w.bombs[late].State())
			assert.InDelta(t, 7.0, w.bombs[late].Fuse(), 1e-9)
		}
	}
}

func TestBombAdvance(t *testing.T) {
	b := newBomb(1, 2, Position{X: 1, Y: 1}, 1, DefaultConfig())

	assert.False(t, b.advance(2.9))
	assert.True(t, b.advance(0.2))

	b.state = BombExploding
	assert.False(t, b.advance(0.3))
	assert.Equal(t, BombExploding, b.State())
	b.advance(0.3)
	assert.Equal(t, BombRemoved, b.State())
}
