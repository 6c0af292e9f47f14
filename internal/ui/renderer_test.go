package ui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-bomberquest/internal/game"
)

// sampleSnapshot is a 5x5 arena with a border and one soft wall.
func sampleSnapshot() game.Snapshot {
	walls := make([][]game.WallKind, 5)
	for y := range walls {
		walls[y] = make([]game.WallKind, 5)
		for x := range walls[y] {
			if x == 0 || y == 0 || x == 4 || y == 4 {
				walls[y][x] = game.WallIndestructible
			}
		}
	}
	walls[3][3] = game.WallDestructible

	return game.Snapshot{
		Width:  5,
		Height: 5,
		Walls:  walls,
		Player: game.PlayerView{
			Pos:         game.Vec2{X: 1, Y: 1},
			Size:        game.Size{W: 0.5, H: 0.5},
			Alive:       true,
			BlastRadius: 1,
			BombLimit:   2,
			BombsPlaced: 1,
		},
		Enemies:      []game.EnemyView{{ID: 2, Pos: game.Vec2{X: 3, Y: 1}, Size: game.Size{W: 0.8, H: 0.8}}},
		Exit:         game.ExitView{Pos: game.Position{X: 3, Y: 3}},
		TimeLeft:     -1,
		Elapsed:      61.2,
		EnemiesLeft:  1,
		EnemiesTotal: 3,
	}
}

func rowsOf(board string) []string {
	return strings.Split(board, "\n")
}

func TestRenderBoardWaiting(t *testing.T) {
	assert.Equal(t, "Waiting for game state...", RenderBoard(nil))
}

func TestRenderBoardLayout(t *testing.T) {
	snap := sampleSnapshot()
	rows := rowsOf(RenderBoard(&snap))
	require.Len(t, rows, 5)

	// y=3 is the second row from the top and carries the soft wall.
	assert.Contains(t, rows[1], glyphSoftWall)
	// y=1 is the second row from the bottom: player and enemy.
	assert.Contains(t, rows[3], glyphEnemy)
	assert.NotContains(t, rows[1], glyphEnemy)
}

func TestRenderBoardHidesCoveredItems(t *testing.T) {
	snap := sampleSnapshot()
	snap.PowerUps = []game.PowerUpView{{Pos: game.Position{X: 3, Y: 3}, Type: game.PowerUpBombLimit}}

	board := RenderBoard(&snap)
	assert.NotContains(t, board, glyphBombUp)
	assert.NotContains(t, board, glyphExit)

	snap.Walls[3][3] = game.WallNone
	snap.PowerUps[0].Revealed = true
	assert.Contains(t, RenderBoard(&snap), glyphBombUp)

	snap.PowerUps = nil
	snap.Exit.Revealed = true
	assert.Contains(t, RenderBoard(&snap), glyphExit)
}

func TestRenderBoardBombsAndFire(t *testing.T) {
	snap := sampleSnapshot()
	snap.Enemies = nil
	snap.Bombs = []game.BombView{{Pos: game.Position{X: 2, Y: 2}, State: game.BombArmed}}
	assert.Contains(t, RenderBoard(&snap), glyphBomb)

	snap.Bombs[0].State = game.BombExploding
	snap.Bombs[0].Blast = map[game.Direction]int{game.DirUp: 1, game.DirDown: 1, game.DirLeft: 1, game.DirRight: 1}
	board := RenderBoard(&snap)
	assert.NotContains(t, board, glyphBomb)
	assert.Equal(t, 5, strings.Count(board, glyphFire))
}

func TestRenderBoardDeadPlayer(t *testing.T) {
	snap := sampleSnapshot()
	snap.Player.Alive = false
	assert.Contains(t, RenderBoard(&snap), glyphDeadPlayer)
}

func TestRenderHUD(t *testing.T) {
	snap := sampleSnapshot()
	hud := RenderHUD(&snap)

	assert.Contains(t, hud, "Bombs:   1/2")
	assert.Contains(t, hud, "Enemies: 1/3")
	assert.Contains(t, hud, "Exit:    hidden")
	assert.Contains(t, hud, "Time:    1:02")

	snap.TimeLeft = 9.5
	snap.Status = game.StatusWon
	hud = RenderHUD(&snap)
	assert.Contains(t, hud, "Time:    0:10")
	assert.Contains(t, hud, "YOU WIN")
}

func TestRenderBanner(t *testing.T) {
	snap := sampleSnapshot()
	assert.Empty(t, RenderBanner(&snap))

	snap.Status = game.StatusWon
	assert.Contains(t, RenderBanner(&snap), "You reached the exit!")

	snap.Status = game.StatusLost
	snap.DeathReason = game.ReasonTimeUp
	assert.Contains(t, RenderBanner(&snap), "Game over: time ran out")
}

func TestLocalSessionPublishesSnapshots(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Board.Enemies = 0
	m := game.GenerateMap(cfg.Board, rand.New(rand.NewSource(9)))
	w, err := game.NewWorld(cfg, m, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	session := NewLocalSession(game.NewEngine(w))
	session.Start()
	defer session.Stop()

	select {
	case snap := <-session.Snapshots():
		assert.Equal(t, cfg.Board.Width, snap.Width)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}

	session.Input(game.Input{PlaceBomb: true})
	require.Eventually(t, func() bool {
		select {
		case snap := <-session.Snapshots():
			return len(snap.Bombs) == 1
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}
