package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-bomberquest/internal/game"
)

// Color palette
var (
	// Tile styles
	hardWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	softWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	emptyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#1a1a2e"))

	bombStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00ff88")).
			Foreground(lipgloss.Color("#00ff88"))

	deadPlayerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#666666"))

	enemyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff44ff")).
			Bold(true)

	powerUpStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	lockedExitStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#888888"))

	openExitStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ffff44")).
			Bold(true)

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444"))

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true).
			Blink(true)

	loserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2)
)

// Cell glyphs. Each cell is 2 characters wide for a square-ish appearance.
const (
	glyphHardWall   = "██"
	glyphSoftWall   = "▒▒"
	glyphEmpty      = "  "
	glyphBomb       = "()"
	glyphFire       = "░░"
	glyphPlayer     = "██"
	glyphDeadPlayer = "xx"
	glyphEnemy      = "@@"
	glyphExit       = "[]"
	glyphBlastUp    = "+r"
	glyphBombUp     = "+b"
)

// tileOf returns the tile under the centre of an entity's footprint.
func tileOf(pos game.Vec2, size game.Size) game.Position {
	return game.Position{
		X: int(math.Floor(pos.X + size.W/2)),
		Y: int(math.Floor(pos.Y + size.H/2)),
	}
}

// RenderBoard converts a snapshot into a styled terminal string. Row y=0 is
// drawn at the bottom.
func RenderBoard(snap *game.Snapshot) string {
	if snap == nil || len(snap.Walls) == 0 {
		return "Waiting for game state..."
	}

	overlay := make(map[game.Position]string)

	// Lowest priority first; later layers overwrite earlier ones.
	// Priority: Player > Enemy > Fire > Bomb > Exit > Power-up > Tile
	for _, pu := range snap.PowerUps {
		if !pu.Revealed {
			continue
		}
		glyph := glyphBlastUp
		if pu.Type == game.PowerUpBombLimit {
			glyph = glyphBombUp
		}
		overlay[pu.Pos] = powerUpStyle.Render(glyph)
	}
	if snap.Exit.Revealed {
		style := lockedExitStyle
		if snap.Exit.Unlocked {
			style = openExitStyle
		}
		overlay[snap.Exit.Pos] = style.Render(glyphExit)
	}
	for _, b := range snap.Bombs {
		if b.State == game.BombArmed {
			overlay[b.Pos] = bombStyle.Render(glyphBomb)
		}
	}
	for _, b := range snap.Bombs {
		if b.State != game.BombExploding {
			continue
		}
		overlay[b.Pos] = fireStyle.Render(glyphFire)
		for _, d := range game.Directions {
			for step := 1; step <= b.Blast[d]; step++ {
				overlay[b.Pos.Step(d, step)] = fireStyle.Render(glyphFire)
			}
		}
	}
	for _, e := range snap.Enemies {
		overlay[tileOf(e.Pos, e.Size)] = enemyStyle.Render(glyphEnemy)
	}
	if snap.Player.Alive {
		overlay[tileOf(snap.Player.Pos, snap.Player.Size)] = playerStyle.Render(glyphPlayer)
	} else {
		overlay[tileOf(snap.Player.Pos, snap.Player.Size)] = deadPlayerStyle.Render(glyphDeadPlayer)
	}

	rows := make([]string, 0, snap.Height)
	for y := snap.Height - 1; y >= 0; y-- {
		var b strings.Builder
		for x := 0; x < snap.Width; x++ {
			pos := game.Position{X: x, Y: y}
			if cell, ok := overlay[pos]; ok && snap.Walls[y][x] == game.WallNone {
				b.WriteString(cell)
				continue
			}
			b.WriteString(renderTile(snap.Walls[y][x]))
		}
		rows = append(rows, b.String())
	}

	return strings.Join(rows, "\n")
}

func renderTile(kind game.WallKind) string {
	switch kind {
	case game.WallIndestructible:
		return hardWallStyle.Render(glyphHardWall)
	case game.WallDestructible:
		return softWallStyle.Render(glyphSoftWall)
	default:
		return emptyStyle.Render(glyphEmpty)
	}
}

// RenderHUD renders the heads-up display with the player's stats and the
// session status.
func RenderHUD(snap *game.Snapshot) string {
	if snap == nil {
		return ""
	}

	var parts []string

	parts = append(parts, titleStyle.Render("BOMBERQUEST"))
	parts = append(parts, "")

	switch snap.Status {
	case game.StatusPlaying:
		parts = append(parts, errorStyle.Render("IN PROGRESS"))
	case game.StatusWon:
		parts = append(parts, winnerStyle.Render("YOU WIN"))
	case game.StatusLost:
		parts = append(parts, loserStyle.Render("GAME OVER"))
	}
	parts = append(parts, "")

	p := snap.Player
	parts = append(parts,
		fmt.Sprintf("Bombs:   %d/%d", p.BombLimit-p.BombsPlaced, p.BombLimit),
		fmt.Sprintf("Blast:   %d", p.BlastRadius),
		fmt.Sprintf("Enemies: %d/%d", snap.EnemiesLeft, snap.EnemiesTotal),
	)

	exit := "hidden"
	switch {
	case snap.Exit.Revealed && snap.Exit.Unlocked:
		exit = "open"
	case snap.Exit.Revealed:
		exit = "locked"
	case snap.Exit.Unlocked:
		exit = "hidden, open"
	}
	parts = append(parts, fmt.Sprintf("Exit:    %s", exit))

	if snap.TimeLeft >= 0 {
		parts = append(parts, fmt.Sprintf("Time:    %s", formatSeconds(snap.TimeLeft)))
	} else {
		parts = append(parts, fmt.Sprintf("Time:    %s", formatSeconds(snap.Elapsed)))
	}

	parts = append(parts, "")
	parts = append(parts, dimStyle.Render("WASD/Arrows: Move | Space: Bomb | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}

// RenderBanner renders the end-of-game message.
func RenderBanner(snap *game.Snapshot) string {
	if snap == nil {
		return ""
	}
	switch snap.Status {
	case game.StatusWon:
		return bannerStyle.BorderForeground(lipgloss.Color("#00ff88")).
			Render(winnerStyle.Render("You reached the exit!") + "\n" + dimStyle.Render("Press Q to quit"))
	case game.StatusLost:
		reason := snap.DeathReason
		if reason == "" {
			reason = "you died"
		}
		return bannerStyle.BorderForeground(lipgloss.Color("#ff4444")).
			Render(loserStyle.Render("Game over: "+reason) + "\n" + dimStyle.Render("Press Q to quit"))
	}
	return ""
}

func formatSeconds(s float64) string {
	total := int(math.Ceil(s))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
