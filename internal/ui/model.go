package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-bomberquest/internal/game"
)

const (
	// frameInterval is how often held keys are turned into an intent.
	frameInterval = time.Second / 30

	// holdWindow is how long a direction counts as held after its last key
	// event. Terminals report presses and auto-repeats but never releases.
	holdWindow = 200 * time.Millisecond
)

// errSessionClosed is reported when the snapshot stream ends before the game does.
var errSessionClosed = errors.New("session closed")

// snapshotMsg carries a new snapshot from the session.
type snapshotMsg game.Snapshot

// frameMsg fires once per input frame.
type frameMsg time.Time

// closedMsg reports the end of the snapshot stream.
type closedMsg struct{}

// Model is the Bubbletea model for the game.
type Model struct {
	session  Session
	snap     *game.Snapshot
	held     map[game.Direction]time.Time
	bomb     bool
	sent     game.Input
	err      error
	quitting bool
	now      func() time.Time
}

// NewModel creates a TUI model driving the given session.
func NewModel(session Session) Model {
	return Model{
		session: session,
		held:    make(map[game.Direction]time.Time),
		now:     time.Now,
	}
}

// Init starts listening for snapshots and starts the input frame clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.session), nextFrame())
}

// Update handles incoming messages (key presses, frames, snapshots).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		if m.over() {
			return m, nil
		}
		m.flushInput()
		return m, nextFrame()

	case snapshotMsg:
		snap := game.Snapshot(msg)
		m.snap = &snap
		return m, waitForSnapshot(m.session)

	case closedMsg:
		if m.over() {
			return m, nil
		}
		m.err = errSessionClosed
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current game state.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	board := RenderBoard(m.snap)
	hud := RenderHUD(m.snap)

	// Layout: board on the left, HUD on the right
	view := lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", hud)
	if m.over() {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "", RenderBanner(m.snap))
	}
	return view + "\n"
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) over() bool {
	return m.snap != nil && m.snap.Status.Terminal()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	if m.over() {
		return m, nil
	}

	switch msg.String() {
	case "up", "w":
		m.press(game.DirUp, game.DirDown)
	case "down", "s":
		m.press(game.DirDown, game.DirUp)
	case "left", "a":
		m.press(game.DirLeft, game.DirRight)
	case "right", "d":
		m.press(game.DirRight, game.DirLeft)
	case " ", "space":
		m.bomb = true
	}

	return m, nil
}

// press marks d held. Pressing a direction releases its opposite, since a
// terminal cannot report both keys down at once.
func (m Model) press(d, opposite game.Direction) {
	m.held[d] = m.now()
	delete(m.held, opposite)
}

// intent returns the directions pressed within the hold window.
func (m Model) intent() game.Input {
	now := m.now()
	isHeld := func(d game.Direction) bool {
		at, ok := m.held[d]
		return ok && now.Sub(at) <= holdWindow
	}
	return game.Input{
		Up:        isHeld(game.DirUp),
		Down:      isHeld(game.DirDown),
		Left:      isHeld(game.DirLeft),
		Right:     isHeld(game.DirRight),
		PlaceBomb: m.bomb,
	}
}

// flushInput sends the intent when it differs from the last one sent or a
// bomb was requested.
func (m *Model) flushInput() {
	in := m.intent()
	m.bomb = false
	if in == m.sent && !in.PlaceBomb {
		return
	}
	m.session.Input(in)
	in.PlaceBomb = false
	m.sent = in
}

// waitForSnapshot returns a Cmd that waits for the next snapshot.
func waitForSnapshot(session Session) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-session.Snapshots()
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
