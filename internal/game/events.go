package game

// EventKind identifies a discrete event raised by the simulation.
type EventKind int

const (
	EventBombPlaced EventKind = iota
	EventBombExploded
	EventPowerUpCollected
	EventGameWon
	EventGameLost
	EventEnemyKilled
	EventWallDestroyed
	EventExitRevealed
	EventExitUnlocked
)

func (k EventKind) String() string {
	switch k {
	case EventBombPlaced:
		return "bomb_placed"
	case EventBombExploded:
		return "bomb_exploded"
	case EventPowerUpCollected:
		return "power_up_collected"
	case EventGameWon:
		return "game_won"
	case EventGameLost:
		return "game_lost"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventWallDestroyed:
		return "wall_destroyed"
	case EventExitRevealed:
		return "exit_revealed"
	case EventExitUnlocked:
		return "exit_unlocked"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to listeners from inside Tick.
type Event struct {
	Kind    EventKind
	Pos     Position
	Entity  EntityID    // bomb, enemy or power-up the event is about
	PowerUp PowerUpType // EventPowerUpCollected only
	Reason  string      // EventGameLost only
}

// Listener receives simulation events. Implementations must not call back
// into the World or Engine that raised the event.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) { f(ev) }
