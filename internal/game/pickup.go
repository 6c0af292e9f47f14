package game

import "fmt"

// PowerUpType selects the upgrade a power-up grants.
type PowerUpType int

const (
	PowerUpBlastRadius PowerUpType = iota
	PowerUpBombLimit
)

func (t PowerUpType) String() string {
	switch t {
	case PowerUpBlastRadius:
		return "blast_radius"
	case PowerUpBombLimit:
		return "bomb_limit"
	default:
		return fmt.Sprintf("power_up(%d)", int(t))
	}
}

// PowerUp sits hidden under a destructible wall until a blast reveals it.
type PowerUp struct {
	ID   EntityID    `json:"id"`
	Pos  Position    `json:"pos"`
	Type PowerUpType `json:"type"`
}

// Bounds returns the power-up's tile box.
func (pu PowerUp) Bounds() Box { return pu.Pos.Bounds() }

// apply grants the upgrade to the player.
func (pu PowerUp) apply(p *Player) {
	switch pu.Type {
	case PowerUpBlastRadius:
		p.IncreaseBlastRadius()
	case PowerUpBombLimit:
		p.IncreaseConcurrentBombs()
	}
}

// Exit is the level goal. It unlocks once every enemy is dead.
type Exit struct {
	Pos      Position
	unlocked bool
	revealed bool
}

// Bounds returns the exit's tile box.
func (e *Exit) Bounds() Box { return e.Pos.Bounds() }

// IsUnlocked reports whether reaching the exit wins the game.
func (e *Exit) IsUnlocked() bool { return e.unlocked }

// IsRevealed reports whether the wall covering the exit is gone.
func (e *Exit) IsRevealed() bool { return e.revealed }
