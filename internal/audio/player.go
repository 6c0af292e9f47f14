package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/amalg/go-bomberquest/internal/game"
)

// Player plays the bank's cue for every game event it receives. It
// implements game.Listener.
type Player struct {
	bank  *SoundBank
	mixer *beep.Mixer

	mu      sync.Mutex
	started bool
}

// NewPlayer creates a player. Nothing is audible until Start.
func NewPlayer(bank *SoundBank) *Player {
	return &Player{
		bank:  bank,
		mixer: &beep.Mixer{},
	}
}

// Start opens the speaker and begins playing the mixer.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	rate := p.bank.SampleRate()
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.started = true
	log.Printf("[AUDIO] Speaker started at %d Hz", rate)
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.started = false
}

// HandleEvent queues the event's cue on the mixer. It is called from the
// engine loop and never blocks on playback.
func (p *Player) HandleEvent(ev game.Event) {
	s := p.bank.For(ev.Kind)
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
		return
	}
	p.mixer.Add(s)
}

// Pending returns the number of cues still playing or queued.
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}
