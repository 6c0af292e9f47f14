package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/amalg/go-bomberquest/internal/game"
)

// DefaultSampleRate is the rate the speaker is opened with.
const DefaultSampleRate = beep.SampleRate(44100)

// SoundBank synthesizes the cue for each game event. Every call returns a
// fresh streamer, so overlapping events each get their own sound.
type SoundBank struct {
	rate   beep.SampleRate
	volume float64
}

// NewSoundBank returns a bank producing streamers at rate with the given
// master volume (1.0 is unity).
func NewSoundBank(rate beep.SampleRate, volume float64) *SoundBank {
	return &SoundBank{rate: rate, volume: volume}
}

// SampleRate returns the rate the bank's streamers are produced at.
func (b *SoundBank) SampleRate() beep.SampleRate {
	return b.rate
}

// For returns the cue for an event kind, or nil if the event is silent.
func (b *SoundBank) For(kind game.EventKind) beep.Streamer {
	var s beep.Streamer
	switch kind {
	case game.EventBombPlaced:
		s = tone(220, 60*time.Millisecond, WaveSquare, b.rate)
	case game.EventBombExploded:
		s = beep.Mix(
			tone(0, 400*time.Millisecond, WaveNoise, b.rate),
			withVolume(tone(55, 400*time.Millisecond, WaveSine, b.rate), 0.8),
		)
	case game.EventPowerUpCollected:
		s = beep.Seq(
			tone(987.77, 80*time.Millisecond, WaveSine, b.rate),
			tone(1318.51, 160*time.Millisecond, WaveSine, b.rate),
		)
	case game.EventEnemyKilled:
		s = tone(440, 90*time.Millisecond, WaveSquare, b.rate)
	case game.EventExitUnlocked:
		s = beep.Mix(
			withVolume(tone(880, 300*time.Millisecond, WaveSine, b.rate), 0.7),
			withVolume(tone(1760, 300*time.Millisecond, WaveSine, b.rate), 0.3),
		)
	case game.EventGameWon:
		s = beep.Seq(
			tone(523.25, 120*time.Millisecond, WaveSine, b.rate),
			tone(659.25, 120*time.Millisecond, WaveSine, b.rate),
			tone(783.99, 120*time.Millisecond, WaveSine, b.rate),
			tone(1046.5, 300*time.Millisecond, WaveSine, b.rate),
		)
	case game.EventGameLost:
		s = beep.Seq(
			tone(392, 200*time.Millisecond, WaveSquare, b.rate),
			tone(311.13, 200*time.Millisecond, WaveSquare, b.rate),
			tone(261.63, 400*time.Millisecond, WaveSquare, b.rate),
		)
	default:
		return nil
	}
	return withVolume(s, b.volume*0.5)
}
