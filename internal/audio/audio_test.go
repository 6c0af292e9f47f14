package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-bomberquest/internal/game"
)

const testRate = beep.SampleRate(8000)

// drain streams s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Max(math.Abs(smp[0]), math.Abs(smp[1])))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never ended")
	return 0, 0
}

func TestOscillatorLength(t *testing.T) {
	for _, wave := range []Wave{WaveSine, WaveSquare, WaveNoise} {
		osc := newOscillator(440, 100*time.Millisecond, wave, testRate)
		n, peak := drain(t, osc)
		assert.Equal(t, testRate.N(100*time.Millisecond), n)
		assert.LessOrEqual(t, peak, 1.0)
		assert.NoError(t, osc.Err())
	}
}

func TestSquareWaveValues(t *testing.T) {
	osc := newOscillator(200, 50*time.Millisecond, WaveSquare, testRate)
	buf := make([][2]float64, 100)
	n, ok := osc.Stream(buf)
	require.True(t, ok)
	for _, smp := range buf[:n] {
		assert.Contains(t, []float64{-1, 1}, smp[0])
	}
}

func TestEnvelopeFadesOut(t *testing.T) {
	d := 100 * time.Millisecond
	env := newEnvelope(newOscillator(0, d, WaveSquare, testRate), d, 0, d/2, testRate)

	buf := make([][2]float64, testRate.N(d))
	n, _ := env.Stream(buf)
	require.Equal(t, len(buf), n)

	assert.Equal(t, 1.0, buf[0][0], "no attack")
	assert.Less(t, buf[n-1][0], 0.05, "released by the end")
}

func TestSoundBankCues(t *testing.T) {
	bank := NewSoundBank(testRate, 1.0)

	tests := []struct {
		kind game.EventKind
		want time.Duration
	}{
		{game.EventBombPlaced, 60 * time.Millisecond},
		{game.EventBombExploded, 400 * time.Millisecond},
		{game.EventPowerUpCollected, 240 * time.Millisecond},
		{game.EventEnemyKilled, 90 * time.Millisecond},
		{game.EventExitUnlocked, 300 * time.Millisecond},
		{game.EventGameWon, 660 * time.Millisecond},
		{game.EventGameLost, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s := bank.For(tt.kind)
			require.NotNil(t, s)

			n, peak := drain(t, s)
			assert.InDelta(t, testRate.N(tt.want), n, 4)
			assert.LessOrEqual(t, peak, 1.0)
			assert.Greater(t, peak, 0.0)
		})
	}
}

func TestSoundBankSilentEvents(t *testing.T) {
	bank := NewSoundBank(testRate, 1.0)
	assert.Nil(t, bank.For(game.EventWallDestroyed))
	assert.Nil(t, bank.For(game.EventExitRevealed))
}

func TestSoundBankMuted(t *testing.T) {
	bank := NewSoundBank(testRate, 0)
	_, peak := drain(t, bank.For(game.EventBombPlaced))
	assert.Equal(t, 0.0, peak)
}

func TestPlayerQueuesCues(t *testing.T) {
	p := NewPlayer(NewSoundBank(testRate, 1.0))

	p.HandleEvent(game.Event{Kind: game.EventBombPlaced})
	p.HandleEvent(game.Event{Kind: game.EventWallDestroyed})
	p.HandleEvent(game.Event{Kind: game.EventPowerUpCollected})
	assert.Equal(t, 2, p.Pending())

	buf := make([][2]float64, testRate.N(time.Second))
	p.mixer.Stream(buf)
	p.mixer.Stream(buf)
	assert.Equal(t, 0, p.Pending())

	// Close before Start is a no-op.
	p.Close()
}

func TestPlayerIsListener(t *testing.T) {
	var _ game.Listener = NewPlayer(NewSoundBank(testRate, 1))
}
