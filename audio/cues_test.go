package audio

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"grid-snake/game/types"
)

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestSequenceLength(t *testing.T) {
	notes := []Note{{440, 100 * time.Millisecond}, {660, 50 * time.Millisecond}}
	s, err := Sequence(notes)
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	want := sampleRate.N(100*time.Millisecond) + sampleRate.N(50*time.Millisecond)
	if got := drain(s); got != want {
		t.Fatalf("samples = %d, want %d", got, want)
	}
}

func TestSequenceRejectsBadFrequency(t *testing.T) {
	// SineTone needs freq below half the sample rate
	if _, err := Sequence([]Note{{float64(sampleRate), time.Millisecond}}); err == nil {
		t.Fatal("expected an error for a frequency above Nyquist")
	}
}

func TestOnTickPlaysOnlyForCues(t *testing.T) {
	played := 0
	c := &Cues{
		enabled: true,
		logger:  log.New(io.Discard, "", 0),
		play:    func(beep.Streamer) { played++ },
	}

	c.OnTick(types.Continue)
	if played != 0 {
		t.Fatalf("continue played %d cues, want 0", played)
	}
	for _, r := range []types.TickResult{types.GrowAndContinue, types.Lose, types.Win} {
		c.OnTick(r)
	}
	if played != 3 {
		t.Fatalf("played %d cues, want 3", played)
	}

	c.enabled = false
	c.OnTick(types.Lose)
	if played != 3 {
		t.Fatal("silent cues still played")
	}
}
