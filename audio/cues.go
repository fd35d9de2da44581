// Package audio plays short tones for growth, loss and win.
package audio

import (
	"fmt"
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"grid-snake/game/types"
)

const sampleRate = beep.SampleRate(44100)

// Note is one tone of a cue.
type Note struct {
	Freq     float64
	Duration time.Duration
}

var cues = map[types.TickResult][]Note{
	types.GrowAndContinue: {{880, 50 * time.Millisecond}},
	types.Lose:            {{330, 120 * time.Millisecond}, {220, 200 * time.Millisecond}},
	types.Win:             {{523, 100 * time.Millisecond}, {784, 200 * time.Millisecond}},
}

// Cues plays a tone sequence for tick results that have one. A Cues whose
// speaker failed to open stays silent.
type Cues struct {
	enabled bool
	logger  *log.Logger
	play    func(beep.Streamer)
}

// New opens the speaker. Failure is not fatal: the returned Cues is silent
// and the error is logged.
func New(logger *log.Logger) *Cues {
	c := &Cues{logger: logger, play: func(s beep.Streamer) { speaker.Play(s) }}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		logger.Printf("Audio initialization failed: %v", err)
		return c
	}
	c.enabled = true
	return c
}

// OnTick implements engine.Listener.
func (c *Cues) OnTick(result types.TickResult) {
	if !c.enabled {
		return
	}
	notes, ok := cues[result]
	if !ok {
		return
	}
	s, err := Sequence(notes)
	if err != nil {
		c.logger.Printf("audio cue %v: %v", result, err)
		return
	}
	c.play(s)
}

// Sequence chains sine tones into one streamer.
func Sequence(notes []Note) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sampleRate, n.Freq)
		if err != nil {
			return nil, fmt.Errorf("tone %.0fHz: %w", n.Freq, err)
		}
		parts = append(parts, beep.Take(sampleRate.N(n.Duration), sine))
	}
	return beep.Seq(parts...), nil
}

func (c *Cues) Close() {
	if c.enabled {
		speaker.Close()
		c.enabled = false
	}
}
