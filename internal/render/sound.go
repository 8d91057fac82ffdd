package render

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/tablesim/internal/physics"
)

const (
	sampleRate   = beep.SampleRate(44100)
	cueDuration  = 40 * time.Millisecond
	wallFreq     = 660.0
	cornerFreq   = 990.0
	cueVolume    = 0.4
	bufferLength = time.Second / 10
)

// BounceCue plays a short tone on every wall hit.
type BounceCue struct {
	ready bool
}

// NewBounceCue initialises the speaker. Failure is not fatal: the cue stays silent.
func NewBounceCue() *BounceCue {
	if err := speaker.Init(sampleRate, sampleRate.N(bufferLength)); err != nil {
		log.Printf("[AUDIO] speaker unavailable: %v", err)
		return &BounceCue{}
	}
	return &BounceCue{ready: true}
}

// Play queues the tone for r. Corner hits use a higher pitch.
func (b *BounceCue) Play(r physics.Reflection) {
	if !b.ready || !r.Any() {
		return
	}
	s, err := cueStreamer(r)
	if err != nil {
		log.Printf("[AUDIO] %v", err)
		return
	}
	speaker.Play(s)
}

// cueStreamer builds the tone for one reflection.
func cueStreamer(r physics.Reflection) (beep.Streamer, error) {
	freq := wallFreq
	if r.Corner() {
		freq = cornerFreq
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone %gHz: %w", freq, err)
	}
	tone := beep.Take(sampleRate.N(cueDuration), sine)
	return &effects.Volume{Streamer: tone, Base: 2, Volume: math.Log2(cueVolume)}, nil
}
