package render

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sounder plays short procedural blips for impacts. Initialization failure
// is non-fatal; callers run without sound
type Sounder struct {
	ready bool
}

// NewSounder opens the speaker
func NewSounder() (*Sounder, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Sounder{ready: true}, nil
}

// Impact plays a tone whose pitch and length scale with the severity tier
func (s *Sounder) Impact(tier int) {
	if !s.ready {
		return
	}
	freq := 440.0 + 110.0*float64(tier)
	dur := time.Duration(30+15*tier) * time.Millisecond
	s.tone(freq, dur)
}

// Knockout plays a longer low tone
func (s *Sounder) Knockout() {
	if !s.ready {
		return
	}
	s.tone(220, 400*time.Millisecond)
}

func (s *Sounder) tone(freq float64, dur time.Duration) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(dur), sine))
}
