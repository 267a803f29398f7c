// Package render is the terminal viewer: a tcell front end that drives a
// session frame by frame and draws the arena, fighters, health bars and
// impact flashes. The simulation itself never depends on this package.
package render

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/config"
	"github.com/arenasim/ragdoll/engine"
	"github.com/arenasim/ragdoll/event"
)

const (
	frameInterval = time.Second / 60

	// flashFrames is how long an impact highlight stays on screen
	flashFrames = 8
)

type flash struct {
	fighter   int32
	segment   string
	remaining int
}

// Viewer owns the screen and the input loop. It advances the session from
// its own frame ticker, so all simulation access happens on one goroutine
type Viewer struct {
	screen  tcell.Screen
	session *engine.Session
	arena   config.Arena
	sound   *Sounder
	logger  zerolog.Logger

	width  int
	height int

	flashes  []flash
	lastKO   *event.KnockoutPayload
	statText string
}

// NewViewer initializes the terminal. Sound is optional; a nil Sounder
// disables audio
func NewViewer(session *engine.Session, arena config.Arena, sound *Sounder, logger zerolog.Logger) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	v := &Viewer{
		screen:  screen,
		session: session,
		arena:   arena,
		sound:   sound,
		logger:  logger.With().Str("system", "viewer").Logger(),
	}
	v.width, v.height = screen.Size()
	return v, nil
}

// Run blocks until the user quits. Keys: q/ESC quit, space pause/resume,
// s single-step while paused, r reset
func (v *Viewer) Run() error {
	defer v.screen.Fini()

	keys := make(chan *tcell.EventKey, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			switch tev := ev.(type) {
			case *tcell.EventKey:
				keys <- tev
			case *tcell.EventResize:
				v.screen.Sync()
			case nil:
				close(keys)
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if quit := v.handleKey(key); quit {
				return nil
			}
		case now := <-ticker.C:
			v.session.Advance(now.Sub(last))
			last = now
			v.consumeEvents()
			v.drawFrame()
		}
	}
}

func (v *Viewer) handleKey(key *tcell.EventKey) bool {
	switch {
	case key.Key() == tcell.KeyEscape, key.Rune() == 'q':
		return true
	case key.Rune() == ' ':
		if v.session.Paused() {
			v.session.Resume()
		} else {
			v.session.Pause()
		}
	case key.Rune() == 's':
		if v.session.Paused() {
			v.session.Step()
			v.consumeEvents()
		}
	case key.Rune() == 'r':
		if err := v.session.Reset(); err != nil {
			v.logger.Error().Err(err).Msg("reset failed")
		}
	}
	return false
}

// consumeEvents drains the session queue and turns impacts into flashes and
// sound blips. The queue is already rate-limited on the producer side
func (v *Viewer) consumeEvents() {
	for _, ev := range v.session.Events().Consume() {
		switch ev.Type {
		case event.TypeImpact:
			p, ok := ev.Payload.(*event.ImpactPayload)
			if !ok {
				continue
			}
			v.flashes = append(v.flashes, flash{
				fighter:   p.Defender,
				segment:   p.Segment,
				remaining: flashFrames,
			})
			if v.sound != nil {
				v.sound.Impact(p.Tier)
			}
		case event.TypeKnockout:
			if p, ok := ev.Payload.(*event.KnockoutPayload); ok {
				v.lastKO = p
				if v.sound != nil {
					v.sound.Knockout()
				}
			}
		case event.TypeReset:
			v.flashes = v.flashes[:0]
			v.lastKO = nil
		}
	}
}
