package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

type loopState struct {
	mu      sync.Mutex
	running atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// StartLoop runs the session in real time on its own goroutine, feeding the
// accumulator from measured wall-clock deltas. Starting an already running
// loop is a no-op
func (s *Session) StartLoop() {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()

	if s.loop.running.Load() {
		return
	}
	s.loop.stop = make(chan struct{})
	s.loop.running.Store(true)
	s.loop.wg.Add(1)

	go func() {
		defer s.loop.wg.Done()

		ticker := time.NewTicker(s.clock.Tick())
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-s.loop.stop:
				return
			case now := <-ticker.C:
				s.Advance(now.Sub(last))
				last = now
			}
		}
	}()
}

// StopLoop halts the real-time goroutine and waits for it to exit. Stopping
// a stopped loop is a no-op
func (s *Session) StopLoop() {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()

	if !s.loop.running.Load() {
		return
	}
	close(s.loop.stop)
	s.loop.wg.Wait()
	s.loop.running.Store(false)
}

// Running reports whether the real-time loop is active
func (s *Session) Running() bool {
	return s.loop.running.Load()
}
