package event

import (
	"sync/atomic"

	"github.com/arenasim/ragdoll/parameter"
)

// Queue is a lock-free MPSC ring buffer for simulation events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume: Single consumer (observer loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full. Observers tolerate loss;
// the authoritative replay log never flows through this queue
type Queue struct {
	events    [parameter.EventQueueSize]Event
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push adds an event using lock-free CAS with published flags
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.EventBufferMask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.EventQueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-parameter.EventQueueSize)
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design; checks published flags for safety
func (q *Queue) Consume() []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > parameter.EventQueueSize {
			maxAvailable = parameter.EventQueueSize
			currentHead = currentTail - parameter.EventQueueSize
		}

		result := make([]Event, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & parameter.EventBufferMask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, q.events[idx])
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if q.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}
