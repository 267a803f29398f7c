package parameter

import "time"

// Scheduler timing
const (
	// TickRate is physics integrator invocations per simulated second
	TickRate = 60

	// TickDuration is the fixed integrator step in wall time
	TickDuration = time.Second / TickRate

	// CatchUpTicks bounds per-frame catch-up; elapsed time beyond this many
	// ticks is discarded rather than deferred
	CatchUpTicks = 4

	// AICadenceTicks is physics ticks per AI evaluation
	AICadenceTicks = 6

	// BalanceCadenceTicks is physics ticks per balance correction
	BalanceCadenceTicks = 3
)

// Event queue sizing, power of two for ring buffer masking
const (
	EventQueueSize  = 256
	EventBufferMask = EventQueueSize - 1
)

// VisualImpactMinTicks rate-limits impact notifications to observers
// Never applied to the authoritative replay log
const VisualImpactMinTicks = 6
