package event

// Type tags simulation events published to observers
type Type int

const (
	// TypeDecision is emitted on every enabled AI evaluation
	// Producer: AI system | Payload: *DecisionPayload
	TypeDecision Type = iota

	// TypeImpact is emitted for every accepted (above noise floor) impact.
	// Delivery to observers is rate-limited; the replay log is not
	// Producer: impact system | Payload: *ImpactPayload
	TypeImpact

	// TypeKnockout ends the fight
	// Producer: impact system | Payload: *KnockoutPayload
	TypeKnockout

	// TypeReset marks a hard session reset; observers drop stale state
	// Producer: session | Payload: nil
	TypeReset
)

// Event is one queued occurrence, stamped with the physics tick it happened on
type Event struct {
	Type    Type
	Tick    uint64
	Payload any
}

// DecisionPayload mirrors the decision record appended to the replay log
type DecisionPayload struct {
	FighterID int32
	State     string
	Direction int8
}

// ImpactPayload carries presentation data for one scored contact
type ImpactPayload struct {
	Attacker, Defender int32
	Segment            string
	Score              int64
	Damage             int64
	Tier               int
}

// KnockoutPayload identifies the outcome
type KnockoutPayload struct {
	Winner, Loser int32
}
