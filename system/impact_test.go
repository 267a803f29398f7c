package system

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arenasim/ragdoll/event"
	"github.com/arenasim/ragdoll/fighter"
	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/replay"
	"github.com/arenasim/ragdoll/vmath"
)

// harness wires two spawned fighters plus all three systems into one space
type harness struct {
	space    *physics.Space
	fighters [2]*fighter.Fighter
	log      *replay.Log
	queue    *event.Queue
	ai       *AISystem
	balance  *BalanceSystem
	impact   *ImpactSystem
}

func newHarness(t *testing.T, loadouts [2]fighter.Loadout) *harness {
	t.Helper()
	logger := zerolog.Nop()

	space := physics.NewSpace(vmath.Vec{})
	var fighters [2]*fighter.Fighter
	for i, x := range []float64{-4, 4} {
		f, err := fighter.New(int32(i+1), "f", vmath.VFromFloat(x, 3), loadouts[i])
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		err = f.Spawn(space, fighter.BuildParams{
			Scale:          vmath.Scale,
			Group:          int32(i + 1),
			Props:          fighter.DefaultProportions(),
			JointStiffness: vmath.FromInt(300),
			JointDamping:   vmath.FromInt(6),
		})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		fighters[i] = f
	}

	log := replay.NewLog(1)
	queue := event.NewQueue()
	tuning := [2]AITuning{DefaultAITuning(), DefaultAITuning()}
	ai, err := NewAISystem(fighters, tuning, vmath.NewFastRand(1), log, queue, logger)
	if err != nil {
		t.Fatalf("NewAISystem failed: %v", err)
	}
	balance := NewBalanceSystem(space, fighters, logger)
	impact := NewImpactSystem(fighters, ai, balance, log, queue, logger)

	return &harness{space, fighters, log, queue, ai, balance, impact}
}

func defaultLoadouts() [2]fighter.Loadout {
	return [2]fighter.Loadout{fighter.DefaultLoadout(), fighter.DefaultLoadout()}
}

// contact fabricates a begin-contact between two segments
func contact(a, b *physics.Body, relSpeed, combinedMass float64) physics.Contact {
	return physics.Contact{
		A:            a,
		B:            b,
		Point:        a.Pos,
		RelSpeed:     vmath.FromFloat(relSpeed),
		CombinedMass: vmath.FromFloat(combinedMass),
	}
}

// TestImpactScoreFormula verifies relSpeed 10 x mass 2 x scale 10 = 200 exactly
func TestImpactScoreFormula(t *testing.T) {
	got := ImpactScore(vmath.FromInt(10), vmath.FromInt(2))
	if got != vmath.FromInt(200) {
		t.Errorf("ImpactScore(10, 2) = %v, want 200", vmath.ToFloat(got))
	}
}

// TestDamageFormula verifies the armor and knockback reductions: impulse 500
// against defense 3 deals 497 to the torso; knockback 500 against 90 percent
// reduction leaves 50
func TestDamageFormula(t *testing.T) {
	att := fighter.DefaultLoadout()
	def := fighter.DefaultLoadout()
	def.ArmorDefense = vmath.FromInt(3)
	def.ArmorKnockbackReduction = vmath.FromFloat(0.9)

	damage, knockback := DamageFromImpulse(vmath.FromInt(500), att, def, fighter.LocationTorso)
	if damage != vmath.FromInt(497) {
		t.Errorf("damage = %v, want 497", vmath.ToFloat(damage))
	}
	if vmath.ToInt(knockback) != 50 {
		t.Errorf("knockback = %v, want 50", vmath.ToFloat(knockback))
	}
}

// TestDamageNeverNegative verifies armor exceeding the score floors at zero
func TestDamageNeverNegative(t *testing.T) {
	att := fighter.DefaultLoadout()
	def := fighter.DefaultLoadout()
	def.ArmorDefense = vmath.FromInt(1000)

	damage, _ := DamageFromImpulse(vmath.FromInt(500), att, def, fighter.LocationHead)
	if damage != 0 {
		t.Errorf("damage = %v, want 0", vmath.ToFloat(damage))
	}
}

// TestLocationMultipliers verifies head 1.5x, limb 0.7x, torso 1.0x
func TestLocationMultipliers(t *testing.T) {
	att := fighter.DefaultLoadout()
	def := fighter.DefaultLoadout()
	impulse := vmath.FromInt(100)

	torso, _ := DamageFromImpulse(impulse, att, def, fighter.LocationTorso)
	head, _ := DamageFromImpulse(impulse, att, def, fighter.LocationHead)
	limb, _ := DamageFromImpulse(impulse, att, def, fighter.LocationLimb)

	if torso != vmath.FromInt(100) {
		t.Errorf("torso damage = %v, want 100", vmath.ToFloat(torso))
	}
	if head != vmath.FromInt(150) {
		t.Errorf("head damage = %v, want 150", vmath.ToFloat(head))
	}
	if got := vmath.ToFloat(limb); math.Abs(got-70) > 0.001 {
		t.Errorf("limb damage = %v, want 70", got)
	}
}

// TestClassifyScore checks the tier thresholds, inclusive at each boundary
func TestClassifyScore(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{49, TierNone},
		{50, TierRegister},
		{149, TierRegister},
		{150, TierKnockback},
		{300, TierStagger},
		{600, TierKnockdown},
		{900, TierKnockout},
		{5000, TierKnockout},
	}
	for _, c := range cases {
		if got := ClassifyScore(vmath.FromInt(c.score)); got != c.want {
			t.Errorf("ClassifyScore(%d) = %v, want %v", c.score, got, c.want)
		}
	}
}

// TestResolveAppliesDamage verifies a scored contact damages the defender
// and lands in the log
func TestResolveAppliesDamage(t *testing.T) {
	h := newHarness(t, defaultLoadouts())
	hand := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	head := h.fighters[1].Ragdoll().Head()

	// The attacker's segment is the faster one
	hand.Vel = vmath.VFromFloat(10, 0)

	before := h.fighters[1].Health
	h.impact.Process(7, []physics.Contact{contact(hand, head, 10, 2)})

	// Score 200, head location: damage 200 * 1.5 = 300
	if got := before - h.fighters[1].Health; got != vmath.FromInt(300) {
		t.Errorf("health delta = %v, want 300", vmath.ToFloat(got))
	}
	if h.fighters[0].Health != h.fighters[0].Loadout.MaxHealth {
		t.Error("Expected attacker health untouched")
	}

	impacts := h.log.Impacts()
	if len(impacts) != 1 {
		t.Fatalf("Expected one impact record, got %d", len(impacts))
	}
	rec := impacts[0]
	if rec.Attacker != 1 || rec.Defender != 2 || rec.Segment != fighter.SegHead ||
		rec.Tick != 7 || Tier(rec.Tier) != TierKnockback {
		t.Errorf("Unexpected impact record: %+v", rec)
	}
}

// TestResolveAttackerTieBreak verifies an exact speed tie attributes the
// attack to the lower fighter ID
func TestResolveAttackerTieBreak(t *testing.T) {
	h := newHarness(t, defaultLoadouts())
	a := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	b := h.fighters[1].Ragdoll().Segment(fighter.SegHandL)

	h.impact.Process(1, []physics.Contact{contact(a, b, 10, 2)})

	impacts := h.log.Impacts()
	if len(impacts) != 1 {
		t.Fatalf("Expected one impact record, got %d", len(impacts))
	}
	if impacts[0].Attacker != 1 {
		t.Errorf("Expected tie to attribute fighter 1, got %d", impacts[0].Attacker)
	}
}

// TestNoiseFloorDrops verifies sub-floor scores leave no trace
func TestNoiseFloorDrops(t *testing.T) {
	h := newHarness(t, defaultLoadouts())
	hand := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	head := h.fighters[1].Ragdoll().Head()

	// Score 2 * 2 * 10 = 40 < 50
	h.impact.Process(1, []physics.Contact{contact(hand, head, 2, 2)})

	if len(h.log.Records) != 0 {
		t.Errorf("Expected empty log, got %d records", len(h.log.Records))
	}
	if h.fighters[1].Health != h.fighters[1].Loadout.MaxHealth {
		t.Error("Expected no damage below the noise floor")
	}
}

// TestBoundaryContactsIgnored verifies arena contacts never score
func TestBoundaryContactsIgnored(t *testing.T) {
	h := newHarness(t, defaultLoadouts())
	h.space.AddBoundary(vmath.FromInt(24), vmath.FromInt(12))

	var floor *physics.Body
	for _, b := range h.space.Bodies() {
		if b.Label == "floor" {
			floor = b
		}
	}
	if floor == nil {
		t.Fatal("Expected a floor body")
	}

	head := h.fighters[1].Ragdoll().Head()
	h.impact.Process(1, []physics.Contact{contact(head, floor, 50, 10)})

	if len(h.log.Records) != 0 {
		t.Error("Expected boundary contact to be ignored")
	}
}

// TestKnockbackImpulseApplied verifies knockback-tier hits shove the
// defending segment away from the contact point
func TestKnockbackImpulseApplied(t *testing.T) {
	h := newHarness(t, defaultLoadouts())
	hand := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	head := h.fighters[1].Ragdoll().Head()
	hand.Vel = vmath.VFromFloat(10, 0)

	c := contact(hand, head, 10, 2) // score 200, knockback tier
	c.Point = head.Pos.Sub(vmath.VFromFloat(0.5, 0))
	h.impact.Process(1, []physics.Contact{c})

	if head.Vel.X <= 0 {
		t.Errorf("Expected defender shoved away from contact, got vx=%v", vmath.ToFloat(head.Vel.X))
	}
}

// TestKnockoutEndsFight verifies a KO-tier hit on depleted health seals the
// outcome exactly once
func TestKnockoutEndsFight(t *testing.T) {
	loadouts := defaultLoadouts()
	loadouts[1].MaxHealth = vmath.FromInt(5)
	h := newHarness(t, loadouts)

	hand := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	head := h.fighters[1].Ragdoll().Head()
	hand.Vel = vmath.VFromFloat(45, 0)

	// Score 45 * 2 * 10 = 900: knockout tier
	h.impact.Process(3, []physics.Contact{contact(hand, head, 45, 2)})

	winner, loser, done := h.impact.Done()
	if !done || winner != 1 || loser != 2 {
		t.Fatalf("Expected fighter 1 KO over 2, got winner=%d loser=%d done=%v", winner, loser, done)
	}

	recs := h.log.Impacts()
	if len(recs) != 2 || recs[1].Kind != replay.KindKnockout {
		t.Fatalf("Expected impact + knockout records, got %+v", recs)
	}

	// Further contacts are dropped
	h.impact.Process(4, []physics.Contact{contact(hand, head, 45, 2)})
	if len(h.log.Impacts()) != 2 {
		t.Error("Expected no records after the fight ended")
	}

	var koSeen bool
	for _, ev := range h.queue.Consume() {
		if ev.Type == event.TypeKnockout {
			koSeen = true
		}
	}
	if !koSeen {
		t.Error("Expected a knockout event on the queue")
	}
}

// TestKnockoutRequiresTier verifies depleted health without a KO-tier hit
// leaves the fight running
func TestKnockoutRequiresTier(t *testing.T) {
	loadouts := defaultLoadouts()
	loadouts[1].MaxHealth = vmath.FromInt(5)
	h := newHarness(t, loadouts)

	hand := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	torso := h.fighters[1].Ragdoll().Torso()
	hand.Vel = vmath.VFromFloat(10, 0)

	// Score 200: knockback tier, damage 200 empties health
	h.impact.Process(1, []physics.Contact{contact(hand, torso, 10, 2)})

	if _, _, done := h.impact.Done(); done {
		t.Error("Expected fight to continue below knockout tier")
	}
	if h.fighters[1].Health > 0 {
		t.Error("Expected health depleted")
	}
}

// TestVisualRateLimit verifies observer impact events are throttled while
// the log keeps every record
func TestVisualRateLimit(t *testing.T) {
	h := newHarness(t, defaultLoadouts())
	hand := h.fighters[0].Ragdoll().Segment(fighter.SegHandR)
	head := h.fighters[1].Ragdoll().Head()
	hand.Vel = vmath.VFromFloat(10, 0)

	// Three scored contacts on consecutive ticks
	for tick := uint64(1); tick <= 3; tick++ {
		h.impact.Process(tick, []physics.Contact{contact(hand, head, 10, 2)})
	}

	if got := len(h.log.Impacts()); got != 3 {
		t.Errorf("Expected 3 log records, got %d", got)
	}

	var visual int
	for _, ev := range h.queue.Consume() {
		if ev.Type == event.TypeImpact {
			visual++
		}
	}
	if visual != 1 {
		t.Errorf("Expected 1 rate-limited visual event, got %d", visual)
	}
}
