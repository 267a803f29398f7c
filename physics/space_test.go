package physics

import (
	"math"
	"testing"

	"github.com/arenasim/ragdoll/parameter"
	"github.com/arenasim/ragdoll/vmath"
)

func approx(t *testing.T, got int64, want, tol float64, msg string) {
	t.Helper()
	g := vmath.ToFloat(got)
	if math.Abs(g-want) > tol {
		t.Errorf("%s: got %v, want %v (tol %v)", msg, g, want, tol)
	}
}

// TestIntegrateFreeFall verifies semi-implicit Euler under gravity: velocity
// then position, so the position update sees the new velocity
func TestIntegrateFreeFall(t *testing.T) {
	g := vmath.Vec{X: 0, Y: vmath.FromInt(-30)}
	s := NewSpace(g)
	b := NewBody("ball", Circle(vmath.FromInt(1)), vmath.FromInt(2), vmath.Vec{Y: vmath.FromInt(100)})
	s.AddBody(b)

	s.Step(parameter.TickSeconds)

	approx(t, b.Vel.Y, -30.0/60.0, 1e-4, "velocity after one tick")
	approx(t, b.Pos.Y, 100.0-30.0/3600.0, 1e-4, "position after one tick")
}

// TestApplyImpulse verifies the velocity change is j/m and an offset
// application point induces spin
func TestApplyImpulse(t *testing.T) {
	b := NewBody("seg", Circle(vmath.FromInt(1)), vmath.FromInt(4), vmath.Vec{})

	b.ApplyImpulse(vmath.Vec{X: vmath.FromInt(8)}, vmath.Vec{})
	approx(t, b.Vel.X, 2, 1e-6, "linear velocity from impulse")
	if b.AngVel != 0 {
		t.Error("Expected no spin from a centered impulse")
	}

	b.ApplyImpulse(vmath.Vec{X: vmath.FromInt(8)}, vmath.Vec{Y: vmath.FromInt(1)})
	if b.AngVel == 0 {
		t.Error("Expected spin from an offset impulse")
	}
}

// TestStaticBodyImmovable verifies forces and impulses are ignored
func TestStaticBodyImmovable(t *testing.T) {
	b := NewStaticBody("floor", Box(vmath.FromInt(10), vmath.FromInt(1)), vmath.Vec{})
	b.ApplyForce(vmath.Vec{X: vmath.FromInt(100)})
	b.ApplyImpulse(vmath.Vec{X: vmath.FromInt(100)}, vmath.Vec{})
	b.integrate(vmath.Vec{Y: vmath.FromInt(-30)}, parameter.TickSeconds)

	if !b.Vel.IsZero() || !b.Pos.IsZero() {
		t.Error("Expected static body to stay put")
	}
}

// TestCollisionGroups verifies equal nonzero groups never contact and group
// zero contacts everything
func TestCollisionGroups(t *testing.T) {
	a := NewBody("a", Circle(vmath.FromInt(1)), vmath.FromInt(1), vmath.Vec{})
	b := NewBody("b", Circle(vmath.FromInt(1)), vmath.FromInt(1), vmath.Vec{X: vmath.FromFloat(0.5)})

	a.Group, b.Group = 1, 1
	if eligible(a, b) {
		t.Error("Expected equal nonzero groups to be ineligible")
	}

	b.Group = 2
	if !eligible(a, b) {
		t.Error("Expected distinct groups to be eligible")
	}

	a.Group, b.Group = 0, 0
	if !eligible(a, b) {
		t.Error("Expected zero groups to be eligible")
	}

	floor := NewStaticBody("floor", Box(vmath.FromInt(10), vmath.FromInt(1)), vmath.Vec{})
	wall := NewStaticBody("wall", Box(vmath.FromInt(1), vmath.FromInt(10)), vmath.Vec{})
	if eligible(floor, wall) {
		t.Error("Expected static pair to be ineligible")
	}
}

// TestBeginContactFiresOnce verifies a persisting overlap reports exactly
// one begin-contact until the pair separates
func TestBeginContactFiresOnce(t *testing.T) {
	s := NewSpace(vmath.Vec{})
	a := NewBody("a", Circle(vmath.FromInt(1)), vmath.FromInt(1), vmath.Vec{X: vmath.FromFloat(-1.05)})
	b := NewBody("b", Circle(vmath.FromInt(1)), vmath.FromInt(1), vmath.Vec{X: vmath.FromFloat(1.05)})
	a.Vel.X = vmath.FromInt(10)
	b.Vel.X = vmath.FromInt(-10)
	s.AddBody(a)
	s.AddBody(b)

	var contacts []Contact
	s.OnContactBegin(func(c Contact) { contacts = append(contacts, c) })

	s.Step(parameter.TickSeconds)
	if len(contacts) != 1 {
		t.Fatalf("Expected one begin-contact, got %d", len(contacts))
	}

	// Force a persisting overlap and check no duplicate event
	a.Pos = vmath.Vec{X: vmath.FromFloat(-0.5)}
	b.Pos = vmath.Vec{X: vmath.FromFloat(0.5)}
	a.Vel = vmath.Vec{X: vmath.FromInt(1)}
	b.Vel = vmath.Vec{X: vmath.FromInt(-1)}
	s.Step(parameter.TickSeconds)
	if len(contacts) != 1 {
		t.Fatalf("Expected persisting contact to stay silent, got %d events", len(contacts))
	}

	// Separate, then collide again: a fresh begin-contact
	a.Pos = vmath.Vec{X: vmath.FromInt(-5)}
	a.Vel = vmath.Vec{}
	b.Pos = vmath.Vec{X: vmath.FromInt(5)}
	b.Vel = vmath.Vec{}
	s.Step(parameter.TickSeconds)

	a.Pos = vmath.Vec{X: vmath.FromFloat(-0.9)}
	b.Pos = vmath.Vec{X: vmath.FromFloat(0.9)}
	s.Step(parameter.TickSeconds)
	if len(contacts) != 2 {
		t.Fatalf("Expected a second begin-contact after separation, got %d", len(contacts))
	}
}

// TestContactCarriesApproachData verifies RelSpeed is the closing speed
// along the normal and CombinedMass is the pair's mass sum
func TestContactCarriesApproachData(t *testing.T) {
	s := NewSpace(vmath.Vec{})
	a := NewBody("a", Circle(vmath.FromInt(1)), vmath.FromFloat(1.5), vmath.Vec{X: vmath.FromFloat(-1.05)})
	b := NewBody("b", Circle(vmath.FromInt(1)), vmath.FromFloat(0.5), vmath.Vec{X: vmath.FromFloat(1.05)})
	a.Vel.X = vmath.FromInt(6)
	b.Vel.X = vmath.FromInt(-4)
	s.AddBody(a)
	s.AddBody(b)

	var got Contact
	var fired bool
	s.OnContactBegin(func(c Contact) { got, fired = c, true })

	s.Step(parameter.TickSeconds)
	if !fired {
		t.Fatal("Expected a contact")
	}
	approx(t, got.RelSpeed, 10, 0.01, "closing speed")
	approx(t, got.CombinedMass, 2, 1e-6, "combined mass")
	if got.A != a || got.B != b {
		t.Error("Expected contact bodies in insertion order")
	}
}

// TestBoundaryStopsFall verifies a dropped body comes to rest on the floor
// instead of tunneling through it
func TestBoundaryStopsFall(t *testing.T) {
	s := NewSpace(vmath.Vec{Y: parameter.Gravity})
	s.AddBoundary(vmath.FromInt(24), vmath.FromInt(12))

	ball := NewBody("ball", Circle(vmath.FromFloat(0.5)), vmath.FromInt(2), vmath.Vec{Y: vmath.FromInt(4)})
	s.AddBody(ball)

	for i := 0; i < 600; i++ {
		s.Step(parameter.TickSeconds)
	}

	y := vmath.ToFloat(ball.Pos.Y)
	if y < 0.2 || y > 1.0 {
		t.Errorf("Expected ball resting near floor at radius height, got y=%v", y)
	}
	if math.Abs(vmath.ToFloat(ball.Vel.Y)) > 1 {
		t.Errorf("Expected ball nearly at rest, got vy=%v", vmath.ToFloat(ball.Vel.Y))
	}
}

// TestWallsContainBody verifies horizontal motion is kept inside the arena
func TestWallsContainBody(t *testing.T) {
	s := NewSpace(vmath.Vec{})
	s.AddBoundary(vmath.FromInt(24), vmath.FromInt(12))

	ball := NewBody("ball", Circle(vmath.FromFloat(0.5)), vmath.FromInt(1), vmath.Vec{X: 0, Y: vmath.FromInt(2)})
	ball.Vel.X = vmath.FromInt(40)
	s.AddBody(ball)

	for i := 0; i < 300; i++ {
		s.Step(parameter.TickSeconds)
	}

	if x := vmath.ToFloat(ball.Pos.X); x > 12 || x < -12 {
		t.Errorf("Expected ball inside the arena, got x=%v", x)
	}
}

// TestSpringNeutralAtRest verifies a joint at its rest length applies no
// force, so a connected pair stays still without gravity
func TestSpringNeutralAtRest(t *testing.T) {
	s := NewSpace(vmath.Vec{})
	a := NewBody("a", Circle(vmath.FromFloat(0.2)), vmath.FromInt(1), vmath.Vec{})
	b := NewBody("b", Circle(vmath.FromFloat(0.2)), vmath.FromInt(1), vmath.Vec{Y: vmath.FromInt(2)})
	a.Group, b.Group = 1, 1
	s.AddBody(a)
	s.AddBody(b)
	s.AddJoint(&Joint{
		Label:     "link",
		A:         a,
		B:         b,
		Stiffness: vmath.FromInt(100),
		Damping:   vmath.FromInt(5),
		// Anchors at centers, rest length equals separation
		RestLength: vmath.FromInt(2),
	})

	for i := 0; i < 60; i++ {
		s.Step(parameter.TickSeconds)
	}

	approx(t, b.Pos.Y, 2, 0.01, "joint at rest length leaves bodies still")
}

// TestSpringRestoresStretch verifies a stretched spring pulls the bodies
// back toward rest length
func TestSpringRestoresStretch(t *testing.T) {
	s := NewSpace(vmath.Vec{})
	a := NewBody("a", Circle(vmath.FromFloat(0.2)), vmath.FromInt(1), vmath.Vec{})
	b := NewBody("b", Circle(vmath.FromFloat(0.2)), vmath.FromInt(1), vmath.Vec{Y: vmath.FromInt(3)})
	a.Group, b.Group = 1, 1
	s.AddBody(a)
	s.AddBody(b)
	s.AddJoint(&Joint{
		Label:      "link",
		A:          a,
		B:          b,
		Stiffness:  vmath.FromInt(60),
		Damping:    vmath.FromInt(8),
		RestLength: vmath.FromInt(2),
	})

	for i := 0; i < 600; i++ {
		s.Step(parameter.TickSeconds)
	}

	sep := vmath.ToFloat(b.Pos.Sub(a.Pos).Len())
	if math.Abs(sep-2) > 0.1 {
		t.Errorf("Expected separation near rest length 2, got %v", sep)
	}
}

// TestWorldAnchoredJoint verifies a nil body A pulls B toward the fixed
// world point
func TestWorldAnchoredJoint(t *testing.T) {
	s := NewSpace(vmath.Vec{})
	b := NewBody("b", Circle(vmath.FromFloat(0.2)), vmath.FromInt(1), vmath.Vec{X: vmath.FromInt(3)})
	s.AddBody(b)
	s.AddJoint(&Joint{
		Label:       "support",
		B:           b,
		WorldAnchor: vmath.Vec{},
		Stiffness:   vmath.FromInt(50),
		Damping:     vmath.FromInt(10),
		RestLength:  0,
	})

	for i := 0; i < 900; i++ {
		s.Step(parameter.TickSeconds)
	}

	if d := vmath.ToFloat(b.Pos.Len()); d > 0.2 {
		t.Errorf("Expected body pulled to the anchor, still %v away", d)
	}
}

// TestShapeMoments checks the inertia formulas
func TestShapeMoments(t *testing.T) {
	// Circle: 0.5 * 2 * 1^2 = 1
	m := Circle(vmath.FromInt(1)).Moment(vmath.FromInt(2))
	approx(t, m, 1, 1e-4, "circle moment")

	// Box: 3 * (2^2 + 4^2) / 12 = 5
	m = Box(vmath.FromInt(2), vmath.FromInt(4)).Moment(vmath.FromInt(3))
	approx(t, m, 5, 1e-4, "box moment")
}
