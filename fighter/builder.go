package fighter

import (
	"fmt"

	"github.com/arenasim/ragdoll/physics"
	"github.com/arenasim/ragdoll/vmath"
)

// Proportions is the per-segment size and mass table in unscaled units,
// Q32.32. A uniform scale is applied at build time
type Proportions struct {
	HeadRadius int64
	TorsoW     int64
	TorsoH     int64
	PelvisW    int64
	PelvisH    int64
	UpperArmW  int64
	UpperArmH  int64
	LowerArmW  int64
	LowerArmH  int64
	HandRadius int64
	UpperLegW  int64
	UpperLegH  int64
	LowerLegW  int64
	LowerLegH  int64
	FootW      int64
	FootH      int64

	HeadMass     int64
	TorsoMass    int64
	PelvisMass   int64
	UpperArmMass int64
	LowerArmMass int64
	HandMass     int64
	UpperLegMass int64
	LowerLegMass int64
	FootMass     int64
}

// DefaultProportions returns the stock skeleton
func DefaultProportions() Proportions {
	f := vmath.FromFloat
	return Proportions{
		HeadRadius: f(0.5),
		TorsoW:     f(1.0), TorsoH: f(1.5),
		PelvisW: f(1.0), PelvisH: f(0.6),
		UpperArmW: f(0.3), UpperArmH: f(0.9),
		LowerArmW: f(0.25), LowerArmH: f(0.8),
		HandRadius: f(0.15),
		UpperLegW:  f(0.4), UpperLegH: f(1.1),
		LowerLegW: f(0.3), LowerLegH: f(1.0),
		FootW: f(0.5), FootH: f(0.2),

		HeadMass:     f(1.0),
		TorsoMass:    f(4.0),
		PelvisMass:   f(3.0),
		UpperArmMass: f(0.8),
		LowerArmMass: f(0.6),
		HandMass:     f(0.2),
		UpperLegMass: f(1.2),
		LowerLegMass: f(0.9),
		FootMass:     f(0.3),
	}
}

// BuildParams configures one ragdoll build
type BuildParams struct {
	// Origin is the world position of the pelvis center
	Origin vmath.Vec

	// Scale is the uniform size multiplier, Q32.32
	Scale int64

	// Group is the exclusive intra-fighter collision group; segments of the
	// same fighter never collide with each other
	Group int32

	Props Proportions

	// Spring parameters shared by all 14 joints
	JointStiffness int64
	JointDamping   int64
}

// Build constructs the full segment/joint graph inside the space.
// Construction is atomic: on any validation failure nothing is added, and a
// returned Ragdoll is always complete
func Build(space *physics.Space, p BuildParams) (*Ragdoll, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	sc := func(v int64) int64 { return vmath.Mul(v, p.Scale) }
	pr := p.Props

	// Vertical landmarks derived from half-extents so the skeleton is
	// geometrically continuous
	pelvisTop := pr.PelvisH >> 1
	pelvisBot := -(pr.PelvisH >> 1)
	torsoTop := pelvisTop + pr.TorsoH
	armX := pr.TorsoW >> 1
	hipX := (pr.PelvisW >> 1) - (pr.UpperLegW >> 1)

	at := func(x, y int64) vmath.Vec {
		return p.Origin.Add(vmath.Vec{X: sc(x), Y: sc(y)})
	}

	type segDef struct {
		name  string
		shape physics.Shape
		mass  int64
		pos   vmath.Vec
	}

	side := func(sign int64, v int64) int64 {
		if sign < 0 {
			return -v
		}
		return v
	}

	defs := []segDef{
		{SegHead, physics.Circle(sc(pr.HeadRadius)), pr.HeadMass, at(0, torsoTop+pr.HeadRadius)},
		{SegTorso, physics.Box(sc(pr.TorsoW), sc(pr.TorsoH)), pr.TorsoMass, at(0, pelvisTop+(pr.TorsoH>>1))},
		{SegPelvis, physics.Box(sc(pr.PelvisW), sc(pr.PelvisH)), pr.PelvisMass, at(0, 0)},
	}
	for _, sign := range []int64{-1, 1} {
		sfx := "l"
		if sign > 0 {
			sfx = "r"
		}
		ax := side(sign, armX)
		lx := side(sign, hipX)
		defs = append(defs,
			segDef{"upper-arm-" + sfx, physics.Box(sc(pr.UpperArmW), sc(pr.UpperArmH)), pr.UpperArmMass,
				at(ax, torsoTop-(pr.UpperArmH>>1))},
			segDef{"lower-arm-" + sfx, physics.Box(sc(pr.LowerArmW), sc(pr.LowerArmH)), pr.LowerArmMass,
				at(ax, torsoTop-pr.UpperArmH-(pr.LowerArmH>>1))},
			segDef{"hand-" + sfx, physics.Circle(sc(pr.HandRadius)), pr.HandMass,
				at(ax, torsoTop-pr.UpperArmH-pr.LowerArmH-pr.HandRadius)},
			segDef{"upper-leg-" + sfx, physics.Box(sc(pr.UpperLegW), sc(pr.UpperLegH)), pr.UpperLegMass,
				at(lx, pelvisBot-(pr.UpperLegH>>1))},
			segDef{"lower-leg-" + sfx, physics.Box(sc(pr.LowerLegW), sc(pr.LowerLegH)), pr.LowerLegMass,
				at(lx, pelvisBot-pr.UpperLegH-(pr.LowerLegH>>1))},
			segDef{"foot-" + sfx, physics.Box(sc(pr.FootW), sc(pr.FootH)), pr.FootMass,
				at(lx, pelvisBot-pr.UpperLegH-pr.LowerLegH-(pr.FootH>>1))},
		)
	}

	segments := make(map[string]*physics.Body, SegmentCount)
	for _, d := range defs {
		body := physics.NewBody(d.name, d.shape, d.mass, d.pos)
		body.Group = p.Group
		segments[d.name] = body
	}

	type jointDef struct {
		name    string
		a, b    string
		anchorA vmath.Vec
		anchorB vmath.Vec
	}

	jdefs := []jointDef{
		{JntNeck, SegTorso, SegHead,
			vmath.Vec{X: 0, Y: sc(pr.TorsoH >> 1)}, vmath.Vec{X: 0, Y: -sc(pr.HeadRadius)}},
		{JntSpine, SegPelvis, SegTorso,
			vmath.Vec{X: 0, Y: sc(pr.PelvisH >> 1)}, vmath.Vec{X: 0, Y: -sc(pr.TorsoH >> 1)}},
	}
	for _, sign := range []int64{-1, 1} {
		sfx := "-l"
		if sign > 0 {
			sfx = "-r"
		}
		ax := sc(side(sign, armX))
		lx := sc(side(sign, hipX))
		jdefs = append(jdefs,
			jointDef{"shoulder" + sfx, SegTorso, "upper-arm" + sfx,
				vmath.Vec{X: ax, Y: sc(pr.TorsoH >> 1)}, vmath.Vec{X: 0, Y: sc(pr.UpperArmH >> 1)}},
			jointDef{"elbow" + sfx, "upper-arm" + sfx, "lower-arm" + sfx,
				vmath.Vec{X: 0, Y: -sc(pr.UpperArmH >> 1)}, vmath.Vec{X: 0, Y: sc(pr.LowerArmH >> 1)}},
			jointDef{"wrist" + sfx, "lower-arm" + sfx, "hand" + sfx,
				vmath.Vec{X: 0, Y: -sc(pr.LowerArmH >> 1)}, vmath.Vec{X: 0, Y: sc(pr.HandRadius)}},
			jointDef{"hip" + sfx, SegPelvis, "upper-leg" + sfx,
				vmath.Vec{X: lx, Y: -sc(pr.PelvisH >> 1)}, vmath.Vec{X: 0, Y: sc(pr.UpperLegH >> 1)}},
			jointDef{"knee" + sfx, "upper-leg" + sfx, "lower-leg" + sfx,
				vmath.Vec{X: 0, Y: -sc(pr.UpperLegH >> 1)}, vmath.Vec{X: 0, Y: sc(pr.LowerLegH >> 1)}},
			jointDef{"ankle" + sfx, "lower-leg" + sfx, "foot" + sfx,
				vmath.Vec{X: 0, Y: -sc(pr.LowerLegH >> 1)}, vmath.Vec{X: 0, Y: sc(pr.FootH >> 1)}},
		)
	}

	joints := make(map[string]*physics.Joint, JointCount)
	for _, d := range jdefs {
		joints[d.name] = &physics.Joint{
			Label:     d.name,
			A:         segments[d.a],
			B:         segments[d.b],
			AnchorA:   d.anchorA,
			AnchorB:   d.anchorB,
			Stiffness: p.JointStiffness,
			Damping:   p.JointDamping,
		}
	}

	// Commit: only now does anything become visible to the space
	for _, name := range segmentOrder {
		space.AddBody(segments[name])
	}
	for _, name := range jointOrder {
		space.AddJoint(joints[name])
	}

	return &Ragdoll{segments: segments, joints: joints, group: p.Group}, nil
}

func validate(p BuildParams) error {
	if p.Scale <= 0 {
		return fmt.Errorf("ragdoll build: scale must be positive, got %v", vmath.ToFloat(p.Scale))
	}
	if p.Group <= 0 {
		return fmt.Errorf("ragdoll build: fighter collision group must be positive, got %d", p.Group)
	}
	if p.JointStiffness <= 0 {
		return fmt.Errorf("ragdoll build: joint stiffness must be positive, got %v", vmath.ToFloat(p.JointStiffness))
	}
	if p.JointDamping < 0 {
		return fmt.Errorf("ragdoll build: joint damping must not be negative, got %v", vmath.ToFloat(p.JointDamping))
	}

	pr := p.Props
	masses := map[string]int64{
		"head": pr.HeadMass, "torso": pr.TorsoMass, "pelvis": pr.PelvisMass,
		"upper-arm": pr.UpperArmMass, "lower-arm": pr.LowerArmMass, "hand": pr.HandMass,
		"upper-leg": pr.UpperLegMass, "lower-leg": pr.LowerLegMass, "foot": pr.FootMass,
	}
	for name, m := range masses {
		if m <= 0 {
			return fmt.Errorf("ragdoll build: %s mass must be positive, got %v", name, vmath.ToFloat(m))
		}
	}
	dims := map[string]int64{
		"head radius": pr.HeadRadius,
		"torso":       vmath.Min(pr.TorsoW, pr.TorsoH),
		"pelvis":      vmath.Min(pr.PelvisW, pr.PelvisH),
		"upper-arm":   vmath.Min(pr.UpperArmW, pr.UpperArmH),
		"lower-arm":   vmath.Min(pr.LowerArmW, pr.LowerArmH),
		"hand radius": pr.HandRadius,
		"upper-leg":   vmath.Min(pr.UpperLegW, pr.UpperLegH),
		"lower-leg":   vmath.Min(pr.LowerLegW, pr.LowerLegH),
		"foot":        vmath.Min(pr.FootW, pr.FootH),
	}
	for name, d := range dims {
		if d <= 0 {
			return fmt.Errorf("ragdoll build: %s size must be positive, got %v", name, vmath.ToFloat(d))
		}
	}
	return nil
}
