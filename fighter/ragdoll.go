package fighter

import (
	"github.com/arenasim/ragdoll/physics"
)

// Segment names. The skeleton is a fixed tree; topology never changes
// during a fight
const (
	SegHead      = "head"
	SegTorso     = "torso"
	SegPelvis    = "pelvis"
	SegUpperArmL = "upper-arm-l"
	SegUpperArmR = "upper-arm-r"
	SegLowerArmL = "lower-arm-l"
	SegLowerArmR = "lower-arm-r"
	SegHandL     = "hand-l"
	SegHandR     = "hand-r"
	SegUpperLegL = "upper-leg-l"
	SegUpperLegR = "upper-leg-r"
	SegLowerLegL = "lower-leg-l"
	SegLowerLegR = "lower-leg-r"
	SegFootL     = "foot-l"
	SegFootR     = "foot-r"
)

// Joint names
const (
	JntNeck      = "neck"
	JntSpine     = "spine"
	JntShoulderL = "shoulder-l"
	JntShoulderR = "shoulder-r"
	JntElbowL    = "elbow-l"
	JntElbowR    = "elbow-r"
	JntWristL    = "wrist-l"
	JntWristR    = "wrist-r"
	JntHipL      = "hip-l"
	JntHipR      = "hip-r"
	JntKneeL     = "knee-l"
	JntKneeR     = "knee-r"
	JntAnkleL    = "ankle-l"
	JntAnkleR    = "ankle-r"
)

// Fixed topology counts: three core segments plus six symmetric limb pairs,
// joined as a tree
const (
	SegmentCount = 15
	JointCount   = 14
)

// segmentOrder fixes iteration order for deterministic construction
var segmentOrder = [SegmentCount]string{
	SegHead, SegTorso, SegPelvis,
	SegUpperArmL, SegLowerArmL, SegHandL,
	SegUpperArmR, SegLowerArmR, SegHandR,
	SegUpperLegL, SegLowerLegL, SegFootL,
	SegUpperLegR, SegLowerLegR, SegFootR,
}

var jointOrder = [JointCount]string{
	JntNeck, JntSpine,
	JntShoulderL, JntElbowL, JntWristL,
	JntShoulderR, JntElbowR, JntWristR,
	JntHipL, JntKneeL, JntAnkleL,
	JntHipR, JntKneeR, JntAnkleR,
}

// Ragdoll is one articulated fighter skeleton. It is only ever observed
// fully built; the builder commits the whole graph or nothing
type Ragdoll struct {
	segments map[string]*physics.Body
	joints   map[string]*physics.Joint
	group    int32
}

// Segment returns the named segment. Unknown names return nil; callers use
// the Seg* constants
func (r *Ragdoll) Segment(name string) *physics.Body {
	return r.segments[name]
}

// Joint returns the named joint
func (r *Ragdoll) Joint(name string) *physics.Joint {
	return r.joints[name]
}

// Segments returns all segments in fixed construction order
func (r *Ragdoll) Segments() []*physics.Body {
	out := make([]*physics.Body, 0, SegmentCount)
	for _, name := range segmentOrder {
		out = append(out, r.segments[name])
	}
	return out
}

// Group returns the exclusive intra-fighter collision group
func (r *Ragdoll) Group() int32 {
	return r.group
}

// Head, Torso and Pelvis are the handles the AI and balance systems consume
func (r *Ragdoll) Head() *physics.Body   { return r.segments[SegHead] }
func (r *Ragdoll) Torso() *physics.Body  { return r.segments[SegTorso] }
func (r *Ragdoll) Pelvis() *physics.Body { return r.segments[SegPelvis] }

// HitLocation classifies a segment name for the damage multiplier
type HitLocation uint8

const (
	LocationTorso HitLocation = iota
	LocationHead
	LocationLimb
)

func (l HitLocation) String() string {
	switch l {
	case LocationHead:
		return "head"
	case LocationLimb:
		return "limb"
	default:
		return "torso"
	}
}

// Classify maps a segment name to its hit location. Torso and pelvis take
// base damage, the head takes more, limbs less
func Classify(segment string) HitLocation {
	switch segment {
	case SegHead:
		return LocationHead
	case SegTorso, SegPelvis:
		return LocationTorso
	default:
		return LocationLimb
	}
}
