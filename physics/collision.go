package physics

import "github.com/arenasim/ragdoll/vmath"

// manifold describes one contact between two bodies
// Normal points from A toward B
type manifold struct {
	normal      vmath.Vec
	penetration int64
	point       vmath.Vec
}

// detect runs narrow-phase collision between two bodies
// Returns false when the shapes do not overlap
func detect(a, b *Body) (manifold, bool) {
	switch {
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle:
		return detectCircleCircle(a, b)
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeBox:
		m, ok := detectCircleBox(a, b)
		m.normal = m.normal.Neg()
		return m, ok
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeCircle:
		return detectCircleBox(b, a)
	default:
		return detectBoxBox(a, b)
	}
}

func detectCircleCircle(a, b *Body) (manifold, bool) {
	delta := b.Pos.Sub(a.Pos)
	rsum := a.Shape.Radius + b.Shape.Radius
	distSq := delta.LenSq()
	if distSq >= vmath.Mul(rsum, rsum) {
		return manifold{}, false
	}
	dist := vmath.Sqrt(distSq)
	var normal vmath.Vec
	if dist == 0 {
		// Concentric; pick a fixed axis for determinism
		normal = vmath.Vec{X: vmath.Scale, Y: 0}
	} else {
		normal = vmath.Vec{X: vmath.Div(delta.X, dist), Y: vmath.Div(delta.Y, dist)}
	}
	return manifold{
		normal:      normal,
		penetration: rsum - dist,
		point:       a.Pos.Add(normal.Scale(a.Shape.Radius)),
	}, true
}

// detectCircleBox tests circle a against box b
// Normal points from the box toward the circle
func detectCircleBox(circle, box *Body) (manifold, bool) {
	// Circle center in box-local frame
	local := circle.Pos.Sub(box.Pos).RotateRad(-box.Angle)

	clamped := vmath.Vec{
		X: vmath.Clamp(local.X, -box.Shape.HalfW, box.Shape.HalfW),
		Y: vmath.Clamp(local.Y, -box.Shape.HalfH, box.Shape.HalfH),
	}

	var localNormal vmath.Vec
	var penetration int64

	if clamped == local {
		// Center inside the box: push out along the axis of least depth
		depthX := box.Shape.HalfW - vmath.Abs(local.X)
		depthY := box.Shape.HalfH - vmath.Abs(local.Y)
		if depthX < depthY {
			localNormal = vmath.Vec{X: vmath.Sign(local.X), Y: 0}
			penetration = depthX + circle.Shape.Radius
			clamped.X = vmath.Mul(vmath.Sign(local.X), box.Shape.HalfW)
		} else {
			localNormal = vmath.Vec{X: 0, Y: vmath.Sign(local.Y)}
			penetration = depthY + circle.Shape.Radius
			clamped.Y = vmath.Mul(vmath.Sign(local.Y), box.Shape.HalfH)
		}
		if localNormal.IsZero() {
			localNormal = vmath.Vec{X: vmath.Scale, Y: 0}
		}
	} else {
		delta := local.Sub(clamped)
		distSq := delta.LenSq()
		r := circle.Shape.Radius
		if distSq >= vmath.Mul(r, r) {
			return manifold{}, false
		}
		dist := vmath.Sqrt(distSq)
		if dist == 0 {
			localNormal = vmath.Vec{X: vmath.Scale, Y: 0}
		} else {
			localNormal = vmath.Vec{X: vmath.Div(delta.X, dist), Y: vmath.Div(delta.Y, dist)}
		}
		penetration = r - dist
	}

	worldNormal := localNormal.RotateRad(box.Angle)
	worldPoint := box.WorldPoint(clamped)
	return manifold{
		normal:      worldNormal,
		penetration: penetration,
		point:       worldPoint,
	}, true
}

// detectBoxBox runs SAT over the four face axes of two oriented boxes
func detectBoxBox(a, b *Body) (manifold, bool) {
	axes := [4]vmath.Vec{
		vmath.Vec{X: vmath.Scale, Y: 0}.RotateRad(a.Angle),
		vmath.Vec{X: 0, Y: vmath.Scale}.RotateRad(a.Angle),
		vmath.Vec{X: vmath.Scale, Y: 0}.RotateRad(b.Angle),
		vmath.Vec{X: 0, Y: vmath.Scale}.RotateRad(b.Angle),
	}

	delta := b.Pos.Sub(a.Pos)

	minOverlap := int64(1<<62 - 1)
	var minAxis vmath.Vec

	for _, axis := range axes {
		ra := projectExtent(a, axis)
		rb := projectExtent(b, axis)
		dist := vmath.Abs(delta.Dot(axis))
		overlap := ra + rb - dist
		if overlap <= 0 {
			return manifold{}, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			minAxis = axis
		}
	}

	// Orient the separating axis from A toward B
	if delta.Dot(minAxis) < 0 {
		minAxis = minAxis.Neg()
	}

	// Contact point approximation: midpoint of the two centers clamped into
	// the opposing box
	pa := clampIntoBox(a.Pos, b)
	pb := clampIntoBox(b.Pos, a)
	point := vmath.Vec{X: (pa.X + pb.X) >> 1, Y: (pa.Y + pb.Y) >> 1}

	return manifold{
		normal:      minAxis,
		penetration: minOverlap,
		point:       point,
	}, true
}

// projectExtent returns the half-length of a body's projection onto an axis
func projectExtent(b *Body, axis vmath.Vec) int64 {
	if b.Shape.Kind == ShapeCircle {
		return b.Shape.Radius
	}
	ux := vmath.Vec{X: vmath.Scale, Y: 0}.RotateRad(b.Angle)
	uy := vmath.Vec{X: 0, Y: vmath.Scale}.RotateRad(b.Angle)
	return vmath.Mul(b.Shape.HalfW, vmath.Abs(ux.Dot(axis))) +
		vmath.Mul(b.Shape.HalfH, vmath.Abs(uy.Dot(axis)))
}

// clampIntoBox clamps a world point into a box body's extent
func clampIntoBox(p vmath.Vec, box *Body) vmath.Vec {
	local := p.Sub(box.Pos).RotateRad(-box.Angle)
	local.X = vmath.Clamp(local.X, -box.Shape.HalfW, box.Shape.HalfW)
	local.Y = vmath.Clamp(local.Y, -box.Shape.HalfH, box.Shape.HalfH)
	return box.WorldPoint(local)
}
