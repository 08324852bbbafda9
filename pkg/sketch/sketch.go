// Package sketch draws the axial section of a bevel pair: the pitch, face
// and root cone generators of both members in the plane containing the
// two shaft axes. Regions are built through a Kernel so the geometry
// backend can be swapped without touching the section math.
//
// The frame is the gear's: apex at the origin, gear axis along +Y. The
// pinion is drawn in the same frame, so both pitch generators coincide.
package sketch

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
)

// Region is an opaque handle to a kernel area.
type Region interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max r2.Vec)
	// Contains reports whether p lies inside or on the boundary.
	Contains(p r2.Vec) bool
}

// Kernel builds and combines regions.
type Kernel interface {
	Polygon(pts []r2.Vec) (Region, error)
	Union(a, b Region) Region
}

// Drawer receives line work. Save finishes the drawing.
type Drawer interface {
	Line(a, b r2.Vec)
	Save() error
}

// Segment is a straight piece of a cone generator.
type Segment struct {
	A, B r2.Vec
}

// Direction returns the unit vector from A to B.
func (s Segment) Direction() r2.Vec {
	return r2.Unit(r2.Sub(s.B, s.A))
}

// Side selects which member an instance is drawn as.
type Side int

const (
	SideGear Side = iota
	SidePinion
)

// Outline is the section of one member between its inner and outer cone
// distance.
type Outline struct {
	Member design.Member
	Pitch  Segment
	Face   Segment
	Root   Segment
	Zone   Region // tooth zone bounded by face, root and the two back cones
}

// AxialSection computes the generator segments of in. The face and root
// lines are offset from the pitch generator by the addendum and dedendum
// at the pitch cone distance and tilt by the face and root angle
// differences.
func AxialSection(in gear.Instance, side Side) Outline {
	delta, sign := in.PitchConeAngle, 1.0
	member := design.MemberGear
	if side == SidePinion {
		delta, sign = in.ShaftAngle-in.PitchConeAngle, -1.0
		member = design.MemberPinion
	}

	d := gear.Radians(delta)
	u := r2.Vec{X: math.Sin(d), Y: math.Cos(d)}
	n := r2.Vec{X: math.Cos(d), Y: -math.Sin(d)}

	pcd := in.PitchConeDistance
	tf := math.Tan(gear.Radians(in.FaceConeAngle - in.PitchConeAngle))
	tr := math.Tan(gear.Radians(in.PitchConeAngle - in.RootConeAngle))

	at := func(r, h float64) r2.Vec {
		return r2.Add(r2.Scale(r, u), r2.Scale(sign*h, n))
	}
	segment := func(h func(r float64) float64) Segment {
		return Segment{
			A: at(in.InnerConeDistance, h(in.InnerConeDistance)),
			B: at(in.OuterConeDistance, h(in.OuterConeDistance)),
		}
	}

	return Outline{
		Member: member,
		Pitch:  segment(func(float64) float64 { return 0 }),
		Face:   segment(func(r float64) float64 { return in.Addendum + (r-pcd)*tf }),
		Root:   segment(func(r float64) float64 { return -in.Dedendum - (r-pcd)*tr }),
	}
}

// Gap returns the distance from the start of b to the line through a.
// For parallel generators it is the clearance between them.
func Gap(a, b Segment) float64 {
	dir := r2.Sub(a.B, a.A)
	return math.Abs(r2.Cross(dir, r2.Sub(b.A, a.A))) / r2.Norm(dir)
}
