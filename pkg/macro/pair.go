package macro

import (
	"fmt"
	"math"

	"github.com/chazu/bevel/pkg/gear"
)

// clearanceTolerance bounds the disagreement, in mm, between the
// configured cone clearance and the gap measured between mating cones.
const clearanceTolerance = 1e-6

// PairMacro joins the body geometry of both members to the instances of
// a solved pair. It is built once and never modified.
type PairMacro struct {
	gearGeom   Geometry
	pinionGeom Geometry
	gear       gear.Instance
	pinion     gear.Instance
	clearance  float64
}

// NewPairMacro checks that gearGeom is a gear-side variant and pinionGeom
// a pinion-side one, then captures both instances of s.
func NewPairMacro(s *gear.SolvedSpec, gearGeom, pinionGeom Geometry) (*PairMacro, error) {
	if s == nil {
		return nil, fmt.Errorf("macro: pair needs a solved spec")
	}
	if gearGeom.Kind() != KindGear {
		return nil, fmt.Errorf("macro: gear side: %w", &VariantError{Want: []Kind{KindGear}, Got: gearGeom.Kind()})
	}
	if !pinionGeom.IsPinion() {
		return nil, fmt.Errorf("macro: pinion side: %w", &VariantError{Want: []Kind{KindSphericalPinion, KindStemPinion}, Got: pinionGeom.Kind()})
	}
	return &PairMacro{
		gearGeom:   gearGeom,
		pinionGeom: pinionGeom,
		gear:       s.MakeGear(),
		pinion:     s.MakePinion(),
		clearance:  s.Input().ConeClearance,
	}, nil
}

func (p *PairMacro) GearGeometry() Geometry { return p.gearGeom }
func (p *PairMacro) PinionGeometry() Geometry { return p.pinionGeom }
func (p *PairMacro) Gear() gear.Instance { return p.gear }
func (p *PairMacro) Pinion() gear.Instance { return p.pinion }
func (p *PairMacro) ConeClearance() float64 { return p.clearance }

// Gaps measures the clearance between mating cones perpendicular to the
// face generators: gear face to pinion root, and pinion face to gear root.
func (p *PairMacro) Gaps() (gearFace, pinionFace float64) {
	g, q := p.gear, p.pinion
	gearFace = (q.Dedendum - g.Addendum) * math.Cos(gear.Radians(g.FaceConeAngle-g.PitchConeAngle))
	pinionFace = (g.Dedendum - q.Addendum) * math.Cos(gear.Radians(g.PitchConeAngle-g.RootConeAngle))
	return gearFace, pinionFace
}

// ClearanceCheck reports whether both gaps equal the cone clearance.
func (p *PairMacro) ClearanceCheck() bool {
	a, b := p.Gaps()
	return math.Abs(a-p.clearance) <= clearanceTolerance &&
		math.Abs(b-p.clearance) <= clearanceTolerance
}

// ConeDistanceCheck reports whether the pitch cone distance falls inside
// the toothed band on both members.
func (p *PairMacro) ConeDistanceCheck() bool {
	for _, in := range []gear.Instance{p.gear, p.pinion} {
		if in.PitchConeDistance <= in.InnerConeDistance || in.PitchConeDistance >= in.OuterConeDistance {
			return false
		}
	}
	return true
}

// BlankCheck reports whether each blank is at least as large as the tip
// diameter of the teeth cut into it.
func (p *PairMacro) BlankCheck() bool {
	return p.gearGeom.OuterDia >= p.gear.OuterTipDiameter() &&
		p.pinionGeom.OuterDia >= p.pinion.OuterTipDiameter()
}
