package sketch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
)

// Sketch is the section of a whole pair.
type Sketch struct {
	Outlines   []Outline // gear first, then pinion
	Bounds     Region    // union of the tooth zones
	ShaftAngle float64
}

// Build walks the design and produces one outline per member using the
// provided kernel. It never mutates the design.
func Build(d *design.Design, k Kernel) (*Sketch, error) {
	if d == nil || d.Spec == nil {
		return nil, fmt.Errorf("sketch: design has no solved pair")
	}

	outlines := []Outline{
		AxialSection(d.Spec.MakeGear(), SideGear),
		AxialSection(d.Spec.MakePinion(), SidePinion),
	}

	var bounds Region
	for i := range outlines {
		o := &outlines[i]
		zone, err := k.Polygon([]r2.Vec{o.Face.A, o.Face.B, o.Root.B, o.Root.A})
		if err != nil {
			return nil, fmt.Errorf("sketch: %s tooth zone: %w", o.Member, err)
		}
		o.Zone = zone
		if bounds == nil {
			bounds = zone
		} else {
			bounds = k.Union(bounds, zone)
		}
	}

	return &Sketch{
		Outlines:   outlines,
		Bounds:     bounds,
		ShaftAngle: d.Spec.Input().ShaftAngle,
	}, nil
}

// Clearances returns the gaps between gear face and pinion root, and
// between pinion face and gear root.
func (s *Sketch) Clearances() (gearFace, pinionFace float64) {
	g, p := s.Outlines[0], s.Outlines[1]
	return Gap(g.Face, p.Root), Gap(p.Face, g.Root)
}

// Draw writes both outlines and the two shaft axes to dr and saves it.
func (s *Sketch) Draw(dr Drawer) error {
	reach := 0.0
	for _, o := range s.Outlines {
		reach = math.Max(reach, r2.Norm(o.Face.B))
		reach = math.Max(reach, r2.Norm(o.Root.B))

		dr.Line(o.Pitch.A, o.Pitch.B)
		dr.Line(o.Face.A, o.Face.B)
		dr.Line(o.Root.A, o.Root.B)
		dr.Line(o.Face.A, o.Root.A)
		dr.Line(o.Face.B, o.Root.B)
	}

	sigma := gear.Radians(s.ShaftAngle)
	origin := r2.Vec{}
	dr.Line(origin, r2.Vec{Y: reach})
	dr.Line(origin, r2.Scale(reach, r2.Vec{X: math.Sin(sigma), Y: math.Cos(sigma)}))

	return dr.Save()
}
