// Package sdfx implements the sketch.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library, and writes sketches as DXF.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/bevel/pkg/sketch"
)

// Compile-time interface checks.
var (
	_ sketch.Kernel = (*Kernel)(nil)
	_ sketch.Drawer = (*DXF)(nil)
)

// region wraps an sdf.SDF2 to implement sketch.Region.
type region struct {
	s sdf.SDF2
}

func (r *region) BoundingBox() (min, max r2.Vec) {
	bb := r.s.BoundingBox()
	return r2.Vec{X: bb.Min.X, Y: bb.Min.Y}, r2.Vec{X: bb.Max.X, Y: bb.Max.Y}
}

// Contains treats a non-positive distance as inside.
func (r *region) Contains(p r2.Vec) bool {
	return r.s.Evaluate(vec(p)) <= 0
}

func vec(p r2.Vec) v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}

func unwrap(r sketch.Region) sdf.SDF2 {
	return r.(*region).s
}

func wrap(s sdf.SDF2) sketch.Region {
	return &region{s: s}
}

// Kernel implements sketch.Kernel using sdfx.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

// Polygon builds a closed polygon from its vertices.
func (k *Kernel) Polygon(pts []r2.Vec) (sketch.Region, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(pts))
	}
	vs := make([]v2.Vec, len(pts))
	for i, p := range pts {
		vs[i] = vec(p)
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return wrap(s), nil
}

// Union returns the union of two regions.
func (k *Kernel) Union(a, b sketch.Region) sketch.Region {
	return wrap(sdf.Union2D(unwrap(a), unwrap(b)))
}

// DXF collects lines and writes them to a DXF file on Save.
type DXF struct {
	d     *render.DXF
	lines int
}

// NewDXF starts a drawing that Save writes to path.
func NewDXF(path string) *DXF {
	return &DXF{d: render.NewDXF(path)}
}

func (x *DXF) Line(a, b r2.Vec) {
	x.d.Line(&sdf.Line2{vec(a), vec(b)})
	x.lines++
}

// Lines returns the number of lines drawn so far.
func (x *DXF) Lines() int { return x.lines }

func (x *DXF) Save() error {
	if err := x.d.Save(); err != nil {
		return fmt.Errorf("sdfx: save dxf: %w", err)
	}
	return nil
}
