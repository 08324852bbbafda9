package macro

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrWrongVariant is returned when a Geometry is read as a variant it does
// not hold.
var ErrWrongVariant = errors.New("macro: wrong geometry variant")

// Kind identifies the payload a Geometry holds.
type Kind int

const (
	KindUnset           Kind = iota // zero Geometry
	KindGear                        // GearMacro
	KindSphericalPinion             // PinionSphericalMacro
	KindStemPinion                  // PinionStemMacro
)

func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindGear:
		return "gear"
	case KindSphericalPinion:
		return "spherical-pinion"
	case KindStemPinion:
		return "stem-pinion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// VariantError reports an access to a variant the Geometry does not hold.
// Want lists every kind that would have been accepted; it is empty when
// any set variant would do.
type VariantError struct {
	Want []Kind
	Got  Kind
}

func (e *VariantError) Error() string {
	if len(e.Want) == 0 {
		return fmt.Sprintf("macro: want a set geometry, have %s", e.Got)
	}
	names := make([]string, len(e.Want))
	for i, k := range e.Want {
		names[i] = k.String()
	}
	return fmt.Sprintf("macro: want %s geometry, have %s", strings.Join(names, " or "), e.Got)
}

func (e *VariantError) Unwrap() error { return ErrWrongVariant }

// Header holds the blank dimensions every variant shares. Lengths in mm,
// angles in degrees.
type Header struct {
	OuterDia        float64             `json:"outer_dia"`
	InnerDia        float64             `json:"inner_dia"`
	ApexToTop       float64             `json:"apex_to_top"`
	RibDia          float64             `json:"rib_dia"`
	ApexToWeb       float64             `json:"apex_to_web"`
	MinRibThickness float64             `json:"min_rib_thickness"`
	DraftAngle      float64             `json:"draft_angle"`
	Process         ManufacturingMethod `json:"process"`
}

// Payload is the variant-specific part of a Geometry.
type Payload interface {
	payload() // marker method restricting implementations to this package
}

// GearMacro is the gear body: a thrust face and a stem behind the web.
type GearMacro struct {
	ApexToThrustFace float64 `json:"apex_to_thrust_face"`
	StemLength       float64 `json:"stem_length"`
}

func (GearMacro) payload() {}

// PinionSphericalMacro is a pinion seated on a spherical mount.
type PinionSphericalMacro struct {
	SphericalRadius  float64 `json:"spherical_radius"`
	MountingDistance float64 `json:"mounting_distance"`
	MountingPointDia float64 `json:"mounting_point_dia"`
	SphericalCutOff  float64 `json:"spherical_cut_off"`
	CutOffStep       float64 `json:"cut_off_step"`
}

func (PinionSphericalMacro) payload() {}

// PinionStemMacro is a pinion carried on a plain stem.
type PinionStemMacro struct {
	ApexToThrustFace float64 `json:"apex_to_thrust_face"`
	StemLength       float64 `json:"stem_length"`
}

func (PinionStemMacro) payload() {}

// Geometry is a Header plus exactly one payload. The variant is chosen by
// the constructor and cannot change afterwards; the zero value holds no
// variant and every accessor rejects it.
type Geometry struct {
	Header
	data Payload
}

// NewGear builds a gear-side geometry.
func NewGear(h Header, g GearMacro) Geometry {
	return Geometry{Header: h, data: g}
}

// NewSphericalPinion builds a pinion-side geometry with a spherical seat.
func NewSphericalPinion(h Header, p PinionSphericalMacro) Geometry {
	return Geometry{Header: h, data: p}
}

// NewStemPinion builds a pinion-side geometry with a stem.
func NewStemPinion(h Header, p PinionStemMacro) Geometry {
	return Geometry{Header: h, data: p}
}

// Kind returns the held variant.
func (g Geometry) Kind() Kind {
	switch g.data.(type) {
	case GearMacro:
		return KindGear
	case PinionSphericalMacro:
		return KindSphericalPinion
	case PinionStemMacro:
		return KindStemPinion
	default:
		return KindUnset
	}
}

// IsPinion reports whether the geometry belongs to the pinion side.
func (g Geometry) IsPinion() bool {
	k := g.Kind()
	return k == KindSphericalPinion || k == KindStemPinion
}

// IsSpherical reports whether a pinion geometry uses a spherical seat. ok
// is false for gear-side or unset geometries, where the question has no
// answer.
func (g Geometry) IsSpherical() (spherical, ok bool) {
	switch g.Kind() {
	case KindSphericalPinion:
		return true, true
	case KindStemPinion:
		return false, true
	default:
		return false, false
	}
}

// AsGear returns the gear payload.
func (g Geometry) AsGear() (GearMacro, error) {
	v, ok := g.data.(GearMacro)
	if !ok {
		return GearMacro{}, &VariantError{Want: []Kind{KindGear}, Got: g.Kind()}
	}
	return v, nil
}

// AsSpherical returns the spherical pinion payload.
func (g Geometry) AsSpherical() (PinionSphericalMacro, error) {
	v, ok := g.data.(PinionSphericalMacro)
	if !ok {
		return PinionSphericalMacro{}, &VariantError{Want: []Kind{KindSphericalPinion}, Got: g.Kind()}
	}
	return v, nil
}

// AsStem returns the stem pinion payload.
func (g Geometry) AsStem() (PinionStemMacro, error) {
	v, ok := g.data.(PinionStemMacro)
	if !ok {
		return PinionStemMacro{}, &VariantError{Want: []Kind{KindStemPinion}, Got: g.Kind()}
	}
	return v, nil
}

// Visitor handles each variant. Implementations must cover all of them, so
// adding a variant breaks every consumer at compile time.
type Visitor interface {
	VisitGear(h Header, g GearMacro) error
	VisitSphericalPinion(h Header, p PinionSphericalMacro) error
	VisitStemPinion(h Header, p PinionStemMacro) error
}

// Match dispatches to the visitor method for the held variant and returns
// its error. An unset geometry yields a *VariantError.
func (g Geometry) Match(v Visitor) error {
	switch d := g.data.(type) {
	case GearMacro:
		return v.VisitGear(g.Header, d)
	case PinionSphericalMacro:
		return v.VisitSphericalPinion(g.Header, d)
	case PinionStemMacro:
		return v.VisitStemPinion(g.Header, d)
	default:
		return &VariantError{Got: KindUnset}
	}
}

// MarshalJSON writes the header fields, the variant name and the payload
// under its variant key.
func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Header
		Gear      *GearMacro            `json:"gear,omitempty"`
		Spherical *PinionSphericalMacro `json:"spherical_pinion,omitempty"`
		Stem      *PinionStemMacro      `json:"stem_pinion,omitempty"`
	}{
		Kind:      g.Kind().String(),
		Header:    g.Header,
		Gear:      ptr[GearMacro](g.data),
		Spherical: ptr[PinionSphericalMacro](g.data),
		Stem:      ptr[PinionStemMacro](g.data),
	})
}

func ptr[T Payload](p Payload) *T {
	if v, ok := p.(T); ok {
		return &v
	}
	return nil
}
