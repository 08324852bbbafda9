package gear

import "math"

// DefaultConeClearance is the clearance between one member's face cone and
// the mating member's root cone, in mm.
const DefaultConeClearance = 1.5

// DefaultShaftAngle is the angle between gear and pinion axes, in degrees.
const DefaultShaftAngle = 90.0

// Spec holds the gear-pair inputs. Cone angles and offsets describe the
// gear; the pinion side is derived by Solve.
type Spec struct {
	GearTeeth         int            `json:"gear_teeth"`
	PinionTeeth       int            `json:"pinion_teeth"`
	Module            float64        `json:"module"`              // mm
	Backlash          float64        `json:"backlash"`            // angular, deg
	ConeClearance     float64        `json:"cone_clearance"`      // mm
	ShaftAngle        float64        `json:"shaft_angle"`         // deg
	FaceConeAngle     float64        `json:"face_cone_angle"`     // deg
	RootConeAngle     float64        `json:"root_cone_angle"`     // deg
	FaceConeOffset    float64        `json:"face_cone_offset"`    // mm, signed
	RootConeOffset    float64        `json:"root_cone_offset"`    // mm, signed
	InnerConeDistance float64        `json:"inner_cone_distance"` // mm
	OuterConeDistance float64        `json:"outer_cone_distance"` // mm
	PressureAngle     float64        `json:"pressure_angle"`      // deg
	SpiralAngle       float64        `json:"spiral_angle"`        // deg
	SpiralFunction    SpiralFunction `json:"spiral_function"`
}

// DefaultSpec returns the 9:11 reference pair.
func DefaultSpec() Spec {
	return Spec{
		GearTeeth:         11,
		PinionTeeth:       9,
		Module:            5.593454,
		Backlash:          0.1,
		ConeClearance:     DefaultConeClearance,
		ShaftAngle:        DefaultShaftAngle,
		FaceConeAngle:     60,
		RootConeAngle:     40,
		FaceConeOffset:    0,
		RootConeOffset:    -0.74,
		InnerConeDistance: 19.43,
		OuterConeDistance: 60,
		PressureAngle:     20,
		SpiralAngle:       0,
		SpiralFunction:    Logarithmic,
	}
}

// check rejects input the pipeline cannot run on. It does not judge the
// geometry; that is the job of the Validate* predicates.
func (s Spec) check() error {
	if s.GearTeeth <= 0 {
		return invalid("gear teeth", float64(s.GearTeeth))
	}
	if s.PinionTeeth <= 0 {
		return invalid("pinion teeth", float64(s.PinionTeeth))
	}
	if !(s.Module > 0) {
		return invalid("module", s.Module)
	}
	if !(s.ConeClearance > 0) {
		return invalid("cone clearance", s.ConeClearance)
	}
	if !(s.ShaftAngle > 0) {
		return invalid("shaft angle", s.ShaftAngle)
	}
	if !s.SpiralFunction.Valid() {
		return invalid("spiral function", float64(s.SpiralFunction))
	}

	fields := []struct {
		name string
		v    float64
	}{
		{"module", s.Module},
		{"backlash", s.Backlash},
		{"cone clearance", s.ConeClearance},
		{"shaft angle", s.ShaftAngle},
		{"face cone angle", s.FaceConeAngle},
		{"root cone angle", s.RootConeAngle},
		{"face cone offset", s.FaceConeOffset},
		{"root cone offset", s.RootConeOffset},
		{"inner cone distance", s.InnerConeDistance},
		{"outer cone distance", s.OuterConeDistance},
		{"pressure angle", s.PressureAngle},
		{"spiral angle", s.SpiralAngle},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.name, f.v)
		}
	}
	return nil
}
