package gear

import "math"

// Instance is an immutable snapshot of one member of a solved pair.
// Lengths are in mm and angles in degrees.
type Instance struct {
	NumTeeth          int            `json:"num_teeth"`
	PitchConeAngle    float64        `json:"pitch_cone_angle"`
	FaceConeAngle     float64        `json:"face_cone_angle"`
	RootConeAngle     float64        `json:"root_cone_angle"`
	Module            float64        `json:"module"`
	FaceConeOffset    float64        `json:"face_cone_offset"`
	RootConeOffset    float64        `json:"root_cone_offset"`
	InnerConeDistance float64        `json:"inner_cone_distance"`
	OuterConeDistance float64        `json:"outer_cone_distance"`
	PitchConeDistance float64        `json:"pitch_cone_distance"`
	Addendum          float64        `json:"addendum"`
	Dedendum          float64        `json:"dedendum"`
	Backlash          float64        `json:"backlash"`
	ShaftAngle        float64        `json:"shaft_angle"`
	PressureAngle     float64        `json:"pressure_angle"`
	SpiralAngle       float64        `json:"spiral_angle"`
	SpiralFunction    SpiralFunction `json:"spiral_function"`
}

// MakeGear returns the gear-side instance of the pair.
func (s *SolvedSpec) MakeGear() Instance {
	return Instance{
		NumTeeth:          s.in.GearTeeth,
		PitchConeAngle:    s.pitch.gear,
		FaceConeAngle:     s.in.FaceConeAngle,
		RootConeAngle:     s.in.RootConeAngle,
		Module:            s.in.Module,
		FaceConeOffset:    s.in.FaceConeOffset,
		RootConeOffset:    s.in.RootConeOffset,
		InnerConeDistance: s.in.InnerConeDistance,
		OuterConeDistance: s.in.OuterConeDistance,
		PitchConeDistance: s.heights.pitchConeDistance,
		Addendum:          s.heights.addendum,
		Dedendum:          s.heights.dedendum,
		Backlash:          s.in.Backlash,
		ShaftAngle:        s.in.ShaftAngle,
		PressureAngle:     s.in.PressureAngle,
		SpiralAngle:       s.in.SpiralAngle,
		SpiralFunction:    s.in.SpiralFunction,
	}
}

// MakePinion returns the pinion-side instance of the pair. Module, backlash,
// cone distances and the shaft, pressure and spiral parameters are shared
// with the gear.
func (s *SolvedSpec) MakePinion() Instance {
	return Instance{
		NumTeeth:          s.in.PinionTeeth,
		PitchConeAngle:    s.pitch.pinion,
		FaceConeAngle:     s.heights.pinionFaceConeAngle,
		RootConeAngle:     s.heights.pinionRootConeAngle,
		Module:            s.in.Module,
		FaceConeOffset:    s.offsets.face,
		RootConeOffset:    s.offsets.root,
		InnerConeDistance: s.in.InnerConeDistance,
		OuterConeDistance: s.in.OuterConeDistance,
		PitchConeDistance: s.heights.pitchConeDistance,
		Addendum:          s.heights.pinionAddendum,
		Dedendum:          s.heights.pinionDedendum,
		Backlash:          s.in.Backlash,
		ShaftAngle:        s.in.ShaftAngle,
		PressureAngle:     s.in.PressureAngle,
		SpiralAngle:       s.in.SpiralAngle,
		SpiralFunction:    s.in.SpiralFunction,
	}
}

// OuterTipDiameter is the diameter of the face cone at the outer cone
// distance, the smallest blank diameter the teeth can be cut from.
func (i Instance) OuterTipDiameter() float64 {
	pitch := Radians(i.PitchConeAngle)
	h := i.Addendum + (i.OuterConeDistance-i.PitchConeDistance)*math.Tan(Radians(i.FaceConeAngle-i.PitchConeAngle))
	return 2 * (i.OuterConeDistance*math.Sin(pitch) + h*math.Cos(pitch))
}
