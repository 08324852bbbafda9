package gear

// The Validate* predicates report whether the input geometry is sane.
// They never fail and never run implicitly: a spec may be solved and still
// fail validation, and a valid spec may still sit near a singularity.

// ValidateToothCounts reports whether the gear has more teeth than a
// non-empty pinion.
func ValidateToothCounts(gearTeeth, pinionTeeth int) bool {
	return gearTeeth > pinionTeeth && pinionTeeth > 0
}

// ValidateToothCounts reports whether the gear has more teeth than the pinion.
func (s *SolvedSpec) ValidateToothCounts() bool {
	return ValidateToothCounts(s.in.GearTeeth, s.in.PinionTeeth)
}

// ValidateAngles reports whether face, pitch and root cone angles are
// strictly decreasing and positive.
func (s *SolvedSpec) ValidateAngles() bool {
	return s.in.FaceConeAngle > s.pitch.gear &&
		s.pitch.gear > s.in.RootConeAngle &&
		s.in.RootConeAngle > 0
}

// ValidateDistances reports whether outer > inner > 0.
func (s *SolvedSpec) ValidateDistances() bool {
	return s.in.OuterConeDistance > s.in.InnerConeDistance && s.in.InnerConeDistance > 0
}

// ValidateParam is the conjunction of the other predicates plus the
// scalar bounds on module, clearance and shaft angle.
func (s *SolvedSpec) ValidateParam() bool {
	return s.ValidateToothCounts() &&
		s.ValidateAngles() &&
		s.ValidateDistances() &&
		s.in.Module >= 0 &&
		s.in.ConeClearance > 0 &&
		s.in.ShaftAngle > 0
}
