package design

import (
	"math"

	"github.com/chazu/bevel/pkg/gear"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// ClearanceTolerance is how far, in mm, a measured cone gap may stray
// from the configured cone clearance.
const ClearanceTolerance = 1e-6

// minVirtualTeeth is the undercut limit for a spur gear with the given
// pressure angle, 2/sin²α.
func minVirtualTeeth(pressureAngle float64) float64 {
	s := math.Sin(gear.Radians(pressureAngle))
	return 2 / (s * s)
}

// validateGeometry runs all Tier 2 checks on the solved pair.
func validateGeometry(d *Design) ([]ValidationError, []ValidationWarning) {
	if d.Spec == nil {
		return nil, nil
	}

	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateClearance(d.Spec)...)
	errs = append(errs, validatePinionCones(d.Spec)...)
	warnings = append(warnings, validatePitchBand(d.Spec)...)
	warnings = append(warnings, validateUndercut(d.Spec)...)

	return errs, warnings
}

// validateClearance checks that both flank gaps equal the cone clearance.
func validateClearance(s *gear.SolvedSpec) []ValidationError {
	c := s.Input().ConeClearance
	faceGap, rootGap := s.Clearance()

	var errs []ValidationError
	if math.Abs(faceGap-c) > ClearanceTolerance {
		errs = append(errs, errorf(MemberPair,
			"gear face to pinion root gap is %.6f, want cone clearance %.6f", faceGap, c))
	}
	if math.Abs(rootGap-c) > ClearanceTolerance {
		errs = append(errs, errorf(MemberPair,
			"pinion face to gear root gap is %.6f, want cone clearance %.6f", rootGap, c))
	}
	return errs
}

// validatePinionCones checks the pinion cone angles derived from the gear
// ones. A face cone angle at or beyond the shaft angle leaves the pinion
// without a root cone.
func validatePinionCones(s *gear.SolvedSpec) []ValidationError {
	var errs []ValidationError
	if s.PinionRootConeAngle() <= 0 {
		errs = append(errs, errorf(MemberPinion,
			"root cone angle %.4f must be positive", s.PinionRootConeAngle()))
	}
	if !(s.PinionFaceConeAngle() > s.PinionPitchConeAngle() && s.PinionPitchConeAngle() > s.PinionRootConeAngle()) {
		errs = append(errs, errorf(MemberPinion,
			"cone angles must satisfy face %.4f > pitch %.4f > root %.4f",
			s.PinionFaceConeAngle(), s.PinionPitchConeAngle(), s.PinionRootConeAngle()))
	}
	return errs
}

// validatePitchBand warns when the pitch cone distance is outside the
// toothed band between inner and outer cone distance.
func validatePitchBand(s *gear.SolvedSpec) []ValidationWarning {
	in := s.Input()
	r := s.PitchConeDistance()
	if r > in.InnerConeDistance && r < in.OuterConeDistance {
		return nil
	}
	return []ValidationWarning{warnf(MemberPair,
		"pitch cone distance %.4f lies outside the toothed band %.4f..%.4f",
		r, in.InnerConeDistance, in.OuterConeDistance)}
}

// validateUndercut warns when the virtual tooth count of a member is below
// the undercut limit for its pressure angle.
func validateUndercut(s *gear.SolvedSpec) []ValidationWarning {
	in := s.Input()
	limit := minVirtualTeeth(in.PressureAngle)

	var warnings []ValidationWarning
	for _, m := range []struct {
		member Member
		teeth  int
		pitch  float64
	}{
		{MemberGear, in.GearTeeth, s.PitchConeAngle()},
		{MemberPinion, in.PinionTeeth, s.PinionPitchConeAngle()},
	} {
		cos := math.Cos(gear.Radians(m.pitch))
		if cos <= 0 {
			continue
		}
		if zv := float64(m.teeth) / cos; zv < limit {
			warnings = append(warnings, warnf(m.member,
				"virtual tooth count %.1f is below %.1f; teeth may undercut unless the profile is shifted",
				zv, limit))
		}
	}
	return warnings
}
