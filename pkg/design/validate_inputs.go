package design

import "fmt"

// ---------------------------------------------------------------------------
// Tier 1: input checks
// ---------------------------------------------------------------------------

func errorf(m Member, format string, args ...any) ValidationError {
	return ValidationError{Member: m, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(m Member, format string, args ...any) ValidationWarning {
	return ValidationWarning{Member: m, Message: fmt.Sprintf(format, args...)}
}

func validateProject(d *Design) []ValidationError {
	if err := d.Project.Check(); err != nil {
		return []ValidationError{errorf(MemberProject, "%v", err)}
	}
	return nil
}

// validateInputs applies the gear predicates to the solved pair. Each
// failing predicate becomes one error naming the offending values.
func validateInputs(d *Design) []ValidationError {
	if d.Spec == nil {
		return []ValidationError{errorf(MemberPair, "design defines no bevel pair")}
	}

	s := d.Spec
	in := s.Input()
	var errs []ValidationError

	if !s.ValidateToothCounts() {
		errs = append(errs, errorf(MemberPair,
			"gear teeth %d must exceed pinion teeth %d, and both must be positive",
			in.GearTeeth, in.PinionTeeth))
	}
	if !s.ValidateAngles() {
		errs = append(errs, errorf(MemberGear,
			"cone angles must satisfy face %.4f > pitch %.4f > root %.4f > 0",
			in.FaceConeAngle, s.PitchConeAngle(), in.RootConeAngle))
	}
	if !s.ValidateDistances() {
		errs = append(errs, errorf(MemberPair,
			"cone distances must satisfy outer %.4f > inner %.4f > 0",
			in.OuterConeDistance, in.InnerConeDistance))
	}
	// ValidateParam also fails whenever one of the above does.
	if len(errs) == 0 && !s.ValidateParam() {
		errs = append(errs, errorf(MemberPair,
			"module %.4f, cone clearance %.4f and shaft angle %.4f are out of range",
			in.Module, in.ConeClearance, in.ShaftAngle))
	}

	return errs
}
