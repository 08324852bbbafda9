package design

import "fmt"

// ValidationSeverity indicates whether a finding blocks export or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// Member names the part of a design a finding is about.
type Member string

const (
	MemberProject Member = "project"
	MemberPair    Member = "pair"
	MemberGear    Member = "gear"
	MemberPinion  Member = "pinion"
)

// ValidationError describes a single validation finding.
type ValidationError struct {
	Member   Member             // which part has the problem
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Member, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Member  Member
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("[warning] %s: %s", w.Member, w.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking error was found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the Tier 1 input checks and returns their findings. An
// empty slice means the parameters are consistent. It never mutates d.
func Validate(d *Design) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateProject(d)...)
	errs = append(errs, validateInputs(d)...)
	return errs
}

// ValidateAll runs all validation tiers (inputs, geometry, manufacturing)
// and returns a ValidationResult with separated errors and warnings.
func ValidateAll(d *Design) ValidationResult {
	tier2Errs, tier2Warnings := validateGeometry(d)
	tier3Errs, tier3Warnings := validateMacro(d)

	// Input findings always block export.
	var result ValidationResult
	result.Errors = append(result.Errors, Validate(d)...)
	result.Errors = append(result.Errors, tier2Errs...)
	result.Errors = append(result.Errors, tier3Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)
	result.Warnings = append(result.Warnings, tier3Warnings...)

	return result
}
