package gear

import "math"

// SingularityEpsilon is the smallest denominator magnitude the solver
// accepts before reporting ErrGeometricSingularity.
const SingularityEpsilon = 1e-9

// Radians converts degrees to radians. Every trigonometric call in the
// solver goes through this function.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// stage evaluates the formulas of one pipeline stage and records the first
// singularity it meets. Once err is set every helper returns 0, so a stage
// can be written as straight-line arithmetic and checked once at the end.
type stage struct {
	name string
	err  error
}

func (st *stage) fail(field string, value float64) {
	if st.err == nil {
		st.err = &SolveError{Stage: st.name, Field: field, Value: value, Err: ErrGeometricSingularity}
	}
}

// div returns num/den, failing when |den| < SingularityEpsilon.
func (st *stage) div(field string, num, den float64) float64 {
	if st.err != nil {
		return 0
	}
	if math.Abs(den) < SingularityEpsilon || math.IsNaN(den) {
		st.fail(field, den)
		return 0
	}
	return num / den
}

func (st *stage) sin(deg float64) float64 { return math.Sin(Radians(deg)) }

func (st *stage) cos(deg float64) float64 { return math.Cos(Radians(deg)) }

// tan returns tan(deg), failing at odd multiples of 90°.
func (st *stage) tan(field string, deg float64) float64 {
	r := Radians(deg)
	return st.div(field, math.Sin(r), math.Cos(r))
}

// finite fails the stage when v is NaN or infinite.
func (st *stage) finite(field string, v float64) float64 {
	if st.err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		st.fail(field, v)
	}
	return v
}
