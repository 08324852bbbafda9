package gear

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cadTol = 0.01

// ---------------------------------------------------------------------------
// Reference pairs measured from CAD sketches
// ---------------------------------------------------------------------------

type cadReference struct {
	pitchConeAngle       float64
	addendum             float64
	dedendum             float64
	pinionPitchConeAngle float64
	pinionFaceConeOffset float64
	pinionRootConeOffset float64
	pinionAddendum       float64
	pinionDedendum       float64
}

func ratio9to11() Spec {
	return Spec{
		GearTeeth:         11,
		PinionTeeth:       9,
		Module:            5.593454,
		Backlash:          0.1,
		ConeClearance:     1.5,
		ShaftAngle:        90,
		FaceConeAngle:     60,
		RootConeAngle:     40,
		FaceConeOffset:    0,
		RootConeOffset:    -0.74,
		InnerConeDistance: 19.43,
		OuterConeDistance: 60,
		PressureAngle:     20,
	}
}

func ratio9to14() Spec {
	return Spec{
		GearTeeth:         14,
		PinionTeeth:       9,
		Module:            4.77651,
		Backlash:          0.1,
		ConeClearance:     1.5,
		ShaftAngle:        90,
		FaceConeAngle:     65,
		RootConeAngle:     45,
		FaceConeOffset:    1.2,
		RootConeOffset:    0,
		InnerConeDistance: 24.0405,
		OuterConeDistance: 60,
		PressureAngle:     20,
	}
}

func TestSolveReferencePairs(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want cadReference
	}{
		{
			name: "9-11 ratio",
			spec: ratio9to11(),
			want: cadReference{
				pitchConeAngle:       50.7106,
				addendum:             6.5016,
				dedendum:             8.00199,
				pinionPitchConeAngle: 90 - 50.7106,
				pinionFaceConeOffset: -1.33718,
				pinionRootConeOffset: -3.0,
				pinionAddendum:       6.4754,
				pinionDedendum:       8.02201,
			},
		},
		{
			name: "9-14 ratio",
			spec: ratio9to14(),
			want: cadReference{
				pitchConeAngle:       57.265,
				addendum:             6.49665,
				dedendum:             8.640975,
				pinionPitchConeAngle: 32.73523,
				pinionFaceConeOffset: -2.12132,
				pinionRootConeOffset: -6.12272,
				pinionAddendum:       7.10594,
				pinionDedendum:       8.01044,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Solve(tt.spec)
			require.NoError(t, err)

			gear := s.MakeGear()
			pinion := s.MakePinion()

			assert.InDelta(t, tt.want.pitchConeAngle, gear.PitchConeAngle, cadTol, "gear pitch cone angle")
			assert.InDelta(t, tt.want.addendum, gear.Addendum, cadTol, "gear addendum")
			assert.InDelta(t, tt.want.dedendum, gear.Dedendum, cadTol, "gear dedendum")

			assert.InDelta(t, tt.want.pinionPitchConeAngle, pinion.PitchConeAngle, cadTol, "pinion pitch cone angle")
			assert.InDelta(t, tt.want.pinionFaceConeOffset, pinion.FaceConeOffset, cadTol, "pinion face cone offset")
			assert.InDelta(t, tt.want.pinionRootConeOffset, pinion.RootConeOffset, cadTol, "pinion root cone offset")
			assert.InDelta(t, tt.want.pinionAddendum, pinion.Addendum, cadTol, "pinion addendum")
			assert.InDelta(t, tt.want.pinionDedendum, pinion.Dedendum, cadTol, "pinion dedendum")
		})
	}
}

func TestSolveIntermediateValues(t *testing.T) {
	s := MustSolve(ratio9to11())

	assert.InDelta(t, 61.527994, s.GearPitch(), 1e-6)
	assert.InDelta(t, 50.341086, s.PinionPitch(), 1e-6)
	assert.InDelta(t, 39.74896, s.PitchConeDistance(), 1e-4)
	assert.InDelta(t, 50.0, s.PinionFaceConeAngle(), 1e-12)
	assert.InDelta(t, 30.0, s.PinionRootConeAngle(), 1e-12)
}

// ---------------------------------------------------------------------------
// Invariants over a family of pairs
// ---------------------------------------------------------------------------

func TestSolveInvariants(t *testing.T) {
	teeth := [][2]int{{11, 9}, {14, 9}, {20, 10}, {41, 13}, {60, 59}}
	shafts := []float64{60, 75, 90, 105, 120}

	for _, tc := range teeth {
		for _, shaft := range shafts {
			spec := ratio9to11()
			spec.GearTeeth, spec.PinionTeeth = tc[0], tc[1]
			spec.ShaftAngle = shaft

			// Pitch cone angle does not depend on face/root angles, so
			// derive it first to place them either side of it.
			pc, err := solvePitchCone(spec)
			require.NoError(t, err, "teeth %v shaft %v", tc, shaft)
			pa := pc.gear
			spec.FaceConeAngle = pa + 8
			spec.RootConeAngle = pa - 10

			s, err := Solve(spec)
			require.NoError(t, err, "teeth %v shaft %v", tc, shaft)

			assert.InDelta(t, pa, s.PitchConeAngle(), 1e-12)
			assert.InDelta(t, shaft, s.PitchConeAngle()+s.PinionPitchConeAngle(), 1e-6)
			assert.InDelta(t, shaft, s.PinionFaceConeAngle()+spec.RootConeAngle, 1e-6)
			assert.InDelta(t, shaft, s.PinionRootConeAngle()+spec.FaceConeAngle, 1e-6)

			faceGap, rootGap := s.Clearance()
			assert.InDelta(t, spec.ConeClearance, faceGap, 1e-9)
			assert.InDelta(t, spec.ConeClearance, rootGap, 1e-9)

			assert.True(t, s.ValidateParam(), "teeth %v shaft %v", tc, shaft)
		}
	}
}

func TestSolveSteepShaftNeedsSteeperFace(t *testing.T) {
	// At a 60 degree shaft the default face cone angle leaves the pinion
	// no root cone at all.
	spec := ratio9to11()
	spec.ShaftAngle = 60
	_, err := Solve(spec)
	require.ErrorIs(t, err, ErrGeometricSingularity)

	pa := Degrees(math.Atan(math.Sin(Radians(60)) / (9.0 / 11.0)))
	spec.FaceConeAngle = pa + 8
	spec.RootConeAngle = pa - 10
	s, err := Solve(spec)
	require.NoError(t, err)
	assert.InDelta(t, pa, s.PitchConeAngle(), 1e-9)
	assert.Greater(t, s.PinionRootConeAngle(), 0.0)
}

func TestSolveIsDeterministic(t *testing.T) {
	a := MustSolve(ratio9to14())
	b := MustSolve(ratio9to14())

	assert.Equal(t, a, b)
	assert.True(t, a.MakeGear() == b.MakeGear())
	assert.True(t, a.MakePinion() == b.MakePinion())
}

func TestSolveRetainsInput(t *testing.T) {
	in := ratio9to11()
	s := MustSolve(in)

	in.Module = 99
	assert.Equal(t, 5.593454, s.Input().Module, "solved spec must not alias caller input")
}

// ---------------------------------------------------------------------------
// Failure modes
// ---------------------------------------------------------------------------

func TestSolveRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		field  string
	}{
		{"zero gear teeth", func(s *Spec) { s.GearTeeth = 0 }, "gear teeth"},
		{"negative pinion teeth", func(s *Spec) { s.PinionTeeth = -1 }, "pinion teeth"},
		{"zero module", func(s *Spec) { s.Module = 0 }, "module"},
		{"NaN module", func(s *Spec) { s.Module = math.NaN() }, "module"},
		{"zero clearance", func(s *Spec) { s.ConeClearance = 0 }, "cone clearance"},
		{"negative shaft angle", func(s *Spec) { s.ShaftAngle = -90 }, "shaft angle"},
		{"unknown spiral function", func(s *Spec) { s.SpiralFunction = SpiralFunction(7) }, "spiral function"},
		{"infinite offset", func(s *Spec) { s.FaceConeOffset = math.Inf(1) }, "face cone offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ratio9to11()
			tt.mutate(&spec)

			s, err := Solve(spec)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			assert.False(t, errors.Is(err, ErrGeometricSingularity))

			var se *SolveError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, StageInput, se.Stage)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestSolveReportsSingularities(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		stage  string
	}{
		{
			name:   "straight shaft",
			mutate: func(s *Spec) { s.ShaftAngle = 180 },
			stage:  StageToothHeights,
		},
		{
			name: "face cone perpendicular to pitch cone",
			mutate: func(s *Spec) {
				s.FaceConeAngle = MustSolve(*s).PitchConeAngle() + 90
			},
			stage: StageToothHeights,
		},
		{
			name:   "pinion root cone collapses onto its axis",
			mutate: func(s *Spec) { s.FaceConeAngle = 90 },
			stage:  StagePinionOffsets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ratio9to11()
			tt.mutate(&spec)

			s, err := Solve(spec)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrGeometricSingularity), "got %v", err)

			var se *SolveError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.stage, se.Stage)
		})
	}
}

func TestMustSolvePanicsOnInvalidInput(t *testing.T) {
	spec := ratio9to11()
	spec.GearTeeth = 0
	assert.Panics(t, func() { MustSolve(spec) })
}

func TestDegreesRadiansRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 1, 45, 90, 180, 270, -30} {
		assert.InDelta(t, deg, Degrees(Radians(deg)), 1e-12)
	}
	assert.InDelta(t, math.Pi/2, Radians(90), 1e-15)
}
