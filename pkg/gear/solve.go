package gear

import "math"

// SolvedSpec is a Spec together with every quantity derived from it.
// It is produced only by Solve and never mutated afterwards.
type SolvedSpec struct {
	in Spec

	pitch   pitchCone
	heights toothHeights
	offsets pinionOffsets
}

// pitchCone is the output of the first stage.
type pitchCone struct {
	gear   float64 // pitch cone angle, deg
	pinion float64 // pinion pitch cone angle, deg
}

// toothHeights is the output of the second stage.
type toothHeights struct {
	gearPitch           float64
	pinionPitch         float64
	pitchConeDistance   float64
	addendum            float64
	dedendum            float64
	pinionFaceConeAngle float64
	pinionRootConeAngle float64
	pinionAddendum      float64
	pinionDedendum      float64
}

// pinionOffsets is the output of the third stage.
type pinionOffsets struct {
	face float64
	root float64
}

// Solve derives the pinion geometry from the gear-side inputs. Each stage
// takes the previous stage's output as its argument, so no derived value
// can be read before it is produced. The returned SolvedSpec is a new
// value; in is not retained by reference.
//
// Solve fails with ErrInvalidInput before any formula runs, or with
// ErrGeometricSingularity when a denominator vanishes.
func Solve(in Spec) (*SolvedSpec, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	pc, err := solvePitchCone(in)
	if err != nil {
		return nil, err
	}
	th, err := deriveToothHeights(in, pc)
	if err != nil {
		return nil, err
	}
	po, err := derivePinionOffsets(pc, th)
	if err != nil {
		return nil, err
	}

	return &SolvedSpec{in: in, pitch: pc, heights: th, offsets: po}, nil
}

// MustSolve is like Solve but panics on error. Intended for tests and
// package-level fixtures.
func MustSolve(in Spec) *SolvedSpec {
	s, err := Solve(in)
	if err != nil {
		panic(err)
	}
	return s
}

// solvePitchCone splits the shaft angle between gear and pinion according
// to the tooth ratio.
func solvePitchCone(in Spec) (pitchCone, error) {
	st := &stage{name: StagePitchCone}
	ratio := float64(in.PinionTeeth) / float64(in.GearTeeth)

	pa := Degrees(math.Atan(st.sin(in.ShaftAngle) / ratio))
	pa = st.finite("pitch cone angle", pa)

	return pitchCone{gear: pa, pinion: in.ShaftAngle - pa}, st.err
}

// deriveToothHeights computes the gear addendum and dedendum from the cone
// offsets, then the pinion cone angles and tooth heights that keep the cone
// clearance on both flanks.
func deriveToothHeights(in Spec, pc pitchCone) (toothHeights, error) {
	st := &stage{name: StageToothHeights}
	var th toothHeights

	th.gearPitch = in.Module * float64(in.GearTeeth)
	th.pinionPitch = in.Module * float64(in.PinionTeeth)
	th.pitchConeDistance = st.div("sin(pitch cone angle)", th.gearPitch, 2*st.sin(pc.gear))

	faceDiff := in.FaceConeAngle - pc.gear
	th.addendum = in.FaceConeOffset*st.div("cos(face - pitch)", st.sin(in.FaceConeAngle), st.cos(faceDiff)) +
		th.pitchConeDistance*st.tan("tan(face - pitch)", faceDiff)

	rootDiff := pc.gear - in.RootConeAngle
	th.dedendum = -in.RootConeOffset*st.div("cos(pitch - root)", st.sin(in.RootConeAngle), st.cos(rootDiff)) +
		th.pitchConeDistance*st.tan("tan(pitch - root)", rootDiff)

	th.pinionRootConeAngle = in.ShaftAngle - in.FaceConeAngle
	th.pinionFaceConeAngle = in.ShaftAngle - in.RootConeAngle

	th.pinionAddendum = th.dedendum -
		st.div("cos(pinion face - pinion pitch)", in.ConeClearance, st.cos(th.pinionFaceConeAngle-pc.pinion))
	th.pinionDedendum = th.addendum +
		st.div("cos(pinion pitch - pinion root)", in.ConeClearance, st.cos(pc.pinion-th.pinionRootConeAngle))

	st.finite("addendum", th.addendum)
	st.finite("dedendum", th.dedendum)
	st.finite("pinion addendum", th.pinionAddendum)
	st.finite("pinion dedendum", th.pinionDedendum)
	return th, st.err
}

// derivePinionOffsets converts the pinion tooth heights back into face and
// root cone offsets along the pinion axis.
func derivePinionOffsets(pc pitchCone, th toothHeights) (pinionOffsets, error) {
	st := &stage{name: StagePinionOffsets}

	faceDiff := th.pinionFaceConeAngle - pc.pinion
	face := (th.pinionAddendum - th.pitchConeDistance*st.tan("tan(pinion face - pinion pitch)", faceDiff)) *
		st.div("sin(pinion face cone angle)", st.cos(faceDiff), st.sin(th.pinionFaceConeAngle))

	rootDiff := pc.pinion - th.pinionRootConeAngle
	root := (-th.pinionDedendum + th.pitchConeDistance*st.tan("tan(pinion pitch - pinion root)", rootDiff)) *
		st.div("sin(pinion root cone angle)", st.cos(rootDiff), st.sin(th.pinionRootConeAngle))

	st.finite("pinion face cone offset", face)
	st.finite("pinion root cone offset", root)
	return pinionOffsets{face: face, root: root}, st.err
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Input returns a copy of the inputs the spec was solved from.
func (s *SolvedSpec) Input() Spec { return s.in }

func (s *SolvedSpec) PitchConeAngle() float64 { return s.pitch.gear }
func (s *SolvedSpec) PinionPitchConeAngle() float64 { return s.pitch.pinion }
func (s *SolvedSpec) GearPitch() float64 { return s.heights.gearPitch }
func (s *SolvedSpec) PinionPitch() float64 { return s.heights.pinionPitch }
func (s *SolvedSpec) PitchConeDistance() float64 { return s.heights.pitchConeDistance }
func (s *SolvedSpec) Addendum() float64 { return s.heights.addendum }
func (s *SolvedSpec) Dedendum() float64 { return s.heights.dedendum }
func (s *SolvedSpec) PinionFaceConeAngle() float64 { return s.heights.pinionFaceConeAngle }
func (s *SolvedSpec) PinionRootConeAngle() float64 { return s.heights.pinionRootConeAngle }
func (s *SolvedSpec) PinionAddendum() float64 { return s.heights.pinionAddendum }
func (s *SolvedSpec) PinionDedendum() float64 { return s.heights.pinionDedendum }
func (s *SolvedSpec) PinionFaceConeOffset() float64 { return s.offsets.face }
func (s *SolvedSpec) PinionRootConeOffset() float64 { return s.offsets.root }

// Clearance returns the perpendicular gap between the gear face cone and
// the pinion root cone, and between the pinion face cone and the gear root
// cone. Both equal the input cone clearance for a consistent solution.
func (s *SolvedSpec) Clearance() (gearFaceToPinionRoot, pinionFaceToGearRoot float64) {
	faceDiff := Radians(s.in.FaceConeAngle - s.pitch.gear)
	rootDiff := Radians(s.pitch.gear - s.in.RootConeAngle)
	gearFaceToPinionRoot = (s.heights.pinionDedendum - s.heights.addendum) * math.Cos(faceDiff)
	pinionFaceToGearRoot = (s.heights.dedendum - s.heights.pinionAddendum) * math.Cos(rootDiff)
	return gearFaceToPinionRoot, pinionFaceToGearRoot
}
