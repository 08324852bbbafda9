package macro

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() Header {
	return Header{
		OuterDia:        110,
		InnerDia:        20,
		ApexToTop:       45,
		RibDia:          60,
		ApexToWeb:       30,
		MinRibThickness: 3,
		DraftAngle:      1.5,
		Process:         InjectionMoulding,
	}
}

// ---------------------------------------------------------------------------
// Discriminant
// ---------------------------------------------------------------------------

func TestDiscriminantFollowsConstructor(t *testing.T) {
	tests := []struct {
		name         string
		geom         Geometry
		kind         Kind
		pinion       bool
		spherical    bool
		sphericalSet bool
	}{
		{"gear", NewGear(testHeader(), GearMacro{ApexToThrustFace: 50, StemLength: 12}), KindGear, false, false, false},
		{"spherical", NewSphericalPinion(testHeader(), PinionSphericalMacro{SphericalRadius: 20}), KindSphericalPinion, true, true, true},
		{"stem", NewStemPinion(testHeader(), PinionStemMacro{ApexToThrustFace: 40, StemLength: 10}), KindStemPinion, true, false, true},
		{"zero", Geometry{}, KindUnset, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.geom.Kind())
			assert.Equal(t, tt.pinion, tt.geom.IsPinion())
			sph, ok := tt.geom.IsSpherical()
			assert.Equal(t, tt.spherical, sph)
			assert.Equal(t, tt.sphericalSet, ok)
		})
	}
}

func TestHeaderSharedAcrossVariants(t *testing.T) {
	h := testHeader()
	for _, g := range []Geometry{
		NewGear(h, GearMacro{}),
		NewSphericalPinion(h, PinionSphericalMacro{}),
		NewStemPinion(h, PinionStemMacro{}),
	} {
		assert.Equal(t, h, g.Header)
		assert.Equal(t, 110.0, g.OuterDia)
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func TestAccessorsReturnPayload(t *testing.T) {
	gm := GearMacro{ApexToThrustFace: 50, StemLength: 12}
	got, err := NewGear(testHeader(), gm).AsGear()
	require.NoError(t, err)
	assert.Equal(t, gm, got)

	sm := PinionSphericalMacro{SphericalRadius: 20, MountingDistance: 55, MountingPointDia: 8, SphericalCutOff: 30, CutOffStep: 2}
	gotS, err := NewSphericalPinion(testHeader(), sm).AsSpherical()
	require.NoError(t, err)
	assert.Equal(t, sm, gotS)

	st := PinionStemMacro{ApexToThrustFace: 40, StemLength: 10}
	gotT, err := NewStemPinion(testHeader(), st).AsStem()
	require.NoError(t, err)
	assert.Equal(t, st, gotT)
}

func TestWrongVariantAccess(t *testing.T) {
	gearGeom := NewGear(testHeader(), GearMacro{})
	stemGeom := NewStemPinion(testHeader(), PinionStemMacro{})

	_, err := gearGeom.AsSpherical()
	assert.ErrorIs(t, err, ErrWrongVariant)

	_, err = gearGeom.AsStem()
	assert.ErrorIs(t, err, ErrWrongVariant)

	_, err = stemGeom.AsGear()
	assert.ErrorIs(t, err, ErrWrongVariant)

	_, err = stemGeom.AsSpherical()
	var ve *VariantError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []Kind{KindSphericalPinion}, ve.Want)
	assert.Equal(t, KindStemPinion, ve.Got)

	_, err = Geometry{}.AsGear()
	assert.ErrorIs(t, err, ErrWrongVariant)
}

// ---------------------------------------------------------------------------
// Match
// ---------------------------------------------------------------------------

type recorder struct {
	seen []string
	err  error
}

func (r *recorder) VisitGear(h Header, g GearMacro) error {
	r.seen = append(r.seen, "gear")
	return r.err
}

func (r *recorder) VisitSphericalPinion(h Header, p PinionSphericalMacro) error {
	r.seen = append(r.seen, "spherical")
	return r.err
}

func (r *recorder) VisitStemPinion(h Header, p PinionStemMacro) error {
	r.seen = append(r.seen, "stem")
	return r.err
}

func TestMatchDispatchesOnce(t *testing.T) {
	r := &recorder{}
	require.NoError(t, NewGear(testHeader(), GearMacro{}).Match(r))
	require.NoError(t, NewSphericalPinion(testHeader(), PinionSphericalMacro{}).Match(r))
	require.NoError(t, NewStemPinion(testHeader(), PinionStemMacro{}).Match(r))
	assert.Equal(t, []string{"gear", "spherical", "stem"}, r.seen)
}

func TestMatchPropagatesVisitorError(t *testing.T) {
	boom := errors.New("boom")
	err := NewGear(testHeader(), GearMacro{}).Match(&recorder{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestMatchUnsetGeometry(t *testing.T) {
	r := &recorder{}
	err := Geometry{}.Match(r)
	assert.ErrorIs(t, err, ErrWrongVariant)
	assert.Empty(t, r.seen)
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

func TestGeometryJSON(t *testing.T) {
	data, err := json.Marshal(NewStemPinion(testHeader(), PinionStemMacro{ApexToThrustFace: 40, StemLength: 10}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "stem-pinion", got["kind"])
	assert.Equal(t, 110.0, got["outer_dia"])
	assert.Contains(t, got, "stem_pinion")
	assert.NotContains(t, got, "gear")
	assert.NotContains(t, got, "spherical_pinion")
}
