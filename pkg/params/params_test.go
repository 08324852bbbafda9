package params

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
)

func reference(t *testing.T) *gear.SolvedSpec {
	t.Helper()
	spec := gear.DefaultSpec()
	spec.SpiralAngle = 35
	spec.SpiralFunction = gear.Involute
	s, err := gear.Solve(spec)
	require.NoError(t, err)
	return s
}

var demo = design.Project{Name: "demo", RootDir: "/work/demo"}

func TestEncodeWritesAllTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, demo, reference(t)))
	out := buf.String()

	for _, want := range []string{
		"[[project]]", "[[gear]]", "[[pinion]]",
		"projectName", "demo", "coneClearance", "spiralType = 2",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "[[gear]]"), strings.Index(out, "[[pinion]]"))
}

func TestImportReproducesPair(t *testing.T) {
	s := reference(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, demo, s))

	f, err := Decode(&buf)
	require.NoError(t, err)

	p, err := f.ProjectInfo()
	require.NoError(t, err)
	assert.Equal(t, demo, p)

	again, err := f.Solve()
	require.NoError(t, err)
	assert.Equal(t, s.Input(), again.Input())
	assert.Equal(t, s.MakeGear(), again.MakeGear())
	assert.Equal(t, s.MakePinion(), again.MakePinion())
}

func TestPinionTableCarriesPinionValues(t *testing.T) {
	s := reference(t)
	f := NewFile(demo, s)
	require.Len(t, f.Pinion, 1)
	assert.Equal(t, 9, f.Pinion[0].NumTeeth)
	assert.Equal(t, s.PinionFaceConeAngle(), f.Pinion[0].FaceConeAngle)
	assert.Equal(t, s.PinionRootConeOffset(), f.Pinion[0].RootConeOffset)
}

// legacyFile is laid out the way the original desktop tool exported it:
// whole numbers without a decimal point and no coneClearance key.
const legacyFile = `[[project]]
projectName = "legacy"
rootDir = "/old/place"

[[gear]]
numTeeth = 11
module = 5.593454
backlash = 0.1
shaftAngle = 90
faceConeAngle = 60
rootConeAngle = 40
faceConeOffset = 0
rootConeOffset = -0.74
innerConeDistance = 19.43
outerConeDistance = 60
pressureAngle = 20
spiralAngle = 0
spiralType = 0

[[pinion]]
numTeeth = 9
module = 5.593454
backlash = 0.1
shaftAngle = 90
faceConeAngle = 50
rootConeAngle = 30
faceConeOffset = -1.33718
rootConeOffset = -3
innerConeDistance = 19.43
outerConeDistance = 60
pressureAngle = 20
spiralAngle = 0
spiralType = 0
`

func TestDecodeLegacyFile(t *testing.T) {
	f, err := Decode(strings.NewReader(legacyFile))
	require.NoError(t, err)

	spec, err := f.Spec()
	require.NoError(t, err)
	assert.Equal(t, gear.DefaultConeClearance, spec.ConeClearance)
	assert.Equal(t, gear.DefaultSpec(), spec)

	s, err := f.Solve()
	require.NoError(t, err)
	assert.InDelta(t, 50.7106, s.PitchConeAngle(), 0.01)
}

func TestMissingSections(t *testing.T) {
	f, err := Decode(strings.NewReader("[[gear]]\nnumTeeth = 11\n"))
	require.NoError(t, err)
	_, err = f.Spec()
	assert.ErrorIs(t, err, ErrMissingSection)
	_, err = f.ProjectInfo()
	assert.ErrorIs(t, err, ErrMissingSection)

	f, err = Decode(strings.NewReader("[[pinion]]\nnumTeeth = 9\n"))
	require.NoError(t, err)
	_, err = f.Spec()
	assert.ErrorIs(t, err, ErrMissingSection)
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"malformed":       "[[gear]\n",
		"string number":   "[[gear]]\nmodule = \"five\"\n",
		"fractional int":  "[[gear]]\nnumTeeth = 10.5\n",
		"non-string name": "[[project]]\nprojectName = 3\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestUnknownSpiralType(t *testing.T) {
	f, err := Decode(strings.NewReader("[[gear]]\nnumTeeth = 11\nspiralType = 7\n[[pinion]]\nnumTeeth = 9\n"))
	require.NoError(t, err)
	_, err = f.Spec()
	assert.ErrorContains(t, err, "spiralType 7")
}

func TestSaveAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := reference(t)

	path, err := Save(fs, demo, s)
	require.NoError(t, err)
	assert.Equal(t, "/work/demo/BevelGearParameters_demo.toml", path)

	f, err := Load(fs, path)
	require.NoError(t, err)
	again, err := f.Solve()
	require.NoError(t, err)
	assert.Equal(t, s.MakeGear(), again.MakeGear())

	_, err = Load(fs, "/nowhere.toml")
	assert.Error(t, err)
}

func TestSaveRejectsBadProject(t *testing.T) {
	_, err := Save(afero.NewMemMapFs(), design.Project{Name: "", RootDir: "/x"}, reference(t))
	assert.Error(t, err)
}

func TestReadProjectAndFind(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := reference(t)
	_, err := Save(fs, demo, s)
	require.NoError(t, err)
	_, err = Save(fs, design.Project{Name: "alpha", RootDir: demo.RootDir}, s)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/work/demo/notes.toml", []byte("x = 1\n"), 0o644))

	paths, err := Find(fs, demo.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/work/demo/BevelGearParameters_alpha.toml",
		"/work/demo/BevelGearParameters_demo.toml",
	}, paths)

	f, err := fs.Open(paths[1])
	require.NoError(t, err)
	defer f.Close()
	p, err := ReadProject(f)
	require.NoError(t, err)
	assert.Equal(t, demo, p)

	none, err := Find(fs, "/missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
