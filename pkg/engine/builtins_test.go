package engine

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
	"github.com/chazu/bevel/pkg/macro"
)

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(project :name "demo")`,
			expect: `(project "__kw_name" "demo")`,
		},
		{
			name:   "multiple keywords",
			input:  `(bevel-pair :module 5 :backlash 0.1)`,
			expect: `(bevel_pair "__kw_module" 5 "__kw_backlash" 0.1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :kw a-b`",
			expect: "`raw :kw a-b`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(gear-macro :outer-dia 110)`,
			expect: `(gear_macro "__kw_outer-dia" 110)`,
		},
		{
			name:   "negative literal preserved",
			input:  `:root-cone-offset -0.74`,
			expect: `"__kw_root-cone-offset" -0.74`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(+ 1 2)",
			expect: "// simple comment\n(+ 1 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, src string) *design.Design {
	t.Helper()
	d, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return d
}

// evalFails evaluates src and returns the joined eval error messages.
func evalFails(t *testing.T, src string) string {
	t.Helper()
	d, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if d != nil || len(evalErrs) == 0 {
		t.Fatalf("expected eval errors, got design %+v", d)
	}
	var msgs []string
	for _, e := range evalErrs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

const referenceScript = `
; 9:11 reference pair
(project :name "demo" :root-dir "/tmp/demo")
(bevel-pair :gear-teeth 11 :pinion-teeth 9 :module 5.593454
            :backlash 0.1 :cone-clearance 1.5 :shaft-angle 90
            :face-cone-angle 60 :root-cone-angle 40
            :face-cone-offset 0 :root-cone-offset -0.74
            :inner-cone-distance 19.43 :outer-cone-distance 60
            :pressure-angle 20 :spiral-angle 0 :spiral-function :logarithmic)
(pair-macro
  :gear (gear-macro :outer-dia 110 :inner-dia 20 :apex-to-top 45 :rib-dia 60
                    :apex-to-web 30 :min-rib-thickness 3 :draft-angle 1
                    :process :injection-moulding
                    :apex-to-thrust-face 50 :stem-length 12)
  :pinion (spherical-pinion-macro :outer-dia 95 :inner-dia 10 :apex-to-top 40
                                  :rib-dia 50 :apex-to-web 28 :min-rib-thickness 3
                                  :process :milling
                                  :spherical-radius 20 :mounting-distance 55
                                  :mounting-point-dia 8 :spherical-cut-off 30
                                  :cut-off-step 2))
`

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

func TestReferenceScript(t *testing.T) {
	d := mustEval(t, referenceScript)

	if d.Project.Name != "demo" || d.Project.RootDir != "/tmp/demo" {
		t.Errorf("project = %+v", d.Project)
	}
	if d.Spec == nil {
		t.Fatal("expected solved pair")
	}
	if got := d.Spec.PitchConeAngle(); math.Abs(got-50.7106) > 0.01 {
		t.Errorf("pitch cone angle = %.4f, want 50.7106", got)
	}
	if got := d.Spec.PinionDedendum(); math.Abs(got-8.02153) > 0.01 {
		t.Errorf("pinion dedendum = %.4f, want 8.02153", got)
	}
	if d.Macro == nil {
		t.Fatal("expected pair macro")
	}

	gg := d.Macro.GearGeometry()
	if gg.Process != macro.InjectionMoulding || gg.OuterDia != 110 {
		t.Errorf("gear header = %+v", gg.Header)
	}
	gm, err := gg.AsGear()
	if err != nil || gm.StemLength != 12 {
		t.Errorf("gear payload = %+v, %v", gm, err)
	}
	sp, err := d.Macro.PinionGeometry().AsSpherical()
	if err != nil {
		t.Fatalf("pinion payload: %v", err)
	}
	if sp.SphericalRadius != 20 || sp.CutOffStep != 2 {
		t.Errorf("pinion payload = %+v", sp)
	}

	if r := design.ValidateAll(d); !r.OK() {
		t.Errorf("reference design has errors: %v", r.Errors)
	}
}

func TestBevelPairDefaults(t *testing.T) {
	d := mustEval(t, `(bevel-pair :gear-teeth 14 :module 4.77651 :root-cone-offset -1.5)`)
	in := d.Spec.Input()
	if in.GearTeeth != 14 || in.PinionTeeth != 9 {
		t.Errorf("teeth = %d/%d, want 14/9", in.GearTeeth, in.PinionTeeth)
	}
	if in.ConeClearance != gear.DefaultConeClearance || in.ShaftAngle != gear.DefaultShaftAngle {
		t.Errorf("defaults not applied: %+v", in)
	}
	if got := d.Spec.PitchConeAngle(); math.Abs(got-57.26477) > 0.01 {
		t.Errorf("pitch cone angle = %.4f, want 57.26477", got)
	}
}

func TestVariableReference(t *testing.T) {
	d := mustEval(t, `
(def teeth 11)
(def m (* 2 2.796727))
(bevel-pair :gear-teeth teeth :module m)
`)
	if d.Spec.Input().GearTeeth != 11 {
		t.Errorf("gear teeth = %d", d.Spec.Input().GearTeeth)
	}
	if math.Abs(d.Spec.Input().Module-5.593454) > 1e-9 {
		t.Errorf("module = %v", d.Spec.Input().Module)
	}
}

func TestStemPinionMacro(t *testing.T) {
	d := mustEval(t, `
(bevel-pair)
(pair-macro :gear (gear-macro :outer-dia 110 :apex-to-thrust-face 50)
            :pinion (stem-pinion-macro :outer-dia 95 :apex-to-thrust-face 40 :stem-length 10))
`)
	st, err := d.Macro.PinionGeometry().AsStem()
	if err != nil {
		t.Fatalf("AsStem: %v", err)
	}
	if st.StemLength != 10 {
		t.Errorf("stem length = %v", st.StemLength)
	}
	if _, err := d.Macro.PinionGeometry().AsSpherical(); !errors.Is(err, macro.ErrWrongVariant) {
		t.Errorf("AsSpherical on stem pinion: %v", err)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"invalid module", `(bevel-pair :module 0)`, "module"},
		{"singular shaft", `(bevel-pair :shaft-angle 180)`, "singular"},
		{"unknown keyword", `(bevel-pair :modul 5)`, ":modul"},
		{"fractional teeth", `(bevel-pair :gear-teeth 10.5)`, "whole number"},
		{"bad spiral", `(bevel-pair :spiral-function :helical)`, "spiral"},
		{"second pair", `(bevel-pair) (bevel-pair)`, "already defines a pair"},
		{"macro before pair", `(pair-macro :gear (gear-macro) :pinion (stem-pinion-macro))`, "no bevel-pair"},
		{"missing pinion", `(bevel-pair) (pair-macro :gear (gear-macro))`, "missing :pinion"},
		{"swapped sides", `(bevel-pair) (pair-macro :gear (stem-pinion-macro) :pinion (gear-macro))`, "gear side"},
		{"gear as pinion", `(bevel-pair) (pair-macro :gear (gear-macro) :pinion (gear-macro))`, "want spherical-pinion or stem-pinion"},
		{"not a geometry", `(bevel-pair) (pair-macro :gear 5 :pinion (stem-pinion-macro))`, "expected macro geometry"},
		{"bad process", `(gear-macro :process :casting)`, "manufacturing method"},
		{"bad project", `(project :name "a/b")`, "path separator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.src)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("errors %q do not mention %q", msg, tt.want)
			}
		})
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	d := mustEval(t, `(def od (+ 100 10)) (bevel-pair) (pair-macro :gear (gear-macro :outer-dia od) :pinion (stem-pinion-macro))`)
	if d.Macro.GearGeometry().OuterDia != 110 {
		t.Errorf("outer dia = %v, want 110", d.Macro.GearGeometry().OuterDia)
	}
}
