package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
	"github.com/chazu/bevel/pkg/macro"
)

// builder accumulates the design while a script runs.
type builder struct {
	design *design.Design
}

func newBuilder(p design.Project) *builder {
	d := design.New()
	d.Project = p
	return &builder{design: d}
}

var headerKeys = []string{
	"outer-dia", "inner-dia", "apex-to-top", "rib-dia",
	"apex-to-web", "min-rib-thickness", "draft-angle", "process",
}

// header reads the keywords every *-macro builtin shares.
func (a kwArgs) header() (macro.Header, error) {
	var h macro.Header
	err := a.floats(
		floatField{"outer-dia", &h.OuterDia},
		floatField{"inner-dia", &h.InnerDia},
		floatField{"apex-to-top", &h.ApexToTop},
		floatField{"rib-dia", &h.RibDia},
		floatField{"apex-to-web", &h.ApexToWeb},
		floatField{"min-rib-thickness", &h.MinRibThickness},
		floatField{"draft-angle", &h.DraftAngle},
	)
	if err != nil {
		return h, err
	}
	if v, ok := a.kw["process"]; ok {
		s, err := toKeywordString(v)
		if err != nil {
			return h, fmt.Errorf("%s: process: %w", a.fn, err)
		}
		m, err := macro.ParseManufacturingMethod(s)
		if err != nil {
			return h, fmt.Errorf("%s: process: %w", a.fn, err)
		}
		h.Process = m
	}
	return h, nil
}

// registerBuiltins installs the design builtins into a zygomys environment.
// Builtins record into b.design as the script runs.
//
// Source must be preprocessed with preprocessSource() first, so :keyword
// tokens are recognizable and kebab-case names match the registered
// snake_case ones.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (project :name "demo" :root-dir "/tmp/out")
	// -----------------------------------------------------------------------
	env.AddFunction("project", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("project", args)
		if err := pa.only("name", "root-dir"); err != nil {
			return zygo.SexpNull, err
		}

		p := b.design.Project
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("project: name: %w", err)
			}
			p.Name = s
		}
		if v, ok := pa.kw["root-dir"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("project: root-dir: %w", err)
			}
			p.RootDir = s
		}
		if err := p.Check(); err != nil {
			return zygo.SexpNull, fmt.Errorf("project: %w", err)
		}

		b.design.Project = p
		return &zygo.SexpStr{S: p.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (bevel-pair :gear-teeth 11 :pinion-teeth 9 :module 5.593454 ...)
	//
	// Omitted keywords keep their gear.DefaultSpec values.
	// -----------------------------------------------------------------------
	env.AddFunction("bevel_pair", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("bevel-pair", args)
		err := pa.only(
			"gear-teeth", "pinion-teeth", "module", "backlash", "cone-clearance",
			"shaft-angle", "face-cone-angle", "root-cone-angle", "face-cone-offset",
			"root-cone-offset", "inner-cone-distance", "outer-cone-distance",
			"pressure-angle", "spiral-angle", "spiral-function",
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		if b.design.Spec != nil {
			return zygo.SexpNull, fmt.Errorf("bevel-pair: design already defines a pair")
		}

		spec := gear.DefaultSpec()
		if err := pa.integer("gear-teeth", &spec.GearTeeth); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.integer("pinion-teeth", &spec.PinionTeeth); err != nil {
			return zygo.SexpNull, err
		}
		err = pa.floats(
			floatField{"module", &spec.Module},
			floatField{"backlash", &spec.Backlash},
			floatField{"cone-clearance", &spec.ConeClearance},
			floatField{"shaft-angle", &spec.ShaftAngle},
			floatField{"face-cone-angle", &spec.FaceConeAngle},
			floatField{"root-cone-angle", &spec.RootConeAngle},
			floatField{"face-cone-offset", &spec.FaceConeOffset},
			floatField{"root-cone-offset", &spec.RootConeOffset},
			floatField{"inner-cone-distance", &spec.InnerConeDistance},
			floatField{"outer-cone-distance", &spec.OuterConeDistance},
			floatField{"pressure-angle", &spec.PressureAngle},
			floatField{"spiral-angle", &spec.SpiralAngle},
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["spiral-function"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bevel-pair: spiral-function: %w", err)
			}
			fn, err := gear.ParseSpiralFunction(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bevel-pair: spiral-function: %w", err)
			}
			spec.SpiralFunction = fn
		}

		solved, err := gear.Solve(spec)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bevel-pair: %w", err)
		}

		b.design.Spec = solved
		return &sexpPair{spec: solved}, nil
	})

	// -----------------------------------------------------------------------
	// (gear-macro <header keys> :apex-to-thrust-face 50 :stem-length 12)
	// -----------------------------------------------------------------------
	env.AddFunction("gear_macro", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("gear-macro", args)
		if err := pa.only(append(headerKeys, "apex-to-thrust-face", "stem-length")...); err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.header()
		if err != nil {
			return zygo.SexpNull, err
		}
		var g macro.GearMacro
		err = pa.floats(
			floatField{"apex-to-thrust-face", &g.ApexToThrustFace},
			floatField{"stem-length", &g.StemLength},
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: macro.NewGear(h, g)}, nil
	})

	// -----------------------------------------------------------------------
	// (spherical-pinion-macro <header keys> :spherical-radius 20
	//                         :mounting-distance 55 :mounting-point-dia 8
	//                         :spherical-cut-off 30 :cut-off-step 2)
	// -----------------------------------------------------------------------
	env.AddFunction("spherical_pinion_macro", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("spherical-pinion-macro", args)
		err := pa.only(append(headerKeys,
			"spherical-radius", "mounting-distance", "mounting-point-dia",
			"spherical-cut-off", "cut-off-step")...)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.header()
		if err != nil {
			return zygo.SexpNull, err
		}
		var p macro.PinionSphericalMacro
		err = pa.floats(
			floatField{"spherical-radius", &p.SphericalRadius},
			floatField{"mounting-distance", &p.MountingDistance},
			floatField{"mounting-point-dia", &p.MountingPointDia},
			floatField{"spherical-cut-off", &p.SphericalCutOff},
			floatField{"cut-off-step", &p.CutOffStep},
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: macro.NewSphericalPinion(h, p)}, nil
	})

	// -----------------------------------------------------------------------
	// (stem-pinion-macro <header keys> :apex-to-thrust-face 40 :stem-length 10)
	// -----------------------------------------------------------------------
	env.AddFunction("stem_pinion_macro", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("stem-pinion-macro", args)
		if err := pa.only(append(headerKeys, "apex-to-thrust-face", "stem-length")...); err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.header()
		if err != nil {
			return zygo.SexpNull, err
		}
		var p macro.PinionStemMacro
		err = pa.floats(
			floatField{"apex-to-thrust-face", &p.ApexToThrustFace},
			floatField{"stem-length", &p.StemLength},
		)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: macro.NewStemPinion(h, p)}, nil
	})

	// -----------------------------------------------------------------------
	// (pair-macro :gear (gear-macro ...) :pinion (stem-pinion-macro ...))
	// -----------------------------------------------------------------------
	env.AddFunction("pair_macro", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("pair-macro", args)
		if err := pa.only("gear", "pinion"); err != nil {
			return zygo.SexpNull, err
		}
		if b.design.Spec == nil {
			return zygo.SexpNull, fmt.Errorf("pair-macro: no bevel-pair defined before it")
		}
		if b.design.Macro != nil {
			return zygo.SexpNull, fmt.Errorf("pair-macro: design already defines a pair macro")
		}

		var geoms [2]macro.Geometry
		for i, key := range []string{"gear", "pinion"} {
			v, ok := pa.kw[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("pair-macro: missing :%s", key)
			}
			g, err := toGeometry(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pair-macro: %s: %w", key, err)
			}
			geoms[i] = g
		}

		pm, err := macro.NewPairMacro(b.design.Spec, geoms[0], geoms[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pair-macro: %w", err)
		}

		b.design.Macro = pm
		return &sexpPair{spec: b.design.Spec}, nil
	})
}
