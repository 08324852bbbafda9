// Package params reads and writes bevel pair parameter files: TOML with a
// [[project]] table naming the design and [[gear]] and [[pinion]] tables
// carrying the member parameters. Importing a file re-solves the pair from
// the gear table plus the pinion tooth count.
package params

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
)

// ErrMissingSection is returned when a file lacks a required table.
var ErrMissingSection = errors.New("params: missing section")

// ProjectSection is the [[project]] table.
type ProjectSection struct {
	ProjectName string `toml:"projectName"`
	RootDir     string `toml:"rootDir"`
}

// MemberSection is a [[gear]] or [[pinion]] table.
type MemberSection struct {
	NumTeeth          int     `toml:"numTeeth"`
	Module            float64 `toml:"module"`
	Backlash          float64 `toml:"backlash"`
	ConeClearance     float64 `toml:"coneClearance"`
	ShaftAngle        float64 `toml:"shaftAngle"`
	FaceConeAngle     float64 `toml:"faceConeAngle"`
	RootConeAngle     float64 `toml:"rootConeAngle"`
	FaceConeOffset    float64 `toml:"faceConeOffset"`
	RootConeOffset    float64 `toml:"rootConeOffset"`
	InnerConeDistance float64 `toml:"innerConeDistance"`
	OuterConeDistance float64 `toml:"outerConeDistance"`
	PressureAngle     float64 `toml:"pressureAngle"`
	SpiralAngle       float64 `toml:"spiralAngle"`
	SpiralType        int     `toml:"spiralType"`
}

// File is the decoded content of a parameter file.
type File struct {
	Project []ProjectSection `toml:"project"`
	Gear    []MemberSection  `toml:"gear"`
	Pinion  []MemberSection  `toml:"pinion"`
}

func memberSection(in gear.Instance, clearance float64) MemberSection {
	return MemberSection{
		NumTeeth:          in.NumTeeth,
		Module:            in.Module,
		Backlash:          in.Backlash,
		ConeClearance:     clearance,
		ShaftAngle:        in.ShaftAngle,
		FaceConeAngle:     in.FaceConeAngle,
		RootConeAngle:     in.RootConeAngle,
		FaceConeOffset:    in.FaceConeOffset,
		RootConeOffset:    in.RootConeOffset,
		InnerConeDistance: in.InnerConeDistance,
		OuterConeDistance: in.OuterConeDistance,
		PressureAngle:     in.PressureAngle,
		SpiralAngle:       in.SpiralAngle,
		SpiralType:        int(in.SpiralFunction),
	}
}

// NewFile captures a project and both instances of a solved pair.
func NewFile(p design.Project, s *gear.SolvedSpec) File {
	c := s.Input().ConeClearance
	return File{
		Project: []ProjectSection{{ProjectName: p.Name, RootDir: p.RootDir}},
		Gear:    []MemberSection{memberSection(s.MakeGear(), c)},
		Pinion:  []MemberSection{memberSection(s.MakePinion(), c)},
	}
}

// ProjectInfo returns the first [[project]] table as a design.Project.
func (f File) ProjectInfo() (design.Project, error) {
	if len(f.Project) == 0 {
		return design.Project{}, fmt.Errorf("%w: project", ErrMissingSection)
	}
	return design.Project{Name: f.Project[0].ProjectName, RootDir: f.Project[0].RootDir}, nil
}

// Spec rebuilds the macro parameters: everything from the gear table,
// the pinion tooth count from the pinion table.
func (f File) Spec() (gear.Spec, error) {
	if len(f.Gear) == 0 {
		return gear.Spec{}, fmt.Errorf("%w: gear", ErrMissingSection)
	}
	if len(f.Pinion) == 0 {
		return gear.Spec{}, fmt.Errorf("%w: pinion", ErrMissingSection)
	}
	g := f.Gear[0]
	fn := gear.SpiralFunction(g.SpiralType)
	if !fn.Valid() {
		return gear.Spec{}, fmt.Errorf("params: spiralType %d is not a known spiral function", g.SpiralType)
	}
	return gear.Spec{
		GearTeeth:         g.NumTeeth,
		PinionTeeth:       f.Pinion[0].NumTeeth,
		Module:            g.Module,
		Backlash:          g.Backlash,
		ConeClearance:     g.ConeClearance,
		ShaftAngle:        g.ShaftAngle,
		FaceConeAngle:     g.FaceConeAngle,
		RootConeAngle:     g.RootConeAngle,
		FaceConeOffset:    g.FaceConeOffset,
		RootConeOffset:    g.RootConeOffset,
		InnerConeDistance: g.InnerConeDistance,
		OuterConeDistance: g.OuterConeDistance,
		PressureAngle:     g.PressureAngle,
		SpiralAngle:       g.SpiralAngle,
		SpiralFunction:    fn,
	}, nil
}

// Solve rebuilds the spec and solves it.
func (f File) Solve() (*gear.SolvedSpec, error) {
	spec, err := f.Spec()
	if err != nil {
		return nil, err
	}
	return gear.Solve(spec)
}

// Encode writes the parameter file for p and s to w.
func Encode(w io.Writer, p design.Project, s *gear.SolvedSpec) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(NewFile(p, s)); err != nil {
		return fmt.Errorf("params: encode: %w", err)
	}
	return nil
}

// Decode reads a parameter file. Whole numbers are accepted for every
// float key, and a gear table without coneClearance takes
// gear.DefaultConeClearance, so files written by older exporters load.
func Decode(r io.Reader) (File, error) {
	var raw map[string]any
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return File{}, fmt.Errorf("params: decode: %w", err)
	}

	var f File
	for _, t := range tables(raw, "project") {
		name, err := stringKey(t, "projectName")
		if err != nil {
			return File{}, err
		}
		root, err := stringKey(t, "rootDir")
		if err != nil {
			return File{}, err
		}
		f.Project = append(f.Project, ProjectSection{ProjectName: name, RootDir: root})
	}
	for _, sec := range []struct {
		name string
		dst  *[]MemberSection
	}{
		{"gear", &f.Gear},
		{"pinion", &f.Pinion},
	} {
		for _, t := range tables(raw, sec.name) {
			m, err := decodeMember(sec.name, t)
			if err != nil {
				return File{}, err
			}
			*sec.dst = append(*sec.dst, m)
		}
	}
	return f, nil
}

func decodeMember(section string, t map[string]any) (MemberSection, error) {
	m := MemberSection{ConeClearance: gear.DefaultConeClearance}

	teeth, err := intKey(t, "numTeeth")
	if err != nil {
		return m, fmt.Errorf("params: [[%s]]: %w", section, err)
	}
	m.NumTeeth = teeth
	spiral, err := intKey(t, "spiralType")
	if err != nil {
		return m, fmt.Errorf("params: [[%s]]: %w", section, err)
	}
	m.SpiralType = spiral

	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"module", &m.Module},
		{"backlash", &m.Backlash},
		{"coneClearance", &m.ConeClearance},
		{"shaftAngle", &m.ShaftAngle},
		{"faceConeAngle", &m.FaceConeAngle},
		{"rootConeAngle", &m.RootConeAngle},
		{"faceConeOffset", &m.FaceConeOffset},
		{"rootConeOffset", &m.RootConeOffset},
		{"innerConeDistance", &m.InnerConeDistance},
		{"outerConeDistance", &m.OuterConeDistance},
		{"pressureAngle", &m.PressureAngle},
		{"spiralAngle", &m.SpiralAngle},
	} {
		v, ok := t[f.key]
		if !ok {
			continue
		}
		x, err := number(v)
		if err != nil {
			return m, fmt.Errorf("params: [[%s]] %s: %w", section, f.key, err)
		}
		*f.dst = x
	}
	return m, nil
}

// tables returns the array of tables stored under key. A single [key]
// table is accepted as a one-element array.
func tables(raw map[string]any, key string) []map[string]any {
	switch v := raw[key].(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case []map[string]any:
		return v
	case map[string]any:
		return []map[string]any{v}
	}
	return nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func intKey(t map[string]any, key string) (int, error) {
	v, ok := t[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%s: expected integer, got %v", key, v)
}

func stringKey(t map[string]any, key string) (string, error) {
	v, ok := t[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("params: [[project]] %s: expected string, got %T", key, v)
	}
	return s, nil
}
