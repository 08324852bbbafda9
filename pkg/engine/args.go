package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bevel/pkg/gear"
	"github.com/chazu/bevel/pkg/macro"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPair wraps the solved pair returned by `bevel-pair`.
type sexpPair struct {
	spec *gear.SolvedSpec
}

func (p *sexpPair) SexpString(ps *zygo.PrintState) string {
	in := p.spec.Input()
	return fmt.Sprintf("(bevel-pair %d:%d m%g)", in.GearTeeth, in.PinionTeeth, in.Module)
}
func (p *sexpPair) Type() *zygo.RegisteredType { return nil }

// sexpGeometry wraps a macro.Geometry so it can be returned from the
// *-macro builtins and consumed by `pair-macro`.
type sexpGeometry struct {
	geom macro.Geometry
}

func (g *sexpGeometry) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s-macro :outer-dia %g)", g.geom.Kind(), g.geom.OuterDia)
}
func (g *sexpGeometry) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	fn         string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(fn string, args []zygo.Sexp) kwArgs {
	result := kwArgs{fn: fn, kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// only fails when a keyword outside allowed was given, so a misspelled
// parameter does not silently fall back to its default.
func (a kwArgs) only(allowed ...string) error {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}
	var unknown []string
	for k := range a.kw {
		if !known[k] {
			unknown = append(unknown, ":"+k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown keyword %s", a.fn, strings.Join(unknown, ", "))
}

// floatField binds a keyword to the float it sets.
type floatField struct {
	key string
	dst *float64
}

// floats assigns every present keyword in fields.
func (a kwArgs) floats(fields ...floatField) error {
	for _, f := range fields {
		v, ok := a.kw[f.key]
		if !ok {
			continue
		}
		x, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", a.fn, f.key, err)
		}
		*f.dst = x
	}
	return nil
}

// integer assigns the keyword to dst when present.
func (a kwArgs) integer(key string, dst *int) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	*dst = n
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && math.Abs(v.Val) < math.MaxInt32 {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_milling) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toGeometry extracts the geometry built by one of the *-macro builtins.
func toGeometry(s zygo.Sexp) (macro.Geometry, error) {
	if g, ok := s.(*sexpGeometry); ok {
		return g.geom, nil
	}
	return macro.Geometry{}, fmt.Errorf("expected macro geometry, got %T (%s)", s, s.SexpString(nil))
}
