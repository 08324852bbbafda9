package gear

import (
	"fmt"
	"strings"
)

// SpiralFunction selects the curve used for spiral tooth generation.
// The numeric values are stable and used in parameter files.
type SpiralFunction int

const (
	Logarithmic SpiralFunction = 0
	CircularCut SpiralFunction = 1
	Involute    SpiralFunction = 2
)

func (f SpiralFunction) String() string {
	switch f {
	case Logarithmic:
		return "Logarithmic"
	case CircularCut:
		return "CircularCut"
	case Involute:
		return "Involute"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the known spiral functions.
func (f SpiralFunction) Valid() bool {
	return f >= Logarithmic && f <= Involute
}

// ParseSpiralFunction accepts the String form as well as kebab-case and
// spaced variants ("circular-cut", "Circular Cut"), case-insensitively.
func ParseSpiralFunction(s string) (SpiralFunction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "logarithmic":
		return Logarithmic, nil
	case "circularcut":
		return CircularCut, nil
	case "involute":
		return Involute, nil
	}
	return 0, fmt.Errorf("unknown spiral function %q", s)
}
