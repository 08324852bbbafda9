package macro

import (
	"fmt"
	"strings"
)

// ManufacturingMethod is the process the blank is made with. It drives
// draft and rib advisories.
type ManufacturingMethod int

const (
	ThreeD            ManufacturingMethod = iota // additive, no draft needed
	InjectionMoulding                            // moulded, needs draft
	Forging                                      // forged, needs draft
	Milling                                      // machined from stock
)

func (m ManufacturingMethod) String() string {
	switch m {
	case ThreeD:
		return "3D Printing"
	case InjectionMoulding:
		return "Injection Moulding"
	case Forging:
		return "Forging"
	case Milling:
		return "Milling"
	default:
		return fmt.Sprintf("ManufacturingMethod(%d)", int(m))
	}
}

// NeedsDraft reports whether parts made this way must be released from a
// die or mould.
func (m ManufacturingMethod) NeedsDraft() bool {
	return m == InjectionMoulding || m == Forging
}

// ParseManufacturingMethod accepts the display names as well as the short
// script keywords ("3d", "injection-moulding", "forging", "milling").
func ParseManufacturingMethod(s string) (ManufacturingMethod, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "3d", "3dprinting", "threed", "printing":
		return ThreeD, nil
	case "injectionmoulding", "injectionmolding", "moulding", "molding":
		return InjectionMoulding, nil
	case "forging", "forged":
		return Forging, nil
	case "milling", "milled", "machining":
		return Milling, nil
	}
	return 0, fmt.Errorf("macro: unknown manufacturing method %q", s)
}
