// Package report lays out the derived values of a bevel pair as a
// Variable | Gear | Pinion table.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/chazu/bevel/pkg/gear"
)

// DefaultPrecision is the number of significant digits numbers are
// printed with.
const DefaultPrecision = 6

// Row is one line of the table. Gear and Pinion hold the formatted values.
type Row struct {
	Label  string `json:"label"`
	Gear   string `json:"gear"`
	Pinion string `json:"pinion"`
}

// Merged reports whether both members share the value, in which case the
// row shows it once across both columns.
func (r Row) Merged() bool {
	return r.Gear == r.Pinion
}

// Formatter turns instance values into table cells.
type Formatter struct {
	Precision int
}

func (f Formatter) num(v float64) string {
	p := f.Precision
	if p <= 0 {
		p = DefaultPrecision
	}
	return strconv.FormatFloat(v, 'g', p, 64)
}

// Rows builds the table for a gear and its pinion.
func (f Formatter) Rows(g, p gear.Instance) []Row {
	row := func(label string, gv, pv float64) Row {
		return Row{Label: label, Gear: f.num(gv), Pinion: f.num(pv)}
	}
	return []Row{
		{Label: "Teeth", Gear: strconv.Itoa(g.NumTeeth), Pinion: strconv.Itoa(p.NumTeeth)},
		row("Pitch Cone Angle", g.PitchConeAngle, p.PitchConeAngle),
		row("Face Cone Angle", g.FaceConeAngle, p.FaceConeAngle),
		row("Root Cone Angle", g.RootConeAngle, p.RootConeAngle),
		row("Module", g.Module, p.Module),
		row("Face Cone Offset", g.FaceConeOffset, p.FaceConeOffset),
		row("Root Cone Offset", g.RootConeOffset, p.RootConeOffset),
		row("Inner Cone Distance", g.InnerConeDistance, p.InnerConeDistance),
		row("Outer Cone Distance", g.OuterConeDistance, p.OuterConeDistance),
		row("Pitch Cone Distance", g.PitchConeDistance, p.PitchConeDistance),
		row("Addendum", g.Addendum, p.Addendum),
		row("Dedendum", g.Dedendum, p.Dedendum),
		row("Backlash", g.Backlash, p.Backlash),
		row("Shaft Angle", g.ShaftAngle, p.ShaftAngle),
		row("Pressure Angle", g.PressureAngle, p.PressureAngle),
		row("Spiral Angle", g.SpiralAngle, p.SpiralAngle),
		{Label: "Spiral Function", Gear: g.SpiralFunction.String(), Pinion: p.SpiralFunction.String()},
	}
}

// Rows builds the table with DefaultPrecision.
func Rows(g, p gear.Instance) []Row {
	return Formatter{}.Rows(g, p)
}

// Render writes rows as an aligned text table. Merged rows print their
// value once, centred between the two value columns.
func Render(w io.Writer, rows []Row) error {
	width := len("Pinion")
	for _, r := range rows {
		width = max(width, len(r.Gear), len(r.Pinion))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Variable\t%-*s\t%s\n", width, "Gear", "Pinion")
	for _, r := range rows {
		if r.Merged() {
			fmt.Fprintf(tw, "%s\t%s\n", r.Label, center(r.Gear, 2*width+2))
			continue
		}
		fmt.Fprintf(tw, "%s\t%-*s\t%s\n", r.Label, width, r.Gear, r.Pinion)
	}
	return tw.Flush()
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return fmt.Sprintf("%*s%s", left, "", s)
}
