package design

import (
	"github.com/chazu/bevel/pkg/gear"
	"github.com/chazu/bevel/pkg/macro"
)

// ---------------------------------------------------------------------------
// Tier 3: body geometry and manufacturing
// ---------------------------------------------------------------------------

// validateMacro checks the body geometry of both members, when present.
func validateMacro(d *Design) ([]ValidationError, []ValidationWarning) {
	if d.Macro == nil {
		return nil, nil
	}

	var errs []ValidationError
	var warnings []ValidationWarning

	members := []struct {
		member Member
		geom   macro.Geometry
		inst   gear.Instance
	}{
		{MemberGear, d.Macro.GearGeometry(), d.Macro.Gear()},
		{MemberPinion, d.Macro.PinionGeometry(), d.Macro.Pinion()},
	}
	for _, m := range members {
		errs = append(errs, validateHeader(m.member, m.geom.Header)...)

		c := &payloadChecker{member: m.member}
		if err := m.geom.Match(c); err != nil {
			errs = append(errs, errorf(m.member, "%v", err))
		}
		errs = append(errs, c.errs...)

		if m.geom.Process.NeedsDraft() && m.geom.DraftAngle == 0 {
			warnings = append(warnings, warnf(m.member,
				"%s without draft angle; the part may not release", m.geom.Process))
		}
		if tip := m.inst.OuterTipDiameter(); m.geom.OuterDia < tip {
			warnings = append(warnings, warnf(m.member,
				"blank outer diameter %.3f is smaller than the tip diameter %.3f", m.geom.OuterDia, tip))
		}
	}

	return errs, warnings
}

func validateHeader(m Member, h macro.Header) []ValidationError {
	var errs []ValidationError
	if h.InnerDia <= 0 {
		errs = append(errs, errorf(m, "inner diameter is %.4f, must be positive", h.InnerDia))
	}
	if h.OuterDia <= h.InnerDia {
		errs = append(errs, errorf(m, "outer diameter %.4f must exceed inner diameter %.4f", h.OuterDia, h.InnerDia))
	}
	if h.RibDia < h.InnerDia || h.RibDia > h.OuterDia {
		errs = append(errs, errorf(m, "rib diameter %.4f must lie between %.4f and %.4f", h.RibDia, h.InnerDia, h.OuterDia))
	}
	if h.MinRibThickness <= 0 {
		errs = append(errs, errorf(m, "minimum rib thickness is %.4f, must be positive", h.MinRibThickness))
	}
	if h.DraftAngle < 0 || h.DraftAngle >= 90 {
		errs = append(errs, errorf(m, "draft angle %.4f must be in [0, 90)", h.DraftAngle))
	}
	return errs
}

// payloadChecker collects variant-specific findings.
type payloadChecker struct {
	member Member
	errs   []ValidationError
}

func (c *payloadChecker) stem(apexToThrustFace, stemLength float64) {
	if apexToThrustFace <= 0 {
		c.errs = append(c.errs, errorf(c.member, "apex to thrust face is %.4f, must be positive", apexToThrustFace))
	}
	if stemLength < 0 {
		c.errs = append(c.errs, errorf(c.member, "stem length is %.4f, must not be negative", stemLength))
	}
}

func (c *payloadChecker) VisitGear(_ macro.Header, g macro.GearMacro) error {
	c.stem(g.ApexToThrustFace, g.StemLength)
	return nil
}

func (c *payloadChecker) VisitStemPinion(_ macro.Header, p macro.PinionStemMacro) error {
	c.stem(p.ApexToThrustFace, p.StemLength)
	return nil
}

func (c *payloadChecker) VisitSphericalPinion(_ macro.Header, p macro.PinionSphericalMacro) error {
	if p.SphericalRadius <= 0 {
		c.errs = append(c.errs, errorf(c.member, "spherical radius is %.4f, must be positive", p.SphericalRadius))
	}
	if p.MountingPointDia <= 0 {
		c.errs = append(c.errs, errorf(c.member, "mounting point diameter is %.4f, must be positive", p.MountingPointDia))
	}
	if p.SphericalCutOff < 0 || p.SphericalCutOff > 2*p.SphericalRadius {
		c.errs = append(c.errs, errorf(c.member,
			"spherical cut-off %.4f must be between 0 and the sphere diameter %.4f", p.SphericalCutOff, 2*p.SphericalRadius))
	}
	if p.CutOffStep < 0 {
		c.errs = append(c.errs, errorf(c.member, "cut-off step is %.4f, must not be negative", p.CutOffStep))
	}
	return nil
}
